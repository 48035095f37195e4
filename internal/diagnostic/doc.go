// Package diagnostic provides structured warnings and errors for the
// best-effort passes of the slicer front-end.
//
// Passes that must never fail outright (inheritance flattening, section
// assignment, settings validation, profile extraction) record what they
// could not do here instead of returning an error:
//   - Missing or cyclic base profiles
//   - Engine keys routed to the catch-all section
//   - Inconsistent translation rules
//   - Settings outside their declared bounds
package diagnostic
