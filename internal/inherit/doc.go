// Package inherit flattens vendor preset inheritance chains.
//
// A raw preset may name a base preset in its "inherits" field. Resolve
// merges the resolved base under the preset's own fields and strips the
// pointer. Resolution is best-effort: a missing or cyclic base leaves the
// preset's own fields in place and is reported as a diagnostic, never as
// an error.
//
// CheckGraph lints a whole set of presets ahead of resolution using a
// deterministic topological sort.
package inherit
