// Package slice runs slice jobs against an engine.
//
// A Client accepts UI-keyed settings, translates them to engine keys,
// hands them and the mesh to the engine, and returns the decoded G-code.
// It rejects slices before Start has succeeded (NotReady) and while another
// slice is running on the same engine (Busy). A caller that gives up on a
// slice gets its context error back at once, but the engine call runs to
// completion and the client stays busy until it does.
package slice
