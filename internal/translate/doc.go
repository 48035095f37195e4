// Package translate provides the key translation table between the UI
// setting vocabulary and the slicing engine's setting vocabulary.
//
// Rules are declared in a YAML file; the built-in set is embedded from
// rules.yaml and may be replaced by an operator-supplied file.
//
// # Rule file
//
//	version: "1"
//	rules:
//	  # identity rule: UI and engine share the key
//	  - ui: layer_height
//	  # renamed key
//	  - ui: bed_temperature
//	    engine: hot_plate_temp
//	  # value transform applied UI -> engine, inverted engine -> UI
//	  - ui: sparse_infill_density
//	    transform: percent
//
// # Totality
//
// Translation is a total function in both directions: a key with no rule
// maps to itself and its value passes through untouched. Rules must be
// one-to-one; Validate rejects a file in which two rules share a UI key or
// an engine key, since either would break the round trip
// ToUIKeys(ToEngineKeys(s)) == s.
//
// # Transforms
//
// Transforms are referenced by name and resolved against a Registry.
// Each transform carries its inverse; the built-ins are lossless on their
// declared domain (numbers for percent, booleans for bool_flag, string
// lists for semicolon_list) and pass other values through unchanged.
package translate
