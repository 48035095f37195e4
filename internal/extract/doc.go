// Package extract builds the tiered profile storage layout from a vendor
// profile tree.
//
// The source tree holds one <vendor>.json manifest per vendor next to a
// <vendor>/ directory with machine/, filament/ and process/ preset files.
// Presets name their base with an "inherits" field; every preset of the
// vendor is a candidate base. Extraction resolves inheritance, assembles
// one VendorProfile per vendor, assigns it a tier, and writes
//
//	<out>/<tier>/<vendor>.json
//	<out>/index.json
//
// A preset that cannot be read is logged and skipped. A vendor whose
// manifest cannot be read is skipped. Inheritance problems are reported as
// diagnostics and never stop extraction.
package extract
