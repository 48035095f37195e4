// Package schema turns the engine's described configuration into the
// UI-facing settings schema.
//
// The engine describes its configuration surface as categories of option
// descriptors (see Payload). Build maps every option to exactly one Field:
//
//  1. the UI key comes from the translation table (engine -> UI);
//  2. curated metadata for that UI key, when present, overrides the
//     engine's label, kind, section and order;
//  3. the top-level category is derived from the UI key prefix;
//  4. the section comes from metadata, or from the ordered SectionRules
//     table, which always ends in the advanced catch-all;
//  5. fields whose section is not in the Registry land in the advanced
//     section with an orphan_section warning.
//
// No option is ever dropped: len(Schema.Fields) equals the number of
// options in the payload, and each field appears in exactly one section.
package schema
