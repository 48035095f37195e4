package schema

import "slicerweb/internal/diagnostic"

// FallbackOrder sorts fields without any order information last.
const FallbackOrder = 999

// Field is one UI-facing setting.
type Field struct {
	Key          string   `json:"key"`
	EngineKey    string   `json:"engineKey"`
	Name         string   `json:"displayName"`
	Section      string   `json:"section"`
	Category     Category `json:"category"`
	Kind         Kind     `json:"type"`
	Default      any      `json:"default,omitempty"`
	Min          *float64 `json:"min,omitempty"`
	Max          *float64 `json:"max,omitempty"`
	Unit         string   `json:"unit,omitempty"`
	Tooltip      string   `json:"tooltip,omitempty"`
	Options      []string `json:"options,omitempty"`
	OptionLabels []string `json:"optionLabels,omitempty"`
	Order        int      `json:"order"`
	Advanced     bool     `json:"advanced,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
	IsVector     bool     `json:"isVector,omitempty"`
	Nullable     bool     `json:"nullable,omitempty"`
}

// Section is a predefined section with its ordered fields.
type Section struct {
	SectionDef
	Fields []*Field `json:"fields"`
}

// Schema is the UI-facing schema built from one engine payload.
type Schema struct {
	// Sections holds the non-empty sections sorted by order.
	Sections []*Section `json:"sections"`
	// Fields indexes every field by UI key.
	Fields map[string]*Field `json:"-"`
	// Categories indexes sections by top-level category.
	Categories map[Category][]*Section `json:"-"`
	// InitialSettings maps UI keys to their defaults.
	InitialSettings map[string]any `json:"initialSettings"`
	// EngineKeys maps UI keys to the originating engine keys.
	EngineKeys map[string]string `json:"engineKeys"`
	// GeneratedAt is copied from the payload.
	GeneratedAt string `json:"generatedAt,omitempty"`
	// Diagnostics collects orphaned and catch-all placements.
	Diagnostics diagnostic.Diagnostics `json:"diagnostics"`
}

// Field returns the field for a UI key.
func (s *Schema) Field(uiKey string) (*Field, bool) {
	f, ok := s.Fields[uiKey]
	return f, ok
}

// FieldCount returns the total number of fields across all sections.
func (s *Schema) FieldCount() int {
	n := 0
	for _, sec := range s.Sections {
		n += len(sec.Fields)
	}

	return n
}
