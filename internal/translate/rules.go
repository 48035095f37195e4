package translate

// RuleFile represents the root of a YAML translation rule file.
type RuleFile struct {
	// Version of the rule schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Rules lists the UI key to engine key pairs.
	Rules []Rule `yaml:"rules"`
}

// Rule maps one UI key onto one engine key.
type Rule struct {
	// UIKey is the key used by the front-end (stable slicer naming).
	UIKey string `yaml:"ui" json:"ui"`

	// EngineKey is the key the engine expects. Defaults to UIKey.
	EngineKey string `yaml:"engine,omitempty" json:"engine"`

	// Transform names a registered value transform, applied UI -> engine
	// and inverted engine -> UI. Empty means the value passes through.
	Transform string `yaml:"transform,omitempty" json:"transform,omitempty"`

	// Note is free text for reviewers; it has no effect.
	Note string `yaml:"note,omitempty" json:"-"`
}

// IsIdentity reports whether the rule neither renames nor transforms.
func (r Rule) IsIdentity() bool {
	return r.UIKey == r.EngineKey && r.Transform == ""
}

// Direction selects which vocabulary a translation produces.
type Direction int

const (
	// ToEngine translates UI keys to engine keys.
	ToEngine Direction = iota
	// ToUI translates engine keys to UI keys.
	ToUI
)

// String returns the direction name.
func (d Direction) String() string {
	if d == ToUI {
		return "to-ui"
	}

	return "to-engine"
}
