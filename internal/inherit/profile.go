package inherit

import "maps"

// InheritsKey is the field naming a preset's base.
const InheritsKey = "inherits"

// Profile is a raw or resolved preset: a flat settings object.
type Profile map[string]any

// Inherits returns the base name, if the profile names one.
func (p Profile) Inherits() (string, bool) {
	name, ok := p[InheritsKey].(string)
	return name, ok && name != ""
}

// Name returns the profile's "name" field or "".
func (p Profile) Name() string {
	name, _ := p["name"].(string)
	return name
}

// String returns the string value of key, or "".
func (p Profile) String(key string) string {
	s, _ := p[key].(string)
	return s
}

// Clone returns a shallow copy.
func (p Profile) Clone() Profile {
	if p == nil {
		return Profile{}
	}

	return maps.Clone(p)
}

// Lookup finds base profiles by name.
type Lookup interface {
	Lookup(name string) (Profile, bool)
}

// Bases is a Lookup backed by a map.
type Bases map[string]Profile

// Lookup implements Lookup.
func (b Bases) Lookup(name string) (Profile, bool) {
	p, ok := b[name]
	return p, ok
}
