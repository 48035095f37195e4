package translate

import (
	"sort"
	"strconv"
	"strings"

	"slicerweb/internal/common"
)

// Transform converts a value between the UI and engine representations.
type Transform struct {
	Name string
	// Description is shown in rule listings.
	Description string
	// ToEngine converts a UI value to its engine representation.
	ToEngine func(v any) any
	// ToUI is the inverse of ToEngine.
	ToUI func(v any) any
}

// Registry holds named transforms and provides lookup.
type Registry struct {
	transforms map[string]*Transform
}

// NewRegistry creates a new empty transform registry.
func NewRegistry() *Registry {
	return &Registry{
		transforms: make(map[string]*Transform),
	}
}

// BuiltinRegistry returns a registry holding the built-in transforms.
func BuiltinRegistry() *Registry {
	r := NewRegistry()
	r.Add(&Transform{
		Name:        "percent",
		Description: "number <-> \"N%\" string",
		ToEngine:    numberToPercent,
		ToUI:        percentToNumber,
	})
	r.Add(&Transform{
		Name:        "bool_flag",
		Description: "bool <-> \"1\"/\"0\" string",
		ToEngine:    boolToFlag,
		ToUI:        flagToBool,
	})
	r.Add(&Transform{
		Name:        "semicolon_list",
		Description: "string list <-> \"a;b\" string",
		ToEngine:    listToSemicolons,
		ToUI:        semicolonsToList,
	})

	return r
}

// Add adds a transform to the registry, replacing any of the same name.
func (r *Registry) Add(t *Transform) {
	r.transforms[t.Name] = t
}

// Get returns a transform by name, or nil if not found.
func (r *Registry) Get(name string) *Transform {
	return r.transforms[name]
}

// Has returns true if a transform with the given name exists.
func (r *Registry) Has(name string) bool {
	_, exists := r.transforms[name]
	return exists
}

// Names returns all transform names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.transforms))
	for name := range r.transforms {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func numberToPercent(v any) any {
	f, ok := common.ToFloat(v)
	if !ok {
		return v
	}

	return strconv.FormatFloat(f, 'f', -1, 64) + "%"
}

func percentToNumber(v any) any {
	s, ok := v.(string)
	if !ok || !strings.HasSuffix(s, "%") {
		return v
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, "%")), 64)
	if err != nil {
		return v
	}

	return f
}

func boolToFlag(v any) any {
	b, ok := v.(bool)
	if !ok {
		return v
	}

	if b {
		return "1"
	}

	return "0"
}

func flagToBool(v any) any {
	switch v {
	case "1":
		return true
	case "0":
		return false
	default:
		return v
	}
}

func listToSemicolons(v any) any {
	var items []string

	switch list := v.(type) {
	case []string:
		items = list
	case []any:
		items = make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return v
			}

			items = append(items, s)
		}
	default:
		return v
	}

	return strings.Join(items, ";")
}

func semicolonsToList(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}

	if s == "" {
		return []any{}
	}

	parts := strings.Split(s, ";")
	out := make([]any, len(parts))

	for i, p := range parts {
		out[i] = p
	}

	return out
}
