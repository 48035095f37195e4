package schema

import (
	_ "embed"
	"fmt"
	"os"

	"cogentcore.org/core/base/ordmap"
	"gopkg.in/yaml.v3"

	"slicerweb/internal/diagnostic"
	"slicerweb/internal/slicerr"
)

// AdvancedSection is the catch-all section every unplaced field falls into.
const AdvancedSection = "process_advanced"

//go:embed sections.yaml
var defaultMetadata []byte

// SectionDef is a predefined section without its fields.
type SectionDef struct {
	ID        string   `yaml:"id" json:"id"`
	Title     string   `yaml:"title" json:"title"`
	Category  Category `yaml:"category" json:"category"`
	Order     int      `yaml:"order" json:"order"`
	Icon      string   `yaml:"icon,omitempty" json:"icon,omitempty"`
	Collapsed bool     `yaml:"collapsed,omitempty" json:"collapsed"`
}

// FieldMeta is curated UI metadata for one UI key. Set fields override
// what the engine reports.
type FieldMeta struct {
	Name         string   `yaml:"name,omitempty"`
	Section      string   `yaml:"section,omitempty"`
	Category     Category `yaml:"category,omitempty"`
	Kind         *Kind    `yaml:"kind,omitempty"`
	Unit         string   `yaml:"unit,omitempty"`
	Min          *float64 `yaml:"min,omitempty"`
	Max          *float64 `yaml:"max,omitempty"`
	Order        int      `yaml:"order,omitempty"`
	Options      []string `yaml:"options,omitempty"`
	Tooltip      string   `yaml:"tooltip,omitempty"`
	Advanced     bool     `yaml:"advanced,omitempty"`
	Dependencies []string `yaml:"dependencies,omitempty"`
}

// metadataFile is the root of a section/field metadata YAML file.
type metadataFile struct {
	Version  string               `yaml:"version,omitempty"`
	Sections []SectionDef         `yaml:"sections"`
	Fields   map[string]FieldMeta `yaml:"fields,omitempty"`
}

// Registry is the fixed set of sections plus curated field metadata.
// It is read-only after loading.
type Registry struct {
	sections *ordmap.Map[string, SectionDef]
	fields   map[string]FieldMeta
}

// ParseRegistry parses section/field metadata YAML.
func ParseRegistry(data []byte) (*Registry, error) {
	const op = "schema.ParseRegistry"

	var mf metadataFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, slicerr.Wrap(slicerr.KindConfiguration, op, "", fmt.Errorf("failed to parse section metadata YAML: %w", err))
	}

	r := &Registry{
		sections: ordmap.New[string, SectionDef](),
		fields:   mf.Fields,
	}
	if r.fields == nil {
		r.fields = map[string]FieldMeta{}
	}

	for _, s := range mf.Sections {
		r.sections.Add(s.ID, s)
	}

	diags := validateMetadata(&mf)
	if err := diags.Error(); err != nil {
		return nil, slicerr.Wrap(slicerr.KindConfiguration, op, "", err)
	}

	return r, nil
}

// LoadRegistryFile loads section/field metadata from a YAML file.
func LoadRegistryFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, slicerr.Wrap(slicerr.KindConfiguration, "schema.LoadRegistryFile", path, err)
	}

	return ParseRegistry(data)
}

// DefaultRegistry returns the embedded registry.
func DefaultRegistry() *Registry {
	r, err := ParseRegistry(defaultMetadata)
	if err != nil {
		panic(fmt.Sprintf("schema: embedded sections.yaml is invalid: %v", err))
	}

	return r
}

func validateMetadata(mf *metadataFile) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	seen := map[string]struct{}{}

	for i, s := range mf.Sections {
		scope := fmt.Sprintf("sections[%d]", i)

		if s.ID == "" {
			res.AddError(diagnostic.CodeEmptyKey, "section has no id", scope, "")
			continue
		}

		if _, ok := seen[s.ID]; ok {
			res.AddError(diagnostic.CodeDuplicateUIKey, fmt.Sprintf("duplicate section %q", s.ID), scope, s.ID)
		}

		seen[s.ID] = struct{}{}

		if !s.Category.Valid() {
			res.AddError(diagnostic.CodeInvalidOption, fmt.Sprintf("section %q has unknown category %q", s.ID, s.Category), scope, s.ID)
		}
	}

	if _, ok := seen[AdvancedSection]; !ok {
		res.AddError(diagnostic.CodeCatchAllSection, fmt.Sprintf("catch-all section %q is not defined", AdvancedSection), "sections", AdvancedSection)
	}

	for key, f := range mf.Fields {
		if f.Category != "" && !f.Category.Valid() {
			res.AddError(diagnostic.CodeInvalidOption, fmt.Sprintf("field has unknown category %q", f.Category), "fields", key)
		}
	}

	return res
}

// Section returns the section definition for id.
func (r *Registry) Section(id string) (SectionDef, bool) {
	return r.sections.ValueByKeyTry(id)
}

// HasSection reports whether id is a predefined section.
func (r *Registry) HasSection(id string) bool {
	_, ok := r.sections.ValueByKeyTry(id)
	return ok
}

// Sections returns the section definitions in declaration order.
func (r *Registry) Sections() []SectionDef {
	return r.sections.Values()
}

// Field returns curated metadata for a UI key.
func (r *Registry) Field(uiKey string) (FieldMeta, bool) {
	f, ok := r.fields[uiKey]
	return f, ok
}

// position returns the declaration index of a section, used to break
// order ties between categories.
func (r *Registry) position(id string) int {
	idx, ok := r.sections.IndexByKeyTry(id)
	if !ok {
		return r.sections.Len()
	}

	return idx
}
