package schema

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"

	"cogentcore.org/core/base/strcase"

	"slicerweb/internal/diagnostic"
	"slicerweb/internal/translate"
)

// Builder builds schemas from engine payloads.
type Builder struct {
	table    *translate.Table
	registry *Registry
	logger   *slog.Logger
}

// NewBuilder creates a builder. A nil table translates nothing, a nil
// registry means the embedded one and a nil logger means slog.Default().
func NewBuilder(table *translate.Table, registry *Registry, logger *slog.Logger) *Builder {
	if table == nil {
		table = translate.Identity()
	}

	if registry == nil {
		registry = DefaultRegistry()
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Builder{table: table, registry: registry, logger: logger}
}

// Registry returns the section registry the builder places fields in.
func (b *Builder) Registry() *Registry {
	return b.registry
}

// Build converts a payload into a Schema. Every option yields exactly one
// field.
func (b *Builder) Build(ctx context.Context, p *Payload) *Schema {
	s := &Schema{
		Fields:          map[string]*Field{},
		Categories:      map[Category][]*Section{},
		InitialSettings: map[string]any{},
		EngineKeys:      map[string]string{},
		GeneratedAt:     p.GeneratedAt,
	}

	bySection := map[string][]*Field{}

	for _, cat := range p.Categories {
		for i := range cat.Options {
			opt := &cat.Options[i]

			label := opt.Category
			if label == "" {
				label = cat.Label
			}

			f := b.buildField(opt, label, &s.Diagnostics)
			f.Key = b.uniqueKey(s, f, &s.Diagnostics)

			if !b.registry.HasSection(f.Section) {
				s.Diagnostics.AddWarning(diagnostic.CodeOrphanSection,
					fmt.Sprintf("section %q is not defined, placed in %s", f.Section, AdvancedSection), f.Section, f.Key)
				f.Section = AdvancedSection
			}

			s.Fields[f.Key] = f
			s.InitialSettings[f.Key] = f.Default
			s.EngineKeys[f.Key] = f.EngineKey
			bySection[f.Section] = append(bySection[f.Section], f)
		}
	}

	for _, def := range b.registry.Sections() {
		fields := bySection[def.ID]
		if len(fields) == 0 {
			continue
		}

		slices.SortStableFunc(fields, func(a, c *Field) int {
			if a.Order != c.Order {
				return cmp.Compare(a.Order, c.Order)
			}

			return cmp.Compare(a.Key, c.Key)
		})

		s.Sections = append(s.Sections, &Section{SectionDef: def, Fields: fields})
	}

	slices.SortStableFunc(s.Sections, func(a, c *Section) int {
		if a.Order != c.Order {
			return cmp.Compare(a.Order, c.Order)
		}

		return b.registry.position(a.ID) - b.registry.position(c.ID)
	})

	for _, c := range Categories {
		s.Categories[c] = []*Section{}
	}

	for _, sec := range s.Sections {
		s.Categories[sec.Category] = append(s.Categories[sec.Category], sec)
	}

	s.Diagnostics.Log(ctx, b.logger)
	b.logger.LogAttrs(ctx, slog.LevelInfo, "schema built",
		slog.Int("options", p.OptionCount),
		slog.Int("fields", len(s.Fields)),
		slog.Int("sections", len(s.Sections)),
		slog.Int("warnings", len(s.Diagnostics.Warnings)),
	)

	return s
}

func (b *Builder) buildField(opt *Option, categoryLabel string, diags *diagnostic.Diagnostics) *Field {
	uiKey := b.table.UIKey(opt.Key)
	meta, hasMeta := b.registry.Field(uiKey)

	f := &Field{
		Key:          uiKey,
		EngineKey:    opt.Key,
		Name:         firstNonEmpty(meta.Name, opt.Label, strcase.ToSentence(uiKey)),
		Category:     meta.Category,
		Kind:         KindFromEngineType(opt.Type),
		Default:      b.table.ToUIValue(opt.Key, opt.Default),
		Min:          opt.Min,
		Max:          opt.Max,
		Unit:         firstNonEmpty(meta.Unit, opt.Unit),
		Tooltip:      firstNonEmpty(meta.Tooltip, opt.Tooltip),
		Options:      opt.EnumValues,
		OptionLabels: opt.EnumLabels,
		Order:        FallbackOrder,
		Advanced:     meta.Advanced || opt.IsAdvanced(),
		Dependencies: meta.Dependencies,
		IsVector:     opt.IsVector,
		Nullable:     opt.Nullable,
	}

	if meta.Kind != nil {
		f.Kind = *meta.Kind
	}

	if meta.Min != nil {
		f.Min = meta.Min
	}

	if meta.Max != nil {
		f.Max = meta.Max
	}

	if len(meta.Options) > 0 {
		f.Options = meta.Options
		f.OptionLabels = nil
	}

	switch {
	case hasMeta && meta.Order > 0:
		f.Order = meta.Order
	case opt.Ordinal != nil:
		f.Order = *opt.Ordinal
	}

	if f.Category == "" {
		f.Category = CategoryForKey(uiKey)
	}

	if meta.Section != "" {
		f.Section = meta.Section
	} else {
		var catchAll bool

		f.Section, catchAll = SectionFor(uiKey, categoryLabel)
		if catchAll {
			diags.AddInfo(diagnostic.CodeCatchAllSection,
				"no section rule matched, placed in "+AdvancedSection, categoryLabel, uiKey)
		}
	}

	return f
}

// uniqueKey resolves UI key collisions, which happen when an unmapped
// engine key equals the UI name of a renamed key.
func (b *Builder) uniqueKey(s *Schema, f *Field, diags *diagnostic.Diagnostics) string {
	if _, taken := s.Fields[f.Key]; !taken {
		return f.Key
	}

	key := f.EngineKey
	for n := 2; ; n++ {
		if _, taken := s.Fields[key]; !taken {
			break
		}

		key = f.EngineKey + "_" + strconv.Itoa(n)
	}

	diags.AddWarning(diagnostic.CodeDuplicateUIKey,
		fmt.Sprintf("ui key %q already used, engine key %q exposed as %q", f.Key, f.EngineKey, key), f.Section, f.Key)

	return key
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
