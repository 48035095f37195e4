package translate

import (
	"fmt"

	"slicerweb/internal/common"
	"slicerweb/internal/slicerr"
)

// Table is the immutable bidirectional key translation table.
// Build one with NewTable and share it; all methods are safe for
// concurrent use.
type Table struct {
	byUI     map[string]entry
	byEngine map[string]entry
	rules    []Rule
}

type entry struct {
	rule      Rule
	transform *Transform
}

// NewTable validates rf against reg and builds a table.
// A nil registry means the built-in transforms.
func NewTable(rf *RuleFile, reg *Registry) (*Table, error) {
	if reg == nil {
		reg = BuiltinRegistry()
	}

	diags := Validate(rf, reg)
	if err := diags.Error(); err != nil {
		return nil, slicerr.Wrap(slicerr.KindConfiguration, "translate.NewTable", "", err)
	}

	t := &Table{
		byUI:     make(map[string]entry, len(rf.Rules)),
		byEngine: make(map[string]entry, len(rf.Rules)),
		rules:    append([]Rule(nil), rf.Rules...),
	}

	for _, r := range rf.Rules {
		e := entry{rule: r}
		if r.Transform != "" {
			e.transform = reg.Get(r.Transform)
		}

		t.byUI[r.UIKey] = e
		t.byEngine[r.EngineKey] = e
	}

	return t, nil
}

// Default builds the table from the embedded rules and built-in transforms.
func Default() *Table {
	t, err := NewTable(DefaultRules(), nil)
	if err != nil {
		panic(fmt.Sprintf("translate: embedded rules are invalid: %v", err))
	}

	return t
}

// Identity returns a table with no rules: every key maps to itself.
func Identity() *Table {
	return &Table{byUI: map[string]entry{}, byEngine: map[string]entry{}}
}

// Rules returns a copy of the rules in declaration order.
func (t *Table) Rules() []Rule {
	return append([]Rule(nil), t.rules...)
}

// Len returns the number of rules.
func (t *Table) Len() int {
	return len(t.rules)
}

// EngineKey returns the engine key for a UI key; unknown keys map to themselves.
func (t *Table) EngineKey(uiKey string) string {
	if e, ok := t.byUI[uiKey]; ok {
		return e.rule.EngineKey
	}

	return uiKey
}

// UIKey returns the UI key for an engine key; unknown keys map to themselves.
func (t *Table) UIKey(engineKey string) string {
	if e, ok := t.byEngine[engineKey]; ok {
		return e.rule.UIKey
	}

	return engineKey
}

// NeedsTranslation reports whether key, read in the source vocabulary of
// dir, is renamed or has its value transformed.
func (t *Table) NeedsTranslation(key string, dir Direction) bool {
	src := t.byUI
	if dir == ToUI {
		src = t.byEngine
	}

	e, ok := src[key]

	return ok && !e.rule.IsIdentity()
}

// ToEngineValue converts a single UI value for uiKey.
func (t *Table) ToEngineValue(uiKey string, v any) any {
	if e, ok := t.byUI[uiKey]; ok && e.transform != nil {
		return e.transform.ToEngine(v)
	}

	return v
}

// ToUIValue converts a single engine value for engineKey.
func (t *Table) ToUIValue(engineKey string, v any) any {
	if e, ok := t.byEngine[engineKey]; ok && e.transform != nil {
		return e.transform.ToUI(v)
	}

	return v
}

// ToEngineKeys maps UI settings onto engine keys and applies transforms.
// Keys without a rule pass through unchanged. When an unmapped key collides
// with a mapped key's target, the mapped value wins.
func (t *Table) ToEngineKeys(ui map[string]any) map[string]any {
	return t.translate(ui, t.byUI, func(e entry) string { return e.rule.EngineKey }, t.ToEngineValue)
}

// ToUIKeys is the inverse of ToEngineKeys.
func (t *Table) ToUIKeys(engine map[string]any) map[string]any {
	return t.translate(engine, t.byEngine, func(e entry) string { return e.rule.UIKey }, t.ToUIValue)
}

func (t *Table) translate(
	in map[string]any,
	index map[string]entry,
	target func(entry) string,
	value func(string, any) any,
) map[string]any {
	out := make(map[string]any, len(in))

	for k, v := range in {
		if _, ok := index[k]; !ok {
			out[k] = v
		}
	}

	// Sorted so the result does not depend on map iteration order.
	for _, k := range common.SortedKeys(in) {
		e, ok := index[k]
		if !ok {
			continue
		}

		out[target(e)] = value(k, in[k])
	}

	return out
}
