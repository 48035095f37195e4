package translate

import (
	"fmt"

	"slicerweb/internal/diagnostic"
)

// Validate checks a rule file against the transform registry.
// A valid file is one-to-one in both directions and only names known
// transforms.
func Validate(rf *RuleFile, reg *Registry) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if rf == nil {
		res.AddError(diagnostic.CodeEmptyKey, "rule file is nil", "", "")
		return res
	}

	if reg == nil {
		reg = NewRegistry()
	}

	seenUI := map[string]int{}
	seenEngine := map[string]int{}

	for i, r := range rf.Rules {
		scope := fmt.Sprintf("rules[%d]", i)

		if r.UIKey == "" || r.EngineKey == "" {
			res.AddError(diagnostic.CodeEmptyKey, "rule has an empty key", scope, r.UIKey)
			continue
		}

		if prev, ok := seenUI[r.UIKey]; ok {
			res.AddError(diagnostic.CodeDuplicateUIKey,
				fmt.Sprintf("ui key %q already mapped by rules[%d]", r.UIKey, prev), scope, r.UIKey)
		} else {
			seenUI[r.UIKey] = i
		}

		if prev, ok := seenEngine[r.EngineKey]; ok {
			res.AddError(diagnostic.CodeDuplicateEngineKey,
				fmt.Sprintf("engine key %q already mapped by rules[%d]", r.EngineKey, prev), scope, r.EngineKey)
		} else {
			seenEngine[r.EngineKey] = i
		}

		if r.Transform != "" && !reg.Has(r.Transform) {
			res.AddError(diagnostic.CodeUnknownTransform,
				fmt.Sprintf("unknown transform %q", r.Transform), scope, r.UIKey)
		}
	}

	validateShadowing(res, rf)

	return res
}

// validateShadowing warns when a renamed engine key is also the UI key of a
// different rule. Such tables are still bijective but read confusingly.
func validateShadowing(res *diagnostic.Diagnostics, rf *RuleFile) {
	uiKeys := make(map[string]struct{}, len(rf.Rules))
	for _, r := range rf.Rules {
		uiKeys[r.UIKey] = struct{}{}
	}

	for _, r := range rf.Rules {
		if r.EngineKey == r.UIKey {
			continue
		}

		if _, ok := uiKeys[r.EngineKey]; ok {
			res.AddWarning(diagnostic.CodeDuplicateEngineKey,
				fmt.Sprintf("engine key %q is also used as a ui key", r.EngineKey), r.UIKey, r.EngineKey)
		}
	}
}
