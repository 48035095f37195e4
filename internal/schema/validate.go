package schema

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"slicerweb/internal/common"
	"slicerweb/internal/diagnostic"
	"slicerweb/internal/match"
)

// Validate checks UI settings against field kinds, bounds and enum
// options. Keys the schema does not know pass, matching translation.
func (s *Schema) Validate(settings map[string]any) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}

	for _, key := range common.SortedKeys(settings) {
		f, ok := s.Fields[key]
		if !ok {
			continue
		}

		v := settings[key]
		if v == nil {
			if !f.Nullable {
				res.AddWarning(diagnostic.CodeWrongType, "value is null", f.Section, key)
			}

			continue
		}

		if list, isList := v.([]any); isList && f.IsVector {
			for i, item := range list {
				validateValue(res, f, fmt.Sprintf("%s[%d]", key, i), item)
			}

			continue
		}

		validateValue(res, f, key, v)
	}

	return res
}

func validateValue(res *diagnostic.Diagnostics, f *Field, key string, v any) {
	switch f.Kind {
	case KindFloat, KindInt, KindPercent:
		n, ok := numberOf(v, f.Kind)
		if !ok {
			res.AddError(diagnostic.CodeWrongType, fmt.Sprintf("expected a number, got %q", fmt.Sprint(v)), f.Section, key)
			return
		}

		if f.Kind == KindInt && n != math.Trunc(n) {
			res.AddError(diagnostic.CodeWrongType, fmt.Sprintf("expected an integer, got %v", n), f.Section, key)
			return
		}

		lo, hi := math.Inf(-1), math.Inf(1)
		if f.Min != nil {
			lo = *f.Min
		}

		if f.Max != nil {
			hi = *f.Max
		}

		if !common.IsInRange(lo, n, hi) {
			res.AddError(diagnostic.CodeOutOfRange, fmt.Sprintf("%v is outside [%v, %v]", n, lo, hi), f.Section, key)
		}
	case KindBool:
		if !isBool(v) {
			res.AddError(diagnostic.CodeWrongType, fmt.Sprintf("expected a boolean, got %v", v), f.Section, key)
		}
	case KindEnum:
		str, ok := v.(string)
		if !ok {
			res.AddError(diagnostic.CodeWrongType, fmt.Sprintf("expected one of the options, got %T", v), f.Section, key)
			return
		}

		if len(f.Options) == 0 || slices.Contains(f.Options, str) {
			return
		}

		d := diagnostic.Diagnostic{
			Severity: diagnostic.SeverityError,
			Code:     diagnostic.CodeInvalidOption,
			Message:  fmt.Sprintf("%q is not a valid option", str),
			Scope:    f.Section,
			Key:      key,
		}
		for _, sg := range match.Rank(str, f.Options, 3, 0.3) {
			d.Suggestions = append(d.Suggestions, sg.Name)
		}

		res.Errors = append(res.Errors, d)
	case KindString:
		if _, ok := v.(string); !ok {
			res.AddError(diagnostic.CodeWrongType, fmt.Sprintf("expected a string, got %T", v), f.Section, key)
		}
	}
}

// numberOf accepts decoded numbers and the serialized text form the engine
// uses for defaults ("0.2", and "15%" for percent fields).
func numberOf(v any, kind Kind) (float64, bool) {
	if n, ok := common.ToFloat(v); ok {
		return n, true
	}

	str, ok := v.(string)
	if !ok {
		return 0, false
	}

	str = strings.TrimSpace(str)
	if kind == KindPercent {
		str = strings.TrimSuffix(str, "%")
	}

	n, err := strconv.ParseFloat(str, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}

	return n, true
}

// isBool accepts booleans and their serialized forms ("1", "0", "true").
func isBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return true
	case string:
		_, err := strconv.ParseBool(strings.TrimSpace(b))
		return err == nil
	default:
		return false
	}
}
