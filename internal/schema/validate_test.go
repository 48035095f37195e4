package schema

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slicerweb/internal/diagnostic"
	"slicerweb/internal/translate"
)

func buildValidationSchema(t *testing.T) *Schema {
	t.Helper()

	b := NewBuilder(translate.Identity(), nil, quietLogger())

	return b.Build(context.Background(), &Payload{
		OptionCount: 5,
		Categories: []OptionCategory{{
			Options: []Option{
				{Key: "layer_height", Type: "float"},
				{Key: "wall_loops", Type: "int"},
				{Key: "enable_support", Type: "bool"},
				{Key: "sparse_infill_pattern", Type: "enum"},
				{Key: "filament_vendor", Type: "string"},
				{Key: "retract_lift_above", Type: "floats", IsVector: true},
			},
		}},
	})
}

func TestSchema_Validate(t *testing.T) {
	s := buildValidationSchema(t)

	tests := []struct {
		name     string
		settings map[string]any
		wantCode string
	}{
		{name: "valid", settings: map[string]any{"layer_height": 0.2, "wall_loops": 3.0, "enable_support": true, "filament_vendor": "Generic"}},
		{name: "unknown keys pass", settings: map[string]any{"brand_new": "x"}},
		{name: "out of range", settings: map[string]any{"layer_height": 0.9}, wantCode: diagnostic.CodeOutOfRange},
		{name: "not an integer", settings: map[string]any{"wall_loops": 2.5}, wantCode: diagnostic.CodeWrongType},
		{name: "wrong type", settings: map[string]any{"enable_support": "yes"}, wantCode: diagnostic.CodeWrongType},
		{name: "number for string", settings: map[string]any{"filament_vendor": 7.0}, wantCode: diagnostic.CodeWrongType},
		{name: "bad option", settings: map[string]any{"sparse_infill_pattern": "gyriod"}, wantCode: diagnostic.CodeInvalidOption},
		{name: "vector element", settings: map[string]any{"retract_lift_above": []any{0.0, "x"}}, wantCode: diagnostic.CodeWrongType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := s.Validate(tt.settings)
			if tt.wantCode == "" {
				assert.False(t, res.HasErrors(), res.Error())
				return
			}

			require.Len(t, res.Errors, 1)
			assert.Equal(t, tt.wantCode, res.Errors[0].Code)
		})
	}
}

func TestSchema_Validate_SuggestsOptions(t *testing.T) {
	s := buildValidationSchema(t)

	res := s.Validate(map[string]any{"sparse_infill_pattern": "gyriod"})
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Suggestions, "gyroid")
}

func TestSchema_Validate_NullValues(t *testing.T) {
	s := buildValidationSchema(t)

	res := s.Validate(map[string]any{"layer_height": nil})
	assert.False(t, res.HasErrors())
	assert.Len(t, res.Warnings, 1)
}

func TestSchema_Validate_SerializedEngineDefaults(t *testing.T) {
	p, err := ParsePayload([]byte(`{
  "optionCount": 5,
  "categories": [{"id": "quality", "label": "Quality", "options": [
    {"key": "layer_height", "type": "float", "category": "Quality", "min": 0.05, "max": 0.75, "default": "0.2"},
    {"key": "wall_loops", "type": "int", "category": "Strength", "default": "2"},
    {"key": "enable_support", "type": "bool", "category": "Support", "default": "0"},
    {"key": "sparse_infill_density", "type": "percent", "category": "Strength", "default": "15%"},
    {"key": "nozzle_diameter", "type": "floats", "category": "Extruders", "isVector": true, "default": ["0.4"]}
  ]}]
}`))
	require.NoError(t, err)

	s := NewBuilder(translate.Identity(), nil, quietLogger()).Build(context.Background(), p)

	res := s.Validate(s.InitialSettings)
	assert.True(t, res.IsValid(), res.Error())

	tests := []struct {
		name     string
		settings map[string]any
		wantCode string
	}{
		{name: "text in range", settings: map[string]any{"layer_height": "0.3"}},
		{name: "text bool", settings: map[string]any{"enable_support": "1"}},
		{name: "text out of range", settings: map[string]any{"layer_height": "0.9"}, wantCode: diagnostic.CodeOutOfRange},
		{name: "text not a number", settings: map[string]any{"wall_loops": "two"}, wantCode: diagnostic.CodeWrongType},
		{name: "text not an integer", settings: map[string]any{"wall_loops": "2.5"}, wantCode: diagnostic.CodeWrongType},
		{name: "percent sign only for percent", settings: map[string]any{"layer_height": "20%"}, wantCode: diagnostic.CodeWrongType},
		{name: "text vector element", settings: map[string]any{"nozzle_diameter": []any{"0.4", "wide"}}, wantCode: diagnostic.CodeWrongType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := s.Validate(tt.settings)
			if tt.wantCode == "" {
				assert.True(t, res.IsValid(), res.Error())
				return
			}

			require.Len(t, res.Errors, 1)
			assert.Equal(t, tt.wantCode, res.Errors[0].Code)
		})
	}
}
