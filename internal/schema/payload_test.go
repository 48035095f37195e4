package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slicerweb/internal/slicerr"
)

func TestParsePayload_Categorized(t *testing.T) {
	data := []byte(`{
  "generatedAt": "2025-01-01T00:00:00Z",
  "optionCount": 2,
  "categories": [
    {"id": "quality", "label": "Quality", "options": [
      {"key": "layer_height", "label": "Layer height", "type": "float", "category": "Quality",
       "min": 0.05, "max": 0.75, "default": 0.2, "serializationOrdinal": 12, "mode": "simple"}
    ]},
    {"id": "support", "label": "Support", "options": [
      {"key": "support_type", "label": "Type", "type": "enum", "category": "Support",
       "enumValues": ["normal", "tree"], "enumLabels": ["Normal", "Tree"], "mode": "advanced"}
    ]}
  ]
}`)

	p, err := ParsePayload(data)
	require.NoError(t, err)

	assert.Equal(t, "2025-01-01T00:00:00Z", p.GeneratedAt)
	assert.Equal(t, 2, p.OptionCount)

	opts := p.Options()
	require.Len(t, opts, 2)
	assert.Equal(t, "layer_height", opts[0].Key)
	require.NotNil(t, opts[0].Ordinal)
	assert.Equal(t, 12, *opts[0].Ordinal)
	require.NotNil(t, opts[0].Min)
	assert.InDelta(t, 0.05, *opts[0].Min, 1e-9)
	assert.False(t, opts[0].IsAdvanced())
	assert.Nil(t, opts[1].Ordinal)
	assert.True(t, opts[1].IsAdvanced())
	assert.Equal(t, []string{"Normal", "Tree"}, opts[1].EnumLabels)
}

func TestParsePayload_Legacy(t *testing.T) {
	data := []byte(`{
  "wall_loops": {"label": "Wall loops", "type": "int", "category": "Strength", "default_value": 2},
  "brim_type": {"type": "enum", "enum_values": ["no_brim", "outer_only"]}
}`)

	p, err := ParsePayload(data)
	require.NoError(t, err)
	assert.Equal(t, 2, p.OptionCount)

	opts := p.Options()
	require.Len(t, opts, 2)

	assert.Equal(t, "brim_type", opts[0].Key)
	assert.Equal(t, "brim_type", opts[0].Label)
	assert.Equal(t, "General", opts[0].Category)
	assert.Equal(t, []string{"no_brim", "outer_only"}, opts[0].EnumValues)

	assert.Equal(t, "wall_loops", opts[1].Key)
	assert.Equal(t, 2.0, opts[1].Default)
	assert.Equal(t, "Strength", opts[1].Category)
}

func TestParsePayload_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "empty", data: "  "},
		{name: "array", data: `[1, 2]`},
		{name: "no options", data: `{"categories": []}`},
		{name: "empty object", data: `{}`},
		{name: "legacy scalar", data: `{"layer_height": 0.2}`},
		{name: "option without key", data: `{"categories": [{"label": "x", "options": [{"type": "float"}]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePayload([]byte(tt.data))
			require.Error(t, err)
			assert.ErrorIs(t, err, slicerr.ErrConfiguration)
		})
	}
}

func TestLoadPayloadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"categories":[{"label":"Quality","options":[{"key":"layer_height","type":"float"}]}]}`), 0o600))

	p, err := LoadPayloadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, p.OptionCount)

	_, err = LoadPayloadFile(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, slicerr.ErrConfiguration)
}
