package translate

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slicerweb/internal/slicerr"
)

const testRules = `
rules:
  - ui: layer_height
  - ui: bed_temperature
    engine: hot_plate_temp
  - ui: sparse_infill_density
    transform: percent
  - ui: enable_support
    transform: bool_flag
  - ui: compatible_printers
    transform: semicolon_list
`

func newTestTable(t *testing.T) *Table {
	t.Helper()

	rf, err := Parse([]byte(testRules))
	require.NoError(t, err)

	table, err := NewTable(rf, nil)
	require.NoError(t, err)

	return table
}

func TestTable_ToEngineKeys(t *testing.T) {
	table := newTestTable(t)

	got := table.ToEngineKeys(map[string]any{
		"layer_height":          0.2,
		"bed_temperature":       60.0,
		"sparse_infill_density": 15.0,
		"enable_support":        true,
		"compatible_printers":   []any{"A", "B"},
		"brand_new_key":         "x",
	})

	assert.Equal(t, map[string]any{
		"layer_height":          0.2,
		"hot_plate_temp":        60.0,
		"sparse_infill_density": "15%",
		"enable_support":        "1",
		"compatible_printers":   "A;B",
		"brand_new_key":         "x",
	}, got)
}

func TestTable_ToUIKeys(t *testing.T) {
	table := newTestTable(t)

	got := table.ToUIKeys(map[string]any{
		"hot_plate_temp":        55.0,
		"sparse_infill_density": "20%",
		"enable_support":        "0",
		"unmapped":              7.0,
	})

	assert.Equal(t, map[string]any{
		"bed_temperature":       55.0,
		"sparse_infill_density": 20.0,
		"enable_support":        false,
		"unmapped":              7.0,
	}, got)
}

func TestTable_MappedKeyWinsOverPassThrough(t *testing.T) {
	table := newTestTable(t)

	got := table.ToEngineKeys(map[string]any{
		"bed_temperature": 60.0,
		"hot_plate_temp":  10.0,
	})

	assert.Equal(t, map[string]any{"hot_plate_temp": 60.0}, got)
}

func TestTable_KeyLookups(t *testing.T) {
	table := newTestTable(t)

	assert.Equal(t, "hot_plate_temp", table.EngineKey("bed_temperature"))
	assert.Equal(t, "bed_temperature", table.UIKey("hot_plate_temp"))
	assert.Equal(t, "whatever", table.EngineKey("whatever"))
	assert.Equal(t, "whatever", table.UIKey("whatever"))

	assert.True(t, table.NeedsTranslation("bed_temperature", ToEngine))
	assert.True(t, table.NeedsTranslation("hot_plate_temp", ToUI))
	assert.False(t, table.NeedsTranslation("hot_plate_temp", ToEngine))
	assert.True(t, table.NeedsTranslation("sparse_infill_density", ToEngine))
	assert.False(t, table.NeedsTranslation("layer_height", ToEngine))
	assert.False(t, table.NeedsTranslation("unknown", ToUI))
}

func TestTable_Identity(t *testing.T) {
	table := Identity()
	in := map[string]any{"a": 1.0, "b": "x"}

	assert.Equal(t, in, table.ToEngineKeys(in))
	assert.Equal(t, in, table.ToUIKeys(in))
	assert.Equal(t, 0, table.Len())
}

func TestNewTable_RejectsInvalidRules(t *testing.T) {
	rf, err := Parse([]byte(`
rules:
  - ui: a
    engine: x
  - ui: b
    engine: x
`))
	require.NoError(t, err)

	_, err = NewTable(rf, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, slicerr.ErrConfiguration)
	assert.Contains(t, err.Error(), "duplicate_engine_key")
}

func TestDefault(t *testing.T) {
	table := Default()

	assert.Positive(t, table.Len())
	assert.Equal(t, "hot_plate_temp", table.EngineKey("bed_temperature"))
	assert.Equal(t, "layer_height", table.EngineKey("layer_height"))
}

func TestTable_RoundTrip_Property(t *testing.T) {
	table := Default()
	rules := table.Rules()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("ToUIKeys inverts ToEngineKeys", prop.ForAll(
		func(picks []int, values []float64, extra string) bool {
			settings := map[string]any{}

			for i, idx := range picks {
				settings[rules[idx].UIKey] = values[i%len(values)]
			}

			// Unmapped keys share no name with any rule.
			settings["custom_"+extra] = extra

			back := table.ToUIKeys(table.ToEngineKeys(settings))

			return assert.ObjectsAreEqual(settings, back)
		},
		gen.SliceOfN(12, gen.IntRange(0, len(rules)-1)),
		gen.SliceOfN(4, gen.Float64Range(0, 500)),
		gen.Identifier(),
	))

	properties.TestingRun(t)
}
