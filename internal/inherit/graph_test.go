package inherit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slicerweb/internal/diagnostic"
)

func TestCheckGraph_Order(t *testing.T) {
	bases := Bases{
		"c_child":  {"inherits": "b_middle"},
		"b_middle": {"inherits": "a_root"},
		"a_root":   {},
		"d_alone":  {},
	}

	order, diags := CheckGraph(bases)

	assert.True(t, diags.Empty())
	assert.Equal(t, []string{"a_root", "b_middle", "c_child", "d_alone"}, order)
}

func TestCheckGraph_CycleAndMissing(t *testing.T) {
	bases := Bases{
		"a":      {"inherits": "b"},
		"b":      {"inherits": "a"},
		"behind": {"inherits": "a"},
		"orphan": {"inherits": "nowhere"},
		"ok":     {},
	}

	order, diags := CheckGraph(bases)

	assert.Equal(t, []string{"ok", "orphan"}, order)

	var cyclic []string
	for _, d := range diags.WithCode(diagnostic.CodeInheritCycle) {
		cyclic = append(cyclic, d.Scope)
	}

	assert.Equal(t, []string{"a", "b", "behind"}, cyclic)
	require.Len(t, diags.WithCode(diagnostic.CodeInheritMissingBase), 1)
	assert.Equal(t, "orphan", diags.Warnings[0].Scope)
}

func TestTopoSort(t *testing.T) {
	order, err := topoSort(3, func(i int) []int {
		switch i {
		case 0:
			return []int{2}
		case 1:
			return []int{0}
		default:
			return nil
		}
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0, 1}, order)

	_, err = topoSort(2, func(i int) []int { return []int{5} })
	require.Error(t, err)

	order, err = topoSort(0, nil)
	require.NoError(t, err)
	assert.Empty(t, order)
}
