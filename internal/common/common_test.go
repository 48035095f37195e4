package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(map[string]int{"c": 1, "a": 2, "b": 3}))
	assert.Empty(t, SortedKeys(map[string]int(nil)))
}

func TestCap(t *testing.T) {
	s := []int{1, 2, 3}

	assert.Equal(t, []int{1, 2}, Cap(s, 2))
	assert.Equal(t, s, Cap(s, 5))
	assert.Equal(t, s, Cap(s, 0))
	assert.Equal(t, s, Cap(s, -1))
}

func TestToFloat(t *testing.T) {
	for _, v := range []any{float64(2), float32(2), 2, int64(2), int32(2), uint(2), uint64(2)} {
		f, ok := ToFloat(v)
		assert.True(t, ok, "%T", v)
		assert.InDelta(t, 2.0, f, 1e-9)
	}

	_, ok := ToFloat("2")
	assert.False(t, ok)
}

func TestIsInRange(t *testing.T) {
	assert.True(t, IsInRange(0.0, 0.0, 1.0))
	assert.True(t, IsInRange(0, 1, 1))
	assert.False(t, IsInRange(0, 2, 1))
}
