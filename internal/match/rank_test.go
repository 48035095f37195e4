package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRank(t *testing.T) {
	names := []string{
		"Creality Ender-3 V2",
		"Creality Ender-3 V3 SE",
		"Prusa MK4",
		"Bambu Lab X1 Carbon",
	}

	got := Rank("ender 3 v2", names, 2, 0.3)
	require.NotEmpty(t, got)
	assert.Equal(t, "Creality Ender-3 V2", got[0].Name)
	assert.LessOrEqual(t, len(got), 2)

	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}
}

func TestRankSubstringScoresHigh(t *testing.T) {
	got := Rank("mk4", []string{"Prusa MK4", "Prusa MK3S"}, 0, 0)
	require.Len(t, got, 2)
	assert.Equal(t, "Prusa MK4", got[0].Name)
	assert.GreaterOrEqual(t, got[0].Score, 0.9)
}

func TestRankEmptyQuery(t *testing.T) {
	assert.Nil(t, Rank("  --  ", []string{"Prusa MK4"}, 5, 0))
}

func TestRankMinScore(t *testing.T) {
	assert.Empty(t, Rank("zzzzzz", []string{"Prusa MK4"}, 5, 0.5))
}
