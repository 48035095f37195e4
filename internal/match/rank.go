package match

import (
	"sort"
	"strings"
)

// Suggestion is a candidate name with its similarity to the query.
type Suggestion struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// tokenBonus is added per query token found in the candidate's tokens,
// so "ender 3" prefers "Ender-3 V2" over "Eleg 3".
const tokenBonus = 0.05

// Rank scores every name against query and returns the best limit
// suggestions scoring at least minScore, highest first. Ties are broken
// by name so results are deterministic. A non-positive limit returns all.
func Rank(query string, names []string, limit int, minScore float64) []Suggestion {
	normQuery := NormalizeName(query)
	if normQuery == "" {
		return nil
	}

	queryTokens := TokenizeName(query)

	var out []Suggestion

	for _, name := range names {
		normName := NormalizeName(name)
		score := Similarity(normQuery, normName)

		if strings.Contains(normName, normQuery) {
			score = max(score, 0.9)
		}

		nameTokens := TokenizeName(name)
		for _, qt := range queryTokens {
			for _, nt := range nameTokens {
				if qt == nt {
					score += tokenBonus
					break
				}
			}
		}

		score = min(score, 1.0)
		if score >= minScore {
			out = append(out, Suggestion{Name: name, Score: score})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}

		return out[i].Name < out[j].Name
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out
}
