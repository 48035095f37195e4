package profiles

import (
	"slicerweb/internal/common"
	"slicerweb/internal/match"
)

// minSuggestionScore filters out suggestions that share little more than
// a few letters with the query.
const minSuggestionScore = 0.4

// SuggestPrinters ranks printer names by similarity to name, for "did you
// mean" responses when an exact lookup misses.
func (l *Loader) SuggestPrinters(name string, n int) ([]match.Suggestion, error) {
	ix, err := l.Index()
	if err != nil {
		return nil, err
	}

	return match.Rank(name, common.SortedKeys(ix.Search), n, minSuggestionScore), nil
}
