package match

import (
	"strings"
	"unicode"
)

// NormalizeName normalizes a printer or profile display name for fuzzy matching.
// The normalization pipeline:
// 1. Case-fold to lower.
// 2. Drop separators and punctuation (_, -, spaces, dots, brackets).
// 3. Keep letters and digits in order.
//
// "Ender-3 V3 SE" and "ender3 v3se" both normalize to "ender3v3se".
func NormalizeName(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}

	return b.String()
}

// TokenizeName splits a display name into lowercase tokens.
// Tokens break on separators and on transitions between letters and digits
// that follow a lowercase letter, so "Ender-3 V3 SE" yields
// ["ender", "3", "v3", "se"] and "X1Carbon" yields ["x1", "carbon"].
func TokenizeName(s string) []string {
	if s == "" {
		return nil
	}

	var tokens []string

	var current strings.Builder

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}

			continue
		}

		if i > 0 && current.Len() > 0 && shouldStartNewToken(runes, i) {
			tokens = append(tokens, current.String())
			current.Reset()
		}

		current.WriteRune(unicode.ToLower(r))
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

// isSeparator returns true for runes that never belong to a token.
func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// shouldStartNewToken determines if a new token should start at position i.
func shouldStartNewToken(runes []rune, i int) bool {
	r := runes[i]
	prev := runes[i-1]

	// "carbonX" -> split before 'X'
	if unicode.IsUpper(r) && unicode.IsLower(prev) {
		return true
	}

	// "Ender3" -> split before '3' only when the letter run is a word,
	// keeping short model codes such as "X1" or "V3" together.
	if unicode.IsDigit(r) && unicode.IsLetter(prev) {
		return letterRunLength(runes, i) > 2
	}

	// "X1Carbon" -> split before 'C'
	return unicode.IsLetter(r) && unicode.IsDigit(prev) &&
		i+1 < len(runes) && unicode.IsLower(runes[i+1])
}

func letterRunLength(runes []rune, end int) int {
	n := 0
	for j := end - 1; j >= 0 && unicode.IsLetter(runes[j]); j-- {
		n++
	}

	return n
}
