// Package match provides name normalization, Levenshtein distance and
// ranking for fuzzy printer-name lookups.
//
// Key functions:
//   - NormalizeName: folds a display name for comparison
//   - Levenshtein: computes edit distance between strings
//   - Rank: orders candidate names by similarity to a query
package match
