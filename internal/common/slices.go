package common

import (
	"cmp"
	"slices"
)

// SortedKeys returns the keys of m in ascending order.
// Settings maps are iterated through it wherever output order is observable.
func SortedKeys[M ~map[K]V, K cmp.Ordered, V any](m M) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}

// Cap truncates s to at most n elements. A non-positive n means no cap.
func Cap[S ~[]E, E any](s S, n int) S {
	if n <= 0 || len(s) <= n {
		return s
	}

	return s[:n]
}
