// Package sliceutil provides generic slice helpers.
package sliceutil

// Deduplicate removes duplicate items from a slice while preserving order.
// Only the first occurrence of each key is kept.
//
// Example:
//
//	entries := []rag.KnowledgeEntry{{URL: "a"}, {URL: "b"}, {URL: "a"}}
//	unique := sliceutil.Deduplicate(entries, func(e rag.KnowledgeEntry) string { return e.URL })
//	// Result: [{URL: "a"}, {URL: "b"}]
func Deduplicate[T any, K comparable](items []T, keyFunc func(T) K) []T {
	if len(items) == 0 {
		return items
	}

	seen := make(map[K]struct{}, len(items))
	result := make([]T, 0, len(items))
	for _, item := range items {
		key := keyFunc(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, item)
	}
	return result
}

// Head returns at most the first n items. The result shares storage with items.
func Head[T any](items []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if len(items) <= n {
		return items
	}
	return items[:n]
}
