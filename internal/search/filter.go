package search

import "strings"

// Filter keeps the items for which any extracted field contains the query,
// case-insensitively. A blank query returns items as is.
func Filter[T any](items []T, query string, fields func(T) []string) []T {
	q := normalize(query)
	if len(q) == 0 {
		return items
	}

	result := make([]T, 0, len(items))
	for _, item := range items {
		if matches(fields(item), q) {
			result = append(result, item)
		}
	}
	return result
}

func matches(values []string, q string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}

func normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Paginate applies limit/offset to an in-memory list. A non-positive limit means no limit.
func Paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return items[:0]
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
