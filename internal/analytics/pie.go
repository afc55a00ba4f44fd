package analytics

import "sort"

// Slice is one slice of a pie chart.
type Slice struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// CountBy counts items by label.
func CountBy[T any](items []T, label func(T) string) map[string]int {
	counts := make(map[string]int)
	for _, it := range items {
		counts[label(it)]++
	}
	return counts
}

// PieFromCounts orders slices by value, largest first, then by label.
func PieFromCounts(counts map[string]int) []Slice {
	out := make([]Slice, 0, len(counts))
	for label, v := range counts {
		out = append(out, Slice{Label: label, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// TopSlices keeps the limit largest slices and folds the rest into one
// otherLabel slice, added only when the remainder is non-zero.
func TopSlices(counts map[string]int, limit int, otherLabel string) []Slice {
	sorted := PieFromCounts(counts)
	if len(sorted) <= limit {
		return sorted
	}

	top := sorted[:limit:limit]
	rest := 0
	for _, s := range sorted[limit:] {
		rest += s.Value
	}
	if rest > 0 {
		top = append(top, Slice{Label: otherLabel, Value: rest})
	}
	return top
}
