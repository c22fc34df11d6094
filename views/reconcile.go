package views

import "slices"

// Reconciliation helpers: every optimistic merge is a pure function from
// (previous collection, mutation result) to a new collection, so the
// displayed list is always (initial fetch) ⊕ (local patches).

// UpsertByID replaces the element whose id matches row, or appends row
// when the collection has no such element. The input slice is not
// mutated.
func UpsertByID[T any](items []T, row T, id func(T) string) []T {
	rowID := id(row)
	for i := range items {
		if id(items[i]) == rowID {
			out := slices.Clone(items)
			out[i] = row
			return out
		}
	}
	return append(slices.Clone(items), row)
}

// PrependByID inserts row at the front, replacing any element with the
// same id. Used by newest-first collections.
func PrependByID[T any](items []T, row T, id func(T) string) []T {
	out := RemoveByID(items, id(row), id)
	return append([]T{row}, out...)
}

// RemoveByID drops the element with the given id, if present. The input
// slice is not mutated.
func RemoveByID[T any](items []T, rowID string, id func(T) string) []T {
	for i := range items {
		if id(items[i]) == rowID {
			out := slices.Clone(items)
			return slices.Delete(out, i, i+1)
		}
	}
	return items
}
