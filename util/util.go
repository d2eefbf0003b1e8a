// Package util holds small generic helpers shared by cmdutil packages.
package util

// Ptr returns a pointer to the given value.
func Ptr[T any](v T) *T {
	return &v
}

// Deref returns the value pointed to by p, or fallback if p is nil.
func Deref[T any](p *T, fallback T) T {
	if p != nil {
		return *p
	}
	return fallback
}

// Coalesce returns the first non-zero value, or the zero value if all are zero.
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// SplitOn splits items around every element equal to sep. Empty groups are kept.
func SplitOn[T comparable](items []T, sep T) [][]T {
	groups := [][]T{{}}
	for _, item := range items {
		if item == sep {
			groups = append(groups, []T{})
			continue
		}
		last := len(groups) - 1
		groups[last] = append(groups[last], item)
	}
	return groups
}
