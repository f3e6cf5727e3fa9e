// Package set provides a generic set type.
package set

import (
	"cmp"
	"slices"

	"golang.org/x/exp/maps"
)

// Set is an unordered collection of unique values.
type Set[T comparable] map[T]struct{}

func From[T comparable](slice []T) Set[T] {
	set := make(Set[T], len(slice))

	for _, v := range slice {
		set[v] = struct{}{}
	}
	return set
}

func (s Set[T]) Add(val T) {
	s[val] = struct{}{}
}

func (s Set[T]) Contains(v T) bool {
	_, exists := s[v]
	return exists
}

// Sorted returns the elements of an ordered set in ascending order.
func Sorted[T cmp.Ordered](s Set[T]) []T {
	res := maps.Keys(s)
	slices.Sort(res)

	return res
}
