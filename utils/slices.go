// Package utils implements generic slice helpers shared by the other packages.
package utils

import (
	"sort"

	"golang.org/x/exp/constraints"
)

// GetDistincts returns the list of distinct elements in v.
// Order is not guaranteed.
func GetDistincts[V comparable](v []V) (vd []V) {
	m := map[V]bool{}
	for _, vi := range v {
		m[vi] = true
	}

	vd = make([]V, len(m))

	var i int
	for mi := range m {
		vd[i] = mi
		i++
	}

	return
}

// SortSlice sorts a slice in place.
func SortSlice[T constraints.Ordered](s []T) {
	sort.Slice(s, func(i, j int) bool {
		return s[i] < s[j]
	})
}

// SortedDistincts returns the distinct elements of v in increasing order.
// v is left untouched.
func SortedDistincts[T constraints.Ordered](v []T) (vd []T) {
	vd = GetDistincts(v)
	SortSlice(vd)
	return
}
