package tree

import "slices"

// SortKeys reorders the keys of every level of t into ascending bytewise
// order, in place, and returns t. Sorting is idempotent.
func SortKeys(t *Tree) *Tree {
	if t == nil {
		return nil
	}
	slices.Sort(t.keys)
	for _, v := range t.values {
		if v.IsTree() {
			SortKeys(v.Tree())
		}
	}
	return t
}

// IsSorted reports whether every level of t is in ascending key order.
func (t *Tree) IsSorted() bool {
	if t == nil {
		return true
	}
	if !slices.IsSorted(t.keys) {
		return false
	}
	for _, v := range t.values {
		if v.IsTree() && !v.Tree().IsSorted() {
			return false
		}
	}
	return true
}
