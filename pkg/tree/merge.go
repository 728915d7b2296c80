package tree

// MergeReport describes what Merge changed in the target tree.
type MergeReport struct {
	// Added holds the dotted key paths of leaves inserted into the target.
	Added []string

	// Conflicts holds key paths that are a tree on one side and a leaf on
	// the other. The target value is kept as is for these keys.
	Conflicts []string
}

// Merge fills target with every key of base that target is missing and
// returns target.
//
// New string leaves are stored as prefix + value + suffix. Other leaf kinds
// are copied verbatim. Missing subtrees are merged against an empty tree, so
// every string leaf inside them is affixed too. Existing target leaves and
// target-only keys are never modified. New keys are appended after the
// existing keys of the level they land in.
//
// Merge mutates target in place and never modifies base; inserted values are
// deep copies and share no memory with base. A nil target is treated as an
// empty tree.
func Merge(base, target *Tree, prefix, suffix string) (*Tree, MergeReport) {
	if target == nil {
		target = New()
	}

	var report MergeReport
	if base != nil {
		mergeLevel(base, target, prefix, suffix, "", &report)
	}
	return target, report
}

func mergeLevel(base, target *Tree, prefix, suffix, path string, report *MergeReport) {
	for key, bv := range base.All() {
		keyPath := JoinPath(path, key)
		tv, exists := target.Get(key)

		switch {
		case !exists && bv.IsTree():
			sub := New()
			mergeLevel(bv.Tree(), sub, prefix, suffix, keyPath, report)
			target.Set(key, Nested(sub))

		case !exists:
			target.Set(key, affix(bv, prefix, suffix))
			report.Added = append(report.Added, keyPath)

		case bv.IsTree() && tv.IsTree():
			mergeLevel(bv.Tree(), tv.Tree(), prefix, suffix, keyPath, report)

		case bv.IsTree() != tv.IsTree():
			report.Conflicts = append(report.Conflicts, keyPath)
		}
	}
}

func affix(v Value, prefix, suffix string) Value {
	if s, ok := v.Str(); ok {
		return String(prefix + s + suffix)
	}
	return v
}
