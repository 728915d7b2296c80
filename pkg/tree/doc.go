// Package tree models translation files as ordered, nested key/value trees
// and implements the two operations langsync performs on them: merging a
// base language tree into a target language tree and sorting keys.
//
// # Trees and Values
//
// A Tree keeps insertion order, which is what the codecs serialize. Values are
// either nested trees or leaves of a closed set of kinds: string, bool, int,
// float and null.
//
//	t := tree.New()
//	t.Set("signin", tree.String("Sign-in"))
//	t.Set("buttons", tree.Nested(tree.MustFromMap(map[string]any{
//		"save": "Save",
//	})))
//
// # Merging
//
// Merge copies every key the target is missing from the base tree, wrapping
// new string leaves with an optional prefix and suffix so untranslated text is
// easy to spot:
//
//	merged, report := tree.Merge(en, ptBR, "", " - NT")
//	// report.Added lists "buttons.save" style key paths.
//
// Existing target leaves are never overwritten, keys only the target has are
// kept, and nested trees are merged recursively. A key that is a tree on one
// side and a leaf on the other keeps the target's value and is listed in
// MergeReport.Conflicts.
//
// # Sorting
//
// SortKeys orders every level by bytewise key comparison. It is idempotent
// and independent of locale.
package tree
