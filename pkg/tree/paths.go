package tree

import "maps"

// PathSeparator joins key segments in reported key paths.
const PathSeparator = "."

// JoinPath appends key to a dotted key path.
func JoinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + PathSeparator + key
}

// Flatten returns every leaf of t keyed by its dotted key path.
// Empty nested trees produce no entries.
func Flatten(t *Tree) map[string]Value {
	return flatten(t, "")
}

func flatten(t *Tree, prefix string) map[string]Value {
	result := make(map[string]Value)

	for key, v := range t.All() {
		fullKey := JoinPath(prefix, key)
		if v.IsTree() {
			maps.Copy(result, flatten(v.Tree(), fullKey))
			continue
		}
		result[fullKey] = v
	}

	return result
}

// Paths lists the dotted key paths of all leaves in tree order.
func Paths(t *Tree) []string {
	var out []string
	var walk func(*Tree, string)
	walk = func(t *Tree, prefix string) {
		for key, v := range t.All() {
			fullKey := JoinPath(prefix, key)
			if v.IsTree() {
				walk(v.Tree(), fullKey)
				continue
			}
			out = append(out, fullKey)
		}
	}
	walk(t, "")
	return out
}

// Lookup follows segments through nested trees and returns the value found.
func Lookup(t *Tree, segments ...string) (Value, bool) {
	if len(segments) == 0 {
		return Nested(t), t != nil
	}
	cur := t
	for i, seg := range segments {
		v, ok := cur.Get(seg)
		if !ok {
			return Value{}, false
		}
		if i == len(segments)-1 {
			return v, true
		}
		if !v.IsTree() {
			return Value{}, false
		}
		cur = v.Tree()
	}
	return Value{}, false
}
