package tree

import (
	"fmt"
	"iter"
	"maps"
	"math"
	"slices"
)

// Kind identifies what a Value holds.
type Kind uint8

const (
	KindString Kind = iota
	KindBool
	KindInt
	KindFloat
	KindNull
	KindTree
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindNull:
		return "null"
	case KindTree:
		return "tree"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is either a leaf of a closed scalar kind or a nested Tree.
// The zero Value is the empty string leaf.
type Value struct {
	tree *Tree
	str  string
	f    float64
	i    int64
	kind Kind
	b    bool
}

// String returns a string leaf.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Bool returns a boolean leaf.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an integer leaf.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a floating point leaf.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Null returns a null leaf.
func Null() Value { return Value{kind: KindNull} }

// Nested wraps t as a Value. A nil tree is replaced with an empty one.
func Nested(t *Tree) Value {
	if t == nil {
		t = New()
	}
	return Value{kind: KindTree, tree: t}
}

func (v Value) Kind() Kind { return v.kind }

// IsTree reports whether v holds a nested Tree.
func (v Value) IsTree() bool { return v.kind == KindTree }

// Tree returns the nested tree, or nil for leaves.
// The returned tree is shared with v: mutations are visible through v.
func (v Value) Tree() *Tree { return v.tree }

// Str returns the string payload and whether v is a string leaf.
func (v Value) Str() (string, bool) { return v.str, v.kind == KindString }

// BoolValue returns the boolean payload and whether v is a bool leaf.
func (v Value) BoolValue() (bool, bool) { return v.b, v.kind == KindBool }

// IntValue returns the integer payload and whether v is an int leaf.
func (v Value) IntValue() (int64, bool) { return v.i, v.kind == KindInt }

// FloatValue returns the float payload and whether v is a float leaf.
func (v Value) FloatValue() (float64, bool) { return v.f, v.kind == KindFloat }

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	if v.kind == KindTree {
		return Nested(v.tree.Clone())
	}
	return v
}

// Equal reports structural equality. Key order inside nested trees is ignored.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f || (math.IsNaN(v.f) && math.IsNaN(o.f))
	case KindNull:
		return true
	case KindTree:
		return v.tree.Equal(o.tree)
	}
	return false
}

// Any converts v into plain Go values: string, bool, int64, float64, nil
// or map[string]any for nested trees.
func (v Value) Any() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindTree:
		return v.tree.ToMap()
	}
	return nil
}

// Tree is an insertion-ordered mapping from string keys to Values.
// A Tree is not safe for concurrent mutation.
type Tree struct {
	values map[string]Value
	keys   []string
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{values: make(map[string]Value)}
}

// FromMap builds a tree from plain Go values. Keys of every level are added
// in ascending order since map iteration order is random.
// Supported leaf types: string, bool, all int and float types, nil.
func FromMap(m map[string]any) (*Tree, error) {
	t := New()
	for _, key := range slices.Sorted(maps.Keys(m)) {
		v, err := valueOf(m[key])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		t.Set(key, v)
	}
	return t, nil
}

// MustFromMap is like FromMap but panics on unsupported values.
func MustFromMap(m map[string]any) *Tree {
	t, err := FromMap(m)
	if err != nil {
		panic(err)
	}
	return t
}

func valueOf(raw any) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return Null(), nil
	case string:
		return String(x), nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case float32:
		return Float(float64(x)), nil
	case float64:
		return Float(x), nil
	case Value:
		return x, nil
	case *Tree:
		return Nested(x), nil
	case map[string]any:
		sub, err := FromMap(x)
		if err != nil {
			return Value{}, err
		}
		return Nested(sub), nil
	case map[string]string:
		sub := New()
		for _, k := range slices.Sorted(maps.Keys(x)) {
			sub.Set(k, String(x[k]))
		}
		return Nested(sub), nil
	}
	return Value{}, fmt.Errorf("unsupported value type %T", raw)
}

// Len returns the number of keys at this level.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Keys returns a copy of the keys in their current order.
func (t *Tree) Keys() []string {
	if t == nil {
		return nil
	}
	return slices.Clone(t.keys)
}

// Get returns the value stored under key.
func (t *Tree) Get(key string) (Value, bool) {
	if t == nil {
		return Value{}, false
	}
	v, ok := t.values[key]
	return v, ok
}

// Has reports whether key exists at this level.
func (t *Tree) Has(key string) bool {
	_, ok := t.Get(key)
	return ok
}

// Set stores v under key. An existing key keeps its position,
// a new key is appended after all existing keys.
func (t *Tree) Set(key string, v Value) {
	if t.values == nil {
		t.values = make(map[string]Value)
	}
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = v
}

// Delete removes key and reports whether it was present.
func (t *Tree) Delete(key string) bool {
	if t == nil {
		return false
	}
	if _, ok := t.values[key]; !ok {
		return false
	}
	delete(t.values, key)
	t.keys = slices.DeleteFunc(t.keys, func(k string) bool { return k == key })
	return true
}

// All iterates over the entries in key order.
func (t *Tree) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if t == nil {
			return
		}
		for _, k := range t.keys {
			if !yield(k, t.values[k]) {
				return
			}
		}
	}
}

// Clone returns a deep copy that shares nothing with t.
func (t *Tree) Clone() *Tree {
	c := &Tree{
		keys:   make([]string, 0, t.Len()),
		values: make(map[string]Value, t.Len()),
	}
	for k, v := range t.All() {
		c.keys = append(c.keys, k)
		c.values[k] = v.Clone()
	}
	return c
}

// Equal reports whether both trees hold the same keys and values at every
// level, regardless of key order.
func (t *Tree) Equal(o *Tree) bool {
	if t.Len() != o.Len() {
		return false
	}
	for k, v := range t.All() {
		ov, ok := o.Get(k)
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// ToMap converts the tree into nested map[string]any values.
func (t *Tree) ToMap() map[string]any {
	m := make(map[string]any, t.Len())
	for k, v := range t.All() {
		m[k] = v.Any()
	}
	return m
}
