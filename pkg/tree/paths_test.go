package tree_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/langsync/pkg/tree"
)

func TestFlatten(t *testing.T) {
	t.Parallel()

	tr := tree.MustFromMap(map[string]any{
		"buttons": map[string]any{"save": "Save", "cancel": "Cancel"},
		"title":   "Title",
		"empty":   map[string]any{},
	})

	flat := tree.Flatten(tr)
	require.Len(t, flat, 3)
	require.Contains(t, flat, "buttons.save")
	require.Contains(t, flat, "buttons.cancel")
	require.Contains(t, flat, "title")

	require.Equal(t, []string{"buttons.cancel", "buttons.save", "title"}, tree.Paths(tr))
}

func TestLookup(t *testing.T) {
	t.Parallel()

	tr := tree.MustFromMap(map[string]any{
		"auth": map[string]any{"throttle": map[string]any{"short": "Wait"}},
		"leaf": "L",
	})

	v, ok := tree.Lookup(tr, "auth", "throttle", "short")
	require.True(t, ok)
	s, _ := v.Str()
	require.Equal(t, "Wait", s)

	_, ok = tree.Lookup(tr, "leaf", "deeper")
	require.False(t, ok)

	_, ok = tree.Lookup(tr, "missing")
	require.False(t, ok)

	v, ok = tree.Lookup(tr, "auth")
	require.True(t, ok)
	require.True(t, v.IsTree())
}

func TestJoinPath(t *testing.T) {
	t.Parallel()
	require.Equal(t, "a", tree.JoinPath("", "a"))
	require.Equal(t, "a.b", tree.JoinPath("a", "b"))
}
