package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDeepMixedNodes(t *testing.T) {
	root := []any{
		5,
		map[any]any{6: []any{"b", 4, map[any]any{"c": "v1"}}},
		[]any{"e", map[any]any{"fg": "v2"}},
	}
	assert.Equal(t, "v1", Get(root, Path{1, 6, 2, "c"}))
	assert.Equal(t, "v2", Get(root, Path{2, 1, "fg"}))
	assert.Equal(t, "v2", Get(root, "2 1 fg"))
	assert.Equal(t, 5, Get(root, Path{0}))
}

func TestGetDefaults(t *testing.T) {
	root := map[any]any{"a": 1}
	tests := []struct {
		name string
		def  any
	}{
		{"nil default", nil},
		{"scalar default", 42},
		{"mutable default", map[any]any{"d": 1}},
		{"callable as value", func() {}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetOr(root, "missing", tt.def)
			switch tt.def.(type) {
			case func():
				assert.NotNil(t, got)
			default:
				assert.Equal(t, tt.def, got)
			}
		})
	}
}

func TestGetTerminatesAtLeavesAndSets(t *testing.T) {
	root := map[any]any{
		"leaf": "abc",
		"set":  NewSet(1, 2),
	}
	// strings are leaves, paths never index into them
	assert.Nil(t, Get(root, "leaf 0"))
	// sets are leaves for traversal
	assert.Nil(t, Get(root, "set 1"))
	assert.Equal(t, NewSet(1, 2), Get(root, "set"))
}

func TestGetNegativeIndices(t *testing.T) {
	root := map[any]any{"l": []any{10, 20, 30}}
	assert.Equal(t, 30, Get(root, "l -1"))
	assert.Equal(t, 10, Get(root, "l -3"))
	assert.Nil(t, Get(root, "l -4"))
	assert.Nil(t, Get(root, "l 3"))
}

func TestGetThroughVariants(t *testing.T) {
	root := map[string]any{"a": Tuple{1, map[string]any{"b": 2}}}
	assert.Equal(t, 2, Get(root, "a 1 b"))
}

func TestHas(t *testing.T) {
	root := map[any]any{"a": map[any]any{"b": nil}}
	assert.True(t, Has(root, "a b"), "explicitly stored nil exists")
	assert.False(t, Has(root, "a c"))
	assert.True(t, Has(root, nil), "root always exists")
}

func TestTypedGetters(t *testing.T) {
	tr := MustNew(map[any]any{
		"s": "hello",
		"n": "42",
		"f": 1.5,
		"b": true,
		"i": 7,
	})
	assert.Equal(t, "hello", tr.GetString("s"))
	assert.Equal(t, 42, tr.GetInt("n"))
	assert.Equal(t, 1.5, tr.GetFloat64("f"))
	assert.True(t, tr.GetBool("b"))
	assert.Equal(t, "7", tr.GetString("i"))
	assert.Equal(t, 0, tr.GetInt("missing"))
	assert.Equal(t, "", tr.GetString("missing"))
}

func TestChildSharesNodes(t *testing.T) {
	root := map[any]any{"a": map[any]any{"b": 1}}
	tr := MustNew(root)
	child, err := tr.Child("a")
	require.NoError(t, err)
	require.NoError(t, child.Set(2, "b"))
	assert.Equal(t, 2, tr.Get("a b"), "child views alias the parent's nodes")
}
