package tree

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeMappings(t *testing.T) {
	tr := MustNew(map[any]any{
		"a": map[any]any{"x": 1},
		"b": 2,
	})
	require.NoError(t, tr.Merge(map[any]any{
		"a": map[any]any{"y": 9},
		"c": 3,
	}, ""))
	want := map[any]any{
		"a": map[any]any{"x": 1, "y": 9},
		"b": 2,
		"c": 3,
	}
	assert.Empty(t, cmp.Diff(want, tr.Root(), variantEqual))
}

func TestMergeLeafActions(t *testing.T) {
	tests := []struct {
		action string
		want   any
	}{
		{"r", "new"},
		{"i", "old"},
		{"a", []any{"old", "new"}},
	}
	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			root, err := Merge(map[any]any{"k": "old"}, map[any]any{"k": "new"}, "",
				NewOptions().WithMergeAction(tt.action))
			require.NoError(t, err)
			assert.Equal(t, tt.want, Get(root, "k"))
		})
	}
}

func TestMergeSequences(t *testing.T) {
	// index-wise by default
	root, err := Merge(map[any]any{"l": []any{1, 2, 3}}, map[any]any{"l": []any{9}}, "")
	require.NoError(t, err)
	assert.Equal(t, []any{9, 2, 3}, Get(root, "l"))

	// extendFrom 0 appends instead
	root, err = Merge(map[any]any{"l": []any{1, 2}}, map[any]any{"l": []any{9}}, "",
		NewOptions().WithExtendFrom(0))
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2, 9}, Get(root, "l"))
}

func TestMergeSets(t *testing.T) {
	root, err := Merge(map[any]any{"s": NewSet(1)}, map[any]any{"s": NewSet(2)}, "")
	require.NoError(t, err)
	assert.Equal(t, NewSet(1, 2), Get(root, "s"))
}

func TestMergeUpdateFrom(t *testing.T) {
	root, err := Merge(
		map[any]any{"m": map[any]any{"a": map[any]any{"deep": 1}}},
		map[any]any{"m": map[any]any{"a": map[any]any{"other": 2}}},
		"", NewOptions().WithUpdateFrom(1))
	require.NoError(t, err)
	// from depth 1 on, mappings update wholesale instead of merging
	assert.Empty(t, cmp.Diff(map[any]any{"other": 2}, Get(root, "m a"), variantEqual))
}

func TestMergeMissingPathStores(t *testing.T) {
	root, err := Merge(map[any]any{}, map[any]any{"x": 1}, "a b")
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(map[any]any{"x": 1}, Get(root, "a b"), variantEqual))
}

func TestMergeIter(t *testing.T) {
	src := map[any]any{"a": map[any]any{"x": 1}, "b": 2}
	it, err := Iter(src, NewFilter("a"), "")
	require.NoError(t, err)

	dst, err := MergeIter(map[any]any{"a": map[any]any{"y": 0}}, it, "")
	require.NoError(t, err)
	want := map[any]any{"a": map[any]any{"x": 1, "y": 0}}
	assert.Empty(t, cmp.Diff(want, dst, variantEqual))
}
