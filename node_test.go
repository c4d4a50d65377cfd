package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  Kind
	}{
		{"map any keys", map[any]any{1: "a"}, KindMapping},
		{"map string keys", map[string]any{"a": 1}, KindMapping},
		{"slice", []any{1, 2}, KindSequence},
		{"tuple", Tuple{1, 2}, KindSequence},
		{"set", NewSet(1, 2), KindSet},
		{"string is a leaf", "abc", KindLeaf},
		{"bytes are a leaf", []byte("abc"), KindLeaf},
		{"int", 42, KindLeaf},
		{"nil", nil, KindLeaf},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, kindOf(tt.value))
		})
	}
}

func TestSeqPosTotality(t *testing.T) {
	// every integer resolves to exactly one position, nothing errors
	const n = 3
	tests := []struct {
		index int
		want  int
	}{
		{-2 * n, 0},
		{-n - 1, 0},
		{-n, 0},
		{-1, n - 1},
		{0, 0},
		{n - 1, n - 1},
		{n, n},
		{n + 1, n},
		{2 * n, n},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, seqPos(tt.index, n), "index %d", tt.index)
	}
}

func TestToIndex(t *testing.T) {
	for _, key := range []any{3, int64(3), "3", "+3"} {
		idx, ok := toIndex(key)
		require.True(t, ok, "%v", key)
		assert.Equal(t, 3, idx)
	}
	idx, ok := toIndex("-2")
	require.True(t, ok)
	assert.Equal(t, -2, idx)
	for _, key := range []any{"abc", "1.5", 2.0, nil, true} {
		_, ok := toIndex(key)
		assert.False(t, ok, "%v", key)
	}
}

func TestMapStoreConvertsStringMaps(t *testing.T) {
	m := map[string]any{"a": 1}

	// string key stays in place
	node, changed, err := mapStore(m, "b", 2)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 2, m["b"])

	// non-string key forces the map[any]any representation
	node, changed, err = mapStore(m, 7, "x")
	require.NoError(t, err)
	assert.True(t, changed)
	conv, ok := node.(map[any]any)
	require.True(t, ok)
	assert.Equal(t, 1, conv["a"])
	assert.Equal(t, "x", conv[7])
}

func TestMutableSeqSharesElements(t *testing.T) {
	inner := map[any]any{"x": 1}
	tup := Tuple{inner, 2}
	seq, converted := mutableSeq(tup)
	require.True(t, converted)
	assert.True(t, sameContainer(seq[0], inner))

	same, converted := mutableSeq([]any{1})
	assert.False(t, converted)
	assert.Len(t, same, 1)
}

func TestMinimalDiffConversion(t *testing.T) {
	// a 3-level tree with an immutable sequence at depth 1 and a
	// mutation at depth 2: only the ancestor chain of the mutation may
	// be new, siblings keep their identity
	target := map[any]any{"x": 1}
	siblingTuple := Tuple{1, 2}
	siblingSlice := []any{9}
	untouched := map[any]any{"y": 2}
	root := map[any]any{
		"top": Tuple{target, siblingTuple, siblingSlice},
		"sib": untouched,
	}

	newRoot, err := Set(root, 5, Path{"top", 0, "x"})
	require.NoError(t, err)

	m := newRoot.(map[any]any)
	assert.True(t, sameContainer(m["sib"], untouched), "untouched branch must stay shared")

	top, ok := m["top"].([]any)
	require.True(t, ok, "immutable sequence on the mutation chain must be converted")
	assert.True(t, sameContainer(top[0], target), "mutated mapping is updated in place")
	assert.True(t, sameContainer(top[1], siblingTuple), "sibling tuple must stay shared")
	assert.True(t, sameContainer(top[2], siblingSlice), "sibling slice must stay shared")
	assert.Equal(t, 5, target["x"])
}

func TestSetBasics(t *testing.T) {
	s := NewSet(1, "a")
	assert.True(t, s.Has(1))
	assert.True(t, s.Has("a"))
	assert.False(t, s.Has(2))
	assert.False(t, s.Has([]any{1}))
	assert.Equal(t, []any{1, "a"}, s.Items())
}
