package tree

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNilRoot(t *testing.T) {
	tr, err := New(nil)
	require.NoError(t, err)
	assert.Equal(t, map[any]any{}, tr.Root())

	tr, err = New(nil, NewOptions().WithDefaultNodeType("l"))
	require.NoError(t, err)
	assert.Equal(t, []any{}, tr.Root())

	_, err = New(nil, NewOptions().WithDefaultNodeType("q"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidOption))
}

func TestNewUnwrapsTree(t *testing.T) {
	inner := MustNew(map[any]any{"a": 1}, NewOptions().WithPathSep("."))
	outer, err := New(inner)
	require.NoError(t, err)
	assert.Equal(t, 1, outer.Get("a"), "wrapping a tree shares its root")
	assert.Equal(t, 1, outer.Get("a"), "inner instance options carry over")
}

func TestSetOptionsAndClear(t *testing.T) {
	tr := MustNew(map[any]any{"a": map[any]any{"b": 1}})
	require.NoError(t, tr.SetOptions(NewOptions().WithPathSep(".")))
	assert.Equal(t, 1, tr.Get("a.b"))
	tr.ClearOptions()
	assert.Equal(t, 1, tr.Get("a b"))
}

func TestChildOptionsAreValueCopied(t *testing.T) {
	tr := MustNew(map[any]any{"a": map[any]any{"b": 1}},
		NewOptions().WithPathSep("."))
	child, err := tr.Child("a")
	require.NoError(t, err)

	// mutating the parent's options after derivation must not
	// propagate to the child
	require.NoError(t, tr.SetOptions(NewOptions().WithPathSep("/")))
	assert.Equal(t, 1, child.Get("b"))
	assert.Equal(t, 1, tr.Get("a/b"))
}

func TestCopyIsIndependent(t *testing.T) {
	tr := MustNew(map[any]any{"a": map[any]any{"b": 1}, "t": Tuple{1}})
	cp := tr.Copy()
	require.NoError(t, cp.Set(2, "a b"))
	assert.Equal(t, 1, tr.Get("a b"), "copies do not alias the original")
	assert.Equal(t, 2, cp.Get("a b"))
	_, isTuple := cp.Get("t").(Tuple)
	assert.True(t, isTuple, "copying preserves the immutable variant")
	assert.Empty(t, cmp.Diff(tr.Get("a"), map[any]any{"b": 1}, variantEqual))
}

func TestTreeErrorFormatting(t *testing.T) {
	err := newMismatchError("set", []any{"a", 1}, "boom")
	assert.Equal(t, "tree set failed at path 'a 1': boom", err.Error())
	var te *TreeError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "set", te.Op)
	assert.True(t, errors.Is(err, ErrStructuralMismatch))
}
