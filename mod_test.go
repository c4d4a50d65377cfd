package tree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetDefaultOp(t *testing.T) {
	tr := MustNew(map[any]any{"a": 1})

	v, err := tr.SetDefault("a", 99)
	require.NoError(t, err)
	assert.Equal(t, 1, v, "existing value wins")

	v, err = tr.SetDefault("b c", 99)
	require.NoError(t, err)
	assert.Equal(t, 99, v)
	assert.Equal(t, 99, tr.Get("b c"), "default is stored, creating missing nodes")
}

func TestMod(t *testing.T) {
	tr := MustNew(map[any]any{"n": 10})

	v, err := tr.Mod(func(old any) any { return old.(int) + 1 }, "n", 0)
	require.NoError(t, err)
	assert.Equal(t, 11, v)
	assert.Equal(t, 11, tr.Get("n"))

	// missing path stores the default without calling fn
	called := false
	v, err = tr.Mod(func(old any) any { called = true; return nil }, "m", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, v)
	assert.Equal(t, 5, tr.Get("m"))
	assert.False(t, called)
}

func TestModAll(t *testing.T) {
	tr := MustNew(map[any]any{
		"a": map[any]any{"x": 1, "y": 2},
		"b": []any{3, Tuple{4}},
	})
	require.NoError(t, tr.ModAll(func(v any) any {
		if n, ok := v.(int); ok {
			return n * 10
		}
		return v
	}, nil, ""))
	assert.Equal(t, 10, tr.Get("a x"))
	assert.Equal(t, 20, tr.Get("a y"))
	assert.Equal(t, 30, tr.Get("b 0"))
	assert.Equal(t, 40, tr.Get("b 1 0"))
}

func TestModAllFiltered(t *testing.T) {
	tr := MustNew(map[any]any{
		"keep": map[any]any{"x": "a"},
		"skip": map[any]any{"x": "b"},
	})
	require.NoError(t, tr.ModAll(func(v any) any {
		return strings.ToUpper(v.(string))
	}, NewFilter("keep"), ""))
	assert.Equal(t, "A", tr.Get("keep x"))
	assert.Equal(t, "b", tr.Get("skip x"), "filtered-out branches stay untouched")
}

func TestModAllOnSubtree(t *testing.T) {
	tr := MustNew(map[any]any{"a": map[any]any{"n": 1}, "b": map[any]any{"n": 2}})
	require.NoError(t, tr.ModAll(func(v any) any { return 0 }, nil, "a"))
	assert.Equal(t, 0, tr.Get("a n"))
	assert.Equal(t, 2, tr.Get("b n"))
}

func TestModAllSetMembers(t *testing.T) {
	tr := MustNew(map[any]any{"s": NewSet(1, 2)})
	require.NoError(t, tr.ModAll(func(v any) any { return v.(int) * 10 }, nil, ""))
	assert.Equal(t, NewSet(10, 20), tr.Get("s"))
}
