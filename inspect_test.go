package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeysValuesItems(t *testing.T) {
	tr := MustNew(map[any]any{
		"m": map[any]any{"b": 2, "a": 1, 3: "x"},
		"l": []any{"p", "q"},
		"s": NewSet("only"),
	})

	assert.Equal(t, []any{3, "a", "b"}, tr.Keys("m"), "ints rank before strings")
	assert.Equal(t, []any{"x", 1, 2}, tr.Values("m"))
	assert.Equal(t, []Item{{3, "x"}, {"a", 1}, {"b", 2}}, tr.Items("m"))

	assert.Equal(t, []any{0, 1}, tr.Keys("l"))
	assert.Equal(t, []any{"p", "q"}, tr.Values("l"))
	assert.Equal(t, []Item{{0, "p"}, {1, "q"}}, tr.Items("l"))

	assert.Equal(t, []any{"only"}, tr.Keys("s"))
	assert.Equal(t, []Item{{NoKey, "only"}}, tr.Items("s"))

	assert.Nil(t, tr.Keys("missing"))
	assert.Nil(t, tr.Values("missing"))
	assert.Equal(t, []any{2}, tr.Values("m b"), "a leaf yields itself")
}

func TestContains(t *testing.T) {
	tr := MustNew(map[any]any{
		"m": map[any]any{"k": "v"},
		"l": []any{1, 2},
		"s": NewSet("x"),
	})
	assert.True(t, tr.Contains("k", "m"), "mappings are tested on their keys")
	assert.False(t, tr.Contains("v", "m"))
	assert.True(t, tr.Contains(2, "l"))
	assert.False(t, tr.Contains(3, "l"))
	assert.True(t, tr.Contains("x", "s"))
	assert.True(t, tr.Contains("v", "m k"), "a leaf is compared for equality")
	assert.False(t, tr.Contains(1, "missing"))
}

func TestCountAndIsEmpty(t *testing.T) {
	tr := MustNew(map[any]any{
		"m":     map[any]any{"a": 1, "b": 2},
		"l":     []any{1},
		"t":     Tuple{},
		"leaf":  "x",
		"empty": map[any]any{},
	})
	assert.Equal(t, 2, tr.Count("m"))
	assert.Equal(t, 1, tr.Count("l"))
	assert.Equal(t, 0, tr.Count("t"))
	assert.Equal(t, 1, tr.Count("leaf"))
	assert.Equal(t, 0, tr.Count("missing"))

	assert.True(t, tr.IsEmpty("t"))
	assert.True(t, tr.IsEmpty("empty"))
	assert.True(t, tr.IsEmpty("missing"))
	assert.False(t, tr.IsEmpty("m"))
	assert.False(t, tr.IsEmpty("leaf"))
}

func TestIndexOf(t *testing.T) {
	tr := MustNew(map[any]any{"l": []any{"a", "b", "a"}})
	assert.Equal(t, 0, tr.IndexOf("a", "l"))
	assert.Equal(t, 1, tr.IndexOf("b", "l"))
	assert.Equal(t, -1, tr.IndexOf("z", "l"))
	assert.Equal(t, -1, tr.IndexOf("a", "missing"))
}

func TestIsDisjoint(t *testing.T) {
	tr := MustNew(map[any]any{
		"s": NewSet(1, 2),
		"l": []any{"a"},
	})
	assert.True(t, tr.IsDisjoint(NewSet(3, 4), "s"))
	assert.False(t, tr.IsDisjoint([]any{2}, "s"))
	assert.False(t, tr.IsDisjoint([]any{"a"}, "l"))
	assert.True(t, tr.IsDisjoint([]any{1}, "missing"))
}

func TestEquals(t *testing.T) {
	tr := MustNew(map[any]any{
		"t": Tuple{1, 2},
		"m": map[string]any{"a": 1},
	})
	assert.True(t, tr.Equals([]any{1, 2}, "t"), "tuples equal slices with the same contents")
	assert.True(t, tr.Equals(map[any]any{"a": 1}, "m"), "string maps equal any-keyed maps")
	assert.False(t, tr.Equals([]any{1}, "t"))
	assert.False(t, tr.Equals(1, "missing"))
}
