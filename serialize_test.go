package tree

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSerializeShapes(t *testing.T) {
	ts := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	root := map[any]any{
		1:     "int key",
		"tup": Tuple{1, 2},
		"set": NewSet(3, 1, 2),
		"ts":  ts,
		"b":   []byte("raw"),
		"u":   uint8(9),
	}
	got, err := Serialize(root, "")
	require.NoError(t, err)
	want := map[string]any{
		"1":   "int key",
		"tup": []any{1, 2},
		"set": []any{1, 2, 3},
		"ts":  "2026-08-29T12:00:00Z",
		"b":   "raw",
		"u":   9,
	}
	assert.Empty(t, cmp.Diff(want, got))
}

func TestSerializeModFunctions(t *testing.T) {
	type point struct{ x, y int }
	root := map[any]any{"p": point{1, 2}}
	mods := map[reflect.Type]ModFunc{
		reflect.TypeOf(point{}): func(v any) any {
			p := v.(point)
			return []any{p.x, p.y}
		},
	}
	got, err := Serialize(root, "", NewOptions().WithModFunctions(mods))
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(map[string]any{"p": []any{1, 2}}, got))
}

func TestToJSON(t *testing.T) {
	tr := MustNew(map[any]any{"a": []any{1, Tuple{2}}, 5: true})
	out, err := tr.ToJSON("")
	require.NoError(t, err)
	var back map[string]any
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, true, back["5"])
	assert.Equal(t, []any{float64(1), []any{float64(2)}}, back["a"])
}

func TestToYAML(t *testing.T) {
	tr := MustNew(map[any]any{"a": map[any]any{"b": 1}})
	out, err := tr.ToYAML("")
	require.NoError(t, err)
	var back map[string]any
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, map[string]any{"b": 1}, back["a"])
}

func TestSerializeSubtreeAndDefault(t *testing.T) {
	root := map[any]any{"a": map[any]any{"b": 1}}
	got, err := Serialize(root, "a")
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(map[string]any{"b": 1}, got))

	got, err = Serialize(root, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}
