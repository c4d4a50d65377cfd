package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitPath(t *testing.T) {
	tests := []struct {
		name string
		path any
		sep  string
		want []any
	}{
		{"nil is root", nil, " ", nil},
		{"empty string is root", "", " ", nil},
		{"plain keys", "a b c", " ", []any{"a", "b", "c"}},
		{"numeric segments become indices", "a 1 -2 +3", " ", []any{"a", 1, -2, 3}},
		{"custom separator", "a.b.0", ".", []any{"a", "b", 0}},
		{"path used verbatim", Path{"a", 1}, " ", []any{"a", 1}},
		{"any slice used verbatim", []any{1, "2"}, " ", []any{1, "2"}},
		{"string slice", []string{"a", "b"}, " ", []any{"a", "b"}},
		{"int slice", []int{0, -1}, " ", []any{0, -1}},
		{"single key", 7, " ", []any{7}},
		{"single string key without separator", "abc", ".", []any{"abc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitPath(tt.path, tt.sep))
		})
	}
}

func TestFormatPath(t *testing.T) {
	assert.Equal(t, "", formatPath(nil))
	assert.Equal(t, "a 1 b", formatPath([]any{"a", 1, "b"}))
}
