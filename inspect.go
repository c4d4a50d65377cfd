package tree

import (
	"github.com/google/go-cmp/cmp"
)

// Item is one key/value entry of a node. Sequence items carry their
// index as Key, set items carry NoKey.
type Item struct {
	Key   any
	Value any
}

// Keys returns the keys of the node at path: mapping keys in
// deterministic order, sequence indices in order, set members. A leaf
// or missing node has no keys.
func Keys(root any, path any, opts ...*Options) []any {
	node := nodeAt(root, path, opts)
	switch kindOf(node) {
	case KindMapping:
		return mapKeys(node)
	case KindSequence:
		s, _ := asSlice(node)
		keys := make([]any, len(s))
		for i := range s {
			keys[i] = i
		}
		return keys
	case KindSet:
		return node.(SetNode).Items()
	}
	return nil
}

// Values returns the values of the node at path. A leaf yields itself
// as its only value; a missing node yields nothing.
func Values(root any, path any, opts ...*Options) []any {
	node := nodeAt(root, path, opts)
	if node == any(absent) {
		return nil
	}
	switch kindOf(node) {
	case KindMapping:
		keys := mapKeys(node)
		values := make([]any, len(keys))
		for i, k := range keys {
			values[i], _ = mapLookup(node, k)
		}
		return values
	case KindSequence:
		s, _ := asSlice(node)
		values := make([]any, len(s))
		copy(values, s)
		return values
	case KindSet:
		return node.(SetNode).Items()
	}
	return []any{node}
}

// Items returns the key/value entries of the node at path.
func Items(root any, path any, opts ...*Options) []Item {
	node := nodeAt(root, path, opts)
	switch kindOf(node) {
	case KindMapping:
		keys := mapKeys(node)
		items := make([]Item, len(keys))
		for i, k := range keys {
			v, _ := mapLookup(node, k)
			items[i] = Item{Key: k, Value: v}
		}
		return items
	case KindSequence:
		s, _ := asSlice(node)
		items := make([]Item, len(s))
		for i, v := range s {
			items[i] = Item{Key: i, Value: v}
		}
		return items
	case KindSet:
		members := node.(SetNode).Items()
		items := make([]Item, len(members))
		for i, m := range members {
			items[i] = Item{Key: NoKey, Value: m}
		}
		return items
	}
	return nil
}

// Contains reports whether the node at path contains value: sequence
// element, set member or mapping key. A leaf at path is compared for
// equality.
func Contains(root any, value any, path any, opts ...*Options) bool {
	node := nodeAt(root, path, opts)
	if node == any(absent) {
		return false
	}
	switch kindOf(node) {
	case KindMapping:
		_, ok := mapLookup(node, value)
		return ok
	case KindSequence:
		s, _ := asSlice(node)
		for _, e := range s {
			if looseEqual(e, value) {
				return true
			}
		}
		return false
	case KindSet:
		return node.(SetNode).Has(value)
	}
	return looseEqual(node, value)
}

// Count returns the number of entries of the node at path. A leaf
// counts as 1, a missing node as 0.
func Count(root any, path any, opts ...*Options) int {
	node := nodeAt(root, path, opts)
	if node == any(absent) {
		return 0
	}
	switch n := node.(type) {
	case map[any]any:
		return len(n)
	case map[string]any:
		return len(n)
	case []any:
		return len(n)
	case Tuple:
		return len(n)
	case SetNode:
		return len(n)
	}
	return 1
}

// IndexOf returns the position of the first sequence element at path
// equal to value, or -1 when the node is not a sequence or does not
// contain it.
func IndexOf(root any, value any, path any, opts ...*Options) int {
	node := nodeAt(root, path, opts)
	s, ok := asSlice(node)
	if !ok {
		return -1
	}
	for i, e := range s {
		if looseEqual(e, value) {
			return i
		}
	}
	return -1
}

// IsDisjoint reports whether the node at path shares no element with
// other. Mapping nodes compare keys, sequences their elements, sets
// their members.
func IsDisjoint(root any, other any, path any, opts ...*Options) bool {
	node := nodeAt(root, path, opts)
	if node == any(absent) {
		return true
	}
	for _, e := range elementsOf(unwrap(other)) {
		if Contains(node, e, nil) {
			return false
		}
	}
	return true
}

// IsEmpty reports whether the node at path has no entries. A missing
// node is empty, a leaf is not.
func IsEmpty(root any, path any, opts ...*Options) bool {
	node := nodeAt(root, path, opts)
	if node == any(absent) {
		return true
	}
	if !isContainer(node) {
		return false
	}
	return Count(node, nil) == 0
}

// variantEqual makes the immutable and string-keyed container variants
// compare equal to their canonical forms.
var variantEqual = cmp.Options{
	cmp.Transformer("tupleAsSlice", func(t Tuple) []any {
		return []any(t)
	}),
	cmp.Transformer("stringKeys", func(m map[string]any) map[any]any {
		out := make(map[any]any, len(m))
		for k, v := range m {
			out[k] = v
		}
		return out
	}),
}

// Equals reports structural equality between the node at path and
// other. Tuple vs []any and map[string]any vs map[any]any count as
// equal when their contents match.
func Equals(root any, other any, path any, opts ...*Options) bool {
	node := nodeAt(root, path, opts)
	if node == any(absent) {
		return false
	}
	return cmp.Equal(node, unwrap(other), variantEqual)
}

// nodeAt resolves the node a non-mutating helper operates on.
func nodeAt(root any, path any, opts []*Options) any {
	st, err := resolveSettings(nil, opts)
	if err != nil {
		return absent
	}
	return getValue(unwrap(root), splitPath(path, st.pathSep), absent)
}

// Keys returns the keys of the node at path.
func (t *Tree) Keys(path any, opts ...*Options) []any {
	return Keys(t.root, path, t.callOptions(opts)...)
}

// Values returns the values of the node at path.
func (t *Tree) Values(path any, opts ...*Options) []any {
	return Values(t.root, path, t.callOptions(opts)...)
}

// Items returns the key/value entries of the node at path.
func (t *Tree) Items(path any, opts ...*Options) []Item {
	return Items(t.root, path, t.callOptions(opts)...)
}

// Contains reports whether the node at path contains value.
func (t *Tree) Contains(value any, path any, opts ...*Options) bool {
	return Contains(t.root, value, path, t.callOptions(opts)...)
}

// Count returns the number of entries of the node at path.
func (t *Tree) Count(path any, opts ...*Options) int {
	return Count(t.root, path, t.callOptions(opts)...)
}

// IndexOf returns the position of value in the sequence at path.
func (t *Tree) IndexOf(value any, path any, opts ...*Options) int {
	return IndexOf(t.root, value, path, t.callOptions(opts)...)
}

// IsDisjoint reports whether the node at path shares no element with
// other.
func (t *Tree) IsDisjoint(other any, path any, opts ...*Options) bool {
	return IsDisjoint(t.root, other, path, t.callOptions(opts)...)
}

// IsEmpty reports whether the node at path has no entries.
func (t *Tree) IsEmpty(path any, opts ...*Options) bool {
	return IsEmpty(t.root, path, t.callOptions(opts)...)
}

// Equals reports structural equality between the node at path and
// other.
func (t *Tree) Equals(other any, path any, opts ...*Options) bool {
	return Equals(t.root, other, path, t.callOptions(opts)...)
}
