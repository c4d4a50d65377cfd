package tree

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
)

// Kind classifies a value within a tree. Every value is exactly one of
// mapping, sequence, set or leaf, and all traversal logic switches on
// this tag instead of probing capabilities at runtime.
type Kind int

const (
	// KindLeaf is any scalar value, including strings and []byte.
	KindLeaf Kind = iota
	// KindMapping is map[any]any or map[string]any.
	KindMapping
	// KindSequence is []any or Tuple.
	KindSequence
	// KindSet is Set.
	KindSet
)

func (k Kind) String() string {
	switch k {
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	case KindSet:
		return "set"
	default:
		return "leaf"
	}
}

// Tuple is an immutable sequence node. A Tuple is traversed like []any,
// but any operation that needs to mutate it (or anything below it)
// first converts it to []any. The conversion is shallow and happens only
// along the ancestor chain of the mutation site, so untouched sibling
// subtrees keep their identity.
type Tuple []any

// Set is a set node of unique, comparable leaf values. Sets are leaves
// for path traversal: a path never descends into a set. They support
// membership and add/update style operations only.
type SetNode map[any]struct{}

// NewSet builds a Set from the given items. Items must be comparable.
func NewSet(items ...any) SetNode {
	s := make(SetNode, len(items))
	for _, item := range items {
		s[item] = struct{}{}
	}
	return s
}

// Has reports whether item is a member of the set.
func (s SetNode) Has(item any) bool {
	if !isHashable(item) {
		return false
	}
	_, ok := s[item]
	return ok
}

// Items returns the members of the set in deterministic key order.
func (s SetNode) Items() []any {
	items := make([]any, 0, len(s))
	for item := range s {
		items = append(items, item)
	}
	sortKeys(items)
	return items
}

// NoKey is the key reported for set members during iteration, since set
// nodes have no addressable keys.
var NoKey = noKey{}

type noKey struct{}

func (noKey) String() string { return "..." }

// absent is the internal marker for "no value here", distinct from an
// explicitly stored nil.
type absentType struct{}

var absent = absentType{}

// kindOf returns the node kind of v. Strings and byte slices are always
// leaves, never sequences.
func kindOf(v any) Kind {
	switch v.(type) {
	case map[any]any, map[string]any:
		return KindMapping
	case []any, Tuple:
		return KindSequence
	case SetNode:
		return KindSet
	default:
		return KindLeaf
	}
}

// isNode reports whether v is a traversable container (mapping or
// sequence). Sets deliberately do not count.
func isNode(v any) bool {
	k := kindOf(v)
	return k == KindMapping || k == KindSequence
}

// isContainer reports whether v is any container node, including sets.
func isContainer(v any) bool {
	return kindOf(v) != KindLeaf
}

// isHashable reports whether v can be used as a map key or set member.
func isHashable(v any) bool {
	if v == nil {
		return true
	}
	return reflect.TypeOf(v).Comparable()
}

// toIndex derives a sequence index from a path key. Integers are used
// directly, strings are parsed with strconv. Anything else cannot
// address a sequence.
func toIndex(key any) (int, bool) {
	switch k := key.(type) {
	case int:
		return k, true
	case int8:
		return int(k), true
	case int16:
		return int(k), true
	case int32:
		return int(k), true
	case int64:
		return int(k), true
	case uint:
		return int(k), true
	case uint8:
		return int(k), true
	case uint16:
		return int(k), true
	case uint32:
		return int(k), true
	case string:
		i, err := strconv.Atoi(k)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

// seqPos resolves an arbitrary signed index against a sequence of
// length n. The mapping is total: indices past either end clamp to the
// nearest boundary, negative in-range indices count from the back.
//
//	0 <= i < n   -> i
//	i >= n       -> n (append position)
//	i < -n       -> 0 (prepend position)
//	-n <= i < 0  -> n + i
func seqPos(i, n int) int {
	switch {
	case i >= n:
		return n
	case i < -n:
		return 0
	case i < 0:
		return n + i
	default:
		return i
	}
}

// mapLookup reads key from a mapping node of either representation.
func mapLookup(node any, key any) (any, bool) {
	switch m := node.(type) {
	case map[any]any:
		if !isHashable(key) {
			return nil, false
		}
		v, ok := m[key]
		return v, ok
	case map[string]any:
		s, ok := key.(string)
		if !ok {
			return nil, false
		}
		v, ok := m[s]
		return v, ok
	}
	return nil, false
}

// mapStore writes key=value into a mapping node, converting a
// map[string]any to map[any]any when the key is not a string. It
// returns the mapping that now holds the entry and whether the caller
// must write that mapping back into its parent.
func mapStore(node any, key, value any) (any, bool, error) {
	if !isHashable(key) {
		return node, false, newKeyError("set", key)
	}
	switch m := node.(type) {
	case map[any]any:
		m[key] = value
		return m, false, nil
	case map[string]any:
		if s, ok := key.(string); ok {
			m[s] = value
			return m, false, nil
		}
		conv := make(map[any]any, len(m)+1)
		for k, v := range m {
			conv[k] = v
		}
		conv[key] = value
		return conv, true, nil
	}
	return node, false, newNodeError("set", node)
}

// mapDelete removes key from a mapping node in place.
func mapDelete(node any, key any) bool {
	switch m := node.(type) {
	case map[any]any:
		if !isHashable(key) {
			return false
		}
		if _, ok := m[key]; ok {
			delete(m, key)
			return true
		}
	case map[string]any:
		if s, ok := key.(string); ok {
			if _, ok := m[s]; ok {
				delete(m, s)
				return true
			}
		}
	}
	return false
}

// mapKeys returns the keys of a mapping node in deterministic order:
// integers numerically, then strings lexicographically, then everything
// else by its printed form.
func mapKeys(node any) []any {
	var keys []any
	switch m := node.(type) {
	case map[any]any:
		keys = make([]any, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
	case map[string]any:
		keys = make([]any, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
	default:
		return nil
	}
	sortKeys(keys)
	return keys
}

// asSlice returns the elements of a sequence node without copying.
func asSlice(node any) ([]any, bool) {
	switch s := node.(type) {
	case []any:
		return s, true
	case Tuple:
		return []any(s), true
	}
	return nil, false
}

// mutableSeq returns a sequence node as a mutable []any. Converting a
// Tuple copies the element headers only; the elements themselves stay
// shared. The second result reports whether a new slice was made, which
// means the caller has to write it back into the parent.
func mutableSeq(node any) ([]any, bool) {
	switch s := node.(type) {
	case []any:
		return s, false
	case Tuple:
		out := make([]any, len(s))
		copy(out, s)
		return out, true
	}
	return nil, false
}

// elementsOf flattens a container into its elements: sequence elements,
// set members in key order, mapping keys in key order. A leaf yields
// itself as the single element.
func elementsOf(v any) []any {
	switch kindOf(v) {
	case KindSequence:
		s, _ := asSlice(v)
		out := make([]any, len(s))
		copy(out, s)
		return out
	case KindSet:
		return v.(SetNode).Items()
	case KindMapping:
		return mapKeys(v)
	default:
		return []any{v}
	}
}

// keyRank orders keys across types so mixed-key mappings iterate
// deterministically.
func keyRank(k any) int {
	switch k.(type) {
	case nil:
		return 0
	case bool:
		return 1
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return 2
	case string:
		return 3
	default:
		return 4
	}
}

func keyNumber(k any) float64 {
	switch n := k.(type) {
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	}
	return 0
}

// compareKeys orders two mapping keys. Negative means a before b.
func compareKeys(a, b any) int {
	ra, rb := keyRank(a), keyRank(b)
	if ra != rb {
		return ra - rb
	}
	switch ra {
	case 1:
		av, bv := a.(bool), b.(bool)
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		default:
			return 1
		}
	case 2:
		an, bn := keyNumber(a), keyNumber(b)
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		default:
			return 0
		}
	case 3:
		as, bs := a.(string), b.(string)
		switch {
		case as < bs:
			return -1
		case as > bs:
			return 1
		default:
			return 0
		}
	default:
		as, bs := fmt.Sprint(a), fmt.Sprint(b)
		switch {
		case as < bs:
			return -1
		case as > bs:
			return 1
		default:
			return 0
		}
	}
}

func sortKeys(keys []any) {
	sort.SliceStable(keys, func(i, j int) bool {
		return compareKeys(keys[i], keys[j]) < 0
	})
}

// looseEqual compares two values structurally, tolerating values that
// are not comparable with ==.
func looseEqual(a, b any) bool {
	if isHashable(a) && isHashable(b) {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

// sameContainer reports whether two container values share the same
// backing storage. Used by tests and the minimal-diff machinery to
// verify that untouched siblings stay shared.
func sameContainer(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Kind() != vb.Kind() {
		return false
	}
	switch va.Kind() {
	case reflect.Map, reflect.Slice:
		if va.Len() != vb.Len() {
			return false
		}
		if va.Len() == 0 {
			return va.Pointer() == vb.Pointer() || reflect.DeepEqual(a, b)
		}
		return va.Pointer() == vb.Pointer()
	}
	return false
}
