package tree

import (
	"errors"
	"fmt"
)

// action is the terminal operation a build walk applies at the final
// path key.
type action int

const (
	actSet action = iota
	actAppend
	actExtend
	actInsert
	actAdd
	actUpdate
)

func (a action) String() string {
	switch a {
	case actSet:
		return "set"
	case actAppend:
		return "append"
	case actExtend:
		return "extend"
	case actInsert:
		return "insert"
	case actAdd:
		return "add"
	case actUpdate:
		return "update"
	}
	return "build"
}

// Set creates all missing nodes along path and stores value at the
// final key. Existing incompatible nodes along the way are converted or
// replaced according to the node-types spec and the default node type.
// The possibly reallocated root is returned.
func Set(root any, value any, path any, opts ...*Options) (any, error) {
	return build(unwrap(root), value, path, actSet, 0, nil, opts)
}

// Append creates all missing nodes along path and appends value to the
// sequence at the final key, converting the existing value to a
// sequence if necessary.
func Append(root any, value any, path any, opts ...*Options) (any, error) {
	return build(unwrap(root), value, path, actAppend, 0, nil, opts)
}

// Extend is Append for all elements of values.
func Extend(root any, values any, path any, opts ...*Options) (any, error) {
	return build(unwrap(root), values, path, actExtend, 0, nil, opts)
}

// Insert creates all missing nodes along path and inserts value at
// index into the sequence at the final key. The index is resolved with
// the total clamping rule, so any integer is acceptable.
func Insert(root any, index int, value any, path any, opts ...*Options) (any, error) {
	return build(unwrap(root), value, path, actInsert, index, nil, opts)
}

// Add creates all missing nodes along path and adds value to the set at
// the final key, converting the existing value to a set if necessary.
func Add(root any, value any, path any, opts ...*Options) (any, error) {
	return build(unwrap(root), value, path, actAdd, 0, nil, opts)
}

// UpdateWith creates all missing nodes along path and updates the node
// at the final key with values. A mapping updated with a mapping merges
// key by key; updating a mapping with any other bulk shape converts the
// target to a set of the incoming elements instead of guessing a merge.
func UpdateWith(root any, values any, path any, opts ...*Options) (any, error) {
	return build(unwrap(root), values, path, actUpdate, 0, nil, opts)
}

// Set stores value at path, creating missing nodes along the way.
func (t *Tree) Set(value any, path any, opts ...*Options) error {
	return t.apply(value, path, actSet, 0, opts)
}

// Append appends value to the sequence at path.
func (t *Tree) Append(value any, path any, opts ...*Options) error {
	return t.apply(value, path, actAppend, 0, opts)
}

// Extend appends all elements of values to the sequence at path.
func (t *Tree) Extend(values any, path any, opts ...*Options) error {
	return t.apply(values, path, actExtend, 0, opts)
}

// Insert inserts value at index into the sequence at path.
func (t *Tree) Insert(index int, value any, path any, opts ...*Options) error {
	return t.apply(value, path, actInsert, index, opts)
}

// Add adds value to the set at path.
func (t *Tree) Add(value any, path any, opts ...*Options) error {
	return t.apply(value, path, actAdd, 0, opts)
}

// UpdateWith updates the node at path with values.
func (t *Tree) UpdateWith(values any, path any, opts ...*Options) error {
	return t.apply(values, path, actUpdate, 0, opts)
}

func (t *Tree) apply(value any, path any, act action, index int, opts []*Options) error {
	root, err := build(t.root, value, path, act, index, t.options, opts)
	if err != nil {
		return err
	}
	t.root = root
	return nil
}

// build runs one mutating operation: it gates on the write condition,
// walks the path creating or converting nodes as required, and applies
// the terminal action. It returns the new root, which only differs from
// the old one when the root itself had to be converted or grown.
func build(root any, value any, path any, act action, insertIndex int, instance *Options, calls []*Options) (any, error) {
	st, err := resolveSettings(instance, calls)
	if err != nil {
		return root, err
	}
	if !st.admits(unwrap(value)) {
		return root, nil
	}
	keys := splitPath(path, st.pathSep)
	if len(keys) == 0 {
		return rootApply(root, unwrap(value), act, insertIndex)
	}
	b := &builder{
		st:          st,
		keys:        keys,
		value:       unwrap(value),
		act:         act,
		insertIndex: insertIndex,
		insertDepth: st.listInsert,
	}
	newRoot, _, err := b.walk(root, 0)
	if err != nil {
		return root, err
	}
	return newRoot, nil
}

// builder carries the state of one build walk.
type builder struct {
	st          settings
	keys        []any
	value       any
	act         action
	insertIndex int
	// insertDepth is the path level at which a sequence position is
	// inserted instead of overwritten. Consumed once, then disabled.
	insertDepth int
}

// walk processes keys[depth] on node. It returns the node, possibly as
// a new value after conversion or growth, and whether the caller must
// write it back into the parent.
func (b *builder) walk(node any, depth int) (any, bool, error) {
	key := b.keys[depth]
	last := depth == len(b.keys)-1
	switch kindOf(node) {
	case KindSequence:
		return b.walkSequence(node, key, depth, last)
	case KindMapping:
		return b.walkMapping(node, key, depth, last)
	default:
		return node, false, newMismatchError(b.act.String(), b.keys[:depth+1],
			fmt.Sprintf("cannot descend into %s node of type %T", kindOf(node), node))
	}
}

func (b *builder) walkSequence(node any, key any, depth int, last bool) (any, bool, error) {
	idx, ok := toIndex(key)
	if !ok {
		return node, false, newMismatchError(b.act.String(), b.keys[:depth+1],
			fmt.Sprintf("cannot parse sequence index from key %v", key))
	}
	seq, changed := mutableSeq(node)
	n := len(seq)
	pos := seqPos(idx, n)

	if last {
		if depth >= b.insertDepth {
			nv, err := b.putValue(absent)
			if err != nil {
				return node, false, err
			}
			return insertAt(seq, pos, nv), true, nil
		}
		switch {
		case idx >= n:
			nv, err := b.putValue(absent)
			if err != nil {
				return node, false, err
			}
			return append(seq, nv), true, nil
		case idx < -n:
			nv, err := b.putValue(absent)
			if err != nil {
				return node, false, err
			}
			return insertAt(seq, 0, nv), true, nil
		default:
			nv, err := b.putValue(seq[pos])
			if err != nil {
				return node, false, err
			}
			seq[pos] = nv
			return seq, changed, nil
		}
	}

	switch {
	case depth >= b.insertDepth:
		b.insertDepth = unlimited
		child := b.emptyNext(depth)
		seq = insertAt(seq, pos, child)
		changed = true
	case idx >= n:
		child := b.emptyNext(depth)
		seq = append(seq, child)
		pos = n
		changed = true
	case idx < -n:
		child := b.emptyNext(depth)
		seq = insertAt(seq, 0, child)
		pos = 0
		changed = true
	default:
		if b.shouldReplace(seq[pos], depth) {
			seq[pos] = b.emptyNext(depth)
		}
	}
	newChild, childChanged, err := b.walk(seq[pos], depth+1)
	if err != nil {
		return node, false, err
	}
	if childChanged {
		seq[pos] = newChild
	}
	return seq, changed, nil
}

func (b *builder) walkMapping(node any, key any, depth int, last bool) (any, bool, error) {
	if last {
		existing, ok := mapLookup(node, key)
		if !ok {
			existing = absent
		}
		nv, err := b.putValue(existing)
		if err != nil {
			return node, false, err
		}
		return storeMapping(node, key, nv, b.act.String())
	}
	child, ok := mapLookup(node, key)
	changed := false
	if !ok || b.shouldReplace(child, depth) {
		child = b.emptyNext(depth)
		var err error
		node, changed, err = mapStore(node, key, child)
		if err != nil {
			return node, false, err
		}
	}
	newChild, childChanged, err := b.walk(child, depth+1)
	if err != nil {
		return node, false, err
	}
	if childChanged {
		var ch bool
		node, ch, err = mapStore(node, key, newChild)
		if err != nil {
			return node, false, err
		}
		changed = changed || ch
	}
	return node, changed, nil
}

func storeMapping(node any, key, value any, op string) (any, bool, error) {
	newNode, changed, err := mapStore(node, key, value)
	if err != nil {
		var te *TreeError
		if errors.As(err, &te) {
			te.Op = op
		}
		return node, false, err
	}
	return newNode, changed, nil
}

// shouldReplace decides whether an existing child node must be
// discarded in favor of a fresh node of the required kind. Leaves and
// sets always give way to a traversable node. A constrained level
// replaces a node of the wrong kind; an unconstrained level keeps
// whatever traversable node exists, except a sequence that the next key
// cannot index.
func (b *builder) shouldReplace(child any, depth int) bool {
	ntc := b.st.nodeTypeChar(depth)
	switch kindOf(child) {
	case KindMapping:
		return ntc == 'l'
	case KindSequence:
		if ntc == 'd' {
			return true
		}
		if ntc == 'l' {
			return false
		}
		return !b.keyIndexable(depth + 1)
	default:
		return true
	}
}

// emptyNext creates the fresh node for path level depth+1. A 'l'
// constraint forces a sequence; an unconstrained level creates a
// sequence only when the default node type is "l" and the next key can
// act as an index, otherwise a mapping. The mapping default wins even
// for index-compatible keys.
func (b *builder) emptyNext(depth int) any {
	ntc := b.st.nodeTypeChar(depth)
	if ntc == 'l' || (ntc == ' ' && b.st.defaultNodeType == "l" && b.keyIndexable(depth+1)) {
		return []any{}
	}
	return map[any]any{}
}

func (b *builder) keyIndexable(depth int) bool {
	if depth >= len(b.keys) {
		return false
	}
	_, ok := toIndex(b.keys[depth])
	return ok
}

// putValue applies the terminal action to whatever occupies the final
// key (absent when nothing does) and returns the value to store there.
func (b *builder) putValue(existing any) (any, error) {
	op := b.act.String()
	switch b.act {
	case actSet:
		return b.value, nil

	case actAppend, actExtend, actInsert:
		var seq []any
		if existing == any(absent) {
			seq = []any{}
		} else {
			switch kindOf(existing) {
			case KindSequence:
				seq, _ = mutableSeq(existing)
			case KindMapping, KindSet:
				seq = elementsOf(existing)
			default:
				seq = []any{existing}
			}
		}
		switch b.act {
		case actAppend:
			return append(seq, b.value), nil
		case actExtend:
			return append(seq, elementsOf(b.value)...), nil
		default:
			return insertAt(seq, seqPos(b.insertIndex, len(seq)), b.value), nil
		}

	case actAdd, actUpdate:
		if existing == any(absent) {
			if b.act == actUpdate && kindOf(b.value) == KindMapping {
				return copyMapping(b.value), nil
			}
			if b.act == actUpdate || isContainer(b.value) {
				return setFromElements(op, elementsOf(b.value))
			}
			return setFromElements(op, []any{b.value})
		}
		switch kindOf(existing) {
		case KindSet:
			s := existing.(SetNode)
			if b.act == actAdd {
				if err := setAdd(op, s, b.value); err != nil {
					return nil, err
				}
				return s, nil
			}
			for _, e := range elementsOf(b.value) {
				if err := setAdd(op, s, e); err != nil {
					return nil, err
				}
			}
			return s, nil
		case KindMapping:
			if b.act == actUpdate {
				if kindOf(b.value) == KindMapping {
					return mergeMapping(existing, b.value)
				}
				// ambiguous bulk shape: the target becomes a set of the
				// incoming elements, never a guessed merge
				return setFromElements(op, elementsOf(b.value))
			}
			s, err := setFromElements(op, mapKeys(existing))
			if err != nil {
				return nil, err
			}
			if err := setAdd(op, s, b.value); err != nil {
				return nil, err
			}
			return s, nil
		default:
			s, err := setFromElements(op, elementsOf(existing))
			if err != nil {
				return nil, err
			}
			if b.act == actAdd {
				if err := setAdd(op, s, b.value); err != nil {
					return nil, err
				}
				return s, nil
			}
			for _, e := range elementsOf(b.value) {
				if err := setAdd(op, s, e); err != nil {
					return nil, err
				}
			}
			return s, nil
		}
	}
	return nil, newMismatchError(op, b.keys, "unsupported build action")
}

// rootApply performs a terminal action directly on the root for an
// empty path.
func rootApply(root any, value any, act action, insertIndex int) (any, error) {
	op := act.String()
	switch kindOf(root) {
	case KindMapping:
		if act == actUpdate && kindOf(value) == KindMapping {
			return mergeMapping(root, value)
		}
		return root, newNodeError(op, root)
	case KindSequence:
		seq, ok := root.([]any)
		if !ok {
			return root, newImmutableError(op, root)
		}
		switch act {
		case actAppend:
			return append(seq, value), nil
		case actExtend:
			return append(seq, elementsOf(value)...), nil
		case actInsert:
			return insertAt(seq, seqPos(insertIndex, len(seq)), value), nil
		}
		return root, newNodeError(op, root)
	case KindSet:
		s := root.(SetNode)
		switch act {
		case actAdd:
			if err := setAdd(op, s, value); err != nil {
				return root, err
			}
			return s, nil
		case actUpdate:
			for _, e := range elementsOf(value) {
				if err := setAdd(op, s, e); err != nil {
					return root, err
				}
			}
			return s, nil
		}
		return root, newNodeError(op, root)
	default:
		return root, newNodeError(op, root)
	}
}

func insertAt(seq []any, pos int, v any) []any {
	seq = append(seq, nil)
	copy(seq[pos+1:], seq[pos:])
	seq[pos] = v
	return seq
}

func setAdd(op string, s SetNode, v any) error {
	if !isHashable(v) {
		return &TreeError{
			Op:      op,
			Message: fmt.Sprintf("value %v of type %T cannot be a set member", v, v),
			Err:     ErrNotHashable,
		}
	}
	s[v] = struct{}{}
	return nil
}

func setFromElements(op string, elements []any) (SetNode, error) {
	s := make(SetNode, len(elements))
	for _, e := range elements {
		if err := setAdd(op, s, e); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func copyMapping(m any) any {
	switch src := m.(type) {
	case map[any]any:
		out := make(map[any]any, len(src))
		for k, v := range src {
			out[k] = v
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(src))
		for k, v := range src {
			out[k] = v
		}
		return out
	}
	return m
}

// mergeMapping writes every entry of src into dst, converting dst to
// map[any]any when a non-string key meets a map[string]any.
func mergeMapping(dst any, src any) (any, error) {
	var err error
	switch s := src.(type) {
	case map[any]any:
		for k, v := range s {
			dst, _, err = mapStore(dst, k, v)
			if err != nil {
				return dst, err
			}
		}
	case map[string]any:
		for k, v := range s {
			dst, _, err = mapStore(dst, k, v)
			if err != nil {
				return dst, err
			}
		}
	}
	return dst, nil
}
