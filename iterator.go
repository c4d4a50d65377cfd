package tree

// Iterator walks a subtree depth-first and yields one tuple per visited
// leaf: the keys from the subtree root down, followed by the leaf
// value. Iteration is lazy; the consumer stops it by not calling Next.
// An Iterator is not restartable, create a new one to traverse again.
type Iterator struct {
	st     settings
	frames []*iterFrame
	// last yielded key path, for DeepestChange
	prevKeys []any
	lastKeys []any
	started  bool
}

type iterFrame struct {
	node any
	keys []any
	pos  int
	refs []filterRef
}

// Iter creates an Iterator over the node at path. f restricts traversal
// to matching branches (nil iterates everything). Depth, fill and node
// exposure come from the option layers (WithMaxDepth, WithIterFill,
// WithIterNodes). A missing path or a leaf at path yields nothing.
func Iter(root any, f *Filter, path any, opts ...*Options) (*Iterator, error) {
	st, err := resolveSettings(nil, opts)
	if err != nil {
		return nil, err
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	node := getValue(unwrap(root), splitPath(path, st.pathSep), absent)
	it := &Iterator{st: st}
	if node == any(absent) || !isContainer(node) {
		return it, nil
	}
	var refs []filterRef
	if f != nil {
		refs = []filterRef{{f: f}}
	}
	it.frames = []*iterFrame{newFrame(node, refs)}
	return it, nil
}

// Iter creates an Iterator over the node at path.
func (t *Tree) Iter(f *Filter, path any, opts ...*Options) (*Iterator, error) {
	return Iter(t.root, f, path, t.callOptions(opts)...)
}

func newFrame(node any, refs []filterRef) *iterFrame {
	fr := &iterFrame{node: node, refs: refs}
	switch kindOf(node) {
	case KindMapping:
		fr.keys = mapKeys(node)
	case KindSequence:
		s, _ := asSlice(node)
		fr.keys = make([]any, len(s))
		for i := range s {
			fr.keys[i] = i
		}
	case KindSet:
		fr.keys = node.(SetNode).Items()
	}
	return fr
}

// childAt resolves the child a frame key leads to. For set frames the
// key is the member itself.
func childAt(node any, key any) any {
	switch kindOf(node) {
	case KindMapping:
		v, _ := mapLookup(node, key)
		return v
	case KindSequence:
		s, _ := asSlice(node)
		return s[key.(int)]
	case KindSet:
		return key
	}
	return nil
}

// Next yields the next tuple. The second result is false when the
// traversal is finished.
func (it *Iterator) Next() ([]any, bool) {
	for len(it.frames) > 0 {
		fr := it.frames[len(it.frames)-1]
		if fr.pos >= len(fr.keys) {
			it.frames = it.frames[:len(it.frames)-1]
			continue
		}
		key := fr.keys[fr.pos]
		fr.pos++
		child := childAt(fr.node, key)
		ok, next := stepAll(fr.refs, key, child)
		if !ok {
			continue
		}
		depth := len(it.frames)
		if isNode(child) && depth <= it.st.maxDepth && !emptyContainer(child) {
			it.frames = append(it.frames, newFrame(child, next))
			continue
		}
		if kindOf(child) == KindSet && depth <= it.st.maxDepth && len(child.(SetNode)) > 0 {
			it.frames = append(it.frames, newFrame(child, next))
			continue
		}
		if !isContainer(child) && !leafVisible(next, child) {
			continue
		}
		return it.yield(child), true
	}
	return nil, false
}

// yield assembles the tuple for the current frame stack and value.
func (it *Iterator) yield(value any) []any {
	depth := len(it.frames)
	keys := make([]any, depth)
	for i, fr := range it.frames {
		k := fr.keys[fr.pos-1]
		if kindOf(fr.node) == KindSet {
			k = NoKey
		}
		keys[i] = k
	}
	it.prevKeys, it.lastKeys = it.lastKeys, keys
	it.started = true

	var tuple []any
	if it.st.iterNodes {
		tuple = make([]any, 0, 2*depth+1)
		for i, fr := range it.frames {
			tuple = append(tuple, fr.node, keys[i])
		}
	} else {
		tuple = append(tuple, keys...)
	}
	tuple = append(tuple, value)

	if it.st.maxDepth != unlimited && it.st.iterFill.set {
		want := it.st.maxDepth + 2
		if it.st.iterNodes {
			want = 2*(it.st.maxDepth+1) + 1
		}
		for len(tuple) < want {
			tuple = append(tuple, it.st.iterFill.value)
		}
	}
	return tuple
}

// Skip abandons the unvisited remainder of the subtree being iterated
// at the given depth (0 is the iteration root) and returns that
// subtree's node. The next call to Next resumes above it.
func (it *Iterator) Skip(level int) any {
	if level < 0 || level >= len(it.frames) {
		return nil
	}
	fr := it.frames[level]
	it.frames = it.frames[:level+1]
	fr.pos = len(fr.keys)
	return fr.node
}

// DeepestChange returns the depth of the highest key that differs
// between the last two yielded tuples: 0 means the top-level key
// changed. Before the second tuple it returns 0.
func (it *Iterator) DeepestChange() int {
	if !it.started || it.prevKeys == nil {
		return 0
	}
	n := len(it.prevKeys)
	if len(it.lastKeys) < n {
		n = len(it.lastKeys)
	}
	for i := 0; i < n; i++ {
		if !looseEqual(it.prevKeys[i], it.lastKeys[i]) {
			return i
		}
	}
	return n
}

// Path returns the key path of the last yielded tuple.
func (it *Iterator) Path() Path {
	if !it.started {
		return nil
	}
	return Path(it.lastKeys)
}
