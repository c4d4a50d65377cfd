package tree

// Merge combines other into the node at path. Mappings merge key by
// key, sequences merge index by index, sets unite. A leaf present on
// both sides is resolved by the merge action option: "r" takes the new
// value, "i" keeps the old one, "a" aggregates both into a sequence.
// From the extendFrom depth on, sequences are extended instead of
// merged index-wise; from the updateFrom depth on, mappings are updated
// wholesale. A path that does not resolve stores other there.
func Merge(root any, other any, path any, opts ...*Options) (any, error) {
	root = unwrap(root)
	other = unwrap(other)
	st, err := resolveSettings(nil, opts)
	if err != nil {
		return root, err
	}
	keys := splitPath(path, st.pathSep)
	edit := func(node any) (any, bool, error) {
		merged, err := mergeNodes(node, other, 0, &st)
		if err != nil {
			return node, false, err
		}
		return merged, true, nil
	}
	newRoot, _, found, err := editAt(root, keys, 0, edit)
	if err != nil {
		return root, err
	}
	if !found {
		return Set(root, other, path, opts...)
	}
	return newRoot, nil
}

// Merge combines other into the node at path.
func (t *Tree) Merge(other any, path any, opts ...*Options) error {
	newRoot, err := Merge(t.root, other, path, t.callOptions(opts)...)
	if err != nil {
		return err
	}
	t.root = newRoot
	return nil
}

func mergeNodes(a any, b any, depth int, st *settings) (any, error) {
	ka, kb := kindOf(a), kindOf(b)
	switch {
	case ka == KindMapping && kb == KindMapping:
		if depth >= st.updateFrom {
			return mergeMapping(a, b)
		}
		var err error
		for _, k := range mapKeys(b) {
			bv, _ := mapLookup(b, k)
			av, ok := mapLookup(a, k)
			switch {
			case !ok:
				a, _, err = mapStore(a, k, bv)
			case isContainer(av) && isContainer(bv):
				var mv any
				mv, err = mergeNodes(av, bv, depth+1, st)
				if err == nil {
					a, _, err = mapStore(a, k, mv)
				}
			default:
				a, _, err = mapStore(a, k, resolveMergeLeaf(av, bv, st.mergeAction))
			}
			if err != nil {
				return a, err
			}
		}
		return a, nil

	case ka == KindSequence && kb == KindSequence:
		seq, _ := mutableSeq(a)
		bs, _ := asSlice(b)
		if depth >= st.extendFrom {
			return append(seq, bs...), nil
		}
		for i, bv := range bs {
			if i >= len(seq) {
				seq = append(seq, bv)
				continue
			}
			if isContainer(seq[i]) && isContainer(bv) {
				mv, err := mergeNodes(seq[i], bv, depth+1, st)
				if err != nil {
					return seq, err
				}
				seq[i] = mv
				continue
			}
			seq[i] = resolveMergeLeaf(seq[i], bv, st.mergeAction)
		}
		return seq, nil

	case ka == KindSet && kb == KindSet:
		s := a.(SetNode)
		for m := range b.(SetNode) {
			s[m] = struct{}{}
		}
		return s, nil

	default:
		return resolveMergeLeaf(a, b, st.mergeAction), nil
	}
}

// resolveMergeLeaf decides a value conflict between the two sides.
func resolveMergeLeaf(old any, new any, action string) any {
	switch action {
	case "i":
		return old
	case "a":
		var out []any
		if s, ok := asSlice(old); ok {
			out = make([]any, len(s))
			copy(out, s)
		} else {
			out = []any{old}
		}
		if s, ok := asSlice(new); ok {
			return append(out, s...)
		}
		return append(out, new)
	default:
		return new
	}
}

// MergeIter stores every tuple an iterator yields below path, honoring
// the merge action for values that already exist. Useful for merging a
// filtered view of one tree into another.
func MergeIter(root any, it *Iterator, path any, opts ...*Options) (any, error) {
	root = unwrap(root)
	st, err := resolveSettings(nil, opts)
	if err != nil {
		return root, err
	}
	base := splitPath(path, st.pathSep)
	for {
		tuple, ok := it.Next()
		if !ok {
			return root, nil
		}
		// the value sits right after the keys, before any fill padding
		vi := len(it.Path())
		if it.st.iterNodes {
			vi = 2 * len(it.Path())
		}
		value := tuple[vi]
		full := make([]any, 0, len(base)+len(it.Path()))
		full = append(full, base...)
		full = append(full, it.Path()...)
		existing := getValue(root, full, absent)
		switch {
		case existing == any(absent):
			root, err = Set(root, value, Path(full), opts...)
		case st.mergeAction == "i":
			continue
		case st.mergeAction == "a":
			root, err = Append(root, value, Path(full), opts...)
		default:
			root, err = Set(root, value, Path(full), opts...)
		}
		if err != nil {
			return root, err
		}
	}
}

// MergeIter stores every tuple an iterator yields below path.
func (t *Tree) MergeIter(it *Iterator, path any, opts ...*Options) error {
	newRoot, err := MergeIter(t.root, it, path, t.callOptions(opts)...)
	if err != nil {
		return err
	}
	t.root = newRoot
	return nil
}
