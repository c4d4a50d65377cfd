package tree

// nodeEdit mutates the node an edit walk resolved. It returns the node,
// possibly as a new value, and whether the parent must write it back.
type nodeEdit func(node any) (any, bool, error)

// editAt walks keys[depth:] down from node and applies fn to the node
// the full path addresses. Nothing is created or converted on the way
// down; an unresolvable path reports found=false and leaves the tree
// untouched. Immutable ancestors are converted to their mutable
// counterparts only when fn reports a change below them.
func editAt(node any, keys []any, depth int, fn nodeEdit) (any, bool, bool, error) {
	if depth == len(keys) {
		newNode, changed, err := fn(node)
		return newNode, changed, true, err
	}
	key := keys[depth]
	switch kindOf(node) {
	case KindMapping:
		child, ok := mapLookup(node, key)
		if !ok {
			return node, false, false, nil
		}
		newChild, changed, found, err := editAt(child, keys, depth+1, fn)
		if err != nil || !found {
			return node, false, found, err
		}
		if changed {
			newNode, conv, err := mapStore(node, key, newChild)
			if err != nil {
				return node, false, true, err
			}
			return newNode, conv, true, nil
		}
		return node, false, true, nil
	case KindSequence:
		idx, ok := toIndex(key)
		if !ok {
			return node, false, false, nil
		}
		s, _ := asSlice(node)
		if idx < 0 {
			idx += len(s)
		}
		if idx < 0 || idx >= len(s) {
			return node, false, false, nil
		}
		newChild, changed, found, err := editAt(s[idx], keys, depth+1, fn)
		if err != nil || !found {
			return node, false, found, err
		}
		if changed {
			seq, conv := mutableSeq(node)
			seq[idx] = newChild
			return seq, conv, true, nil
		}
		return node, false, true, nil
	default:
		return node, false, false, nil
	}
}

// removeAt deletes keys[len-1] from its parent node. It reports the
// removed value and whether anything was removed at all.
func removeAt(op string, root any, keys []any) (value any, newRoot any, removed bool, err error) {
	if len(keys) == 0 {
		return nil, root, false, newMismatchError(op, nil, "empty path addresses the root, which has no parent to remove it from")
	}
	last := keys[len(keys)-1]
	fn := func(parent any) (any, bool, error) {
		switch kindOf(parent) {
		case KindMapping:
			v, ok := mapLookup(parent, last)
			if !ok {
				return parent, false, nil
			}
			mapDelete(parent, last)
			value, removed = v, true
			return parent, false, nil
		case KindSequence:
			idx, ok := toIndex(last)
			if !ok {
				return parent, false, nil
			}
			s, _ := asSlice(parent)
			if idx < 0 {
				idx += len(s)
			}
			if idx < 0 || idx >= len(s) {
				return parent, false, nil
			}
			seq, _ := mutableSeq(parent)
			value, removed = seq[idx], true
			return append(seq[:idx], seq[idx+1:]...), true, nil
		case KindSet:
			s := parent.(SetNode)
			if !s.Has(last) {
				return parent, false, nil
			}
			delete(s, last)
			value, removed = last, true
			return parent, false, nil
		default:
			return parent, false, nil
		}
	}
	newRoot, _, _, err = editAt(root, keys[:len(keys)-1], 0, fn)
	if err != nil {
		return nil, root, false, err
	}
	return value, newRoot, removed, nil
}

// Pop removes the value at path and returns it together with the new
// root. A path that does not resolve yields the default value and
// leaves the tree unchanged.
func Pop(root any, path any, opts ...*Options) (any, any, error) {
	root = unwrap(root)
	st, err := resolveSettings(nil, opts)
	if err != nil {
		return nil, root, err
	}
	keys := splitPath(path, st.pathSep)
	value, newRoot, removed, err := removeAt("pop", root, keys)
	if err != nil {
		return nil, root, err
	}
	if !removed {
		return st.defaultValue, newRoot, nil
	}
	return value, newRoot, nil
}

// Discard removes the value at path if it exists. A path that does not
// resolve is not an error.
func Discard(root any, path any, opts ...*Options) (any, error) {
	root = unwrap(root)
	st, err := resolveSettings(nil, opts)
	if err != nil {
		return root, err
	}
	_, newRoot, _, err := removeAt("discard", root, splitPath(path, st.pathSep))
	if err != nil {
		return root, err
	}
	return newRoot, nil
}

// Remove removes the value at path. A path that does not resolve is an
// error wrapping ErrPathNotFound.
func Remove(root any, path any, opts ...*Options) (any, error) {
	root = unwrap(root)
	st, err := resolveSettings(nil, opts)
	if err != nil {
		return root, err
	}
	keys := splitPath(path, st.pathSep)
	_, newRoot, removed, err := removeAt("remove", root, keys)
	if err != nil {
		return root, err
	}
	if !removed {
		return root, newMissingError("remove", keys)
	}
	return newRoot, nil
}

// Clear empties the container node at path. A path that does not
// resolve is a no-op; a leaf at path is an error.
func Clear(root any, path any, opts ...*Options) (any, error) {
	root = unwrap(root)
	st, err := resolveSettings(nil, opts)
	if err != nil {
		return root, err
	}
	keys := splitPath(path, st.pathSep)
	fn := func(node any) (any, bool, error) {
		switch n := node.(type) {
		case map[any]any:
			for k := range n {
				delete(n, k)
			}
			return n, false, nil
		case map[string]any:
			for k := range n {
				delete(n, k)
			}
			return n, false, nil
		case []any, Tuple:
			return []any{}, true, nil
		case SetNode:
			for k := range n {
				delete(n, k)
			}
			return n, false, nil
		default:
			return node, false, newMismatchError("clear", keys,
				"cannot clear a leaf value")
		}
	}
	newRoot, _, _, err := editAt(root, keys, 0, fn)
	if err != nil {
		return root, err
	}
	return newRoot, nil
}

// Pop removes and returns the value at path, or the default value when
// the path does not resolve.
func (t *Tree) Pop(path any, opts ...*Options) (any, error) {
	value, newRoot, err := Pop(t.root, path, t.callOptions(opts)...)
	if err != nil {
		return nil, err
	}
	t.root = newRoot
	return value, nil
}

// Discard removes the value at path if it exists.
func (t *Tree) Discard(path any, opts ...*Options) error {
	newRoot, err := Discard(t.root, path, t.callOptions(opts)...)
	if err != nil {
		return err
	}
	t.root = newRoot
	return nil
}

// Remove removes the value at path, failing when it does not exist.
func (t *Tree) Remove(path any, opts ...*Options) error {
	newRoot, err := Remove(t.root, path, t.callOptions(opts)...)
	if err != nil {
		return err
	}
	t.root = newRoot
	return nil
}

// Clear empties the container at path.
func (t *Tree) Clear(path any, opts ...*Options) error {
	newRoot, err := Clear(t.root, path, t.callOptions(opts)...)
	if err != nil {
		return err
	}
	t.root = newRoot
	return nil
}
