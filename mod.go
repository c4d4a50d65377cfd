package tree

// SetDefault returns the value at path if it resolves; otherwise it
// stores def there (creating missing nodes) and returns def. The second
// result is the possibly reallocated root.
func SetDefault(root any, path any, def any, opts ...*Options) (any, any, error) {
	root = unwrap(root)
	st, err := resolveSettings(nil, opts)
	if err != nil {
		return nil, root, err
	}
	existing := getValue(root, splitPath(path, st.pathSep), absent)
	if existing != any(absent) {
		return existing, root, nil
	}
	newRoot, err := Set(root, def, path, opts...)
	if err != nil {
		return nil, root, err
	}
	return def, newRoot, nil
}

// SetDefault returns the value at path, storing and returning def when
// the path does not resolve.
func (t *Tree) SetDefault(path any, def any, opts ...*Options) (any, error) {
	value, newRoot, err := SetDefault(t.root, path, def, t.callOptions(opts)...)
	if err != nil {
		return nil, err
	}
	t.root = newRoot
	return value, nil
}

// Mod replaces the value at path with fn(old value). When the path does
// not resolve, def is stored instead and fn is not called. The first
// result is the stored value, the second the possibly reallocated root.
func Mod(root any, fn ModFunc, path any, def any, opts ...*Options) (any, any, error) {
	root = unwrap(root)
	st, err := resolveSettings(nil, opts)
	if err != nil {
		return nil, root, err
	}
	existing := getValue(root, splitPath(path, st.pathSep), absent)
	value := def
	if existing != any(absent) {
		value = fn(existing)
	}
	newRoot, err := Set(root, value, path, opts...)
	if err != nil {
		return nil, root, err
	}
	return value, newRoot, nil
}

// Mod replaces the value at path with fn(old value), or stores def when
// the path does not resolve.
func (t *Tree) Mod(fn ModFunc, path any, def any, opts ...*Options) (any, error) {
	value, newRoot, err := Mod(t.root, fn, path, def, t.callOptions(opts)...)
	if err != nil {
		return nil, err
	}
	t.root = newRoot
	return value, nil
}

// ModAll applies fn to every leaf below path whose branch matches f
// (nil matches all). Set members count as leaves and are replaced
// member-wise. Containers are rewritten in place; immutable ancestors
// of a modified leaf are converted minimally.
func ModAll(root any, fn ModFunc, f *Filter, path any, opts ...*Options) (any, error) {
	root = unwrap(root)
	st, err := resolveSettings(nil, opts)
	if err != nil {
		return root, err
	}
	if err := f.validate(); err != nil {
		return root, err
	}
	var refs []filterRef
	if f != nil {
		refs = []filterRef{{f: f}}
	}
	keys := splitPath(path, st.pathSep)
	edit := func(node any) (any, bool, error) {
		if !isContainer(node) {
			return fn(node), true, nil
		}
		return modAllNode(node, refs, fn)
	}
	newRoot, _, _, err := editAt(root, keys, 0, edit)
	if err != nil {
		return root, err
	}
	return newRoot, nil
}

// ModAll applies fn to every leaf below path whose branch matches f.
func (t *Tree) ModAll(fn ModFunc, f *Filter, path any, opts ...*Options) error {
	newRoot, err := ModAll(t.root, fn, f, path, t.callOptions(opts)...)
	if err != nil {
		return err
	}
	t.root = newRoot
	return nil
}

// modAllNode rewrites the matching leaves below node. It returns the
// node, converted to its mutable counterpart when a leaf below an
// immutable container changed, and whether the parent must write it
// back.
func modAllNode(node any, refs []filterRef, fn ModFunc) (any, bool, error) {
	switch kindOf(node) {
	case KindMapping:
		for _, k := range mapKeys(node) {
			child, _ := mapLookup(node, k)
			ok, next := stepAll(refs, k, child)
			if !ok {
				continue
			}
			if isNode(child) {
				newChild, changed, err := modAllNode(child, next, fn)
				if err != nil {
					return node, false, err
				}
				if changed {
					var errStore error
					node, _, errStore = mapStore(node, k, newChild)
					if errStore != nil {
						return node, false, errStore
					}
				}
				continue
			}
			if kindOf(child) == KindSet {
				if err := modSet(child.(SetNode), next, fn); err != nil {
					return node, false, err
				}
				continue
			}
			if leafVisible(next, child) {
				var err error
				node, _, err = mapStore(node, k, fn(child))
				if err != nil {
					return node, false, err
				}
			}
		}
		return node, false, nil
	case KindSequence:
		seq, converted := mutableSeq(node)
		touched := false
		for i, child := range seq {
			ok, next := stepAll(refs, i, child)
			if !ok {
				continue
			}
			if isNode(child) {
				newChild, changed, err := modAllNode(child, next, fn)
				if err != nil {
					return node, false, err
				}
				if changed {
					seq[i] = newChild
					touched = true
				}
				continue
			}
			if kindOf(child) == KindSet {
				if err := modSet(child.(SetNode), next, fn); err != nil {
					return node, false, err
				}
				continue
			}
			if leafVisible(next, child) {
				seq[i] = fn(child)
				touched = true
			}
		}
		if converted && !touched {
			// nothing changed below an immutable sequence, keep it
			return node, false, nil
		}
		return seq, converted, nil
	case KindSet:
		return node, false, modSet(node.(SetNode), refs, fn)
	}
	return node, false, nil
}

// modSet replaces matching set members with fn(member) in place.
func modSet(s SetNode, refs []filterRef, fn ModFunc) error {
	for _, item := range s.Items() {
		ok, next := stepAll(refs, item, item)
		if !ok || !leafVisible(next, item) {
			continue
		}
		nv := fn(item)
		if looseEqual(nv, item) {
			continue
		}
		delete(s, item)
		if err := setAdd("mod", s, nv); err != nil {
			return err
		}
	}
	return nil
}
