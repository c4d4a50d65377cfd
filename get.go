package tree

// Get retrieves the value at path in root. If any key along the path is
// absent, or traversal reaches a set node or a scalar leaf before the
// path is exhausted, the configured default is returned. Get never
// fails for missing paths.
func Get(root any, path any, opts ...*Options) any {
	st, err := resolveSettings(nil, opts)
	if err != nil {
		return nil
	}
	v := getValue(unwrap(root), splitPath(path, st.pathSep), st.defaultValue)
	return v
}

// GetOr is Get with an explicit default that overrides the option
// layers for this single call.
func GetOr(root any, path any, def any, opts ...*Options) any {
	st, err := resolveSettings(nil, opts)
	if err != nil {
		return def
	}
	return getValue(unwrap(root), splitPath(path, st.pathSep), def)
}

// Has reports whether path resolves to an existing value in root.
func Has(root any, path any, opts ...*Options) bool {
	st, err := resolveSettings(nil, opts)
	if err != nil {
		return false
	}
	return getValue(unwrap(root), splitPath(path, st.pathSep), absent) != any(absent)
}

// Get retrieves the value at path, falling back to the resolved default
// option when the path does not resolve.
func (t *Tree) Get(path any, opts ...*Options) any {
	st, err := t.settings(opts)
	if err != nil {
		return nil
	}
	return getValue(t.root, splitPath(path, st.pathSep), st.defaultValue)
}

// GetOr retrieves the value at path, or def when the path does not
// resolve.
func (t *Tree) GetOr(path any, def any, opts ...*Options) any {
	st, err := t.settings(opts)
	if err != nil {
		return def
	}
	return getValue(t.root, splitPath(path, st.pathSep), def)
}

// Has reports whether path resolves to an existing value.
func (t *Tree) Has(path any, opts ...*Options) bool {
	st, err := t.settings(opts)
	if err != nil {
		return false
	}
	return getValue(t.root, splitPath(path, st.pathSep), absent) != any(absent)
}

// GetString retrieves the value at path converted to a string, or ""
// when the path does not resolve.
func (t *Tree) GetString(path any, opts ...*Options) string {
	v := t.GetOr(path, absent, opts...)
	if v == any(absent) {
		return ""
	}
	return ConvertToString(v)
}

// GetInt retrieves the value at path converted to an int, or 0 when
// the path does not resolve or the value is not numeric.
func (t *Tree) GetInt(path any, opts ...*Options) int {
	v := t.GetOr(path, absent, opts...)
	if v == any(absent) {
		return 0
	}
	n, _ := ConvertToInt(v)
	return n
}

// GetFloat64 retrieves the value at path converted to a float64, or 0
// when the path does not resolve or the value is not numeric.
func (t *Tree) GetFloat64(path any, opts ...*Options) float64 {
	v := t.GetOr(path, absent, opts...)
	if v == any(absent) {
		return 0
	}
	f, _ := ConvertToFloat64(v)
	return f
}

// GetBool retrieves the value at path converted to a bool, or false
// when the path does not resolve.
func (t *Tree) GetBool(path any, opts ...*Options) bool {
	v := t.GetOr(path, absent, opts...)
	if v == any(absent) {
		return false
	}
	b, _ := ConvertToBool(v)
	return b
}

// getValue walks keys down from node. Missing keys, set nodes and
// scalar leaves hit before the path is exhausted all yield def.
func getValue(node any, keys []any, def any) any {
	for _, key := range keys {
		switch kindOf(node) {
		case KindMapping:
			v, ok := mapLookup(node, key)
			if !ok {
				return def
			}
			node = v
		case KindSequence:
			seq, _ := asSlice(node)
			idx, ok := toIndex(key)
			if !ok {
				return def
			}
			if idx < 0 {
				idx += len(seq)
			}
			if idx < 0 || idx >= len(seq) {
				return def
			}
			node = seq[idx]
		default:
			// set nodes and scalars terminate traversal
			return def
		}
	}
	return node
}
