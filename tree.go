package tree

// Tree wraps a nested structure of mappings, sequences, sets and leaf
// values and addresses it through paths. The wrapped root is shared by
// reference: mutations through the Tree are visible to every holder of
// the root, except where a mutation had to convert an immutable node
// along the way (the converted chain consists of new objects, untouched
// siblings stay shared).
//
// All methods are also available as package-level functions operating
// on a raw root value; mutating package-level functions return the
// possibly reallocated root. A Tree is not safe for concurrent
// mutation without external locking.
type Tree struct {
	root    any
	options *Options
}

// New wraps root in a Tree. A nil root starts an empty node of the
// configured default node type. The options become the instance layer
// for every operation on this tree.
func New(root any, opts ...*Options) (*Tree, error) {
	instance := combineOptions(opts)
	st, err := resolveSettings(instance, nil)
	if err != nil {
		return nil, err
	}
	if root == nil {
		if st.defaultNodeType == "l" {
			root = []any{}
		} else {
			root = map[any]any{}
		}
	}
	if t, ok := root.(*Tree); ok {
		return &Tree{root: t.root, options: instance.merge(t.options)}, nil
	}
	return &Tree{root: root, options: instance}, nil
}

// MustNew is New for static construction with known-good options.
func MustNew(root any, opts ...*Options) *Tree {
	t, err := New(root, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// Root returns the wrapped root value.
func (t *Tree) Root() any {
	return t.root
}

// Options returns a copy of the instance option layer. Mutating the
// copy does not affect the tree; use SetOptions for that.
func (t *Tree) Options() *Options {
	return t.options.Clone()
}

// SetOptions overlays opts onto the instance option layer.
func (t *Tree) SetOptions(opts *Options) error {
	if err := validateOptions(opts); err != nil {
		return err
	}
	t.options = opts.merge(t.options)
	return nil
}

// ClearOptions drops the instance option layer, reverting every option
// to the global layer or the hard default.
func (t *Tree) ClearOptions() {
	t.options = &Options{}
}

// Child wraps the node at path in a new Tree carrying a value-copy of
// this tree's instance options. The child shares the underlying nodes
// with the parent; option changes on either side after creation do not
// propagate to the other.
func (t *Tree) Child(path any, opts ...*Options) (*Tree, error) {
	st, err := t.settings(opts)
	if err != nil {
		return nil, err
	}
	node := getValue(t.root, splitPath(path, st.pathSep), absent)
	if node == absentType(absent) || !isContainer(node) {
		if st.defaultNodeType == "l" {
			node = []any{}
		} else {
			node = map[any]any{}
		}
	}
	return &Tree{root: node, options: t.options.Clone()}, nil
}

// settings resolves the effective option set for one operation on t.
func (t *Tree) settings(calls []*Options) (settings, error) {
	var instance *Options
	if t != nil {
		instance = t.options
	}
	return resolveSettings(instance, calls)
}

// callOptions prepends the instance option layer to a per-call option
// list, for delegating methods to package-level functions without
// losing instance options.
func (t *Tree) callOptions(calls []*Options) []*Options {
	if t == nil || t.options == nil {
		return calls
	}
	return append([]*Options{t.options}, calls...)
}

// combineOptions overlays a variadic option list into one layer, later
// entries winning.
func combineOptions(opts []*Options) *Options {
	out := &Options{}
	for _, o := range opts {
		if o != nil {
			out = o.merge(out)
		}
	}
	return out
}

// unwrap returns the raw root behind a value that may be a Tree.
func unwrap(v any) any {
	if t, ok := v.(*Tree); ok {
		return t.root
	}
	return v
}
