package tree

// Copy returns a deep copy of the container structure of root. Every
// mapping, sequence and set is duplicated, leaf values are shared by
// reference. Tuples stay tuples.
func Copy(root any) any {
	return copyNode(unwrap(root))
}

// Copy returns a new Tree over a deep copy of the container structure,
// carrying a copy of the instance options.
func (t *Tree) Copy() *Tree {
	return &Tree{root: copyNode(t.root), options: t.options.Clone()}
}

func copyNode(node any) any {
	switch n := node.(type) {
	case map[any]any:
		out := make(map[any]any, len(n))
		for k, v := range n {
			out[k] = copyNode(v)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(n))
		for k, v := range n {
			out[k] = copyNode(v)
		}
		return out
	case []any:
		out := make([]any, len(n))
		for i, v := range n {
			out[i] = copyNode(v)
		}
		return out
	case Tuple:
		out := make(Tuple, len(n))
		for i, v := range n {
			out[i] = copyNode(v)
		}
		return out
	case SetNode:
		out := make(SetNode, len(n))
		for k := range n {
			out[k] = struct{}{}
		}
		return out
	default:
		return node
	}
}
