// Package tree provides path-addressable access to nested structures
// of mappings, sequences, sets and scalar values, with mutation
// operations that create missing intermediate nodes on the fly.
//
// # Basic Usage
//
// Read and write through paths:
//
//	root := map[any]any{"a": map[any]any{"b": []any{1, 2, 3}}}
//	v := tree.Get(root, "a b 1")                  // 2
//	root, err := tree.Set(root, 4, "a b 3")       // appends 4
//
// Or wrap the root once and operate through the Tree:
//
//	t := tree.MustNew(root)
//	t.Set(4, "a b 3")
//	v := t.GetInt("a b 1")
//
// Paths are strings split on a separator (default " "), with numeric
// segments addressing sequence positions, or explicit key slices:
//
//	t.Get(tree.Path{"a", "b", 1})
//
// # Building Structure
//
// Mutating operations create every missing node along the path. The
// node kinds they create are controlled by the nodeTypes and
// defaultNodeType options:
//
//	root, _ = tree.Set(map[any]any{}, true, "a 0 0",
//		tree.NewOptions().WithNodeTypes("dl"))
//	// map[any]any{"a": map[any]any{0: []any{true}}}
//
// # Options
//
// Every operation takes trailing *Options overrides. Options resolve
// through four layers: per-call arguments override per-Tree instance
// options, which override the process-wide layer set with
// SetGlobalOptions, which overrides the hard defaults.
//
// # Filters and Iteration
//
// Filters prune traversal to matching branches:
//
//	f := tree.NewFilter("users", tree.Any, "name")
//	names, _ := tree.Filtered(root, f, "")
//
// Iter walks a subtree lazily, yielding one key tuple per leaf:
//
//	it, _ := tree.Iter(root, nil, "")
//	for tuple, ok := it.Next(); ok; tuple, ok = it.Next() {
//		...
//	}
//
// # Sharing and Immutability
//
// A Tree wraps its root by reference and mutates it in place. Immutable
// node variants (Tuple, and map[string]any for non-string keys) are
// converted to their mutable counterparts only along the ancestor chain
// of a mutation; untouched sibling subtrees keep their identity. Trees
// are not safe for concurrent mutation without external locking.
package tree
