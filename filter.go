package tree

import (
	"fmt"
	"regexp"
)

// Any matches every key or value at its filter level.
var Any = anyArg{}

type anyArg struct{}

func (anyArg) String() string { return "*" }

type filterKind int

const (
	// filterKeep prunes traversal to matching branches.
	filterKeep filterKind = iota
	// filterCheck requires a matching branch below a node but leaves
	// the node's subtree unfiltered once the check passes.
	filterCheck
	// filterValue tests whole node values instead of keys.
	filterValue
)

// Filter is an immutable predicate over tree branches, evaluated level
// by level during traversal. Each argument constrains the key at one
// path depth below the filter's anchor point; levels beyond the last
// argument match everything.
//
// Argument vocabulary per level: an exact value (loose equality), Any,
// a Set (membership), a *regexp.Regexp (full match on string keys), a
// func(any) bool predicate, another *Filter (a check or value filter,
// or a nested keep filter continuing the level sequence), or a []any of
// alternatives combined with OR.
//
// A branch that fails its filter level is pruned: none of its
// descendants are visited.
type Filter struct {
	kind      filterKind
	args      []any
	inexclude string
}

// NewFilter builds a keep filter: traversal is restricted to branches
// whose keys match the per-level arguments.
func NewFilter(args ...any) *Filter {
	return &Filter{kind: filterKeep, args: args}
}

// NewCheckFilter builds a check filter. Used as an argument inside
// another filter, it requires the subtree below the key to contain a
// branch matching its arguments, but does not filter that subtree.
func NewCheckFilter(args ...any) *Filter {
	return &Filter{kind: filterCheck, args: args}
}

// NewValueFilter builds a value filter. Used as an argument inside
// another filter, it tests the whole child value at that level against
// its arguments (OR) instead of the key.
func NewValueFilter(args ...any) *Filter {
	return &Filter{kind: filterValue, args: args}
}

// Inexclude sets the per-level include/exclude string: '+' (default)
// keeps matching keys at that level, '-' keeps the non-matching ones.
func (f *Filter) Inexclude(s string) *Filter {
	f.inexclude = s
	return f
}

// includedAt reports whether level i keeps matches ('+') or inverts the
// match ('-').
func (f *Filter) includedAt(i int) bool {
	if i < 0 || i >= len(f.inexclude) {
		return true
	}
	return f.inexclude[i] != '-'
}

// validate checks the filter composition once before a traversal.
func (f *Filter) validate() error {
	if f == nil {
		return nil
	}
	for i := 0; i < len(f.inexclude); i++ {
		if c := f.inexclude[i]; c != '+' && c != '-' {
			return &TreeError{
				Op:      "filter",
				Message: fmt.Sprintf("inexclude %q may contain only '+' and '-'", f.inexclude),
				Err:     ErrInvalidFilter,
			}
		}
	}
	for _, arg := range f.args {
		if nested, ok := arg.(*Filter); ok {
			if err := nested.validate(); err != nil {
				return err
			}
		}
		if alts, ok := arg.([]any); ok {
			for _, alt := range alts {
				if nested, ok := alt.(*Filter); ok {
					if err := nested.validate(); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// filterRef is one active filter position during traversal: the filter
// and the level its next argument applies to.
type filterRef struct {
	f   *Filter
	idx int
}

// exhausted reports whether the reference has no arguments left, which
// makes everything deeper visible.
func (r filterRef) exhausted() bool {
	return r.f == nil || r.idx >= len(r.f.args)
}

// stepFilter evaluates one traversal step against a filter reference.
// key is the key leading to child. It reports whether the step is
// visible and returns the references that constrain the next level.
// Pruning is the false return: the caller must not descend.
func stepFilter(r filterRef, key any, child any) (bool, []filterRef) {
	if r.exhausted() {
		return true, nil
	}
	arg := r.f.args[r.idx]
	next := []filterRef{{f: r.f, idx: r.idx + 1}}

	match, conts := matchFilterArg(arg, key, child)
	if conts != nil {
		next = conts
	}
	if match != r.f.includedAt(r.idx) {
		return false, nil
	}
	return true, next
}

// matchFilterArg evaluates a single filter argument against a key and
// the child it leads to. Nested keep filters return their own
// continuations, replacing the outer filter's remainder for that
// branch.
func matchFilterArg(arg any, key any, child any) (bool, []filterRef) {
	switch a := arg.(type) {
	case anyArg:
		return true, nil
	case *Filter:
		switch a.kind {
		case filterCheck:
			return branchMatches([]filterRef{{f: a}}, child), []filterRef{}
		case filterValue:
			return a.matchValue(child), nil
		default:
			ok, conts := stepFilter(filterRef{f: a, idx: 0}, key, child)
			return ok, conts
		}
	case func(any) bool:
		return a(key), nil
	case *regexp.Regexp:
		return fullMatch(a, key), nil
	case SetNode:
		return a.Has(key), nil
	case []any:
		for _, alt := range a {
			if ok, conts := matchFilterArg(alt, key, child); ok {
				return true, conts
			}
		}
		return false, nil
	default:
		return looseEqual(arg, key), nil
	}
}

// matchValue tests a whole node value against the value filter's
// arguments, combined with OR. The inexclude string's first level
// inverts the result.
func (f *Filter) matchValue(value any) bool {
	matched := false
	for _, arg := range f.args {
		switch a := arg.(type) {
		case anyArg:
			matched = true
		case func(any) bool:
			matched = a(value)
		case *regexp.Regexp:
			matched = fullMatch(a, value)
		case SetNode:
			matched = a.Has(value)
		case []any:
			for _, alt := range a {
				if ok, _ := matchFilterArg(alt, value, value); ok {
					matched = true
					break
				}
			}
		default:
			matched = looseEqual(arg, value)
		}
		if matched {
			break
		}
	}
	return matched == f.includedAt(0)
}

// branchMatches reports whether node contains at least one branch
// satisfying every remaining filter level. A leaf terminates a branch:
// it satisfies a reference only by matching its final argument.
func branchMatches(refs []filterRef, node any) bool {
	live := refs[:0:0]
	for _, r := range refs {
		if !r.exhausted() {
			live = append(live, r)
		}
	}
	if len(live) == 0 {
		return true
	}
	if !isContainer(node) {
		for _, r := range live {
			ok, conts := stepFilter(r, node, node)
			if !ok || !allExhausted(conts) {
				return false
			}
		}
		return true
	}
	switch kindOf(node) {
	case KindMapping:
		for _, k := range mapKeys(node) {
			child, _ := mapLookup(node, k)
			if descentMatches(live, k, child) {
				return true
			}
		}
	case KindSequence:
		s, _ := asSlice(node)
		for i, child := range s {
			if descentMatches(live, i, child) {
				return true
			}
		}
	case KindSet:
		for _, item := range node.(SetNode).Items() {
			if descentMatches(live, item, item) {
				return true
			}
		}
	}
	return false
}

func descentMatches(refs []filterRef, key any, child any) bool {
	var next []filterRef
	for _, r := range refs {
		ok, conts := stepFilter(r, key, child)
		if !ok {
			return false
		}
		next = append(next, conts...)
	}
	return branchMatches(next, child)
}

// fullMatch anchors a regexp match over the entire string form of v.
// Non-string values never match.
func fullMatch(re *regexp.Regexp, v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	loc := re.FindStringIndex(s)
	return loc != nil && loc[0] == 0 && loc[1] == len(s)
}

// stepAll advances every active filter reference over one traversal
// step. All references must pass for the step to be visible.
func stepAll(refs []filterRef, key any, child any) (bool, []filterRef) {
	if len(refs) == 0 {
		return true, nil
	}
	var next []filterRef
	for _, r := range refs {
		ok, conts := stepFilter(r, key, child)
		if !ok {
			return false, nil
		}
		next = append(next, conts...)
	}
	return true, next
}

// leafVisible reports whether a leaf value satisfies the remaining
// filter levels. A leaf fails any unexhausted level unless that level
// is a value filter matching the leaf.
func leafVisible(refs []filterRef, value any) bool {
	for _, r := range refs {
		if r.exhausted() {
			continue
		}
		if vf, ok := r.f.args[r.idx].(*Filter); ok && vf.kind == filterValue {
			if vf.matchValue(value) == r.f.includedAt(r.idx) {
				continue
			}
		}
		return false
	}
	return true
}

// Filtered returns a copy of the node at path reduced to the branches
// matching f. Shared leaves stay shared; container structure is new.
func Filtered(root any, f *Filter, path any, opts ...*Options) (any, error) {
	st, err := resolveSettings(nil, opts)
	if err != nil {
		return nil, err
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	node := getValue(unwrap(root), splitPath(path, st.pathSep), absent)
	if node == any(absent) {
		return st.defaultValue, nil
	}
	var refs []filterRef
	if f != nil {
		refs = []filterRef{{f: f}}
	}
	out, _ := filterNode(node, refs)
	return out, nil
}

// Filtered returns a copy of the node at path reduced to the branches
// matching f.
func (t *Tree) Filtered(f *Filter, path any, opts ...*Options) (any, error) {
	return Filtered(t.root, f, path, t.callOptions(opts)...)
}

// filterNode copies the branches of node that survive refs. The second
// result reports whether anything survived, so empty containers
// produced purely by pruning are dropped from their parents.
func filterNode(node any, refs []filterRef) (any, bool) {
	switch kindOf(node) {
	case KindMapping:
		out := map[any]any{}
		for _, k := range mapKeys(node) {
			child, _ := mapLookup(node, k)
			keep, sub := copyFiltered(child, refs, k)
			if keep {
				out[k] = sub
			}
		}
		return out, len(out) > 0
	case KindSequence:
		s, _ := asSlice(node)
		out := []any{}
		for i, child := range s {
			keep, sub := copyFiltered(child, refs, i)
			if keep {
				out = append(out, sub)
			}
		}
		return out, len(out) > 0
	case KindSet:
		out := SetNode{}
		for _, item := range node.(SetNode).Items() {
			if ok, next := stepAll(refs, item, item); ok && leafVisible(next, item) {
				out[item] = struct{}{}
			}
		}
		return out, len(out) > 0
	default:
		return node, leafVisible(refs, node)
	}
}

// copyFiltered evaluates one child under refs and returns its filtered
// copy when visible.
func copyFiltered(child any, refs []filterRef, key any) (bool, any) {
	ok, next := stepAll(refs, key, child)
	if !ok {
		return false, nil
	}
	if isContainer(child) {
		sub, kept := filterNode(child, next)
		if allExhausted(next) {
			// nothing constrains this subtree anymore, keep it whole
			return true, child
		}
		return kept, sub
	}
	if !leafVisible(next, child) {
		return false, nil
	}
	return true, child
}

func allExhausted(refs []filterRef) bool {
	for _, r := range refs {
		if !r.exhausted() {
			return false
		}
	}
	return true
}

// Split divides the node at path into the part matching f and the
// remainder. Both results are new container structures; leaves stay
// shared. A leaf or missing node at path returns the default value on
// the matching side and nil on the other.
func Split(root any, f *Filter, path any, opts ...*Options) (any, any, error) {
	st, err := resolveSettings(nil, opts)
	if err != nil {
		return nil, nil, err
	}
	if err := f.validate(); err != nil {
		return nil, nil, err
	}
	node := getValue(unwrap(root), splitPath(path, st.pathSep), absent)
	if node == any(absent) || !isContainer(node) {
		return st.defaultValue, nil, nil
	}
	var refs []filterRef
	if f != nil {
		refs = []filterRef{{f: f}}
	}
	in, out := splitNode(node, refs)
	return in, out, nil
}

// Split divides the node at path into the part matching f and the
// remainder.
func (t *Tree) Split(f *Filter, path any, opts ...*Options) (any, any, error) {
	return Split(t.root, f, path, t.callOptions(opts)...)
}

// splitNode recursively divides node into the matching part and the
// rest.
func splitNode(node any, refs []filterRef) (any, any) {
	switch kindOf(node) {
	case KindMapping:
		in, out := map[any]any{}, map[any]any{}
		for _, k := range mapKeys(node) {
			child, _ := mapLookup(node, k)
			splitChild(child, refs, k,
				func(v any) { in[k] = v },
				func(v any) { out[k] = v })
		}
		return in, out
	case KindSequence:
		s, _ := asSlice(node)
		in, out := []any{}, []any{}
		for i, child := range s {
			splitChild(child, refs, i,
				func(v any) { in = append(in, v) },
				func(v any) { out = append(out, v) })
		}
		return in, out
	case KindSet:
		in, out := SetNode{}, SetNode{}
		for _, item := range node.(SetNode).Items() {
			if ok, next := stepAll(refs, item, item); ok && leafVisible(next, item) {
				in[item] = struct{}{}
			} else {
				out[item] = struct{}{}
			}
		}
		return in, out
	default:
		if leafVisible(refs, node) {
			return node, nil
		}
		return nil, node
	}
}

func splitChild(child any, refs []filterRef, key any, keep func(any), drop func(any)) {
	ok, next := stepAll(refs, key, child)
	if !ok {
		drop(child)
		return
	}
	if isContainer(child) {
		if allExhausted(next) {
			keep(child)
			return
		}
		in, out := splitNode(child, next)
		if !emptyContainer(in) {
			keep(in)
		}
		if !emptyContainer(out) {
			drop(out)
		}
		return
	}
	if leafVisible(next, child) {
		keep(child)
	} else {
		drop(child)
	}
}

func emptyContainer(v any) bool {
	switch n := v.(type) {
	case map[any]any:
		return len(n) == 0
	case map[string]any:
		return len(n) == 0
	case []any:
		return len(n) == 0
	case Tuple:
		return len(n) == 0
	case SetNode:
		return len(n) == 0
	}
	return v == nil
}
