package tree

import (
	"math"
	"reflect"
	"regexp"
	"sync"
)

// unlimited is the list-insert depth meaning "never insert, always
// traverse existing list elements".
const unlimited = math.MaxInt

// opt carries an option value together with whether it was set at all,
// so that an explicit zero value (nil, false, "") is distinguishable
// from "not specified".
type opt[T any] struct {
	value T
	set   bool
}

func setOpt[T any](v T) opt[T] {
	return opt[T]{value: v, set: true}
}

// or returns the value of o, or of the first set fallback, or def.
func (o opt[T]) or(fallback opt[T], def T) T {
	if o.set {
		return o.value
	}
	if fallback.set {
		return fallback.value
	}
	return def
}

// ModFunc rewrites a non-primitive leaf value into a serializable one.
type ModFunc func(any) any

// Options is a set of tunables for tree operations. Options can be
// attached to a Tree instance, installed process-wide with
// SetGlobalOptions, or passed per call as the trailing opts argument.
// Resolution order is call argument > instance > global > hard default.
//
// The zero value of Options sets nothing; use the With* builders to set
// individual options. Builders return the receiver for chaining:
//
//	tree.NewOptions().WithNodeTypes("dl").WithListInsert(1)
type Options struct {
	defaultValue    opt[any]
	defaultNodeType opt[string]
	nodeTypes       opt[string]
	listInsert      opt[int]
	pathSep         opt[string]
	condition       opt[any]
	iterFill        opt[any]
	iterNodes       opt[bool]
	maxDepth        opt[int]
	modFunctions    opt[map[reflect.Type]ModFunc]
	mergeAction     opt[string]
	extendFrom      opt[int]
	updateFrom      opt[int]
}

// NewOptions returns an empty Options value for builder-style use.
func NewOptions() *Options {
	return &Options{}
}

// WithDefault sets the value returned when a read path does not
// resolve. nil is a valid default and distinct from "unset".
func (o *Options) WithDefault(v any) *Options {
	o.defaultValue = setOpt(v)
	return o
}

// WithDefaultNodeType sets the kind of freshly created nodes when no
// node-types spec dictates one: "d" for mapping, "l" for sequence.
func (o *Options) WithDefaultNodeType(s string) *Options {
	o.defaultNodeType = setOpt(s)
	return o
}

// WithNodeTypes sets the per-depth node kind spec used when building
// paths. Each character constrains one path level: 'd' forces a
// mapping, 'l' forces a sequence, ' ' accepts whatever exists. Levels
// beyond the end of the string behave like ' '.
func (o *Options) WithNodeTypes(s string) *Options {
	o.nodeTypes = setOpt(s)
	return o
}

// WithListInsert sets the path depth at which Set inserts a new list
// element instead of overwriting the one at the resolved position.
func (o *Options) WithListInsert(depth int) *Options {
	o.listInsert = setOpt(depth)
	return o
}

// WithPathSep sets the separator used to split string paths.
func (o *Options) WithPathSep(sep string) *Options {
	o.pathSep = setOpt(sep)
	return o
}

// WithIf gates mutating operations on a condition the incoming value
// must meet: a func(any) bool predicate, a Set or slice of accepted
// values, or a single value compared for equality. When the condition
// fails, the operation leaves the tree unmodified.
func (o *Options) WithIf(cond any) *Options {
	o.condition = setOpt(cond)
	return o
}

// WithIterFill sets the fill value used to pad iteration tuples to
// uniform length when a max depth is in effect.
func (o *Options) WithIterFill(fill any) *Options {
	o.iterFill = setOpt(fill)
	return o
}

// WithIterNodes makes iteration tuples include the traversed node at
// each level, in the order node0, key1, node1, key2, ..., value.
func (o *Options) WithIterNodes(on bool) *Options {
	o.iterNodes = setOpt(on)
	return o
}

// WithMaxDepth bounds iteration depth: tuples carry at most depth+1
// keys, nodes below the bound are yielded as values.
func (o *Options) WithMaxDepth(depth int) *Options {
	o.maxDepth = setOpt(depth)
	return o
}

// WithModFunctions sets per-type rewriters applied by Serialize to leaf
// values that are not primitives.
func (o *Options) WithModFunctions(m map[reflect.Type]ModFunc) *Options {
	o.modFunctions = setOpt(m)
	return o
}

// WithMergeAction sets how Merge treats a leaf that exists on both
// sides: "r" replaces the old value, "i" ignores the new one, "a"
// aggregates both into a sequence.
func (o *Options) WithMergeAction(action string) *Options {
	o.mergeAction = setOpt(action)
	return o
}

// WithExtendFrom sets the path depth from which Merge extends sequences
// with the other side's elements instead of merging them index by
// index. Depth 0 extends everywhere.
func (o *Options) WithExtendFrom(depth int) *Options {
	o.extendFrom = setOpt(depth)
	return o
}

// WithUpdateFrom sets the path depth from which Merge updates mappings
// wholesale, replacing values for existing keys instead of merging the
// subtrees below them.
func (o *Options) WithUpdateFrom(depth int) *Options {
	o.updateFrom = setOpt(depth)
	return o
}

// Clone creates a copy of the options. The mod-function map is shared.
func (o *Options) Clone() *Options {
	if o == nil {
		return &Options{}
	}
	clone := *o
	return &clone
}

// merge overlays o on top of lower, returning a new Options where every
// option set in o wins.
func (o *Options) merge(lower *Options) *Options {
	out := lower.Clone()
	if o == nil {
		return out
	}
	if o.defaultValue.set {
		out.defaultValue = o.defaultValue
	}
	if o.defaultNodeType.set {
		out.defaultNodeType = o.defaultNodeType
	}
	if o.nodeTypes.set {
		out.nodeTypes = o.nodeTypes
	}
	if o.listInsert.set {
		out.listInsert = o.listInsert
	}
	if o.pathSep.set {
		out.pathSep = o.pathSep
	}
	if o.condition.set {
		out.condition = o.condition
	}
	if o.iterFill.set {
		out.iterFill = o.iterFill
	}
	if o.iterNodes.set {
		out.iterNodes = o.iterNodes
	}
	if o.maxDepth.set {
		out.maxDepth = o.maxDepth
	}
	if o.modFunctions.set {
		out.modFunctions = o.modFunctions
	}
	if o.mergeAction.set {
		out.mergeAction = o.mergeAction
	}
	if o.extendFrom.set {
		out.extendFrom = o.extendFrom
	}
	if o.updateFrom.set {
		out.updateFrom = o.updateFrom
	}
	return out
}

// Process-wide option layer. Constructed once at init, mutated through
// SetGlobalOptions and reset explicitly in tests via ResetGlobalOptions.
var (
	globalMu      sync.RWMutex
	globalOptions = &Options{}
)

// SetGlobalOptions overlays the given options onto the process-wide
// option layer. Trees created afterwards as well as existing trees
// observe the new values for options they do not set themselves.
func SetGlobalOptions(o *Options) error {
	if err := validateOptions(o); err != nil {
		return err
	}
	globalMu.Lock()
	defer globalMu.Unlock()
	globalOptions = o.merge(globalOptions)
	return nil
}

// GlobalOptions returns a snapshot of the process-wide option layer.
func GlobalOptions() *Options {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalOptions.Clone()
}

// ResetGlobalOptions clears the process-wide option layer back to hard
// defaults.
func ResetGlobalOptions() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalOptions = &Options{}
}

var nodeTypesPattern = regexp.MustCompile(`^[dl ]*$`)

// validateOptions checks every set option and reports the first invalid
// one, naming the option and the offending value.
func validateOptions(o *Options) error {
	if o == nil {
		return nil
	}
	if o.defaultNodeType.set {
		if v := o.defaultNodeType.value; v != "d" && v != "l" {
			return newOptionError("defaultNodeType", v, `must be "d" for mapping or "l" for sequence`)
		}
	}
	if o.nodeTypes.set {
		if v := o.nodeTypes.value; !nodeTypesPattern.MatchString(v) {
			return newOptionError("nodeTypes", v, `may contain only 'd', 'l' and ' '`)
		}
	}
	if o.listInsert.set {
		if v := o.listInsert.value; v < 0 {
			return newOptionError("listInsert", v, "must not be negative")
		}
	}
	if o.pathSep.set {
		if o.pathSep.value == "" {
			return newOptionError("pathSep", "", "cannot be empty, a string cannot be split by it")
		}
	}
	if o.maxDepth.set {
		if v := o.maxDepth.value; v < 0 {
			return newOptionError("maxDepth", v, "must not be negative")
		}
	}
	if o.mergeAction.set {
		switch o.mergeAction.value {
		case "r", "i", "a":
		default:
			return newOptionError("mergeAction", o.mergeAction.value,
				`must be "r" (replace), "i" (ignore) or "a" (aggregate)`)
		}
	}
	if o.extendFrom.set {
		if v := o.extendFrom.value; v < 0 {
			return newOptionError("extendFrom", v, "must not be negative")
		}
	}
	if o.updateFrom.set {
		if v := o.updateFrom.value; v < 0 {
			return newOptionError("updateFrom", v, "must not be negative")
		}
	}
	return nil
}

// settings is the fully resolved option set a single operation runs
// with. Resolution happened, defaults are filled in, presence is only
// retained where an unset option behaves differently from any concrete
// value.
type settings struct {
	defaultValue    any
	defaultNodeType string
	nodeTypes       string
	listInsert      int
	pathSep         string
	condition       opt[any]
	iterFill        opt[any]
	iterNodes       bool
	maxDepth        int
	modFunctions    map[reflect.Type]ModFunc
	mergeAction     string
	extendFrom      int
	updateFrom      int
}

// resolveSettings flattens the four option layers for one operation.
func resolveSettings(instance *Options, calls []*Options) (settings, error) {
	layered := GlobalOptions()
	if instance != nil {
		layered = instance.merge(layered)
	}
	for _, call := range calls {
		if call == nil {
			continue
		}
		if err := validateOptions(call); err != nil {
			return settings{}, err
		}
		layered = call.merge(layered)
	}
	if err := validateOptions(layered); err != nil {
		return settings{}, err
	}
	st := settings{
		defaultValue:    layered.defaultValue.or(opt[any]{}, nil),
		defaultNodeType: layered.defaultNodeType.or(opt[string]{}, "d"),
		nodeTypes:       layered.nodeTypes.or(opt[string]{}, ""),
		listInsert:      layered.listInsert.or(opt[int]{}, unlimited),
		pathSep:         layered.pathSep.or(opt[string]{}, " "),
		condition:       layered.condition,
		iterFill:        layered.iterFill,
		iterNodes:       layered.iterNodes.or(opt[bool]{}, false),
		maxDepth:        layered.maxDepth.or(opt[int]{}, unlimited),
		modFunctions:    layered.modFunctions.or(opt[map[reflect.Type]ModFunc]{}, nil),
		mergeAction:     layered.mergeAction.or(opt[string]{}, "r"),
		extendFrom:      layered.extendFrom.or(opt[int]{}, unlimited),
		updateFrom:      layered.updateFrom.or(opt[int]{}, unlimited),
	}
	return st, nil
}

// nodeTypeChar returns the node-types constraint for path level i.
func (st *settings) nodeTypeChar(i int) byte {
	if i < 0 || i >= len(st.nodeTypes) {
		return ' '
	}
	return st.nodeTypes[i]
}

// admits evaluates the write-gating condition against value. An unset
// condition admits everything.
func (st *settings) admits(value any) bool {
	if !st.condition.set {
		return true
	}
	return condMatches(st.condition.value, value)
}

// condMatches evaluates a condition: predicate call, collection
// membership, or plain equality.
func condMatches(cond, value any) bool {
	switch c := cond.(type) {
	case func(any) bool:
		return c(value)
	case SetNode:
		return c.Has(value)
	case []any:
		for _, e := range c {
			if looseEqual(e, value) {
				return true
			}
		}
		return false
	case Tuple:
		for _, e := range c {
			if looseEqual(e, value) {
				return true
			}
		}
		return false
	default:
		return looseEqual(cond, value)
	}
}
