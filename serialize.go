package tree

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"gopkg.in/yaml.v3"
)

// Serialize returns a copy of the node at path reduced to types every
// JSON or YAML encoder accepts: map[string]any, []any, bool, int,
// int64, float64, string and nil. Mapping keys are stringified, sets
// become sorted slices, Tuples become slices. time.Time leaves render
// as RFC 3339. Other leaf types go through the ModFunctions option
// first and fall back to their fmt.Sprint form.
func Serialize(root any, path any, opts ...*Options) (any, error) {
	st, err := resolveSettings(nil, opts)
	if err != nil {
		return nil, err
	}
	node := getValue(unwrap(root), splitPath(path, st.pathSep), absent)
	if node == any(absent) {
		node = st.defaultValue
	}
	return serializeNode(node, st.modFunctions), nil
}

// Serialize returns an encoder-ready copy of the node at path.
func (t *Tree) Serialize(path any, opts ...*Options) (any, error) {
	return Serialize(t.root, path, t.callOptions(opts)...)
}

// ToJSON serializes the node at path and marshals it as JSON.
func ToJSON(root any, path any, opts ...*Options) ([]byte, error) {
	s, err := Serialize(root, path, opts...)
	if err != nil {
		return nil, err
	}
	return json.Marshal(s)
}

// ToJSON serializes the node at path and marshals it as JSON.
func (t *Tree) ToJSON(path any, opts ...*Options) ([]byte, error) {
	return ToJSON(t.root, path, t.callOptions(opts)...)
}

// ToYAML serializes the node at path and marshals it as YAML.
func ToYAML(root any, path any, opts ...*Options) ([]byte, error) {
	s, err := Serialize(root, path, opts...)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(s)
}

// ToYAML serializes the node at path and marshals it as YAML.
func (t *Tree) ToYAML(path any, opts ...*Options) ([]byte, error) {
	return ToYAML(t.root, path, t.callOptions(opts)...)
}

func serializeNode(node any, mods map[reflect.Type]ModFunc) any {
	switch kindOf(node) {
	case KindMapping:
		out := make(map[string]any)
		for _, k := range mapKeys(node) {
			v, _ := mapLookup(node, k)
			out[serializeKey(k, mods)] = serializeNode(v, mods)
		}
		return out
	case KindSequence:
		s, _ := asSlice(node)
		out := make([]any, len(s))
		for i, v := range s {
			out[i] = serializeNode(v, mods)
		}
		return out
	case KindSet:
		members := node.(SetNode).Items()
		out := make([]any, len(members))
		for i, m := range members {
			out[i] = serializeNode(m, mods)
		}
		return out
	default:
		return serializeLeaf(node, mods)
	}
}

func serializeKey(k any, mods map[reflect.Type]ModFunc) string {
	switch s := serializeLeaf(k, mods).(type) {
	case string:
		return s
	case nil:
		return "null"
	default:
		return fmt.Sprint(s)
	}
}

func serializeLeaf(v any, mods map[reflect.Type]ModFunc) any {
	switch n := v.(type) {
	case nil, bool, string, int, int64, float64:
		return n
	case int8:
		return int(n)
	case int16:
		return int(n)
	case int32:
		return int(n)
	case uint:
		return int64(n)
	case uint8:
		return int(n)
	case uint16:
		return int(n)
	case uint32:
		return int64(n)
	case uint64:
		return int64(n)
	case float32:
		return float64(n)
	case []byte:
		return string(n)
	}
	if mods != nil {
		if fn, ok := mods[reflect.TypeOf(v)]; ok {
			return serializeLeaf(fn(v), mods)
		}
	}
	if ts, ok := v.(time.Time); ok {
		return ts.Format(time.RFC3339)
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(v)
}
