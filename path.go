package tree

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Path is an ordered sequence of keys addressing a node from the root.
// Integer keys address sequence positions, everything else addresses
// mapping entries. An empty Path denotes the root.
type Path []any

var signedIntPattern = regexp.MustCompile(`^[+-]?\d+$`)

// splitPath normalizes a path argument into a key slice. Strings are
// split on sep, with segments that look like optionally signed integers
// parsed into int keys. Slices are used verbatim. A single
// non-collection value becomes a one-key path.
//
// There is no escaping mechanism: a string key containing sep cannot be
// expressed in string form, pass a Path instead.
func splitPath(path any, sep string) []any {
	switch p := path.(type) {
	case nil:
		return nil
	case string:
		if p == "" {
			return nil
		}
		segments := strings.Split(p, sep)
		keys := make([]any, len(segments))
		for i, seg := range segments {
			if signedIntPattern.MatchString(seg) {
				if n, err := strconv.Atoi(seg); err == nil {
					keys[i] = n
					continue
				}
			}
			keys[i] = seg
		}
		return keys
	case Path:
		return []any(p)
	case []any:
		return p
	case []string:
		keys := make([]any, len(p))
		for i, s := range p {
			keys[i] = s
		}
		return keys
	case []int:
		keys := make([]any, len(p))
		for i, n := range p {
			keys[i] = n
		}
		return keys
	default:
		return []any{path}
	}
}

// formatPath renders a key slice for error messages.
func formatPath(keys []any) string {
	if len(keys) == 0 {
		return ""
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprint(k)
	}
	return strings.Join(parts, " ")
}
