package tree

import (
	"errors"
	"fmt"
)

// Core error definitions - sentinel errors for errors.Is matching
var (
	// ErrPathNotFound reports a path that does not resolve where the
	// operation requires it to exist (Remove and friends). Read
	// operations never return it; they fall back to the default value.
	ErrPathNotFound = errors.New("path not found")

	// ErrStructuralMismatch reports a node whose kind cannot satisfy the
	// requested operation and cannot be converted under the active
	// options.
	ErrStructuralMismatch = errors.New("structural mismatch")

	// ErrImmutableRoot reports a mutation that would have to replace the
	// root node itself while the root is an immutable container.
	ErrImmutableRoot = errors.New("root node is immutable")

	// ErrInvalidOption reports an option value that fails validation at
	// the point the option is consumed.
	ErrInvalidOption = errors.New("invalid option value")

	// ErrNotHashable reports a value that cannot be used as a mapping
	// key or set member.
	ErrNotHashable = errors.New("value is not hashable")

	// ErrInvalidFilter reports a filter that is composed in a way that
	// cannot be evaluated.
	ErrInvalidFilter = errors.New("invalid filter composition")
)

// TreeError represents a tree operation failure with essential context.
type TreeError struct {
	Op      string // operation that failed
	Path    string // formatted path where the error occurred, if any
	Message string // human-readable error message
	Err     error  // underlying sentinel error
}

func (e *TreeError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("tree %s failed at path '%s': %s", e.Op, e.Path, e.Message)
	}
	return fmt.Sprintf("tree %s failed: %s", e.Op, e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *TreeError) Unwrap() error {
	return e.Err
}

// Is implements error matching for errors.Is.
func (e *TreeError) Is(target error) bool {
	if target == nil {
		return false
	}
	if te, ok := target.(*TreeError); ok {
		return e.Op == te.Op && errors.Is(e.Err, te.Err)
	}
	return errors.Is(e.Err, target)
}

// newOptionError creates a TreeError for an invalid option value,
// naming the offending option and value.
func newOptionError(option string, value any, message string) error {
	return &TreeError{
		Op:      "options",
		Message: fmt.Sprintf("option %q with value %v: %s", option, value, message),
		Err:     ErrInvalidOption,
	}
}

// newMismatchError creates a TreeError for a node that cannot satisfy
// the operation at the given path.
func newMismatchError(op string, path []any, message string) error {
	return &TreeError{
		Op:      op,
		Path:    formatPath(path),
		Message: message,
		Err:     ErrStructuralMismatch,
	}
}

// newKeyError creates a TreeError for a key that cannot be hashed.
func newKeyError(op string, key any) error {
	return &TreeError{
		Op:      op,
		Message: fmt.Sprintf("key %v of type %T cannot be used as a mapping key", key, key),
		Err:     ErrNotHashable,
	}
}

// newNodeError creates a TreeError for a value that is not a container
// of the kind the operation requires.
func newNodeError(op string, node any) error {
	return &TreeError{
		Op:      op,
		Message: fmt.Sprintf("cannot apply %s to %s node of type %T", op, kindOf(node), node),
		Err:     ErrStructuralMismatch,
	}
}

// newImmutableError creates a TreeError for a root that cannot be
// modified in place.
func newImmutableError(op string, root any) error {
	return &TreeError{
		Op:      op,
		Message: fmt.Sprintf("cannot modify root node of immutable type %T", root),
		Err:     ErrImmutableRoot,
	}
}

// newMissingError creates a TreeError for a path that must exist.
func newMissingError(op string, path []any) error {
	return &TreeError{
		Op:      op,
		Path:    formatPath(path),
		Message: "does not exist",
		Err:     ErrPathNotFound,
	}
}
