package tensor

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors. Every failure reported by this package and the backends
// wraps exactly one of these, so callers can test with errors.Is.
var (
	ErrInvalidShape       = errors.New("invalid shape")
	ErrAmbiguousInference = errors.New("more than one inferred dimension")
	ErrShapeDataMismatch  = errors.New("shape does not match data length")
	ErrIncompatibleShape  = errors.New("shapes not compatible for broadcasting")
	ErrRankMismatch       = errors.New("rank mismatch")
	ErrDimensionMismatch  = errors.New("dimension mismatch")
	ErrShapeMismatch      = errors.New("shape mismatch")
)

// ShapeError provides detailed information about a shape validation failure.
type ShapeError struct {
	Op      string  // Operation that failed (e.g. "add", "matmul", "resolve")
	Err     error   // One of the sentinel errors above
	Shapes  []Shape // Shapes involved, in operand order
	Dim     int     // Offending dimension, or -1 if not specific to one
	Details string  // Additional details
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(e.Err.Error())

	if len(e.Shapes) > 0 {
		parts := make([]string, len(e.Shapes))
		for i, s := range e.Shapes {
			parts[i] = fmt.Sprint([]int(s))
		}
		b.WriteString(": ")
		b.WriteString(strings.Join(parts, " vs "))
	}
	if e.Dim >= 0 {
		fmt.Fprintf(&b, " (dimension %d)", e.Dim)
	}
	if e.Details != "" {
		b.WriteString(": ")
		b.WriteString(e.Details)
	}
	return b.String()
}

// Unwrap returns the sentinel error.
func (e *ShapeError) Unwrap() error {
	return e.Err
}
