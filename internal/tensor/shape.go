package tensor

import "fmt"

// Shape represents the dimensions of a tensor.
type Shape []int

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks if the shape is valid (all dimensions > 0).
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return &ShapeError{
				Op:      "validate",
				Err:     ErrInvalidShape,
				Shapes:  []Shape{s},
				Dim:     i,
				Details: fmt.Sprintf("dimension %d must be > 0", dim),
			}
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// ResolveShape returns the concrete shape for a buffer of dataLen elements.
//
// A single dimension may be 0, meaning "infer from the data": it is replaced by
// dataLen divided by the product of the remaining dimensions. The requested
// shape is never modified; a new Shape is returned.
//
// Examples:
//
//	ResolveShape(Shape{0, 3}, 6) → [2, 3], nil
//	ResolveShape(Shape{2, 3}, 6) → [2, 3], nil
//	ResolveShape(Shape{0, 0}, 6) → nil, ErrAmbiguousInference
//	ResolveShape(Shape{4, 0}, 6) → nil, ErrShapeDataMismatch
func ResolveShape(requested Shape, dataLen int) (Shape, error) {
	resolved := requested.Clone()

	placeholder := -1
	known := 1
	for i, dim := range resolved {
		switch {
		case dim < 0:
			return nil, &ShapeError{
				Op:      "resolve",
				Err:     ErrInvalidShape,
				Shapes:  []Shape{requested},
				Dim:     i,
				Details: fmt.Sprintf("dimension %d is negative", dim),
			}
		case dim == 0 && placeholder >= 0:
			return nil, &ShapeError{
				Op:      "resolve",
				Err:     ErrAmbiguousInference,
				Shapes:  []Shape{requested},
				Dim:     i,
				Details: fmt.Sprintf("dimension %d is already inferred", placeholder),
			}
		case dim == 0:
			placeholder = i
		default:
			known *= dim
		}
	}

	if placeholder >= 0 {
		if dataLen == 0 || dataLen%known != 0 {
			return nil, &ShapeError{
				Op:      "resolve",
				Err:     ErrShapeDataMismatch,
				Shapes:  []Shape{requested},
				Dim:     placeholder,
				Details: fmt.Sprintf("cannot infer a positive dimension from %d elements", dataLen),
			}
		}
		resolved[placeholder] = dataLen / known
	}

	if n := resolved.NumElements(); n != dataLen {
		return nil, &ShapeError{
			Op:      "resolve",
			Err:     ErrShapeDataMismatch,
			Shapes:  []Shape{resolved},
			Dim:     -1,
			Details: fmt.Sprintf("shape requires %d elements, but got %d", n, dataLen),
		}
	}

	return resolved, nil
}
