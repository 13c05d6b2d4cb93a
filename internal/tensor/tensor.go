// Package tensor provides the core tensor types and operations for ndgraph.
package tensor

import (
	"fmt"
	"strings"
)

// Tensor is a float64 tensor bound to a computation backend.
//
// Example:
//
//	backend := cpu.New()
//	a, _ := tensor.FromSlice([]float64{1, 2, 3}, tensor.Shape{1, 3}, backend)
//	b, _ := tensor.FromSlice([]float64{1, 2, 3}, tensor.Shape{3, 1}, backend)
//	c, _ := a.Add(b) // Shape: [3, 3]
type Tensor struct {
	raw     *RawTensor
	backend Backend
}

// New creates a Tensor from a RawTensor and backend.
func New(raw *RawTensor, b Backend) *Tensor {
	return &Tensor{
		raw:     raw,
		backend: b,
	}
}

// FromSlice creates a tensor from a Go slice.
// The slice is copied into the tensor's memory.
//
// One dimension of shape may be 0, in which case it is inferred from len(data):
//
//	t, _ := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{0, 3}, backend)
//	t.Shape() // [2, 3]
func FromSlice(data []float64, shape Shape, b Backend) (*Tensor, error) {
	raw, err := NewRawFromSlice(data, shape)
	if err != nil {
		return nil, err
	}
	return New(raw, b), nil
}

// Zeros creates a tensor filled with zeros.
// Every dimension must be positive; there is no data to infer from.
func Zeros(shape Shape, b Backend) (*Tensor, error) {
	raw, err := NewRaw(shape)
	if err != nil {
		return nil, err
	}
	return New(raw, b), nil
}

// Shape returns the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.raw.Shape()
}

// Rank returns the number of dimensions.
func (t *Tensor) Rank() int {
	return len(t.raw.Shape())
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	return t.raw.NumElements()
}

// Raw returns the underlying RawTensor.
// Used by backend implementations for low-level operations.
func (t *Tensor) Raw() *RawTensor {
	return t.raw
}

// Backend returns the computation backend.
func (t *Tensor) Backend() Backend {
	return t.backend
}

// Data returns the tensor's row-major buffer.
//
// WARNING: Modifications to the returned slice will modify the tensor.
func (t *Tensor) Data() []float64 {
	return t.raw.Data()
}

// At returns the element at the given indices.
// Panics if indices are out of bounds.
//
// Example:
//
//	t, _ := tensor.Zeros(Shape{3, 4}, backend)
//	value := t.At(1, 2) // Row 1, column 2
func (t *Tensor) At(indices ...int) float64 {
	if len(indices) != len(t.Shape()) {
		panic(fmt.Sprintf("expected %d indices, got %d", len(t.Shape()), len(indices)))
	}

	offset := 0
	strides := t.raw.Strides()
	for i, idx := range indices {
		if idx < 0 || idx >= t.Shape()[i] {
			panic(fmt.Sprintf("index %d out of bounds for dimension %d (size %d)", idx, i, t.Shape()[i]))
		}
		offset += idx * strides[i]
	}

	return t.Data()[offset]
}

// Clone creates a deep copy of the tensor.
func (t *Tensor) Clone() *Tensor {
	return New(t.raw.Clone(), t.backend)
}

// maxPrintElements bounds how many values String renders.
const maxPrintElements = 16

// String returns a human-readable representation of the tensor:
// its shape followed by its buffer contents. Long buffers are elided.
func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor%v %s", []int(t.Shape()), formatData(t.Data()))
}

func formatData(data []float64) string {
	if len(data) <= maxPrintElements {
		return fmt.Sprint(data)
	}

	half := maxPrintElements / 2
	var b strings.Builder
	b.WriteString("[")
	for i, v := range data[:half] {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprint(&b, v)
	}
	fmt.Fprintf(&b, " ... (%d more) ...", len(data)-maxPrintElements)
	for _, v := range data[len(data)-half:] {
		fmt.Fprintf(&b, " %v", v)
	}
	b.WriteString("]")
	return b.String()
}
