// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/ndgraph/internal/tensor"
)

// Type aliases for public API

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
// An empty Shape is a scalar holding one element.
type Shape = tensor.Shape

// Tensor is a float64 tensor bound to a computation backend.
//
// Example:
//
//	backend := cpu.New()
//	x, _ := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
//	y, _ := x.Mul(x) // Element-wise square
type Tensor = tensor.Tensor

// RawTensor is the low-level buffer and shape behind a Tensor.
// Backend implementations operate on RawTensors.
type RawTensor = tensor.RawTensor

// Backend performs tensor arithmetic for a device.
type Backend = tensor.Backend

// BinaryOp identifies an element-wise operator.
type BinaryOp = tensor.BinaryOp

// Element-wise operators.
const (
	OpAdd BinaryOp = tensor.OpAdd
	OpSub BinaryOp = tensor.OpSub
	OpMul BinaryOp = tensor.OpMul
	OpDiv BinaryOp = tensor.OpDiv
)

// ShapeError describes a shape validation failure.
type ShapeError = tensor.ShapeError

// Shape validation errors, see errors.Is.
var (
	ErrInvalidShape       = tensor.ErrInvalidShape
	ErrAmbiguousInference = tensor.ErrAmbiguousInference
	ErrShapeDataMismatch  = tensor.ErrShapeDataMismatch
	ErrIncompatibleShape  = tensor.ErrIncompatibleShape
	ErrRankMismatch       = tensor.ErrRankMismatch
	ErrDimensionMismatch  = tensor.ErrDimensionMismatch
	ErrShapeMismatch      = tensor.ErrShapeMismatch
)

// Creation functions

// FromSlice creates a tensor from a Go slice. The data is copied.
//
// One dimension may be 0 and is then inferred from len(data).
//
// Example:
//
//	backend := cpu.New()
//	x, _ := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{0, 3}, backend)
//	x.Shape() // [2 3]
func FromSlice(data []float64, shape Shape, b Backend) (*Tensor, error) {
	return tensor.FromSlice(data, shape, b)
}

// Zeros creates a tensor filled with zeros. Every dimension must be positive.
//
// Example:
//
//	backend := cpu.New()
//	x, _ := tensor.Zeros(tensor.Shape{2, 3}, backend)
func Zeros(shape Shape, b Backend) (*Tensor, error) {
	return tensor.Zeros(shape, b)
}

// New wraps a RawTensor with a backend.
func New(raw *RawTensor, b Backend) *Tensor {
	return tensor.New(raw, b)
}

// Shape utilities

// BroadcastShapes returns the shape produced by broadcasting a and b,
// and whether either operand needs broadcasting.
//
// Example:
//
//	out, _, err := tensor.BroadcastShapes(tensor.Shape{3, 1}, tensor.Shape{4}) // [3 4]
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return tensor.BroadcastShapes(a, b)
}

// ResolveShape returns requested with its placeholder dimension (0)
// inferred from dataLen. The requested shape is not modified.
func ResolveShape(requested Shape, dataLen int) (Shape, error) {
	return tensor.ResolveShape(requested, dataLen)
}
