// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides float64 N-dimensional arrays with NumPy-style
// broadcasting.
//
// # Overview
//
// A Tensor is a contiguous row-major float64 buffer and a Shape, bound to a
// Backend that performs the arithmetic. This package provides:
//   - Construction with one inferred dimension (Shape{0, 3})
//   - Element-wise Add, Sub, Mul and Div with broadcasting
//   - Matrix MatMul, MatAdd and MatSub
//   - Structured shape errors usable with errors.Is
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/ndgraph/backend/cpu"
//	    "github.com/born-ml/ndgraph/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    a, _ := tensor.FromSlice([]float64{1, 2, 3}, tensor.Shape{1, 3}, backend)
//	    b, _ := tensor.FromSlice([]float64{1, 2, 3}, tensor.Shape{3, 1}, backend)
//	    c, _ := a.Add(b) // Shape: [3 3]
//	}
//
// # Broadcasting
//
// Shapes are aligned from the right. Two dimensions are compatible when they
// are equal or one of them is 1; the result takes the larger:
//
//	(3, 1) + (1, 4) -> (3, 4)
//	(2, 3) + (3,)   -> (2, 3)
//	(3, 4) + (3, 5) -> ErrIncompatibleShape
//
// Broadcast operands are never expanded in memory; each output element is
// mapped back to its source elements through zero strides.
//
// # Division
//
// Division follows IEEE-754: x/0 yields +Inf, -Inf or NaN and is not an error.
//
// # Lazy Evaluation
//
// Every operation here runs immediately. To defer work, wrap tensors with
// graph.Lazy and call Eval on the resulting node.
package tensor
