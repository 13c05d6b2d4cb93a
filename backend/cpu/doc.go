// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for tensor operations.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - Broadcasting through stride remapping, without materialized copies
//   - Optional multi-goroutine evaluation of large element-wise operations
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
//	    x, _ := tensor.FromSlice([]float64{1, 2, 3}, tensor.Shape{3, 1}, backend)
//	    y, _ := tensor.FromSlice([]float64{4, 5}, tensor.Shape{1, 2}, backend)
//	    z, _ := x.Mul(y) // Shape: [3 2]
//	}
//
// # Thread Safety
//
// The CPU backend is safe for concurrent use. Each tensor operation
// allocates its own result and does not share mutable state.
package cpu
