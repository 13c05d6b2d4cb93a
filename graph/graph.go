// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package graph builds lazily evaluated expression graphs over tensors.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/ndgraph/backend/cpu"
//	    "github.com/born-ml/ndgraph/graph"
//	    "github.com/born-ml/ndgraph/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    a, _ := tensor.FromSlice([]float64{1, 2, 3}, tensor.Shape{1, 3}, backend)
//	    b, _ := tensor.FromSlice([]float64{1, 2, 3}, tensor.Shape{3, 1}, backend)
//
//	    n, _ := graph.Lazy(a).Add(graph.Lazy(b)) // nothing computed yet
//	    fmt.Println(n)                           // Node(+) [3 3] ...
//	    c, _ := n.Eval()                         // Tensor[3 3]
//	}
//
// Shape mismatches are reported when a node is built. Eval produces exactly
// the values the eager tensor methods would.
package graph

import (
	"github.com/born-ml/ndgraph/internal/graph"
	"github.com/born-ml/ndgraph/tensor"
)

// Operand is a graph input: a Leaf or a *Node.
type Operand = graph.Operand

// Leaf wraps a concrete tensor.
type Leaf = graph.Leaf

// Node is a deferred binary operation.
type Node = graph.Node

// ErrNilOperand reports a nil *Node or an empty Leaf passed to a constructor.
var ErrNilOperand = graph.ErrNilOperand

// Lazy wraps a tensor as a graph operand.
func Lazy(t *tensor.Tensor) Leaf {
	return graph.Lazy(t)
}

// NewNode builds a node applying op to lhs and rhs.
func NewNode(op tensor.BinaryOp, lhs, rhs Operand) (*Node, error) {
	return graph.NewNode(op, lhs, rhs)
}

// Add builds a node computing lhs + rhs.
func Add(lhs, rhs Operand) (*Node, error) { return graph.Add(lhs, rhs) }

// Sub builds a node computing lhs - rhs.
func Sub(lhs, rhs Operand) (*Node, error) { return graph.Sub(lhs, rhs) }

// Mul builds a node computing lhs * rhs.
func Mul(lhs, rhs Operand) (*Node, error) { return graph.Mul(lhs, rhs) }

// Div builds a node computing lhs / rhs.
func Div(lhs, rhs Operand) (*Node, error) { return graph.Div(lhs, rhs) }

// Eval resolves an operand to a tensor.
func Eval(o Operand) (*tensor.Tensor, error) {
	return graph.Eval(o)
}
