// Package graph implements lazily evaluated expression graphs over tensors.
//
// A graph is built from Leaf operands (wrapping concrete tensors) and Nodes
// (a binary operator applied to two operands). Nothing is computed until
// Eval is called on a Node.
package graph

import "github.com/born-ml/ndgraph/internal/tensor"

// Operand is an input to a Node: either a Leaf or a *Node.
//
// The set of implementations is closed; code that inspects operands
// switches over exactly these two cases.
type Operand interface {
	// Shape returns the shape the operand evaluates to.
	Shape() tensor.Shape

	operand()
}

// Leaf is a concrete tensor used as a graph input.
// The tensor is referenced, not copied. The zero Leaf wraps no tensor and
// is rejected by NewNode.
type Leaf struct {
	t *tensor.Tensor
}

// Lazy wraps a tensor as a graph operand.
//
// Example:
//
//	n, err := graph.Lazy(a).Add(graph.Lazy(b))
//	result, err := n.Eval()
func Lazy(t *tensor.Tensor) Leaf {
	return Leaf{t: t}
}

// Tensor returns the wrapped tensor.
func (l Leaf) Tensor() *tensor.Tensor {
	return l.t
}

// Shape returns the wrapped tensor's shape.
func (l Leaf) Shape() tensor.Shape {
	return l.t.Shape()
}

func (Leaf) operand() {}

// Add builds a Node computing l + other.
func (l Leaf) Add(other Operand) (*Node, error) { return NewNode(tensor.OpAdd, l, other) }

// Sub builds a Node computing l - other.
func (l Leaf) Sub(other Operand) (*Node, error) { return NewNode(tensor.OpSub, l, other) }

// Mul builds a Node computing l * other.
func (l Leaf) Mul(other Operand) (*Node, error) { return NewNode(tensor.OpMul, l, other) }

// Div builds a Node computing l / other.
func (l Leaf) Div(other Operand) (*Node, error) { return NewNode(tensor.OpDiv, l, other) }
