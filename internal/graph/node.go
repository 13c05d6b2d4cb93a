package graph

import (
	"errors"
	"fmt"

	"github.com/born-ml/ndgraph/internal/tensor"
)

// Node is a deferred binary operation over two operands.
//
// Nodes are immutable and can only reference operands that existed when
// they were built, so every graph is acyclic. The same operand may be
// shared by several Nodes.
type Node struct {
	op    tensor.BinaryOp
	lhs   Operand
	rhs   Operand
	shape tensor.Shape
}

// NewNode builds a Node applying op to lhs and rhs.
//
// The output shape is computed immediately, so incompatible operands are
// reported here rather than at Eval time.
func NewNode(op tensor.BinaryOp, lhs, rhs Operand) (*Node, error) {
	if !valid(lhs) || !valid(rhs) {
		return nil, fmt.Errorf("graph: %w for %s", ErrNilOperand, op.Name())
	}
	switch op {
	case tensor.OpAdd, tensor.OpSub, tensor.OpMul, tensor.OpDiv:
	default:
		return nil, fmt.Errorf("graph: unsupported operator %v", op)
	}

	shape, _, err := tensor.BroadcastShapes(lhs.Shape(), rhs.Shape())
	if err != nil {
		var se *tensor.ShapeError
		if errors.As(err, &se) {
			se.Op = op.Name()
		}
		return nil, err
	}

	return &Node{op: op, lhs: lhs, rhs: rhs, shape: shape}, nil
}

// ErrNilOperand is returned when a Node is built from a nil *Node or from a
// Leaf that wraps no tensor.
var ErrNilOperand = errors.New("nil operand")

// valid reports whether o refers to an actual value. The zero Leaf and a
// nil *Node are not valid operands.
func valid(o Operand) bool {
	switch v := o.(type) {
	case Leaf:
		return v.t != nil
	case *Node:
		return v != nil
	default:
		return false
	}
}

// Add builds a Node computing lhs + rhs.
func Add(lhs, rhs Operand) (*Node, error) { return NewNode(tensor.OpAdd, lhs, rhs) }

// Sub builds a Node computing lhs - rhs.
func Sub(lhs, rhs Operand) (*Node, error) { return NewNode(tensor.OpSub, lhs, rhs) }

// Mul builds a Node computing lhs * rhs.
func Mul(lhs, rhs Operand) (*Node, error) { return NewNode(tensor.OpMul, lhs, rhs) }

// Div builds a Node computing lhs / rhs.
func Div(lhs, rhs Operand) (*Node, error) { return NewNode(tensor.OpDiv, lhs, rhs) }

// Op returns the node's operator.
func (n *Node) Op() tensor.BinaryOp {
	return n.op
}

// Operands returns the left and right operands.
func (n *Node) Operands() (lhs, rhs Operand) {
	return n.lhs, n.rhs
}

// Shape returns the broadcast shape of the node's result.
func (n *Node) Shape() tensor.Shape {
	return n.shape
}

func (*Node) operand() {}

// Add builds a Node computing n + other.
func (n *Node) Add(other Operand) (*Node, error) { return NewNode(tensor.OpAdd, n, other) }

// Sub builds a Node computing n - other.
func (n *Node) Sub(other Operand) (*Node, error) { return NewNode(tensor.OpSub, n, other) }

// Mul builds a Node computing n * other.
func (n *Node) Mul(other Operand) (*Node, error) { return NewNode(tensor.OpMul, n, other) }

// Div builds a Node computing n / other.
func (n *Node) Div(other Operand) (*Node, error) { return NewNode(tensor.OpDiv, n, other) }
