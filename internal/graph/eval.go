package graph

import (
	"fmt"

	"github.com/born-ml/ndgraph/internal/tensor"
)

// Eval computes the node's value.
//
// Operands are resolved depth-first, left before right. A sub-Node
// reachable through several paths is computed once per call; nothing is
// cached between calls, so each Eval recomputes the whole graph.
// The result is produced by the backend of the left-most leaf.
func (n *Node) Eval() (*tensor.Tensor, error) {
	e := evaluator{memo: make(map[*Node]*tensor.Tensor)}
	return e.node(n)
}

// Eval resolves any operand to a tensor. A Leaf yields its own tensor.
func Eval(o Operand) (*tensor.Tensor, error) {
	e := evaluator{memo: make(map[*Node]*tensor.Tensor)}
	return e.operand(o)
}

type evaluator struct {
	memo map[*Node]*tensor.Tensor
}

func (e *evaluator) operand(o Operand) (*tensor.Tensor, error) {
	switch v := o.(type) {
	case Leaf:
		return v.t, nil
	case *Node:
		return e.node(v)
	default:
		panic(fmt.Sprintf("graph: unknown operand type %T", o))
	}
}

func (e *evaluator) node(n *Node) (*tensor.Tensor, error) {
	if t, ok := e.memo[n]; ok {
		return t, nil
	}

	lhs, err := e.operand(n.lhs)
	if err != nil {
		return nil, err
	}
	rhs, err := e.operand(n.rhs)
	if err != nil {
		return nil, err
	}

	t, err := lhs.Elementwise(n.op, rhs)
	if err != nil {
		return nil, fmt.Errorf("eval %s: %w", n.op.Name(), err)
	}

	e.memo[n] = t
	return t, nil
}
