package graph

import (
	"fmt"
	"strings"
)

const indent = "|   "

// String renders the node as an indented operator tree:
//
//	Node(+) [3 3]
//	|   Tensor[1 3] [1 2 3]
//	|   Tensor[3 1] [1 2 3]
func (n *Node) String() string {
	var b strings.Builder
	writeOperand(&b, n, 0)
	return strings.TrimSuffix(b.String(), "\n")
}

// String renders the wrapped tensor.
func (l Leaf) String() string {
	return l.t.String()
}

func writeOperand(b *strings.Builder, o Operand, depth int) {
	b.WriteString(strings.Repeat(indent, depth))

	switch v := o.(type) {
	case Leaf:
		b.WriteString(v.t.String())
		b.WriteString("\n")
	case *Node:
		fmt.Fprintf(b, "Node(%s) %v\n", v.op, []int(v.shape))
		writeOperand(b, v.lhs, depth+1)
		writeOperand(b, v.rhs, depth+1)
	default:
		panic(fmt.Sprintf("graph: unknown operand type %T", o))
	}
}
