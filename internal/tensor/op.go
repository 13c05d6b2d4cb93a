package tensor

import "fmt"

// BinaryOp identifies an element-wise binary operator.
type BinaryOp int

// Supported element-wise operators.
const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	// OpDiv follows IEEE-754: dividing by zero yields +Inf, -Inf or NaN
	// rather than an error.
	OpDiv
)

// String returns the operator symbol.
func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	default:
		return fmt.Sprintf("BinaryOp(%d)", int(op))
	}
}

// Name returns the lower-case operation name used in error messages.
func (op BinaryOp) Name() string {
	switch op {
	case OpAdd:
		return "add"
	case OpSub:
		return "sub"
	case OpMul:
		return "mul"
	case OpDiv:
		return "div"
	default:
		return op.String()
	}
}

// Func returns the scalar function implementing the operator.
// Panics on an unknown operator.
func (op BinaryOp) Func() func(x, y float64) float64 {
	switch op {
	case OpAdd:
		return func(x, y float64) float64 { return x + y }
	case OpSub:
		return func(x, y float64) float64 { return x - y }
	case OpMul:
		return func(x, y float64) float64 { return x * y }
	case OpDiv:
		return func(x, y float64) float64 { return x / y }
	default:
		panic(fmt.Sprintf("unsupported operator %v", op))
	}
}

