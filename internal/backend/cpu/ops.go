package cpu

import (
	"github.com/born-ml/ndgraph/internal/parallel"
	"github.com/born-ml/ndgraph/internal/tensor"
)

// applyVectorized computes dst[i] = fn(a[i], b[i]).
// Requires: len(dst) == len(a) == len(b).
func applyVectorized(fn func(x, y float64) float64, dst, a, b []float64, cfg parallel.Config) {
	parallel.For(len(dst), func(start, end int) {
		for i := start; i < end; i++ {
			dst[i] = fn(a[i], b[i])
		}
	}, cfg)
}

// applyBroadcast computes dst[i] = fn(a[ai], b[bi]) where ai and bi are the
// operand indices that output index i maps to under plan.
func applyBroadcast(fn func(x, y float64) float64, dst, a, b []float64, plan broadcastPlan, cfg parallel.Config) {
	parallel.For(len(dst), func(start, end int) {
		for i := start; i < end; i++ {
			aIdx, bIdx := plan.indices(i)
			dst[i] = fn(a[aIdx], b[bIdx])
		}
	}, cfg)
}

// MatAdd adds two tensors of identical shape.
func (cpu *CPUBackend) MatAdd(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.sameShape("matadd", tensor.OpAdd, a, b)
}

// MatSub subtracts two tensors of identical shape.
func (cpu *CPUBackend) MatSub(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.sameShape("matsub", tensor.OpSub, a, b)
}

func (cpu *CPUBackend) sameShape(name string, op tensor.BinaryOp, a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	if !a.Shape().Equal(b.Shape()) {
		return nil, &tensor.ShapeError{
			Op:     name,
			Err:    tensor.ErrShapeMismatch,
			Shapes: []tensor.Shape{a.Shape(), b.Shape()},
			Dim:    -1,
		}
	}

	result, err := tensor.NewRaw(a.Shape())
	if err != nil {
		return nil, err
	}
	applyVectorized(op.Func(), result.Data(), a.Data(), b.Data(), cpu.parallel)
	return result, nil
}
