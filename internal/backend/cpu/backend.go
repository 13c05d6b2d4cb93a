// Package cpu implements the pure Go CPU backend.
package cpu

import (
	"errors"

	"github.com/born-ml/ndgraph/internal/parallel"
	"github.com/born-ml/ndgraph/internal/tensor"
)

// CPUBackend implements tensor operations on CPU.
type CPUBackend struct {
	parallel parallel.Config
}

// Compile-time check that CPUBackend implements tensor.Backend.
var _ tensor.Backend = (*CPUBackend)(nil)

// New creates a new sequential CPU backend.
func New() *CPUBackend {
	return NewWithConfig(parallel.Sequential())
}

// NewWithConfig creates a CPU backend that splits element-wise work according
// to cfg. Results are identical to the sequential backend.
func NewWithConfig(cfg parallel.Config) *CPUBackend {
	return &CPUBackend{
		parallel: cfg,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Elementwise applies op with NumPy-style broadcasting.
//
// The result is the only buffer allocated: broadcast operands are read in
// place through stride-0 dimensions rather than expanded.
func (cpu *CPUBackend) Elementwise(op tensor.BinaryOp, a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		var se *tensor.ShapeError
		if errors.As(err, &se) {
			se.Op = op.Name()
		}
		return nil, err
	}

	result, err := tensor.NewRaw(outShape)
	if err != nil {
		return nil, err
	}

	fn := op.Func()
	if !needsBroadcast && a.Shape().Equal(b.Shape()) {
		// Fast path: same shape, no index remapping
		applyVectorized(fn, result.Data(), a.Data(), b.Data(), cpu.parallel)
	} else {
		plan := newBroadcastPlan(a.Shape(), b.Shape(), outShape)
		applyBroadcast(fn, result.Data(), a.Data(), b.Data(), plan, cpu.parallel)
	}

	return result, nil
}
