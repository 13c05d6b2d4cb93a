package cpu

import (
	"github.com/born-ml/ndgraph/internal/tensor"
)

// broadcastPlan holds the strides needed to map output indices back to both
// operands of a broadcast element-wise operation.
type broadcastPlan struct {
	outStrides []int
	aStrides   []int // stride 0 on broadcast dimensions
	bStrides   []int
}

func newBroadcastPlan(aShape, bShape, outShape tensor.Shape) broadcastPlan {
	return broadcastPlan{
		outStrides: outShape.ComputeStrides(),
		aStrides:   tensor.BroadcastStrides(aShape, outShape),
		bStrides:   tensor.BroadcastStrides(bShape, outShape),
	}
}

// indices returns the flat indices into a and b for output index i.
func (p broadcastPlan) indices(i int) (aIdx, bIdx int) {
	return tensor.FlatIndex(i, p.outStrides, p.aStrides), tensor.FlatIndex(i, p.outStrides, p.bStrides)
}
