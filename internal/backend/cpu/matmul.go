package cpu

import (
	"fmt"

	"github.com/born-ml/ndgraph/internal/tensor"
)

// MatMul performs matrix multiplication.
// For 2D tensors: (M, K) @ (K, N) -> (M, N)
// Uses naive O(n³) implementation.
func (cpu *CPUBackend) MatMul(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	aShape := a.Shape()
	bShape := b.Shape()

	if len(aShape) != 2 || len(bShape) != 2 {
		return nil, &tensor.ShapeError{
			Op:      "matmul",
			Err:     tensor.ErrRankMismatch,
			Shapes:  []tensor.Shape{aShape, bShape},
			Dim:     -1,
			Details: fmt.Sprintf("only 2D tensors supported, got %dD and %dD", len(aShape), len(bShape)),
		}
	}

	m, k := aShape[0], aShape[1]
	kAlt, n := bShape[0], bShape[1]

	if k != kAlt {
		return nil, &tensor.ShapeError{
			Op:      "matmul",
			Err:     tensor.ErrDimensionMismatch,
			Shapes:  []tensor.Shape{aShape, bShape},
			Dim:     -1,
			Details: fmt.Sprintf("inner dimensions %d and %d differ", k, kAlt),
		}
	}

	result, err := tensor.NewRaw(tensor.Shape{m, n})
	if err != nil {
		return nil, err
	}

	matmulFloat64(result.Data(), a.Data(), b.Data(), m, k, n)
	return result, nil
}

// matmulFloat64 performs naive matrix multiplication.
// C[i,j] = sum_k A[i,k] * B[k,j]
func matmulFloat64(c, a, b []float64, m, k, n int) {
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			sum := float64(0)
			for kIdx := 0; kIdx < k; kIdx++ {
				sum += a[i*k+kIdx] * b[kIdx*n+j]
			}
			c[i*n+j] = sum
		}
	}
}
