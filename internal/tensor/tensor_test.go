package tensor_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/ndgraph/internal/backend/cpu"
	"github.com/born-ml/ndgraph/internal/tensor"
)

func TestFromSlice(t *testing.T) {
	backend := cpu.New()

	t.Run("InferPlaceholder", func(t *testing.T) {
		x, err := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{0, 3}, backend)
		require.NoError(t, err)
		assert.Equal(t, tensor.Shape{2, 3}, x.Shape())
		assert.Equal(t, 2, x.Rank())
		assert.Equal(t, 6, x.NumElements())
		assert.Equal(t, 6.0, x.At(1, 2))
	})

	t.Run("CopiesInput", func(t *testing.T) {
		data := []float64{1, 2, 3}
		shape := tensor.Shape{0}
		x, err := tensor.FromSlice(data, shape, backend)
		require.NoError(t, err)

		data[0] = 100
		assert.Equal(t, 1.0, x.Data()[0], "tensor must own its buffer")
		assert.Equal(t, tensor.Shape{0}, shape, "caller shape must not be modified")
	})

	t.Run("AmbiguousInference", func(t *testing.T) {
		_, err := tensor.FromSlice([]float64{1, 2, 3, 4}, tensor.Shape{0, 0}, backend)
		assert.ErrorIs(t, err, tensor.ErrAmbiguousInference)
	})

	t.Run("ShapeDataMismatch", func(t *testing.T) {
		_, err := tensor.FromSlice([]float64{1, 2, 3}, tensor.Shape{2, 2}, backend)
		assert.ErrorIs(t, err, tensor.ErrShapeDataMismatch)
	})
}

func TestZeros(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.Zeros(tensor.Shape{2, 3}, backend)
	require.NoError(t, err)
	assert.Equal(t, make([]float64, 6), x.Data())

	_, err = tensor.Zeros(tensor.Shape{0, 3}, backend)
	assert.ErrorIs(t, err, tensor.ErrInvalidShape)

	_, err = tensor.Zeros(tensor.Shape{2, -3}, backend)
	assert.ErrorIs(t, err, tensor.ErrInvalidShape)
}

func TestTensorAdd_AdditionTable(t *testing.T) {
	backend := cpu.New()

	a, err := tensor.FromSlice([]float64{1, 2, 3}, tensor.Shape{1, 3}, backend)
	require.NoError(t, err)
	b, err := tensor.FromSlice([]float64{1, 2, 3}, tensor.Shape{3, 1}, backend)
	require.NoError(t, err)

	c, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{3, 3}, c.Shape())
	assert.Equal(t, []float64{2, 3, 4, 3, 4, 5, 4, 5, 6}, c.Data())
	assert.Same(t, backend, c.Backend().(*cpu.CPUBackend))
}

func TestTensorMul_OuterProduct(t *testing.T) {
	backend := cpu.New()

	a, err := tensor.FromSlice([]float64{0, 1, 2}, tensor.Shape{1, 3}, backend)
	require.NoError(t, err)
	b, err := tensor.FromSlice([]float64{0, 1, 2}, tensor.Shape{3, 1}, backend)
	require.NoError(t, err)

	c, err := a.Mul(b)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{3, 3}, c.Shape())
	assert.Equal(t, []float64{0, 0, 0, 0, 1, 2, 0, 2, 4}, c.Data())
}

func TestTensorOps_Algebra(t *testing.T) {
	backend := cpu.New()

	a, err := tensor.FromSlice([]float64{1.5, -2, 3, 0.25, 8, -7}, tensor.Shape{2, 3}, backend)
	require.NoError(t, err)
	b, err := tensor.FromSlice([]float64{4, 0.5, -1, 2, 3, 9}, tensor.Shape{2, 3}, backend)
	require.NoError(t, err)

	ab, err := a.Add(b)
	require.NoError(t, err)
	ba, err := b.Add(a)
	require.NoError(t, err)
	assert.Equal(t, ab.Data(), ba.Data(), "add is commutative")

	ab, err = a.Mul(b)
	require.NoError(t, err)
	ba, err = b.Mul(a)
	require.NoError(t, err)
	assert.Equal(t, ab.Data(), ba.Data(), "mul is commutative")

	ab, err = a.Sub(b)
	require.NoError(t, err)
	ba, err = b.Sub(a)
	require.NoError(t, err)
	for i := range ab.Data() {
		assert.Equal(t, ab.Data()[i], -ba.Data()[i], "sub is anti-commutative at %d", i)
	}
}

func TestTensorDiv_ScalarBroadcast(t *testing.T) {
	backend := cpu.New()

	a, err := tensor.FromSlice([]float64{2, 4, 6, 8}, tensor.Shape{2, 2}, backend)
	require.NoError(t, err)
	s, err := tensor.FromSlice([]float64{2}, tensor.Shape{1}, backend)
	require.NoError(t, err)

	c, err := a.Div(s)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 2}, c.Shape())
	assert.Equal(t, []float64{1, 2, 3, 4}, c.Data())
}

func TestTensorOps_IncompatibleShapes(t *testing.T) {
	backend := cpu.New()

	a, err := tensor.Zeros(tensor.Shape{2, 3}, backend)
	require.NoError(t, err)
	b, err := tensor.Zeros(tensor.Shape{4}, backend)
	require.NoError(t, err)

	_, err = a.Sub(b)
	assert.ErrorIs(t, err, tensor.ErrIncompatibleShape)
	assert.Contains(t, err.Error(), "[2 3] vs [4]")
}

func TestTensorMatrixOps(t *testing.T) {
	backend := cpu.New()

	identity, err := tensor.FromSlice([]float64{1, 0, 0, 1}, tensor.Shape{2, 2}, backend)
	require.NoError(t, err)
	m, err := tensor.FromSlice([]float64{5, 6, 7, 8}, tensor.Shape{2, 2}, backend)
	require.NoError(t, err)

	p, err := identity.MatMul(m)
	require.NoError(t, err)
	assert.Equal(t, m.Data(), p.Data())

	sum, err := identity.MatAdd(m)
	require.NoError(t, err)
	assert.Equal(t, []float64{6, 6, 7, 9}, sum.Data())

	diff, err := m.MatSub(identity)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 6, 7, 7}, diff.Data())

	v, err := tensor.FromSlice([]float64{1, 2}, tensor.Shape{2}, backend)
	require.NoError(t, err)
	_, err = v.MatMul(m)
	assert.ErrorIs(t, err, tensor.ErrRankMismatch)
	_, err = m.MatAdd(v)
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
}

func TestTensorClone(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice([]float64{1, 2}, tensor.Shape{2}, backend)
	require.NoError(t, err)

	y := x.Clone()
	y.Data()[0] = 42
	assert.Equal(t, 1.0, x.Data()[0])
}

func TestTensorString(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	require.NoError(t, err)
	assert.Equal(t, "Tensor[2 3] [1 2 3 4 5 6]", x.String())

	big, err := tensor.Zeros(tensor.Shape{10, 10}, backend)
	require.NoError(t, err)
	s := big.String()
	assert.True(t, strings.HasPrefix(s, "Tensor[10 10] [0 0 0 0 0 0 0 0 ... (84 more) ..."), s)
}
