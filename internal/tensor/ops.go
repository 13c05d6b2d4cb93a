package tensor

// Elementwise applies op element-wise with broadcasting and returns a new
// tensor on the receiver's backend. Neither operand is modified.
func (t *Tensor) Elementwise(op BinaryOp, other *Tensor) (*Tensor, error) {
	result, err := t.backend.Elementwise(op, t.raw, other.raw)
	if err != nil {
		return nil, err
	}
	return New(result, t.backend), nil
}

// Add performs element-wise addition with broadcasting.
//
// Example:
//
//	a, _ := tensor.FromSlice([]float64{1, 2, 3}, Shape{1, 3}, backend)
//	b, _ := tensor.FromSlice([]float64{1, 2, 3}, Shape{3, 1}, backend)
//	c, _ := a.Add(b) // Shape: [3, 3] (broadcasted)
func (t *Tensor) Add(other *Tensor) (*Tensor, error) {
	return t.Elementwise(OpAdd, other)
}

// Sub performs element-wise subtraction with broadcasting.
func (t *Tensor) Sub(other *Tensor) (*Tensor, error) {
	return t.Elementwise(OpSub, other)
}

// Mul performs element-wise multiplication with broadcasting.
func (t *Tensor) Mul(other *Tensor) (*Tensor, error) {
	return t.Elementwise(OpMul, other)
}

// Div performs element-wise division with broadcasting.
// Division by zero follows IEEE-754 and produces ±Inf or NaN.
func (t *Tensor) Div(other *Tensor) (*Tensor, error) {
	return t.Elementwise(OpDiv, other)
}

// MatMul performs matrix multiplication.
//
// Requirements:
//   - Both tensors are 2D: (M, K) @ (K, N) → (M, N)
//
// Example:
//
//	a, _ := tensor.Zeros(Shape{3, 4}, backend)
//	b, _ := tensor.Zeros(Shape{4, 5}, backend)
//	c, _ := a.MatMul(b) // Shape: [3, 5]
func (t *Tensor) MatMul(other *Tensor) (*Tensor, error) {
	result, err := t.backend.MatMul(t.raw, other.raw)
	if err != nil {
		return nil, err
	}
	return New(result, t.backend), nil
}

// MatAdd adds two tensors of identical shape. Unlike Add it never broadcasts.
func (t *Tensor) MatAdd(other *Tensor) (*Tensor, error) {
	result, err := t.backend.MatAdd(t.raw, other.raw)
	if err != nil {
		return nil, err
	}
	return New(result, t.backend), nil
}

// MatSub subtracts two tensors of identical shape. Unlike Sub it never broadcasts.
func (t *Tensor) MatSub(other *Tensor) (*Tensor, error) {
	result, err := t.backend.MatSub(t.raw, other.raw)
	if err != nil {
		return nil, err
	}
	return New(result, t.backend), nil
}
