package tensor

// Backend defines the interface that compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Every method allocates and returns a new RawTensor; inputs are never
// modified.
type Backend interface {
	// Name returns a human-readable backend name.
	Name() string

	// Elementwise applies op to a and b with NumPy-style broadcasting.
	Elementwise(op BinaryOp, a, b *RawTensor) (*RawTensor, error)

	// Matrix operations. No broadcasting.
	MatMul(a, b *RawTensor) (*RawTensor, error) // (M, K) @ (K, N) -> (M, N)
	MatAdd(a, b *RawTensor) (*RawTensor, error) // identical shapes
	MatSub(a, b *RawTensor) (*RawTensor, error) // identical shapes
}
