package tensor

// RawTensor is the low-level tensor representation: a contiguous row-major
// float64 buffer and its shape. A RawTensor exclusively owns its buffer;
// buffers are never shared between RawTensors.
type RawTensor struct {
	data   []float64
	shape  Shape
	stride []int
}

// NewRaw creates a new zero-filled RawTensor with the given shape.
func NewRaw(shape Shape) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}

	return &RawTensor{
		data:   make([]float64, shape.NumElements()),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
	}, nil
}

// NewRawFromSlice creates a RawTensor holding a copy of data.
// The shape may contain one placeholder dimension (0), see ResolveShape.
func NewRawFromSlice(data []float64, shape Shape) (*RawTensor, error) {
	resolved, err := ResolveShape(shape, len(data))
	if err != nil {
		return nil, err
	}

	buf := make([]float64, len(data))
	copy(buf, data)

	return &RawTensor{
		data:   buf,
		shape:  resolved,
		stride: resolved.ComputeStrides(),
	}, nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Strides returns the tensor's memory strides.
func (r *RawTensor) Strides() []int {
	return r.stride
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return len(r.data)
}

// Data returns the underlying buffer.
// WARNING: Direct access to underlying memory. Use with caution.
func (r *RawTensor) Data() []float64 {
	return r.data
}

// Clone creates a deep copy of the RawTensor.
func (r *RawTensor) Clone() *RawTensor {
	return &RawTensor{
		data:   append([]float64(nil), r.data...),
		shape:  r.shape.Clone(),
		stride: append([]int(nil), r.stride...),
	}
}
