package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/born-ml/ndgraph/internal/tensor"
)

// ReadSafeTensors reads every tensor and the metadata from a SafeTensors file.
func ReadSafeTensors(path string) (map[string]*tensor.RawTensor, map[string]string, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for imports
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	return Decode(file)
}

// Decode reads a SafeTensors stream. F64 tensors are read as-is and F32
// tensors are widened to float64; any other dtype fails with
// ErrUnsupportedDType.
func Decode(r io.Reader) (map[string]*tensor.RawTensor, map[string]string, error) {
	var headerSize uint64
	if err := binary.Read(r, binary.LittleEndian, &headerSize); err != nil {
		return nil, nil, fmt.Errorf("failed to read header size: %w", err)
	}
	if headerSize > MaxHeaderSize {
		return nil, nil, fmt.Errorf("%w: %d bytes", ErrHeaderTooLarge, headerSize)
	}

	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerBytes); err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(headerBytes, &entries); err != nil {
		return nil, nil, fmt.Errorf("failed to parse header JSON: %w", err)
	}

	var metadata map[string]string
	if raw, ok := entries[metadataKey]; ok {
		if err := json.Unmarshal(raw, &metadata); err != nil {
			return nil, nil, fmt.Errorf("failed to parse metadata: %w", err)
		}
		delete(entries, metadataKey)
	}

	headers := make(map[string]SafeTensorHeader, len(entries))
	metas := make([]TensorMeta, 0, len(entries))
	for name, raw := range entries {
		if err := ValidateTensorName(name); err != nil {
			return nil, nil, err
		}
		var h SafeTensorHeader
		if err := json.Unmarshal(raw, &h); err != nil {
			return nil, nil, fmt.Errorf("failed to parse header for tensor %s: %w", name, err)
		}
		headers[name] = h
		metas = append(metas, TensorMeta{
			Name:   name,
			Offset: h.DataOffsets[0],
			Size:   h.DataOffsets[1] - h.DataOffsets[0],
		})
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read tensor data: %w", err)
	}
	if err := ValidateTensorOffsets(metas, int64(len(data))); err != nil {
		return nil, nil, err
	}

	// Decode in name order so errors are deterministic.
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)

	tensors := make(map[string]*tensor.RawTensor, len(headers))
	for _, name := range names {
		h := headers[name]
		raw, err := decodeTensor(name, h, data[h.DataOffsets[0]:h.DataOffsets[1]])
		if err != nil {
			return nil, nil, err
		}
		tensors[name] = raw
	}

	return tensors, metadata, nil
}

func decodeTensor(name string, h SafeTensorHeader, buf []byte) (*tensor.RawTensor, error) {
	shape := make(tensor.Shape, len(h.Shape))
	for i, dim := range h.Shape {
		if dim > int64(math.MaxInt) {
			return nil, &ValidationError{
				Type:    "size_mismatch",
				Tensor:  name,
				Details: fmt.Sprintf("dimension %d too large", dim),
				Err:     ErrSizeMismatch,
			}
		}
		shape[i] = int(dim)
	}
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("tensor %s: %w", name, err)
	}

	var width int
	switch h.DType {
	case DTypeF64:
		width = 8
	case DTypeF32:
		width = 4
	default:
		return nil, &ValidationError{
			Type:    "unsupported_dtype",
			Tensor:  name,
			Details: h.DType,
			Err:     ErrUnsupportedDType,
		}
	}

	// Bound every dimension by the bytes actually present so the element
	// count cannot overflow.
	n := 1
	for _, dim := range shape {
		if dim > len(buf)/width/n {
			return nil, &ValidationError{
				Type:    "size_mismatch",
				Tensor:  name,
				Details: fmt.Sprintf("shape %v exceeds %d bytes of %s", []int(shape), len(buf), h.DType),
				Err:     ErrSizeMismatch,
			}
		}
		n *= dim
	}
	if len(buf) != n*width {
		return nil, &ValidationError{
			Type:    "size_mismatch",
			Tensor:  name,
			Details: fmt.Sprintf("%d bytes for shape %v of %s", len(buf), []int(shape), h.DType),
			Err:     ErrSizeMismatch,
		}
	}

	values := make([]float64, n)
	for i := range values {
		if width == 8 {
			values[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[i*8:]))
		} else {
			values[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:])))
		}
	}

	return tensor.NewRawFromSlice(values, shape)
}
