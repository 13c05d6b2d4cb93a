package tensor

import "fmt"

// BroadcastShapes implements NumPy-style broadcasting rules.
//
// Rules:
// 1. Compare shapes element-wise from right to left
// 2. Dimensions are compatible if:
//   - They are equal, OR
//   - One of them is 1
//
// 3. Missing dimensions are treated as 1
//
// Returns the broadcasted shape, a flag indicating if broadcasting is needed, and an error if incompatible.
//
// Examples:
//
//	(3, 1) + (3, 5) → (3, 5), true, nil
//	(1, 5) + (3, 5) → (3, 5), true, nil
//	(3, 5) + (3, 5) → (3, 5), false, nil
//	(3, 4) + (3, 5) → nil, false, ErrIncompatibleShape
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	maxLen := max(len(a), len(b))
	result := make(Shape, maxLen)
	needsBroadcast := len(a) != len(b)

	for i := 0; i < maxLen; i++ {
		aIdx := len(a) - 1 - i
		bIdx := len(b) - 1 - i

		aDim := 1
		if aIdx >= 0 {
			aDim = a[aIdx]
		}

		bDim := 1
		if bIdx >= 0 {
			bDim = b[bIdx]
		}

		switch {
		case aDim == bDim:
			result[maxLen-1-i] = aDim
		case aDim == 1:
			result[maxLen-1-i] = bDim
			needsBroadcast = true
		case bDim == 1:
			result[maxLen-1-i] = aDim
			needsBroadcast = true
		default:
			return nil, false, &ShapeError{
				Op:      "broadcast",
				Err:     ErrIncompatibleShape,
				Shapes:  []Shape{a, b},
				Dim:     maxLen - 1 - i,
				Details: fmt.Sprintf("%d vs %d", aDim, bDim),
			}
		}
	}

	return result, needsBroadcast, nil
}

// BroadcastStrides computes strides for reading a tensor of shape inShape as if
// it had shape outShape. Dimensions that are left-padded or of size 1 get
// stride 0, so every output coordinate along them maps to index 0.
//
// outShape must be a broadcast of inShape (see BroadcastShapes).
func BroadcastStrides(inShape, outShape Shape) []int {
	outDim := len(outShape)
	strides := make([]int, outDim)

	inDim := len(inShape)
	offset := outDim - inDim
	origStrides := inShape.ComputeStrides()

	for i := 0; i < outDim; i++ {
		inIdx := i - offset
		switch {
		case inIdx < 0:
			strides[i] = 0
		case inShape[inIdx] == 1:
			strides[i] = 0
		default:
			strides[i] = origStrides[inIdx]
		}
	}

	return strides
}

// FlatIndex maps a flat index into the output buffer to a flat index into a
// broadcast operand's buffer.
// outStrides: contiguous strides of the output shape.
// inStrides: broadcast-adjusted strides of the operand (see BroadcastStrides).
func FlatIndex(outIdx int, outStrides, inStrides []int) int {
	flatIdx := 0
	for i, stride := range outStrides {
		coord := outIdx / stride
		outIdx %= stride
		flatIdx += coord * inStrides[i]
	}
	return flatIdx
}
