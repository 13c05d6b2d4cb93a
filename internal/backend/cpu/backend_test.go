package cpu

import (
	"errors"
	"math"
	"testing"

	"github.com/born-ml/ndgraph/internal/parallel"
	"github.com/born-ml/ndgraph/internal/tensor"
)

// Helper to create test backend.
func newTestBackend() *CPUBackend {
	return New()
}

// Helper to build a raw tensor or fail the test.
func mustRaw(t *testing.T, data []float64, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRawFromSlice(data, shape)
	if err != nil {
		t.Fatalf("NewRawFromSlice(%v, %v): %v", data, shape, err)
	}
	return raw
}

// Helper to check float64 slices are exactly equal.
func float64SliceEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TestCPUBackend_New tests backend creation.
func TestCPUBackend_New(t *testing.T) {
	backend := New()
	if backend == nil {
		t.Fatal("New() returned nil")
	}
	if backend.Name() != "CPU" {
		t.Errorf("Expected name 'CPU', got '%s'", backend.Name())
	}
}

// TestCPUBackend_Elementwise tests all four operators on same-shape inputs.
func TestCPUBackend_Elementwise(t *testing.T) {
	backend := newTestBackend()

	a := mustRaw(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	b := mustRaw(t, []float64{10, 11, 12, 13, 14, 15}, tensor.Shape{2, 3})

	tests := []struct {
		op       tensor.BinaryOp
		expected []float64
	}{
		{tensor.OpAdd, []float64{11, 13, 15, 17, 19, 21}},
		{tensor.OpSub, []float64{-9, -9, -9, -9, -9, -9}},
		{tensor.OpMul, []float64{10, 22, 36, 52, 70, 90}},
		{tensor.OpDiv, []float64{1.0 / 10, 2.0 / 11, 3.0 / 12, 4.0 / 13, 5.0 / 14, 6.0 / 15}},
	}

	for _, tt := range tests {
		t.Run(tt.op.Name(), func(t *testing.T) {
			result, err := backend.Elementwise(tt.op, a, b)
			if err != nil {
				t.Fatalf("Elementwise(%v) failed: %v", tt.op, err)
			}
			if !result.Shape().Equal(tensor.Shape{2, 3}) {
				t.Errorf("Expected shape [2 3], got %v", result.Shape())
			}
			if !float64SliceEqual(result.Data(), tt.expected) {
				t.Errorf("got %v, expected %v", result.Data(), tt.expected)
			}
		})
	}
}

// TestCPUBackend_InputsUnchanged tests that operands are never modified.
func TestCPUBackend_InputsUnchanged(t *testing.T) {
	backend := newTestBackend()

	a := mustRaw(t, []float64{1, 2, 3}, tensor.Shape{3})
	b := mustRaw(t, []float64{10, 20, 30}, tensor.Shape{3})

	result, err := backend.Elementwise(tensor.OpAdd, a, b)
	if err != nil {
		t.Fatal(err)
	}

	if result == a || result == b {
		t.Fatal("Elementwise must return a new tensor")
	}
	if !float64SliceEqual(a.Data(), []float64{1, 2, 3}) {
		t.Errorf("a was modified: %v", a.Data())
	}
	if !float64SliceEqual(b.Data(), []float64{10, 20, 30}) {
		t.Errorf("b was modified: %v", b.Data())
	}
}

// TestCPUBackend_Broadcast tests the broadcasting index mapping.
func TestCPUBackend_Broadcast(t *testing.T) {
	backend := newTestBackend()

	t.Run("AdditionTable", func(t *testing.T) {
		row := mustRaw(t, []float64{1, 2, 3}, tensor.Shape{1, 3})
		col := mustRaw(t, []float64{1, 2, 3}, tensor.Shape{3, 1})

		result, err := backend.Elementwise(tensor.OpAdd, row, col)
		if err != nil {
			t.Fatal(err)
		}

		expected := []float64{2, 3, 4, 3, 4, 5, 4, 5, 6}
		if !result.Shape().Equal(tensor.Shape{3, 3}) {
			t.Errorf("Expected shape [3 3], got %v", result.Shape())
		}
		if !float64SliceEqual(result.Data(), expected) {
			t.Errorf("got %v, expected %v", result.Data(), expected)
		}
	})

	t.Run("OuterProduct", func(t *testing.T) {
		row := mustRaw(t, []float64{0, 1, 2}, tensor.Shape{1, 3})
		col := mustRaw(t, []float64{0, 1, 2}, tensor.Shape{3, 1})

		result, err := backend.Elementwise(tensor.OpMul, row, col)
		if err != nil {
			t.Fatal(err)
		}

		expected := []float64{0, 0, 0, 0, 1, 2, 0, 2, 4}
		if !float64SliceEqual(result.Data(), expected) {
			t.Errorf("got %v, expected %v", result.Data(), expected)
		}
	})

	t.Run("RankPadding", func(t *testing.T) {
		// (2, 3) + (3,) → bias added to every row
		m := mustRaw(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
		bias := mustRaw(t, []float64{10, 20, 30}, tensor.Shape{3})

		result, err := backend.Elementwise(tensor.OpAdd, m, bias)
		if err != nil {
			t.Fatal(err)
		}

		expected := []float64{11, 22, 33, 14, 25, 36}
		if !float64SliceEqual(result.Data(), expected) {
			t.Errorf("got %v, expected %v", result.Data(), expected)
		}
	})

	t.Run("MiddleDimension", func(t *testing.T) {
		// (2, 1, 2) - (1, 3, 1) → (2, 3, 2)
		a := mustRaw(t, []float64{1, 2, 3, 4}, tensor.Shape{2, 1, 2})
		b := mustRaw(t, []float64{10, 20, 30}, tensor.Shape{1, 3, 1})

		result, err := backend.Elementwise(tensor.OpSub, a, b)
		if err != nil {
			t.Fatal(err)
		}

		if !result.Shape().Equal(tensor.Shape{2, 3, 2}) {
			t.Fatalf("Expected shape [2 3 2], got %v", result.Shape())
		}
		expected := []float64{
			-9, -8, -19, -18, -29, -28,
			-7, -6, -17, -16, -27, -26,
		}
		if !float64SliceEqual(result.Data(), expected) {
			t.Errorf("got %v, expected %v", result.Data(), expected)
		}
	})

	t.Run("Scalar", func(t *testing.T) {
		data := []float64{1, -2, 3.5, 0, 7, 8}
		m := mustRaw(t, data, tensor.Shape{3, 2})
		s := mustRaw(t, []float64{4}, tensor.Shape{1})

		for _, op := range []tensor.BinaryOp{tensor.OpAdd, tensor.OpSub, tensor.OpMul, tensor.OpDiv} {
			result, err := backend.Elementwise(op, m, s)
			if err != nil {
				t.Fatal(err)
			}
			fn := op.Func()
			for i, v := range data {
				if got, want := result.Data()[i], fn(v, 4); got != want {
					t.Errorf("%v[%d]: got %v, expected %v", op, i, got, want)
				}
			}
		}
	})
}

// TestCPUBackend_Incompatible tests the broadcast compatibility error.
func TestCPUBackend_Incompatible(t *testing.T) {
	backend := newTestBackend()

	a := mustRaw(t, make([]float64, 12), tensor.Shape{3, 4})
	b := mustRaw(t, make([]float64, 15), tensor.Shape{3, 5})

	_, err := backend.Elementwise(tensor.OpMul, a, b)
	if !errors.Is(err, tensor.ErrIncompatibleShape) {
		t.Fatalf("Expected ErrIncompatibleShape, got %v", err)
	}

	var se *tensor.ShapeError
	if !errors.As(err, &se) {
		t.Fatalf("Expected *tensor.ShapeError, got %T", err)
	}
	if se.Op != "mul" || se.Dim != 1 {
		t.Errorf("Expected op mul at dimension 1, got %q at %d", se.Op, se.Dim)
	}
}

// TestCPUBackend_DivByZero tests the IEEE-754 division policy.
func TestCPUBackend_DivByZero(t *testing.T) {
	backend := newTestBackend()

	a := mustRaw(t, []float64{1, -1, 0}, tensor.Shape{3})
	zero := mustRaw(t, []float64{0}, tensor.Shape{1})

	result, err := backend.Elementwise(tensor.OpDiv, a, zero)
	if err != nil {
		t.Fatalf("division by zero must not fail: %v", err)
	}

	data := result.Data()
	if !math.IsInf(data[0], 1) || !math.IsInf(data[1], -1) || !math.IsNaN(data[2]) {
		t.Errorf("Expected [+Inf -Inf NaN], got %v", data)
	}
}

// TestCPUBackend_Parallel tests that parallel execution matches sequential.
func TestCPUBackend_Parallel(t *testing.T) {
	seq := New()
	par := NewWithConfig(parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 16})

	rows, cols := 64, 48
	colData := make([]float64, rows)
	rowData := make([]float64, cols)
	for i := range colData {
		colData[i] = float64(i) * 0.5
	}
	for j := range rowData {
		rowData[j] = float64(j) - 7
	}

	a := mustRaw(t, colData, tensor.Shape{rows, 1})
	b := mustRaw(t, rowData, tensor.Shape{1, cols})

	for _, op := range []tensor.BinaryOp{tensor.OpAdd, tensor.OpSub, tensor.OpMul, tensor.OpDiv} {
		want, err := seq.Elementwise(op, a, b)
		if err != nil {
			t.Fatal(err)
		}
		got, err := par.Elementwise(op, a, b)
		if err != nil {
			t.Fatal(err)
		}
		for i := range want.Data() {
			w, g := want.Data()[i], got.Data()[i]
			if w != g && !(math.IsNaN(w) && math.IsNaN(g)) {
				t.Fatalf("%v[%d]: parallel %v, sequential %v", op, i, g, w)
			}
		}
	}
}

// TestCPUBackend_MatAddSub tests same-shape matrix addition and subtraction.
func TestCPUBackend_MatAddSub(t *testing.T) {
	backend := newTestBackend()

	a := mustRaw(t, []float64{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := mustRaw(t, []float64{4, 3, 2, 1}, tensor.Shape{2, 2})

	sum, err := backend.MatAdd(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if !float64SliceEqual(sum.Data(), []float64{5, 5, 5, 5}) {
		t.Errorf("MatAdd got %v", sum.Data())
	}

	diff, err := backend.MatSub(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if !float64SliceEqual(diff.Data(), []float64{-3, -1, 1, 3}) {
		t.Errorf("MatSub got %v", diff.Data())
	}

	// Broadcast-compatible shapes are still rejected.
	row := mustRaw(t, []float64{1, 2}, tensor.Shape{1, 2})
	if _, err := backend.MatAdd(a, row); !errors.Is(err, tensor.ErrShapeMismatch) {
		t.Errorf("MatAdd: expected ErrShapeMismatch, got %v", err)
	}
	if _, err := backend.MatSub(a, row); !errors.Is(err, tensor.ErrShapeMismatch) {
		t.Errorf("MatSub: expected ErrShapeMismatch, got %v", err)
	}
}

func BenchmarkElementwiseBroadcast(b *testing.B) {
	n := 512
	col, _ := tensor.NewRaw(tensor.Shape{n, 1})
	row, _ := tensor.NewRaw(tensor.Shape{1, n})

	for _, bc := range []struct {
		name    string
		backend *CPUBackend
	}{
		{"sequential", New()},
		{"parallel", NewWithConfig(parallel.DefaultConfig())},
	} {
		b.Run(bc.name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_, _ = bc.backend.Elementwise(tensor.OpAdd, col, row)
			}
		})
	}
}
