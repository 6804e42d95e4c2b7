package ml

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMatmul(t *testing.T) {
	ctx := NewContext()
	a := FromFloats([]float32{1, 2, 3, 4, 5, 6}, 2, 3)
	b := FromFloats([]float32{7, 8, 9, 10, 11, 12}, 3, 2)
	got := a.Matmul(ctx, b)
	want := []float32{58, 64, 139, 154}
	if diff := cmp.Diff(want, got.Floats()); diff != "" {
		t.Errorf("matmul mismatch (-want +got):\n%s", diff)
	}
}

func TestMatmulSharedWeights(t *testing.T) {
	// A (2, 1, 2) batch against a shared (2, 2) weight matrix.
	ctx := NewContext()
	a := FromFloats([]float32{1, 2, 3, 4}, 2, 1, 2)
	w := FromFloats([]float32{1, 0, 0, 1}, 2, 2)
	got := a.Matmul(ctx, w)
	if diff := cmp.Diff([]int{2, 1, 2}, got.Shape()); diff != "" {
		t.Fatalf("shape mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(a.Floats(), got.Floats()); diff != "" {
		t.Errorf("identity matmul mismatch (-want +got):\n%s", diff)
	}
}

func TestMatmulBatched(t *testing.T) {
	ctx := NewContext()
	a := FromFloats([]float32{
		1, 0, 0, 1, // identity
		2, 0, 0, 2, // 2*identity
	}, 2, 2, 2)
	b := FromFloats([]float32{
		1, 2, 3, 4,
		1, 2, 3, 4,
	}, 2, 2, 2)
	got := a.Matmul(ctx, b)
	want := []float32{1, 2, 3, 4, 2, 4, 6, 8}
	if diff := cmp.Diff(want, got.Floats()); diff != "" {
		t.Errorf("batched matmul mismatch (-want +got):\n%s", diff)
	}
}

func TestMatmulShapeMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on inner dimension mismatch")
		}
	}()
	ctx := NewContext()
	Zeros(2, 3).Matmul(ctx, Zeros(2, 3))
}

func TestConv2DPatchSums(t *testing.T) {
	ctx := NewContext()
	// 4x4 single-channel image, 2x2 kernel of ones with stride 2: each
	// output is the sum of one non-overlapping patch.
	x := FromFloats([]float32{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}, 1, 4, 4, 1)
	w := FromFloats([]float32{1, 1, 1, 1}, 2, 2, 1, 1)

	got := w.Conv2D(ctx, x, 2, 2)
	if diff := cmp.Diff([]int{1, 2, 2, 1}, got.Shape()); diff != "" {
		t.Fatalf("conv shape mismatch (-want +got):\n%s", diff)
	}
	want := []float32{14, 22, 46, 54}
	if diff := cmp.Diff(want, got.Floats()); diff != "" {
		t.Errorf("conv mismatch (-want +got):\n%s", diff)
	}
}

func TestConv2DChannelMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on channel mismatch")
		}
	}()
	ctx := NewContext()
	Zeros(2, 2, 3, 8).Conv2D(ctx, Zeros(1, 4, 4, 1), 2, 2)
}
