package ml

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResizeBicubicSameSizeIsExact(t *testing.T) {
	ctx := NewContext()
	src := FromFloats([]float32{1, 2, 3, 4}, 2, 2, 1)
	got := src.ResizeBicubic(ctx, 2, 2)
	if diff := cmp.Diff(src.Floats(), got.Floats()); diff != "" {
		t.Errorf("same-size resize must be exact (-want +got):\n%s", diff)
	}
}

func TestResizeBicubicConstantGrid(t *testing.T) {
	// The cubic kernel is an interpolating kernel: a constant grid must
	// stay constant at any target size.
	ctx := NewContext()
	src := Zeros(4, 4, 2)
	for i := range src.data {
		src.data[i] = 7
	}

	got := src.ResizeBicubic(ctx, 9, 5)
	if diff := cmp.Diff([]int{9, 5, 2}, got.Shape()); diff != "" {
		t.Fatalf("shape mismatch (-want +got):\n%s", diff)
	}
	for i, v := range got.Floats() {
		if math.Abs(float64(v)-7) > 1e-4 {
			t.Fatalf("element %d: expected 7, got %v", i, v)
		}
	}
}

func TestResizeBicubicChannelsIndependent(t *testing.T) {
	ctx := NewContext()
	// Channel 0 constant 1, channel 1 constant -3.
	src := Zeros(3, 3, 2)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			src.Set(1, y, x, 0)
			src.Set(-3, y, x, 1)
		}
	}

	got := src.ResizeBicubic(ctx, 6, 6)
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			if v := got.At(y, x, 0); math.Abs(float64(v)-1) > 1e-4 {
				t.Fatalf("channel 0 at (%d,%d): got %v", y, x, v)
			}
			if v := got.At(y, x, 1); math.Abs(float64(v)+3) > 1e-4 {
				t.Fatalf("channel 1 at (%d,%d): got %v", y, x, v)
			}
		}
	}
}

func TestResizeBicubicPreservesGradient(t *testing.T) {
	// A linear ramp should resample to a (near) linear ramp: cubic
	// interpolation reproduces degree-1 polynomials away from the clamped
	// borders.
	ctx := NewContext()
	src := Zeros(1, 8, 1)
	for x := 0; x < 8; x++ {
		src.Set(float32(x), 0, x, 0)
	}

	got := src.ResizeBicubic(ctx, 1, 16)
	for x := 3; x < 13; x++ {
		want := (float64(x)+0.5)*0.5 - 0.5
		if v := float64(got.At(0, x, 0)); math.Abs(v-want) > 0.05 {
			t.Errorf("position %d: expected ~%.3f, got %.3f", x, want, v)
		}
	}
}

func TestCubicWeightPartitionOfUnity(t *testing.T) {
	for _, frac := range []float32{0, 0.25, 0.5, 0.75, 0.99} {
		var sum float32
		for k := -1; k <= 2; k++ {
			sum += cubicWeight(float32(k) - frac)
		}
		if math.Abs(float64(sum)-1) > 1e-5 {
			t.Errorf("weights at frac %v sum to %v", frac, sum)
		}
	}
}
