package ml

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAddBroadcastBias(t *testing.T) {
	ctx := NewContext()
	x := FromFloats([]float32{1, 2, 3, 4}, 2, 2)
	bias := FromFloats([]float32{10, 20}, 2)
	got := x.Add(ctx, bias)
	if diff := cmp.Diff([]float32{11, 22, 13, 24}, got.Floats()); diff != "" {
		t.Errorf("bias add mismatch (-want +got):\n%s", diff)
	}
}

func TestAddBroadcastLeading(t *testing.T) {
	ctx := NewContext()
	x := Zeros(2, 2, 3)
	pos := FromFloats([]float32{1, 2, 3, 4, 5, 6}, 1, 2, 3)
	got := x.Add(ctx, pos)
	want := []float32{1, 2, 3, 4, 5, 6, 1, 2, 3, 4, 5, 6}
	if diff := cmp.Diff(want, got.Floats()); diff != "" {
		t.Errorf("position add mismatch (-want +got):\n%s", diff)
	}
}

func TestSoftmaxRowsSumToOne(t *testing.T) {
	ctx := NewContext()
	x := FromFloats([]float32{1, 2, 3, -1, 0, 1, 100, 200, 300, 5, 5, 5}, 2, 2, 3)
	got := x.Softmax(ctx)

	vals := got.Floats()
	for row := 0; row < 4; row++ {
		var sum float32
		for i := 0; i < 3; i++ {
			sum += vals[row*3+i]
		}
		if math.Abs(float64(sum)-1) > 1e-5 {
			t.Errorf("row %d sums to %v, expected 1", row, sum)
		}
	}
}

func TestSoftmaxLargeMagnitudes(t *testing.T) {
	// Without max subtraction exp(3e4) overflows float32.
	ctx := NewContext()
	x := FromFloats([]float32{30000, 30001}, 1, 2)
	got := x.Softmax(ctx).Floats()
	for _, v := range got {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("softmax not stable: %v", got)
		}
	}
	if got[1] <= got[0] {
		t.Errorf("expected monotone softmax, got %v", got)
	}
}

func TestLayerNorm(t *testing.T) {
	ctx := NewContext()
	x := FromFloats([]float32{1, 3}, 1, 2)
	w := FromFloats([]float32{1, 1}, 2)
	b := FromFloats([]float32{0, 0}, 2)
	got := x.LayerNorm(ctx, w, b, 1e-6).Floats()

	// mean 2, stddev 1: normalized values are -1 and 1.
	if math.Abs(float64(got[0])+1) > 1e-3 || math.Abs(float64(got[1])-1) > 1e-3 {
		t.Errorf("layernorm: expected [-1 1], got %v", got)
	}
}

func TestGELU(t *testing.T) {
	ctx := NewContext()
	x := FromFloats([]float32{0, 100, -100}, 3)
	got := x.GELU(ctx).Floats()
	if got[0] != 0 {
		t.Errorf("gelu(0): expected 0, got %v", got[0])
	}
	if math.Abs(float64(got[1])-100) > 1e-3 {
		t.Errorf("gelu(100): expected ~100, got %v", got[1])
	}
	if math.Abs(float64(got[2])) > 1e-3 {
		t.Errorf("gelu(-100): expected ~0, got %v", got[2])
	}
}

func TestTanhPreLogits(t *testing.T) {
	ctx := NewContext()
	x := FromFloats([]float32{0, 10}, 2)
	got := x.Tanh(ctx).Floats()
	if got[0] != 0 || math.Abs(float64(got[1])-1) > 1e-4 {
		t.Errorf("tanh: got %v", got)
	}
}
