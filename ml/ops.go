package ml

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Add returns t + b. b broadcasts against t numpy-style: its shape is
// right-aligned with t's and each dimension must either match or be 1 (or be
// absent). This covers bias addition, (D) against (B, N, D), and position
// tables, (1, N, D) against (B, N, D).
func (t *Tensor) Add(ctx Context, b *Tensor) *Tensor {
	if shapeEqual(t.shape, b.shape) {
		out := Zeros(t.shape...)
		for i := range out.data {
			out.data[i] = t.data[i] + b.data[i]
		}
		return out
	}
	return t.broadcast(b, func(x, y float32) float32 { return x + y })
}

// Mul returns the element-wise product t * b, with the same broadcasting
// rules as Add.
func (t *Tensor) Mul(ctx Context, b *Tensor) *Tensor {
	if shapeEqual(t.shape, b.shape) {
		out := Zeros(t.shape...)
		for i := range out.data {
			out.data[i] = t.data[i] * b.data[i]
		}
		return out
	}
	return t.broadcast(b, func(x, y float32) float32 { return x * y })
}

func (t *Tensor) broadcast(b *Tensor, op func(x, y float32) float32) *Tensor {
	if len(b.shape) > len(t.shape) {
		panic(fmt.Sprintf("ml: cannot broadcast %v against %v", b.shape, t.shape))
	}

	// Right-align b's shape against t's; stride 0 marks broadcast dims.
	bStrides := make([]int, len(t.shape))
	bReal := b.strides()
	offset := len(t.shape) - len(b.shape)
	for i := range t.shape {
		switch {
		case i < offset || b.shape[i-offset] == 1:
			bStrides[i] = 0
		case b.shape[i-offset] == t.shape[i]:
			bStrides[i] = bReal[i-offset]
		default:
			panic(fmt.Sprintf("ml: cannot broadcast %v against %v", b.shape, t.shape))
		}
	}

	out := Zeros(t.shape...)
	idx := make([]int, len(t.shape))
	for i := range out.data {
		src := 0
		for k := range idx {
			src += idx[k] * bStrides[k]
		}
		out.data[i] = op(t.data[i], b.data[src])

		for k := len(idx) - 1; k >= 0; k-- {
			idx[k]++
			if idx[k] < t.shape[k] {
				break
			}
			idx[k] = 0
		}
	}
	return out
}

// Scale returns t * s.
func (t *Tensor) Scale(ctx Context, s float32) *Tensor {
	out := Zeros(t.shape...)
	for i := range out.data {
		out.data[i] = t.data[i] * s
	}
	return out
}

// Softmax applies a numerically stable softmax along the last dimension:
// the row maximum is subtracted before exponentiation so large score
// magnitudes cannot overflow.
func (t *Tensor) Softmax(ctx Context) *Tensor {
	out := Zeros(t.shape...)
	last := t.shape[len(t.shape)-1]

	for row := 0; row < len(t.data); row += last {
		x := t.data[row : row+last]
		y := out.data[row : row+last]

		maxVal := x[0]
		for _, v := range x[1:] {
			if v > maxVal {
				maxVal = v
			}
		}

		var sum float32
		for i, v := range x {
			y[i] = math32.Exp(v - maxVal)
			sum += y[i]
		}
		for i := range y {
			y[i] /= sum
		}
	}
	return out
}

// LayerNorm normalizes the last dimension to zero mean and unit variance,
// then applies the learned scale w and shift b.
func (t *Tensor) LayerNorm(ctx Context, w, b *Tensor, eps float32) *Tensor {
	last := t.shape[len(t.shape)-1]
	if w.Size() != last || b.Size() != last {
		panic(fmt.Sprintf("ml: layernorm params of size %d, %d do not match dim %d", w.Size(), b.Size(), last))
	}

	out := Zeros(t.shape...)
	for row := 0; row < len(t.data); row += last {
		x := t.data[row : row+last]
		y := out.data[row : row+last]

		var mean float32
		for _, v := range x {
			mean += v
		}
		mean /= float32(last)

		var variance float32
		for _, v := range x {
			d := v - mean
			variance += d * d
		}
		variance /= float32(last)

		inv := 1 / math32.Sqrt(variance+eps)
		for i, v := range x {
			y[i] = (v-mean)*inv*w.data[i] + b.data[i]
		}
	}
	return out
}

// GELU applies the tanh approximation of the Gaussian Error Linear Unit:
// 0.5x(1 + tanh(sqrt(2/pi)(x + 0.044715x^3))).
func (t *Tensor) GELU(ctx Context) *Tensor {
	const (
		sqrt2OverPi = 0.7978845608028654
		coeff       = 0.044715
	)

	out := Zeros(t.shape...)
	for i, v := range t.data {
		out.data[i] = 0.5 * v * (1 + math32.Tanh(sqrt2OverPi*(v+coeff*v*v*v)))
	}
	return out
}

// ReLU applies max(0, x) element-wise.
func (t *Tensor) ReLU(ctx Context) *Tensor {
	out := Zeros(t.shape...)
	for i, v := range t.data {
		if v > 0 {
			out.data[i] = v
		}
	}
	return out
}

// Tanh applies tanh element-wise.
func (t *Tensor) Tanh(ctx Context) *Tensor {
	out := Zeros(t.shape...)
	for i, v := range t.data {
		out.data[i] = math32.Tanh(v)
	}
	return out
}
