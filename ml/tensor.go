// Package ml implements the eager tensor backend the model packages are
// written against: a dense float32 tensor in row-major order with the
// operations a transformer forward pass needs. Shape violations inside ops
// are programmer errors and panic; user-facing validation belongs in the
// model packages and returns errors.
package ml

import "fmt"

// Tensor is a dense multi-dimensional array of float32 values stored in
// row-major (C-contiguous) order. Operations return new tensors and never
// mutate their operands; the only mutating entry point is SetFloats, which
// external weight loaders use to populate parameter slots in place.
//
// A Tensor is not safe for concurrent mutation. Parameters are treated as
// read-only for the duration of a forward pass.
type Tensor struct {
	data  []float32
	shape []int
}

// Zeros creates a tensor of the given shape with all elements zero.
func Zeros(shape ...int) *Tensor {
	if len(shape) == 0 {
		panic("ml: tensor shape cannot be empty")
	}

	size := 1
	for i, dim := range shape {
		if dim <= 0 {
			panic(fmt.Sprintf("ml: shape[%d] must be positive, got %d", i, dim))
		}
		size *= dim
	}

	return &Tensor{
		data:  make([]float32, size),
		shape: append([]int(nil), shape...),
	}
}

// FromFloats creates a tensor of the given shape backed by a copy of data.
func FromFloats(data []float32, shape ...int) *Tensor {
	t := Zeros(shape...)
	if len(data) != len(t.data) {
		panic(fmt.Sprintf("ml: %d values do not fill shape %v", len(data), shape))
	}
	copy(t.data, data)
	return t
}

// Shape returns a copy of the tensor's shape.
func (t *Tensor) Shape() []int {
	return append([]int(nil), t.shape...)
}

// Dim returns the size of dimension i.
func (t *Tensor) Dim(i int) int { return t.shape[i] }

// Rank returns the number of dimensions.
func (t *Tensor) Rank() int { return len(t.shape) }

// Size returns the total number of elements.
func (t *Tensor) Size() int { return len(t.data) }

// Floats returns a copy of the tensor's values in row-major order.
func (t *Tensor) Floats() []float32 {
	return append([]float32(nil), t.data...)
}

// SetFloats overwrites the tensor's values in place. The value count must
// match the tensor size exactly; this is the surface weight loaders populate.
func (t *Tensor) SetFloats(data []float32) error {
	if len(data) != len(t.data) {
		return fmt.Errorf("ml: cannot load %d values into tensor of shape %v (%d values)", len(data), t.shape, len(t.data))
	}
	copy(t.data, data)
	return nil
}

// At returns the element at the given indices.
func (t *Tensor) At(indices ...int) float32 {
	return t.data[t.flatIndex(indices)]
}

// Set assigns the element at the given indices.
func (t *Tensor) Set(value float32, indices ...int) {
	t.data[t.flatIndex(indices)] = value
}

func (t *Tensor) flatIndex(indices []int) int {
	if len(indices) != len(t.shape) {
		panic(fmt.Sprintf("ml: expected %d indices, got %d", len(t.shape), len(indices)))
	}

	idx, stride := 0, 1
	for i := len(indices) - 1; i >= 0; i-- {
		if indices[i] < 0 || indices[i] >= t.shape[i] {
			panic(fmt.Sprintf("ml: index[%d]=%d out of bounds [0,%d)", i, indices[i], t.shape[i]))
		}
		idx += indices[i] * stride
		stride *= t.shape[i]
	}
	return idx
}

// Clone returns a deep copy.
func (t *Tensor) Clone() *Tensor {
	return FromFloats(t.data, t.shape...)
}

// Reshape returns a view with a different shape sharing the underlying
// storage. The element count must be unchanged.
func (t *Tensor) Reshape(shape ...int) *Tensor {
	size := 1
	for _, dim := range shape {
		size *= dim
	}
	if size != len(t.data) {
		panic(fmt.Sprintf("ml: cannot reshape %v to %v", t.shape, shape))
	}

	return &Tensor{data: t.data, shape: append([]int(nil), shape...)}
}

// strides returns the row-major stride of each dimension.
func (t *Tensor) strides() []int {
	s := make([]int, len(t.shape))
	acc := 1
	for i := len(t.shape) - 1; i >= 0; i-- {
		s[i] = acc
		acc *= t.shape[i]
	}
	return s
}

// Narrow returns a copy of the tensor restricted to n elements of dimension
// dim starting at start.
func (t *Tensor) Narrow(dim, start, n int) *Tensor {
	if dim < 0 || dim >= len(t.shape) {
		panic(fmt.Sprintf("ml: narrow dim %d out of range for shape %v", dim, t.shape))
	}
	if start < 0 || n <= 0 || start+n > t.shape[dim] {
		panic(fmt.Sprintf("ml: narrow [%d:%d] out of range for dim of size %d", start, start+n, t.shape[dim]))
	}

	outShape := t.Shape()
	outShape[dim] = n
	out := Zeros(outShape...)

	// outer iterates dims before dim, inner is the contiguous run after it.
	inner := 1
	for i := dim + 1; i < len(t.shape); i++ {
		inner *= t.shape[i]
	}
	outer := len(t.data) / (inner * t.shape[dim])

	for o := 0; o < outer; o++ {
		src := (o*t.shape[dim] + start) * inner
		dst := o * n * inner
		copy(out.data[dst:dst+n*inner], t.data[src:src+n*inner])
	}
	return out
}

// Concat concatenates t and b along dimension dim. All other dimensions
// must match.
func (t *Tensor) Concat(ctx Context, b *Tensor, dim int) *Tensor {
	if len(t.shape) != len(b.shape) {
		panic(fmt.Sprintf("ml: cannot concat ranks %d and %d", len(t.shape), len(b.shape)))
	}
	for i := range t.shape {
		if i != dim && t.shape[i] != b.shape[i] {
			panic(fmt.Sprintf("ml: cannot concat shapes %v and %v along dim %d", t.shape, b.shape, dim))
		}
	}

	outShape := t.Shape()
	outShape[dim] += b.shape[dim]
	out := Zeros(outShape...)

	inner := 1
	for i := dim + 1; i < len(t.shape); i++ {
		inner *= t.shape[i]
	}
	ta, tb := t.shape[dim]*inner, b.shape[dim]*inner
	outer := len(t.data) / ta

	for o := 0; o < outer; o++ {
		copy(out.data[o*(ta+tb):], t.data[o*ta:(o+1)*ta])
		copy(out.data[o*(ta+tb)+ta:], b.data[o*tb:(o+1)*tb])
	}
	return out
}

// Transpose returns a contiguous copy with dimensions i and j swapped.
func (t *Tensor) Transpose(ctx Context, i, j int) *Tensor {
	if i == j {
		return t.Clone()
	}

	perm := make([]int, len(t.shape))
	for k := range perm {
		perm[k] = k
	}
	perm[i], perm[j] = perm[j], perm[i]
	return t.permute(perm)
}

// permute returns a contiguous copy with dimensions reordered so that output
// dimension k is input dimension perm[k].
func (t *Tensor) permute(perm []int) *Tensor {
	outShape := make([]int, len(perm))
	for k, p := range perm {
		outShape[k] = t.shape[p]
	}
	out := Zeros(outShape...)

	inStrides := t.strides()
	idx := make([]int, len(outShape))
	for o := range out.data {
		src := 0
		for k, p := range perm {
			src += idx[k] * inStrides[p]
		}
		out.data[o] = t.data[src]

		for k := len(idx) - 1; k >= 0; k-- {
			idx[k]++
			if idx[k] < outShape[k] {
				break
			}
			idx[k] = 0
		}
	}
	return out
}

// Repeat returns a copy with dimension dim repeated n times. The dimension
// must have size 1; this is the broadcast used to expand per-model tokens
// across a batch.
func (t *Tensor) Repeat(ctx Context, dim, n int) *Tensor {
	if t.shape[dim] != 1 {
		panic(fmt.Sprintf("ml: repeat requires dim %d of size 1, have shape %v", dim, t.shape))
	}

	outShape := t.Shape()
	outShape[dim] = n
	out := Zeros(outShape...)

	inner := 1
	for i := dim + 1; i < len(t.shape); i++ {
		inner *= t.shape[i]
	}
	outer := len(t.data) / inner

	for o := 0; o < outer; o++ {
		for r := 0; r < n; r++ {
			copy(out.data[(o*n+r)*inner:], t.data[o*inner:(o+1)*inner])
		}
	}
	return out
}

func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor(shape=%v)", t.shape)
}

func shapeEqual(a, b []int) bool {
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
