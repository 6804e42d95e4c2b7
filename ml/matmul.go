package ml

import (
	"fmt"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
)

// Matmul multiplies the last two dimensions of t and b as matrices:
// (..., M, K) x (..., K, N) -> (..., M, N). The leading dimensions of both
// operands must match exactly, or b may be a plain (K, N) matrix shared
// across all leading dimensions of t, which is the layout of layer weights.
//
// This is the only O(n^3) operation in the backend. The per-matrix product
// runs on gonum's float32 BLAS and independent matrices fan out across
// ctx.Workers() goroutines.
func (t *Tensor) Matmul(ctx Context, b *Tensor) *Tensor {
	if len(t.shape) < 2 || len(b.shape) < 2 {
		panic(fmt.Sprintf("ml: matmul requires rank >= 2, have %v x %v", t.shape, b.shape))
	}

	m := t.shape[len(t.shape)-2]
	k := t.shape[len(t.shape)-1]
	if b.shape[len(b.shape)-2] != k {
		panic(fmt.Sprintf("ml: matmul inner dimensions do not match: %v x %v", t.shape, b.shape))
	}
	n := b.shape[len(b.shape)-1]

	shared := len(b.shape) == 2
	if !shared && !shapeEqual(t.shape[:len(t.shape)-2], b.shape[:len(b.shape)-2]) {
		panic(fmt.Sprintf("ml: matmul batch dimensions do not match: %v x %v", t.shape, b.shape))
	}

	batch := len(t.data) / (m * k)
	outShape := append(append([]int(nil), t.shape[:len(t.shape)-2]...), m, n)
	out := Zeros(outShape...)

	var g errgroup.Group
	g.SetLimit(ctx.Workers())
	for i := 0; i < batch; i++ {
		a := blas32.General{Rows: m, Cols: k, Stride: k, Data: t.data[i*m*k : (i+1)*m*k]}

		bd := b.data
		if !shared {
			bd = b.data[i*k*n : (i+1)*k*n]
		}
		bm := blas32.General{Rows: k, Cols: n, Stride: n, Data: bd}

		c := blas32.General{Rows: m, Cols: n, Stride: n, Data: out.data[i*m*n : (i+1)*m*n]}

		g.Go(func() error {
			blas32.Gemm(blas.NoTrans, blas.NoTrans, 1, a, bm, 0, c)
			return nil
		})
	}
	g.Wait()

	return out
}
