package ml

import (
	"fmt"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
)

// Conv2D applies the receiver as a convolution kernel over x with the given
// strides and no padding. The kernel has shape (kh, kw, cin, cout) and x is
// an NHWC batch (batch, h, w, cin); the result is (batch, oh, ow, cout)
// with oh = (h-kh)/sh + 1 and ow = (w-kw)/sw + 1.
//
// Each output position gathers its kh*kw*cin receptive field into a row and
// the whole batch item reduces to one matrix product against the flattened
// kernel, so a patch-sized stride is exactly "flatten each patch and apply
// one shared linear projection".
func (w *Tensor) Conv2D(ctx Context, x *Tensor, sh, sw int) *Tensor {
	if len(w.shape) != 4 || len(x.shape) != 4 {
		panic(fmt.Sprintf("ml: conv2d requires 4D kernel and input, have %v, %v", w.shape, x.shape))
	}

	kh, kw, cin, cout := w.shape[0], w.shape[1], w.shape[2], w.shape[3]
	batch, h, wd, c := x.shape[0], x.shape[1], x.shape[2], x.shape[3]
	if c != cin {
		panic(fmt.Sprintf("ml: conv2d input has %d channels, kernel expects %d", c, cin))
	}
	if h < kh || wd < kw || sh <= 0 || sw <= 0 {
		panic(fmt.Sprintf("ml: conv2d kernel %dx%d stride %dx%d does not fit input %dx%d", kh, kw, sh, sw, h, wd))
	}

	oh := (h-kh)/sh + 1
	ow := (wd-kw)/sw + 1
	out := Zeros(batch, oh, ow, cout)

	patch := kh * kw * cin
	kernel := blas32.General{Rows: patch, Cols: cout, Stride: cout, Data: w.data}

	var g errgroup.Group
	g.SetLimit(ctx.Workers())
	for b := 0; b < batch; b++ {
		b := b
		g.Go(func() error {
			cols := make([]float32, oh*ow*patch)
			for oy := 0; oy < oh; oy++ {
				for ox := 0; ox < ow; ox++ {
					row := cols[(oy*ow+ox)*patch:]
					for ky := 0; ky < kh; ky++ {
						src := ((b*h+oy*sh+ky)*wd + ox*sw) * cin
						copy(row[ky*kw*cin:], x.data[src:src+kw*cin])
					}
				}
			}

			a := blas32.General{Rows: oh * ow, Cols: patch, Stride: patch, Data: cols}
			dst := blas32.General{Rows: oh * ow, Cols: cout, Stride: cout, Data: out.data[b*oh*ow*cout:]}
			blas32.Gemm(blas.NoTrans, blas.NoTrans, 1, a, kernel, 0, dst)
			return nil
		})
	}
	g.Wait()

	return out
}
