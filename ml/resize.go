package ml

import (
	"fmt"

	"github.com/chewxy/math32"
)

// ResizeBicubic resamples a (h, w, c) tensor to (oh, ow, c) with cubic
// convolution over the two spatial axes; channels are interpolated
// independently. Sampling uses the Keys kernel (a = -0.5) with half-pixel
// centers and clamped edges, matching the conventional "bicubic" of image
// resampling libraries.
func (t *Tensor) ResizeBicubic(ctx Context, oh, ow int) *Tensor {
	if len(t.shape) != 3 {
		panic(fmt.Sprintf("ml: bicubic resize requires a (h, w, c) tensor, have %v", t.shape))
	}
	if oh <= 0 || ow <= 0 {
		panic(fmt.Sprintf("ml: invalid resize target %dx%d", oh, ow))
	}

	h, w, c := t.shape[0], t.shape[1], t.shape[2]
	if oh == h && ow == w {
		return t.Clone()
	}

	// Separable: resample the width axis first, then the height axis.
	tmp := Zeros(h, ow, c)
	resampleAxis(t.data, tmp.data, h, w, ow, c, w*c, c, ow*c, c)
	out := Zeros(oh, ow, c)
	resampleAxis(tmp.data, out.data, ow*c, h, oh, 1, 1, ow*c, 1, ow*c)
	return out
}

// resampleAxis resamples one axis of length src to dst positions. For each
// of lines scan lines (each with depth channel values), output position i
// samples four neighbouring taps with cubic weights.
//
// lineStrideIn/lineStrideOut advance between scan lines, elemStrideIn/Out
// advance along the resampled axis.
func resampleAxis(in, out []float32, lines, src, dst, depth, lineStrideIn, elemStrideIn, lineStrideOut, elemStrideOut int) {
	scale := float32(src) / float32(dst)

	for i := 0; i < dst; i++ {
		center := (float32(i)+0.5)*scale - 0.5
		base := int(math32.Floor(center))
		frac := center - float32(base)

		var weights [4]float32
		for k := 0; k < 4; k++ {
			weights[k] = cubicWeight(float32(k-1) - frac)
		}

		for line := 0; line < lines; line++ {
			for d := 0; d < depth; d++ {
				var acc float32
				for k := 0; k < 4; k++ {
					tap := base + k - 1
					if tap < 0 {
						tap = 0
					} else if tap >= src {
						tap = src - 1
					}
					acc += weights[k] * in[line*lineStrideIn+tap*elemStrideIn+d]
				}
				out[line*lineStrideOut+i*elemStrideOut+d] = acc
			}
		}
	}
}

// cubicWeight is the Keys cubic convolution kernel with a = -0.5.
func cubicWeight(d float32) float32 {
	const a = -0.5
	d = math32.Abs(d)
	switch {
	case d <= 1:
		return ((a+2)*d-(a+3))*d*d + 1
	case d < 2:
		return (((d-5)*d+8)*d - 4) * a
	default:
		return 0
	}
}
