package nn

import "github.com/Alkhaddour/tensorflow-image-models/ml"

// Conv2D is a 2D convolution over NHWC input. Weight has shape
// (kh, kw, in, out).
type Conv2D struct {
	Weight *ml.Tensor
	Bias   *ml.Tensor
}

func NewConv2D(kh, kw, in, out int) *Conv2D {
	return &Conv2D{Weight: ml.Zeros(kh, kw, in, out), Bias: ml.Zeros(out)}
}

func (m *Conv2D) Forward(ctx ml.Context, t *ml.Tensor, sh, sw int) *ml.Tensor {
	t = m.Weight.Conv2D(ctx, t, sh, sw)
	if m.Bias != nil {
		t = t.Add(ctx, m.Bias)
	}
	return t
}
