package nn

import "github.com/Alkhaddour/tensorflow-image-models/ml"

type LayerNorm struct {
	Weight *ml.Tensor
	Bias   *ml.Tensor
}

func NewLayerNorm(dim int) *LayerNorm {
	return &LayerNorm{Weight: ml.Zeros(dim), Bias: ml.Zeros(dim)}
}

func (m *LayerNorm) Forward(ctx ml.Context, t *ml.Tensor, eps float32) *ml.Tensor {
	return t.LayerNorm(ctx, m.Weight, m.Bias, eps)
}
