// Package nn provides the layer primitives model architectures are composed
// of. Layers are plain structs of parameter tensors with a Forward method;
// parameters are allocated zero-initialized by the model constructor and
// populated by an external weight loader.
package nn

import "github.com/Alkhaddour/tensorflow-image-models/ml"

// Linear is a dense layer. Weight has shape (in, out) so the forward pass
// is x·W + b over the last dimension of x.
type Linear struct {
	Weight *ml.Tensor
	Bias   *ml.Tensor
}

// NewLinear allocates a zero-initialized dense layer. If bias is false the
// layer has no bias term.
func NewLinear(in, out int, bias bool) *Linear {
	m := &Linear{Weight: ml.Zeros(in, out)}
	if bias {
		m.Bias = ml.Zeros(out)
	}
	return m
}

func (m *Linear) Forward(ctx ml.Context, t *ml.Tensor) *ml.Tensor {
	t = t.Matmul(ctx, m.Weight)
	if m.Bias != nil {
		t = t.Add(ctx, m.Bias)
	}

	return t
}
