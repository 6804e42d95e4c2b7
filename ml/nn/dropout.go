package nn

import "github.com/Alkhaddour/tensorflow-image-models/ml"

// Dropout zeroes elements with probability P during training, scaling the
// survivors by 1/(1-P) so the expected activation is unchanged (inverted
// dropout). Outside training mode it is the identity.
type Dropout struct {
	P float32
}

func (m *Dropout) Forward(ctx ml.Context, t *ml.Tensor) *ml.Tensor {
	if !ctx.Training() || m.P <= 0 {
		return t
	}

	rng := ctx.Rand()
	scale := 1 / (1 - m.P)

	data := t.Floats()
	for i, v := range data {
		if rng.Float32() < m.P {
			data[i] = 0
		} else {
			data[i] = v * scale
		}
	}
	return ml.FromFloats(data, t.Shape()...)
}
