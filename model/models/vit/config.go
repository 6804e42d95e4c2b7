package vit

import (
	"errors"
	"fmt"
)

var ErrInvalidConfig = errors.New("vit: invalid config")

// Config holds the architecture hyperparameters of one ViT variant plus the
// preprocessing metadata its pretrained weights were produced with. A Config
// is a value; models keep their own copy and never mutate it.
type Config struct {
	Name       string
	NumClasses int
	InChans    int
	InputSize  [2]int // (height, width)
	PatchSize  [2]int // (height, width)
	EmbedDim   int
	Depth      int
	NumHeads   int
	MLPRatio   float32
	QKVBias    bool

	// RepresentationSize enables a pre-logits layer (dense + tanh) of this
	// width on top of the class token. Mutually exclusive with Distilled.
	RepresentationSize int

	// Distilled adds a DeiT-style distillation token and a second
	// classification head.
	Distilled bool

	DropRate     float32
	AttnDropRate float32
	NormLayer    string
	ActLayer     string

	// Inference-time preprocessing metadata.
	CropPct       float32
	Interpolation string
	Mean          [3]float32
	Std           [3]float32
}

// NumPrefixTokens is the number of special tokens prepended to the patch
// sequence: the class token, plus the distillation token if present.
func (c Config) NumPrefixTokens() int {
	if c.Distilled {
		return 2
	}
	return 1
}

// GridSize is the patch grid at the training resolution.
func (c Config) GridSize() [2]int {
	return [2]int{
		c.InputSize[0] / c.PatchSize[0],
		c.InputSize[1] / c.PatchSize[1],
	}
}

// NumPatches is the sequence length contributed by image patches at the
// training resolution.
func (c Config) NumPatches() int {
	grid := c.GridSize()
	return grid[0] * grid[1]
}

// ParamCount is the total trainable parameter count, computed from the
// hyperparameters without allocating the model. It matches
// Model.NumParameters.
func (c Config) ParamCount() int {
	d := c.EmbedDim
	hidden := int(float32(d) * c.MLPRatio)

	block := 3*d*d + d*d + d + 2*(d+d) + d*hidden + hidden + hidden*d + d
	if c.QKVBias {
		block += 3 * d
	}

	n := c.Depth * block
	n += c.PatchSize[0]*c.PatchSize[1]*c.InChans*d + d
	n += d // class token
	if c.Distilled {
		n += d
	}
	n += (c.NumPatches() + c.NumPrefixTokens()) * d
	n += 2 * d // final norm

	headIn := d
	if c.RepresentationSize > 0 {
		n += d*c.RepresentationSize + c.RepresentationSize
		headIn = c.RepresentationSize
	}
	if c.NumClasses > 0 {
		n += headIn*c.NumClasses + c.NumClasses
		if c.Distilled {
			n += d*c.NumClasses + c.NumClasses
		}
	}

	return n
}

// Validate reports the first invalid hyperparameter combination. Every
// violation wraps ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.EmbedDim <= 0 || c.Depth <= 0 || c.NumHeads <= 0:
		return fmt.Errorf("%w: embed dim, depth and heads must be positive", ErrInvalidConfig)
	case c.InChans <= 0:
		return fmt.Errorf("%w: input channels must be positive", ErrInvalidConfig)
	case c.NumClasses < 0:
		return fmt.Errorf("%w: negative class count", ErrInvalidConfig)
	case c.MLPRatio <= 0:
		return fmt.Errorf("%w: mlp ratio must be positive", ErrInvalidConfig)
	case c.InputSize[0] <= 0 || c.InputSize[1] <= 0 || c.PatchSize[0] <= 0 || c.PatchSize[1] <= 0:
		return fmt.Errorf("%w: input and patch sizes must be positive", ErrInvalidConfig)
	}

	if c.EmbedDim%c.NumHeads != 0 {
		return fmt.Errorf("%w: embed dim %d not divisible by %d heads", ErrInvalidConfig, c.EmbedDim, c.NumHeads)
	}
	if c.InputSize[0]%c.PatchSize[0] != 0 || c.InputSize[1]%c.PatchSize[1] != 0 {
		return fmt.Errorf("%w: input size %dx%d not divisible by patch size %dx%d",
			ErrInvalidConfig, c.InputSize[0], c.InputSize[1], c.PatchSize[0], c.PatchSize[1])
	}
	if c.RepresentationSize > 0 && c.Distilled {
		return fmt.Errorf("%w: cannot combine distillation token and a representation layer", ErrInvalidConfig)
	}

	if c.NormLayer != "layer_norm" {
		return fmt.Errorf("%w: unknown norm layer %q", ErrInvalidConfig, c.NormLayer)
	}
	switch c.ActLayer {
	case "gelu", "relu":
	default:
		return fmt.Errorf("%w: unknown activation %q", ErrInvalidConfig, c.ActLayer)
	}

	return nil
}
