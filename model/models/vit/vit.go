// Package vit implements the Vision Transformer architecture: patch
// embedding, a stack of pre-norm transformer encoder layers, and one or two
// classification heads, together with the catalog of named pretrained
// configurations (ViT-Tiny through ViT-Huge and the DeiT variants).
package vit

import (
	"errors"
	"fmt"
	"math"

	"github.com/Alkhaddour/tensorflow-image-models/ml"
	"github.com/Alkhaddour/tensorflow-image-models/ml/nn"
)

var ErrInvalidShape = errors.New("vit: invalid input shape")

const layerNormEps = 1e-6

type SelfAttention struct {
	QKV      *nn.Linear
	Proj     *nn.Linear
	AttnDrop *nn.Dropout
	ProjDrop *nn.Dropout
}

func newSelfAttention(cfg *Config) *SelfAttention {
	return &SelfAttention{
		QKV:      nn.NewLinear(cfg.EmbedDim, 3*cfg.EmbedDim, cfg.QKVBias),
		Proj:     nn.NewLinear(cfg.EmbedDim, cfg.EmbedDim, true),
		AttnDrop: &nn.Dropout{P: cfg.AttnDropRate},
		ProjDrop: &nn.Dropout{P: cfg.DropRate},
	}
}

func (sa *SelfAttention) Forward(ctx ml.Context, hiddenState *ml.Tensor, cfg *Config) *ml.Tensor {
	batch, seqLen := hiddenState.Dim(0), hiddenState.Dim(1)
	headDim := cfg.EmbedDim / cfg.NumHeads

	qkv := sa.QKV.Forward(ctx, hiddenState)
	query := qkv.Narrow(2, 0, cfg.EmbedDim)
	key := qkv.Narrow(2, cfg.EmbedDim, cfg.EmbedDim)
	value := qkv.Narrow(2, 2*cfg.EmbedDim, cfg.EmbedDim)

	// (batch, seq, dim) -> (batch, heads, seq, headDim)
	query = query.Reshape(batch, seqLen, cfg.NumHeads, headDim).Transpose(ctx, 1, 2)
	key = key.Reshape(batch, seqLen, cfg.NumHeads, headDim).Transpose(ctx, 1, 2)
	value = value.Reshape(batch, seqLen, cfg.NumHeads, headDim).Transpose(ctx, 1, 2)

	scores := query.Matmul(ctx, key.Transpose(ctx, 2, 3))
	scores = scores.Scale(ctx, 1/float32(math.Sqrt(float64(headDim))))
	attn := scores.Softmax(ctx)
	attn = sa.AttnDrop.Forward(ctx, attn)

	out := attn.Matmul(ctx, value)
	out = out.Transpose(ctx, 1, 2).Reshape(batch, seqLen, cfg.EmbedDim)

	out = sa.Proj.Forward(ctx, out)
	return sa.ProjDrop.Forward(ctx, out)
}

type MLP struct {
	FC1   *nn.Linear
	FC2   *nn.Linear
	Drop1 *nn.Dropout
	Drop2 *nn.Dropout
}

func newMLP(cfg *Config) *MLP {
	hidden := int(float32(cfg.EmbedDim) * cfg.MLPRatio)
	return &MLP{
		FC1:   nn.NewLinear(cfg.EmbedDim, hidden, true),
		FC2:   nn.NewLinear(hidden, cfg.EmbedDim, true),
		Drop1: &nn.Dropout{P: cfg.DropRate},
		Drop2: &nn.Dropout{P: cfg.DropRate},
	}
}

func (mlp *MLP) Forward(ctx ml.Context, hiddenState *ml.Tensor, cfg *Config) *ml.Tensor {
	hiddenState = mlp.FC1.Forward(ctx, hiddenState)
	switch cfg.ActLayer {
	case "relu":
		hiddenState = hiddenState.ReLU(ctx)
	default:
		hiddenState = hiddenState.GELU(ctx)
	}
	hiddenState = mlp.Drop1.Forward(ctx, hiddenState)
	hiddenState = mlp.FC2.Forward(ctx, hiddenState)
	return mlp.Drop2.Forward(ctx, hiddenState)
}

// EncoderLayer is one pre-norm transformer block. Normalization runs before
// each sub-layer and the residual adds the un-normalized input; post-norm
// variants are a different architecture. There is no stochastic depth.
type EncoderLayer struct {
	Norm1 *nn.LayerNorm
	Attn  *SelfAttention
	Norm2 *nn.LayerNorm
	MLP   *MLP
}

func newEncoderLayer(cfg *Config) *EncoderLayer {
	return &EncoderLayer{
		Norm1: nn.NewLayerNorm(cfg.EmbedDim),
		Attn:  newSelfAttention(cfg),
		Norm2: nn.NewLayerNorm(cfg.EmbedDim),
		MLP:   newMLP(cfg),
	}
}

func (e *EncoderLayer) Forward(ctx ml.Context, hiddenState *ml.Tensor, cfg *Config) *ml.Tensor {
	residual := hiddenState
	hiddenState = e.Norm1.Forward(ctx, hiddenState, layerNormEps)
	hiddenState = e.Attn.Forward(ctx, hiddenState, cfg)
	hiddenState = hiddenState.Add(ctx, residual)

	residual = hiddenState
	hiddenState = e.Norm2.Forward(ctx, hiddenState, layerNormEps)
	hiddenState = e.MLP.Forward(ctx, hiddenState, cfg)
	return hiddenState.Add(ctx, residual)
}

// Model is a Vision Transformer with zero-initialized parameters. Parameters
// are populated by an external weight loader through Parameters and are
// treated as read-only during Forward.
type Model struct {
	cfg Config

	PatchEmbed *PatchEmbedding
	ClsToken   *ml.Tensor // (1, 1, dim)
	DistToken  *ml.Tensor // (1, 1, dim), nil unless distilled
	PosEmbed   *ml.Tensor // (1, patches+prefix, dim)
	PosDrop    *nn.Dropout

	Layers []*EncoderLayer
	Norm   *nn.LayerNorm

	PreLogits *nn.Linear // nil unless a representation size is configured
	Head      *nn.Linear // nil when NumClasses == 0
	HeadDist  *nn.Linear // nil unless distilled with classes
}

// New validates cfg and allocates a model with all parameters zero.
func New(cfg Config) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Model{
		cfg:        cfg,
		PatchEmbed: newPatchEmbedding(&cfg),
		ClsToken:   ml.Zeros(1, 1, cfg.EmbedDim),
		PosEmbed:   ml.Zeros(1, cfg.NumPatches()+cfg.NumPrefixTokens(), cfg.EmbedDim),
		PosDrop:    &nn.Dropout{P: cfg.DropRate},
		Layers:     make([]*EncoderLayer, cfg.Depth),
		Norm:       nn.NewLayerNorm(cfg.EmbedDim),
	}
	for i := range m.Layers {
		m.Layers[i] = newEncoderLayer(&cfg)
	}

	if cfg.Distilled {
		m.DistToken = ml.Zeros(1, 1, cfg.EmbedDim)
	}
	if cfg.RepresentationSize > 0 {
		m.PreLogits = nn.NewLinear(cfg.EmbedDim, cfg.RepresentationSize, true)
	}
	if cfg.NumClasses > 0 {
		in := cfg.EmbedDim
		if cfg.RepresentationSize > 0 {
			in = cfg.RepresentationSize
		}
		m.Head = nn.NewLinear(in, cfg.NumClasses, true)
		if cfg.Distilled {
			m.HeadDist = nn.NewLinear(cfg.EmbedDim, cfg.NumClasses, true)
		}
	}

	return m, nil
}

// Config returns the model's configuration.
func (m *Model) Config() Config { return m.cfg }

func (m *Model) checkInput(pixels *ml.Tensor) error {
	if pixels.Rank() != 4 {
		return fmt.Errorf("%w: expected (batch, height, width, channels), got rank %d", ErrInvalidShape, pixels.Rank())
	}

	h, w, c := pixels.Dim(1), pixels.Dim(2), pixels.Dim(3)
	if c != m.cfg.InChans {
		return fmt.Errorf("%w: %d channels, model expects %d", ErrInvalidShape, c, m.cfg.InChans)
	}
	if h%m.cfg.PatchSize[0] != 0 || w%m.cfg.PatchSize[1] != 0 {
		return fmt.Errorf("%w: image size %dx%d not divisible by patch size %dx%d",
			ErrInvalidShape, h, w, m.cfg.PatchSize[0], m.cfg.PatchSize[1])
	}
	return nil
}

// ForwardFeatures computes the pooled representation before the
// classification head(s): the class-token embedding, the pre-logits output
// for models with a representation layer, or the class and distillation
// token pair, shape (batch, 2, dim), for distilled models.
func (m *Model) ForwardFeatures(ctx ml.Context, pixels *ml.Tensor) (*ml.Tensor, error) {
	if err := m.checkInput(pixels); err != nil {
		return nil, err
	}

	batch, height, width := pixels.Dim(0), pixels.Dim(1), pixels.Dim(2)

	hiddenState := m.PatchEmbed.Forward(ctx, pixels)

	// Token order is significant: class token first, then the distillation
	// token if present, then the patches in row-major grid order.
	tokens := m.ClsToken.Repeat(ctx, 0, batch)
	if m.cfg.Distilled {
		tokens = tokens.Concat(ctx, m.DistToken.Repeat(ctx, 0, batch), 1)
	}
	hiddenState = tokens.Concat(ctx, hiddenState, 1)

	hiddenState = hiddenState.Add(ctx, m.interpolatePosEmbed(ctx, height, width))
	hiddenState = m.PosDrop.Forward(ctx, hiddenState)

	for _, layer := range m.Layers {
		hiddenState = layer.Forward(ctx, hiddenState, &m.cfg)
	}
	hiddenState = m.Norm.Forward(ctx, hiddenState, layerNormEps)

	if m.cfg.Distilled {
		return hiddenState.Narrow(1, 0, 2), nil
	}

	clsState := hiddenState.Narrow(1, 0, 1).Reshape(batch, m.cfg.EmbedDim)
	if m.PreLogits != nil {
		return m.PreLogits.Forward(ctx, clsState).Tanh(ctx), nil
	}
	return clsState, nil
}

// Forward computes class logits for a batch of preprocessed images of shape
// (batch, height, width, channels). Non-distilled models return
// (batch, classes); distilled models return both heads stacked as
// (batch, 2, classes) so every model has a single output. With
// NumClasses == 0 the pooled features are returned unchanged.
func (m *Model) Forward(ctx ml.Context, pixels *ml.Tensor) (*ml.Tensor, error) {
	features, err := m.ForwardFeatures(ctx, pixels)
	if err != nil {
		return nil, err
	}
	if m.Head == nil {
		return features, nil
	}

	batch := features.Dim(0)
	if !m.cfg.Distilled {
		return m.Head.Forward(ctx, features), nil
	}

	clsState := features.Narrow(1, 0, 1).Reshape(batch, m.cfg.EmbedDim)
	distState := features.Narrow(1, 1, 1).Reshape(batch, m.cfg.EmbedDim)

	logits := m.Head.Forward(ctx, clsState).Reshape(batch, 1, m.cfg.NumClasses)
	distLogits := m.HeadDist.Forward(ctx, distState).Reshape(batch, 1, m.cfg.NumClasses)
	return logits.Concat(ctx, distLogits, 1), nil
}
