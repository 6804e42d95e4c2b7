package vit

import (
	"log/slog"

	"github.com/Alkhaddour/tensorflow-image-models/ml"
	"github.com/Alkhaddour/tensorflow-image-models/ml/nn"
)

// PatchEmbedding projects non-overlapping image patches to embedding
// vectors with a strided convolution whose kernel and stride both equal the
// patch size, then flattens the patch grid to a sequence in row-major
// order.
type PatchEmbedding struct {
	Proj *nn.Conv2D

	patchSize [2]int
	embedDim  int
}

func newPatchEmbedding(cfg *Config) *PatchEmbedding {
	return &PatchEmbedding{
		Proj:      nn.NewConv2D(cfg.PatchSize[0], cfg.PatchSize[1], cfg.InChans, cfg.EmbedDim),
		patchSize: cfg.PatchSize,
		embedDim:  cfg.EmbedDim,
	}
}

// Forward maps (batch, height, width, channels) to (batch, patches, dim).
// The input dimensions must be multiples of the patch size; Model.Forward
// validates this before calling.
func (e *PatchEmbedding) Forward(ctx ml.Context, pixels *ml.Tensor) *ml.Tensor {
	batch := pixels.Dim(0)
	patches := (pixels.Dim(1) / e.patchSize[0]) * (pixels.Dim(2) / e.patchSize[1])

	emb := e.Proj.Forward(ctx, pixels, e.patchSize[0], e.patchSize[1])
	return emb.Reshape(batch, patches, e.embedDim)
}

// interpolatePosEmbed returns position embeddings sized for an input of
// height x width pixels. At the training resolution this is the stored
// table itself, untouched. Otherwise the patch-position entries are
// reshaped to the training grid, resampled bicubically to the target grid,
// and re-concatenated behind the unmodified prefix-token entries, letting
// one set of trained weights serve other resolutions.
func (m *Model) interpolatePosEmbed(ctx ml.Context, height, width int) *ml.Tensor {
	cfg := m.cfg
	if height == cfg.InputSize[0] && width == cfg.InputSize[1] {
		return m.PosEmbed
	}

	grid := cfg.GridSize()
	tgtH := height / cfg.PatchSize[0]
	tgtW := width / cfg.PatchSize[1]

	// Quality degrades as the resolution ratio grows; large ratios are
	// allowed but worth flagging.
	if 2*grid[0] <= tgtH || 2*tgtH <= grid[0] || 2*grid[1] <= tgtW || 2*tgtW <= grid[1] {
		slog.Warn("interpolating position embeddings far from the training grid",
			"model", cfg.Name,
			"trained", grid,
			"requested", []int{tgtH, tgtW})
	}

	prefix := m.PosEmbed.Narrow(1, 0, cfg.NumPrefixTokens())
	patchPos := m.PosEmbed.Narrow(1, cfg.NumPrefixTokens(), cfg.NumPatches())

	patchPos = patchPos.Reshape(grid[0], grid[1], cfg.EmbedDim)
	patchPos = patchPos.ResizeBicubic(ctx, tgtH, tgtW)
	patchPos = patchPos.Reshape(1, tgtH*tgtW, cfg.EmbedDim)

	return prefix.Concat(ctx, patchPos, 1)
}
