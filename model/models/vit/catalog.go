package vit

import (
	"sort"
	"sync"

	"github.com/Alkhaddour/tensorflow-image-models/model"
	"github.com/Alkhaddour/tensorflow-image-models/model/imageproc"
)

// base is the default ViT configuration; named variants override what they
// change. Most pretrained weights were produced with Inception-style
// normalization, the DeiT family with the standard ImageNet statistics.
func base(name string) Config {
	return Config{
		Name:          name,
		NumClasses:    1000,
		InChans:       3,
		InputSize:     [2]int{224, 224},
		PatchSize:     [2]int{16, 16},
		EmbedDim:      768,
		Depth:         12,
		NumHeads:      12,
		MLPRatio:      4,
		QKVBias:       true,
		NormLayer:     "layer_norm",
		ActLayer:      "gelu",
		CropPct:       0.875,
		Interpolation: "bicubic",
		Mean:          imageproc.ImageNetInceptionMean,
		Std:           imageproc.ImageNetInceptionSTD,
	}
}

type option func(*Config)

func dims(embedDim, depth, numHeads int) option {
	return func(c *Config) {
		c.EmbedDim = embedDim
		c.Depth = depth
		c.NumHeads = numHeads
	}
}

func patch(size int) option {
	return func(c *Config) { c.PatchSize = [2]int{size, size} }
}

func input(size int) option {
	return func(c *Config) {
		c.InputSize = [2]int{size, size}
		c.CropPct = 1.0
	}
}

func classes(n int) option {
	return func(c *Config) { c.NumClasses = n }
}

func representation(size int) option {
	return func(c *Config) { c.RepresentationSize = size }
}

func distilled(c *Config) {
	c.Distilled = true
}

func imagenetStats(c *Config) {
	c.Mean = imageproc.ImageNetDefaultMean
	c.Std = imageproc.ImageNetDefaultSTD
}

func variant(name string, opts ...option) Config {
	c := base(name)
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

var (
	tiny  = dims(192, 12, 3)
	small = dims(384, 12, 6)
	large = dims(1024, 24, 16)
)

// catalog lists every named configuration, mirroring the pretrained
// checkpoint collection: the original ViT sizes at 224 and 384, the
// ImageNet-21k variants, the SAM-pretrained bases and the DeiT family.
var catalog = []Config{
	variant("vit_tiny_patch16_224", tiny),
	variant("vit_tiny_patch16_384", tiny, input(384)),
	variant("vit_small_patch32_224", small, patch(32)),
	variant("vit_small_patch32_384", small, patch(32), input(384)),
	variant("vit_small_patch16_224", small),
	variant("vit_small_patch16_384", small, input(384)),
	variant("vit_base_patch32_224", patch(32)),
	variant("vit_base_patch32_384", patch(32), input(384)),
	variant("vit_base_patch16_224"),
	variant("vit_base_patch16_384", input(384)),
	variant("vit_large_patch32_224", large, patch(32)),
	variant("vit_large_patch32_384", large, patch(32), input(384)),
	variant("vit_large_patch16_224", large),
	variant("vit_large_patch16_384", large, input(384)),

	variant("vit_base_patch32_sam_224", patch(32)),
	variant("vit_base_patch16_sam_224"),

	variant("vit_tiny_patch16_224_in21k", tiny, classes(21843)),
	variant("vit_small_patch32_224_in21k", small, patch(32), classes(21843)),
	variant("vit_small_patch16_224_in21k", small, classes(21843)),
	variant("vit_base_patch32_224_in21k", patch(32), classes(21843)),
	variant("vit_base_patch16_224_in21k", classes(21843)),
	variant("vit_large_patch32_224_in21k", large, patch(32), classes(21843), representation(1024)),
	variant("vit_large_patch16_224_in21k", large, classes(21843)),
	variant("vit_huge_patch14_224_in21k", dims(1280, 32, 16), patch(14), classes(21843), representation(1280)),

	variant("deit_tiny_patch16_224", tiny, imagenetStats),
	variant("deit_small_patch16_224", small, imagenetStats),
	variant("deit_base_patch16_224", imagenetStats),
	variant("deit_base_patch16_384", input(384), imagenetStats),
	variant("deit_tiny_distilled_patch16_224", tiny, distilled, imagenetStats),
	variant("deit_small_distilled_patch16_224", small, distilled, imagenetStats),
	variant("deit_base_distilled_patch16_224", distilled, imagenetStats),
	variant("deit_base_distilled_patch16_384", input(384), distilled, imagenetStats),
}

var registerOnce sync.Once

// RegisterModels registers every catalog configuration with the model
// registry. It is safe to call more than once; callers invoke it explicitly
// at process start rather than relying on import side effects.
func RegisterModels() {
	registerOnce.Do(func() {
		for _, cfg := range catalog {
			cfg := cfg
			model.Register(cfg.Name, func() (model.Model, error) {
				return New(cfg)
			})
		}
	})
}

// Configs returns the catalog sorted by name.
func Configs() []Config {
	out := append([]Config(nil), catalog...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// CatalogConfig returns the named catalog configuration.
func CatalogConfig(name string) (Config, bool) {
	for _, cfg := range catalog {
		if cfg.Name == name {
			return cfg, true
		}
	}
	return Config{}, false
}
