package vit

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/Alkhaddour/tensorflow-image-models/ml"
	"github.com/Alkhaddour/tensorflow-image-models/model/imageproc"
)

// ImageProcessor prepares raw image bytes for a model: resize according to
// the configuration's crop fraction, center crop to the input size, and
// normalize with the statistics the pretrained weights expect. The model
// itself consumes already-normalized tensors; this is the standard
// preprocessing its catalog entry declares.
type ImageProcessor struct {
	inputSize [2]int
	cropPct   float32
	resize    int
	mean      [3]float32
	stdDev    [3]float32
}

func NewImageProcessor(cfg Config) ImageProcessor {
	resize := imageproc.ResizeBicubic
	if cfg.Interpolation == "bilinear" {
		resize = imageproc.ResizeBilinear
	}

	return ImageProcessor{
		inputSize: cfg.InputSize,
		cropPct:   cfg.CropPct,
		resize:    resize,
		mean:      cfg.Mean,
		stdDev:    cfg.Std,
	}
}

// ProcessImage decodes and preprocesses one image into a (1, h, w, 3)
// tensor ready for Model.Forward.
func (p ImageProcessor) ProcessImage(data []byte) (*ml.Tensor, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	// Scale the short side to inputSize/cropPct, preserving aspect ratio,
	// then take the central inputSize region.
	cropPct := p.cropPct
	if cropPct <= 0 || cropPct > 1 {
		cropPct = 1
	}
	scaleH := int(math.Round(float64(p.inputSize[0]) / float64(cropPct)))
	scaleW := int(math.Round(float64(p.inputSize[1]) / float64(cropPct)))

	bounds := img.Bounds()
	var target image.Point
	if bounds.Dx()*scaleH < bounds.Dy()*scaleW {
		target = image.Point{scaleW, (bounds.Dy()*scaleW + bounds.Dx() - 1) / bounds.Dx()}
	} else {
		target = image.Point{(bounds.Dx()*scaleH + bounds.Dy() - 1) / bounds.Dy(), scaleH}
	}

	out := imageproc.Composite(img)
	out = imageproc.Resize(out, target, p.resize)
	out = imageproc.CenterCrop(out, image.Point{p.inputSize[1], p.inputSize[0]})

	pixels := imageproc.Normalize(out, p.mean, p.stdDev)
	return ml.FromFloats(pixels, 1, p.inputSize[0], p.inputSize[1], 3), nil
}
