// Package imageproc provides the image preprocessing helpers shared by
// model input pipelines: compositing, resizing, center cropping and
// mean/std normalization.
package imageproc

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

var (
	ImageNetDefaultMean   = [3]float32{0.485, 0.456, 0.406}
	ImageNetDefaultSTD    = [3]float32{0.229, 0.224, 0.225}
	ImageNetInceptionMean = [3]float32{0.5, 0.5, 0.5}
	ImageNetInceptionSTD  = [3]float32{0.5, 0.5, 0.5}
)

const (
	ResizeBilinear = iota
	ResizeNearestNeighbor
	ResizeApproxBilinear
	ResizeBicubic
)

// Composite returns an image with the alpha channel removed by drawing over a white background.
func Composite(img image.Image) image.Image {
	white := color.RGBA{255, 255, 255, 255}

	dst := image.NewRGBA(img.Bounds())
	draw.Draw(dst, dst.Bounds(), &image.Uniform{white}, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Over)
	return dst
}

// Resize returns an image which has been scaled to a new size.
func Resize(img image.Image, newSize image.Point, method int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, newSize.X, newSize.Y))

	kernels := map[int]draw.Interpolator{
		ResizeBilinear:        draw.BiLinear,
		ResizeNearestNeighbor: draw.NearestNeighbor,
		ResizeApproxBilinear:  draw.ApproxBiLinear,
		ResizeBicubic:         draw.CatmullRom,
	}

	kernel, ok := kernels[method]
	if !ok {
		panic("no resizing method found")
	}

	kernel.Scale(dst, dst.Rect, img, img.Bounds(), draw.Over, nil)

	return dst
}

// CenterCrop returns the central newSize region of an image. The image must
// be at least newSize in both dimensions.
func CenterCrop(img image.Image, newSize image.Point) image.Image {
	bounds := img.Bounds()
	x0 := bounds.Min.X + (bounds.Dx()-newSize.X)/2
	y0 := bounds.Min.Y + (bounds.Dy()-newSize.Y)/2

	dst := image.NewRGBA(image.Rect(0, 0, newSize.X, newSize.Y))
	draw.Draw(dst, dst.Bounds(), img, image.Point{x0, y0}, draw.Src)
	return dst
}

// Normalize returns the image's pixels as float32 values in HWC order,
// rescaled to [0, 1] and normalized around the per-channel mean and std.
func Normalize(img image.Image, mean, std [3]float32) []float32 {
	bounds := img.Bounds()
	pixelVals := make([]float32, 0, bounds.Dx()*bounds.Dy()*3)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.At(x, y)
			r, g, b, _ := c.RGBA()
			rVal := float32(r>>8) / 255.0
			gVal := float32(g>>8) / 255.0
			bVal := float32(b>>8) / 255.0

			pixelVals = append(pixelVals,
				(rVal-mean[0])/std[0],
				(gVal-mean[1])/std[1],
				(bVal-mean[2])/std[2],
			)
		}
	}

	return pixelVals
}
