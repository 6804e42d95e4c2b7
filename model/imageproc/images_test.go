package imageproc

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResize(t *testing.T) {
	cases := []struct {
		source image.Point
		target image.Point
		method int
	}{
		{image.Point{10, 10}, image.Point{5, 5}, ResizeBilinear},
		{image.Point{16, 8}, image.Point{32, 32}, ResizeBicubic},
		{image.Point{3, 7}, image.Point{7, 3}, ResizeNearestNeighbor},
	}

	for _, c := range cases {
		img := image.NewRGBA(image.Rect(0, 0, c.source.X, c.source.Y))
		got := Resize(img, c.target, c.method)
		assert.Equal(t, c.target.X, got.Bounds().Dx())
		assert.Equal(t, c.target.Y, got.Bounds().Dy())
	}
}

func TestCenterCrop(t *testing.T) {
	// 4x4 image, center 2x2 painted red.
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	red := color.RGBA{255, 0, 0, 255}
	for y := 1; y <= 2; y++ {
		for x := 1; x <= 2; x++ {
			img.Set(x, y, red)
		}
	}

	got := CenterCrop(img, image.Point{2, 2})
	require.Equal(t, 2, got.Bounds().Dx())
	require.Equal(t, 2, got.Bounds().Dy())
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			r, _, _, _ := got.At(x, y).RGBA()
			assert.Equal(t, uint32(255), r>>8, "pixel (%d,%d) not from center region", x, y)
		}
	}
}

func TestNormalize(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{255, 128, 0, 255})

	got := Normalize(img, ImageNetInceptionMean, ImageNetInceptionSTD)
	require.Len(t, got, 3)

	// (1.0-0.5)/0.5 = 1, (0.502-0.5)/0.5 ~ 0, (0.0-0.5)/0.5 = -1
	assert.InDelta(t, 1, got[0], 0.01)
	assert.InDelta(t, 0, got[1], 0.01)
	assert.InDelta(t, -1, got[2], 0.01)
}

func TestCompositeRemovesAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{0, 0, 0, 0})

	got := Composite(img)
	r, g, b, a := got.At(0, 0).RGBA()
	assert.Equal(t, uint32(255), r>>8)
	assert.Equal(t, uint32(255), g>>8)
	assert.Equal(t, uint32(255), b>>8)
	assert.Equal(t, uint32(255), a>>8)
}
