package classifier

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/webp"
)

// Normalization holds per-channel RGB mean and standard deviation in 0-255
// pixel units.
type Normalization struct {
	Mean [3]float32
	Std  [3]float32
}

// DefaultMaxPixels is the decoded size limit applied when none is configured.
const DefaultMaxPixels = 40_000_000

// Decode reads a JPEG, PNG or WebP image. The header is checked before any
// pixel data is decoded; images larger than maxPixels are rejected.
func Decode(r io.Reader, maxPixels int) (image.Image, string, error) {
	var head bytes.Buffer
	cfg, _, err := image.DecodeConfig(io.TeeReader(r, &head))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, "", fmt.Errorf("%w: empty image", ErrInvalidImage)
	}
	if maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, "", fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrInvalidImage, cfg.Width, cfg.Height, maxPixels)
	}

	img, format, err := image.Decode(io.MultiReader(&head, r))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, "", fmt.Errorf("%w: empty image", ErrInvalidImage)
	}
	return img, format, nil
}

// Placement is where a letterboxed image lands inside the square canvas.
type Placement struct {
	X, Y          int
	Width, Height int
}

// Fit computes the letterbox placement of a w×h source in a size×size
// canvas: uniform scale, rounded extent, centered with floor offsets.
func Fit(w, h, size int) Placement {
	scale := math.Min(float64(size)/float64(w), float64(size)/float64(h))
	dw := int(math.Round(float64(w) * scale))
	dh := int(math.Round(float64(h) * scale))
	dw = max(1, min(dw, size))
	dh = max(1, min(dh, size))
	return Placement{
		X:      (size - dw) / 2,
		Y:      (size - dh) / 2,
		Width:  dw,
		Height: dh,
	}
}

// Letterbox resizes img into a size×size square and standardizes it into a
// (1,size,size,3) RGB tensor in row-major order. Padding corresponds to the
// channel mean and is therefore exactly zero.
func Letterbox(img image.Image, size int, norm Normalization) []float32 {
	b := img.Bounds()
	p := Fit(b.Dx(), b.Dy(), size)

	resized := resize.Resize(uint(p.Width), uint(p.Height), img, resize.Lanczos3)
	rb := resized.Bounds()

	out := make([]float32, size*size*3)
	for y := 0; y < p.Height; y++ {
		row := (p.Y + y) * size
		for x := 0; x < p.Width; x++ {
			r, g, bl, _ := resized.At(rb.Min.X+x, rb.Min.Y+y).RGBA()
			i := (row + p.X + x) * 3
			out[i] = (float32(r>>8) - norm.Mean[0]) / norm.Std[0]
			out[i+1] = (float32(g>>8) - norm.Mean[1]) / norm.Std[1]
			out[i+2] = (float32(bl>>8) - norm.Mean[2]) / norm.Std[2]
		}
	}
	return out
}
