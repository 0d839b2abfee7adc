// Package render turns a mesh scene and a camera into a colour raster, either
// by rasterizing projected triangles or by ray tracing.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/taigrr/meshview/pkg/models"
)

// Display is the requested output size in pixels.
type Display struct {
	Width  int
	Height int
}

// Validate rejects non-positive sizes.
func (d Display) Validate() error {
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDisplay, d.Width, d.Height)
	}
	return nil
}

// Aspect returns width / height.
func (d Display) Aspect() float64 {
	return float64(d.Width) / float64(d.Height)
}

// Raster is a height x width x 3 array of 8-bit channels, row-major with
// the origin at the top-left.
type Raster struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewRaster allocates a black raster for the display.
func NewRaster(d Display) *Raster {
	return &Raster{
		Width:  d.Width,
		Height: d.Height,
		Pix:    make([]uint8, d.Width*d.Height*3),
	}
}

// Empty reports whether the raster has no pixels.
func (r *Raster) Empty() bool {
	return r.Width == 0 || r.Height == 0
}

// Fill sets every pixel to c.
func (r *Raster) Fill(c models.RGB) {
	for i := 0; i < len(r.Pix); i += 3 {
		r.Pix[i], r.Pix[i+1], r.Pix[i+2] = c[0], c[1], c[2]
	}
}

// Set sets the pixel at column x, row y. Out of range writes are dropped.
func (r *Raster) Set(x, y int, c models.RGB) {
	if x < 0 || x >= r.Width || y < 0 || y >= r.Height {
		return
	}
	i := (y*r.Width + x) * 3
	r.Pix[i], r.Pix[i+1], r.Pix[i+2] = c[0], c[1], c[2]
}

// At returns the pixel at column x, row y, or black if out of range.
func (r *Raster) At(x, y int) models.RGB {
	if x < 0 || x >= r.Width || y < 0 || y >= r.Height {
		return models.RGB{}
	}
	i := (y*r.Width + x) * 3
	return models.RGB{r.Pix[i], r.Pix[i+1], r.Pix[i+2]}
}

// ToImage converts the raster to a standard Go image.RGBA.
func (r *Raster) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			c := r.At(x, y)
			img.SetRGBA(x, y, color.RGBA{c[0], c[1], c[2], 255})
		}
	}
	return img
}

// SavePNG saves the raster as a PNG file.
func (r *Raster) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, r.ToImage())
}
