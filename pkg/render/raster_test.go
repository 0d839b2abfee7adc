package render

import (
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/taigrr/meshview/pkg/models"
)

func TestDisplayValidate(t *testing.T) {
	if err := (Display{Width: 1, Height: 1}).Validate(); err != nil {
		t.Errorf("1x1 display rejected: %v", err)
	}
	for _, d := range []Display{{}, {Width: 3}, {Height: 3}, {Width: -2, Height: 2}} {
		if err := d.Validate(); !errors.Is(err, ErrInvalidDisplay) {
			t.Errorf("%v.Validate() = %v, want ErrInvalidDisplay", d, err)
		}
	}
}

func TestRasterSetAt(t *testing.T) {
	r := NewRaster(Display{Width: 4, Height: 3})
	if len(r.Pix) != 4*3*3 {
		t.Fatalf("len(Pix) = %d", len(r.Pix))
	}

	c := models.RGB{10, 20, 30}
	r.Set(3, 2, c)
	if r.At(3, 2) != c {
		t.Errorf("At(3, 2) = %v", r.At(3, 2))
	}
	// Row-major, three channels per pixel.
	if i := (2*4 + 3) * 3; r.Pix[i] != 10 || r.Pix[i+1] != 20 || r.Pix[i+2] != 30 {
		t.Errorf("pixel stored at wrong offset")
	}

	// Out of range writes are dropped.
	r.Set(4, 0, c)
	r.Set(-1, 0, c)
	r.Set(0, 3, c)
	if r.At(4, 0) != (models.RGB{}) || r.At(0, 0) != (models.RGB{}) {
		t.Error("out of range write landed")
	}
}

func TestRasterFill(t *testing.T) {
	r := NewRaster(Display{Width: 2, Height: 2})
	r.Fill(models.RGB{7, 8, 9})
	for y := range 2 {
		for x := range 2 {
			if r.At(x, y) != (models.RGB{7, 8, 9}) {
				t.Errorf("At(%d, %d) = %v", x, y, r.At(x, y))
			}
		}
	}
}

func TestRasterSavePNG(t *testing.T) {
	r := NewRaster(Display{Width: 3, Height: 2})
	r.Set(2, 1, models.RGB{255, 128, 0})

	path := filepath.Join(t.TempDir(), "out.png")
	if err := r.SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Fatalf("image bounds = %v", b)
	}
	cr, cg, cb, ca := img.At(2, 1).RGBA()
	if cr>>8 != 255 || cg>>8 != 128 || cb>>8 != 0 || ca>>8 != 255 {
		t.Errorf("pixel = %d %d %d %d", cr>>8, cg>>8, cb>>8, ca>>8)
	}
}

func TestTerminalDisplay(t *testing.T) {
	if d := TerminalDisplay(80, 24); d != (Display{Width: 80, Height: 48}) {
		t.Errorf("TerminalDisplay(80, 24) = %+v", d)
	}
}
