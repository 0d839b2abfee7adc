package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/meshview/pkg/models"
)

// TerminalDisplay returns the raster size that fills a terminal area of
// cols x rows cells. Each cell shows two vertically stacked pixels.
func TerminalDisplay(cols, rows int) Display {
	return Display{Width: cols, Height: rows * 2}
}

// Draw paints the raster onto the screen area using upper half blocks:
// the foreground is the top pixel and the background the bottom one.
// The raster height should be 2x the area height.
func (r *Raster) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= r.Width {
				break
			}
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbColor(r.At(x, topY)),
					Bg: rgbColor(r.At(x, botY)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

func rgbColor(c models.RGB) color.Color {
	return color.RGBA{c[0], c[1], c[2], 255}
}
