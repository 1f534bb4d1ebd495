package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/gg"
)

// drawGrid strokes vertical and horizontal lines every spacing units.
func drawGrid(dc *gg.Context, width, height, spacing int, gridColor color.Color) error {
	dc.SetColor(gridColor)
	dc.SetLineWidth(1)

	// Half-pixel offsets keep 1px lines crisp.
	for x := spacing; x < width; x += spacing {
		dc.DrawLine(float64(x)+0.5, 0, float64(x)+0.5, float64(height))
	}
	for y := spacing; y < height; y += spacing {
		dc.DrawLine(0, float64(y)+0.5, float64(width), float64(y)+0.5)
	}

	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("failed to draw grid: %w", err)
	}
	return nil
}

// labelGrid writes "x,y" at every grid intersection.
func labelGrid(img *image.RGBA, spacing int) {
	labelColor := color.RGBA{255, 255, 255, 255}
	bgColor := color.RGBA{0, 0, 0, 180}

	bounds := img.Bounds()
	for y := spacing; y < bounds.Dy(); y += spacing {
		for x := spacing; x < bounds.Dx(); x += spacing {
			label := fmt.Sprintf("%d,%d", x, y)
			drawLabel(img, x+2, y+2, label, labelColor, bgColor)
		}
	}
}

// digitGlyphs is a 3x5 pixel font for digits and the comma.
var digitGlyphs = map[rune][]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
	',': {"000", "000", "000", "010", "010"},
}

// drawLabel draws text with a filled background box at (x, y). Characters
// without a glyph are left blank.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	set := func(px, py int, c color.RGBA) {
		if image.Pt(px, py).In(bounds) {
			img.Set(px, py, c)
		}
	}

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			set(x+dx, y+dy, bg)
		}
	}

	cx := x
	for _, ch := range text {
		for row, line := range digitGlyphs[ch] {
			for col, pixel := range line {
				if pixel == '1' {
					set(cx+col, y+row, fg)
				}
			}
		}
		cx += charWidth
	}
}
