package imaging

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Default overlay colors.
var (
	defaultStrokeColor  = color.NRGBA{0, 0, 0, 255}
	defaultFitColor     = color.NRGBA{30, 144, 255, 255}
	defaultClusterColor = color.NRGBA{255, 0, 0, 128}
	defaultGridColor    = color.NRGBA{200, 200, 200, 255}
)

// palette is the resolved set of colors for one render.
type palette struct {
	stroke  color.Color
	fit     color.Color
	cluster color.Color
	grid    color.Color
}

// newPalette resolves the option colors. Empty or unparsable values fall
// back to the defaults.
func newPalette(opts RenderOptions) palette {
	return palette{
		stroke:  colorOrDefault(opts.StrokeColor, defaultStrokeColor),
		fit:     colorOrDefault(opts.FitColor, defaultFitColor),
		cluster: colorOrDefault(opts.ClusterColor, defaultClusterColor),
		grid:    defaultGridColor,
	}
}

func colorOrDefault(hex string, fallback color.NRGBA) color.NRGBA {
	if hex == "" {
		return fallback
	}
	c, err := ParseHexColor(hex)
	if err != nil {
		return fallback
	}
	return c
}

// ParseHexColor parses "#RGB", "#RRGGBB" or "#RRGGBBAA".
func ParseHexColor(hex string) (color.NRGBA, error) {
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}

	alpha := uint8(255)
	switch len(hex) {
	case 4, 7:
	case 9:
		a, err := strconv.ParseUint(hex[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid alpha in color %q: %w", hex, err)
		}
		alpha = uint8(a)
		hex = hex[:7]
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color length: %q", hex)
	}

	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

// pdfRGB converts a color to the 0-255 integer triple gofpdf expects.
func pdfRGB(c color.Color) (int, int, int) {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return int(n.R), int(n.G), int(n.B)
}
