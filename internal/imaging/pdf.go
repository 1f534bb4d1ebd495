package imaging

import (
	"errors"
	"fmt"
	"math"

	"github.com/jung-kurt/gofpdf"

	"github.com/ironsheep/sketch-shapes-mcp/internal/detection"
)

// A4 portrait page layout in millimetres.
const (
	pageWidth  = 210.0
	pageHeight = 297.0
	pageMargin = 10.0
	titleSpace = 8.0
)

// PDFResult describes an exported sketch.
type PDFResult struct {
	Path    string  `json:"path"`
	Strokes int     `json:"strokes"`
	Scale   float64 `json:"scale_mm_per_unit"`
}

// ExportPDF writes the canvas to path as a one-page A4 PDF.
//
// The canvas is scaled uniformly to fit inside the page margins. Raw strokes
// are drawn in the stroke color with the fitted primitives and cluster boxes
// over them, using the same palette as RenderSketch.
func ExportPDF(path string, canvas Canvas, opts RenderOptions) (*PDFResult, error) {
	if path == "" {
		return nil, errors.New("output path is required")
	}
	if canvas.Width <= 0 || canvas.Height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %gx%g", canvas.Width, canvas.Height)
	}

	usableWidth := pageWidth - 2*pageMargin
	usableHeight := pageHeight - 2*pageMargin - titleSpace
	scale := math.Min(usableWidth/canvas.Width, usableHeight/canvas.Height)
	originX := pageMargin
	originY := pageMargin + titleSpace
	at := func(p detection.Point) (float64, float64) {
		return originX + p.X*scale, originY + p.Y*scale
	}

	colors := newPalette(opts)

	p := gofpdf.New("P", "mm", "A4", "")
	p.SetTitle("Sketch", true)
	p.AddPage()

	p.SetFont("Helvetica", "", 10)
	p.Text(pageMargin, pageMargin+4, fmt.Sprintf("Sketch: %d strokes, %d clusters",
		len(canvas.Strokes), len(canvas.Clusters)))

	p.SetDrawColor(0, 0, 0)
	p.SetLineWidth(0.2)
	p.Rect(originX, originY, canvas.Width*scale, canvas.Height*scale, "D")

	p.SetDrawColor(pdfRGB(colors.cluster))
	for _, c := range canvas.Clusters {
		x, y := at(detection.Pt(c.Origin.X-c.Radius, c.Origin.Y-c.Radius))
		p.Rect(x, y, 2*c.Radius*scale, 2*c.Radius*scale, "D")
	}

	p.SetDrawColor(pdfRGB(colors.stroke))
	p.SetLineWidth(0.5)
	for _, st := range canvas.Strokes {
		for i := 1; i < len(st.Points); i++ {
			x1, y1 := at(st.Points[i-1])
			x2, y2 := at(st.Points[i])
			p.Line(x1, y1, x2, y2)
		}
	}

	p.SetDrawColor(pdfRGB(colors.fit))
	p.SetLineWidth(0.3)
	p.SetDashPattern([]float64{2, 1}, 0)
	for _, st := range canvas.Strokes {
		switch st.Classification.Kind {
		case detection.CircleShape:
			c := st.Classification.Circle
			x, y := at(c.Center())
			p.Circle(x, y, c.Radius*scale, "D")
		case detection.LineShape:
			l := st.Classification.Line
			x1, y1 := at(l.Start)
			x2, y2 := at(l.End)
			p.Line(x1, y1, x2, y2)
		}
	}
	p.SetDashPattern([]float64{}, 0)

	if err := p.OutputFileAndClose(path); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}

	return &PDFResult{Path: path, Strokes: len(canvas.Strokes), Scale: scale}, nil
}
