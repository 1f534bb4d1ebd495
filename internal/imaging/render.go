package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"math"

	"github.com/disintegration/imaging"
	"github.com/gogpu/gg"

	"github.com/ironsheep/sketch-shapes-mcp/internal/detection"
	"github.com/ironsheep/sketch-shapes-mcp/internal/sketch"
)

// Canvas is a snapshot of everything drawn in a sketch session.
type Canvas struct {
	Width  float64
	Height float64

	// Strokes are the completed strokes in drawing order.
	Strokes []sketch.Stroke

	// Clusters are the endpoint neighborhoods still accumulating.
	Clusters []detection.Cluster

	// Path is the stroke currently being drawn, if any.
	Path []detection.Point
}

// CanvasFromSession captures the drawable state of a session.
func CanvasFromSession(s *sketch.Session) Canvas {
	viewport := s.Options().Viewport
	return Canvas{
		Width:    viewport.Width,
		Height:   viewport.Height,
		Strokes:  s.History(),
		Clusters: s.Clusters(),
		Path:     s.Path(),
	}
}

// RenderOptions controls how a canvas is drawn. Zero values select defaults.
type RenderOptions struct {
	// Scale resizes the output image. Default 1.0.
	Scale float64

	// Region crops the canvas before scaling. nil renders everything.
	Region *Region

	StrokeColor  string // raw stroke samples, default black
	FitColor     string // fitted circles and lines, default blue
	ClusterColor string // cluster boxes, default translucent red

	// ShowGrid draws a labelled coordinate grid every GridSpacing units.
	ShowGrid    bool
	GridSpacing int
}

// Default render settings.
const (
	DefaultGridSpacing = 50

	strokeWidth  = 2.0
	fitWidth     = 1.5
	clusterWidth = 1.0
)

// RenderResult contains the rendered canvas as a PNG.
type RenderResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	Strokes     int    `json:"strokes"`
	Clusters    int    `json:"clusters"`
}

// RenderSketch draws the canvas and returns it as a base64 PNG.
//
// Layers are painted bottom to top: the optional grid, the cluster boxes,
// the raw stroke samples, then the fitted primitive of every recognized
// stroke as a dashed outline. Strokes that were not recognized are drawn
// raw only.
func RenderSketch(canvas Canvas, opts RenderOptions) (*RenderResult, error) {
	width := int(math.Ceil(canvas.Width))
	height := int(math.Ceil(canvas.Height))
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", width, height)
	}
	if opts.Scale == 0 {
		opts.Scale = 1.0
	}
	if opts.Scale < 0 {
		return nil, fmt.Errorf("invalid scale %g", opts.Scale)
	}
	if opts.GridSpacing <= 0 {
		opts.GridSpacing = DefaultGridSpacing
	}

	palette := newPalette(opts)

	dc := gg.NewContext(width, height)
	defer dc.Close()
	dc.ClearWithColor(gg.RGB(1, 1, 1))

	if opts.ShowGrid {
		if err := drawGrid(dc, width, height, opts.GridSpacing, palette.grid); err != nil {
			return nil, err
		}
	}

	dc.SetColor(palette.cluster)
	dc.SetLineWidth(clusterWidth)
	for _, c := range canvas.Clusters {
		dc.DrawRectangle(c.Origin.X-c.Radius, c.Origin.Y-c.Radius, 2*c.Radius, 2*c.Radius)
	}
	if err := dc.Stroke(); err != nil {
		return nil, fmt.Errorf("failed to draw clusters: %w", err)
	}

	dc.SetColor(palette.stroke)
	dc.SetLineWidth(strokeWidth)
	for _, st := range canvas.Strokes {
		tracePath(dc, st.Points)
	}
	tracePath(dc, canvas.Path)
	if err := dc.Stroke(); err != nil {
		return nil, fmt.Errorf("failed to draw strokes: %w", err)
	}

	dc.SetColor(palette.fit)
	dc.SetLineWidth(fitWidth)
	dc.SetDash(6, 4)
	for _, st := range canvas.Strokes {
		switch st.Classification.Kind {
		case detection.CircleShape:
			c := st.Classification.Circle
			dc.DrawCircle(c.CenterX, c.CenterY, c.Radius)
		case detection.LineShape:
			l := st.Classification.Line
			dc.DrawLine(l.Start.X, l.Start.Y, l.End.X, l.End.Y)
		}
	}
	if err := dc.Stroke(); err != nil {
		return nil, fmt.Errorf("failed to draw fits: %w", err)
	}
	dc.ClearDash()

	rendered := toRGBA(dc.Image())
	if opts.ShowGrid {
		labelGrid(rendered, opts.GridSpacing)
	}

	var out image.Image = rendered
	if opts.Region != nil {
		cropped, err := cropRegion(out, *opts.Region)
		if err != nil {
			return nil, err
		}
		out = cropped
	}
	if opts.Scale != 1.0 {
		newWidth := int(float64(out.Bounds().Dx()) * opts.Scale)
		newHeight := int(float64(out.Bounds().Dy()) * opts.Scale)
		if newWidth < 1 || newHeight < 1 {
			return nil, fmt.Errorf("scale %g leaves no pixels", opts.Scale)
		}
		out = imaging.Resize(out, newWidth, newHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("failed to encode sketch: %w", err)
	}

	return &RenderResult{
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
		Strokes:     len(canvas.Strokes),
		Clusters:    len(canvas.Clusters),
	}, nil
}

// tracePath adds points to the current path as one polyline. A single
// point becomes a half-unit dash so it is still visible.
func tracePath(dc *gg.Context, points []detection.Point) {
	if len(points) == 0 {
		return
	}
	dc.MoveTo(points[0].X, points[0].Y)
	if len(points) == 1 {
		dc.LineTo(points[0].X+0.5, points[0].Y)
		return
	}
	for _, p := range points[1:] {
		dc.LineTo(p.X, p.Y)
	}
}

// toRGBA copies img into a fresh RGBA image owned by the caller.
func toRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	return rgba
}
