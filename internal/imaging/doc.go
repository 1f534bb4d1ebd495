// Package imaging draws sketch sessions for inspection.
//
// RenderSketch rasterizes a Canvas to a base64 PNG and ExportPDF writes it
// to a one-page PDF. Both draw the same layers: endpoint cluster boxes, the
// raw stroke samples, and a dashed outline of the circle or line each
// recognized stroke was fitted to.
//
// # Coordinate System
//
// Canvas coordinates are the screen coordinates the strokes were sampled in:
//   - X: horizontal position (0 = leftmost)
//   - Y: vertical position (0 = topmost)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Colors
//
// Overlay colors are given as hex strings: "#RGB", "#RRGGBB" or "#RRGGBBAA".
// Empty or invalid values fall back to the defaults.
package imaging
