// Package sketch turns a sequence of freehand strokes into 3D shapes.
//
// A Session buffers the points of the stroke being drawn, classifies each
// finished stroke with the detection package, and accumulates lines and
// endpoint clusters until they match a composite:
//
//   - box: 4 lines meeting in 4 clusters
//   - cone: 3 lines meeting in 3 clusters
//   - cylinder: 1 line and 1 circle meeting in 2 clusters, in either order
//
// A circle that does not complete a cylinder becomes a sphere right away.
// Recognized shapes are handed to a SceneSink.
package sketch
