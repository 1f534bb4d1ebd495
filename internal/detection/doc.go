// Package detection fits geometric primitives to freehand strokes.
//
// A stroke is the ordered list of points sampled between a pointer press and
// its release. This package turns such a list into either a circle or a
// straight line using closed-form least-squares estimates, and tracks the
// "meeting points" where stroke endpoints touch so that several strokes can
// later be grouped into one composite shape.
//
// # Primitive Fitting
//
//   - Circles: algebraic (Kasa) least squares solved with Cramer's rule
//   - Lines: total least squares along the principal axis of the points
//
// Both fitters are total functions. When the input cannot produce a stable
// estimate (too few points, collinear points for a circle, coincident points
// for a line) the result carries an Error of +Inf instead of a Go error, and
// the classifier rejects it.
//
// # Classification
//
// Classify compares the residual errors of the two fits against
// RejectThreshold. A circle is chosen only when it is accepted and strictly
// better than the line; otherwise the stroke is a line if the line is
// accepted, and NoShape when neither is.
//
// # Endpoint Clusters
//
// Clusters are fixed-radius square neighborhoods. A point belongs to a cluster
// when both |dx| and |dy| are within the radius (a Chebyshev test, not a
// Euclidean one). Clusters are created on first use and never move or merge.
//
// # Coordinate System
//
// Points are screen-space samples: origin at top-left, X rightward, Y
// downward. Values are float64 so sub-pixel tablet input is preserved.
package detection
