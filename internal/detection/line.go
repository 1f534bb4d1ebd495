package detection

import (
	"encoding/json"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Line represents a straight segment fitted to a stroke.
//
// The infinite line satisfies A·x + B·y + C = 0 with A² + B² = 1, so
// |A·x + B·y + C| is the perpendicular distance of (x, y) from the line.
// Start and End are the segment endpoints projected onto that line.
type Line struct {
	// Error is the sum of squared perpendicular distances of the stroke
	// points from the fitted line.
	Error float64 `json:"error"`

	Start Point `json:"start"`
	End   Point `json:"end"`

	A float64 `json:"a"`
	B float64 `json:"b"`
	C float64 `json:"c"`

	// Length is the distance from Start to End.
	Length float64 `json:"length"`
}

// Degenerate reports whether the fit failed to produce a usable line.
func (l Line) Degenerate() bool {
	return math.IsInf(l.Error, 1) || math.IsNaN(l.Error)
}

// Endpoints returns the segment endpoints in Start, End order.
func (l Line) Endpoints() [2]Point {
	return [2]Point{l.Start, l.End}
}

// MarshalJSON encodes a non-finite Error as null.
func (l Line) MarshalJSON() ([]byte, error) {
	type plain Line
	return json.Marshal(struct {
		plain
		Error *float64 `json:"error"`
	}{plain(l), finiteOrNil(l.Error)})
}

// UnmarshalJSON reverses MarshalJSON: a null Error decodes as +Inf.
func (l *Line) UnmarshalJSON(data []byte) error {
	type plain Line
	aux := struct {
		*plain
		Error *float64 `json:"error"`
	}{plain: (*plain)(l)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	l.Error = math.Inf(1)
	if aux.Error != nil {
		l.Error = *aux.Error
	}
	return nil
}

func degenerateLine() Line {
	return Line{Error: math.Inf(1)}
}

// FitLine fits a straight segment to a sequence of points using total least
// squares (perpendicular distance, not vertical distance).
//
// Parameters:
//   - points: Stroke samples in drawing order. At least 2 distinct points
//     are required.
//
// Returns:
//   - Line: The fitted segment. Error is +Inf when the input is degenerate.
//
// # Algorithm
//
// With the centroid (x̄, ȳ) and the centered second moments Sxx, Syy, Sxy,
// the direction of least spread is found in closed form. The candidate
// angles θ₁ = atan(2Sxy / (Sxx - Syy)) and θ₂ = θ₁ + π are tested in order
// and the first for which
//
//	(Syy - Sxx)·cos θ - 2Sxy·sin θ ≥ 0
//
// is kept; that sign condition selects the minimum of the residual rather
// than the maximum. The line normal is at angle φ = θ/2, giving
// A = cos φ, B = sin φ and C = -A·x̄ - B·ȳ.
//
// # Endpoints
//
// Endpoints come from the bounding box of the points. When the box is at
// least as wide as it is tall, the line is evaluated at the box's left and
// right edges; otherwise at its top and bottom edges. If the fitted line runs
// steeper than 45° against the chosen axis (a symmetric "V" stroke has a
// square box but a vertical fit) the other axis is used. Start is always the
// minimum end and End the maximum end along the chosen axis.
func FitLine(points []Point) Line {
	if len(points) < 2 {
		return degenerateLine()
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.X
		ys[i] = p.Y
	}
	meanX := stat.Mean(xs, nil)
	meanY := stat.Mean(ys, nil)

	var sxx, syy, sxy float64
	for i := range points {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		sxx += dx * dx
		syy += dy * dy
		sxy += dx * dy
	}

	// All points coincide: no direction to fit.
	if sxx == 0 && syy == 0 {
		return degenerateLine()
	}

	theta1 := math.Atan(2 * sxy / (sxx - syy))
	if math.IsNaN(theta1) {
		return degenerateLine()
	}
	theta, ok := minimizingAngle(sxx, syy, sxy, theta1, theta1+math.Pi)
	if !ok {
		return degenerateLine()
	}

	phi := theta / 2
	a := math.Cos(phi)
	b := math.Sin(phi)
	c := -a*meanX - b*meanY

	var residual float64
	for i := range points {
		d := a*(xs[i]-meanX) + b*(ys[i]-meanY)
		residual += d * d
	}

	box := boundingBox(points)
	var start, end Point
	if byXAxis(box.Width(), box.Height(), a, b) {
		start = Point{X: box.Min.X, Y: -(a*box.Min.X + c) / b}
		end = Point{X: box.Max.X, Y: -(a*box.Max.X + c) / b}
	} else {
		start = Point{X: -(b*box.Min.Y + c) / a, Y: box.Min.Y}
		end = Point{X: -(b*box.Max.Y + c) / a, Y: box.Max.Y}
	}

	return Line{
		Error:  residual,
		Start:  start,
		End:    end,
		A:      a,
		B:      b,
		C:      c,
		Length: start.DistanceTo(end),
	}
}

// byXAxis reports whether endpoints are parametrized by x. The wider extent
// decides, except when the fitted line is steeper than 45° against that axis:
// the divisor (b for x, a for y) would then be the smaller coefficient and can
// be arbitrarily close to zero.
func byXAxis(width, height, a, b float64) bool {
	if width >= height {
		return math.Abs(b) >= math.Abs(a)
	}
	return math.Abs(a) < math.Abs(b)
}

// minimizingAngle returns the first candidate at which the second-derivative
// test of the perpendicular residual is non-negative.
func minimizingAngle(sxx, syy, sxy float64, candidates ...float64) (float64, bool) {
	for _, theta := range candidates {
		if (syy-sxx)*math.Cos(theta)-2*sxy*math.Sin(theta) >= 0 {
			return theta, true
		}
	}
	return 0, false
}
