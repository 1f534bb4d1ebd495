package detection

import (
	"encoding/json"
	"math"

	"gonum.org/v1/gonum/mat"
)

// minDeterminantRatio is the smallest |D| relative to the Hadamard bound of
// the normal matrix that still counts as a solvable system. Collinear input
// drives the ratio to zero.
const minDeterminantRatio = 1e-10

// Circle represents a circle fitted to a stroke.
//
// Circles are constructed once per fit and never mutated. A fit that could not
// be solved has Error set to +Inf and zero geometry.
type Circle struct {
	// Error is the sum of squared algebraic residuals
	// (x²+y² - A·x - B·y - C)² over all stroke points.
	Error float64 `json:"error"`

	// CenterX is the horizontal position of the fitted center.
	CenterX float64 `json:"center_x"`

	// CenterY is the vertical position of the fitted center.
	CenterY float64 `json:"center_y"`

	// Radius is the fitted radius.
	Radius float64 `json:"radius"`
}

// Center returns the circle center as a Point.
func (c Circle) Center() Point {
	return Point{X: c.CenterX, Y: c.CenterY}
}

// Degenerate reports whether the fit failed to produce a usable circle.
func (c Circle) Degenerate() bool {
	return math.IsInf(c.Error, 1) || math.IsNaN(c.Error)
}

// MarshalJSON encodes a non-finite Error as null, which encoding/json
// cannot represent as a number.
func (c Circle) MarshalJSON() ([]byte, error) {
	type plain Circle
	return json.Marshal(struct {
		plain
		Error *float64 `json:"error"`
	}{plain(c), finiteOrNil(c.Error)})
}

// UnmarshalJSON reverses MarshalJSON: a null Error decodes as +Inf.
func (c *Circle) UnmarshalJSON(data []byte) error {
	type plain Circle
	aux := struct {
		*plain
		Error *float64 `json:"error"`
	}{plain: (*plain)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	c.Error = math.Inf(1)
	if aux.Error != nil {
		c.Error = *aux.Error
	}
	return nil
}

// degenerateCircle is the sentinel returned when no circle can be solved.
func degenerateCircle() Circle {
	return Circle{Error: math.Inf(1)}
}

// FitCircle fits a circle to a sequence of points using algebraic least squares.
//
// Parameters:
//   - points: Stroke samples in drawing order. At least 3 non-collinear
//     points are required for a solvable system.
//
// Returns:
//   - Circle: The fitted circle. Error is +Inf when the system is degenerate.
//
// # Algorithm (Kasa fit)
//
// The circle is modelled as the algebraic relation
//
//	x² + y² = A·x + B·y + C
//
// whose least-squares normal equations are
//
//	| Σx²  Σxy  Σx |   | A |   | Σx(x²+y²) |
//	| Σxy  Σy²  Σy | · | B | = | Σy(x²+y²) |
//	| Σx   Σy   n  |   | C |   | Σ(x²+y²)  |
//
// The system is solved with Cramer's rule: D is the determinant of the left
// matrix and Da, Db, Dc are the determinants with the right-hand column
// substituted into the first, second and third columns. Then
//
//	center = (A/2, B/2)
//	radius = sqrt(C + cx² + cy²)
//
// Written in the equivalent form x²+y²+A'x+B'y+C'=0 (A' = -A, B' = -B) this
// is the familiar center (-A'/2, -B'/2).
//
// # Degenerate Input
//
// The fit is rejected (Error = +Inf) when:
//   - fewer than 3 points are given
//   - |D| is negligible relative to the matrix scale (collinear points)
//   - the coefficients are not finite
//   - C + cx² + cy² is negative
func FitCircle(points []Point) Circle {
	if len(points) < 3 {
		return degenerateCircle()
	}

	var sumX, sumY, sumX2, sumY2, sumXY float64
	var sumXR, sumYR, sumR float64
	for _, p := range points {
		r := p.X*p.X + p.Y*p.Y
		sumX += p.X
		sumY += p.Y
		sumX2 += p.X * p.X
		sumY2 += p.Y * p.Y
		sumXY += p.X * p.Y
		sumXR += p.X * r
		sumYR += p.Y * r
		sumR += r
	}
	n := float64(len(points))

	m := mat.NewDense(3, 3, []float64{
		sumX2, sumXY, sumX,
		sumXY, sumY2, sumY,
		sumX, sumY, n,
	})
	rhs := []float64{sumXR, sumYR, sumR}

	d := mat.Det(m)
	if !solvable(m, d) {
		return degenerateCircle()
	}

	coeffs := make([]float64, 3)
	for col := 0; col < 3; col++ {
		coeffs[col] = mat.Det(substituteColumn(m, col, rhs)) / d
	}
	a, b, c := coeffs[0], coeffs[1], coeffs[2]
	if !finite(a) || !finite(b) || !finite(c) {
		return degenerateCircle()
	}

	centerX := a / 2
	centerY := b / 2
	radicand := c + centerX*centerX + centerY*centerY
	if radicand < 0 {
		return degenerateCircle()
	}

	var residual float64
	for _, p := range points {
		e := p.X*p.X + p.Y*p.Y - a*p.X - b*p.Y - c
		residual += e * e
	}

	return Circle{
		Error:   residual,
		CenterX: centerX,
		CenterY: centerY,
		Radius:  math.Sqrt(radicand),
	}
}

// solvable reports whether determinant d of m is large enough to divide by.
// The test is scale-free: d is compared against the product of the row norms
// (Hadamard's bound), which d can never exceed.
func solvable(m *mat.Dense, d float64) bool {
	if !finite(d) || d == 0 {
		return false
	}
	bound := 1.0
	for i := 0; i < 3; i++ {
		bound *= mat.Norm(m.RowView(i), 2)
	}
	if bound == 0 {
		return false
	}
	return math.Abs(d)/bound >= minDeterminantRatio
}

// substituteColumn returns a copy of m with column col replaced by v.
func substituteColumn(m *mat.Dense, col int, v []float64) *mat.Dense {
	out := mat.DenseCopyOf(m)
	out.SetCol(col, v)
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func finiteOrNil(v float64) *float64 {
	if !finite(v) {
		return nil
	}
	return &v
}
