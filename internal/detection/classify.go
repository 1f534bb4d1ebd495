package detection

import "fmt"

// RejectThreshold is the residual at or above which a fit is rejected.
// Fits with a NaN error are rejected as well.
const RejectThreshold = 9999999999.0

// Kind identifies which primitive a stroke was classified as.
type Kind int

const (
	NoShape Kind = iota
	CircleShape
	LineShape
)

// String returns the lowercase name used in tool output.
func (k Kind) String() string {
	switch k {
	case CircleShape:
		return "circle"
	case LineShape:
		return "line"
	default:
		return "none"
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind from the name MarshalText writes.
func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "none":
		*k = NoShape
	case "circle":
		*k = CircleShape
	case "line":
		*k = LineShape
	default:
		return fmt.Errorf("unknown shape kind %q", text)
	}
	return nil
}

// Classification is the outcome of classifying one stroke.
//
// Both fits are always populated so callers can report the losing candidate.
type Classification struct {
	Kind   Kind   `json:"kind"`
	Circle Circle `json:"circle"`
	Line   Line   `json:"line"`
}

// accepted is false for NaN since every comparison with NaN is false.
func accepted(err float64) bool {
	return err < RejectThreshold
}

// Classify picks the better of a circle fit and a line fit.
//
// The circle wins only when it is accepted and either the line is rejected
// or the circle's error is strictly lower. Ties go to the line.
func Classify(circle Circle, line Line) Classification {
	result := Classification{Kind: NoShape, Circle: circle, Line: line}

	circleOK := accepted(circle.Error)
	lineOK := accepted(line.Error)

	switch {
	case circleOK && (!lineOK || circle.Error < line.Error):
		result.Kind = CircleShape
	case lineOK:
		result.Kind = LineShape
	}
	return result
}

// ClassifyStroke fits both primitives to points and classifies the stroke.
func ClassifyStroke(points []Point) Classification {
	return Classify(FitCircle(points), FitLine(points))
}
