package detection

import (
	"github.com/jbeda/geom"
)

// Point represents a 2D screen-space sample of a stroke.
type Point struct {
	X float64 `json:"x"` // Horizontal position (0 = leftmost)
	Y float64 `json:"y"` // Vertical position (0 = topmost)
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) coord() geom.Coord {
	return geom.Coord{X: p.X, Y: p.Y}
}

// DistanceTo returns the Euclidean distance between two points.
func (p Point) DistanceTo(q Point) float64 {
	return p.coord().DistanceFrom(q.coord())
}

// boundingBox returns the axis-aligned box enclosing all points.
// The caller must pass at least one point.
func boundingBox(points []Point) geom.Rect {
	first := points[0].coord()
	box := geom.Rect{Min: first, Max: first}
	for _, p := range points[1:] {
		box.ExpandToContainCoord(p.coord())
	}
	return box
}
