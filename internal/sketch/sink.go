package sketch

import (
	"errors"
	"fmt"
)

// ShapeKind names a 3D primitive the scene can instantiate.
type ShapeKind string

const (
	ShapeBox      ShapeKind = "box"
	ShapeSphere   ShapeKind = "sphere"
	ShapeCylinder ShapeKind = "cylinder"
	ShapeCone     ShapeKind = "cone"
	ShapeGround   ShapeKind = "ground"
)

// ShapeKinds lists every kind in the order tools advertise them.
var ShapeKinds = []ShapeKind{ShapeBox, ShapeSphere, ShapeCylinder, ShapeCone, ShapeGround}

// Valid reports whether k is one of the known shape kinds.
func (k ShapeKind) Valid() bool {
	for _, known := range ShapeKinds {
		if k == known {
			return true
		}
	}
	return false
}

// ParseShapeKind converts a name such as "box" into a ShapeKind.
func ParseShapeKind(name string) (ShapeKind, error) {
	k := ShapeKind(name)
	if !k.Valid() {
		return "", fmt.Errorf("unknown shape kind %q", name)
	}
	return k, nil
}

// ErrShapeNotFound is returned, possibly wrapped, by a SceneSink asked to
// remove an id it does not hold.
var ErrShapeNotFound = errors.New("shape not found")

// SceneSink receives the shapes a session recognizes.
//
// AddShape returns an identifier the session may later pass to RemoveShape,
// which happens when a sphere turns out to be the cap of a cylinder.
// RemoveShape of an unknown id should report ErrShapeNotFound.
type SceneSink interface {
	AddShape(kind ShapeKind, params []float64) (string, error)
	RemoveShape(id string) error
}
