package sketch

import (
	"errors"
	"fmt"

	"github.com/ironsheep/sketch-shapes-mcp/internal/detection"
)

// ShapeEvent describes a shape the session asked the scene to add.
type ShapeEvent struct {
	Kind   ShapeKind `json:"kind"`
	Params []float64 `json:"params,omitempty"`

	// ID is the scene identifier returned by the sink.
	ID string `json:"id"`

	// Replaced is the id of a sphere removed because its circle became
	// the cap of this cylinder.
	Replaced string `json:"replaced,omitempty"`
}

// Composite shapes are recognized by exact counts only. Any other count,
// such as a fifth line, keeps accumulating until an erase or clear.
const (
	boxLines, boxClusters           = 4, 4
	coneLines, coneClusters         = 3, 3
	cylinderLines, cylinderClusters = 1, 2
)

// addLine records a line stroke and checks for a completed composite.
func (s *Session) addLine(line detection.Line) (*ShapeEvent, error) {
	s.lines = append(s.lines, line)
	s.clusters = detection.MergeLineEndpoints(line, s.clusters, s.opts.ClusterRadius)
	s.log.Printf("[DEBUG] line %d accumulated, %d clusters", len(s.lines), len(s.clusters))

	lines, clusters := len(s.lines), len(s.clusters)
	switch {
	case lines == boxLines && clusters == boxClusters:
		return s.emitComposite(ShapeBox)
	case lines == coneLines && clusters == coneClusters:
		return s.emitComposite(ShapeCone)
	case s.cylinderReady():
		return s.emitComposite(ShapeCylinder)
	}
	return nil, nil
}

// addCircle records a circle stroke. The circle either completes a cylinder
// with an already drawn line or is added to the scene as a sphere.
func (s *Session) addCircle(circle detection.Circle, first, last detection.Point) (*ShapeEvent, error) {
	s.clusters = detection.MergeEndpoint(first, s.clusters, s.opts.ClusterRadius)
	s.clusters = detection.MergeEndpoint(last, s.clusters, s.opts.ClusterRadius)
	s.pending = &pendingCircle{circle: circle}

	if s.cylinderReady() {
		return s.emitComposite(ShapeCylinder)
	}

	params := SphereParams(circle, s.opts.Viewport, s.opts.SphereDivisor)
	id, err := s.sink.AddShape(ShapeSphere, params)
	if err != nil {
		return nil, fmt.Errorf("failed to add sphere: %w", err)
	}
	s.pending.sphereID = id
	s.log.Printf("[DEBUG] sphere %s added at %v", id, params)

	return &ShapeEvent{Kind: ShapeSphere, Params: params, ID: id}, nil
}

func (s *Session) cylinderReady() bool {
	return s.pending != nil &&
		len(s.lines) == cylinderLines &&
		len(s.clusters) == cylinderClusters
}

// emitComposite adds a composite shape and resets the accumulation. When a
// cylinder consumes a circle that was already shown as a sphere, that
// sphere is removed first; a sphere the scene no longer holds counts as
// removed. The accumulation is only reset on success.
func (s *Session) emitComposite(kind ShapeKind) (*ShapeEvent, error) {
	event := &ShapeEvent{Kind: kind}

	if kind == ShapeCylinder && s.pending != nil && s.pending.sphereID != "" {
		err := s.sink.RemoveShape(s.pending.sphereID)
		switch {
		case errors.Is(err, ErrShapeNotFound):
			s.log.Printf("[DEBUG] sphere %s already gone, adding cylinder without replacing", s.pending.sphereID)
		case err != nil:
			return nil, fmt.Errorf("failed to replace sphere %s: %w", s.pending.sphereID, err)
		default:
			event.Replaced = s.pending.sphereID
		}
		s.pending.sphereID = ""
	}

	id, err := s.sink.AddShape(kind, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to add %s: %w", kind, err)
	}
	event.ID = id
	s.log.Printf("[DEBUG] %s %s recognized from %d lines, %d clusters", kind, id, len(s.lines), len(s.clusters))

	s.resetAccumulation()
	return event, nil
}

// SphereParams maps a screen-space circle into scene coordinates: the
// viewport center becomes the origin, Y points up, and all lengths are
// divided by divisor.
func SphereParams(circle detection.Circle, viewport Viewport, divisor float64) []float64 {
	return []float64{
		(circle.CenterX - viewport.Width/2) / divisor,
		(viewport.Height/2 - circle.CenterY) / divisor,
		circle.Radius / divisor,
	}
}
