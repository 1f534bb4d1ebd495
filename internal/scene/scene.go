// Package scene is a minimal scene graph that stands in for a 3D viewer.
package scene

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/ironsheep/sketch-shapes-mcp/internal/sketch"
)

var (
	// ErrUnknownShape is returned when AddShape receives a kind the scene
	// has no primitive for.
	ErrUnknownShape = errors.New("unknown shape kind")

	// ErrInvalidParams is returned when shape parameters have the wrong shape.
	ErrInvalidParams = errors.New("invalid shape parameters")

	// ErrShapeNotFound is returned when an id does not name a shape. It is
	// sketch.ErrShapeNotFound, so sessions recognize it through the sink.
	ErrShapeNotFound = sketch.ErrShapeNotFound
)

// Ground plane geometry.
const (
	groundWidth   = 1000.0
	groundHeight  = 1.0
	groundDepth   = 1000.0
	groundOffsetY = -5.0
	groundTexture = "checkerboard"
)

// Shape is one object added to the scene.
type Shape struct {
	ID     string           `json:"id"`
	Kind   sketch.ShapeKind `json:"kind"`
	Params []float64        `json:"params,omitempty"`

	// Group is the name of the group node that holds the shape.
	Group string `json:"group"`
}

// Scene is an in-memory scene graph that receives the shapes recognized by a
// sketch session.
//
// Every shape is stored as a group node under the root, holding a transform
// node, holding a leaf node that instances the primitive. Nodes are named
// group_N, transform_N and leaf_N from counters that keep increasing for the
// life of the scene, so names are never reused.
//
// A new scene, and a cleared one, contains a single ground plane.
//
// Scene is safe for concurrent use.
type Scene struct {
	mu     sync.RWMutex
	root   *Node
	shapes []Shape
	nodes  map[string]*Node // shape id -> group node

	groupCount     int
	transformCount int
	leafCount      int

	log *log.Logger
}

// New creates a scene containing the ground plane. A nil logger discards
// output.
func New(logger *log.Logger) *Scene {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &Scene{log: logger}
	s.reset()
	return s
}

// reset empties the graph and re-adds the ground. Caller holds mu.
func (s *Scene) reset() {
	s.root = &Node{Name: "root", Type: GroupNode}
	s.shapes = nil
	s.nodes = make(map[string]*Node)
	// The ground kind is always valid and takes no params.
	_, _ = s.addLocked(sketch.ShapeGround, nil)
}

// AddShape adds a primitive and returns its id.
//
// Spheres accept either no params (a unit sphere at the origin) or exactly
// [center_x, center_y, radius] in scene units, which become a uniform scale
// by radius followed by a translation to the center. Params are ignored for
// the other kinds. AddShape implements sketch.SceneSink.
func (s *Scene) AddShape(kind sketch.ShapeKind, params []float64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(kind, params)
}

func (s *Scene) addLocked(kind sketch.ShapeKind, params []float64) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownShape, kind)
	}
	if kind == sketch.ShapeSphere && len(params) != 0 && len(params) != 3 {
		return "", fmt.Errorf("%w: sphere takes 3 params, got %d", ErrInvalidParams, len(params))
	}
	if kind != sketch.ShapeSphere {
		params = nil
	}

	transform := &Node{
		Name:      fmt.Sprintf("transform_%d", s.transformCount),
		Type:      TransformNode,
		Transform: identityTransform(),
	}
	leaf := &Node{
		Name:     fmt.Sprintf("leaf_%d", s.leafCount),
		Type:     LeafNode,
		Instance: string(kind),
		Material: defaultMaterial(),
	}

	switch kind {
	case sketch.ShapeSphere:
		if len(params) == 3 {
			r := params[2]
			transform.Transform.Scale = Vec3{r, r, r}
			transform.Transform.Translate = Vec3{params[0], params[1], 0}
		}
	case sketch.ShapeGround:
		transform.Transform.Scale = Vec3{groundWidth, groundHeight, groundDepth}
		transform.Transform.Translate = Vec3{0, groundOffsetY, 0}
		leaf.Instance = string(sketch.ShapeBox)
		leaf.Texture = groundTexture
		leaf.TextureScale = &Vec3{groundWidth / 8, groundDepth / 8, groundHeight}
	}

	transform.Children = []*Node{leaf}
	group := &Node{
		Name:     fmt.Sprintf("group_%d", s.groupCount),
		Type:     GroupNode,
		Children: []*Node{transform},
	}
	s.root.Children = append(s.root.Children, group)
	s.groupCount++
	s.transformCount++
	s.leafCount++

	id := uuid.NewString()
	s.shapes = append(s.shapes, Shape{
		ID:     id,
		Kind:   kind,
		Params: append([]float64(nil), params...),
		Group:  group.Name,
	})
	s.nodes[id] = group
	s.log.Printf("[DEBUG] scene: added %s %s as %s", kind, id, group.Name)

	return id, nil
}

// RemoveShape removes a shape and its nodes. It implements sketch.SceneSink.
func (s *Scene) RemoveShape(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	group, ok := s.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrShapeNotFound, id)
	}
	delete(s.nodes, id)

	for i, child := range s.root.Children {
		if child == group {
			s.root.Children = append(s.root.Children[:i], s.root.Children[i+1:]...)
			break
		}
	}
	for i, shape := range s.shapes {
		if shape.ID == id {
			s.shapes = append(s.shapes[:i], s.shapes[i+1:]...)
			break
		}
	}
	s.log.Printf("[DEBUG] scene: removed %s (%s)", id, group.Name)
	return nil
}

// Shape returns the shape with the given id.
func (s *Scene) Shape(id string) (Shape, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, shape := range s.shapes {
		if shape.ID == id {
			return shape, nil
		}
	}
	return Shape{}, fmt.Errorf("%w: %s", ErrShapeNotFound, id)
}

// Shapes returns the shapes in insertion order.
func (s *Scene) Shapes() []Shape {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Shape(nil), s.shapes...)
}

// Root returns a deep copy of the scene graph.
func (s *Scene) Root() *Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.root.clone()
}

// Clear removes every shape and adds a fresh ground plane.
func (s *Scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}
