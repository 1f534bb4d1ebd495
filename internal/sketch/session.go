package sketch

import (
	"io"
	"log"

	"github.com/ironsheep/sketch-shapes-mcp/internal/detection"
)

// Default session geometry.
const (
	DefaultViewportWidth  = 800.0
	DefaultViewportHeight = 600.0
	DefaultSphereDivisor  = 100.0
)

// Viewport is the size of the drawing surface in screen units.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Options configures a Session. Zero values fall back to the defaults.
type Options struct {
	// ClusterRadius is the half-width of the endpoint neighborhood.
	ClusterRadius float64

	// Viewport is used to map circle centers into scene coordinates.
	Viewport Viewport

	// SphereDivisor scales screen units down to scene units.
	SphereDivisor float64

	// Logger receives debug output. nil discards it.
	Logger *log.Logger
}

func (o Options) withDefaults() Options {
	if o.ClusterRadius <= 0 {
		o.ClusterRadius = detection.DefaultClusterRadius
	}
	if o.Viewport.Width <= 0 || o.Viewport.Height <= 0 {
		o.Viewport = Viewport{Width: DefaultViewportWidth, Height: DefaultViewportHeight}
	}
	if o.SphereDivisor <= 0 {
		o.SphereDivisor = DefaultSphereDivisor
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard, "", 0)
	}
	return o
}

// Stroke is one completed gesture kept for rendering.
type Stroke struct {
	Points         []detection.Point         `json:"points"`
	Classification detection.Classification `json:"classification"`
}

// StrokeResult reports what a completed stroke turned into.
type StrokeResult struct {
	Classification detection.Classification `json:"classification"`

	// Points is the number of samples that were classified.
	Points int `json:"points"`

	// Shape is set when the stroke produced a scene shape.
	Shape *ShapeEvent `json:"shape,omitempty"`
}

// pendingCircle is a circle still available to become a cylinder cap.
type pendingCircle struct {
	circle   detection.Circle
	sphereID string
}

// Session holds the state of one sketching session: the stroke being drawn,
// the lines and endpoint clusters accumulated toward a composite shape, and
// the history of completed strokes.
//
// A Session is not safe for concurrent use. Drive it from one goroutine in
// event order: BeginStroke, AppendPoint any number of times, then EndStroke.
type Session struct {
	opts Options
	sink SceneSink
	log  *log.Logger

	path     []detection.Point
	stroking bool

	lines    []detection.Line
	clusters []detection.Cluster
	pending  *pendingCircle

	history []Stroke
}

// NewSession creates a session that reports recognized shapes to sink.
func NewSession(sink SceneSink, opts Options) *Session {
	opts = opts.withDefaults()
	return &Session{
		opts: opts,
		sink: sink,
		log:  opts.Logger,
	}
}

// Options returns the effective options after defaults were applied.
func (s *Session) Options() Options {
	return s.opts
}

// BeginStroke starts a new gesture. Any points buffered by a stroke that was
// never ended are discarded.
func (s *Session) BeginStroke() {
	if len(s.path) > 0 {
		s.log.Printf("[DEBUG] discarding unfinished stroke with %d points", len(s.path))
	}
	s.path = s.path[:0]
	s.stroking = true
}

// AppendPoint adds a sample to the current stroke. It returns false when no
// stroke is active.
func (s *Session) AppendPoint(p detection.Point) bool {
	if !s.stroking {
		return false
	}
	s.path = append(s.path, p)
	return true
}

// EndStroke classifies the buffered stroke, updates the accumulated state
// and asks the scene to add any shape that was completed.
//
// The path buffer is always consumed, even when classification finds no
// shape. EndStroke with no active stroke classifies nothing and returns a
// NoShape result. The only error source is the scene sink.
func (s *Session) EndStroke() (StrokeResult, error) {
	if !s.stroking {
		return StrokeResult{Classification: detection.ClassifyStroke(nil)}, nil
	}

	points := make([]detection.Point, len(s.path))
	copy(points, s.path)
	s.path = s.path[:0]
	s.stroking = false

	return s.classify(points)
}

// SubmitStroke runs a whole gesture in one call.
func (s *Session) SubmitStroke(points []detection.Point) (StrokeResult, error) {
	s.BeginStroke()
	for _, p := range points {
		s.AppendPoint(p)
	}
	return s.EndStroke()
}

func (s *Session) classify(points []detection.Point) (StrokeResult, error) {
	result := StrokeResult{
		Classification: detection.ClassifyStroke(points),
		Points:         len(points),
	}
	s.history = append(s.history, Stroke{Points: points, Classification: result.Classification})

	var (
		event *ShapeEvent
		err   error
	)
	switch result.Classification.Kind {
	case detection.LineShape:
		event, err = s.addLine(result.Classification.Line)
	case detection.CircleShape:
		event, err = s.addCircle(result.Classification.Circle, points[0], points[len(points)-1])
	default:
		s.log.Printf("[DEBUG] stroke with %d points not recognized", len(points))
	}
	result.Shape = event
	return result, err
}

// EraseAccumulatedLines drops the accumulated lines. Clusters, the pending
// circle and the stroke history are kept; use Clear to reset everything.
func (s *Session) EraseAccumulatedLines() {
	s.lines = nil
}

// Clear resets the session: lines, clusters, the current path, the pending
// circle and the stroke history.
func (s *Session) Clear() {
	s.lines = nil
	s.clusters = nil
	s.path = s.path[:0]
	s.stroking = false
	s.pending = nil
	s.history = nil
}

// resetAccumulation is applied after a composite shape is recognized.
func (s *Session) resetAccumulation() {
	s.lines = nil
	s.clusters = nil
	s.pending = nil
}

// Lines returns a copy of the accumulated lines.
func (s *Session) Lines() []detection.Line {
	return append([]detection.Line(nil), s.lines...)
}

// Clusters returns a copy of the accumulated endpoint clusters.
func (s *Session) Clusters() []detection.Cluster {
	return append([]detection.Cluster(nil), s.clusters...)
}

// Path returns a copy of the points buffered for the current stroke.
func (s *Session) Path() []detection.Point {
	return append([]detection.Point(nil), s.path...)
}

// Stroking reports whether a stroke is in progress.
func (s *Session) Stroking() bool {
	return s.stroking
}

// PendingCircle returns the circle that can still become a cylinder cap.
func (s *Session) PendingCircle() (detection.Circle, bool) {
	if s.pending == nil {
		return detection.Circle{}, false
	}
	return s.pending.circle, true
}

// History returns the completed strokes since the last Clear.
func (s *Session) History() []Stroke {
	return append([]Stroke(nil), s.history...)
}
