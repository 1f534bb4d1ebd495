package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/sketch-shapes-mcp/internal/detection"
	"github.com/ironsheep/sketch-shapes-mcp/internal/imaging"
	"github.com/ironsheep/sketch-shapes-mcp/internal/scene"
	"github.com/ironsheep/sketch-shapes-mcp/internal/sketch"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "sketch_stroke_submit", "scene_list").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Printf("tool %s failed: %v", params.Name, err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Drives the sketch session, the scene or the renderer
//  4. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Stroke Input
	case "sketch_stroke_begin":
		return s.handleStrokeBegin(args)
	case "sketch_stroke_append":
		return s.handleStrokeAppend(args)
	case "sketch_stroke_end":
		return s.handleStrokeEnd(args)
	case "sketch_stroke_submit":
		return s.handleStrokeSubmit(args)
	case "sketch_fit":
		return s.handleFit(args)

	// Session State
	case "sketch_erase_lines":
		return s.handleEraseLines(args)
	case "sketch_clear":
		return s.handleClear(args)
	case "sketch_state":
		return s.handleState(args)

	// Scene Operations
	case "scene_list":
		return s.handleSceneList(args)
	case "scene_add_shape":
		return s.handleSceneAddShape(args)
	case "scene_remove_shape":
		return s.handleSceneRemoveShape(args)

	// Output
	case "sketch_render":
		return s.handleRender(args)
	case "sketch_export_pdf":
		return s.handleExportPDF(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON marshals v to a JSON string, returning an error object if
// marshaling fails.
func mustMarshalJSON(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf(`{"error": "failed to marshal result: %s"}`, err.Error())
	}
	return string(data)
}

// decodeArgs unmarshals tool arguments into v. Missing or null arguments
// leave v at its zero value.
func decodeArgs(args json.RawMessage, v interface{}) error {
	trimmed := bytes.TrimSpace(args)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

type pointsArgs struct {
	Points []detection.Point `json:"points"`
}

// === Stroke Input Handlers ===

type strokeBeginResult struct {
	Stroking bool `json:"stroking"`
}

func (s *Server) handleStrokeBegin(args json.RawMessage) (interface{}, error) {
	s.session.BeginStroke()
	return strokeBeginResult{Stroking: true}, nil
}

type strokeAppendResult struct {
	Appended int `json:"appended"`
	Total    int `json:"total"`
}

func (s *Server) handleStrokeAppend(args json.RawMessage) (interface{}, error) {
	var a pointsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if !s.session.Stroking() {
		return nil, errors.New("no active stroke: call sketch_stroke_begin first")
	}

	for _, p := range a.Points {
		s.session.AppendPoint(p)
	}
	return strokeAppendResult{Appended: len(a.Points), Total: len(s.session.Path())}, nil
}

func (s *Server) handleStrokeEnd(args json.RawMessage) (interface{}, error) {
	return s.session.EndStroke()
}

func (s *Server) handleStrokeSubmit(args json.RawMessage) (interface{}, error) {
	var a pointsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.session.SubmitStroke(a.Points)
}

type fitResult struct {
	detection.Classification
	Points int `json:"points"`
}

func (s *Server) handleFit(args json.RawMessage) (interface{}, error) {
	var a pointsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return fitResult{
		Classification: detection.ClassifyStroke(a.Points),
		Points:         len(a.Points),
	}, nil
}

// === Session State Handlers ===

type eraseResult struct {
	Erased   int `json:"erased"`
	Clusters int `json:"clusters"`
}

func (s *Server) handleEraseLines(args json.RawMessage) (interface{}, error) {
	erased := len(s.session.Lines())
	s.session.EraseAccumulatedLines()
	return eraseResult{Erased: erased, Clusters: len(s.session.Clusters())}, nil
}

type clearResult struct {
	Cleared bool `json:"cleared"`
	Shapes  int  `json:"shapes"`
}

func (s *Server) handleClear(args json.RawMessage) (interface{}, error) {
	s.session.Clear()
	s.scene.Clear()
	return clearResult{Cleared: true, Shapes: len(s.scene.Shapes())}, nil
}

type sessionOptionsResult struct {
	ClusterRadius float64         `json:"cluster_radius"`
	Viewport      sketch.Viewport `json:"viewport"`
	SphereDivisor float64         `json:"sphere_divisor"`
}

type stateResult struct {
	Stroking      bool                 `json:"stroking"`
	PathLength    int                  `json:"path_length"`
	Lines         []detection.Line     `json:"lines"`
	Clusters      []detection.Cluster  `json:"clusters"`
	PendingCircle *detection.Circle    `json:"pending_circle,omitempty"`
	Strokes       int                  `json:"strokes"`
	Options       sessionOptionsResult `json:"options"`
}

func (s *Server) handleState(args json.RawMessage) (interface{}, error) {
	opts := s.session.Options()
	result := stateResult{
		Stroking:   s.session.Stroking(),
		PathLength: len(s.session.Path()),
		Lines:      s.session.Lines(),
		Clusters:   s.session.Clusters(),
		Strokes:    len(s.session.History()),
		Options: sessionOptionsResult{
			ClusterRadius: opts.ClusterRadius,
			Viewport:      opts.Viewport,
			SphereDivisor: opts.SphereDivisor,
		},
	}
	if result.Lines == nil {
		result.Lines = []detection.Line{}
	}
	if result.Clusters == nil {
		result.Clusters = []detection.Cluster{}
	}
	if c, ok := s.session.PendingCircle(); ok {
		result.PendingCircle = &c
	}
	return result, nil
}

// === Scene Handlers ===

type sceneListResult struct {
	Shapes []scene.Shape `json:"shapes"`
	Root   *scene.Node   `json:"root"`
}

func (s *Server) handleSceneList(args json.RawMessage) (interface{}, error) {
	return sceneListResult{Shapes: s.scene.Shapes(), Root: s.scene.Root()}, nil
}

type sceneAddShapeArgs struct {
	Kind   string    `json:"kind"`
	Params []float64 `json:"params"`
}

func (s *Server) handleSceneAddShape(args json.RawMessage) (interface{}, error) {
	var a sceneAddShapeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	kind, err := sketch.ParseShapeKind(a.Kind)
	if err != nil {
		return nil, err
	}

	id, err := s.scene.AddShape(kind, a.Params)
	if err != nil {
		return nil, err
	}
	return s.scene.Shape(id)
}

type sceneRemoveShapeArgs struct {
	ID string `json:"id"`
}

type sceneRemoveShapeResult struct {
	Removed string `json:"removed"`
}

func (s *Server) handleSceneRemoveShape(args json.RawMessage) (interface{}, error) {
	var a sceneRemoveShapeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.ID == "" {
		return nil, errors.New("id is required")
	}
	if err := s.scene.RemoveShape(a.ID); err != nil {
		return nil, err
	}
	return sceneRemoveShapeResult{Removed: a.ID}, nil
}

// === Output Handlers ===

type colorArgs struct {
	StrokeColor  string `json:"stroke_color"`
	FitColor     string `json:"fit_color"`
	ClusterColor string `json:"cluster_color"`
}

// validate rejects colors that are present but unparsable, so a typo is
// reported instead of silently rendering the default.
func (c colorArgs) validate() error {
	for name, value := range map[string]string{
		"stroke_color":  c.StrokeColor,
		"fit_color":     c.FitColor,
		"cluster_color": c.ClusterColor,
	} {
		if value == "" {
			continue
		}
		if _, err := imaging.ParseHexColor(value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

type renderArgs struct {
	colorArgs
	Scale       float64 `json:"scale"`
	ShowGrid    bool    `json:"show_grid"`
	GridSpacing int     `json:"grid_spacing"`
	Region      *struct {
		X1 int `json:"x1"`
		Y1 int `json:"y1"`
		X2 int `json:"x2"`
		Y2 int `json:"y2"`
	} `json:"region"`
}

func (s *Server) handleRender(args json.RawMessage) (interface{}, error) {
	var a renderArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	if a.GridSpacing == 0 {
		a.GridSpacing = imaging.DefaultGridSpacing
	}

	opts := imaging.RenderOptions{
		Scale:        a.Scale,
		StrokeColor:  a.StrokeColor,
		FitColor:     a.FitColor,
		ClusterColor: a.ClusterColor,
		ShowGrid:     a.ShowGrid,
		GridSpacing:  a.GridSpacing,
	}
	if a.Region != nil {
		opts.Region = &imaging.Region{X1: a.Region.X1, Y1: a.Region.Y1, X2: a.Region.X2, Y2: a.Region.Y2}
	}
	return imaging.RenderSketch(imaging.CanvasFromSession(s.session), opts)
}

type exportPDFArgs struct {
	colorArgs
	Path string `json:"path"`
}

func (s *Server) handleExportPDF(args json.RawMessage) (interface{}, error) {
	var a exportPDFArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}

	opts := imaging.RenderOptions{
		StrokeColor:  a.StrokeColor,
		FitColor:     a.FitColor,
		ClusterColor: a.ClusterColor,
	}
	return imaging.ExportPDF(a.Path, imaging.CanvasFromSession(s.session), opts)
}
