package server

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/sketch-shapes-mcp/internal/detection"
)

// lineArgs samples n points from a to b as a points argument.
func lineArgs(x1, y1, x2, y2 float64, n int) map[string]interface{} {
	points := make([]detection.Point, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		points[i] = detection.Pt(x1+t*(x2-x1), y1+t*(y2-y1))
	}
	return map[string]interface{}{"points": points}
}

// circleArgs samples n points around a circle as a points argument.
func circleArgs(cx, cy, r float64, n int) map[string]interface{} {
	points := make([]detection.Point, n)
	for i := 0; i < n; i++ {
		angle := 2 * math.Pi * float64(i) / float64(n)
		points[i] = detection.Pt(cx+r*math.Cos(angle), cy+r*math.Sin(angle))
	}
	return map[string]interface{}{"points": points}
}

// callTool runs a tools/call request and returns the response.
func callTool(t *testing.T, s *Server, name string, args interface{}) *MCPResponse {
	t.Helper()

	params := map[string]interface{}{"name": name}
	if args != nil {
		params["arguments"] = args
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("failed to marshal params: %v", err)
	}

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// callToolInto runs a tool that must succeed and decodes its text content into v.
func callToolInto(t *testing.T, s *Server, name string, args interface{}, v interface{}) {
	t.Helper()

	resp := callTool(t, s, name, args)
	if resp.Error != nil {
		t.Fatalf("%s: unexpected error: %+v", name, resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("unexpected content: %v", result["content"])
	}
	if content[0]["type"] != "text" {
		t.Errorf("content type: got %v, want text", content[0]["type"])
	}
	text, _ := content[0]["text"].(string)
	if err := json.Unmarshal([]byte(text), v); err != nil {
		t.Fatalf("%s: result is not JSON: %v (%s)", name, err, text)
	}
}

// strokeResponse mirrors the JSON of a completed stroke.
type strokeResponse struct {
	Classification struct {
		Kind   string `json:"kind"`
		Circle struct {
			Error   *float64 `json:"error"`
			CenterX float64  `json:"center_x"`
			CenterY float64  `json:"center_y"`
			Radius  float64  `json:"radius"`
		} `json:"circle"`
	} `json:"classification"`
	Points int `json:"points"`
	Shape  *struct {
		Kind     string    `json:"kind"`
		Params   []float64 `json:"params"`
		ID       string    `json:"id"`
		Replaced string    `json:"replaced"`
	} `json:"shape"`
}

type stateResponse struct {
	Stroking      bool              `json:"stroking"`
	PathLength    int               `json:"path_length"`
	Lines         []json.RawMessage `json:"lines"`
	Clusters      []json.RawMessage `json:"clusters"`
	PendingCircle *json.RawMessage  `json:"pending_circle"`
	Strokes       int               `json:"strokes"`
	Options       struct {
		ClusterRadius float64 `json:"cluster_radius"`
		SphereDivisor float64 `json:"sphere_divisor"`
	} `json:"options"`
}

type sceneListResponse struct {
	Shapes []struct {
		ID    string `json:"id"`
		Kind  string `json:"kind"`
		Group string `json:"group"`
	} `json:"shapes"`
	Root struct {
		Name     string            `json:"name"`
		Children []json.RawMessage `json:"children"`
	} `json:"root"`
}

func TestHandleToolsCall_StrokeSubmit_Sphere(t *testing.T) {
	s := New()

	var result strokeResponse
	callToolInto(t, s, "sketch_stroke_submit", circleArgs(400, 300, 50, 24), &result)

	if result.Classification.Kind != "circle" {
		t.Fatalf("kind: got %s, want circle", result.Classification.Kind)
	}
	if result.Points != 24 {
		t.Errorf("points: got %d, want 24", result.Points)
	}
	if result.Shape == nil || result.Shape.Kind != "sphere" {
		t.Fatalf("expected a sphere, got %+v", result.Shape)
	}
	// Viewport center maps to the origin; radius 50 over divisor 100.
	want := []float64{0, 0, 0.5}
	for i, v := range want {
		if math.Abs(result.Shape.Params[i]-v) > 1e-6 {
			t.Errorf("params[%d]: got %g, want %g", i, result.Shape.Params[i], v)
		}
	}

	var state stateResponse
	callToolInto(t, s, "sketch_state", nil, &state)
	if state.PendingCircle == nil {
		t.Error("circle should remain pending as a cylinder cap")
	}
}

func TestHandleToolsCall_StrokeLifecycle(t *testing.T) {
	s := New()

	var begin strokeBeginResult
	callToolInto(t, s, "sketch_stroke_begin", nil, &begin)
	if !begin.Stroking {
		t.Error("stroke should be active after begin")
	}

	var appended strokeAppendResult
	callToolInto(t, s, "sketch_stroke_append", lineArgs(100, 100, 200, 100, 3), &appended)
	callToolInto(t, s, "sketch_stroke_append", lineArgs(250, 100, 300, 100, 2), &appended)
	if appended.Appended != 2 || appended.Total != 5 {
		t.Errorf("append: got %+v, want 2 appended of 5", appended)
	}

	var state stateResponse
	callToolInto(t, s, "sketch_state", nil, &state)
	if !state.Stroking || state.PathLength != 5 {
		t.Errorf("mid-stroke state: stroking=%v path=%d", state.Stroking, state.PathLength)
	}

	var result strokeResponse
	callToolInto(t, s, "sketch_stroke_end", nil, &result)
	if result.Classification.Kind != "line" {
		t.Errorf("kind: got %s, want line", result.Classification.Kind)
	}
	if result.Shape != nil {
		t.Errorf("one line should not produce a shape, got %+v", result.Shape)
	}

	callToolInto(t, s, "sketch_state", nil, &state)
	if state.Stroking || len(state.Lines) != 1 || len(state.Clusters) != 2 || state.Strokes != 1 {
		t.Errorf("after end: %+v", state)
	}
}

func TestHandleToolsCall_AppendWithoutBegin(t *testing.T) {
	s := New()

	resp := callTool(t, s, "sketch_stroke_append", lineArgs(0, 0, 10, 10, 2))
	if resp.Error == nil {
		t.Fatal("append without an active stroke should fail")
	}
	if resp.Error.Code != -32000 {
		t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
	}
}

func TestHandleToolsCall_EndWithoutBegin(t *testing.T) {
	s := New()

	var result strokeResponse
	callToolInto(t, s, "sketch_stroke_end", nil, &result)
	if result.Classification.Kind != "none" || result.Shape != nil {
		t.Errorf("empty stroke should classify as none, got %+v", result)
	}
}

func TestHandleToolsCall_Box(t *testing.T) {
	s := New()

	edges := [][4]float64{
		{100, 100, 300, 100},
		{300, 100, 300, 300},
		{300, 300, 100, 300},
		{100, 300, 100, 100},
	}

	var result strokeResponse
	for i, e := range edges {
		callToolInto(t, s, "sketch_stroke_submit", lineArgs(e[0], e[1], e[2], e[3], 10), &result)
		if i < len(edges)-1 && result.Shape != nil {
			t.Fatalf("edge %d produced %s early", i, result.Shape.Kind)
		}
	}
	if result.Shape == nil || result.Shape.Kind != "box" {
		t.Fatalf("expected a box, got %+v", result.Shape)
	}

	var list sceneListResponse
	callToolInto(t, s, "scene_list", nil, &list)
	if len(list.Shapes) != 2 || list.Shapes[1].Kind != "box" || list.Shapes[1].ID != result.Shape.ID {
		t.Errorf("scene shapes: %+v", list.Shapes)
	}
	if list.Root.Name != "root" || len(list.Root.Children) != 2 {
		t.Errorf("root: got %s with %d children", list.Root.Name, len(list.Root.Children))
	}

	var state stateResponse
	callToolInto(t, s, "sketch_state", nil, &state)
	if len(state.Lines) != 0 || len(state.Clusters) != 0 {
		t.Errorf("accumulation should reset after a box, got %d lines, %d clusters",
			len(state.Lines), len(state.Clusters))
	}
}

func TestHandleToolsCall_CylinderReplacesSphere(t *testing.T) {
	s := New()

	var sphere strokeResponse
	callToolInto(t, s, "sketch_stroke_submit", circleArgs(400, 200, 50, 24), &sphere)
	if sphere.Shape == nil || sphere.Shape.Kind != "sphere" {
		t.Fatalf("expected a sphere, got %+v", sphere.Shape)
	}

	// The circle starts and ends at (450,200), so a line from there joins its
	// cluster and adds one more.
	var cylinder strokeResponse
	callToolInto(t, s, "sketch_stroke_submit", lineArgs(450, 200, 450, 450, 10), &cylinder)
	if cylinder.Shape == nil || cylinder.Shape.Kind != "cylinder" {
		t.Fatalf("expected a cylinder, got %+v", cylinder.Shape)
	}
	if cylinder.Shape.Replaced != sphere.Shape.ID {
		t.Errorf("Replaced: got %q, want %q", cylinder.Shape.Replaced, sphere.Shape.ID)
	}

	var list sceneListResponse
	callToolInto(t, s, "scene_list", nil, &list)
	for _, shape := range list.Shapes {
		if shape.Kind == "sphere" {
			t.Error("sphere should have been replaced by the cylinder")
		}
	}
}

func TestHandleToolsCall_CylinderAfterSphereRemoved(t *testing.T) {
	s := New()

	var sphere strokeResponse
	callToolInto(t, s, "sketch_stroke_submit", circleArgs(400, 200, 50, 24), &sphere)
	if sphere.Shape == nil || sphere.Shape.Kind != "sphere" {
		t.Fatalf("expected a sphere, got %+v", sphere.Shape)
	}

	var removed sceneRemoveShapeResult
	callToolInto(t, s, "scene_remove_shape", map[string]interface{}{"id": sphere.Shape.ID}, &removed)

	// The circle is still pending, so the line completes the cylinder even
	// though its sphere is no longer in the scene.
	var cylinder strokeResponse
	callToolInto(t, s, "sketch_stroke_submit", lineArgs(450, 200, 450, 450, 10), &cylinder)
	if cylinder.Shape == nil || cylinder.Shape.Kind != "cylinder" {
		t.Fatalf("expected a cylinder, got %+v", cylinder.Shape)
	}
	if cylinder.Shape.Replaced != "" {
		t.Errorf("Replaced: got %q, want empty", cylinder.Shape.Replaced)
	}

	var list sceneListResponse
	callToolInto(t, s, "scene_list", nil, &list)
	if len(list.Shapes) != 2 || list.Shapes[1].Kind != "cylinder" {
		t.Errorf("scene shapes: %+v", list.Shapes)
	}

	var state stateResponse
	callToolInto(t, s, "sketch_state", nil, &state)
	if len(state.Lines) != 0 || len(state.Clusters) != 0 || state.PendingCircle != nil {
		t.Errorf("accumulation should reset after the cylinder: %+v", state)
	}
}

func TestHandleToolsCall_Fit(t *testing.T) {
	s := New()

	var result struct {
		Kind   string `json:"kind"`
		Points int    `json:"points"`
		Line   struct {
			Error *float64 `json:"error"`
		} `json:"line"`
	}
	callToolInto(t, s, "sketch_fit", lineArgs(0, 0, 100, 50, 8), &result)

	if result.Kind != "line" || result.Points != 8 {
		t.Errorf("fit: got kind %s with %d points", result.Kind, result.Points)
	}
	if result.Line.Error == nil {
		t.Error("line error should be reported")
	}

	var state stateResponse
	callToolInto(t, s, "sketch_state", nil, &state)
	if state.Strokes != 0 || len(state.Lines) != 0 {
		t.Errorf("sketch_fit must not touch the session: %+v", state)
	}
}

func TestHandleToolsCall_FitDegenerate(t *testing.T) {
	s := New()

	var result struct {
		Kind   string `json:"kind"`
		Circle struct {
			Error *float64 `json:"error"`
		} `json:"circle"`
	}
	callToolInto(t, s, "sketch_fit", map[string]interface{}{"points": []detection.Point{detection.Pt(5, 5)}}, &result)

	if result.Kind != "none" {
		t.Errorf("kind: got %s, want none", result.Kind)
	}
	if result.Circle.Error != nil {
		t.Errorf("degenerate circle error should encode as null, got %v", *result.Circle.Error)
	}
}

func TestHandleToolsCall_EraseLines(t *testing.T) {
	s := New()

	var stroke strokeResponse
	callToolInto(t, s, "sketch_stroke_submit", lineArgs(100, 100, 400, 100, 10), &stroke)

	var erased eraseResult
	callToolInto(t, s, "sketch_erase_lines", nil, &erased)
	if erased.Erased != 1 || erased.Clusters != 2 {
		t.Errorf("erase: got %+v, want 1 erased and 2 clusters kept", erased)
	}
}

func TestHandleToolsCall_Clear(t *testing.T) {
	s := New()

	var stroke strokeResponse
	callToolInto(t, s, "sketch_stroke_submit", circleArgs(400, 300, 50, 24), &stroke)
	callToolInto(t, s, "sketch_stroke_submit", lineArgs(100, 100, 400, 100, 10), &stroke)

	var cleared clearResult
	callToolInto(t, s, "sketch_clear", nil, &cleared)
	if !cleared.Cleared || cleared.Shapes != 1 {
		t.Errorf("clear: got %+v, want only the ground left", cleared)
	}

	var state stateResponse
	callToolInto(t, s, "sketch_state", nil, &state)
	if state.Strokes != 0 || len(state.Lines) != 0 || len(state.Clusters) != 0 || state.PendingCircle != nil {
		t.Errorf("state after clear: %+v", state)
	}
}

func TestHandleToolsCall_SceneAddRemove(t *testing.T) {
	s := New()

	var shape struct {
		ID     string    `json:"id"`
		Kind   string    `json:"kind"`
		Params []float64 `json:"params"`
		Group  string    `json:"group"`
	}
	callToolInto(t, s, "scene_add_shape", map[string]interface{}{
		"kind":   "sphere",
		"params": []float64{1, 2, 0.5},
	}, &shape)

	if shape.Kind != "sphere" || shape.ID == "" || len(shape.Params) != 3 {
		t.Fatalf("unexpected shape %+v", shape)
	}

	var removed sceneRemoveShapeResult
	callToolInto(t, s, "scene_remove_shape", map[string]interface{}{"id": shape.ID}, &removed)
	if removed.Removed != shape.ID {
		t.Errorf("removed: got %s, want %s", removed.Removed, shape.ID)
	}

	var list sceneListResponse
	callToolInto(t, s, "scene_list", nil, &list)
	if len(list.Shapes) != 1 {
		t.Errorf("only the ground should remain, got %d shapes", len(list.Shapes))
	}
}

func TestHandleToolsCall_SceneErrors(t *testing.T) {
	tests := []struct {
		name string
		tool string
		args map[string]interface{}
	}{
		{"unknown kind", "scene_add_shape", map[string]interface{}{"kind": "torus"}},
		{"bad sphere params", "scene_add_shape", map[string]interface{}{"kind": "sphere", "params": []float64{1, 2}}},
		{"missing id", "scene_remove_shape", map[string]interface{}{}},
		{"unknown id", "scene_remove_shape", map[string]interface{}{"id": "nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callTool(t, New(), tt.tool, tt.args)
			if resp.Error == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestHandleToolsCall_Render(t *testing.T) {
	s := New()

	var stroke strokeResponse
	callToolInto(t, s, "sketch_stroke_submit", lineArgs(100, 100, 400, 100, 10), &stroke)

	tests := []struct {
		name       string
		args       map[string]interface{}
		wantWidth  int
		wantHeight int
	}{
		{"defaults", nil, 800, 600},
		{"scaled", map[string]interface{}{"scale": 0.5, "show_grid": true}, 400, 300},
		{"region", map[string]interface{}{
			"region": map[string]interface{}{"x1": 0, "y1": 0, "x2": 200, "y2": 100},
		}, 200, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var result struct {
				Width       int    `json:"width"`
				Height      int    `json:"height"`
				ImageBase64 string `json:"image_base64"`
				Strokes     int    `json:"strokes"`
			}
			var args interface{}
			if tt.args != nil {
				args = tt.args
			}
			callToolInto(t, s, "sketch_render", args, &result)

			if result.Width != tt.wantWidth || result.Height != tt.wantHeight {
				t.Errorf("dimensions: got %dx%d, want %dx%d", result.Width, result.Height, tt.wantWidth, tt.wantHeight)
			}
			if result.ImageBase64 == "" || result.Strokes != 1 {
				t.Errorf("unexpected render result: %d strokes", result.Strokes)
			}
		})
	}
}

func TestHandleToolsCall_RenderInvalidColor(t *testing.T) {
	resp := callTool(t, New(), "sketch_render", map[string]interface{}{"fit_color": "#XYZ"})
	if resp.Error == nil {
		t.Error("an unparsable color should be rejected")
	}
}

func TestHandleToolsCall_ExportPDF(t *testing.T) {
	s := New()
	path := filepath.Join(t.TempDir(), "sketch.pdf")

	var stroke strokeResponse
	callToolInto(t, s, "sketch_stroke_submit", circleArgs(400, 300, 50, 24), &stroke)

	var result struct {
		Path    string `json:"path"`
		Strokes int    `json:"strokes"`
	}
	callToolInto(t, s, "sketch_export_pdf", map[string]interface{}{"path": path}, &result)

	if result.Path != path || result.Strokes != 1 {
		t.Errorf("unexpected result %+v", result)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("PDF not written: %v", err)
	}
}

func TestHandleToolsCall_InvalidTool(t *testing.T) {
	resp := callTool(t, New(), "nonexistent_tool", map[string]interface{}{})
	if resp.Error == nil {
		t.Fatal("expected an error for an unknown tool")
	}
	if resp.Error.Code != -32000 {
		t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := New()

	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`{invalid`),
	}

	resp := s.handleToolsCall(req)
	if resp.Error == nil {
		t.Fatal("expected an error for invalid params")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("Error code: got %d, want -32602", resp.Error.Code)
	}
}

func TestExecuteTool_AllTools(t *testing.T) {
	s := New()
	dir := t.TempDir()

	// Test each tool to ensure executeTool correctly dispatches
	toolTests := []struct {
		name string
		args map[string]interface{}
	}{
		{"sketch_stroke_begin", nil},
		{"sketch_stroke_append", lineArgs(0, 0, 10, 0, 2)},
		{"sketch_stroke_end", nil},
		{"sketch_stroke_submit", lineArgs(0, 0, 100, 100, 5)},
		{"sketch_fit", circleArgs(50, 50, 20, 12)},
		{"sketch_erase_lines", nil},
		{"sketch_state", nil},
		{"scene_list", nil},
		{"scene_add_shape", map[string]interface{}{"kind": "cone"}},
		{"sketch_render", map[string]interface{}{"scale": 0.25}},
		{"sketch_export_pdf", map[string]interface{}{"path": filepath.Join(dir, "all.pdf")}},
		{"sketch_clear", nil},
	}

	for _, tt := range toolTests {
		t.Run(tt.name, func(t *testing.T) {
			var argsJSON json.RawMessage
			if tt.args != nil {
				argsJSON, _ = json.Marshal(tt.args)
			}
			result, err := s.executeTool(tt.name, argsJSON)
			if err != nil {
				t.Fatalf("executeTool(%s) failed: %v", tt.name, err)
			}
			if result == nil {
				t.Errorf("executeTool(%s) returned nil result", tt.name)
			}
		})
	}
}

func TestExecuteTool_UnknownTool(t *testing.T) {
	s := New()

	_, err := s.executeTool("unknown_tool", json.RawMessage(`{}`))
	if err == nil {
		t.Error("executeTool should fail for unknown tool")
	}
}

func TestExecuteTool_InvalidJSON(t *testing.T) {
	s := New()

	_, err := s.executeTool("sketch_stroke_submit", json.RawMessage(`{invalid`))
	if err == nil {
		t.Error("executeTool should fail for invalid JSON")
	}
}

func TestDecodeArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    string
		wantErr bool
	}{
		{"empty", "", false},
		{"null", "null", false},
		{"whitespace", "  ", false},
		{"object", `{"points":[]}`, false},
		{"malformed", `{"points":`, true},
		{"wrong type", `{"points":"abc"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a pointsArgs
			err := decodeArgs(json.RawMessage(tt.args), &a)
			if (err != nil) != tt.wantErr {
				t.Errorf("decodeArgs(%q) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
		})
	}
}
