package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pointsSchema describes an array of {x, y} stroke samples.
func pointsSchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"description": description,
		"items": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"x": map[string]interface{}{"type": "number"},
				"y": map[string]interface{}{"type": "number"},
			},
			"required": []string{"x", "y"},
		},
	}
}

// noArgsSchema is the input schema of tools that take no arguments.
func noArgsSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

// colorProperties are the optional overlay colors shared by render and export.
func colorProperties() map[string]interface{} {
	return map[string]interface{}{
		"stroke_color": map[string]interface{}{
			"type":        "string",
			"description": "Hex color of raw strokes (#RGB, #RRGGBB or #RRGGBBAA). Default #000000",
		},
		"fit_color": map[string]interface{}{
			"type":        "string",
			"description": "Hex color of fitted circles and lines. Default #1E90FF",
		},
		"cluster_color": map[string]interface{}{
			"type":        "string",
			"description": "Hex color of endpoint cluster boxes. Default #FF000080",
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	renderProps := colorProperties()
	renderProps["scale"] = map[string]interface{}{
		"type":        "number",
		"description": "Optional scale factor (e.g., 0.5 to halve the size). Default 1.0",
		"default":     1.0,
	}
	renderProps["show_grid"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Draw a labelled coordinate grid. Default false",
		"default":     false,
	}
	renderProps["grid_spacing"] = map[string]interface{}{
		"type":        "integer",
		"description": "Grid spacing in canvas units. Default 50",
		"default":     50,
	}
	renderProps["region"] = map[string]interface{}{
		"type":        "object",
		"description": "Optional canvas region to crop to before scaling",
		"properties": map[string]interface{}{
			"x1": map[string]interface{}{"type": "integer"},
			"y1": map[string]interface{}{"type": "integer"},
			"x2": map[string]interface{}{"type": "integer"},
			"y2": map[string]interface{}{"type": "integer"},
		},
		"required": []string{"x1", "y1", "x2", "y2"},
	}

	exportProps := colorProperties()
	exportProps["path"] = map[string]interface{}{
		"type":        "string",
		"description": "Absolute path of the PDF file to write",
	}

	return []Tool{
		// Stroke Input
		{
			Name:        "sketch_stroke_begin",
			Description: "Start a new stroke (pointer down). Any unfinished stroke is discarded.",
			InputSchema: noArgsSchema(),
		},
		{
			Name:        "sketch_stroke_append",
			Description: "Append samples to the active stroke (pointer move). Fails if no stroke was begun.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"points": pointsSchema("Samples in drawing order, screen coordinates (origin top-left, Y down)"),
				},
				"required": []string{"points"},
			},
		},
		{
			Name:        "sketch_stroke_end",
			Description: "Finish the active stroke (pointer up). Classifies it as circle, line or nothing, and reports any box, cone, cylinder or sphere it completed.",
			InputSchema: noArgsSchema(),
		},
		{
			Name:        "sketch_stroke_submit",
			Description: "Begin, append and end a whole stroke in one call. Returns the same result as sketch_stroke_end.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"points": pointsSchema("All samples of the stroke in drawing order"),
				},
				"required": []string{"points"},
			},
		},
		{
			Name:        "sketch_fit",
			Description: "Fit a circle and a line to the given samples and classify them without changing the session.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"points": pointsSchema("Samples to fit"),
				},
				"required": []string{"points"},
			},
		},

		// Session State
		{
			Name:        "sketch_erase_lines",
			Description: "Erase the accumulated lines. Endpoint clusters are kept; use sketch_clear to reset everything.",
			InputSchema: noArgsSchema(),
		},
		{
			Name:        "sketch_clear",
			Description: "Clear the session and the scene. The scene is left with only the ground plane.",
			InputSchema: noArgsSchema(),
		},
		{
			Name:        "sketch_state",
			Description: "Report accumulated lines, endpoint clusters, the active stroke, the pending cylinder circle and session settings.",
			InputSchema: noArgsSchema(),
		},

		// Scene Operations
		{
			Name:        "scene_list",
			Description: "List the shapes in the scene and its node tree.",
			InputSchema: noArgsSchema(),
		},
		{
			Name:        "scene_add_shape",
			Description: "Add a shape to the scene directly, without drawing it.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"kind": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"box", "sphere", "cylinder", "cone", "ground"},
						"description": "Primitive to add",
					},
					"params": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "number"},
						"description": "For sphere only: [center_x, center_y, radius] in scene units",
					},
				},
				"required": []string{"kind"},
			},
		},
		{
			Name:        "scene_remove_shape",
			Description: "Remove a shape from the scene by id.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": map[string]interface{}{
						"type":        "string",
						"description": "Shape id returned when the shape was added",
					},
				},
				"required": []string{"id"},
			},
		},

		// Output
		{
			Name:        "sketch_render",
			Description: "Render the canvas (strokes, fitted shapes, endpoint clusters) as a base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": renderProps,
			},
		},
		{
			Name:        "sketch_export_pdf",
			Description: "Write the canvas to a one-page A4 PDF file.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": exportProps,
				"required":   []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
