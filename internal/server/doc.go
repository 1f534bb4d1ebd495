// Package server implements the MCP (Model Context Protocol) server for sketch
// recognition.
//
// This package provides a JSON-RPC 2.0 server that turns freehand strokes into
// 3D primitives. A client streams pointer samples, the server fits each stroke
// to a circle and a line, accumulates lines around shared endpoints, and adds
// a box, cone, cylinder or sphere to an in-memory scene when a composite is
// complete.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Stroke Input:
//   - sketch_stroke_begin: Pointer down
//   - sketch_stroke_append: Pointer moves
//   - sketch_stroke_end: Pointer up, classify and recognize
//   - sketch_stroke_submit: Whole stroke in one call
//   - sketch_fit: Classify samples without touching the session
//
// Session State:
//   - sketch_erase_lines: Drop accumulated lines
//   - sketch_clear: Reset the session and the scene
//   - sketch_state: Inspect lines, clusters and the pending circle
//
// Scene Operations:
//   - scene_list: Shapes and the node tree
//   - scene_add_shape: Add a primitive directly
//   - scene_remove_shape: Remove a primitive by id
//
// Output:
//   - sketch_render: PNG of strokes, fits and clusters
//   - sketch_export_pdf: One-page A4 PDF of the same
//
// # State
//
// One session and one scene live for the lifetime of the server process.
// Requests are handled one at a time in arrival order, which is the order the
// session requires for its stroke events.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	srv := server.New()
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
