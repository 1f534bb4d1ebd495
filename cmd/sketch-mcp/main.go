package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/ironsheep/sketch-shapes-mcp/internal/server"
	"github.com/ironsheep/sketch-shapes-mcp/internal/sketch"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("sketch-shapes-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("sketch-shapes-mcp - MCP server that turns freehand strokes into 3D shapes")
			fmt.Println()
			fmt.Println("Usage: sketch-shapes-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  SKETCH_MCP_LOG_LEVEL=debug        Enable debug logging")
			fmt.Println("  SKETCH_MCP_CLUSTER_RADIUS=150     Endpoint neighborhood half-width")
			fmt.Println("  SKETCH_MCP_VIEWPORT=800x600       Drawing surface size (WxH)")
			fmt.Println("  SKETCH_MCP_SPHERE_DIVISOR=100     Screen units per scene unit")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	debug := os.Getenv("SKETCH_MCP_LOG_LEVEL") == "debug"
	if debug {
		log.Printf("Sketch MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	sessionOpts, err := sessionOptionsFromEnv(os.Getenv)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Debug output goes through its own logger so it can be silenced.
	debugOut := io.Discard
	if debug {
		debugOut = os.Stderr
	}

	srv := server.NewWithOptions(server.Options{
		Session: sessionOpts,
		Version: Version,
		Logger:  log.New(debugOut, "", log.Ldate|log.Ltime|log.Lshortfile),
	})
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// sessionOptionsFromEnv reads the recognition settings. Unset variables keep
// the session defaults.
func sessionOptionsFromEnv(getenv func(string) string) (sketch.Options, error) {
	var opts sketch.Options

	if v := getenv("SKETCH_MCP_CLUSTER_RADIUS"); v != "" {
		radius, err := parsePositive(v)
		if err != nil {
			return opts, fmt.Errorf("SKETCH_MCP_CLUSTER_RADIUS: %w", err)
		}
		opts.ClusterRadius = radius
	}

	if v := getenv("SKETCH_MCP_VIEWPORT"); v != "" {
		viewport, err := parseViewport(v)
		if err != nil {
			return opts, fmt.Errorf("SKETCH_MCP_VIEWPORT: %w", err)
		}
		opts.Viewport = viewport
	}

	if v := getenv("SKETCH_MCP_SPHERE_DIVISOR"); v != "" {
		divisor, err := parsePositive(v)
		if err != nil {
			return opts, fmt.Errorf("SKETCH_MCP_SPHERE_DIVISOR: %w", err)
		}
		opts.SphereDivisor = divisor
	}

	return opts, nil
}

func parsePositive(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("must be positive, got %g", v)
	}
	return v, nil
}

// parseViewport parses "WxH", e.g. "1024x768".
func parseViewport(s string) (sketch.Viewport, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return sketch.Viewport{}, fmt.Errorf("expected WxH, got %q", s)
	}
	width, err := parsePositive(w)
	if err != nil {
		return sketch.Viewport{}, fmt.Errorf("width: %w", err)
	}
	height, err := parsePositive(h)
	if err != nil {
		return sketch.Viewport{}, fmt.Errorf("height: %w", err)
	}
	return sketch.Viewport{Width: width, Height: height}, nil
}
