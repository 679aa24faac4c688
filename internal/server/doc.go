// Package server implements the MCP (Model Context Protocol) server for
// sprite extraction tools.
//
// The server exposes the region analyzer to MCP clients so an assistant can
// select a sprite on a captured game frame, find the colors unique to it and
// cut it out with a transparent background.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses and notifications on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Frame Information:
//   - sprite_load: Load a frame and count its sibling frames
//   - sprite_sample_color: Get the color at a pixel
//
// Region Operations:
//   - sprite_crop: Cut a region out as PNG
//   - sprite_nudge_region: Move or resize a selection by arrow-key steps
//
// Color Analysis:
//   - sprite_unique_colors: Colors found only inside the region
//   - sprite_highlight: Mask of the pixels with unique colors
//   - sprite_extract_transparent: Cross-frame transparent sprite
//   - sprite_compare_frames: Pixels that differ between two frames
//   - sprite_palette: Dominant colors of the region
//
// Visual Aids:
//   - sprite_preview: Frame with grid and selection outline
//
// # Output Files
//
// Tools producing a raster write it next to the source frame as
// "{operation}_{YYYYMMDDHHMMSS}.png" unless called with "save": false, and
// report the path in the result. Nothing is written when there is nothing to
// show, e.g. a region without unique colors.
//
// # Progress
//
// A tools/call request carrying "_meta": {"progressToken": ...} receives
// notifications/progress messages (progress 0-100, total 100) before its
// response.
//
// # Image Caching
//
// Frames are cached by path for the lifetime of the server. Sibling frames
// loaded for an extraction are evicted when the call returns.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New()
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
