package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pathProperty is the frame path argument shared by every image tool.
var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the captured frame (PNG)",
}

var saveProperty = map[string]interface{}{
	"type":        "boolean",
	"description": "Write the result as a timestamped PNG next to the frame. Default true",
	"default":     true,
}

// withRegion returns props extended with the x, y, width and height
// arguments of a selection rectangle.
func withRegion(props map[string]interface{}) map[string]interface{} {
	out := map[string]interface{}{
		"x": map[string]interface{}{
			"type":        "integer",
			"description": "Left edge of the region (0-based)",
		},
		"y": map[string]interface{}{
			"type":        "integer",
			"description": "Top edge of the region (0-based)",
		},
		"width": map[string]interface{}{
			"type":        "integer",
			"description": "Region width in pixels; the right edge is x+width (exclusive)",
		},
		"height": map[string]interface{}{
			"type":        "integer",
			"description": "Region height in pixels; the bottom edge is y+height (exclusive)",
		},
	}
	for k, v := range props {
		out[k] = v
	}
	return out
}

var regionRequired = []string{"path", "x", "y", "width", "height"}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Frame Information
		{
			Name:        "sprite_load",
			Description: "Load a captured frame and report its dimensions, format and how many sibling frames sit in the same directory.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "sprite_sample_color",
			Description: "Get the color of a single pixel in hex, RGB, RGBA and HSL.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based)",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},

		// Region Operations
		{
			Name:        "sprite_crop",
			Description: "Cut the selected region out of a frame and return it as base64 PNG. The result also carries the region formatted as a capture-script tuple.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withRegion(map[string]interface{}{
					"path": pathProperty,
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Nearest-neighbor scale factor for the returned image. Default 1.0",
						"default":     1.0,
					},
					"save": saveProperty,
				}),
				"required": regionRequired,
			},
		},
		{
			Name:        "sprite_nudge_region",
			Description: "Move or resize a selection rectangle by a few pixels, the way the arrow keys do in an interactive editor. No image is needed.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withRegion(map[string]interface{}{
					"direction": map[string]interface{}{
						"type":        "string",
						"description": "Direction to nudge",
						"enum":        []string{"up", "down", "left", "right"},
					},
					"mode": map[string]interface{}{
						"type":        "string",
						"description": "move shifts the rectangle, resize moves the far edge, edge moves the near edge. Default move",
						"enum":        []string{"move", "resize", "edge"},
						"default":     "move",
					},
					"shift": map[string]interface{}{
						"type":        "boolean",
						"description": "Use the large step instead of a single pixel",
						"default":     false,
					},
				}),
				"required": []string{"x", "y", "width", "height", "direction"},
			},
		},

		// Color Analysis
		{
			Name:        "sprite_unique_colors",
			Description: "List the colors that appear inside the region and nowhere else in the frame, sorted descending. An empty list is a normal result.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withRegion(map[string]interface{}{
					"path": pathProperty,
					"save": map[string]interface{}{
						"type":        "boolean",
						"description": "Write the unique colors as a 1-pixel-high strip PNG next to the frame. Default true",
						"default":     true,
					},
				}),
				"required": regionRequired,
			},
		},
		{
			Name:        "sprite_highlight",
			Description: "Build a mask of the region where pixels with a unique color stay opaque and every other pixel is transparent.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withRegion(map[string]interface{}{
					"path": pathProperty,
					"save": saveProperty,
					"include_image": map[string]interface{}{
						"type":        "boolean",
						"description": "Also return the mask as base64 PNG",
						"default":     false,
					},
				}),
				"required": regionRequired,
			},
		},
		{
			Name:        "sprite_extract_transparent",
			Description: "Compare the region across the frame and every sibling PNG in its directory and build a sprite with a transparent background.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withRegion(map[string]interface{}{
					"path": pathProperty,
					"mode": map[string]interface{}{
						"type":        "string",
						"description": "tolerant keeps pixels that change between consecutive frames, exact keeps pixels identical in every frame. Default tolerant",
						"enum":        []string{"tolerant", "exact"},
						"default":     "tolerant",
					},
					"tolerance": map[string]interface{}{
						"type":        "integer",
						"description": "Per-channel difference (0-255) treated as no change in tolerant mode. Default 0",
						"default":     0,
					},
					"save": saveProperty,
					"include_image": map[string]interface{}{
						"type":        "boolean",
						"description": "Also return the sprite as base64 PNG",
						"default":     false,
					},
				}),
				"required": regionRequired,
			},
		},
		{
			Name:        "sprite_compare_frames",
			Description: "Compare the region between two frames. Reports how many pixels differ and the bounding box of the change, a tighter selection for sprite_extract_transparent.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withRegion(map[string]interface{}{
					"path": pathProperty,
					"other_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the frame to compare against",
					},
					"tolerance": map[string]interface{}{
						"type":        "integer",
						"description": "Per-channel difference (0-255) treated as no change. Default 0",
						"default":     0,
					},
				}),
				"required": []string{"path", "other_path", "x", "y", "width", "height"},
			},
		},
		{
			Name:        "sprite_palette",
			Description: "Extract the dominant colors of a region with their pixel share. Colors are clustered, use sprite_unique_colors for exact values.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withRegion(map[string]interface{}{
					"path": pathProperty,
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of colors to extract. Default 5",
						"default":     5,
					},
				}),
				"required": regionRequired,
			},
		},

		// Visual Aids
		{
			Name:        "sprite_preview",
			Description: "Render the frame with a coordinate grid and, when a region is given, an outline around the selection.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withRegion(map[string]interface{}{
					"path": pathProperty,
					"grid_spacing": map[string]interface{}{
						"type":        "integer",
						"description": "Grid line spacing in pixels. Default 16, 0 disables the grid",
						"default":     16,
					},
					"show_coordinates": map[string]interface{}{
						"type":        "boolean",
						"description": "Label grid lines with their coordinates. Default true",
						"default":     true,
					},
					"grid_color": map[string]interface{}{
						"type":        "string",
						"description": "Grid line color as hex",
					},
					"selection_color": map[string]interface{}{
						"type":        "string",
						"description": "Selection outline color as hex",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Nearest-neighbor scale factor applied before drawing. Default 1.0",
						"default":     1.0,
					},
				}),
				"required": []string{"path"},
			},
		},
	}
}
