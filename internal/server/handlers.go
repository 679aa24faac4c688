package server

import (
	"encoding/json"
	"fmt"
	"image"
	"log"

	"github.com/ironsheep/spritex/internal/analysis"
	"github.com/ironsheep/spritex/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "sprite_load", "sprite_highlight").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`

	// Meta carries the optional progress token of the call.
	Meta *struct {
		ProgressToken interface{} `json:"progressToken,omitempty"`
	} `json:"_meta,omitempty"`
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
// When the request carries _meta.progressToken, long-running tools emit
// notifications/progress messages before the response.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	var progress analysis.ProgressFunc
	if params.Meta != nil {
		progress = s.progressReporter(params.Meta.ProgressToken)
	}

	if s.debug {
		log.Printf("tools/call %s %s", params.Name, params.Arguments)
	}

	result, err := s.executeTool(params.Name, params.Arguments, progress)
	if err != nil {
		if s.debug {
			log.Printf("tools/call %s failed: %v", params.Name, err)
		}
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
//  3. Loads frames from cache as needed
//  4. Calls the analysis or imaging function
//  5. Saves the result raster when asked to
func (s *Server) executeTool(name string, args json.RawMessage, progress analysis.ProgressFunc) (interface{}, error) {
	switch name {
	// Frame Information
	case "sprite_load":
		return s.handleSpriteLoad(args)
	case "sprite_sample_color":
		return s.handleSpriteSampleColor(args)

	// Region Operations
	case "sprite_crop":
		return s.handleSpriteCrop(args)
	case "sprite_nudge_region":
		return s.handleSpriteNudgeRegion(args)

	// Color Analysis
	case "sprite_unique_colors":
		return s.handleSpriteUniqueColors(args, progress)
	case "sprite_highlight":
		return s.handleSpriteHighlight(args, progress)
	case "sprite_extract_transparent":
		return s.handleSpriteExtractTransparent(args, progress)
	case "sprite_compare_frames":
		return s.handleSpriteCompareFrames(args)
	case "sprite_palette":
		return s.handleSpritePalette(args)

	// Visual Aids
	case "sprite_preview":
		return s.handleSpritePreview(args)

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

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// regionArgs are the selection rectangle arguments shared by region tools.
type regionArgs struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (a regionArgs) region() analysis.Region {
	return analysis.Region{X: a.X, Y: a.Y, Width: a.Width, Height: a.Height}
}

// saveRequested treats a missing save flag as true.
func saveRequested(save *bool) bool {
	return save == nil || *save
}

// === Frame Information Handlers ===

type spriteLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleSpriteLoad(args json.RawMessage) (interface{}, error) {
	var a spriteLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

type spriteSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleSpriteSampleColor(args json.RawMessage) (interface{}, error) {
	var a spriteSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, a.X, a.Y)
}

// === Region Operation Handlers ===

type spriteCropArgs struct {
	Path string `json:"path"`
	regionArgs
	Scale float64 `json:"scale"`
	Save  *bool   `json:"save"`
}

func (s *Server) handleSpriteCrop(args json.RawMessage) (interface{}, error) {
	var a spriteCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	result, err := imaging.Crop(img, a.region(), a.Scale)
	if err != nil {
		return nil, err
	}
	if saveRequested(a.Save) {
		// The file keeps the sprite at its native size.
		sprite, err := imaging.CropImage(img, a.region())
		if err != nil {
			return nil, err
		}
		if result.Path, err = s.writer.Save(a.Path, imaging.OpSprite, sprite); err != nil {
			return nil, err
		}
	}
	return result, nil
}

type spriteNudgeArgs struct {
	regionArgs
	Direction string `json:"direction"`
	Mode      string `json:"mode"`
	Shift     bool   `json:"shift"`
}

// NudgeResult is the selection after a nudge.
type NudgeResult struct {
	Region analysis.Region `json:"region"`
	Tuple  string          `json:"tuple"`
}

func (s *Server) handleSpriteNudgeRegion(args json.RawMessage) (interface{}, error) {
	var a spriteNudgeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	dir, err := analysis.ParseDirection(a.Direction)
	if err != nil {
		return nil, err
	}
	mode, err := analysis.ParseNudgeMode(a.Mode)
	if err != nil {
		return nil, err
	}
	step := analysis.NudgeStep
	if a.Shift {
		step = analysis.NudgeShiftStep
	}

	r := a.region().Nudge(dir, mode, step)
	return &NudgeResult{Region: r, Tuple: r.Tuple()}, nil
}

// === Color Analysis Handlers ===

type spriteUniqueColorsArgs struct {
	Path string `json:"path"`
	regionArgs
	Save *bool `json:"save"`
}

// UniqueColorsResult lists the colors found only inside a region.
type UniqueColorsResult struct {
	Region analysis.Region       `json:"region"`
	Tuple  string                `json:"tuple"`
	Found  bool                  `json:"found"`
	Count  int                   `json:"count"`
	Colors []imaging.ColorResult `json:"colors"`
	Path   string                `json:"path,omitempty"`
}

func (s *Server) handleSpriteUniqueColors(args json.RawMessage, progress analysis.ProgressFunc) (interface{}, error) {
	var a spriteUniqueColorsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	region := a.region()
	colors, err := analysis.FindUniqueColors(img, region, progress)
	if err != nil {
		return nil, err
	}

	result := &UniqueColorsResult{
		Region: region,
		Tuple:  region.Tuple(),
		Found:  len(colors) > 0,
		Count:  len(colors),
		Colors: imaging.DescribeColors(colors),
	}
	if result.Found && saveRequested(a.Save) {
		if result.Path, err = s.writer.Save(a.Path, imaging.OpUnique, analysis.UniqueColorStrip(colors)); err != nil {
			return nil, err
		}
	}
	return result, nil
}

type spriteHighlightArgs struct {
	Path string `json:"path"`
	regionArgs
	Save         *bool `json:"save"`
	IncludeImage bool  `json:"include_image"`
}

// HighlightResult describes the unique-color mask of a region.
type HighlightResult struct {
	Region      analysis.Region `json:"region"`
	Found       bool            `json:"found"`
	Width       int             `json:"width,omitempty"`
	Height      int             `json:"height,omitempty"`
	Path        string          `json:"path,omitempty"`
	ImageBase64 string          `json:"image_base64,omitempty"`
	MimeType    string          `json:"mime_type,omitempty"`
}

func (s *Server) handleSpriteHighlight(args json.RawMessage, progress analysis.ProgressFunc) (interface{}, error) {
	var a spriteHighlightArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	region := a.region()
	mask, found, err := analysis.HighlightUnique(img, region, progress)
	if err != nil {
		return nil, err
	}

	result := &HighlightResult{Region: region, Found: found}
	if !found {
		return result, nil
	}
	if err := s.attachRaster(a.Path, imaging.OpHighlight, mask, saveRequested(a.Save), a.IncludeImage,
		&result.Path, &result.ImageBase64); err != nil {
		return nil, err
	}
	result.Width, result.Height = mask.Bounds().Dx(), mask.Bounds().Dy()
	if result.ImageBase64 != "" {
		result.MimeType = "image/png"
	}
	return result, nil
}

type spriteExtractArgs struct {
	Path string `json:"path"`
	regionArgs
	Mode         string `json:"mode"`
	Tolerance    int    `json:"tolerance"`
	Save         *bool  `json:"save"`
	IncludeImage bool   `json:"include_image"`
}

// ExtractResult describes a transparent sprite built from several frames.
type ExtractResult struct {
	Region      analysis.Region `json:"region"`
	Tuple       string          `json:"tuple"`
	Mode        string          `json:"mode"`
	Frames      int             `json:"frames"`
	Width       int             `json:"width"`
	Height      int             `json:"height"`
	Opaque      int             `json:"opaque_pixels"`
	Path        string          `json:"path,omitempty"`
	ImageBase64 string          `json:"image_base64,omitempty"`
	MimeType    string          `json:"mime_type,omitempty"`
}

func (s *Server) handleSpriteExtractTransparent(args json.RawMessage, progress analysis.ProgressFunc) (interface{}, error) {
	var a spriteExtractArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	mode, err := analysis.ParseDiffMode(a.Mode)
	if err != nil {
		return nil, err
	}
	if a.Tolerance < 0 || a.Tolerance > 255 {
		return nil, fmt.Errorf("tolerance must be between 0 and 255, got %d", a.Tolerance)
	}

	ref, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	paths, siblings, err := imaging.LoadSiblings(s.cache, a.Path)
	if err != nil {
		return nil, err
	}
	// Sibling frames are only needed for this call.
	defer s.cache.Evict(paths...)

	region := a.region()
	sprite, err := analysis.ExtractTransparent(ref, siblings, region, analysis.ExtractOptions{
		Mode:      mode,
		Tolerance: uint8(a.Tolerance),
		Progress:  progress,
	})
	if err != nil {
		return nil, err
	}

	result := &ExtractResult{
		Region: region,
		Tuple:  region.Tuple(),
		Mode:   mode.String(),
		Frames: len(siblings) + 1,
		Width:  sprite.Bounds().Dx(),
		Height: sprite.Bounds().Dy(),
		Opaque: countOpaque(sprite),
	}
	if err := s.attachRaster(a.Path, imaging.OpExtracted, sprite, saveRequested(a.Save), a.IncludeImage,
		&result.Path, &result.ImageBase64); err != nil {
		return nil, err
	}
	if result.ImageBase64 != "" {
		result.MimeType = "image/png"
	}
	return result, nil
}

// attachRaster saves img next to sourcePath and/or encodes it inline,
// storing the outcome in path and encoded.
func (s *Server) attachRaster(sourcePath string, op imaging.Operation, img *image.NRGBA, save, inline bool, path, encoded *string) error {
	var err error
	if save {
		if *path, err = s.writer.Save(sourcePath, op, img); err != nil {
			return err
		}
		if s.debug {
			log.Printf("wrote %s", *path)
		}
	}
	if inline {
		if *encoded, err = imaging.EncodePNGBase64(img); err != nil {
			return fmt.Errorf("failed to encode %s image: %w", op, err)
		}
	}
	return nil
}

func countOpaque(img *image.NRGBA) int {
	n := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			n++
		}
	}
	return n
}

type spriteCompareArgs struct {
	Path      string `json:"path"`
	OtherPath string `json:"other_path"`
	regionArgs
	Tolerance int `json:"tolerance"`
}

func (s *Server) handleSpriteCompareFrames(args json.RawMessage) (interface{}, error) {
	var a spriteCompareArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Tolerance < 0 || a.Tolerance > 255 {
		return nil, fmt.Errorf("tolerance must be between 0 and 255, got %d", a.Tolerance)
	}
	first, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	second, err := s.cache.Load(a.OtherPath)
	if err != nil {
		return nil, err
	}
	return analysis.CompareFrames(first, second, a.region(), uint8(a.Tolerance))
}

type spritePaletteArgs struct {
	Path string `json:"path"`
	regionArgs
	Count int `json:"count"`
}

func (s *Server) handleSpritePalette(args json.RawMessage) (interface{}, error) {
	var a spritePaletteArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = 5
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.Palette(img, a.region(), a.Count)
}

// === Visual Aid Handlers ===

type spritePreviewArgs struct {
	Path string `json:"path"`
	regionArgs
	GridSpacing     *int    `json:"grid_spacing"`
	ShowCoordinates *bool   `json:"show_coordinates"`
	GridColor       string  `json:"grid_color"`
	SelectionColor  string  `json:"selection_color"`
	Scale           float64 `json:"scale"`
}

func (s *Server) handleSpritePreview(args json.RawMessage) (interface{}, error) {
	var a spritePreviewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	opts := imaging.PreviewOptions{
		GridSpacing:     16,
		ShowCoordinates: true,
		GridColor:       a.GridColor,
		SelectionColor:  a.SelectionColor,
		Scale:           a.Scale,
	}
	if a.GridSpacing != nil {
		opts.GridSpacing = *a.GridSpacing
	}
	if a.ShowCoordinates != nil {
		opts.ShowCoordinates = *a.ShowCoordinates
	}
	if opts.Scale == 0 {
		opts.Scale = 1.0
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	// A zero-sized rectangle means no selection to outline.
	var region *analysis.Region
	if r := a.region(); r.Width != 0 || r.Height != 0 {
		region = &r
	}
	return imaging.Preview(img, region, opts)
}
