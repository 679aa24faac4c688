package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/spritex/internal/analysis"
)

// PreviewOptions controls how Preview renders a frame.
type PreviewOptions struct {
	// GridSpacing draws a pixel grid every N pixels. Zero disables the grid.
	GridSpacing int

	// ShowCoordinates labels grid intersections with "x,y".
	ShowCoordinates bool

	// GridColor and SelectionColor are "#RRGGBB" strings. Invalid or empty
	// values fall back to red grid lines and a yellow selection outline.
	GridColor      string
	SelectionColor string

	// Scale enlarges the rendered preview with nearest-neighbor sampling.
	Scale float64
}

// PreviewResult contains a rendered preview encoded as base64 PNG.
type PreviewResult struct {
	Width       int              `json:"width"`
	Height      int              `json:"height"`
	Region      *analysis.Region `json:"region,omitempty"`
	Tuple       string           `json:"tuple,omitempty"`
	GridSpacing int              `json:"grid_spacing"`
	ImageBase64 string           `json:"image_base64"`
	MimeType    string           `json:"mime_type"`
}

var (
	defaultGridColor      = color.NRGBA{255, 0, 0, 128}
	defaultSelectionColor = color.NRGBA{255, 255, 0, 255}
)

// Preview renders img with an optional pixel grid and, when region is not
// nil, the selection outline drawn just inside the region's edges.
func Preview(img image.Image, region *analysis.Region, opts PreviewOptions) (*PreviewResult, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	result := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(result, result.Bounds(), img, bounds.Min, draw.Src)

	if opts.GridSpacing > 0 {
		gridColor := parseColor(opts.GridColor, defaultGridColor)
		for x := opts.GridSpacing; x < width; x += opts.GridSpacing {
			for y := 0; y < height; y++ {
				result.Set(x, y, gridColor)
			}
		}
		for y := opts.GridSpacing; y < height; y += opts.GridSpacing {
			for x := 0; x < width; x++ {
				result.Set(x, y, gridColor)
			}
		}

		if opts.ShowCoordinates {
			fg := color.NRGBA{255, 255, 255, 255}
			bg := color.NRGBA{0, 0, 0, 180}
			for y := opts.GridSpacing; y < height; y += opts.GridSpacing {
				for x := opts.GridSpacing; x < width; x += opts.GridSpacing {
					drawLabel(result, x+2, y+2, fmt.Sprintf("%d,%d", x, y), fg, bg)
				}
			}
		}
	}

	res := &PreviewResult{GridSpacing: opts.GridSpacing, MimeType: "image/png"}
	if region != nil {
		rect, err := region.Bounds(bounds)
		if err != nil {
			return nil, err
		}
		outline(result, rect.Sub(bounds.Min), parseColor(opts.SelectionColor, defaultSelectionColor))
		r := *region
		res.Region = &r
		res.Tuple = region.Tuple()
	}

	out := Scale(result, opts.Scale)
	encoded, err := EncodePNGBase64(out)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	res.Width = out.Bounds().Dx()
	res.Height = out.Bounds().Dy()
	res.ImageBase64 = encoded
	return res, nil
}

// parseColor parses a "#RRGGBB" or "#RGB" string, returning fallback when s
// is empty or malformed.
func parseColor(s string, fallback color.NRGBA) color.NRGBA {
	if s == "" {
		return fallback
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return fallback
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// outline draws a 1-pixel rectangle border along the inside of r.
func outline(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetNRGBA(x, r.Min.Y, c)
		img.SetNRGBA(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetNRGBA(r.Min.X, y, c)
		img.SetNRGBA(r.Max.X-1, y, c)
	}
}

// drawLabel draws text with a tiny built-in 3x5 font for digits and comma.
func drawLabel(img *image.NRGBA, x, y int, text string, fg, bg color.NRGBA) {
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
		',': {"000", "000", "000", "010", "010"},
	}

	bounds := img.Bounds()
	const charWidth, labelHeight = 4, 7
	labelWidth := len(text) * charWidth

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			if p := image.Pt(x+dx, y+dy); p.In(bounds) {
				img.SetNRGBA(p.X, p.Y, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		if glyph, ok := glyphs[ch]; ok {
			for row, line := range glyph {
				for col, bit := range line {
					if p := image.Pt(cx+col, y+row); bit == '1' && p.In(bounds) {
						img.SetNRGBA(p.X, p.Y, fg)
					}
				}
			}
		}
		cx += charWidth
	}
}
