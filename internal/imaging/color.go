package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/spritex/internal/analysis"
)

// RGBAColor represents an RGBA color with 8-bit components including alpha.
//
// The alpha component represents opacity:
//   - 0 = fully transparent
//   - 255 = fully opaque
type RGBAColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a color value in several representations.
type ColorResult struct {
	Hex  string         `json:"hex"` // "#RRGGBB", alpha excluded
	RGB  analysis.Pixel `json:"rgb"`
	RGBA RGBAColor      `json:"rgba"`
	HSL  HSLColor       `json:"hsl"`
}

// DescribeColor converts an 8-bit color into a ColorResult.
func DescribeColor(c color.NRGBA) ColorResult {
	cf := colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
	h, s, l := cf.Hsl()

	return ColorResult{
		Hex:  strings.ToUpper(cf.Hex()),
		RGB:  analysis.Pixel{R: c.R, G: c.G, B: c.B},
		RGBA: RGBAColor{R: c.R, G: c.G, B: c.B, A: c.A},
		HSL: HSLColor{
			H: int(math.Round(h)) % 360,
			S: int(math.Round(s * 100)),
			L: int(math.Round(l * 100)),
		},
	}
}

// DescribeColors converts analyzer pixels into opaque ColorResults, keeping
// their order.
func DescribeColors(pixels []analysis.Pixel) []ColorResult {
	out := make([]ColorResult, 0, len(pixels))
	for _, p := range pixels {
		out = append(out, DescribeColor(p.NRGBA()))
	}
	return out
}

// SampleColor returns the color at (x, y).
//
// The native color is converted to non-premultiplied 8-bit components, so
// semi-transparent pixels report their straight RGB values.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	bounds := img.Bounds()
	pt := image.Pt(x, y).Add(bounds.Min)
	if !pt.In(bounds) {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	c := color.NRGBAModel.Convert(img.At(pt.X, pt.Y)).(color.NRGBA)
	result := DescribeColor(c)
	return &result, nil
}

// PaletteEntry is one dominant color of a region.
type PaletteEntry struct {
	Color ColorResult `json:"color"`

	// Weight is the share of the sampled pixels represented by this color
	// (0-1).
	Weight float64 `json:"weight"`
}

// PaletteResult contains the dominant colors of a region, heaviest first.
type PaletteResult struct {
	Region analysis.Region `json:"region"`
	Colors []PaletteEntry  `json:"colors"`
}

// Palette extracts up to count dominant colors from region of img.
//
// Colors are clustered, so the entries are representative rather than exact
// pixel values; use analysis.FindUniqueColors for exact membership.
func Palette(img image.Image, region analysis.Region, count int) (*PaletteResult, error) {
	if count <= 0 {
		return nil, fmt.Errorf("palette size must be positive, got %d", count)
	}
	sprite, err := CropImage(img, region)
	if err != nil {
		return nil, err
	}

	found := dominantcolor.FindWeight(sprite, count)
	if len(found) == 0 {
		found = []dominantcolor.Color{{RGBA: meanColor(sprite), Weight: 1}}
	}
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].Weight > found[j].Weight
	})
	entries := make([]PaletteEntry, 0, len(found))
	for _, c := range found {
		entries = append(entries, PaletteEntry{
			Color:  DescribeColor(color.NRGBA{R: c.RGBA.R, G: c.RGBA.G, B: c.RGBA.B, A: 255}),
			Weight: c.Weight,
		})
	}

	return &PaletteResult{Region: region, Colors: entries}, nil
}

// meanColor averages the RGB of every pixel of img.
func meanColor(img *image.NRGBA) color.RGBA {
	var r, g, b, n int
	for i := 0; i+3 < len(img.Pix); i += 4 {
		r += int(img.Pix[i])
		g += int(img.Pix[i+1])
		b += int(img.Pix[i+2])
		n++
	}
	if n == 0 {
		return color.RGBA{A: 255}
	}
	return color.RGBA{R: uint8(r / n), G: uint8(g / n), B: uint8(b / n), A: 255}
}
