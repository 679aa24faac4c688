package analysis

import (
	"fmt"
	"image"
	"image/color"
	"sort"

	"github.com/disintegration/imaging"
)

// Pixel is an 8-bit RGB value. Alpha is ignored when colors are compared.
type Pixel struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Less orders pixels by (R, G, B) tuple.
func (p Pixel) Less(q Pixel) bool {
	if p.R != q.R {
		return p.R < q.R
	}
	if p.G != q.G {
		return p.G < q.G
	}
	return p.B < q.B
}

// NRGBA returns p as an opaque color.
func (p Pixel) NRGBA() color.NRGBA {
	return color.NRGBA{R: p.R, G: p.G, B: p.B, A: 255}
}

func (p Pixel) String() string {
	return fmt.Sprintf("(%d,%d,%d)", p.R, p.G, p.B)
}

type colorSet map[Pixel]struct{}

// distinctColors collects the RGB values present in img.
func distinctColors(img *image.NRGBA) colorSet {
	set := make(colorSet)
	b := img.Bounds()
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+b.Dx()*4]
		for i := 0; i < len(row); i += 4 {
			set[Pixel{row[i], row[i+1], row[i+2]}] = struct{}{}
		}
	}
	return set
}

// FindUniqueColors returns the colors that occur inside region but nowhere
// else in img, sorted in descending (R, G, B) order.
//
// The outside colors are taken from a copy of img with the region painted
// black, so black is always counted as an outside color. When region covers
// the whole image there is no outside and the result is empty. An empty
// result is not an error.
func FindUniqueColors(img image.Image, region Region, progress ProgressFunc) ([]Pixel, error) {
	progress.report(0)

	bounds := img.Bounds()
	rect, err := region.Bounds(bounds)
	if err != nil {
		return nil, err
	}
	progress.report(5)

	unique := []Pixel{}
	if rect.Eq(bounds) {
		progress.report(100)
		return unique, nil
	}

	sprite := imaging.Crop(img, rect)
	progress.report(10)

	rest := imaging.Paste(img, imaging.New(rect.Dx(), rect.Dy(), color.Black), rect.Min)
	progress.report(30)

	restColors := distinctColors(rest)
	progress.report(50)

	spriteColors := distinctColors(sprite)
	progress.report(90)

	for c := range spriteColors {
		if _, ok := restColors[c]; !ok {
			unique = append(unique, c)
		}
	}
	sort.Slice(unique, func(i, j int) bool {
		return unique[j].Less(unique[i])
	})

	progress.report(100)
	return unique, nil
}

// HighlightUnique returns a region-sized mask in which pixels whose color is
// unique to the region keep their RGB at full opacity and every other pixel
// is transparent black.
//
// When the region has no unique colors it returns (nil, false, nil).
func HighlightUnique(img image.Image, region Region, progress ProgressFunc) (*image.NRGBA, bool, error) {
	unique, err := FindUniqueColors(img, region, progress.span(0, 80))
	if err != nil {
		return nil, false, err
	}
	if len(unique) == 0 {
		progress.report(100)
		return nil, false, nil
	}

	set := make(colorSet, len(unique))
	for _, c := range unique {
		set[c] = struct{}{}
	}

	rect, _ := region.Bounds(img.Bounds())
	sprite := imaging.Crop(img, rect)
	mask := image.NewNRGBA(sprite.Bounds())
	for i := 0; i+3 < len(sprite.Pix); i += 4 {
		px := Pixel{sprite.Pix[i], sprite.Pix[i+1], sprite.Pix[i+2]}
		if _, ok := set[px]; ok {
			mask.Pix[i] = px.R
			mask.Pix[i+1] = px.G
			mask.Pix[i+2] = px.B
			mask.Pix[i+3] = 255
		}
	}

	progress.report(100)
	return mask, true, nil
}

// UniqueColorStrip renders colors as a 1-pixel-high opaque strip, one pixel
// per color in the given order. It returns nil for an empty slice.
func UniqueColorStrip(colors []Pixel) *image.NRGBA {
	if len(colors) == 0 {
		return nil
	}
	strip := image.NewNRGBA(image.Rect(0, 0, len(colors), 1))
	for x, c := range colors {
		strip.SetNRGBA(x, 0, c.NRGBA())
	}
	return strip
}
