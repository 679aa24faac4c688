package analysis

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// FrameDiff summarizes how a region differs between two frames.
type FrameDiff struct {
	Region      Region `json:"region"`
	TotalPixels int    `json:"total_pixels"`

	// PixelsDifferent counts pixels whose largest channel delta exceeds the
	// tolerance.
	PixelsDifferent int `json:"pixels_different"`

	// Similarity is the share of pixels within tolerance (0-1).
	Similarity float64 `json:"similarity"`

	MaxDelta     uint8   `json:"max_delta"`
	AverageDelta float64 `json:"average_delta"`

	// Changed is the bounding box of the differing pixels in frame
	// coordinates, nil when nothing differs. It is a tighter selection for
	// ExtractTransparent.
	Changed *Region `json:"changed,omitempty"`
}

// CompareFrames compares region of frame a against the same region of
// frame b. A pixel differs when its largest RGB channel delta is above
// tolerance.
func CompareFrames(a, b image.Image, region Region, tolerance uint8) (*FrameDiff, error) {
	rectA, err := region.Bounds(a.Bounds())
	if err != nil {
		return nil, fmt.Errorf("first frame: %w", err)
	}
	rectB, err := region.Bounds(b.Bounds())
	if err != nil {
		return nil, fmt.Errorf("second frame: %w", err)
	}
	cropA := imaging.Crop(a, rectA)
	cropB := imaging.Crop(b, rectB)

	diff := &FrameDiff{Region: region, TotalPixels: region.Area()}
	box := image.Rectangle{}
	var totalDelta float64

	w := region.Width
	for i := 0; i+3 < len(cropA.Pix); i += 4 {
		d := channelDelta(cropA.Pix[i:i+3], cropB.Pix[i:i+3])
		totalDelta += float64(d)
		if d > diff.MaxDelta {
			diff.MaxDelta = d
		}
		if d <= tolerance {
			continue
		}
		diff.PixelsDifferent++
		n := i / 4
		px := image.Rect(n%w, n/w, n%w+1, n/w+1)
		box = box.Union(px)
	}

	diff.Similarity = math.Round((1-float64(diff.PixelsDifferent)/float64(diff.TotalPixels))*1000) / 1000
	diff.AverageDelta = math.Round(totalDelta/float64(diff.TotalPixels)*100) / 100
	if !box.Empty() {
		diff.Changed = &Region{
			X:      region.X + box.Min.X,
			Y:      region.Y + box.Min.Y,
			Width:  box.Dx(),
			Height: box.Dy(),
		}
	}
	return diff, nil
}
