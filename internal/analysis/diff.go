package analysis

import (
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
)

// DiffMode selects how sibling frames are compared by ExtractTransparent.
type DiffMode int

const (
	// DiffTolerant folds frames in order and keeps every pixel whose RGB
	// changed by more than the tolerance between two consecutive frames.
	// The kept value is taken from the newer frame of the last change, so
	// the result depends on frame order.
	DiffTolerant DiffMode = iota

	// DiffExact keeps a pixel only if it is identical in every frame.
	// The result does not depend on frame order.
	DiffExact
)

func (m DiffMode) String() string {
	switch m {
	case DiffTolerant:
		return "tolerant"
	case DiffExact:
		return "exact"
	default:
		return fmt.Sprintf("DiffMode(%d)", int(m))
	}
}

// ParseDiffMode parses "tolerant" or "exact". The empty string selects
// DiffTolerant.
func ParseDiffMode(s string) (DiffMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "tolerant":
		return DiffTolerant, nil
	case "exact":
		return DiffExact, nil
	}
	return 0, fmt.Errorf("unknown diff mode: %q", s)
}

// ExtractOptions configures ExtractTransparent.
type ExtractOptions struct {
	Mode DiffMode

	// Tolerance is the largest per-channel delta still treated as "no
	// change" by DiffTolerant. Zero means any difference counts.
	Tolerance uint8

	Progress ProgressFunc
}

// ExtractTransparent compares region across reference and its sibling
// frames and returns a region-sized NRGBA image in which kept pixels are
// opaque and everything else is transparent black.
//
// It fails with ErrEmptyInput when siblings is empty, and with a region error
// when region does not fit the reference or any sibling.
func ExtractTransparent(reference image.Image, siblings []image.Image, region Region, opts ExtractOptions) (*image.NRGBA, error) {
	if len(siblings) == 0 {
		return nil, ErrEmptyInput
	}

	crops := make([]*image.NRGBA, 0, len(siblings)+1)
	rect, err := region.Bounds(reference.Bounds())
	if err != nil {
		return nil, fmt.Errorf("reference frame: %w", err)
	}
	crops = append(crops, imaging.Crop(reference, rect))
	for i, sib := range siblings {
		rect, err := region.Bounds(sib.Bounds())
		if err != nil {
			return nil, fmt.Errorf("sibling frame %d: %w", i, err)
		}
		crops = append(crops, imaging.Crop(sib, rect))
	}

	opts.Progress.report(0)
	var out *image.NRGBA
	switch opts.Mode {
	case DiffTolerant:
		out = foldChanges(crops, opts.Tolerance, opts.Progress)
	case DiffExact:
		out = keepIdentical(crops, opts.Progress)
	default:
		return nil, fmt.Errorf("unsupported diff mode: %v", opts.Mode)
	}
	opts.Progress.report(100)
	return out, nil
}

// foldChanges walks consecutive crop pairs and marks pixels whose largest
// channel delta exceeds tolerance, copying the newer crop's color.
func foldChanges(crops []*image.NRGBA, tolerance uint8, progress ProgressFunc) *image.NRGBA {
	out := image.NewNRGBA(crops[0].Bounds())
	prev := crops[0]
	steps := len(crops) - 1
	for n, next := range crops[1:] {
		for i := 0; i+3 < len(out.Pix); i += 4 {
			if channelDelta(prev.Pix[i:i+3], next.Pix[i:i+3]) > tolerance {
				out.Pix[i] = next.Pix[i]
				out.Pix[i+1] = next.Pix[i+1]
				out.Pix[i+2] = next.Pix[i+2]
				out.Pix[i+3] = 255
			}
		}
		prev = next
		progress.report((n + 1) * 100 / steps)
	}
	return out
}

// keepIdentical keeps the pixels that match the first crop in all crops.
func keepIdentical(crops []*image.NRGBA, progress ProgressFunc) *image.NRGBA {
	ref := crops[0]
	out := image.NewNRGBA(ref.Bounds())
	for i := 0; i+3 < len(ref.Pix); i += 4 {
		out.Pix[i] = ref.Pix[i]
		out.Pix[i+1] = ref.Pix[i+1]
		out.Pix[i+2] = ref.Pix[i+2]
		out.Pix[i+3] = 255
	}
	steps := len(crops) - 1
	for n, next := range crops[1:] {
		for i := 0; i+3 < len(out.Pix); i += 4 {
			if out.Pix[i+3] != 0 && channelDelta(ref.Pix[i:i+3], next.Pix[i:i+3]) != 0 {
				out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3] = 0, 0, 0, 0
			}
		}
		progress.report((n + 1) * 100 / steps)
	}
	return out
}

// channelDelta returns the largest absolute difference between the RGB
// components of a and b.
func channelDelta(a, b []uint8) uint8 {
	var d uint8
	for c := 0; c < 3; c++ {
		v := a[c] - b[c]
		if b[c] > a[c] {
			v = b[c] - a[c]
		}
		if v > d {
			d = v
		}
	}
	return d
}
