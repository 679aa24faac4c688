package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/spritex/internal/analysis"
)

// CropResult contains a cropped sprite encoded for transport.
type CropResult struct {
	Width  int             `json:"width"`
	Height int             `json:"height"`
	Region analysis.Region `json:"region"`

	// Tuple is the region formatted for capture scripts, see Region.Tuple.
	Tuple string `json:"tuple"`

	ImageBase64 string `json:"image_base64,omitempty"`
	MimeType    string `json:"mime_type,omitempty"`

	// Path is set when the sprite was written to disk.
	Path string `json:"path,omitempty"`
}

// CropImage cuts region out of img. The region must lie inside the image.
func CropImage(img image.Image, region analysis.Region) (*image.NRGBA, error) {
	rect, err := region.Bounds(img.Bounds())
	if err != nil {
		return nil, err
	}
	return imaging.Crop(img, rect), nil
}

// Crop cuts region out of img, optionally scales it with nearest-neighbor
// sampling so pixel art stays sharp, and returns it as base64 PNG.
func Crop(img image.Image, region analysis.Region, scale float64) (*CropResult, error) {
	cropped, err := CropImage(img, region)
	if err != nil {
		return nil, err
	}

	out := Scale(cropped, scale)
	encoded, err := EncodePNGBase64(out)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cropped image: %w", err)
	}

	return &CropResult{
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		Region:      region,
		Tuple:       region.Tuple(),
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

// Scale resizes img by factor using nearest-neighbor sampling.
// A factor of 1 or less than or equal to 0 returns img unchanged.
func Scale(img *image.NRGBA, factor float64) *image.NRGBA {
	if factor == 1.0 || factor <= 0 {
		return img
	}
	w := int(float64(img.Bounds().Dx()) * factor)
	h := int(float64(img.Bounds().Dy()) * factor)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return imaging.Resize(img, w, h, imaging.NearestNeighbor)
}

// EncodePNGBase64 encodes img as PNG and returns it base64 encoded.
func EncodePNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
