package imaging

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/spritex/internal/analysis"
)

func TestPreview_Grid(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{0, 0, 0, 255})

	result, err := Preview(img, nil, PreviewOptions{GridSpacing: 25, GridColor: "#FF0000"})
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}

	if result.Width != 100 || result.Height != 100 {
		t.Errorf("dimensions: got %dx%d, want 100x100", result.Width, result.Height)
	}
	if result.GridSpacing != 25 {
		t.Errorf("GridSpacing: got %d, want 25", result.GridSpacing)
	}
	if result.Region != nil {
		t.Error("Region should be nil without a selection")
	}

	out := decodeBase64PNG(t, result.ImageBase64)
	if r, g, b := rgb8(out.At(25, 50)); r != 255 || g != 0 || b != 0 {
		t.Errorf("grid line at (25,50): got (%d,%d,%d), want (255,0,0)", r, g, b)
	}
	if r, g, b := rgb8(out.At(15, 15)); r != 0 || g != 0 || b != 0 {
		t.Errorf("background at (15,15): got (%d,%d,%d), want (0,0,0)", r, g, b)
	}
}

func TestPreview_Selection(t *testing.T) {
	img := createInMemoryImage(20, 20, color.RGBA{0, 0, 0, 255})
	region := analysis.Region{X: 5, Y: 5, Width: 4, Height: 3}

	result, err := Preview(img, &region, PreviewOptions{SelectionColor: "#00FF00"})
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if result.Region == nil || *result.Region != region {
		t.Errorf("Region: got %v, want %+v", result.Region, region)
	}
	if result.Tuple != region.Tuple() {
		t.Errorf("Tuple: got %s, want %s", result.Tuple, region.Tuple())
	}

	out := decodeBase64PNG(t, result.ImageBase64)
	edges := [][2]int{{5, 5}, {8, 5}, {5, 7}, {8, 7}, {6, 5}, {5, 6}}
	for _, p := range edges {
		if r, g, b := rgb8(out.At(p[0], p[1])); r != 0 || g != 255 || b != 0 {
			t.Errorf("outline at (%d,%d): got (%d,%d,%d), want green", p[0], p[1], r, g, b)
		}
	}
	for _, p := range [][2]int{{6, 6}, {4, 5}, {9, 5}, {5, 8}} {
		if r, g, b := rgb8(out.At(p[0], p[1])); r != 0 || g != 0 || b != 0 {
			t.Errorf("(%d,%d) should be untouched, got (%d,%d,%d)", p[0], p[1], r, g, b)
		}
	}
}

func TestPreview_InvalidSelection(t *testing.T) {
	img := createInMemoryImage(20, 20, color.White)
	region := analysis.Region{X: 15, Y: 15, Width: 10, Height: 10}

	if _, err := Preview(img, &region, PreviewOptions{}); !errors.Is(err, analysis.ErrRegionOutOfBounds) {
		t.Errorf("error: got %v, want ErrRegionOutOfBounds", err)
	}
}

func TestPreview_Scale(t *testing.T) {
	img := createInMemoryImage(10, 6, color.White)

	result, err := Preview(img, nil, PreviewOptions{Scale: 3})
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if result.Width != 30 || result.Height != 18 {
		t.Errorf("dimensions: got %dx%d, want 30x18", result.Width, result.Height)
	}
}

func TestPreview_WithCoordinates(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{128, 128, 128, 255})

	result, err := Preview(img, nil, PreviewOptions{GridSpacing: 50, ShowCoordinates: true})
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}

	out := decodeBase64PNG(t, result.ImageBase64)
	// Label background starts one pixel up-left of (52,52).
	if r, g, b := rgb8(out.At(51, 51)); r == 128 && g == 128 && b == 128 {
		t.Error("coordinate label background was not drawn")
	}
}

func TestParseColor(t *testing.T) {
	fallback := color.NRGBA{1, 2, 3, 4}

	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#FF0000", color.NRGBA{255, 0, 0, 255}},
		{"#00ff00", color.NRGBA{0, 255, 0, 255}},
		{"#00F", color.NRGBA{0, 0, 255, 255}},
		{"", fallback},
		{"red", fallback},
		{"#GGGGGG", fallback},
	}

	for _, tt := range tests {
		if got := parseColor(tt.in, fallback); got != tt.want {
			t.Errorf("parseColor(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDrawLabel_BoundsCheck(t *testing.T) {
	img := createInMemoryImage(10, 10, color.White)
	dst := Scale(mustCrop(t, img), 1)

	// Should not panic when drawing near or past the edge
	drawLabel(dst, 8, 8, "123", color.NRGBA{255, 255, 255, 255}, color.NRGBA{0, 0, 0, 255})
	drawLabel(dst, -5, -5, "9,9", color.NRGBA{255, 255, 255, 255}, color.NRGBA{0, 0, 0, 255})
}

func mustCrop(t *testing.T, img *image.RGBA) *image.NRGBA {
	t.Helper()
	out, err := CropImage(img, analysis.Region{X: 0, Y: 0, Width: img.Bounds().Dx(), Height: img.Bounds().Dy()})
	if err != nil {
		t.Fatalf("CropImage failed: %v", err)
	}
	return out
}
