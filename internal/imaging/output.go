package imaging

import (
	"fmt"
	"image"
	"path/filepath"
	"regexp"
	"time"

	"github.com/anthonynsimon/bild/imgio"
)

// Operation names a result raster written by OutputWriter.
type Operation string

const (
	OpSprite    Operation = "sprite"
	OpUnique    Operation = "unique"
	OpHighlight Operation = "highlight"
	OpExtracted Operation = "extracted"
)

// TimestampLayout is the time layout used in output file names.
const TimestampLayout = "20060102150405"

var outputName = regexp.MustCompile(`^(sprite|unique|highlight|extracted)_\d{14}\.png$`)

// IsOutputName reports whether name looks like a file written by an
// OutputWriter.
func IsOutputName(name string) bool {
	return outputName.MatchString(name)
}

// OutputWriter saves result rasters next to the frame they were derived from.
type OutputWriter struct {
	// Now returns the timestamp embedded in file names. Defaults to time.Now.
	Now func() time.Time
}

// NewOutputWriter returns a writer stamping files with the local time.
func NewOutputWriter() *OutputWriter {
	return &OutputWriter{Now: time.Now}
}

// Path returns the file name op would be written to for a frame at
// sourcePath: "{op}_{YYYYMMDDHHMMSS}.png" in the same directory.
func (w *OutputWriter) Path(sourcePath string, op Operation) string {
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	name := fmt.Sprintf("%s_%s.png", op, now().Format(TimestampLayout))
	return filepath.Join(filepath.Dir(sourcePath), name)
}

// Save writes img as PNG next to sourcePath and returns the written path.
func (w *OutputWriter) Save(sourcePath string, op Operation, img image.Image) (string, error) {
	if img == nil {
		return "", fmt.Errorf("no %s image to save", op)
	}
	p := w.Path(sourcePath, op)
	if err := imgio.Save(p, img, imgio.PNGEncoder()); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", p, err)
	}
	return p, nil
}
