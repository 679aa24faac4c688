package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ImageCache keeps decoded frames in memory so repeated operations on the
// same capture do not hit the disk again.
//
// Frames are keyed by the exact path string passed to Load. Different
// spellings of the same file (relative vs absolute) produce separate entries.
//
// ImageCache is safe for concurrent use by multiple goroutines.
//
// # Memory Management
//
// Cached frames stay in memory until Evict or Clear is called. A directory
// of sibling frames can be large; callers that scan many directories should
// evict the siblings once an extraction is done.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache creates an empty cache ready for use.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
	}
}

// Load returns the decoded frame at path, reading it from disk on first use.
//
// PNG, JPEG and GIF are supported. The concrete image type depends on the
// file (e.g. *image.NRGBA for an RGBA PNG, *image.Paletted for an indexed
// one); the analyzer normalizes whatever it receives.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns error if the file is not a decodable image
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", filepath.Base(path), err)
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Clear drops every cached frame.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict drops the frames cached under the given paths. Unknown paths are
// ignored.
func (c *ImageCache) Evict(paths ...string) {
	c.mu.Lock()
	for _, p := range paths {
		delete(c.images, p)
	}
	c.mu.Unlock()
}

// Len returns the number of cached frames.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// ImageInfo describes a captured frame on disk.
type ImageInfo struct {
	// Path is the file the frame was loaded from.
	Path string `json:"path"`

	Width  int `json:"width"`
	Height int `json:"height"`

	// Format is "png", "jpeg", "gif" or "unknown", taken from the extension.
	Format string `json:"format"`

	// HasAlpha reports whether the decoded frame carries an alpha channel.
	HasAlpha bool `json:"has_alpha"`

	// Siblings is the number of other PNG frames in the same directory,
	// i.e. how many frames a transparent extraction would fold.
	Siblings int `json:"siblings"`

	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads the frame at path through cache and reports its
// metadata together with the number of sibling frames next to it.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	siblings, err := ScanSiblings(path)
	if err != nil {
		return nil, err
	}

	format := "unknown"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		format = "png"
	case ".jpg", ".jpeg":
		format = "jpeg"
	case ".gif":
		format = "gif"
	}

	hasAlpha := false
	switch img.(type) {
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
	}

	bounds := img.Bounds()
	return &ImageInfo{
		Path:          path,
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        format,
		HasAlpha:      hasAlpha,
		Siblings:      len(siblings),
		FileSizeBytes: stat.Size(),
	}, nil
}

// ScanSiblings lists the other PNG files in the directory of referencePath,
// sorted by name. The reference itself and files previously written by an
// OutputWriter are excluded. An empty result is not an error; the extraction
// step reports it.
func ScanSiblings(referencePath string) ([]string, error) {
	dir := filepath.Dir(referencePath)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	refAbs, err := filepath.Abs(referencePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", referencePath, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".png") || IsOutputName(e.Name()) {
			continue
		}
		p := filepath.Join(dir, e.Name())
		if abs, err := filepath.Abs(p); err == nil && abs == refAbs {
			continue
		}
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}

// LoadSiblings scans and decodes the sibling frames of referencePath.
// The returned slices are parallel: frames[i] was loaded from paths[i].
func LoadSiblings(cache *ImageCache, referencePath string) ([]string, []image.Image, error) {
	paths, err := ScanSiblings(referencePath)
	if err != nil {
		return nil, nil, err
	}

	frames := make([]image.Image, 0, len(paths))
	for _, p := range paths {
		img, err := cache.Load(p)
		if err != nil {
			return nil, nil, err
		}
		frames = append(frames, img)
	}
	return paths, frames, nil
}
