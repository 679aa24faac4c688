package main

import (
	"fmt"
	"image"
	"io"
	"log"

	"github.com/ironsheep/spritex/internal/analysis"
	"github.com/ironsheep/spritex/internal/imaging"
	"github.com/ironsheep/spritex/internal/server"
)

// RegionFlags select the rectangle a command works on. The right and bottom
// edges (x+width, y+height) are exclusive.
type RegionFlags struct {
	X      int `help:"Left edge of the region." default:"0"`
	Y      int `help:"Top edge of the region." default:"0"`
	Width  int `help:"Region width in pixels." required:""`
	Height int `help:"Region height in pixels." required:""`
}

func (f RegionFlags) region() analysis.Region {
	return analysis.Region{X: f.X, Y: f.Y, Width: f.Width, Height: f.Height}
}

// frame is the positional frame argument shared by the image commands.
type frame struct {
	Path string `arg:"" type:"existingfile" help:"Captured frame (PNG)."`
}

// load decodes the frame through a fresh cache, which later sibling loads
// can share.
func (f frame) load() (*imaging.ImageCache, image.Image, error) {
	cache := imaging.NewImageCache()
	img, err := cache.Load(f.Path)
	if err != nil {
		return nil, nil, err
	}
	return cache, img, nil
}

// progressLogger logs progress of op at debug level, or returns nil.
func progressLogger(g *Globals, op string) analysis.ProgressFunc {
	if !g.debug() {
		return nil
	}
	return func(percent int) {
		log.Printf("%s: %d%%", op, percent)
	}
}

// ServeCmd runs the MCP server.
type ServeCmd struct{}

func (c *ServeCmd) Run(g *Globals) error {
	srv := server.New(server.WithDebug(g.debug()))
	return srv.Run()
}

// SpriteCmd saves the region as sprite_*.png.
type SpriteCmd struct {
	frame
	RegionFlags `embed:""`

	Scale float64 `help:"Nearest-neighbor scale factor for the saved sprite." default:"1"`
}

func (c *SpriteCmd) Run(g *Globals, out io.Writer) error {
	_, img, err := c.load()
	if err != nil {
		return err
	}

	sprite, err := imaging.CropImage(img, c.region())
	if err != nil {
		return err
	}
	path, err := imaging.NewOutputWriter().Save(c.Path, imaging.OpSprite, imaging.Scale(sprite, c.Scale))
	if err != nil {
		return err
	}
	fmt.Fprintln(out, c.region().Tuple())
	fmt.Fprintln(out, path)
	return nil
}

// UniqueCmd prints the colors found only inside the region.
type UniqueCmd struct {
	frame
	RegionFlags `embed:""`

	Save bool `help:"Write the colors as a strip PNG next to the frame." default:"true" negatable:""`
}

func (c *UniqueCmd) Run(g *Globals, out io.Writer) error {
	_, img, err := c.load()
	if err != nil {
		return err
	}

	colors, err := analysis.FindUniqueColors(img, c.region(), progressLogger(g, "unique"))
	if err != nil {
		return err
	}
	if len(colors) == 0 {
		fmt.Fprintln(out, "no unique colors in region")
		return nil
	}

	for _, desc := range imaging.DescribeColors(colors) {
		fmt.Fprintf(out, "%s %s\n", desc.Hex, desc.RGB)
	}
	if c.Save {
		path, err := imaging.NewOutputWriter().Save(c.Path, imaging.OpUnique, analysis.UniqueColorStrip(colors))
		if err != nil {
			return err
		}
		fmt.Fprintln(out, path)
	}
	return nil
}

// HighlightCmd saves the unique-color mask of the region as highlight_*.png.
type HighlightCmd struct {
	frame
	RegionFlags `embed:""`
}

func (c *HighlightCmd) Run(g *Globals, out io.Writer) error {
	_, img, err := c.load()
	if err != nil {
		return err
	}

	mask, found, err := analysis.HighlightUnique(img, c.region(), progressLogger(g, "highlight"))
	if err != nil {
		return err
	}
	if !found {
		fmt.Fprintln(out, "no unique colors in region")
		return nil
	}

	path, err := imaging.NewOutputWriter().Save(c.Path, imaging.OpHighlight, mask)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, path)
	return nil
}

// ExtractCmd folds the region across the frame and its siblings into
// extracted_*.png.
type ExtractCmd struct {
	frame
	RegionFlags `embed:""`

	Mode      string `help:"Comparison mode: tolerant keeps changing pixels, exact keeps stable ones." enum:"tolerant,exact" default:"tolerant"`
	Tolerance uint8  `help:"Per-channel difference treated as no change in tolerant mode." default:"0"`
}

func (c *ExtractCmd) Run(g *Globals, out io.Writer) error {
	mode, err := analysis.ParseDiffMode(c.Mode)
	if err != nil {
		return err
	}
	cache, ref, err := c.load()
	if err != nil {
		return err
	}

	paths, siblings, err := imaging.LoadSiblings(cache, c.Path)
	if err != nil {
		return err
	}
	if g.debug() {
		log.Printf("extract: %d sibling frames next to %s", len(paths), c.Path)
	}

	sprite, err := analysis.ExtractTransparent(ref, siblings, c.region(), analysis.ExtractOptions{
		Mode:      mode,
		Tolerance: c.Tolerance,
		Progress:  progressLogger(g, "extract"),
	})
	if err != nil {
		return err
	}

	path, err := imaging.NewOutputWriter().Save(c.Path, imaging.OpExtracted, sprite)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%d frames, %s\n", len(siblings)+1, mode)
	fmt.Fprintln(out, path)
	return nil
}

// CompareCmd reports how the region differs between two frames.
type CompareCmd struct {
	frame
	Other string `arg:"" type:"existingfile" help:"Frame to compare against."`

	RegionFlags `embed:""`

	Tolerance uint8 `help:"Per-channel difference treated as no change." default:"0"`
}

func (c *CompareCmd) Run(out io.Writer) error {
	_, first, err := c.load()
	if err != nil {
		return err
	}
	_, second, err := frame{Path: c.Other}.load()
	if err != nil {
		return err
	}

	diff, err := analysis.CompareFrames(first, second, c.region(), c.Tolerance)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%d of %d pixels differ (max delta %d)\n", diff.PixelsDifferent, diff.TotalPixels, diff.MaxDelta)
	if diff.Changed != nil {
		fmt.Fprintln(out, diff.Changed.Tuple())
	}
	return nil
}

// RegionCmd prints a region tuple after applying arrow-key nudges.
type RegionCmd struct {
	RegionFlags `embed:""`

	Nudge []string `help:"Arrow-key steps applied in order (up, down, left, right)." sep:","`
	Mode  string   `help:"Nudge mode: move, resize (far edge) or edge (near edge)." enum:"move,resize,edge" default:"move"`
	Shift bool     `help:"Use the large nudge step."`
}

func (c *RegionCmd) Run(out io.Writer) error {
	mode, err := analysis.ParseNudgeMode(c.Mode)
	if err != nil {
		return err
	}
	step := analysis.NudgeStep
	if c.Shift {
		step = analysis.NudgeShiftStep
	}

	r := c.region()
	for _, s := range c.Nudge {
		d, err := analysis.ParseDirection(s)
		if err != nil {
			return err
		}
		r = r.Nudge(d, mode, step)
	}
	fmt.Fprintln(out, r.Tuple())
	return nil
}

// VersionCmd prints build information.
type VersionCmd struct{}

func (c *VersionCmd) Run(out io.Writer) error {
	fmt.Fprintf(out, "spritex %s\n", Version)
	fmt.Fprintf(out, "  Build time: %s\n", BuildTime)
	fmt.Fprintf(out, "  Git commit: %s\n", GitCommit)
	return nil
}
