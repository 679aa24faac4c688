package analysis

import (
	"fmt"
	"image"
	"strings"
)

// Region is a rectangular selection in image pixel coordinates.
//
// (X, Y) is the top-left corner relative to the image origin. The crop
// rectangle is half-open: it covers X..X+Width-1 and Y..Y+Height-1.
type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect returns the half-open crop rectangle of r with origin at (0,0).
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Area returns Width*Height, or 0 for a degenerate region.
func (r Region) Area() int {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	return r.Width * r.Height
}

// Selected reports whether r has a non-zero area.
func (r Region) Selected() bool {
	return r.Area() > 0
}

// Bounds resolves r against bounds and returns the crop rectangle in the
// image's own coordinate space.
func (r Region) Bounds(bounds image.Rectangle) (image.Rectangle, error) {
	if !r.Selected() {
		return image.Rectangle{}, fmt.Errorf("%w: %s", ErrNoSelection, r)
	}
	rect := r.Rect().Add(bounds.Min)
	if !rect.In(bounds) {
		return image.Rectangle{}, fmt.Errorf("%w: %s in %dx%d image",
			ErrRegionOutOfBounds, r, bounds.Dx(), bounds.Dy())
	}
	return rect, nil
}

// String formats r as "x,y widthxheight".
func (r Region) String() string {
	return fmt.Sprintf("%d,%d %dx%d", r.X, r.Y, r.Width, r.Height)
}

// Tuple formats r as a row-major bounds tuple suitable for pasting into
// capture scripts: "REGION": (top, left, bottom, right).
func (r Region) Tuple() string {
	return fmt.Sprintf(`"REGION": (%d, %d, %d, %d)`, r.Y, r.X, r.Y+r.Height, r.X+r.Width)
}

// Direction is an arrow-key direction used by Nudge.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseDirection parses "up", "down", "left" or "right".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return 0, fmt.Errorf("unknown direction: %q", s)
}

// NudgeMode selects how Nudge adjusts a region.
type NudgeMode int

const (
	// NudgeMove translates the region.
	NudgeMove NudgeMode = iota
	// NudgeResize moves the bottom or right edge.
	NudgeResize
	// NudgeEdge moves the top or left edge, keeping the opposite edge fixed.
	NudgeEdge
)

// ParseNudgeMode parses "move", "resize" or "edge".
func ParseNudgeMode(s string) (NudgeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "move":
		return NudgeMove, nil
	case "resize":
		return NudgeResize, nil
	case "edge":
		return NudgeEdge, nil
	}
	return 0, fmt.Errorf("unknown nudge mode: %q", s)
}

// Nudge steps used for a plain and a shifted key press.
const (
	NudgeStep      = 1
	NudgeShiftStep = 5
)

// Nudge returns r adjusted by amount pixels in direction d.
// Width and Height never go below zero.
func (r Region) Nudge(d Direction, mode NudgeMode, amount int) Region {
	switch mode {
	case NudgeMove:
		switch d {
		case Up:
			r.Y -= amount
		case Down:
			r.Y += amount
		case Left:
			r.X -= amount
		case Right:
			r.X += amount
		}
	case NudgeResize:
		switch d {
		case Up:
			r.Height -= amount
		case Down:
			r.Height += amount
		case Left:
			r.Width -= amount
		case Right:
			r.Width += amount
		}
	case NudgeEdge:
		switch d {
		case Up:
			r.Y -= amount
			r.Height += amount
		case Down:
			r.Y += amount
			r.Height -= amount
		case Left:
			r.X -= amount
			r.Width += amount
		case Right:
			r.X += amount
			r.Width -= amount
		}
	}
	if r.Width < 0 {
		r.Width = 0
	}
	if r.Height < 0 {
		r.Height = 0
	}
	return r
}
