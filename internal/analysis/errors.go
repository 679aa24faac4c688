package analysis

import "errors"

var (
	// ErrEmptyInput is returned when a frame fold is given no sibling frames.
	ErrEmptyInput = errors.New("no sibling frames to compare")

	// ErrNoSelection is returned for a region with zero area.
	ErrNoSelection = errors.New("region is not selected")

	// ErrRegionOutOfBounds is returned when a region extends past the image.
	ErrRegionOutOfBounds = errors.New("region outside image bounds")
)
