// Package analysis implements the region color analyzer behind spritex.
//
// Given a captured frame and a rectangular region, the analyzer answers two
// questions: which colors appear inside the region but nowhere else in the
// frame, and which pixels of the region change between sibling frames that
// share the same layout. Both are used to cut a sprite out of its background.
//
// # Regions
//
// A Region is (X, Y, Width, Height) in image pixel space, relative to the
// image's top-left corner. Its crop bounds are half-open:
// [X, X+Width) horizontally and [Y, Y+Height) vertically. A region with zero
// area is "not selected" and is rejected with ErrNoSelection. Regions that
// extend past the image are rejected with ErrRegionOutOfBounds; they are
// never clamped.
//
// # Results
//
// An empty unique color set is a valid outcome, not an error. HighlightUnique
// reports it through its boolean result so callers can tell "nothing unique"
// apart from a failure.
//
// CompareFrames measures how one region differs between two frames and
// returns the bounding box of the change, a tighter selection for
// ExtractTransparent.
//
// All functions are synchronous and hold no state between calls. A
// ProgressFunc may be supplied to observe long-running work.
package analysis
