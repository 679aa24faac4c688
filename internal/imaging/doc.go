// Package imaging provides the image I/O and presentation helpers around the
// spritex analyzer.
//
// It loads and caches decoded frames, finds sibling frames next to a
// reference capture, crops regions, describes colors, renders selection
// previews and writes result rasters back to disk. The color analysis itself
// lives in package analysis; this package only moves pixels in and out.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. Regions are expressed as
// analysis.Region values and resolve to half-open rectangles:
// [X, X+Width) by [Y, Y+Height).
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. The remaining functions are
// stateless and can be called concurrently on different images.
//
// # Output Files
//
// OutputWriter writes PNG files into the directory of the source frame, named
// "{operation}_{YYYYMMDDHHMMSS}.png" where operation is one of sprite, unique,
// highlight or extracted.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Regions outside the image bounds or with zero area
//   - File I/O errors during image loading or saving
//   - Encoding errors during image output
package imaging
