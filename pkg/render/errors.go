package render

import "errors"

var (
	// ErrInvalidDisplay is returned for a display with a non-positive
	// width or height. No raster is allocated.
	ErrInvalidDisplay = errors.New("invalid display")

	// ErrDegenerateCamera reports a camera whose position equals its
	// focal point, so no view direction exists.
	ErrDegenerateCamera = errors.New("degenerate camera: zero-length gaze")

	// ErrInvalidCamera is returned by setters given out-of-range optics.
	ErrInvalidCamera = errors.New("invalid camera parameter")

	// ErrInvalidLight is returned for a light with a negative intensity, a
	// colour channel outside [0, 1] or a non-finite position.
	ErrInvalidLight = errors.New("invalid light")
)
