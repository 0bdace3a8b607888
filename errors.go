package swatchgrid

import "errors"

var (
	// ErrDecode is returned when the input bytes are not a supported raster image.
	ErrDecode = errors.New("swatchgrid: cannot decode image")
	// ErrInvalidParameter is returned for out-of-range pipeline parameters.
	ErrInvalidParameter = errors.New("swatchgrid: invalid parameter")
	// ErrShapeMismatch is returned when rows*cols differs from the palette length.
	ErrShapeMismatch = errors.New("swatchgrid: grid shape does not match palette")
	// ErrEmptyPalette is returned when an image yields no colors at all.
	ErrEmptyPalette = errors.New("swatchgrid: no colors found")
)
