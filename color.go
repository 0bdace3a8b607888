package swatchgrid

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an opaque 8-bit RGB triple. It is comparable and used directly as a
// frequency table key.
type Color struct {
	R, G, B uint8
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}.RGBA()
}

// Hex returns the color as a lowercase #rrggbb string.
func (c Color) Hex() string {
	return c.Colorful().Hex()
}

func (c Color) Colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// ColorOf converts any color.Color, dropping alpha.
func ColorOf(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{n.R, n.G, n.B}
}

// Palette is an ordered list of colors, most frequent first.
type Palette []Color

func (p Palette) Hex() []string {
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = c.Hex()
	}
	return out
}

// Colorful converts the palette for use with go-colorful helpers.
func (p Palette) Colorful() []colorful.Color {
	out := make([]colorful.Color, len(p))
	for i, c := range p {
		out[i] = c.Colorful()
	}
	return out
}
