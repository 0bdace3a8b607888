package utils

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-sixel"
	"github.com/setanarut/swatchgrid"
)

type PaletteOrder int

const (
	OrderFrequency PaletteOrder = iota
	OrderBrightness
)

func (o PaletteOrder) String() string {
	switch o {
	case OrderBrightness:
		return "brightness"
	default:
		return "frequency"
	}
}

func ParsePaletteOrder(s string) (PaletteOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "frequency", "none":
		return OrderFrequency, nil
	case "brightness":
		return OrderBrightness, nil
	}
	return OrderFrequency, fmt.Errorf("unknown palette order %q", s)
}

// Apply reorders palette in place. OrderFrequency keeps the extraction order.
func (o PaletteOrder) Apply(palette swatchgrid.Palette) {
	if o == OrderBrightness {
		SortPaletteByBrightness(palette)
	}
}

func luminance(c colorful.Color) float64 {
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// SortPaletteByBrightness orders colors from darkest to brightest.
// Colors of equal luminance keep their relative order.
func SortPaletteByBrightness(palette swatchgrid.Palette) {
	slices.SortStableFunc(palette, func(a, b swatchgrid.Color) int {
		yi, yj := luminance(a.Colorful()), luminance(b.Colorful())
		if yi < yj {
			return -1
		}
		if yi > yj {
			return 1
		}
		return 0
	})
}

// DistinctPairs reports the CIE76 distance between neighboring palette
// entries, useful to spot near-duplicate swatches.
func DistinctPairs(palette swatchgrid.Palette) []float64 {
	if len(palette) < 2 {
		return nil
	}
	out := make([]float64, 0, len(palette)-1)
	for i := 1; i < len(palette); i++ {
		a, b := palette[i-1].Colorful(), palette[i].Colorful()
		out = append(out, a.DistanceCIE76(b))
	}
	return out
}

func ReadImage(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

func SaveImage(data []byte, filename string) error {
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", filename, err)
	}
	return nil
}

// SavePalette renders palette as shape and writes the PNG to filename.
// A zero shape renders a single row.
func SavePalette(palette swatchgrid.Palette, shape swatchgrid.Shape, tileSize int, filename string) error {
	if len(palette) == 0 {
		return fmt.Errorf("empty palette")
	}
	if tileSize <= 0 {
		tileSize = swatchgrid.DefaultTileSize
	}
	if shape.IsZero() {
		shape = swatchgrid.Row(len(palette))
	}
	data, err := swatchgrid.Render(palette, shape, tileSize)
	if err != nil {
		return err
	}
	return SaveImage(data, filename)
}

// WriteSixel decodes an encoded image and writes it to w as a sixel sequence.
func WriteSixel(w io.Writer, data []byte) error {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decoding preview: %w", err)
	}
	return sixel.NewEncoder(w).Encode(img)
}
