package swatchgrid

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// DefaultTileSize is the side, in pixels, of one swatch cell.
const DefaultTileSize = 64

// Shape is the (rows, cols) layout of a swatch grid. Every cell holds one
// RGB color, so the full grid shape is (Rows, Cols, 3).
type Shape struct {
	Rows, Cols int
}

// Row is a single-row shape of n cells.
func Row(n int) Shape {
	return Shape{Rows: 1, Cols: n}
}

func (s Shape) Area() int { return s.Rows * s.Cols }

func (s Shape) IsZero() bool { return s == Shape{} }

func (s Shape) String() string {
	return fmt.Sprintf("%dx%d", s.Rows, s.Cols)
}

// Grid is a palette laid out row-major; Grid[row][col].
type Grid [][]Color

// Reshape lays p out in row-major order. rows*cols must equal len(p).
func Reshape(p Palette, s Shape) (Grid, error) {
	if s.Rows < 1 || s.Cols < 1 || s.Area() != len(p) {
		return nil, fmt.Errorf("%w: shape %s (%d cells) for %d colors", ErrShapeMismatch, s, s.Area(), len(p))
	}
	g := make(Grid, s.Rows)
	for r := range s.Rows {
		g[r] = make([]Color, s.Cols)
		copy(g[r], p[r*s.Cols:(r+1)*s.Cols])
	}
	return g, nil
}

func (g Grid) Shape() Shape {
	if len(g) == 0 {
		return Shape{}
	}
	return Shape{Rows: len(g), Cols: len(g[0])}
}

// Image rasterizes g with each cell a solid tileSize x tileSize block.
func (g Grid) Image(tileSize int) *image.NRGBA {
	s := g.Shape()
	img := image.NewNRGBA(image.Rect(0, 0, s.Cols*tileSize, s.Rows*tileSize))
	for r, row := range g {
		for c, col := range row {
			fill := color.NRGBA{R: col.R, G: col.G, B: col.B, A: 255}
			x0, y0 := c*tileSize, r*tileSize
			for y := y0; y < y0+tileSize; y++ {
				for x := x0; x < x0+tileSize; x++ {
					img.SetNRGBA(x, y, fill)
				}
			}
		}
	}
	return img
}

// Render lays p out as s and encodes the swatch grid as PNG.
func Render(p Palette, s Shape, tileSize int) ([]byte, error) {
	if tileSize < 1 {
		return nil, fmt.Errorf("%w: tile size must be >= 1, got %d", ErrInvalidParameter, tileSize)
	}
	g, err := Reshape(p, s)
	if err != nil {
		return nil, err
	}
	return EncodePNG(g.Image(tileSize))
}

func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}
