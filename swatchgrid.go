// Package swatchgrid extracts the most frequent colors of an image and renders
// them as a grid of solid swatches.
//
// A call to Run is self-contained: it decodes the input, preprocesses it,
// counts colors and encodes the swatch without touching any shared state, so
// independent calls may run concurrently.
package swatchgrid

import "fmt"

type Options struct {
	// Contrast coefficient, must be > 0. 1.0 is a no-op.
	Contrast float64
	// Box blur radius, >= 0. 0 is a no-op.
	// Larger radii merge texture into flat areas so the palette favors
	// large regions over noise.
	BlurRadius int
	// How colors are merged before counting.
	Method ReductionMethod
	// Upper bound on distinct colors after reduction, >= 1.
	// For MethodBucket the truncation unit is derived from it
	// (see BucketForTarget); quantizing methods accept at most 256.
	ReductionTarget int
	// Number of colors to extract, >= 1.
	PaletteSize int
	// Grid layout. The zero value renders a single row of however many
	// colors were found. A non-zero shape must match the palette length.
	Shape Shape
	// Pixel side of each swatch cell, >= 1.
	TileSize int
	// Longest image side allowed before filtering, 0 disables downscaling.
	MaxSide int
}

// DefaultOptions returns 8 colors, blur radius 10 and bucket reduction with
// 216 levels (6 per channel).
func DefaultOptions() Options {
	return Options{
		Contrast:        1.0,
		BlurRadius:      10,
		Method:          MethodBucket,
		ReductionTarget: 216,
		PaletteSize:     8,
		TileSize:        DefaultTileSize,
	}
}

func (o Options) preprocess() (PreprocessOptions, error) {
	reducer, err := NewReducer(o.Method, o.ReductionTarget)
	if err != nil {
		return PreprocessOptions{}, err
	}
	p := PreprocessOptions{
		Contrast:   o.Contrast,
		BlurRadius: o.BlurRadius,
		Reducer:    reducer,
		MaxSide:    o.MaxSide,
	}
	return p, p.validate()
}

// Validate checks every parameter without running the pipeline.
func (o Options) Validate() error {
	_, err := o.validated()
	return err
}

// validated checks every parameter and returns the preprocessing options
// with the reducer already built.
func (o Options) validated() (PreprocessOptions, error) {
	pre, err := o.preprocess()
	if err != nil {
		return PreprocessOptions{}, err
	}
	if o.PaletteSize < 1 {
		return PreprocessOptions{}, fmt.Errorf("%w: palette size must be >= 1, got %d", ErrInvalidParameter, o.PaletteSize)
	}
	if o.TileSize < 1 {
		return PreprocessOptions{}, fmt.Errorf("%w: tile size must be >= 1, got %d", ErrInvalidParameter, o.TileSize)
	}
	if !o.Shape.IsZero() && (o.Shape.Rows < 1 || o.Shape.Cols < 1 || o.Shape.Area() != o.PaletteSize) {
		return PreprocessOptions{}, fmt.Errorf("%w: shape %s does not hold %d colors", ErrShapeMismatch, o.Shape, o.PaletteSize)
	}
	return pre, nil
}

// Result holds the output of a pipeline run.
type Result struct {
	Data      []byte  // encoded PNG swatch grid
	Palette   Palette // most frequent first
	Shape     Shape   // layout used for Data
	SrcWidth  int
	SrcHeight int
	Distinct  int // distinct colors after preprocessing
}

// Run executes the full pipeline: decode → preprocess → count → render.
func Run(data []byte, opts Options) (*Result, error) {
	pre, err := opts.validated()
	if err != nil {
		return nil, err
	}

	src, err := Decode(data)
	if err != nil {
		return nil, err
	}
	img := process(src, pre)

	table := CountColors(img)
	if table.Len() == 0 {
		return nil, ErrEmptyPalette
	}
	palette := table.Top(opts.PaletteSize)

	shape := opts.Shape
	if shape.IsZero() {
		shape = Row(len(palette))
	}
	out, err := Render(palette, shape, opts.TileSize)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	return &Result{
		Data:      out,
		Palette:   palette,
		Shape:     shape,
		SrcWidth:  src.Bounds().Dx(),
		SrcHeight: src.Bounds().Dy(),
		Distinct:  table.Len(),
	}, nil
}
