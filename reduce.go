package swatchgrid

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"github.com/soniakeys/quant/mean"
	"github.com/soniakeys/quant/median"
)

// Reducer merges near-duplicate colors before counting. Implementations
// return a new image and never modify their input.
type Reducer interface {
	Reduce(img *image.NRGBA) *image.NRGBA
}

type ReductionMethod int

const (
	// MethodBucket floors every channel to a multiple of a truncation unit.
	MethodBucket ReductionMethod = iota
	// MethodMedianCut builds a median cut palette and maps pixels onto it.
	MethodMedianCut
	// MethodMean builds a mean cut palette and maps pixels onto it.
	MethodMean
)

// MaxQuantizeColors is the largest palette a quantizing reducer may build.
const MaxQuantizeColors = 256

func (m ReductionMethod) String() string {
	switch m {
	case MethodMedianCut:
		return "median"
	case MethodMean:
		return "mean"
	default:
		return "bucket"
	}
}

func ParseReductionMethod(s string) (ReductionMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bucket", "trunc":
		return MethodBucket, nil
	case "median", "mediancut":
		return MethodMedianCut, nil
	case "mean":
		return MethodMean, nil
	}
	return MethodBucket, fmt.Errorf("%w: unknown reduction method %q", ErrInvalidParameter, s)
}

// NewReducer builds the reducer for method that keeps at most target colors.
func NewReducer(method ReductionMethod, target int) (Reducer, error) {
	if target < 1 {
		return nil, fmt.Errorf("%w: color reduction target must be >= 1, got %d", ErrInvalidParameter, target)
	}
	switch method {
	case MethodBucket:
		return BucketForTarget(target), nil
	case MethodMedianCut, MethodMean:
		if target > MaxQuantizeColors {
			return nil, fmt.Errorf("%w: quantize target must be <= %d, got %d", ErrInvalidParameter, MaxQuantizeColors, target)
		}
		return Quantize{Colors: target, Method: method}, nil
	}
	return nil, fmt.Errorf("%w: unknown reduction method %d", ErrInvalidParameter, int(method))
}

// ============ BUCKET ============

// Bucket replaces each channel value v with (v / Trunc) * Trunc.
// Trunc must be in [1, 256]; 1 is a no-op.
type Bucket struct {
	Trunc int
}

// BucketForTarget picks the smallest truncation unit whose per-channel level
// count L satisfies L*L*L <= target.
func BucketForTarget(target int) Bucket {
	levels := int(math.Cbrt(float64(max(target, 1))))
	levels = max(1, min(256, levels))
	for levels < 256 && (levels+1)*(levels+1)*(levels+1) <= target {
		levels++
	}
	for levels > 1 && levels*levels*levels > target {
		levels--
	}
	return Bucket{Trunc: (256 + levels - 1) / levels}
}

func (b Bucket) Reduce(img *image.NRGBA) *image.NRGBA {
	t := max(1, min(256, b.Trunc))
	if t == 1 {
		return img
	}
	bounds := img.Bounds()
	out := image.NewNRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			si := img.PixOffset(x, y)
			di := out.PixOffset(x, y)
			out.Pix[di] = uint8(int(img.Pix[si]) / t * t)
			out.Pix[di+1] = uint8(int(img.Pix[si+1]) / t * t)
			out.Pix[di+2] = uint8(int(img.Pix[si+2]) / t * t)
			out.Pix[di+3] = img.Pix[si+3]
		}
	}
	return out
}

// ============ QUANTIZE ============

// Quantize builds a palette of at most Colors entries with a soniakeys/quant
// quantizer and maps every pixel to its nearest entry.
type Quantize struct {
	Colors int
	Method ReductionMethod
}

func (q Quantize) quantizer() draw.Quantizer {
	if q.Method == MethodMean {
		return mean.Quantizer(q.Colors)
	}
	return median.Quantizer(q.Colors)
}

// Palette returns the quantized palette for img.
func (q Quantize) Palette(img image.Image) []Color {
	n := max(1, min(MaxQuantizeColors, q.Colors))
	cp := q.quantizer().Quantize(make(color.Palette, 0, n), img)
	if len(cp) > n {
		cp = cp[:n]
	}
	out := make([]Color, len(cp))
	for i, c := range cp {
		out[i] = ColorOf(c)
	}
	return out
}

func (q Quantize) Reduce(img *image.NRGBA) *image.NRGBA {
	palette := q.Palette(img)
	if len(palette) == 0 {
		return img
	}
	bounds := img.Bounds()
	out := image.NewNRGBA(bounds)
	mapped := make(map[Color]Color)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			si := img.PixOffset(x, y)
			c := Color{img.Pix[si], img.Pix[si+1], img.Pix[si+2]}
			m, ok := mapped[c]
			if !ok {
				m = palette[nearest(c, palette)]
				mapped[c] = m
			}
			di := out.PixOffset(x, y)
			out.Pix[di] = m.R
			out.Pix[di+1] = m.G
			out.Pix[di+2] = m.B
			out.Pix[di+3] = img.Pix[si+3]
		}
	}
	return out
}

// nearest returns the index of the palette entry closest to c in squared RGB
// distance. The first entry wins ties.
func nearest(c Color, palette []Color) int {
	best := 0
	bestDist := math.MaxInt
	for i, p := range palette {
		dr := int(c.R) - int(p.R)
		dg := int(c.G) - int(p.G)
		db := int(c.B) - int(p.B)
		d := dr*dr + dg*dg + db*db
		if d < bestDist {
			bestDist = d
			best = i
		}
		if d == 0 {
			break
		}
	}
	return best
}
