package swatchgrid

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"math"

	"github.com/disintegration/gift"
	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	"gonum.org/v1/gonum/stat"

	_ "golang.org/x/image/webp"
)

type PreprocessOptions struct {
	// Contrast coefficient, must be > 0.
	// 1.0 leaves the image untouched, >1 spreads channel values away from
	// the mean gray level, <1 pulls them toward it.
	Contrast float64
	// Box blur radius in pixels, >= 0. Each output pixel is the plain
	// average of the (2r+1)x(2r+1) neighborhood with edges clamped.
	BlurRadius int
	// Color reduction applied last. Nil keeps every color.
	Reducer Reducer
	// Longest allowed side before filtering. 0 disables downscaling.
	MaxSide int
}

func (o PreprocessOptions) validate() error {
	if !(o.Contrast > 0) || math.IsInf(o.Contrast, 1) {
		return fmt.Errorf("%w: contrast coefficient must be > 0, got %v", ErrInvalidParameter, o.Contrast)
	}
	if o.BlurRadius < 0 {
		return fmt.Errorf("%w: blur radius must be >= 0, got %d", ErrInvalidParameter, o.BlurRadius)
	}
	if o.MaxSide < 0 {
		return fmt.Errorf("%w: max side must be >= 0, got %d", ErrInvalidParameter, o.MaxSide)
	}
	return nil
}

// Preprocess decodes data and runs downscale, contrast, blur and color
// reduction in that order. The returned image is always a fresh *image.NRGBA
// with opaque pixels and bounds starting at the origin.
func Preprocess(data []byte, opts PreprocessOptions) (*image.NRGBA, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return process(img, opts), nil
}

func process(img *image.NRGBA, opts PreprocessOptions) *image.NRGBA {
	img = Downscale(img, opts.MaxSide)
	img = AdjustContrast(img, opts.Contrast)
	img = BoxBlur(img, opts.BlurRadius)
	if opts.Reducer != nil {
		img = opts.Reducer.Reduce(img)
	}
	return img
}

// Decode reads any registered raster format (JPEG, PNG, GIF, BMP, TIFF, WebP),
// applying the EXIF orientation tag when present.
func Decode(data []byte) (*image.NRGBA, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrDecode)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return toOpaqueNRGBA(img), nil
}

// toOpaqueNRGBA copies img into an origin-based NRGBA buffer and drops alpha.
func toOpaqueNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 255
	}
	return dst
}

// Downscale shrinks img so that neither side exceeds maxSide, keeping the
// aspect ratio. It never upscales.
func Downscale(img *image.NRGBA, maxSide int) *image.NRGBA {
	b := img.Bounds()
	if maxSide <= 0 || (b.Dx() <= maxSide && b.Dy() <= maxSide) {
		return img
	}
	return toOpaqueNRGBA(resize.Thumbnail(uint(maxSide), uint(maxSide), img, resize.Bilinear))
}

// AdjustContrast scales each channel's distance from the image's mean gray
// level by coefficient.
func AdjustContrast(img *image.NRGBA, coefficient float64) *image.NRGBA {
	if coefficient == 1 {
		return img
	}
	mean := float32(meanGray(img) / 255.0)
	k := float32(coefficient)
	return applyFilters(img, gift.ColorFunc(
		func(r0, g0, b0, a0 float32) (r, g, b, a float32) {
			r = clamp01(mean + (r0-mean)*k)
			g = clamp01(mean + (g0-mean)*k)
			b = clamp01(mean + (b0-mean)*k)
			return r, g, b, a0
		},
	))
}

// BoxBlur averages every pixel over a (2*radius+1) square window. Samples
// outside the image take the nearest edge pixel.
func BoxBlur(img *image.NRGBA, radius int) *image.NRGBA {
	if radius <= 0 {
		return img
	}
	return applyFilters(img, gift.Mean(2*radius+1, false))
}

func applyFilters(img *image.NRGBA, filters ...gift.Filter) *image.NRGBA {
	g := gift.New(filters...)
	// Keep each call on the caller's goroutine.
	g.SetParallelization(false)
	dst := image.NewNRGBA(g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	return dst
}

// meanGray returns the average Rec. 601 luma of img in [0,255].
func meanGray(img *image.NRGBA) float64 {
	b := img.Bounds()
	if b.Empty() {
		return 0
	}
	// Rows have equal width, so the mean of row means is the image mean.
	rows := make([]float64, 0, b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		var sum float64
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y)
			sum += 0.299*float64(img.Pix[i]) + 0.587*float64(img.Pix[i+1]) + 0.114*float64(img.Pix[i+2])
		}
		rows = append(rows, sum/float64(b.Dx()))
	}
	return stat.Mean(rows, nil)
}

func clamp01(v float32) float32 {
	return max(0, min(1, v))
}
