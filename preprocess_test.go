package swatchgrid

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	src := newImage(2, 2, red, green, blue, yellow)
	img, err := Decode(encodePNG(t, src))
	require.NoError(t, err)
	assert.Equal(t, []Color{red, green, blue, yellow}, Pixels(img))

	j, err := Decode(encodeJPEG(t, gradient(30, 20)))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 30, 20), j.Bounds())
}

func TestDecodeDropsAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	img, err := Decode(encodePNG(t, src))
	require.NoError(t, err)
	assert.Equal(t, uint8(255), img.Pix[3])
}

func TestDecodeErrors(t *testing.T) {
	for name, data := range map[string][]byte{
		"empty":     nil,
		"garbage":   []byte("definitely not an image"),
		"truncated": encodePNG(t, gradient(8, 8))[:20],
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(data)
			assert.ErrorIs(t, err, ErrDecode)
		})
	}
}

func TestBoxBlurZeroIsNoop(t *testing.T) {
	img := gradient(12, 9)
	assert.Equal(t, img.Pix, BoxBlur(img, 0).Pix)
}

func TestBoxBlurUniform(t *testing.T) {
	c := Color{90, 120, 30}
	px := make([]Color, 25)
	for i := range px {
		px[i] = c
	}
	out := BoxBlur(newImage(5, 5, px...), 2)
	for _, got := range Pixels(out) {
		assert.Equal(t, c, got)
	}
}

func TestBoxBlurClampsEdges(t *testing.T) {
	img := newImage(3, 1, Color{0, 0, 0}, Color{90, 90, 90}, Color{180, 180, 180})
	out := BoxBlur(img, 1)
	require.Equal(t, img.Bounds(), out.Bounds())

	want := []float64{30, 90, 150}
	for i, got := range Pixels(out) {
		assert.InDelta(t, want[i], float64(got.R), 1, "pixel %d", i)
	}
}

func TestBoxBlurClampsCorner(t *testing.T) {
	z, v := Color{0, 0, 0}, Color{90, 90, 90}
	img := newImage(3, 3,
		v, z, z,
		z, z, z,
		z, z, z,
	)
	out := BoxBlur(img, 1)

	want := []uint8{40, 20, 0, 20, 10, 0, 0, 0, 0}
	for i, got := range Pixels(out) {
		assert.InDelta(t, float64(want[i]), float64(got.R), 1, "pixel %d", i)
	}
}

func TestBoxBlurRadiusBeyondImage(t *testing.T) {
	img := newImage(2, 1, Color{0, 0, 0}, Color{200, 200, 200})
	out := Pixels(BoxBlur(img, 5))

	// 11 taps per axis: the left pixel sees 6 zeros and 5 whites, the
	// right one 5 zeros and 6 whites.
	assert.InDelta(t, 200*5/11.0, float64(out[0].R), 1)
	assert.InDelta(t, 200*6/11.0, float64(out[1].R), 1)
}

func TestMeanGray(t *testing.T) {
	img := newImage(2, 2,
		Color{0, 0, 0}, Color{100, 100, 100},
		Color{200, 200, 200}, Color{60, 60, 60},
	)
	assert.InDelta(t, 90, meanGray(img), 1e-9)
	assert.Equal(t, 0.0, meanGray(image.NewNRGBA(image.Rect(0, 0, 0, 0))))
}

func TestAdjustContrast(t *testing.T) {
	img := newImage(2, 1, Color{100, 100, 100}, Color{150, 150, 150})

	assert.Equal(t, img.Pix, AdjustContrast(img, 1).Pix)

	spread := func(k float64) float64 {
		px := Pixels(AdjustContrast(img, k))
		return float64(px[1].R) - float64(px[0].R)
	}
	out := Pixels(AdjustContrast(img, 2))
	assert.InDelta(t, 75, float64(out[0].R), 1)
	assert.InDelta(t, 175, float64(out[1].R), 1)

	assert.Less(t, spread(0.5), spread(1))
	assert.Less(t, spread(1), spread(1.5))
	assert.Less(t, spread(1.5), spread(2))
}

func TestAdjustContrastClamps(t *testing.T) {
	img := newImage(2, 1, Color{0, 0, 0}, Color{255, 255, 255})
	out := Pixels(AdjustContrast(img, 10))
	assert.Equal(t, []Color{{0, 0, 0}, {255, 255, 255}}, out)
}

func TestDownscale(t *testing.T) {
	img := gradient(100, 50)
	assert.Same(t, img, Downscale(img, 0))
	assert.Same(t, img, Downscale(img, 100))

	small := Downscale(img, 20)
	assert.Equal(t, image.Rect(0, 0, 20, 10), small.Bounds())
}

func TestPreprocessNoop(t *testing.T) {
	src := gradient(16, 8)
	out, err := Preprocess(encodePNG(t, src), PreprocessOptions{
		Contrast:   1,
		BlurRadius: 0,
		Reducer:    Bucket{Trunc: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, src.Pix, out.Pix)
}

func TestPreprocessReduces(t *testing.T) {
	out, err := Preprocess(encodePNG(t, gradient(40, 40)), PreprocessOptions{
		Contrast:   1.3,
		BlurRadius: 2,
		Reducer:    BucketForTarget(27),
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, distinct(out), 27)
}

func TestPreprocessInvalid(t *testing.T) {
	data := encodePNG(t, gradient(4, 4))
	for name, opts := range map[string]PreprocessOptions{
		"zero contrast":     {Contrast: 0},
		"negative contrast": {Contrast: -1},
		"nan contrast":      {Contrast: math.NaN()},
		"inf contrast":      {Contrast: math.Inf(1)},
		"negative blur":     {Contrast: 1, BlurRadius: -1},
		"negative max side": {Contrast: 1, MaxSide: -5},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Preprocess(data, opts)
			assert.ErrorIs(t, err, ErrInvalidParameter)
		})
	}
}
