package swatchgrid

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorHex(t *testing.T) {
	assert.Equal(t, "#ff0010", Color{255, 0, 16}.Hex())
	assert.Equal(t, []string{"#000000", "#0a141e"}, Palette{{0, 0, 0}, {10, 20, 30}}.Hex())
}

func TestColorOf(t *testing.T) {
	assert.Equal(t, Color{10, 20, 30}, ColorOf(color.NRGBA{R: 10, G: 20, B: 30, A: 255}))
	assert.Equal(t, Color{10, 20, 30}, ColorOf(color.NRGBA{R: 10, G: 20, B: 30, A: 128}))
	assert.Equal(t, Color{7, 7, 7}, ColorOf(Color{7, 7, 7}))
}
