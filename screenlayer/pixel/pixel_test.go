package pixel

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZeroPixelIsTransparent(t *testing.T) {
	var p Pixel

	_, ok := p.Color()
	assert.False(t, ok)
	assert.False(t, p.IsOpaque())
	assert.Equal(t, Transparent, p)
}

func TestOpaque(t *testing.T) {
	p := Opaque(RGB(1, 2, 3))

	c, ok := p.Color()
	assert.True(t, ok)
	assert.Equal(t, RGB8{R: 1, G: 2, B: 3}, c)
	assert.Equal(t, "#010203", p.String())
}

func TestFromColor(t *testing.T) {
	tests := []struct {
		name     string
		in       color.Color
		expected Pixel
	}{
		{"opaque red", color.RGBA{R: 0xFF, A: 0xFF}, Opaque(Red)},
		{"fully transparent", color.RGBA{}, Transparent},
		{"mostly transparent", color.NRGBA{G: 0xFF, A: 0x10}, Transparent},
		{"mostly opaque keeps straight colour", color.NRGBA{G: 0xFF, A: 0xC0}, Opaque(Green)},
		{"gray", color.Gray{Y: 0x80}, Opaque(RGB(0x80, 0x80, 0x80))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FromColor(tt.in))
		})
	}
}

func TestRGB8ImplementsColor(t *testing.T) {
	var c color.Color = Blue

	r, g, b, a := c.RGBA()
	assert.Equal(t, uint32(0), r)
	assert.Equal(t, uint32(0), g)
	assert.Equal(t, uint32(0xFFFF), b)
	assert.Equal(t, uint32(0xFFFF), a)
}
