// Package pixel defines the colour model of the compositor: 8-bit RGB colours
// and optionally-transparent pixels. Transparency is binary; there is no
// alpha channel.
package pixel

import (
	"fmt"
	"image/color"
)

// RGB8 is a colour with three 8-bit channels.
type RGB8 struct {
	R, G, B uint8
}

// RGB is shorthand for RGB8{r, g, b}.
func RGB(r, g, b uint8) RGB8 {
	return RGB8{R: r, G: g, B: b}
}

// Common colours
var (
	Black = RGB(0, 0, 0)
	White = RGB(0xFF, 0xFF, 0xFF)
	Red   = RGB(0xFF, 0, 0)
	Green = RGB(0, 0xFF, 0)
	Blue  = RGB(0, 0, 0xFF)
)

// RGBA implements color.Color. RGB8 is always fully opaque.
func (c RGB8) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}.RGBA()
}

func (c RGB8) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Pixel is a layer pixel: either an opaque colour or transparent.
// The zero value is transparent.
type Pixel struct {
	color  RGB8
	opaque bool
}

// Transparent is the see-through pixel.
var Transparent = Pixel{}

// Opaque returns a pixel showing c.
func Opaque(c RGB8) Pixel {
	return Pixel{color: c, opaque: true}
}

// Color returns the pixel colour and whether the pixel is opaque.
func (p Pixel) Color() (RGB8, bool) {
	return p.color, p.opaque
}

// IsOpaque reports whether p hides whatever lies beneath it.
func (p Pixel) IsOpaque() bool {
	return p.opaque
}

func (p Pixel) String() string {
	if !p.opaque {
		return "transparent"
	}
	return p.color.String()
}

// FromColor converts an arbitrary colour. Anything less than half opaque
// becomes transparent; everything else is taken as fully opaque.
func FromColor(c color.Color) Pixel {
	nrgba := color.NRGBAModel.Convert(c).(color.NRGBA)
	if nrgba.A < 0x80 {
		return Transparent
	}
	return Opaque(RGB(nrgba.R, nrgba.G, nrgba.B))
}
