// Package layer implements the rectangular, optionally-transparent pixel
// buffers that a controller composites onto the screen.
package layer

import (
	"fmt"
	"image"

	"github.com/valerio/go-screenlayer/screenlayer/geom"
	"github.com/valerio/go-screenlayer/screenlayer/id"
	"github.com/valerio/go-screenlayer/screenlayer/pixel"
)

// Layer is a grid of pixels placed on the screen at TopLeft. Its size is
// fixed at construction; only its position may change.
type Layer struct {
	buf     [][]pixel.Pixel
	topLeft geom.Point
	size    geom.Size
	id      id.ID
}

// New creates a fully transparent layer. topLeft may be negative and the
// layer may be larger than any screen; parts that fall outside the screen are
// simply never drawn.
func New(topLeft geom.Point, size geom.Size) *Layer {
	return NewWithGenerator(id.Default, topLeft, size)
}

// NewWithGenerator is like New but draws the layer ID from gen.
func NewWithGenerator(gen *id.Generator, topLeft geom.Point, size geom.Size) *Layer {
	buf := make([][]pixel.Pixel, size.H)
	cells := make([]pixel.Pixel, size.Area())
	for y := range buf {
		buf[y] = cells[y*int(size.W) : (y+1)*int(size.W) : (y+1)*int(size.W)]
	}

	return &Layer{
		buf:     buf,
		topLeft: topLeft,
		size:    size,
		id:      gen.Next(),
	}
}

// FromImage creates a layer holding a copy of img. Pixels that are less than
// half opaque become transparent.
func FromImage(topLeft geom.Point, img image.Image) *Layer {
	b := img.Bounds()
	l := New(topLeft, geom.Sz(uint32(b.Dx()), uint32(b.Dy())))
	for y := 0; y < b.Dy(); y++ {
		row := l.buf[y]
		for x := range row {
			row[x] = pixel.FromColor(img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return l
}

// ID returns the identifier assigned at construction.
func (l *Layer) ID() id.ID {
	return l.id
}

// TopLeft returns the screen position of the layer origin.
func (l *Layer) TopLeft() geom.Point {
	return l.topLeft
}

// Size returns the layer dimensions.
func (l *Layer) Size() geom.Size {
	return l.size
}

// Bounds returns the screen rectangle covered by the layer.
func (l *Layer) Bounds() geom.Rect {
	return geom.RectAt(l.topLeft, l.size)
}

// Row returns row y for in-place reading and writing, indexed by column.
// It panics if y is out of range.
func (l *Layer) Row(y int) []pixel.Pixel {
	return l.buf[y]
}

// At returns the pixel at column x, row y. It panics if the coordinate lies
// outside the layer.
func (l *Layer) At(x, y int) pixel.Pixel {
	l.mustContain(x, y)
	return l.buf[y][x]
}

// Set stores p at column x, row y. It panics if the coordinate lies outside
// the layer.
func (l *Layer) Set(x, y int, p pixel.Pixel) {
	l.mustContain(x, y)
	l.buf[y][x] = p
}

// Fill sets every pixel of the layer to p.
func (l *Layer) Fill(p pixel.Pixel) {
	for _, row := range l.buf {
		for x := range row {
			row[x] = p
		}
	}
}

// FillRect sets the pixels of r, in layer coordinates, to p. The parts of r
// outside the layer are ignored.
func (l *Layer) FillRect(r geom.Rect, p pixel.Pixel) {
	r = geom.RectAt(geom.Point{}, l.size).Intersect(r)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := l.buf[y]
		for x := r.Min.X; x < r.Max.X; x++ {
			row[x] = p
		}
	}
}

// Slide moves the layer. It does not redraw anything; a controller owning the
// layer must redraw both the old and the new rectangle.
func (l *Layer) Slide(newTopLeft geom.Point) {
	l.topLeft = newTopLeft
}

func (l *Layer) mustContain(x, y int) {
	if x < 0 || y < 0 || x >= int(l.size.W) || y >= int(l.size.H) {
		panic(fmt.Sprintf("layer: pixel (%d,%d) out of range for %v layer %v", x, y, l.size, l.id))
	}
}
