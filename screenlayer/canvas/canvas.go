// Package canvas exposes a layer as a tinygo drivers.Displayer, so renderers
// written against that interface (tinyfont text, drivers graphics helpers)
// can paint into the compositor.
package canvas

import (
	"image/color"

	"github.com/valerio/go-screenlayer/screenlayer"
	"github.com/valerio/go-screenlayer/screenlayer/geom"
	"github.com/valerio/go-screenlayer/screenlayer/id"
	"github.com/valerio/go-screenlayer/screenlayer/layer"
	"github.com/valerio/go-screenlayer/screenlayer/pixel"
	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

var _ drivers.Displayer = (*Canvas)(nil)

// Canvas is a drivers.Displayer whose pixels are the pixels of one layer.
// Coordinates are relative to the layer; pixels outside it are dropped.
// Colours with zero alpha are written as transparent.
type Canvas struct {
	size geom.Size
	set  func(x, y int, p pixel.Pixel) error
	err  error
}

// New returns a canvas drawing into a layer owned by ctrl. Every pixel goes
// through Controller.SetPixel and is visible immediately.
func New(ctrl *screenlayer.Controller, layerID id.ID) (*Canvas, error) {
	bounds, err := ctrl.Bounds(layerID)
	if err != nil {
		return nil, err
	}

	return &Canvas{
		size: geom.Sz(uint32(bounds.Dx()), uint32(bounds.Dy())),
		set: func(x, y int, p pixel.Pixel) error {
			return ctrl.SetPixel(layerID, geom.Pt(x, y), p)
		},
	}, nil
}

// ForLayer returns a canvas writing straight into l. Nothing is redrawn; use
// it before the layer is added to a controller or from inside an EditLayer
// callback.
func ForLayer(l *layer.Layer) *Canvas {
	return &Canvas{
		size: l.Size(),
		set: func(x, y int, p pixel.Pixel) error {
			l.Set(x, y, p)
			return nil
		},
	}
}

// Size implements drivers.Displayer.
func (c *Canvas) Size() (x, y int16) {
	return int16(min(c.size.W, 0x7FFF)), int16(min(c.size.H, 0x7FFF))
}

// SetPixel implements drivers.Displayer.
func (c *Canvas) SetPixel(x, y int16, col color.RGBA) {
	if x < 0 || y < 0 || uint32(x) >= c.size.W || uint32(y) >= c.size.H {
		return
	}

	p := pixel.Transparent
	if col.A != 0 {
		p = pixel.Opaque(pixel.RGB(col.R, col.G, col.B))
	}
	if err := c.set(int(x), int(y), p); err != nil && c.err == nil {
		c.err = err
	}
}

// Display implements drivers.Displayer. Pixels are already on screen, so it
// only reports the first error SetPixel ran into, typically
// screenlayer.ErrNoSuchLayer.
func (c *Canvas) Display() error {
	return c.err
}

// FillRectangle paints a rectangle, clipped to the canvas.
func (c *Canvas) FillRectangle(x, y, width, height int16, col color.RGBA) error {
	w, h := c.Size()
	x0, y0 := max(int(x), 0), max(int(y), 0)
	x1 := min(int(x)+int(width), int(w))
	y1 := min(int(y)+int(height), int(h))
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			c.SetPixel(int16(px), int16(py), col)
		}
	}
	return c.Display()
}

// WriteLine draws text with its baseline at y.
func (c *Canvas) WriteLine(font tinyfont.Fonter, x, y int16, text string, col color.RGBA) error {
	tinyfont.WriteLine(c, font, x, y, text, col)
	return c.Display()
}
