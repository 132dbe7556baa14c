// Package screenlayer composites a stack of rectangular pixel layers into
// linear video memory. It is meant for kernels and firmware that have a raw
// framebuffer and nothing else: there is no off-screen buffer, redraws write
// straight to VRAM, and only the rectangle affected by an operation is
// recomposited.
//
// Layers added later are drawn above layers added earlier. Transparent pixels
// let whatever is beneath show through.
//
// A Controller is not safe for concurrent use.
package screenlayer

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-screenlayer/screenlayer/geom"
	"github.com/valerio/go-screenlayer/screenlayer/id"
	"github.com/valerio/go-screenlayer/screenlayer/layer"
	"github.com/valerio/go-screenlayer/screenlayer/pixel"
	"github.com/valerio/go-screenlayer/screenlayer/vram"
)

// Controller owns the VRAM writer and the layer stack.
type Controller struct {
	vram       *vram.Writer
	collection []*layer.Layer
}

// New returns a controller drawing into the framebuffer at baseAddr.
//
// This is unsafe: baseAddr must point at live video memory large enough for
// resolution at bitsPerPixel for the lifetime of the controller. A wrong
// address, or a resolution larger than the real one, makes the controller
// write to arbitrary memory.
func New(resolution geom.Size, bitsPerPixel uint32, baseAddr uintptr) *Controller {
	mem := vram.FromAddress(baseAddr, vram.Len(resolution, bitsPerPixel))
	return NewWithMemory(resolution, bitsPerPixel, mem)
}

// NewWithMemory returns a controller drawing into mem. It panics if
// bitsPerPixel is not 24 or 32 or mem is too small for resolution.
func NewWithMemory(resolution geom.Size, bitsPerPixel uint32, mem vram.Memory) *Controller {
	return &Controller{
		vram: vram.New(resolution, bitsPerPixel, mem),
	}
}

// VRAM returns the writer the controller draws through. Callers may read
// from it; writing to it directly bypasses compositing.
func (c *Controller) VRAM() *vram.Writer {
	return c.vram
}

// Len returns the number of layers.
func (c *Controller) Len() int {
	return len(c.collection)
}

// Layers returns the layer IDs from bottom to top.
func (c *Controller) Layers() []id.ID {
	ids := make([]id.ID, len(c.collection))
	for i, l := range c.collection {
		ids[i] = l.ID()
	}
	return ids
}

// Bounds returns the screen rectangle covered by the layer, which may extend
// past the screen.
func (c *Controller) Bounds(layerID id.ID) (geom.Rect, error) {
	l, err := c.lookup(layerID)
	if err != nil {
		return geom.Rect{}, err
	}
	return l.Bounds(), nil
}

// AddLayer puts l on top of every existing layer, draws it and returns its
// ID. The controller takes ownership of l; keep the ID, not the pointer.
// Adding a layer whose ID is already in the collection panics.
func (c *Controller) AddLayer(l *layer.Layer) id.ID {
	for _, existing := range c.collection {
		if existing.ID() == l.ID() {
			panic(fmt.Sprintf("screenlayer: %v added twice", l.ID()))
		}
	}

	c.collection = append(c.collection, l)
	slog.Debug("layer added", "id", l.ID(), "top_left", l.TopLeft(), "size", l.Size(), "depth", len(c.collection))

	c.redraw(l.TopLeft(), l.Size())
	return l.ID()
}

// EditLayer runs f on the layer and then redraws the whole layer rectangle,
// since the extent of the change is unknown. For single pixels SetPixel is
// far cheaper. If f slides the layer, both the old and the new rectangle are
// redrawn.
func (c *Controller) EditLayer(layerID id.ID, f func(*layer.Layer)) error {
	l, err := c.lookup(layerID)
	if err != nil {
		return err
	}

	topLeft, size := l.TopLeft(), l.Size()
	f(l)
	c.redraw(topLeft, size)
	if l.TopLeft() != topLeft {
		c.redraw(l.TopLeft(), size)
	}
	return nil
}

// SetPixel sets the pixel at coord, relative to the layer origin, and
// redraws just that screen pixel. coord must lie within the layer or SetPixel
// panics.
func (c *Controller) SetPixel(layerID id.ID, coord geom.Point, p pixel.Pixel) error {
	l, err := c.lookup(layerID)
	if err != nil {
		return err
	}

	l.Set(coord.X, coord.Y, p)
	c.redraw(l.TopLeft().Offset(coord), geom.Sz(1, 1))
	return nil
}

// SlideLayer moves the layer to newTopLeft, which may be negative or off
// screen. The rectangle it left is redrawn to uncover what was beneath, then
// the rectangle it now occupies.
func (c *Controller) SlideLayer(layerID id.ID, newTopLeft geom.Point) error {
	l, err := c.lookup(layerID)
	if err != nil {
		return err
	}

	oldTopLeft, size := l.TopLeft(), l.Size()
	l.Slide(newTopLeft)
	slog.Debug("layer slid", "id", layerID, "from", oldTopLeft, "to", newTopLeft)

	c.redraw(oldTopLeft, size)
	c.redraw(newTopLeft, size)
	return nil
}

// Refresh recomposites the whole screen.
func (c *Controller) Refresh() {
	c.redraw(geom.Point{}, c.vram.Resolution())
}

// redraw recomposites the screen rectangle at topLeft. The rectangle is
// clipped to the screen, then each layer, bottom first, paints its opaque
// pixels inside the clip. Transparent pixels leave whatever a lower layer (or
// the previous VRAM contents) put there.
func (c *Controller) redraw(topLeft geom.Point, size geom.Size) {
	clip := geom.ClipToScreen(topLeft, size, c.vram.Resolution())
	if clip.Empty() {
		return
	}

	for _, l := range c.collection {
		origin := l.TopLeft()
		r := clip.Intersect(l.Bounds())

		for y := r.Min.Y; y < r.Max.Y; y++ {
			row := l.Row(y - origin.Y)
			for x := r.Min.X; x < r.Max.X; x++ {
				if col, ok := row[x-origin.X].Color(); ok {
					c.vram.SetColor(uint32(x), uint32(y), col)
				}
			}
		}
	}
}

func (c *Controller) lookup(layerID id.ID) (*layer.Layer, error) {
	for _, l := range c.collection {
		if l.ID() == layerID {
			return l, nil
		}
	}
	slog.Debug("layer lookup failed", "id", layerID)
	return nil, &NoSuchLayerError{ID: layerID}
}
