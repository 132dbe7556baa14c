// Package vram writes pixels into linear video memory. It knows the screen
// resolution and bit depth and turns a screen coordinate into a byte offset;
// colours are stored in blue, green, red order.
package vram

import (
	"fmt"

	"github.com/valerio/go-screenlayer/screenlayer/geom"
	"github.com/valerio/go-screenlayer/screenlayer/pixel"
)

// Supported bit depths
const (
	BitsPerPixel24 = 24
	BitsPerPixel32 = 32
)

// Byte offsets of the colour channels inside a pixel
const (
	BlueOffset  = 0
	GreenOffset = 1
	RedOffset   = 2
)

// Frame is a read-only view of the screen contents.
type Frame interface {
	Resolution() geom.Size
	ColorAt(x, y uint32) pixel.RGB8
}

// Writer writes colours into video memory. Its configuration is immutable.
// A Writer is not safe for concurrent use.
type Writer struct {
	resolution geom.Size
	bpp        uint32
	mem        Memory
	scratch    [3]byte
}

// New returns a Writer for a resolution.W x resolution.H screen stored in mem.
// It panics if bitsPerPixel is not 24 or 32 or if mem is too small for the
// resolution.
func New(resolution geom.Size, bitsPerPixel uint32, mem Memory) *Writer {
	if bitsPerPixel != BitsPerPixel24 && bitsPerPixel != BitsPerPixel32 {
		panic(fmt.Sprintf("vram: unsupported bit depth %d", bitsPerPixel))
	}

	w := &Writer{
		resolution: resolution,
		bpp:        bitsPerPixel,
		mem:        mem,
	}
	if need := w.Len(); mem.Len() < need {
		panic(fmt.Sprintf("vram: %v at %d bpp needs %d bytes, memory has %d", resolution, bitsPerPixel, need, mem.Len()))
	}
	return w
}

// Len returns the number of bytes a full screen occupies.
func Len(resolution geom.Size, bitsPerPixel uint32) int {
	return resolution.Area() * int(bitsPerPixel/8)
}

// Len returns the number of bytes the screen occupies.
func (w *Writer) Len() int {
	return Len(w.resolution, w.bpp)
}

// Resolution returns the screen size in pixels.
func (w *Writer) Resolution() geom.Size {
	return w.resolution
}

// BitsPerPixel returns the configured colour depth.
func (w *Writer) BitsPerPixel() uint32 {
	return w.bpp
}

// BytesPerPixel returns the stride between two horizontally adjacent pixels.
func (w *Writer) BytesPerPixel() int {
	return int(w.bpp / 8)
}

// Offset returns the byte offset of pixel (x, y) from the start of memory.
func (w *Writer) Offset(x, y uint32) int {
	return (int(y)*int(w.resolution.W) + int(x)) * int(w.bpp) / 8
}

// SetColor writes c at screen coordinate (x, y). The coordinate must be on
// screen; anything else is a bug in the caller and panics. In 32-bit mode
// the fourth byte is left as it was.
func (w *Writer) SetColor(x, y uint32, c pixel.RGB8) {
	w.mustContain(x, y)

	b := w.scratch[:]
	b[BlueOffset] = c.B
	b[GreenOffset] = c.G
	b[RedOffset] = c.R
	w.mem.WritePixel(w.Offset(x, y), b)
}

// ColorAt reads back the colour stored at (x, y). It panics if the coordinate
// is off screen. It does not touch writer state, so concurrent reads are safe.
func (w *Writer) ColorAt(x, y uint32) pixel.RGB8 {
	w.mustContain(x, y)

	var b [3]byte
	w.mem.ReadPixel(w.Offset(x, y), b[:])
	return pixel.RGB8{R: b[RedOffset], G: b[GreenOffset], B: b[BlueOffset]}
}

// Fill paints the whole screen with c.
func (w *Writer) Fill(c pixel.RGB8) {
	for y := uint32(0); y < w.resolution.H; y++ {
		for x := uint32(0); x < w.resolution.W; x++ {
			w.SetColor(x, y, c)
		}
	}
}

func (w *Writer) mustContain(x, y uint32) {
	if x >= w.resolution.W || y >= w.resolution.H {
		panic(fmt.Sprintf("vram: coordinate (%d,%d) outside %v screen", x, y, w.resolution))
	}
}
