package layer

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-screenlayer/screenlayer/geom"
	"github.com/valerio/go-screenlayer/screenlayer/id"
	"github.com/valerio/go-screenlayer/screenlayer/pixel"
)

func TestNewIsTransparentAndSized(t *testing.T) {
	l := New(geom.Pt(-4, 7), geom.Sz(3, 2))

	assert.Equal(t, geom.Pt(-4, 7), l.TopLeft())
	assert.Equal(t, geom.Sz(3, 2), l.Size())
	assert.Equal(t, geom.Rect{Min: geom.Pt(-4, 7), Max: geom.Pt(-1, 9)}, l.Bounds())

	require.Len(t, l.buf, 2)
	for y := 0; y < 2; y++ {
		row := l.Row(y)
		require.Len(t, row, 3)
		for _, p := range row {
			assert.False(t, p.IsOpaque())
		}
	}
}

func TestRowsDoNotAlias(t *testing.T) {
	l := New(geom.Pt(0, 0), geom.Sz(2, 3))

	row := l.Row(0)
	row = append(row, pixel.Opaque(pixel.Red))

	assert.False(t, l.At(0, 1).IsOpaque(), "appending to a row must not spill into the next one")
	assert.Len(t, row, 3)
}

func TestRowIndexingMutatesInPlace(t *testing.T) {
	l := New(geom.Pt(0, 0), geom.Sz(5, 5))

	for i := 0; i < 5; i++ {
		l.Row(i)[i] = pixel.Opaque(pixel.Green)
	}

	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			assert.Equal(t, x == y, l.At(x, y).IsOpaque(), "pixel (%d,%d)", x, y)
		}
	}
}

func TestOutOfRangeAccessPanics(t *testing.T) {
	l := New(geom.Pt(0, 0), geom.Sz(4, 2))

	assert.Panics(t, func() { l.At(4, 0) })
	assert.Panics(t, func() { l.At(0, 2) })
	assert.Panics(t, func() { l.At(-1, 0) })
	assert.Panics(t, func() { l.Set(0, 5, pixel.Opaque(pixel.Red)) })
	assert.Panics(t, func() { l.Row(2) })
	assert.Panics(t, func() { _ = l.Row(0)[4] })
	assert.NotPanics(t, func() { l.Set(3, 1, pixel.Opaque(pixel.Red)) })
}

func TestSlideOnlyMovesOrigin(t *testing.T) {
	l := New(geom.Pt(0, 0), geom.Sz(2, 2))
	l.Set(1, 1, pixel.Opaque(pixel.Blue))

	l.Slide(geom.Pt(-3, 9))

	assert.Equal(t, geom.Pt(-3, 9), l.TopLeft())
	assert.Equal(t, geom.Sz(2, 2), l.Size())
	assert.Equal(t, pixel.Opaque(pixel.Blue), l.At(1, 1))
}

func TestFillRectClipsToLayer(t *testing.T) {
	l := New(geom.Pt(0, 0), geom.Sz(4, 4))
	red := pixel.Opaque(pixel.Red)

	l.FillRect(geom.RectAt(geom.Pt(2, -1), geom.Sz(5, 2)), red)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			expected := y == 0 && x >= 2
			assert.Equal(t, expected, l.At(x, y).IsOpaque(), "pixel (%d,%d)", x, y)
		}
	}

	l.Fill(pixel.Transparent)
	assert.False(t, l.At(3, 0).IsOpaque())
}

func TestIDsAreUnique(t *testing.T) {
	const n = 100
	seen := make(map[id.ID]struct{}, n)
	for i := 0; i < n; i++ {
		seen[New(geom.Pt(0, 0), geom.Sz(1, 1)).ID()] = struct{}{}
	}
	assert.Len(t, seen, n)
}

func TestNewWithGenerator(t *testing.T) {
	var gen id.Generator

	a := NewWithGenerator(&gen, geom.Pt(0, 0), geom.Sz(1, 1))
	b := NewWithGenerator(&gen, geom.Pt(0, 0), geom.Sz(1, 1))

	assert.Equal(t, id.ID(0), a.ID())
	assert.Equal(t, id.ID(1), b.ID())
}

func TestFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(10, 10, 13, 12))
	img.Set(10, 10, color.NRGBA{R: 0xFF, A: 0xFF})
	img.Set(12, 11, color.NRGBA{B: 0xFF, A: 0xFF})

	l := FromImage(geom.Pt(1, 2), img)

	assert.Equal(t, geom.Sz(3, 2), l.Size())
	assert.Equal(t, pixel.Opaque(pixel.Red), l.At(0, 0))
	assert.Equal(t, pixel.Opaque(pixel.Blue), l.At(2, 1))
	assert.Equal(t, pixel.Transparent, l.At(1, 0))
}
