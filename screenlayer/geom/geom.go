// Package geom holds the integer geometry shared by layers, the VRAM writer
// and the controller: signed points, unsigned sizes and half-open rectangles.
package geom

import "fmt"

// Point is a signed coordinate. Layer positions may be negative or lie past
// the screen edge.
type Point struct {
	X, Y int
}

// Size is an unsigned width and height in pixels.
type Size struct {
	W, H uint32
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Sz is shorthand for Size{w, h}.
func Sz(w, h uint32) Size {
	return Size{W: w, H: h}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.W, s.H)
}

// Add offsets p by s.
func (p Point) Add(s Size) Point {
	return Point{X: p.X + int(s.W), Y: p.Y + int(s.H)}
}

// Offset returns p+q.
func (p Point) Offset(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Min returns the component-wise minimum of p and q.
func (p Point) Min(q Point) Point {
	return Point{X: min(p.X, q.X), Y: min(p.Y, q.Y)}
}

// Max returns the component-wise maximum of p and q.
func (p Point) Max(q Point) Point {
	return Point{X: max(p.X, q.X), Y: max(p.Y, q.Y)}
}

// Clamp bounds each component of p to [lo, hi].
func (p Point) Clamp(lo, hi Point) Point {
	return p.Min(hi).Max(lo)
}

// Point returns the size as a point, i.e. the bottom-right corner of a
// rectangle anchored at the origin.
func (s Size) Point() Point {
	return Point{X: int(s.W), Y: int(s.H)}
}

// Area is the number of pixels covered by s.
func (s Size) Area() int {
	return int(s.W) * int(s.H)
}

// Rect is the half-open rectangle [Min, Max).
type Rect struct {
	Min, Max Point
}

// RectAt returns the rectangle of the given size anchored at topLeft.
func RectAt(topLeft Point, size Size) Rect {
	return Rect{Min: topLeft, Max: topLeft.Add(size)}
}

func (r Rect) String() string {
	return r.Min.String() + "-" + r.Max.String()
}

// Dx is the width of r, zero when r is empty on that axis.
func (r Rect) Dx() int {
	return max(r.Max.X-r.Min.X, 0)
}

// Dy is the height of r, zero when r is empty on that axis.
func (r Rect) Dy() int {
	return max(r.Max.Y-r.Min.Y, 0)
}

// Empty reports whether r contains no points.
func (r Rect) Empty() bool {
	return r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return r.Min.X <= p.X && p.X < r.Max.X &&
		r.Min.Y <= p.Y && p.Y < r.Max.Y
}

// Intersect clips the rectangle s against r. The result is empty when the two
// do not overlap; an empty result may sit anywhere and must not be used for
// anything but iteration.
func (r Rect) Intersect(s Rect) Rect {
	topLeft := r.Min.Max(s.Min).Min(s.Max)
	bottomRight := r.Max.Min(s.Max).Max(topLeft)
	return Rect{Min: topLeft, Max: bottomRight}
}

// ClipToScreen turns a requested redraw rectangle into one inside
// [0, resolution). The top-left corner is clamped first and the size is then
// applied from the clamped corner, so the result is never larger than the
// screen and is empty when the request lies completely off-screen to the
// right or bottom.
func ClipToScreen(topLeft Point, size Size, resolution Size) Rect {
	screen := resolution.Point()
	tl := topLeft.Clamp(Point{}, screen)
	br := tl.Add(size).Clamp(Point{}, screen)
	return Rect{Min: tl, Max: br}
}
