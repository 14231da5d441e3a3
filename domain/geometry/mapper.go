package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Display is the on-screen size chosen for a frame together with the
// natural/display ratio used to get there.
type Display struct {
	Width  int
	Height int
	Scale  float64 // natural width / display width, >= 1 when downscaled
}

// DisplaySize fits natural into maxWidth preserving aspect ratio. Images
// narrower than maxWidth are shown at their natural size.
func DisplaySize(natural Size, maxWidth int) Display {
	if !natural.Valid() {
		return Display{Scale: 1}
	}
	w := natural.W
	if maxWidth > 0 && maxWidth < w {
		w = maxWidth
	}
	scale := float64(natural.W) / float64(w)
	h := int(math.Round(float64(natural.H) / scale))
	if h < 1 {
		h = 1
	}
	return Display{Width: w, Height: h, Scale: scale}
}

// Canvas describes where a frame bitmap is drawn. Backing is the bitmap's
// pixel size; Rendered is the size it occupies on screen, which differs from
// Backing when the toolkit stretches the widget. Origin is the top-left
// corner of the rendered canvas in the pointer's coordinate space.
type Canvas struct {
	Origin   r2.Vec
	Rendered r2.Vec
	Backing  Size
}

// NewCanvas returns a canvas rendered at its backing size with a zero origin,
// which is how widget-local pointer events arrive.
func NewCanvas(backing Size) Canvas {
	return Canvas{Rendered: r2.Vec{X: float64(backing.W), Y: float64(backing.H)}, Backing: backing}
}

func (c Canvas) valid() bool {
	return c.Backing.Valid() && c.Rendered.X > 0 && c.Rendered.Y > 0
}

// renderScale converts rendered units into backing pixels.
func (c Canvas) renderScale() r2.Vec {
	return r2.Vec{X: float64(c.Backing.W) / c.Rendered.X, Y: float64(c.Backing.H) / c.Rendered.Y}
}

// naturalScale converts backing pixels into natural pixels.
func (c Canvas) naturalScale(natural Size) r2.Vec {
	return r2.Vec{X: float64(natural.W) / float64(c.Backing.W), Y: float64(natural.H) / float64(c.Backing.H)}
}

func mul(v, s r2.Vec) r2.Vec { return r2.Vec{X: v.X * s.X, Y: v.Y * s.Y} }

func div(v, s r2.Vec) r2.Vec { return r2.Vec{X: v.X / s.X, Y: v.Y / s.Y} }

// CanvasToNatural maps a pointer position into natural image space. The
// position is first corrected for toolkit stretching, then scaled from the
// backing bitmap to the natural image.
func CanvasToNatural(pointer Point, c Canvas, natural Size) Point {
	if !c.valid() || !natural.Valid() {
		return Point{}
	}
	local := r2.Sub(r2.Vec{X: pointer.X, Y: pointer.Y}, c.Origin)
	backing := mul(local, c.renderScale())
	n := mul(backing, c.naturalScale(natural))
	return Point{X: n.X, Y: n.Y}
}

// NaturalToCanvas is the inverse of CanvasToNatural.
func NaturalToCanvas(p Point, c Canvas, natural Size) Point {
	if !c.valid() || !natural.Valid() {
		return Point{}
	}
	backing := div(r2.Vec{X: p.X, Y: p.Y}, c.naturalScale(natural))
	local := div(backing, c.renderScale())
	out := r2.Add(local, c.Origin)
	return Point{X: out.X, Y: out.Y}
}

// NaturalToBacking maps a natural point onto the backing bitmap, which is the
// space boxes and keypoints are drawn in.
func NaturalToBacking(p Point, c Canvas, natural Size) Point {
	if !c.valid() || !natural.Valid() {
		return Point{}
	}
	b := div(r2.Vec{X: p.X, Y: p.Y}, c.naturalScale(natural))
	return Point{X: b.X, Y: b.Y}
}

// Rect is a floating point rectangle in backing space.
type Rect struct {
	X, Y, W, H float64
}

// BoxToBacking maps a natural box onto the backing bitmap.
func BoxToBacking(b BBox, c Canvas, natural Size) Rect {
	tl := NaturalToBacking(Point{X: float64(b.X), Y: float64(b.Y)}, c, natural)
	br := NaturalToBacking(Point{X: float64(b.X + b.Width), Y: float64(b.Y + b.Height)}, c, natural)
	return Rect{X: tl.X, Y: tl.Y, W: br.X - tl.X, H: br.Y - tl.Y}
}

// InBounds reports whether a pointer position falls on the rendered canvas.
func (c Canvas) InBounds(pointer Point) bool {
	x := pointer.X - c.Origin.X
	y := pointer.Y - c.Origin.Y
	return x >= 0 && y >= 0 && x <= c.Rendered.X && y <= c.Rendered.Y
}
