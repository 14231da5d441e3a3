package model

import (
	"github.com/soocke/pose-label-go/domain/geometry"
)

// ViewportModel holds how the current frame is laid out on screen. The zero
// value has no frame and is usable. Updates occur on the UI thread tick.
type ViewportModel struct {
	natural  geometry.Size
	display  geometry.Display
	maxWidth int
}

func NewViewportModel(maxWidth int) *ViewportModel { return &ViewportModel{maxWidth: maxWidth} }

// SetNatural records the natural size of a newly shown frame and recomputes
// the display size. An invalid size clears the viewport.
func (m *ViewportModel) SetNatural(s geometry.Size) {
	if m == nil {
		return
	}
	if !s.Valid() {
		*m = ViewportModel{maxWidth: m.maxWidth}
		return
	}
	m.natural = s
	m.display = geometry.DisplaySize(s, m.maxWidth)
}

// SetMaxWidth changes the display width limit.
func (m *ViewportModel) SetMaxWidth(w int) {
	if m == nil {
		return
	}
	m.maxWidth = w
	if m.natural.Valid() {
		m.display = geometry.DisplaySize(m.natural, w)
	}
}

func (m *ViewportModel) Natural() geometry.Size {
	if m == nil {
		return geometry.Size{}
	}
	return m.natural
}

func (m *ViewportModel) Display() geometry.Display {
	if m == nil {
		return geometry.Display{}
	}
	return m.display
}

// Canvas returns the widget geometry pointer events are mapped through.
func (m *ViewportModel) Canvas() geometry.Canvas {
	return geometry.NewCanvas(geometry.Size{W: m.Display().Width, H: m.Display().Height})
}

// ToNatural maps a widget-local pointer position into natural image space.
// It reports false when no frame is shown or the pointer is off the image.
func (m *ViewportModel) ToNatural(x, y float64) (geometry.Point, bool) {
	if m == nil || !m.natural.Valid() {
		return geometry.Point{}, false
	}
	c := m.Canvas()
	p := geometry.Point{X: x, Y: y}
	if !c.InBounds(p) {
		return geometry.Point{}, false
	}
	return geometry.CanvasToNatural(p, c, m.natural), true
}
