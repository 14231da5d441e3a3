package annotation

import (
	"math"

	"github.com/soocke/pose-label-go/domain/geometry"
)

// DetectionBox is a single square box stored by its center and edge, the
// shape used by the detection-only labeling view.
type DetectionBox struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	BoxSize     float64 `json:"box_size"`
	ImageWidth  float64 `json:"image_width"`
	ImageHeight float64 `json:"image_height"`
}

// Submittable reports whether the box may be sent to the label store.
func (d DetectionBox) Submittable() bool {
	for _, v := range []float64{d.X, d.Y, d.BoxSize, d.ImageWidth, d.ImageHeight} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return d.BoxSize > 0
}

// BBox returns the clamped natural-space box for drawing.
func (d DetectionBox) BBox() geometry.BBox {
	size := geometry.Size{W: int(d.ImageWidth), H: int(d.ImageHeight)}
	return geometry.DeriveBox(geometry.Point{X: d.X, Y: d.Y}, int(math.Round(d.BoxSize)), size)
}

// DetectionSet is the ordered list of detection boxes of one frame.
type DetectionSet struct {
	boxes []DetectionBox
}

// Add appends a box centered on p. The same edge length and clamping rules
// as pose boxes apply.
func (s *DetectionSet) Add(p geometry.Point, edge int, img geometry.Size) error {
	if err := geometry.ValidateEdgeLength(edge); err != nil {
		return err
	}
	if !img.Valid() {
		return ErrNoImage
	}
	if !p.Finite() || p.X < 0 || p.Y < 0 || p.X > float64(img.W) || p.Y > float64(img.H) {
		return ErrOutsideImage
	}
	b := geometry.DeriveBox(p, edge, img)
	c := b.Center()
	s.boxes = append(s.boxes, DetectionBox{
		X:           c.X,
		Y:           c.Y,
		BoxSize:     float64(b.Width),
		ImageWidth:  float64(img.W),
		ImageHeight: float64(img.H),
	})
	return nil
}

// Replace swaps the set's contents, typically with boxes loaded from the store.
func (s *DetectionSet) Replace(boxes []DetectionBox) {
	s.boxes = append(s.boxes[:0], boxes...)
}

// RemoveLast drops the most recent box. It reports whether one was removed.
func (s *DetectionSet) RemoveLast() bool {
	if len(s.boxes) == 0 {
		return false
	}
	s.boxes = s.boxes[:len(s.boxes)-1]
	return true
}

// Clear drops every box.
func (s *DetectionSet) Clear() { s.boxes = s.boxes[:0] }

// Len returns the number of boxes, including invalid ones.
func (s *DetectionSet) Len() int { return len(s.boxes) }

// All returns a copy of the boxes.
func (s *DetectionSet) All() []DetectionBox {
	return append([]DetectionBox(nil), s.boxes...)
}

// Submittable returns the boxes that pass Submittable, in order.
func (s *DetectionSet) Submittable() []DetectionBox {
	return FilterSubmittable(s.boxes)
}

// FilterSubmittable drops boxes with a non-positive size or non-finite fields.
func FilterSubmittable(in []DetectionBox) []DetectionBox {
	out := make([]DetectionBox, 0, len(in))
	for _, d := range in {
		if d.Submittable() {
			out = append(out, d)
		}
	}
	return out
}
