package geometry

import (
	"errors"
	"fmt"
	"math"
)

// MinEdgeLength is the smallest accepted box edge in natural pixels.
const MinEdgeLength = 16

// DefaultEdgeLength is used when no edge length is configured.
const DefaultEdgeLength = 128

// ErrEdgeLengthTooSmall marks an edge length below MinEdgeLength.
var ErrEdgeLengthTooSmall = errors.New("edge length below minimum")

// ValidateEdgeLength reports whether n can be used to derive boxes.
func ValidateEdgeLength(n int) error {
	if n < MinEdgeLength {
		return fmt.Errorf("%w: %d < %d", ErrEdgeLengthTooSmall, n, MinEdgeLength)
	}
	return nil
}

// roundHalfUp matches the rounding used for pixel snapping in the label
// store: halves round towards positive infinity.
func roundHalfUp(v float64) int { return int(math.Floor(v + 0.5)) }

// DeriveBox returns the square box of the given edge length centered on
// center, clamped inside img. When the image is smaller than the edge on an
// axis the box is shrunk to the image on that axis, so the result is only
// guaranteed square when the image can hold it.
func DeriveBox(center Point, edge int, img Size) BBox {
	half := float64(edge) / 2
	b := BBox{
		X:      roundHalfUp(center.X - half),
		Y:      roundHalfUp(center.Y - half),
		Width:  edge,
		Height: edge,
	}
	if img.W > 0 && b.Width > img.W {
		b.Width = img.W
	}
	if img.H > 0 && b.Height > img.H {
		b.Height = img.H
	}
	b.X = clampInt(b.X, 0, img.W-b.Width)
	b.Y = clampInt(b.Y, 0, img.H-b.Height)
	return b
}
