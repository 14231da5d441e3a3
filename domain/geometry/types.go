package geometry

import "math"

// Point is a position in natural (unscaled) image-pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BBox is a top-left anchored rectangle in natural image-pixel space.
type BBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Center returns the box center in natural space.
func (b BBox) Center() Point {
	return Point{X: float64(b.X) + float64(b.Width)/2, Y: float64(b.Y) + float64(b.Height)/2}
}

// Empty reports whether the box has no area.
func (b BBox) Empty() bool { return b.Width <= 0 || b.Height <= 0 }

// Within reports whether the box lies fully inside an image of the given size.
func (b BBox) Within(s Size) bool {
	return b.X >= 0 && b.Y >= 0 && b.Width >= 0 && b.Height >= 0 &&
		b.X+b.Width <= s.W && b.Y+b.Height <= s.H
}

// Size is an image size in natural pixels.
type Size struct {
	W int `json:"width"`
	H int `json:"height"`
}

// Valid reports whether both dimensions are positive.
func (s Size) Valid() bool { return s.W > 0 && s.H > 0 }

// Finite reports whether both coordinates are finite numbers.
func (p Point) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
