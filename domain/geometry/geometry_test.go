package geometry

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestDisplaySize_DownscalesWideImages(t *testing.T) {
	d := DisplaySize(Size{W: 1920, H: 1080}, 960)
	if d.Width != 960 || d.Height != 540 {
		t.Fatalf("expected 960x540, got %dx%d", d.Width, d.Height)
	}
	if d.Scale != 2 {
		t.Fatalf("expected scale 2, got %v", d.Scale)
	}
}

func TestDisplaySize_KeepsNarrowImages(t *testing.T) {
	d := DisplaySize(Size{W: 640, H: 480}, 960)
	if d.Width != 640 || d.Height != 480 || d.Scale != 1 {
		t.Fatalf("expected natural size, got %+v", d)
	}
}

func TestCanvasToNatural_CorrectsStretching(t *testing.T) {
	// 1280x720 frame drawn into a 640x360 bitmap that the toolkit stretched to 320x180.
	c := Canvas{Origin: r2.Vec{X: 10, Y: 20}, Rendered: r2.Vec{X: 320, Y: 180}, Backing: Size{W: 640, H: 360}}
	natural := Size{W: 1280, H: 720}
	p := CanvasToNatural(Point{X: 10 + 160, Y: 20 + 90}, c, natural)
	if p.X != 640 || p.Y != 360 {
		t.Fatalf("expected (640,360), got (%v,%v)", p.X, p.Y)
	}
}

func TestCanvasToNatural_RoundTrip(t *testing.T) {
	canvases := []Canvas{
		NewCanvas(Size{W: 640, H: 360}),
		{Origin: r2.Vec{X: 3.5, Y: 7}, Rendered: r2.Vec{X: 500, Y: 281.25}, Backing: Size{W: 640, H: 360}},
		{Rendered: r2.Vec{X: 977, Y: 550}, Backing: Size{W: 960, H: 540}},
	}
	natural := Size{W: 1920, H: 1080}
	for ci, c := range canvases {
		for x := 0.0; x <= c.Rendered.X; x += c.Rendered.X / 17 {
			for y := 0.0; y <= c.Rendered.Y; y += c.Rendered.Y / 13 {
				in := Point{X: c.Origin.X + x, Y: c.Origin.Y + y}
				if !c.InBounds(in) {
					continue
				}
				out := NaturalToCanvas(CanvasToNatural(in, c, natural), c, natural)
				if math.Abs(out.X-in.X) > 1e-9 || math.Abs(out.Y-in.Y) > 1e-9 {
					t.Fatalf("canvas %d: round trip drifted: in=%v out=%v", ci, in, out)
				}
			}
		}
	}
}

func TestBoxToBacking_ScalesDown(t *testing.T) {
	c := NewCanvas(Size{W: 640, H: 360})
	r := BoxToBacking(BBox{X: 100, Y: 50, Width: 128, Height: 128}, c, Size{W: 1280, H: 720})
	if r.X != 50 || r.Y != 25 || r.W != 64 || r.H != 64 {
		t.Fatalf("unexpected backing rect %+v", r)
	}
}

func TestDeriveBox_ClampsNegativeOrigin(t *testing.T) {
	b := DeriveBox(Point{X: 10, Y: 10}, 128, Size{W: 640, H: 480})
	want := BBox{X: 0, Y: 0, Width: 128, Height: 128}
	if b != want {
		t.Fatalf("expected %+v, got %+v", want, b)
	}
}

func TestDeriveBox_Centers(t *testing.T) {
	b := DeriveBox(Point{X: 320, Y: 240}, 64, Size{W: 640, H: 480})
	if b != (BBox{X: 288, Y: 208, Width: 64, Height: 64}) {
		t.Fatalf("unexpected box %+v", b)
	}
	if c := b.Center(); c.X != 320 || c.Y != 240 {
		t.Fatalf("center drifted: %+v", c)
	}
}

func TestDeriveBox_ClampsFarEdge(t *testing.T) {
	b := DeriveBox(Point{X: 635, Y: 478}, 100, Size{W: 640, H: 480})
	if b.X != 540 || b.Y != 380 {
		t.Fatalf("expected origin (540,380), got (%d,%d)", b.X, b.Y)
	}
}

func TestDeriveBox_ShrinksWhenImageTooSmall(t *testing.T) {
	b := DeriveBox(Point{X: 40, Y: 10}, 64, Size{W: 100, H: 30})
	if b.Width != 64 || b.Height != 30 {
		t.Fatalf("expected 64x30, got %dx%d", b.Width, b.Height)
	}
	if b.Y != 0 {
		t.Fatalf("expected y=0, got %d", b.Y)
	}
}

func TestDeriveBox_AlwaysInsideImage(t *testing.T) {
	img := Size{W: 333, H: 201}
	for _, edge := range []int{16, 17, 64, 128, 200, 250, 400} {
		for x := -50.0; x <= 400; x += 23.7 {
			for y := -50.0; y <= 260; y += 19.3 {
				b := DeriveBox(Point{X: x, Y: y}, edge, img)
				if !b.Within(img) {
					t.Fatalf("edge=%d center=(%v,%v): box %+v escapes %+v", edge, x, y, b, img)
				}
			}
		}
	}
}

func TestValidateEdgeLength(t *testing.T) {
	if err := ValidateEdgeLength(MinEdgeLength); err != nil {
		t.Fatalf("minimum should be accepted: %v", err)
	}
	for _, n := range []int{15, 0, -4} {
		if err := ValidateEdgeLength(n); !errors.Is(err, ErrEdgeLengthTooSmall) {
			t.Fatalf("expected ErrEdgeLengthTooSmall for %d, got %v", n, err)
		}
	}
}

func TestBBoxWithin(t *testing.T) {
	img := Size{W: 50, H: 40}
	if !(BBox{X: 40, Y: 30, Width: 10, Height: 10}).Within(img) {
		t.Fatalf("box touching the far edges is inside")
	}
	if (BBox{X: 41, Y: 0, Width: 10, Height: 10}).Within(img) || (BBox{X: -1, Y: 0, Width: 10, Height: 10}).Within(img) {
		t.Fatalf("overhanging boxes are outside")
	}
}
