package images

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/soocke/pose-label-go/domain/annotation"
	"github.com/soocke/pose-label-go/domain/geometry"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestCropBox_FixedOutputSize(t *testing.T) {
	frame := solid(640, 480, color.RGBA{B: 200, A: 255})
	crop, rect, err := CropBox(frame, geometry.BBox{X: 100, Y: 100, Width: 64, Height: 64}, 128)
	if err != nil {
		t.Fatalf("crop: %v", err)
	}
	if crop.Bounds().Dx() != 128 || crop.Bounds().Dy() != 128 {
		t.Fatalf("expected 128x128, got %v", crop.Bounds())
	}
	if rect != image.Rect(100, 100, 164, 164) {
		t.Fatalf("unexpected source rect %v", rect)
	}
}

func TestCropBox_ClampsOutsideFrame(t *testing.T) {
	frame := solid(20, 20, color.RGBA{A: 255})
	_, rect, err := CropBox(frame, geometry.BBox{X: 15, Y: 15, Width: 10, Height: 10}, 8)
	if err != nil {
		t.Fatalf("crop: %v", err)
	}
	if rect.Max.X > 20 || rect.Max.Y > 20 {
		t.Fatalf("rect exceeds frame: %v", rect)
	}
	_, rect, _ = CropBox(frame, geometry.BBox{X: 50, Y: 50}, 8)
	if rect.Dx() != 1 || rect.Dy() != 1 {
		t.Fatalf("expected 1x1 fallback, got %v", rect)
	}
}

func TestCropBox_NilFrame(t *testing.T) {
	if _, _, err := CropBox(nil, geometry.BBox{Width: 1, Height: 1}, 8); err == nil {
		t.Fatalf("expected error for nil frame")
	}
}

func TestCropPreviews_OnlySetBoxes(t *testing.T) {
	frame := solid(200, 200, color.RGBA{R: 10, A: 255})
	boxes := annotation.PoseBoxes{}.With(annotation.KeyHead, geometry.BBox{X: 0, Y: 0, Width: 50, Height: 50})
	p, err := CropPreviews(frame, boxes, 32)
	if err != nil {
		t.Fatalf("previews: %v", err)
	}
	if p.Get(annotation.KeyHead) == nil {
		t.Fatalf("head preview missing")
	}
	if p.Get(annotation.KeyLeftHand) != nil || p.Get(annotation.KeyRightHand) != nil {
		t.Fatalf("unset boxes must not produce previews")
	}
}

func TestScaleToDisplay(t *testing.T) {
	src := solid(1920, 1080, color.RGBA{A: 255})
	d := geometry.DisplaySize(geometry.Size{W: 1920, H: 1080}, 960)
	out := ScaleToDisplay(src, d)
	if out.Bounds().Dx() != 960 || out.Bounds().Dy() != 540 {
		t.Fatalf("expected 960x540, got %v", out.Bounds())
	}
	if ScaleToDisplay(nil, d) != nil {
		t.Fatalf("nil source should yield nil")
	}
}

func TestRenderOverlay_DrawsBoxesWithoutMutatingBase(t *testing.T) {
	base := solid(100, 100, color.RGBA{A: 255})
	o := Overlay{
		Natural: geometry.Size{W: 200, H: 200},
		Boxes: annotation.PoseBoxes{}.With(annotation.KeyHead,
			geometry.BBox{X: 40, Y: 40, Width: 100, Height: 100}),
	}
	out := RenderOverlay(base, o, DefaultStyle())
	if out == nil || out.Bounds() != base.Bounds() {
		t.Fatalf("unexpected output bounds")
	}
	// Head box maps to (20,20)-(70,70) on the 100px display.
	if c := out.RGBAAt(20, 45); c.R < 0x80 {
		t.Fatalf("expected head colour on the box edge, got %+v", c)
	}
	if c := out.RGBAAt(45, 45); c != (color.RGBA{A: 255}) {
		t.Fatalf("box interior should be untouched, got %+v", c)
	}
	if c := base.RGBAAt(20, 45); c != (color.RGBA{A: 255}) {
		t.Fatalf("base image was modified")
	}
}

func TestEncodePNG_RoundTrips(t *testing.T) {
	data := EncodePNG(solid(3, 2, color.RGBA{G: 9, A: 255}))
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
	if EncodePNG(nil) != nil {
		t.Fatalf("nil image should encode to nil")
	}
}

func TestParseHex(t *testing.T) {
	if got := ParseHex("#e53935"); got != (color.RGBA{R: 0xe5, G: 0x39, B: 0x35, A: 0xff}) {
		t.Fatalf("unexpected colour %v", got)
	}
	if got := ParseHex("zzz"); got != color.Black {
		t.Fatalf("malformed input should be black, got %v", got)
	}
}
