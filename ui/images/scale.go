package images

import (
	"bytes"
	"image"
	"image/png"

	"golang.org/x/image/draw"

	"github.com/soocke/pose-label-go/domain/geometry"
)

// EncodePNG encodes an image to PNG bytes. Errors are ignored and may return an empty slice.
func EncodePNG(img image.Image) []byte {
	if img == nil {
		return nil
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

// ScaleToDisplay renders src at the display size chosen by
// geometry.DisplaySize. The result is always a fresh RGBA the caller may
// draw on.
func ScaleToDisplay(src image.Image, d geometry.Display) *image.RGBA {
	if src == nil || d.Width < 1 || d.Height < 1 {
		return nil
	}
	return resample(src, d.Width, d.Height)
}

func resample(src image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	b := src.Bounds()
	if b.Dx() == w && b.Dy() == h {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}
