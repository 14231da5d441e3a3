package images

import (
	"errors"
	"image"

	"github.com/disintegration/imaging"

	"github.com/soocke/pose-label-go/domain/annotation"
	"github.com/soocke/pose-label-go/domain/geometry"
)

// DefaultPreviewSize is the edge of a preview crop in pixels.
const DefaultPreviewSize = 128

var errNilFrame = errors.New("nil frame")

// CropBox cuts b out of frame and resizes it to an out x out square. The box
// is clamped to the frame bounds and is at least 1x1.
func CropBox(frame image.Image, b geometry.BBox, out int) (*image.NRGBA, image.Rectangle, error) {
	if frame == nil {
		return nil, image.Rectangle{}, errNilFrame
	}
	if out < 1 {
		out = DefaultPreviewSize
	}
	fb := frame.Bounds()
	r := image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height).Add(fb.Min).Intersect(fb)
	if r.Empty() {
		x := min(max(fb.Min.X+b.X, fb.Min.X), fb.Max.X-1)
		y := min(max(fb.Min.Y+b.Y, fb.Min.Y), fb.Max.Y-1)
		r = image.Rect(x, y, x+1, y+1)
	}
	crop := imaging.Crop(frame, r)
	return imaging.Resize(crop, out, out, imaging.Lanczos), r, nil
}

// Previews holds one crop per pose key; entries are nil for boxes that are
// not set yet.
type Previews [len(annotation.PoseKeys)]*image.NRGBA

// Get returns the crop for k.
func (p Previews) Get(k annotation.PoseKey) *image.NRGBA {
	if int(k) < 0 || int(k) >= len(p) {
		return nil
	}
	return p[k]
}

// CropPreviews produces the live previews for every box that is set.
func CropPreviews(frame image.Image, boxes annotation.PoseBoxes, out int) (Previews, error) {
	var p Previews
	if frame == nil {
		return p, errNilFrame
	}
	for _, k := range annotation.PoseKeys {
		b := boxes.Get(k)
		if b == nil || b.Empty() {
			continue
		}
		img, _, err := CropBox(frame, *b, out)
		if err != nil {
			return p, err
		}
		p[k] = img
	}
	return p, nil
}
