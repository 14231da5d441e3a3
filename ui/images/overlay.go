package images

import (
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/font/basicfont"

	"github.com/soocke/pose-label-go/domain/annotation"
	"github.com/soocke/pose-label-go/domain/geometry"
)

// Style holds the colours used when drawing annotations.
type Style struct {
	Head      color.Color
	LeftHand  color.Color
	RightHand color.Color
	Detection color.Color
	Tag       color.Color
	LineWidth float64
}

// DefaultStyle returns the stock annotation palette.
func DefaultStyle() Style {
	return Style{
		Head:      color.RGBA{R: 0xe5, G: 0x39, B: 0x35, A: 0xff},
		LeftHand:  color.RGBA{R: 0x1e, G: 0x88, B: 0xe5, A: 0xff},
		RightHand: color.RGBA{R: 0x43, G: 0xa0, B: 0x47, A: 0xff},
		Detection: color.RGBA{R: 0xfb, G: 0x8c, B: 0x00, A: 0xff},
		Tag:       color.White,
		LineWidth: 2,
	}
}

// KeyColor returns the colour used for k.
func (s Style) KeyColor(k annotation.PoseKey) color.Color {
	switch k {
	case annotation.KeyHead:
		return s.Head
	case annotation.KeyLeftHand:
		return s.LeftHand
	default:
		return s.RightHand
	}
}

// Overlay is everything drawn on top of a frame. Geometry is in natural
// image space.
type Overlay struct {
	Natural    geometry.Size
	Boxes      annotation.PoseBoxes
	Keypoints  annotation.Keypoints
	Active     annotation.PoseKey
	HasActive  bool
	Detections []geometry.BBox
}

var keyTags = [...]string{"H", "L", "R"}

// RenderOverlay draws o onto a copy of base, which is the frame already
// scaled to its display size.
func RenderOverlay(base *image.RGBA, o Overlay, st Style) *image.RGBA {
	if base == nil {
		return nil
	}
	b := base.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), base, b.Min, draw.Src)
	if !o.Natural.Valid() {
		return out
	}
	canvas := geometry.NewCanvas(geometry.Size{W: b.Dx(), H: b.Dy()})
	dc := gg.NewContextForRGBA(out)
	dc.SetFontFace(basicfont.Face7x13)
	lw := st.LineWidth
	if lw <= 0 {
		lw = 2
	}

	for _, d := range o.Detections {
		r := geometry.BoxToBacking(d, canvas, o.Natural)
		dc.SetColor(st.Detection)
		dc.SetLineWidth(lw)
		dc.DrawRectangle(r.X, r.Y, r.W, r.H)
		dc.Stroke()
	}

	for _, k := range annotation.PoseKeys {
		c := st.KeyColor(k)
		width := lw
		if o.HasActive && o.Active == k {
			width = lw * 2
		}
		if box := o.Boxes.Get(k); box != nil && !box.Empty() {
			r := geometry.BoxToBacking(*box, canvas, o.Natural)
			dc.SetColor(c)
			dc.SetLineWidth(width)
			dc.DrawRectangle(r.X, r.Y, r.W, r.H)
			dc.Stroke()
			drawTag(dc, keyTags[k], r.X, r.Y, c, st.Tag)
		}
		if p := o.Keypoints.Get(k); p != nil {
			bp := geometry.NaturalToBacking(*p, canvas, o.Natural)
			dc.SetColor(c)
			dc.DrawCircle(bp.X, bp.Y, 3)
			dc.Fill()
		}
	}
	return out
}

func drawTag(dc *gg.Context, tag string, x, y float64, bg, fg color.Color) {
	w, h := dc.MeasureString(tag)
	pad := 2.0
	ty := y - h - 2*pad
	if ty < 0 {
		ty = y
	}
	dc.SetColor(bg)
	dc.DrawRectangle(x, ty, w+2*pad, h+2*pad)
	dc.Fill()
	dc.SetColor(fg)
	dc.DrawStringAnchored(tag, x+pad, ty+pad, 0, 1)
}

// ParseHex parses "#rrggbb" into an opaque colour. Malformed input yields black.
func ParseHex(s string) color.Color {
	h := strings.TrimPrefix(s, "#")
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil || len(h) != 6 {
		return color.Black
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}
