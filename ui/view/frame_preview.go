package view

import (
	"image"

	"github.com/soocke/pose-label-go/domain/annotation"
	"github.com/soocke/pose-label-go/ui/images"
	"github.com/soocke/pose-label-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// FramePreview shows the annotated frame and the three box crops.
type FramePreview interface {
	ShowFrame(img image.Image)
	ShowPreviews(p images.Previews)
	Reset()
}

type framePreview struct {
	frameLabel *LabelWidget
	crops      [len(annotation.PoseKeys)]*LabelWidget
	framePhoto *Img
	cropPhotos [len(annotation.PoseKeys)]*Img
	cropSize   int
}

// NewFramePreview creates the frame label spanning columns 0-3 of row and a
// column of crop previews at column 4. Clicks on the frame are reported in
// label-local pixels.
func NewFramePreview(row, cropSize int, onClick func(x, y float64)) FramePreview {
	v := &framePreview{cropSize: cropSize}
	v.framePhoto = placeholder(480, 270)
	v.frameLabel = Label(Image(v.framePhoto), Borderwidth(0), Anchor("nw"), Cursor("crosshair"))
	Grid(v.frameLabel, Row(row), Column(0), Columnspan(4), Sticky("nw"), Padx("0.4m"), Pady("0.4m"))
	if onClick != nil {
		Bind(v.frameLabel, "<Button-1>", Command(func(e *Event) {
			onClick(float64(e.X), float64(e.Y))
		}))
	}

	side := Frame()
	Grid(side, Row(row), Column(4), Sticky("n"), Padx("0.4m"), Pady("0.4m"))
	styles := [...]string{theme.StyleHeadLabel, theme.StyleLeftLabel, theme.StyleRightLabel}
	for i, k := range annotation.PoseKeys {
		caption := TLabel(Txt(k.String()), Style(styles[i]))
		Grid(caption, In(side), Row(i*2), Column(0), Sticky("w"))
		v.cropPhotos[i] = placeholder(cropSize, cropSize)
		v.crops[i] = Label(Image(v.cropPhotos[i]), Borderwidth(1), Relief("sunken"))
		Grid(v.crops[i], In(side), Row(i*2+1), Column(0), Pady("0.2m"))
	}
	return v
}

func placeholder(w, h int) *Img {
	if w <= 0 || h <= 0 {
		w, h = 1, 1
	}
	return NewPhoto(Data(images.EncodePNG(image.NewRGBA(image.Rect(0, 0, w, h)))))
}

// ShowFrame replaces the frame photo, disposing the previous one.
func (v *framePreview) ShowFrame(img image.Image) {
	if v == nil || v.frameLabel == nil || img == nil {
		return
	}
	photo := NewPhoto(Data(images.EncodePNG(img)))
	if v.framePhoto != nil {
		v.framePhoto.Delete()
	}
	v.framePhoto = photo
	v.frameLabel.Configure(Image(photo))
}

// ShowPreviews replaces each crop; a missing box shows a blank tile.
func (v *framePreview) ShowPreviews(p images.Previews) {
	if v == nil {
		return
	}
	for i, k := range annotation.PoseKeys {
		if v.crops[i] == nil {
			continue
		}
		var photo *Img
		if img := p.Get(k); img != nil {
			photo = NewPhoto(Data(images.EncodePNG(img)))
		} else {
			photo = placeholder(v.cropSize, v.cropSize)
		}
		if v.cropPhotos[i] != nil {
			v.cropPhotos[i].Delete()
		}
		v.cropPhotos[i] = photo
		v.crops[i].Configure(Image(photo))
	}
}

func (v *framePreview) Reset() {
	if v == nil {
		return
	}
	v.ShowFrame(image.NewRGBA(image.Rect(0, 0, 480, 270)))
	v.ShowPreviews(images.Previews{})
}
