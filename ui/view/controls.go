package view

import (
	"slices"
	"strconv"

	"github.com/soocke/pose-label-go/domain/annotation"
	"github.com/soocke/pose-label-go/ui/presenter"
	"github.com/soocke/pose-label-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Controls is the annotation toolbar: navigation, labels, toggles and
// session actions. Every action is forwarded as a controller event.
type Controls interface {
	Build(parent *FrameWidget, startRow, edgeLength int) (endRow int)
	Update(vs presenter.ViewState)
	SetEnabled(enabled bool)
}

type controls struct {
	emit  func(presenter.Event)
	focus TextFocus

	edge        *TextWidget
	frameSelect *TComboboxWidget
	frames      []string
	labelLbl    *LabelWidget
	flagsLbl    *LabelWidget

	filterBtn  *Window
	inheritBtn *Window
	modeBtn    *Window
	captureBtn *Window
	saveBtn    *Window
	buttons    []*Window
}

// NewControls returns controls that forward events to emit.
func NewControls(emit func(presenter.Event), focus TextFocus) Controls {
	return &controls{emit: emit, focus: focus}
}

func (c *controls) send(ev presenter.Event) {
	if c.emit != nil {
		c.emit(ev)
	}
}

func (c *controls) button(parent *FrameWidget, text string, row, col int, ev presenter.Event, style string) *Window {
	cmd := Command(func() { c.send(ev) })
	var b *Window
	if style != "" {
		b = TButton(Txt(text), Style(style), cmd).Window
	} else {
		b = Button(Txt(text), cmd).Window
	}
	Grid(b, In(parent), Row(row), Column(col), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	c.buttons = append(c.buttons, b)
	return b
}

func (c *controls) Build(parent *FrameWidget, startRow, edgeLength int) (row int) {
	row = startRow

	nav := Frame()
	Grid(nav, In(parent), Row(row), Column(0), Columnspan(2), Sticky("we"))
	c.button(nav, "◀ Prev", 0, 0, presenter.Event{Kind: presenter.EventNavigate, Delta: -1}, "")
	c.button(nav, "Next ▶", 0, 1, presenter.Event{Kind: presenter.EventNavigate, Delta: 1}, "")
	c.frameSelect = TCombobox(Values([]string{"<none>"}), Width(28), State("readonly"))
	Grid(c.frameSelect, In(nav), Row(0), Column(2), Sticky("we"), Padx("0.2m"))
	Bind(c.frameSelect, "<<ComboboxSelected>>", Command(func() {
		if idx, err := strconv.Atoi(c.frameSelect.Current(nil)); err == nil && idx < len(c.frames) {
			c.send(presenter.Event{Kind: presenter.EventSelectFrame, Index: idx})
		}
	}))
	row++

	labels := Frame()
	Grid(labels, In(parent), Row(row), Column(0), Columnspan(2), Sticky("we"))
	Grid(Label(Txt("Head"), Anchor("w")), In(labels), Row(0), Column(0), Sticky("w"))
	Grid(Label(Txt("Hand"), Anchor("w")), In(labels), Row(1), Column(0), Sticky("w"))
	for l := annotation.Label(1); l <= annotation.MaxLabel; l++ {
		txt := strconv.Itoa(int(l))
		c.button(labels, txt, 0, int(l), presenter.Event{Kind: presenter.EventSetHeadLabel, Label: l}, "")
		c.button(labels, txt, 1, int(l), presenter.Event{Kind: presenter.EventSetHandLabel, Label: l}, "")
	}
	c.labelLbl = Label(Txt(presenter.LabelText(presenter.ViewState{})), Anchor("w"))
	Grid(c.labelLbl, In(labels), Row(2), Column(0), Columnspan(6), Sticky("w"))
	row++

	edgeRow := Frame()
	Grid(edgeRow, In(parent), Row(row), Column(0), Columnspan(2), Sticky("we"))
	Grid(Label(Txt("Box size (px)"), Anchor("w")), In(edgeRow), Row(0), Column(0), Sticky("w"))
	c.edge = textEntry("edge_length", 8, c.focus)
	Grid(c.edge, In(edgeRow), Row(0), Column(1), Sticky("w"), Padx("0.2m"))
	setText(c.edge, strconv.Itoa(edgeLength))
	Bind(c.edge, "<KeyRelease>", Command(func() {
		c.send(presenter.Event{Kind: presenter.EventEdgeLength, Text: textOf(c.edge)})
	}))
	c.button(edgeRow, "Reset points (R)", 0, 2, presenter.Event{Kind: presenter.EventResetCapture}, "")
	c.button(edgeRow, "Undo box", 0, 3, presenter.Event{Kind: presenter.EventUndoDetection}, "")
	row++

	toggles := Frame()
	Grid(toggles, In(parent), Row(row), Column(0), Columnspan(2), Sticky("we"))
	c.filterBtn = c.button(toggles, presenter.FilterLabel(0), 0, 0, presenter.Event{Kind: presenter.EventToggleFilter}, "")
	c.inheritBtn = c.button(toggles, "Inherit", 0, 1, presenter.Event{Kind: presenter.EventToggleInherit}, "")
	c.captureBtn = c.button(toggles, "Capture", 0, 2, presenter.Event{Kind: presenter.EventToggleCaptureMode}, "")
	c.modeBtn = c.button(toggles, "Detection mode", 0, 3, presenter.Event{Kind: presenter.EventToggleMode}, "")
	c.flagsLbl = Label(Anchor("w"))
	Grid(c.flagsLbl, In(toggles), Row(1), Column(0), Columnspan(4), Sticky("w"))
	row++

	actions := Frame()
	Grid(actions, In(parent), Row(row), Column(0), Columnspan(2), Sticky("we"))
	c.saveBtn = c.button(actions, "Save & Next (Space)", 0, 0, presenter.Event{Kind: presenter.EventSaveAdvance}, theme.StylePrimaryButton)
	c.button(actions, "Refresh", 0, 1, presenter.Event{Kind: presenter.EventRefresh}, "")
	c.button(actions, "Export", 0, 2, presenter.Event{Kind: presenter.EventExport}, "")
	resetLabels := TButton(Txt("Reset labels"), Style(theme.StyleDangerButton), Command(func() {
		answer := MessageBox(Icon("warning"), Title("Reset labels"), Type("yesno"),
			Msg("Delete every saved label in this session?"))
		if answer == "yes" {
			c.send(presenter.Event{Kind: presenter.EventResetLabels})
		}
	}))
	Grid(resetLabels, In(actions), Row(0), Column(3), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	c.buttons = append(c.buttons, resetLabels.Window)
	row++
	return row
}

func (c *controls) Update(vs presenter.ViewState) {
	if c == nil || c.frameSelect == nil {
		return
	}
	if !slices.Equal(vs.Visible, c.frames) {
		c.frames = slices.Clone(vs.Visible)
		values := c.frames
		if len(values) == 0 {
			values = []string{"<none>"}
		}
		c.frameSelect.Configure(Values(values))
	}
	if vs.HasFrame {
		c.frameSelect.Current(vs.Index)
	}
	c.labelLbl.Configure(Txt(presenter.LabelText(vs)))
	c.flagsLbl.Configure(Txt(presenter.FlagsText(vs)))
	c.filterBtn.Configure(Txt(presenter.FilterLabel(vs.Filter)))
	c.inheritBtn.Configure(Txt(onOffText("Inherit", vs.Inherit)))
	c.captureBtn.Configure(Txt(onOffText("Capture", vs.CaptureEnabled)))
	if vs.Mode == presenter.ModeDetection {
		c.modeBtn.Configure(Txt("Pose mode"))
	} else {
		c.modeBtn.Configure(Txt("Detection mode"))
	}
	saveState := "normal"
	if vs.Saving || !vs.HasFrame {
		saveState = "disabled"
	}
	c.saveBtn.Configure(State(saveState))
}

func (c *controls) SetEnabled(enabled bool) {
	state := "disabled"
	if enabled {
		state = "normal"
	}
	for _, b := range c.buttons {
		b.Configure(State(state))
	}
	if c.edge != nil {
		c.edge.Configure(State(state))
	}
}

func onOffText(name string, on bool) string {
	if on {
		return name + ": on"
	}
	return name + ": off"
}
