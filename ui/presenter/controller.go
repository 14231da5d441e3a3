package presenter

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/soocke/pose-label-go/domain/annotation"
	"github.com/soocke/pose-label-go/domain/geometry"
	"github.com/soocke/pose-label-go/domain/labelstore"
	"github.com/soocke/pose-label-go/domain/session"
)

// Mode selects between three-point pose labeling and free detection boxes.
type Mode int

const (
	ModePose Mode = iota
	ModeDetection
)

func (m Mode) String() string {
	if m == ModeDetection {
		return "detection"
	}
	return "pose"
}

// ControllerOptions configures a new controller.
type ControllerOptions struct {
	EdgeLength    int
	Inherit       bool
	UnlabeledOnly bool
	Mode          Mode
	Logger        *slog.Logger
}

type handler func(c *Controller, ev Event) []Effect

// Controller owns the annotation state of one view. Every input is an Event
// routed through a dispatch table; handlers mutate state and return the side
// effects the host must carry out. It is not safe for concurrent use and
// must only be driven from the UI thread.
type Controller struct {
	nav        *session.Navigator
	capture    *annotation.Capture
	cache      annotation.InheritanceCache
	detections map[string]*annotation.DetectionSet
	inherit    bool
	mode       Mode
	label      annotation.Label
	handLabel  annotation.Label
	seed       annotation.SeedSource
	entered    string
	image      geometry.Size
	saving     string
	resetting  bool
	exporting  bool
	handlers   map[EventKind]handler
	logger     *slog.Logger
}

// NewController returns a controller with no frames loaded.
func NewController(opts ControllerOptions) *Controller {
	edge := opts.EdgeLength
	if edge == 0 {
		edge = geometry.DefaultEdgeLength
	}
	c := &Controller{
		nav:        session.NewNavigator(),
		capture:    annotation.NewCapture(edge),
		detections: make(map[string]*annotation.DetectionSet),
		inherit:    opts.Inherit,
		mode:       opts.Mode,
		logger:     opts.Logger,
	}
	if opts.UnlabeledOnly {
		c.nav.SetFilter(session.FilterUnlabeled)
	}
	c.handlers = map[EventKind]handler{
		EventFramesLoaded:      (*Controller).onFramesLoaded,
		EventLabelsLoaded:      (*Controller).onLabelsLoaded,
		EventLoadFailed:        (*Controller).onLoadFailed,
		EventImageLoaded:       (*Controller).onImageLoaded,
		EventClick:             (*Controller).onClick,
		EventSetHeadLabel:      (*Controller).onSetHeadLabel,
		EventSetHandLabel:      (*Controller).onSetHandLabel,
		EventNavigate:          (*Controller).onNavigate,
		EventSelectFrame:       (*Controller).onSelectFrame,
		EventNudge:             (*Controller).onNudge,
		EventSaveAdvance:       (*Controller).onSaveAdvance,
		EventSaveResult:        (*Controller).onSaveResult,
		EventResetCapture:      (*Controller).onResetCapture,
		EventEdgeLength:        (*Controller).onEdgeLength,
		EventToggleInherit:     (*Controller).onToggleInherit,
		EventToggleFilter:      (*Controller).onToggleFilter,
		EventToggleCaptureMode: (*Controller).onToggleCaptureMode,
		EventToggleMode:        (*Controller).onToggleMode,
		EventUndoDetection:     (*Controller).onUndoDetection,
		EventResetLabels:       (*Controller).onResetLabels,
		EventResetLabelsResult: (*Controller).onResetLabelsResult,
		EventExport:            (*Controller).onExport,
		EventExportResult:      (*Controller).onExportResult,
		EventRefresh:           (*Controller).onRefresh,
	}
	return c
}

// Capture exposes the capture state machine for listener registration.
func (c *Controller) Capture() *annotation.Capture { return c.capture }

// Handle routes ev to its handler and returns the resulting effects.
func (c *Controller) Handle(ev Event) []Effect {
	if c == nil {
		return nil
	}
	h, ok := c.handlers[ev.Kind]
	if !ok {
		if c.logger != nil {
			c.logger.Warn("unhandled event", "kind", ev.Kind.String())
		}
		return nil
	}
	return h(c, ev)
}

// Start returns the effects that load a session from scratch.
func (c *Controller) Start() []Effect {
	return []Effect{{Kind: EffectFetchFrames}, status("Loading frames…")}
}

// ViewState is a read-only snapshot of everything the view displays.
type ViewState struct {
	Frame          string
	HasFrame       bool
	Index          int
	Visible        []string
	Labeled        int
	Total          int
	Counts         session.Counts
	Filter         session.Filter
	Mode           Mode
	CaptureState   annotation.CaptureState
	CaptureEnabled bool
	Keypoints      annotation.Keypoints
	Boxes          annotation.PoseBoxes
	Active         annotation.PoseKey
	HasActive      bool
	Label          annotation.Label
	HandLabel      annotation.Label
	EdgeLength     int
	EdgeValid      bool
	Inherit        bool
	Seed           annotation.SeedSource
	Image          geometry.Size
	Detections     []annotation.DetectionBox
	Saving         bool
	FrameLabeled   bool
}

// State returns the current view state.
func (c *Controller) State() ViewState {
	cur, ok := c.nav.Current()
	labeled, total := c.nav.Progress()
	active, hasActive := c.capture.ActiveKey()
	vs := ViewState{
		Frame:          cur,
		HasFrame:       ok,
		Index:          c.nav.Index(),
		Visible:        c.nav.Visible(),
		Labeled:        labeled,
		Total:          total,
		Counts:         c.nav.Counts(),
		Filter:         c.nav.Filter(),
		Mode:           c.mode,
		CaptureState:   c.capture.State(),
		CaptureEnabled: c.capture.Enabled(),
		Keypoints:      c.capture.Keypoints(),
		Boxes:          c.capture.Boxes(),
		Active:         active,
		HasActive:      hasActive,
		Label:          c.label,
		HandLabel:      c.handLabel,
		EdgeLength:     c.capture.EdgeLength(),
		EdgeValid:      c.capture.EdgeValid(),
		Inherit:        c.inherit,
		Seed:           c.seed,
		Image:          c.image,
		Saving:         c.saving != "",
	}
	if ok {
		if m, found := c.nav.Meta(cur); found {
			vs.FrameLabeled = m.Labeled
		}
		if set := c.detections[cur]; set != nil {
			vs.Detections = set.All()
		}
	}
	return vs
}

func (c *Controller) detectionSet(frame string) *annotation.DetectionSet {
	set, ok := c.detections[frame]
	if !ok {
		set = &annotation.DetectionSet{}
		c.detections[frame] = set
	}
	return set
}

// enterFrame seeds the capture for the current frame and requests its image.
func (c *Controller) enterFrame() []Effect {
	cur, ok := c.nav.Current()
	c.image = geometry.Size{}
	c.capture.SetImageSize(geometry.Size{})
	if !ok {
		c.entered = ""
		c.seed = annotation.SeedEmpty
		c.label, c.handLabel = 0, 0
		c.capture.Seed(annotation.Keypoints{}, annotation.PoseBoxes{})
		msg := "No frames in this session"
		if c.nav.Filter() == session.FilterUnlabeled && len(c.nav.Frames()) > 0 {
			msg = "All frames labeled"
		}
		return []Effect{render, previews, status(msg)}
	}
	c.entered = cur
	var meta *annotation.FrameMeta
	if m, found := c.nav.Meta(cur); found {
		meta = &m
	}
	seed := annotation.ResolveSeed(meta, c.inherit, &c.cache)
	c.seed = seed.Source
	c.label, c.handLabel = seed.Label, seed.HandLabel
	c.capture.Seed(seed.Keypoints, seed.Boxes)
	effects := []Effect{{Kind: EffectLoadImage, Frame: cur}, render, previews}
	vis := c.nav.Visible()
	if i := c.nav.Index() + 1; i < len(vis) {
		effects = append(effects, Effect{Kind: EffectPrefetchImage, Frame: vis[i]})
	}
	if c.logger != nil {
		c.logger.Debug("enter frame", "frame", cur, "index", c.nav.Index(), "seed", seed.Source.String())
	}
	return effects
}

// reenterIfMoved enters the current frame when it differs from the one the
// capture was seeded for.
func (c *Controller) reenterIfMoved() []Effect {
	cur, _ := c.nav.Current()
	if cur == c.entered && cur != "" {
		return []Effect{render}
	}
	return c.enterFrame()
}

func (c *Controller) onFramesLoaded(ev Event) []Effect {
	c.nav.SetFrames(ev.Frames)
	effects := []Effect{{Kind: EffectFetchLabels}}
	effects = append(effects, c.reenterIfMoved()...)
	return append(effects, status(fmt.Sprintf("Loaded %d frames", len(c.nav.Frames()))))
}

func (c *Controller) onLabelsLoaded(ev Event) []Effect {
	cur, _ := c.nav.Current()
	c.nav.ApplyMetas(ev.Summary.Metas)
	for frame, boxes := range ev.Summary.Detections {
		set := c.detectionSet(frame)
		if frame == cur && set.Len() > 0 {
			continue
		}
		set.Replace(boxes)
	}
	if next, _ := c.nav.Current(); next == c.entered && next != "" && c.capture.Keypoints() == (annotation.Keypoints{}) {
		// Persisted geometry may have arrived after the frame was entered.
		if m, ok := c.nav.Meta(next); ok && m.HasAnnotation() {
			return c.enterFrameKeepImage()
		}
	}
	return c.reenterIfMoved()
}

// enterFrameKeepImage reseeds the current frame without reloading its image.
func (c *Controller) enterFrameKeepImage() []Effect {
	img := c.image
	effects := c.enterFrame()
	if img.Valid() {
		c.image = img
		c.capture.SetImageSize(img)
		out := effects[:0]
		for _, e := range effects {
			if e.Kind != EffectLoadImage {
				out = append(out, e)
			}
		}
		effects = out
	}
	return effects
}

func (c *Controller) onLoadFailed(ev Event) []Effect {
	return []Effect{statusErr(errText("Load failed", ev.Err))}
}

func (c *Controller) onImageLoaded(ev Event) []Effect {
	if cur, ok := c.nav.Current(); !ok || cur != ev.Frame {
		return nil
	}
	if ev.Err != nil {
		return []Effect{statusErr(errText("Image load failed", ev.Err))}
	}
	c.image = ev.Size
	c.capture.SetImageSize(ev.Size)
	return []Effect{render, previews}
}

func (c *Controller) onClick(ev Event) []Effect {
	cur, ok := c.nav.Current()
	if !ok {
		return nil
	}
	if !c.capture.EdgeValid() {
		return []Effect{statusErr("Fix the box size before capturing")}
	}
	if c.mode == ModeDetection {
		if err := c.detectionSet(cur).Add(ev.Point, c.capture.EdgeLength(), c.image); err != nil {
			return []Effect{statusErr(err.Error())}
		}
		return []Effect{render}
	}
	if err := c.capture.Click(ev.Point); err != nil {
		return []Effect{statusErr(err.Error())}
	}
	effects := []Effect{render, previews}
	if next, ok := c.capture.State().Key(); ok {
		return append(effects, status("Click the "+strings.ReplaceAll(next.String(), "_", " ")))
	}
	if !c.label.Valid() || !c.handLabel.Valid() {
		return append(effects, status("All keypoints captured, choose labels"))
	}
	return append(effects, status("Ready to save"))
}

func (c *Controller) onSetHeadLabel(ev Event) []Effect {
	if !ev.Label.Valid() {
		return []Effect{statusErr(fmt.Sprintf("Label must be 1-%d", annotation.MaxLabel))}
	}
	c.label = ev.Label
	return []Effect{render, status(fmt.Sprintf("Head pose %d", ev.Label))}
}

func (c *Controller) onSetHandLabel(ev Event) []Effect {
	if !ev.Label.Valid() {
		return []Effect{statusErr(fmt.Sprintf("Label must be 1-%d", annotation.MaxLabel))}
	}
	c.handLabel = ev.Label
	return []Effect{render, status(fmt.Sprintf("Hand pose %d", ev.Label))}
}

func (c *Controller) onNavigate(ev Event) []Effect {
	if c.saving != "" {
		return []Effect{status("Save in progress")}
	}
	moved := false
	switch {
	case ev.Delta > 0:
		moved = c.nav.Next()
	case ev.Delta < 0:
		moved = c.nav.Prev()
	}
	if !moved {
		return nil
	}
	return c.enterFrame()
}

func (c *Controller) onSelectFrame(ev Event) []Effect {
	if c.saving != "" {
		return []Effect{status("Save in progress")}
	}
	var ok bool
	if ev.Frame != "" {
		ok = c.nav.Select(ev.Frame)
	} else {
		ok = c.nav.SelectIndex(ev.Index)
	}
	if !ok {
		return []Effect{statusErr("Frame not available under the current filter")}
	}
	return c.reenterIfMoved()
}

func (c *Controller) onNudge(ev Event) []Effect {
	if c.mode != ModePose {
		return nil
	}
	if err := c.capture.Nudge(ev.DX, ev.DY); err != nil {
		if errors.Is(err, annotation.ErrNothingToNudge) {
			return nil
		}
		return []Effect{statusErr(err.Error())}
	}
	return []Effect{render, previews}
}

func (c *Controller) onSaveAdvance(Event) []Effect {
	cur, ok := c.nav.Current()
	if !ok {
		return nil
	}
	if c.saving != "" {
		return []Effect{status("Save in progress")}
	}
	if c.mode == ModeDetection {
		boxes := c.detectionSet(cur).Submittable()
		if len(boxes) == 0 {
			return []Effect{statusErr("No detection boxes to save")}
		}
		c.saving = cur
		return []Effect{{Kind: EffectSaveDetections, Frame: cur, Detections: boxes, Mode: ModeDetection}, render, status("Saving…")}
	}
	if c.capture.State() != annotation.StateComplete {
		return []Effect{statusErr("Capture head, left hand and right hand first")}
	}
	sub := labelstore.Submission{
		Boxes:     c.capture.Boxes(),
		Keypoints: c.capture.Keypoints(),
		Label:     c.label,
		HandLabel: c.handLabel,
	}
	if err := sub.Validate(); err != nil {
		return []Effect{statusErr(err.Error())}
	}
	// Boxes inherited from a larger frame are kept verbatim and may overhang.
	if !sub.Boxes.Within(c.capture.ImageSize()) {
		return []Effect{statusErr("A box lies outside the image, reset and recapture")}
	}
	c.saving = cur
	return []Effect{{Kind: EffectSave, Frame: cur, Submission: sub, Mode: ModePose}, render, status("Saving…")}
}

// onSaveResult applies a finished save. The navigator only advances here,
// after the store has answered.
func (c *Controller) onSaveResult(ev Event) []Effect {
	if c.saving != ev.Frame {
		return nil
	}
	c.saving = ""
	if ev.Err != nil {
		return []Effect{render, statusErr(errText("Save failed", ev.Err))}
	}
	if ev.Mode == ModePose {
		s := ev.Submission
		meta := annotation.FrameMeta{Labeled: true, Label: s.Label, HandLabel: s.HandLabel}
		meta.HeadBox, meta.LeftHandBox, meta.RightHandBox = s.Boxes.Head, s.Boxes.LeftHand, s.Boxes.RightHand
		kp := s.Keypoints.Clone()
		meta.Keypoints = &kp
		c.cache.Remember(s.Boxes, s.Keypoints)
		c.nav.MarkSaved(ev.Frame, meta)
	} else {
		// Detection saves do not make a frame pose-labeled.
		c.detectionSet(ev.Frame).Replace(ev.Detections)
	}
	if cur, ok := c.nav.Current(); ok && cur == ev.Frame {
		c.nav.Next()
	}
	effects := []Effect{{Kind: EffectFetchLabels}}
	if cur, ok := c.nav.Current(); ok && cur == ev.Frame {
		effects = append(effects, render, status("Saved "+ev.Frame+" (last frame)"))
		return effects
	}
	effects = append(effects, c.enterFrame()...)
	return append(effects, status("Saved "+ev.Frame))
}

func (c *Controller) onResetCapture(Event) []Effect {
	if c.mode == ModeDetection {
		if cur, ok := c.nav.Current(); ok {
			c.detectionSet(cur).Clear()
		}
		return []Effect{render, status("Detection boxes cleared")}
	}
	c.capture.Reset()
	return []Effect{render, previews, status("Click the head")}
}

func (c *Controller) onEdgeLength(ev Event) []Effect {
	n, err := strconv.Atoi(strings.TrimSpace(ev.Text))
	if err != nil {
		_ = c.capture.SetEdgeLength(0)
		return []Effect{render, statusErr(fmt.Sprintf("Box size must be a whole number of at least %d", geometry.MinEdgeLength))}
	}
	if err := c.capture.SetEdgeLength(n); err != nil {
		return []Effect{render, statusErr(err.Error())}
	}
	return []Effect{render, previews, status(fmt.Sprintf("Box size %dpx", n))}
}

func (c *Controller) onToggleInherit(Event) []Effect {
	c.inherit = !c.inherit
	if c.inherit && c.capture.Keypoints() == (annotation.Keypoints{}) && c.entered != "" {
		effects := c.enterFrameKeepImage()
		return append(effects, status("Inherit on"))
	}
	if c.inherit {
		return []Effect{render, status("Inherit on")}
	}
	return []Effect{render, status("Inherit off")}
}

func (c *Controller) onToggleFilter(Event) []Effect {
	if c.saving != "" {
		return []Effect{status("Save in progress")}
	}
	f := c.nav.ToggleFilter()
	effects := c.reenterIfMoved()
	if f == session.FilterUnlabeled {
		return append(effects, status("Showing unlabeled frames"))
	}
	return append(effects, status("Showing all frames"))
}

func (c *Controller) onToggleCaptureMode(Event) []Effect {
	c.capture.SetEnabled(!c.capture.Enabled())
	if c.capture.Enabled() {
		return []Effect{render, status("Capture mode on")}
	}
	return []Effect{render, status("Capture mode off")}
}

func (c *Controller) onToggleMode(ev Event) []Effect {
	if c.saving != "" {
		return []Effect{status("Save in progress")}
	}
	if c.mode == ModePose {
		c.mode = ModeDetection
	} else {
		c.mode = ModePose
	}
	return []Effect{render, previews, status("Mode: " + c.mode.String())}
}

func (c *Controller) onUndoDetection(Event) []Effect {
	cur, ok := c.nav.Current()
	if !ok || !c.detectionSet(cur).RemoveLast() {
		return nil
	}
	return []Effect{render}
}

func (c *Controller) onResetLabels(Event) []Effect {
	if c.resetting || c.saving != "" {
		return []Effect{status("Busy, try again")}
	}
	c.resetting = true
	return []Effect{{Kind: EffectResetLabels}, status("Resetting labels…")}
}

func (c *Controller) onResetLabelsResult(ev Event) []Effect {
	c.resetting = false
	if ev.Err != nil {
		return []Effect{statusErr(errText("Reset failed", ev.Err))}
	}
	c.cache.Clear()
	c.detections = make(map[string]*annotation.DetectionSet)
	c.nav.ApplyMetas(nil)
	effects := []Effect{{Kind: EffectFetchLabels}}
	effects = append(effects, c.enterFrameKeepImage()...)
	return append(effects, status("All labels cleared"))
}

func (c *Controller) onExport(Event) []Effect {
	if c.exporting {
		return []Effect{status("Export in progress")}
	}
	c.exporting = true
	return []Effect{{Kind: EffectExport, Mode: c.mode}, status("Exporting…")}
}

func (c *Controller) onExportResult(ev Event) []Effect {
	c.exporting = false
	if ev.Err != nil {
		return []Effect{statusErr(errText("Export failed", ev.Err))}
	}
	if ev.URL == "" {
		return []Effect{status("Export finished")}
	}
	return []Effect{status("Export ready: " + ev.URL)}
}

func (c *Controller) onRefresh(Event) []Effect {
	return []Effect{{Kind: EffectPurgeImages}, {Kind: EffectFetchFrames}, status("Refreshing…")}
}

func errText(prefix string, err error) string {
	if err == nil {
		return prefix
	}
	return prefix + ": " + err.Error()
}
