package presenter

import (
	"github.com/soocke/pose-label-go/domain/annotation"
	"github.com/soocke/pose-label-go/domain/geometry"
	"github.com/soocke/pose-label-go/domain/labelstore"
)

// EventKind identifies an input to the controller.
type EventKind int

const (
	EventFramesLoaded EventKind = iota + 1
	EventLabelsLoaded
	EventLoadFailed
	EventImageLoaded
	EventClick
	EventSetHeadLabel
	EventSetHandLabel
	EventNavigate
	EventSelectFrame
	EventNudge
	EventSaveAdvance
	EventSaveResult
	EventResetCapture
	EventEdgeLength
	EventToggleInherit
	EventToggleFilter
	EventToggleCaptureMode
	EventToggleMode
	EventUndoDetection
	EventResetLabels
	EventResetLabelsResult
	EventExport
	EventExportResult
	EventRefresh
)

var eventNames = map[EventKind]string{
	EventFramesLoaded:      "frames_loaded",
	EventLabelsLoaded:      "labels_loaded",
	EventLoadFailed:        "load_failed",
	EventImageLoaded:       "image_loaded",
	EventClick:             "click",
	EventSetHeadLabel:      "set_head_label",
	EventSetHandLabel:      "set_hand_label",
	EventNavigate:          "navigate",
	EventSelectFrame:       "select_frame",
	EventNudge:             "nudge",
	EventSaveAdvance:       "save_advance",
	EventSaveResult:        "save_result",
	EventResetCapture:      "reset_capture",
	EventEdgeLength:        "edge_length",
	EventToggleInherit:     "toggle_inherit",
	EventToggleFilter:      "toggle_filter",
	EventToggleCaptureMode: "toggle_capture_mode",
	EventToggleMode:        "toggle_mode",
	EventUndoDetection:     "undo_detection",
	EventResetLabels:       "reset_labels",
	EventResetLabelsResult: "reset_labels_result",
	EventExport:            "export",
	EventExportResult:      "export_result",
	EventRefresh:           "refresh",
}

func (k EventKind) String() string {
	if s, ok := eventNames[k]; ok {
		return s
	}
	return "unknown"
}

// Event is a single input to the controller. Only the fields relevant to
// Kind are set.
type Event struct {
	Kind       EventKind
	Frame      string
	Frames     []string
	Summary    labelstore.Summary
	Size       geometry.Size
	Point      geometry.Point
	Label      annotation.Label
	Delta      int
	Index      int
	DX, DY     float64
	Text       string
	Submission labelstore.Submission
	Detections []annotation.DetectionBox
	Mode       Mode
	URL        string
	Err        error
}

// EffectKind identifies work the controller asks its host to perform.
type EffectKind int

const (
	EffectFetchFrames EffectKind = iota + 1
	EffectFetchLabels
	EffectLoadImage
	EffectPrefetchImage
	EffectPurgeImages
	EffectSave
	EffectSaveDetections
	EffectResetLabels
	EffectExport
	EffectRender
	EffectPreviews
	EffectStatus
)

// Effect is a side effect produced by a controller transition.
type Effect struct {
	Kind       EffectKind
	Frame      string
	Submission labelstore.Submission
	Detections []annotation.DetectionBox
	Mode       Mode
	Text       string
	IsError    bool
}

func status(text string) Effect { return Effect{Kind: EffectStatus, Text: text} }

func statusErr(text string) Effect { return Effect{Kind: EffectStatus, Text: text, IsError: true} }

var (
	render   = Effect{Kind: EffectRender}
	previews = Effect{Kind: EffectPreviews}
)
