package presenter

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/soocke/pose-label-go/domain/annotation"
	"github.com/soocke/pose-label-go/domain/session"
)

// Text helpers shared by the views. They live here so they can be tested
// without a Tk interpreter.

// ProgressText renders "frame 3/40 · 12/40 labeled (30%)".
func ProgressText(vs ViewState) string {
	if !vs.HasFrame {
		return fmt.Sprintf("%d/%d labeled", vs.Labeled, vs.Total)
	}
	pct := 0
	if vs.Total > 0 {
		pct = vs.Labeled * 100 / vs.Total
	}
	return fmt.Sprintf("%s (%d/%d) · %d/%d labeled (%d%%)",
		vs.Frame, vs.Index+1, len(vs.Visible), vs.Labeled, vs.Total, pct)
}

// CountsText renders per-label tallies, e.g. "head 1:3 2:0 ... | hand 1:1 ...".
func CountsText(c session.Counts) string {
	var b strings.Builder
	b.WriteString("head")
	for l := annotation.Label(1); l <= annotation.MaxLabel; l++ {
		fmt.Fprintf(&b, " %d:%d", l, c.HeadCount(l))
	}
	b.WriteString(" | hand")
	for l := annotation.Label(1); l <= annotation.MaxLabel; l++ {
		fmt.Fprintf(&b, " %d:%d", l, c.HandCount(l))
	}
	return b.String()
}

// LabelText renders the current head and hand labels, "-" when unset.
func LabelText(vs ViewState) string {
	return fmt.Sprintf("Head: %s  Hand: %s", labelOrDash(vs.Label), labelOrDash(vs.HandLabel))
}

func labelOrDash(l annotation.Label) string {
	if !l.Valid() {
		return "-"
	}
	return fmt.Sprint(int(l))
}

// FlagsText summarises the toggles shown next to the controls.
func FlagsText(vs ViewState) string {
	parts := []string{
		"mode " + vs.Mode.String(),
		"filter " + vs.Filter.String(),
		onOff("inherit", vs.Inherit),
		onOff("capture", vs.CaptureEnabled),
	}
	if vs.HasFrame {
		parts = append(parts, "seed "+vs.Seed.String())
	}
	if vs.Mode == ModeDetection {
		parts = append(parts, fmt.Sprintf("%d boxes", len(vs.Detections)))
	}
	if vs.Saving {
		parts = append(parts, "saving")
	}
	return strings.Join(parts, " · ")
}

func onOff(name string, b bool) string {
	if b {
		return name + " on"
	}
	return name + " off"
}

// SessionText renders active labeling time and throughput.
func SessionText(active time.Duration, saves int, perHour float64) string {
	secs := int(active.Seconds())
	return fmt.Sprintf("Active %02d:%02d:%02d · %s saves · %.1f/h",
		secs/3600, secs/60%60, secs%60, humanize.Comma(int64(saves)), perHour)
}

// FilterLabel is the caption of the filter toggle button.
func FilterLabel(f session.Filter) string {
	if f == session.FilterUnlabeled {
		return "Show all"
	}
	return "Unlabeled only"
}
