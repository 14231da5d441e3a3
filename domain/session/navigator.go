package session

import (
	"github.com/soocke/pose-label-go/domain/annotation"
)

// Filter selects which frames are visible.
type Filter int

const (
	FilterAll Filter = iota
	FilterUnlabeled
)

func (f Filter) String() string {
	if f == FilterUnlabeled {
		return "unlabeled"
	}
	return "all"
}

// Navigator owns the ordered frame list of one labeling session, the label
// store's metadata per frame, the active filter and the index into the
// visible frames. The index is kept in range after every mutation.
// Not safe for concurrent use.
type Navigator struct {
	frames  []string
	metas   map[string]annotation.FrameMeta
	filter  Filter
	visible []string
	index   int
}

// NewNavigator returns an empty navigator showing all frames.
func NewNavigator() *Navigator {
	return &Navigator{metas: make(map[string]annotation.FrameMeta)}
}

// SetFrames replaces the frame list, keeping extraction order. Duplicate
// identifiers are dropped; every frame gets a default unlabeled entry until
// metadata arrives. The current frame stays selected when it is still visible.
func (n *Navigator) SetFrames(frames []string) {
	cur, hadCur := n.Current()
	seen := make(map[string]struct{}, len(frames))
	n.frames = n.frames[:0]
	for _, f := range frames {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		n.frames = append(n.frames, f)
	}
	metas := make(map[string]annotation.FrameMeta, len(n.frames))
	for _, f := range n.frames {
		metas[f] = n.metas[f]
	}
	n.metas = metas
	n.rebuild(cur, hadCur)
}

// ApplyMetas replaces all metadata wholesale. Frames missing from metas are
// reset to unlabeled; entries for unknown frames are ignored.
func (n *Navigator) ApplyMetas(metas map[string]annotation.FrameMeta) {
	cur, hadCur := n.Current()
	fresh := make(map[string]annotation.FrameMeta, len(n.frames))
	for _, f := range n.frames {
		fresh[f] = metas[f]
	}
	n.metas = fresh
	n.rebuild(cur, hadCur)
}

// MarkSaved applies the optimistic update for a just-submitted frame.
// Visibility is recomputed but the index is only clamped, so under the
// unlabeled filter the next unlabeled frame slides into the saved frame's slot.
func (n *Navigator) MarkSaved(frame string, meta annotation.FrameMeta) {
	if _, ok := n.metas[frame]; !ok {
		return
	}
	meta.Labeled = true
	n.metas[frame] = meta
	n.rebuildKeepIndex()
}

// SetFilter switches the filter. The current frame stays selected when it
// remains visible; otherwise the view restarts at the first visible frame.
func (n *Navigator) SetFilter(f Filter) {
	if f == n.filter {
		return
	}
	cur, hadCur := n.Current()
	n.filter = f
	n.computeVisible()
	if !n.reselect(cur, hadCur) {
		n.index = 0
	}
}

// ToggleFilter flips between all and unlabeled-only.
func (n *Navigator) ToggleFilter() Filter {
	if n.filter == FilterAll {
		n.SetFilter(FilterUnlabeled)
	} else {
		n.SetFilter(FilterAll)
	}
	return n.filter
}

func (n *Navigator) Filter() Filter { return n.filter }
func (n *Navigator) Index() int     { return n.index }

// Frames returns a copy of the full frame list.
func (n *Navigator) Frames() []string { return append([]string(nil), n.frames...) }

// Visible returns a copy of the frames shown under the active filter.
func (n *Navigator) Visible() []string { return append([]string(nil), n.visible...) }

// Meta returns the metadata of frame.
func (n *Navigator) Meta(frame string) (annotation.FrameMeta, bool) {
	m, ok := n.metas[frame]
	return m, ok
}

// Metas returns a copy of all metadata.
func (n *Navigator) Metas() map[string]annotation.FrameMeta {
	out := make(map[string]annotation.FrameMeta, len(n.metas))
	for k, v := range n.metas {
		out[k] = v
	}
	return out
}

// Current returns the selected frame, if any is visible.
func (n *Navigator) Current() (string, bool) {
	if len(n.visible) == 0 {
		return "", false
	}
	return n.visible[n.index], true
}

// Next moves one frame forward, stopping at the end. It reports whether the
// index changed.
func (n *Navigator) Next() bool { return n.SelectIndex(n.index + 1) }

// Prev moves one frame back, stopping at the start.
func (n *Navigator) Prev() bool { return n.SelectIndex(n.index - 1) }

// SelectIndex jumps to visible index i. Out of range indexes are ignored.
func (n *Navigator) SelectIndex(i int) bool {
	if i < 0 || i >= len(n.visible) || i == n.index {
		return false
	}
	n.index = i
	return true
}

// Select jumps to the named frame if it is visible.
func (n *Navigator) Select(frame string) bool {
	for i, f := range n.visible {
		if f == frame {
			return n.SelectIndex(i)
		}
	}
	return false
}

// Progress returns the number of labeled frames and the total.
func (n *Navigator) Progress() (labeled, total int) {
	for _, f := range n.frames {
		if n.metas[f].Labeled {
			labeled++
		}
	}
	return labeled, len(n.frames)
}

func (n *Navigator) computeVisible() {
	n.visible = n.visible[:0]
	for _, f := range n.frames {
		if n.filter == FilterUnlabeled && n.metas[f].Labeled {
			continue
		}
		n.visible = append(n.visible, f)
	}
}

// rebuild recomputes the visible list and re-selects cur when it is still
// visible, falling back to a clamped index.
func (n *Navigator) rebuild(cur string, hadCur bool) {
	n.computeVisible()
	if !n.reselect(cur, hadCur) {
		n.clamp()
	}
}

func (n *Navigator) reselect(cur string, hadCur bool) bool {
	if !hadCur {
		return false
	}
	for i, f := range n.visible {
		if f == cur {
			n.index = i
			return true
		}
	}
	return false
}

func (n *Navigator) rebuildKeepIndex() {
	n.computeVisible()
	n.clamp()
}

func (n *Navigator) clamp() {
	switch {
	case len(n.visible) == 0:
		n.index = 0
	case n.index >= len(n.visible):
		n.index = len(n.visible) - 1
	case n.index < 0:
		n.index = 0
	}
}
