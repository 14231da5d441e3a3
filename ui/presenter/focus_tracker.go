package presenter

import (
	"log/slog"
	"sync"
)

// FocusTracker records which text entries hold keyboard focus so global
// key bindings can stand down while the operator is typing.
type FocusTracker struct {
	Logger  *slog.Logger
	mu      sync.Mutex
	focused map[string]struct{}
}

func NewFocusTracker(logger *slog.Logger) *FocusTracker {
	return &FocusTracker{Logger: logger, focused: make(map[string]struct{})}
}

// FocusIn marks the entry identified by widget as focused.
func (f *FocusTracker) FocusIn(widget string) {
	if f == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.focused == nil {
		f.focused = make(map[string]struct{})
	}
	f.focused[widget] = struct{}{}
	if f.Logger != nil {
		f.Logger.Debug("text focus in", "widget", widget)
	}
}

// FocusOut clears focus for widget.
func (f *FocusTracker) FocusOut(widget string) {
	if f == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.focused, widget)
}

// Reset forgets every focused entry, e.g. when the window loses focus.
func (f *FocusTracker) Reset() {
	if f == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	clear(f.focused)
}

// TextFocused reports whether any tracked entry holds focus.
func (f *FocusTracker) TextFocused() bool {
	if f == nil {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.focused) > 0
}

// Wrap fills in TextFocused on k.
func (f *FocusTracker) Wrap(k KeyEvent) KeyEvent {
	k.TextFocused = k.TextFocused || f.TextFocused()
	return k
}
