package presenter

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/soocke/pose-label-go/domain/annotation"
	"github.com/soocke/pose-label-go/domain/frames"
	"github.com/soocke/pose-label-go/domain/geometry"
	"github.com/soocke/pose-label-go/domain/labelstore"
	"github.com/soocke/pose-label-go/ui/images"
	"github.com/soocke/pose-label-go/ui/model"
)

type mockStore struct {
	mu       sync.Mutex
	frames   []string
	metas    map[string]annotation.FrameMeta
	saves    []string
	saveErr  error
	resets   int
	exports  int
	lastSave labelstore.Submission
}

func (s *mockStore) Frames(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.frames...), nil
}

func (s *mockStore) Labels(context.Context) (labelstore.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	metas := make(map[string]annotation.FrameMeta, len(s.metas))
	for k, v := range s.metas {
		metas[k] = v
	}
	return labelstore.Summary{Metas: metas}, nil
}

func (s *mockStore) SaveFrame(_ context.Context, frame string, sub labelstore.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves = append(s.saves, frame)
	s.lastSave = sub
	if s.metas == nil {
		s.metas = map[string]annotation.FrameMeta{}
	}
	s.metas[frame] = annotation.FrameMeta{Labeled: true, Label: sub.Label, HandLabel: sub.HandLabel,
		HeadBox: sub.Boxes.Head, LeftHandBox: sub.Boxes.LeftHand, RightHandBox: sub.Boxes.RightHand}
	return nil
}

func (s *mockStore) Reset(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resets++
	s.metas = nil
	return nil
}

func (s *mockStore) Export(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exports++
	return "http://store/export.zip", nil
}

func (s *mockStore) SaveDetections(_ context.Context, _ string, boxes []annotation.DetectionBox, _ bool) (int, error) {
	return len(boxes), nil
}

func (s *mockStore) ExportDetections(context.Context) (string, error) { return "", nil }

func (s *mockStore) FrameImage(context.Context, string) ([]byte, error) { return nil, nil }

func (s *mockStore) saved() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.saves...)
}

type mockLoader struct {
	seq      uint64
	latest   frames.Snapshot
	requests []string
	purges   int
}

func (l *mockLoader) Request(frame string) uint64 {
	l.seq++
	l.requests = append(l.requests, frame)
	l.latest = frames.Snapshot{
		Name:      frame,
		Image:     image.NewRGBA(image.Rect(0, 0, 640, 480)),
		Size:      geometry.Size{W: 640, H: 480},
		RequestID: l.seq,
	}
	return l.seq
}
func (l *mockLoader) Prefetch(string)         {}
func (l *mockLoader) Purge()                  { l.purges++ }
func (l *mockLoader) Latest() frames.Snapshot { return l.latest }

type mockAnnotatorView struct {
	state    ViewState
	frame    image.Image
	previews images.Previews
	status   string
	isErr    bool
}

func (v *mockAnnotatorView) ShowFrame(img image.Image)       { v.frame = img }
func (v *mockAnnotatorView) ShowPreviews(p images.Previews)  { v.previews = p }
func (v *mockAnnotatorView) ShowState(s ViewState, _ int)    { v.state = s }
func (v *mockAnnotatorView) SetStatus(text string, err bool) { v.status, v.isErr = text, err }

func pump(t *testing.T, p *AnnotatorPresenter, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		p.ProcessFrame()
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func newAnnotator(t *testing.T, store *mockStore) (*AnnotatorPresenter, *mockLoader, *mockAnnotatorView) {
	t.Helper()
	loader := &mockLoader{}
	view := &mockAnnotatorView{}
	ctrl := NewController(ControllerOptions{EdgeLength: 128})
	p := NewAnnotatorPresenter(ctrl, store, loader, view, AnnotatorOptions{
		Viewport: model.NewViewportModel(320),
		Sync:     &model.SyncModel{},
		Session:  model.NewSessionModel(0),
	})
	t.Cleanup(p.Close)
	p.Start()
	pump(t, p, func() bool { return view.state.HasFrame && view.frame != nil })
	return p, loader, view
}

func TestAnnotatorPresenter_LoadsFirstFrame(t *testing.T) {
	store := &mockStore{frames: []string{"a", "b"}}
	_, loader, view := newAnnotator(t, store)
	if view.state.Frame != "a" || len(loader.requests) == 0 || loader.requests[0] != "a" {
		t.Fatalf("expected frame a requested and shown, got %q %v", view.state.Frame, loader.requests)
	}
	if b := view.frame.Bounds(); b.Dx() != 320 || b.Dy() != 240 {
		t.Fatalf("expected frame scaled to 320x240, got %v", b)
	}
	if !view.state.Image.Valid() {
		t.Fatalf("image size should reach the controller")
	}
}

func TestAnnotatorPresenter_RefreshPurgesImageCache(t *testing.T) {
	store := &mockStore{frames: []string{"a", "b"}}
	p, loader, view := newAnnotator(t, store)
	p.Submit(Event{Kind: EventRefresh})
	if loader.purges != 1 {
		t.Fatalf("refresh should purge the image cache once, got %d", loader.purges)
	}
	pump(t, p, func() bool { return view.state.Frame == "a" && view.frame != nil })
}

func TestAnnotatorPresenter_ClickKeysAndSave(t *testing.T) {
	store := &mockStore{frames: []string{"a", "b"}}
	p, _, view := newAnnotator(t, store)

	// Display is half the natural size, so (5,5) maps to (10,10).
	p.Click(5, 5)
	if h := view.state.Boxes.Head; h == nil || *h != (geometry.BBox{X: 0, Y: 0, Width: 128, Height: 128}) {
		t.Fatalf("unexpected head box %+v", h)
	}
	if view.previews.Get(annotation.KeyHead) == nil {
		t.Fatalf("head preview should be rendered")
	}
	p.Click(100, 150)
	p.Click(220, 150)
	p.Key(KeyEvent{Keysym: "2"})
	p.Key(KeyEvent{Keysym: "4", Modifier: ModAlt})
	if view.state.Label != 2 || view.state.HandLabel != 4 {
		t.Fatalf("label keys should set labels, got head=%d hand=%d", view.state.Label, view.state.HandLabel)
	}
	p.Key(KeyEvent{Keysym: "space", TextFocused: true})
	if view.state.Saving || len(store.saved()) != 0 {
		t.Fatalf("keys must be ignored while typing")
	}
	p.Key(KeyEvent{Keysym: "space"})
	pump(t, p, func() bool { return view.state.Frame == "b" })
	if got := store.saved(); len(got) != 1 || got[0] != "a" {
		t.Fatalf("expected a single save of a, got %v", got)
	}
	if store.lastSave.Label != 2 || store.lastSave.HandLabel != 4 {
		t.Fatalf("unexpected labels saved %+v", store.lastSave)
	}
	pump(t, p, func() bool { return view.state.Labeled == 1 })
}

func TestAnnotatorPresenter_SaveFailureKeepsFrame(t *testing.T) {
	store := &mockStore{frames: []string{"a", "b"}, saveErr: errors.New("boom")}
	p, _, view := newAnnotator(t, store)
	p.Click(50, 50)
	p.Click(100, 150)
	p.Click(220, 150)
	p.Key(KeyEvent{Keysym: "1"})
	p.Key(KeyEvent{Keysym: "exclam", Modifier: ModShift})
	p.Key(KeyEvent{Keysym: "space"})
	pump(t, p, func() bool { return view.isErr })
	if view.state.Frame != "a" || view.state.Saving {
		t.Fatalf("failed save must stay on a, got %q saving=%v", view.state.Frame, view.state.Saving)
	}
}

func TestAnnotatorPresenter_ClickOutsideImageIgnored(t *testing.T) {
	store := &mockStore{frames: []string{"a"}}
	p, _, view := newAnnotator(t, store)
	p.Click(400, 10)
	if view.state.Boxes.Head != nil {
		t.Fatalf("click outside the displayed image must be ignored")
	}
}

func TestAnnotatorPresenter_ExportStatus(t *testing.T) {
	store := &mockStore{frames: []string{"a"}}
	p, _, view := newAnnotator(t, store)
	p.Submit(Event{Kind: EventExport})
	pump(t, p, func() bool { return view.status == "Export ready: http://store/export.zip" })
}
