package presenter

import (
	"errors"
	"testing"
)

type mockConnModel struct{ connected bool }

func (m *mockConnModel) Connected() bool { return m.connected }
func (m *mockConnModel) SetConnected(b bool) bool {
	changed := m.connected != b
	m.connected = b
	return changed
}

type mockLifecycle struct{ started, stopped int }

func (s *mockLifecycle) Start() { s.started++ }
func (s *mockLifecycle) Stop()  { s.stopped++ }

type mockSession struct{ started, closed, ticks int }

func (s *mockSession) Start()                 { s.started++ }
func (s *mockSession) Close()                 { s.closed++ }
func (s *mockSession) ProcessFrame()          { s.ticks++ }
func (s *mockSession) Submit(Event)           {}
func (s *mockSession) Click(float64, float64) {}
func (s *mockSession) Key(KeyEvent)           {}

type mockConnView struct {
	reset, editableCalls int
	lastEditable         bool
	status               string
	isErr                bool
}

func (v *mockConnView) PreviewReset()                   { v.reset++ }
func (v *mockConnView) ConfigEditable(b bool)           { v.editableCalls++; v.lastEditable = b }
func (v *mockConnView) SetStatus(text string, err bool) { v.status, v.isErr = text, err }

func TestConnectionPresenter_EnableDisable_Idempotent(t *testing.T) {
	m := &mockConnModel{}
	loader := &mockLifecycle{}
	sess := &mockSession{}
	opened := 0
	view := &mockConnView{}
	p := NewConnectionPresenter(m, func() (AnnotatorSession, LifecycleContract, error) {
		opened++
		return sess, loader, nil
	}, view)

	p.Enable()
	if !m.Connected() || loader.started != 1 || sess.started != 1 || view.lastEditable || view.editableCalls != 1 {
		t.Fatalf("enable failed: connected=%v started=%d session=%d editableCalls=%d", m.Connected(), loader.started, sess.started, view.editableCalls)
	}
	if p.Session() == nil {
		t.Fatalf("session should be exposed while connected")
	}
	p.Enable()
	if opened != 1 || loader.started != 1 {
		t.Fatalf("enable not idempotent: opened=%d started=%d", opened, loader.started)
	}

	p.Disable()
	if m.Connected() || loader.stopped != 1 || sess.closed != 1 || view.reset != 1 || !view.lastEditable {
		t.Fatalf("disable failed: connected=%v stopped=%d closed=%d reset=%d", m.Connected(), loader.stopped, sess.closed, view.reset)
	}
	if p.Session() != nil {
		t.Fatalf("session should be cleared on disconnect")
	}
	p.Disable()
	if loader.stopped != 1 || sess.closed != 1 || view.reset != 1 {
		t.Fatalf("disable not idempotent: stopped=%d closed=%d reset=%d", loader.stopped, sess.closed, view.reset)
	}
}

func TestConnectionPresenter_ToggleAndTick(t *testing.T) {
	m := &mockConnModel{}
	sess := &mockSession{}
	p := NewConnectionPresenter(m, func() (AnnotatorSession, LifecycleContract, error) {
		return sess, &mockLifecycle{}, nil
	}, &mockConnView{})
	p.Tick()
	p.Toggle()
	p.Tick()
	p.Tick()
	if sess.ticks != 2 {
		t.Fatalf("expected 2 ticks while connected, got %d", sess.ticks)
	}
	p.Toggle()
	p.Tick()
	if m.Connected() || sess.ticks != 2 {
		t.Fatalf("toggle disable failed: connected=%v ticks=%d", m.Connected(), sess.ticks)
	}
}

func TestConnectionPresenter_FactoryError(t *testing.T) {
	m := &mockConnModel{}
	view := &mockConnView{}
	p := NewConnectionPresenter(m, func() (AnnotatorSession, LifecycleContract, error) {
		return nil, nil, errors.New("bad url")
	}, view)
	p.Enable()
	if m.Connected() || !view.isErr || view.editableCalls != 0 {
		t.Fatalf("factory error should leave presenter disconnected: connected=%v status=%q", m.Connected(), view.status)
	}
}
