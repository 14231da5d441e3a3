package presenter

import (
	"testing"
	"time"

	"github.com/soocke/pose-label-go/domain/annotation"
	"github.com/soocke/pose-label-go/domain/geometry"
)

type mockStateView struct {
	labels []string
}

func (v *mockStateView) SetStateLabel(s string) { v.labels = append(v.labels, s) }

func TestFSMPresenter_ReflectsLatestState(t *testing.T) {
	view := &mockStateView{}
	p := NewFSMPresenter(view)
	c := annotation.NewCapture(64)
	c.SetImageSize(geometry.Size{W: 640, H: 480})
	c.AddListener(p.Listener())

	if err := c.Click(geometry.Point{X: 100, Y: 100}); err != nil {
		t.Fatalf("click: %v", err)
	}
	if err := c.Click(geometry.Point{X: 200, Y: 200}); err != nil {
		t.Fatalf("click: %v", err)
	}
	p.Tick(time.Now())
	if len(view.labels) != 1 || view.labels[0] != "Next: right hand" {
		t.Fatalf("expected only the latest state, got %v", view.labels)
	}
	p.Tick(time.Now())
	if len(view.labels) != 1 {
		t.Fatalf("tick without changes must not update the view")
	}
	if err := c.Click(geometry.Point{X: 300, Y: 200}); err != nil {
		t.Fatalf("click: %v", err)
	}
	p.Tick(time.Now())
	if got := view.labels[len(view.labels)-1]; got != "Complete" {
		t.Fatalf("expected Complete, got %q", got)
	}
}

func TestFSMPresenter_NilSafe(t *testing.T) {
	var p *FSMPresenter
	p.OnState(annotation.StateAwaitingHead)
	p.Tick(time.Now())
}
