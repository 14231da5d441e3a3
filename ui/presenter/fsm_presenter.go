package presenter

import (
	"strings"
	"time"

	"github.com/soocke/pose-label-go/domain/annotation"
)

// StateView sets the capture state label in the view.
type StateView interface{ SetStateLabel(string) }

// FSMPresenter receives capture state changes and reflects the latest one
// in the view on the next tick.
type FSMPresenter struct {
	view    StateView
	latest  annotation.CaptureState
	shown   bool
	pending []annotation.CaptureState
}

func NewFSMPresenter(view StateView) *FSMPresenter {
	return &FSMPresenter{view: view}
}

// Listener adapts the presenter to a capture listener.
func (p *FSMPresenter) Listener() annotation.CaptureListener {
	return func(_, next annotation.CaptureState, _ annotation.PoseBoxes) { p.OnState(next) }
}

// OnState queues a state from the capture listener.
func (p *FSMPresenter) OnState(s annotation.CaptureState) {
	if p == nil {
		return
	}
	p.pending = append(p.pending, s)
}

// Tick reflects the most recent queued state and clears the queue.
func (p *FSMPresenter) Tick(now time.Time) {
	if p == nil || p.view == nil || len(p.pending) == 0 {
		return
	}
	last := p.pending[len(p.pending)-1]
	p.pending = p.pending[:0]
	if p.shown && last == p.latest {
		return
	}
	p.latest, p.shown = last, true
	p.view.SetStateLabel(stateLabel(last))
}

func stateLabel(s annotation.CaptureState) string {
	if k, ok := s.Key(); ok {
		return "Next: " + strings.ReplaceAll(k.String(), "_", " ")
	}
	return "Complete"
}
