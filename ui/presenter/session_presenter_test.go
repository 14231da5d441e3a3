package presenter

import (
	"testing"
	"time"

	"github.com/soocke/pose-label-go/ui/model"
)

type mockSessionView struct {
	active  time.Duration
	saves   int
	perHour float64
	calls   int
}

func (v *mockSessionView) SetSession(active time.Duration, saves int, perHour float64) {
	v.active, v.saves, v.perHour = active, saves, perHour
	v.calls++
}

func TestSessionPresenter_TicksOnlyWhileConnected(t *testing.T) {
	sess := model.NewSessionModel(time.Minute)
	conn := &mockConnModel{}
	view := &mockSessionView{}
	p := NewSessionPresenter(sess, conn, view)

	base := time.Unix(1_000, 0)
	sess.Touch(base)
	p.Tick(base.Add(10 * time.Second))
	if view.calls != 1 || view.active != 0 {
		t.Fatalf("disconnected tick must not accumulate: calls=%d active=%v", view.calls, view.active)
	}

	conn.connected = true
	sess.Touch(base.Add(10 * time.Second))
	sess.RecordSave(base.Add(15 * time.Second))
	p.Tick(base.Add(20 * time.Second))
	if view.active <= 0 || view.saves != 1 {
		t.Fatalf("expected active time and one save, got active=%v saves=%d", view.active, view.saves)
	}
}

func TestSessionPresenter_NilSafe(t *testing.T) {
	var p *SessionPresenter
	p.Tick(time.Now())
	NewSessionPresenter(nil, nil, nil).Tick(time.Now())
}
