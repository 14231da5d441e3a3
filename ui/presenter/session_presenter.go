package presenter

import (
	"time"

	"github.com/soocke/pose-label-go/ui/model"
)

// ConnectedModel reports whether a session is open.
type ConnectedModel interface{ Connected() bool }

// SessionView displays labeling time and throughput.
type SessionView interface {
	SetSession(active time.Duration, saves int, perHour float64)
}

// SessionPresenter pushes labeling time and throughput from the model to the view.
type SessionPresenter struct {
	sess *model.SessionModel
	conn ConnectedModel
	view SessionView
}

// NewSessionPresenter returns a new SessionPresenter.
func NewSessionPresenter(sess *model.SessionModel, conn ConnectedModel, view SessionView) *SessionPresenter {
	return &SessionPresenter{sess: sess, conn: conn, view: view}
}

// Tick advances the session clock while connected and updates the view.
func (p *SessionPresenter) Tick(now time.Time) {
	if p == nil || p.sess == nil || p.conn == nil || p.view == nil {
		return
	}
	if p.conn.Connected() {
		p.sess.OnTick(now)
	}
	p.view.SetSession(p.sess.Values())
}
