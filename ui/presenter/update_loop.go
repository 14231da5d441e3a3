package presenter

import "time"

// Loop aggregates feature presenters and drives periodic updates.
//
// It calls Tick on the sub-presenters and invokes a scheduler callback.
// The zero value is usable (methods are nil-safe).
type Loop struct {
	Session  *SessionPresenter
	FSM      *FSMPresenter
	Conn     *ConnectionPresenter
	Schedule func()
}

func NewLoop(sess *SessionPresenter, fsm *FSMPresenter, conn *ConnectionPresenter, schedule func()) *Loop {
	return &Loop{Session: sess, FSM: fsm, Conn: conn, Schedule: schedule}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	now := time.Now()
	// Apply finished requests first so the labels below reflect them.
	if l.Conn != nil {
		l.Conn.Tick()
	}
	if l.FSM != nil {
		l.FSM.Tick(now)
	}
	if l.Session != nil {
		l.Session.Tick(now)
	}
	if l.Schedule != nil {
		l.Schedule()
	}
}
