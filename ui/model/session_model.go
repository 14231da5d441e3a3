package model

import (
	"time"
)

// DefaultIdleTimeout is how long without input before the clock pauses.
const DefaultIdleTimeout = 90 * time.Second

// SessionModel tracks active labeling time and save throughput. Time only
// accumulates while the operator has interacted within the idle timeout.
// The zero value is ready to use with DefaultIdleTimeout.
type SessionModel struct {
	idle         time.Duration
	lastActivity time.Time
	lastTick     time.Time
	active       time.Duration
	saves        int
}

// NewSessionModel returns a pointer to a ready-to-use SessionModel.
func NewSessionModel(idle time.Duration) *SessionModel { return &SessionModel{idle: idle} }

func (m *SessionModel) idleTimeout() time.Duration {
	if m.idle <= 0 {
		return DefaultIdleTimeout
	}
	return m.idle
}

// Touch records operator input at now.
func (m *SessionModel) Touch(now time.Time) {
	if m == nil {
		return
	}
	if m.lastActivity.IsZero() || now.Sub(m.lastActivity) > m.idleTimeout() {
		m.lastTick = now
	}
	m.lastActivity = now
}

// RecordSave counts a completed save.
func (m *SessionModel) RecordSave(now time.Time) {
	if m == nil {
		return
	}
	m.saves++
	m.Touch(now)
}

// OnTick accumulates active time up to now. Call periodically.
func (m *SessionModel) OnTick(now time.Time) {
	if m == nil || m.lastActivity.IsZero() {
		return
	}
	end := now
	if deadline := m.lastActivity.Add(m.idleTimeout()); end.After(deadline) {
		end = deadline
	}
	if end.After(m.lastTick) {
		m.active += end.Sub(m.lastTick)
		m.lastTick = end
	}
}

// Values returns active labeling time, completed saves and saves per hour of
// active time.
func (m *SessionModel) Values() (active time.Duration, saves int, perHour float64) {
	if m == nil {
		return 0, 0, 0
	}
	if m.active > 0 {
		perHour = float64(m.saves) / m.active.Hours()
	}
	return m.active, m.saves, perHour
}
