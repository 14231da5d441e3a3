package model

import (
	"sync/atomic"
)

// ConnectionModel tracks whether a label store session is open. The zero
// value is disconnected and usable. Concurrency-safe because the sync worker
// and UI callbacks may race.
type ConnectionModel struct{ connected atomic.Bool }

// Connected reports whether a session is open.
func (m *ConnectionModel) Connected() bool {
	if m == nil {
		return false
	}
	return m.connected.Load()
}

// SetConnected stores the flag and reports whether it changed.
func (m *ConnectionModel) SetConnected(b bool) bool {
	if m == nil {
		return false
	}
	return m.connected.CompareAndSwap(!b, b)
}
