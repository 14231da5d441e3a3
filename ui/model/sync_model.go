package model

import (
	"sync/atomic"
	"time"
)

// SyncModel counts label store requests in flight and remembers the last
// completed one. Safe for concurrent use.
type SyncModel struct {
	pending  atomic.Int32
	failures atomic.Uint64
	last     atomic.Int64 // unix nanos of the last completion
}

// Begin marks a request as started.
func (m *SyncModel) Begin() {
	if m == nil {
		return
	}
	m.pending.Add(1)
}

// Done marks a request as finished.
func (m *SyncModel) Done(err error, now time.Time) {
	if m == nil {
		return
	}
	if m.pending.Add(-1) < 0 {
		m.pending.Store(0)
	}
	if err != nil {
		m.failures.Add(1)
	}
	m.last.Store(now.UnixNano())
}

// Pending returns the number of requests in flight.
func (m *SyncModel) Pending() int {
	if m == nil {
		return 0
	}
	return int(m.pending.Load())
}

// Failures returns the number of failed requests so far.
func (m *SyncModel) Failures() uint64 {
	if m == nil {
		return 0
	}
	return m.failures.Load()
}

// LastCompleted returns when the last request finished, zero if none has.
func (m *SyncModel) LastCompleted() time.Time {
	if m == nil {
		return time.Time{}
	}
	n := m.last.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}
