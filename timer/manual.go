package timer

import (
	"time"

	"golang.org/x/exp/slices"
)

type pending struct {
	handle   Handle
	deadline time.Time
	fn       func()
}

// Manual is a virtual clock. Callbacks only run from Advance and AdvanceTo,
// in deadline order, with Now set to each callback's deadline. Used by tests
// and by performance replay.
type Manual struct {
	now     time.Time
	next    Handle
	pending []pending
}

func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	return m.now
}

func (m *Manual) Schedule(after time.Duration, fn func()) Handle {
	if after < 0 {
		after = 0
	}
	m.next++
	m.pending = append(m.pending, pending{handle: m.next, deadline: m.now.Add(after), fn: fn})
	return m.next
}

func (m *Manual) Cancel(h Handle) {
	for i, p := range m.pending {
		if p.handle == h {
			m.pending = slices.Delete(m.pending, i, i+1)
			return
		}
	}
}

// Pending is the number of live callbacks.
func (m *Manual) Pending() int {
	return len(m.pending)
}

func (m *Manual) Advance(d time.Duration) {
	m.AdvanceTo(m.now.Add(d))
}

// AdvanceTo fires every callback due at or before t. Callbacks scheduled
// while firing are honoured if they also fall due before t.
func (m *Manual) AdvanceTo(t time.Time) {
	for {
		idx := -1
		for i, p := range m.pending {
			if p.deadline.After(t) {
				continue
			}
			// earliest deadline first, then scheduling order
			if idx == -1 || p.deadline.Before(m.pending[idx].deadline) {
				idx = i
			}
		}
		if idx == -1 {
			break
		}
		p := m.pending[idx]
		m.pending = slices.Delete(m.pending, idx, idx+1)
		if p.deadline.After(m.now) {
			m.now = p.deadline
		}
		p.fn()
	}
	if t.After(m.now) {
		m.now = t
	}
}
