// Package timer provides cancellable delayed callbacks for code that runs on
// a single logical thread. A Scheduler never runs two callbacks at once and
// never runs a callback whose handle was cancelled.
package timer

import "time"

// Handle identifies one scheduled callback. The zero Handle is never issued
// and cancelling it is a no-op.
type Handle uint64

type Scheduler interface {
	Schedule(after time.Duration, fn func()) Handle
	Cancel(h Handle)
	Now() time.Time
}

// Slot holds at most one live handle of a single timer kind.
type Slot struct {
	sched  Scheduler
	handle Handle
}

func NewSlot(sched Scheduler) Slot {
	return Slot{sched: sched}
}

// Set cancels whatever the slot held and schedules fn.
func (s *Slot) Set(after time.Duration, fn func()) {
	s.Stop()
	var h Handle
	h = s.sched.Schedule(after, func() {
		if s.handle == h {
			s.handle = 0
		}
		fn()
	})
	s.handle = h
}

func (s *Slot) Stop() {
	if s.handle != 0 {
		s.sched.Cancel(s.handle)
		s.handle = 0
	}
}

func (s *Slot) Active() bool {
	return s.handle != 0
}
