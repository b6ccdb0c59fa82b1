// Package stabilizer turns jittery key traffic into "what is stably held".
//
// Every transition restarts a quiet window. Once the window passes without
// another transition the held set is published once. Releasing everything is
// published immediately since an empty hand is unambiguous.
package stabilizer

import (
	"time"

	"github.com/jsphweid/chordcoach/constants"
	"github.com/jsphweid/chordcoach/log"
	"github.com/jsphweid/chordcoach/model"
	"github.com/jsphweid/chordcoach/timer"
)

type Listener interface {
	StableNotes(set model.StableNoteSet)
	NotesCleared(at time.Time)
}

type Stabilizer struct {
	window   time.Duration
	sched    timer.Scheduler
	debounce timer.Slot

	held  [model.MaxNote + 1]bool
	count int

	heldSince     time.Time
	settlingSince time.Time
	settling      bool

	listeners []*registration
	disposed  bool
}

type registration struct {
	l Listener
}

func New(sched timer.Scheduler, window time.Duration) *Stabilizer {
	if window <= 0 {
		window = constants.DefaultDebounceWindow
	}
	return &Stabilizer{
		window:   window,
		sched:    sched,
		debounce: timer.NewSlot(sched),
	}
}

func (s *Stabilizer) Window() time.Duration {
	return s.window
}

// Subscribe registers l and returns a func removing it again.
func (s *Stabilizer) Subscribe(l Listener) func() {
	r := &registration{l: l}
	s.listeners = append(s.listeners, r)
	return func() {
		for i, other := range s.listeners {
			if other == r {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *Stabilizer) HandleEvent(ev model.RawEvent) {
	if s.disposed {
		return
	}
	if err := ev.Validate(); err != nil {
		// the device driver is the authority on validity, drop silently
		log.STAB.Debugf("dropping event: %v", err)
		return
	}

	if ev.IsRelease() {
		if !s.held[ev.Note] {
			return
		}
		s.held[ev.Note] = false
		s.count--
	} else {
		if s.held[ev.Note] {
			return
		}
		s.held[ev.Note] = true
		s.count++
		if s.count == 1 {
			s.heldSince = ev.Timestamp
		}
	}

	if s.count == 0 {
		s.debounce.Stop()
		s.settling = false
		s.emitCleared(ev.Timestamp)
		return
	}

	if !s.settling {
		s.settling = true
		s.settlingSince = ev.Timestamp
	}
	s.debounce.Set(s.window, s.settle)
}

func (s *Stabilizer) settle() {
	s.settling = false
	set := model.StableNoteSet{
		Notes:         s.Held(),
		StabilizedAt:  s.sched.Now(),
		HeldSince:     s.heldSince,
		SettlingSince: s.settlingSince,
	}
	log.STAB.Debugf("stable %v", set.Notes)
	for _, r := range s.snapshotListeners() {
		r.l.StableNotes(set)
	}
}

func (s *Stabilizer) emitCleared(at time.Time) {
	log.STAB.Debugf("cleared")
	for _, r := range s.snapshotListeners() {
		r.l.NotesCleared(at)
	}
}

// listeners may unsubscribe while being notified
func (s *Stabilizer) snapshotListeners() []*registration {
	return append([]*registration(nil), s.listeners...)
}

// Held returns the currently held notes in ascending order.
func (s *Stabilizer) Held() model.Notes {
	notes := make(model.Notes, 0, s.count)
	for n, on := range s.held {
		if on {
			notes = append(notes, n)
		}
	}
	return notes
}

// Dispose cancels the pending window and drops every listener. Later events
// are ignored.
func (s *Stabilizer) Dispose() {
	s.debounce.Stop()
	s.listeners = nil
	s.disposed = true
}
