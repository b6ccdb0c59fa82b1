package model

import (
	"errors"
	"fmt"
	"time"
)

const (
	MinNote = 0
	MaxNote = 127
)

var ErrInvalidInputNote = errors.New("invalid input note")

// RawEvent is a single key transition as reported by an input device.
type RawEvent struct {
	Note      int
	IsPress   bool
	Velocity  int
	Timestamp time.Time
}

// IsRelease reports whether the event lifts a key. A press with velocity 0
// is a release by MIDI convention.
func (e RawEvent) IsRelease() bool {
	return !e.IsPress || e.Velocity == 0
}

func (e RawEvent) Validate() error {
	if !ValidNote(e.Note) {
		return fmt.Errorf("%w: note %d", ErrInvalidInputNote, e.Note)
	}
	if e.Velocity < 0 || e.Velocity > 127 {
		return fmt.Errorf("%w: velocity %d", ErrInvalidInputNote, e.Velocity)
	}
	return nil
}

func ValidNote(n int) bool {
	return n >= MinNote && n <= MaxNote
}

// StableNoteSet is the held configuration once no transition happened for
// the quiet window.
type StableNoteSet struct {
	Notes        Notes
	StabilizedAt time.Time
	// when the held set last went from empty to non-empty
	HeldSince time.Time
	// first transition of the burst that settled into Notes
	SettlingSince time.Time
}

func (s StableNoteSet) Empty() bool {
	return len(s.Notes) == 0
}

// Same reports whether both sets hold exactly the same notes. Notes are
// expected in ascending order, which is how the stabilizer emits them.
func (s StableNoteSet) Same(other StableNoteSet) bool {
	if len(s.Notes) != len(other.Notes) {
		return false
	}
	for i := range s.Notes {
		if s.Notes[i] != other.Notes[i] {
			return false
		}
	}
	return true
}
