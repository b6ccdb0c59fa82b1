package session

import (
	"time"

	"github.com/jsphweid/chordcoach/chord"
	"github.com/jsphweid/chordcoach/model"
)

type Outcome uint8

const (
	Succeeded Outcome = iota
	Failed
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	}
	return "unknown"
}

type Attempt struct {
	TargetIndex int
	Outcome     Outcome
	Reason      Reason
	Rating      Rating
	TimingError time.Duration
	Award       int
	At          time.Time

	// Chord is the reading the attempt was judged on, nil for skips made
	// before anything was played.
	Chord *chord.Match
}

// State is owned by the Evaluator. Subscribers only ever see copies.
type State struct {
	SessionID string
	Phase     Phase

	// equals TargetCount once every target has been passed
	CurrentTargetIndex int
	TargetCount        int

	Score        int
	Streak       int
	MaxStreak    int
	CorrectCount int
	AttemptCount int

	Attempts []Attempt
}

func (s State) clone() State {
	attempts := make([]Attempt, len(s.Attempts))
	for i, a := range s.Attempts {
		if a.Chord != nil {
			c := *a.Chord
			a.Chord = &c
		}
		attempts[i] = a
	}
	s.Attempts = attempts
	return s
}

// GracePeriod exists only between a mismatch during a hold and its
// resolution.
type GracePeriod struct {
	Active        bool
	Deadline      time.Time
	LastKnownGood model.Notes
}

type Award struct {
	Rating      Rating
	TimingError time.Duration
	Base        int
	TimingBonus int
	StreakBonus int
	Total       int
}

type Failure struct {
	Reason  Reason
	Message string
}

type Summary struct {
	Score     int
	Correct   int
	Total     int
	Accuracy  float64
	MaxStreak int
	Attempts  int
	Elapsed   time.Duration
}

// Transition is published on every phase change. Everything reachable from
// it is a copy.
type Transition struct {
	Phase    Phase
	Previous Phase
	At       time.Time
	State    State

	// last classified chord, nil when none
	Chord *chord.Match
	// current target, nil once the lesson is done
	Target *model.TargetChord

	// phase specific payloads, nil unless the phase carries them
	Success *Award
	Failure *Failure
	Summary *Summary
}

type Listener func(Transition)

type Subscription struct {
	e  *Evaluator
	id uint64
}

func (s *Subscription) Unsubscribe() {
	if s == nil || s.e == nil {
		return
	}
	s.e.unsubscribe(s.id)
	s.e = nil
}
