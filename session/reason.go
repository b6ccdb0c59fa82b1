package session

import (
	"errors"
	"time"

	"github.com/jsphweid/chordcoach/constants"
)

var (
	// ErrEmptyLessonPlan is the one fatal condition, raised by New.
	ErrEmptyLessonPlan = errors.New("lesson plan has no target chords")
	ErrNotIdle         = errors.New("session already started")
	ErrNotActive       = errors.New("session is not in an active phase")
	ErrNotPaused       = errors.New("session is not paused")
	ErrDisposed        = errors.New("session disposed")
)

// Reason says why an attempt failed. Failures are reported through the
// FailFeedback phase, never returned as errors.
type Reason uint8

const (
	NoReason Reason = iota
	NoChordDetected
	WrongChord
	ChordChangedDuringHold
	// dropped by the stabilizer, never surfaces as a phase
	InvalidInputNote
)

var reasonNames = [...]string{
	NoReason:               "",
	NoChordDetected:        "NoChordDetected",
	WrongChord:             "WrongChord",
	ChordChangedDuringHold: "ChordChangedDuringHold",
	InvalidInputNote:       "InvalidInputNote",
}

var reasonMessages = [...]string{
	NoReason:               "",
	NoChordDetected:        "no chord detected",
	WrongChord:             "wrong chord",
	ChordChangedDuringHold: "chord changed during hold",
	InvalidInputNote:       "invalid input note",
}

func (r Reason) String() string {
	if int(r) < len(reasonNames) {
		return reasonNames[r]
	}
	return "unknown"
}

// Message is the human readable text shown with FailFeedback.
func (r Reason) Message() string {
	if int(r) < len(reasonMessages) {
		return reasonMessages[r]
	}
	return "unknown failure"
}

type Rating uint8

const (
	NoRating Rating = iota
	Perfect
	Good
	Okay
	Late
	Miss
)

var ratingNames = [...]string{"", "perfect", "good", "okay", "late", "miss"}

func (r Rating) String() string {
	if int(r) < len(ratingNames) {
		return ratingNames[r]
	}
	return "unknown"
}

type judgement struct {
	upTo   time.Duration
	rating Rating
}

var judgements = []judgement{
	{constants.PerfectWindow, Perfect},
	{constants.GoodWindow, Good},
	{constants.OkayWindow, Okay},
	{constants.LateWindow, Late},
}

// Judge buckets an absolute timing error.
func Judge(timingError time.Duration) Rating {
	for _, j := range judgements {
		if timingError < j.upTo {
			return j.rating
		}
	}
	return Miss
}
