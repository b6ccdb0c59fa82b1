package model

import "time"

type Notes = []int

// TargetChord is one entry of a lesson plan. It is never mutated once a
// session has been built from it.
type TargetChord struct {
	ExpectedNotes Notes
	// offset from session start
	ExpectedTime time.Duration
	ExpectedHold time.Duration

	// NOTE: optional, only for display
	Label string
}
