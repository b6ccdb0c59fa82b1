package session

import (
	"time"

	"github.com/jsphweid/chordcoach/constants"
)

type Options struct {
	MinHold          time.Duration
	GracePeriod      time.Duration
	FeedbackInterval time.Duration

	// StrictMatch requires the played pitch classes to equal the target's.
	// Otherwise a superset classified with at least MinConfidence passes.
	StrictMatch   bool
	MinConfidence float64

	BaseScore    int
	PerfectBonus int
	GoodBonus    int
	StreakWeight int

	// SkipCountsAsAttempt adds skipped targets to the attempt count.
	SkipCountsAsAttempt bool
}

func DefaultOptions() Options {
	return Options{
		MinHold:          constants.DefaultMinHold,
		GracePeriod:      constants.DefaultGracePeriod,
		FeedbackInterval: constants.DefaultFeedbackInterval,
		MinConfidence:    constants.DefaultMinConfidence,
		BaseScore:        constants.DefaultBaseScore,
		PerfectBonus:     constants.DefaultPerfectBonus,
		GoodBonus:        constants.DefaultGoodBonus,
		StreakWeight:     constants.DefaultStreakWeight,
	}
}

// withDefaults fills zero durations and thresholds. Score values are kept
// as given so a caller can switch a bonus off.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MinHold <= 0 {
		o.MinHold = d.MinHold
	}
	if o.GracePeriod <= 0 {
		o.GracePeriod = d.GracePeriod
	}
	if o.FeedbackInterval <= 0 {
		o.FeedbackInterval = d.FeedbackInterval
	}
	if o.MinConfidence <= 0 {
		o.MinConfidence = d.MinConfidence
	}
	return o
}

// timingBonus pays perfect over good over nothing.
func (o Options) timingBonus(r Rating) int {
	switch r {
	case Perfect:
		return o.PerfectBonus
	case Good:
		return o.GoodBonus
	}
	return 0
}
