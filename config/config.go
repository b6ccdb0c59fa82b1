package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/jsphweid/chordcoach/constants"
	"github.com/jsphweid/chordcoach/session"
)

// Duration reads "40ms" or "1.5s" style values from TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("bad duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

type Config struct {
	Input   InputConfig   `toml:"input"`
	Session SessionConfig `toml:"session"`
	Scoring ScoringConfig `toml:"scoring"`
	Lesson  LessonConfig  `toml:"lesson"`
}

type InputConfig struct {
	Port     string   `toml:"port"`
	Debounce Duration `toml:"debounce"`
}

type SessionConfig struct {
	MinHold             Duration `toml:"min_hold"`
	GracePeriod         Duration `toml:"grace_period"`
	Feedback            Duration `toml:"feedback"`
	StrictMatch         bool     `toml:"strict_match"`
	MinConfidence       float64  `toml:"min_confidence"`
	SkipCountsAsAttempt bool     `toml:"skip_counts_as_attempt"`
}

type ScoringConfig struct {
	Base         int `toml:"base"`
	PerfectBonus int `toml:"perfect_bonus"`
	GoodBonus    int `toml:"good_bonus"`
	StreakWeight int `toml:"streak_weight"`
}

type LessonConfig struct {
	ChordSpread Duration `toml:"chord_spread"`
	ReloadQuiet Duration `toml:"reload_quiet"`
}

func DefaultConfig() Config {
	return Config{
		Input: InputConfig{
			Port:     constants.GetInputPort(),
			Debounce: Duration{constants.DefaultDebounceWindow},
		},
		Session: SessionConfig{
			MinHold:       Duration{constants.DefaultMinHold},
			GracePeriod:   Duration{constants.DefaultGracePeriod},
			Feedback:      Duration{constants.DefaultFeedbackInterval},
			MinConfidence: constants.DefaultMinConfidence,
		},
		Scoring: ScoringConfig{
			Base:         constants.DefaultBaseScore,
			PerfectBonus: constants.DefaultPerfectBonus,
			GoodBonus:    constants.DefaultGoodBonus,
			StreakWeight: constants.DefaultStreakWeight,
		},
		Lesson: LessonConfig{
			ChordSpread: Duration{constants.DefaultChordSpread},
			ReloadQuiet: Duration{constants.DefaultReloadQuiet},
		},
	}
}

// Load overlays the TOML file at path onto the defaults. A missing file is
// not an error; an empty path means constants.GetConfigPath().
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = constants.GetConfigPath()
	}
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) SessionOptions() session.Options {
	return session.Options{
		MinHold:             c.Session.MinHold.Duration,
		GracePeriod:         c.Session.GracePeriod.Duration,
		FeedbackInterval:    c.Session.Feedback.Duration,
		StrictMatch:         c.Session.StrictMatch,
		MinConfidence:       c.Session.MinConfidence,
		BaseScore:           c.Scoring.Base,
		PerfectBonus:        c.Scoring.PerfectBonus,
		GoodBonus:           c.Scoring.GoodBonus,
		StreakWeight:        c.Scoring.StreakWeight,
		SkipCountsAsAttempt: c.Session.SkipCountsAsAttempt,
	}
}

func (c Config) DebounceWindow() time.Duration {
	return c.Input.Debounce.Duration
}
