package constants

import (
	"os"
	"path/filepath"
	"time"
)

const (
	DefaultDebounceWindow   = 40 * time.Millisecond
	DefaultGracePeriod      = 150 * time.Millisecond
	DefaultMinHold          = 500 * time.Millisecond
	DefaultFeedbackInterval = 800 * time.Millisecond

	// classified supersets of the target count when confidence reaches this
	DefaultMinConfidence = 0.8

	DefaultBaseScore    = 100
	DefaultPerfectBonus = 50
	DefaultGoodBonus    = 25
	DefaultStreakWeight = 10

	// timing rating upper bounds, exclusive
	PerfectWindow = 50 * time.Millisecond
	GoodWindow    = 100 * time.Millisecond
	OkayWindow    = 200 * time.Millisecond
	LateWindow    = 300 * time.Millisecond

	// lesson files: note-ons closer than this form one chord
	DefaultChordSpread = 30 * time.Millisecond

	// lesson hot reload waits for editors to finish writing
	DefaultReloadQuiet = 250 * time.Millisecond
)

// GetConfigPath returns the config file to load, or "" when none exists.
func GetConfigPath() string {
	path := os.Getenv("CHORDCOACH_CONFIG")
	if path != "" {
		return path
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "chordcoach", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "chordcoach", "config.toml")
}

// GetInputPort is the MIDI input to open when none is given on the command
// line. Empty means the first available port.
func GetInputPort() string {
	return os.Getenv("CHORDCOACH_PORT")
}
