package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jsphweid/chordcoach/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigMatchesSessionDefaults(t *testing.T) {
	t.Setenv("CHORDCOACH_PORT", "")
	cfg := DefaultConfig()
	assert.Equal(t, session.DefaultOptions(), cfg.SessionOptions())
	assert.Equal(t, 40*time.Millisecond, cfg.DebounceWindow())
	assert.Equal(t, "", cfg.Input.Port)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFromEnvPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[scoring]\nbase = 7\n"), 0o644))
	t.Setenv("CHORDCOACH_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Scoring.Base)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `[input]
port = "Digital Piano"
debounce = "25ms"

[session]
min_hold = "1s"
strict_match = true

[scoring]
streak_weight = 0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal("Digital Piano", cfg.Input.Port)
	assert.Equal(25*time.Millisecond, cfg.DebounceWindow())

	opts := cfg.SessionOptions()
	assert.Equal(time.Second, opts.MinHold)
	assert.True(opts.StrictMatch)
	assert.Equal(0, opts.StreakWeight)
	// untouched keys keep their defaults
	assert.Equal(150*time.Millisecond, opts.GracePeriod)
	assert.Equal(100, opts.BaseScore)
}

func TestLoadBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[session]\nmin_hold = \"soon\"\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDurationText(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("1.5s")))
	assert.Equal(t, 1500*time.Millisecond, d.Duration)
	b, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1.5s", string(b))
}
