package midi

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

var base = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestToRawEvent(t *testing.T) {
	ev, ok := ToRawEvent(gomidi.NoteOn(0, 60, 90), base)
	require.True(t, ok)
	assert.Equal(t, 60, ev.Note)
	assert.True(t, ev.IsPress)
	assert.Equal(t, 90, ev.Velocity)
	assert.Equal(t, base, ev.Timestamp)
	assert.False(t, ev.IsRelease())

	ev, ok = ToRawEvent(gomidi.NoteOff(3, 64), base)
	require.True(t, ok)
	assert.Equal(t, 64, ev.Note)
	assert.True(t, ev.IsRelease())

	ev, ok = ToRawEvent(gomidi.NoteOn(0, 67, 0), base)
	require.True(t, ok)
	assert.True(t, ev.IsRelease())

	_, ok = ToRawEvent(gomidi.ControlChange(0, 64, 127), base)
	assert.False(t, ok)
}

// 120 bpm with 480 ticks per quarter, so one tick is 1/960 s
func testSMF(t *testing.T) *smf.SMF {
	t.Helper()
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(480)

	var tr smf.Track
	tr.Add(0, smf.MetaTempo(120))
	tr.Add(0, gomidi.NoteOn(0, 60, 100))
	tr.Add(0, gomidi.NoteOn(0, 64, 100))
	tr.Add(0, gomidi.NoteOn(0, 67, 100))
	tr.Add(960, gomidi.NoteOff(0, 60))
	tr.Add(0, gomidi.NoteOff(0, 64))
	tr.Add(0, gomidi.NoteOff(0, 67))
	tr.Add(0, gomidi.NoteOn(0, 65, 100))
	tr.Add(480, gomidi.NoteOn(0, 65, 0))
	tr.Close(0)
	require.NoError(t, s.Add(tr))
	return s
}

func TestPerformance(t *testing.T) {
	events := Performance(testSMF(t), base)
	require.Len(t, events, 8)

	assert := assert.New(t)
	assert.Equal(60, events[0].Note)
	assert.Equal(base, events[0].Timestamp)
	assert.Equal(base.Add(time.Second), events[3].Timestamp)
	// releases first at the shared instant
	for _, ev := range events[3:6] {
		assert.True(ev.IsRelease())
	}
	assert.Equal(65, events[6].Note)
	assert.True(events[6].IsPress)
	assert.True(events[7].IsRelease())
	assert.Equal(base.Add(1500*time.Millisecond), events[7].Timestamp)
}

func TestReadMidiFile(t *testing.T) {
	var buf bytes.Buffer
	_, err := testSMF(t).WriteTo(&buf)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "lesson.mid")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	s, err := ReadMidiFile(path)
	require.NoError(t, err)
	assert.Len(t, Performance(s, base), 8)

	_, err = ReadMidiFile(filepath.Join(t.TempDir(), "missing.mid"))
	assert.Error(t, err)
}
