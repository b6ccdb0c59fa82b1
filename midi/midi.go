package midi

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/jsphweid/chordcoach/model"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r, ok := recover().(string); ok {
			e = errors.New(r)
		}
	}()

	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading midi file %s: %w", filepath, err)
	}
	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, fmt.Errorf("parsing midi file %s: %w", filepath, err)
	}
	return res, nil
}

// ToRawEvent converts note on/off messages. A note on with velocity 0 is
// passed through as a press with velocity 0; the stabilizer treats it as a
// release.
func ToRawEvent(msg []byte, at time.Time) (model.RawEvent, bool) {
	var ch, key, vel uint8
	m := gomidi.Message(msg)
	switch {
	case m.GetNoteOn(&ch, &key, &vel):
		return model.RawEvent{Note: int(key), IsPress: true, Velocity: int(vel), Timestamp: at}, true
	case m.GetNoteOff(&ch, &key, &vel):
		return model.RawEvent{Note: int(key), IsPress: false, Velocity: int(vel), Timestamp: at}, true
	}
	return model.RawEvent{}, false
}

type timedEvent struct {
	micros int64
	event  model.RawEvent
}

// Performance flattens every track of s into raw events stamped relative to
// base, in time order. Releases sort before presses at the same instant.
func Performance(s *smf.SMF, base time.Time) []model.RawEvent {
	var timed []timedEvent
	for _, events := range s.Tracks {
		var absTicks int64
		for _, event := range events {
			absTicks += int64(event.Delta)
			ev, ok := ToRawEvent(event.Message, time.Time{})
			if !ok {
				continue
			}
			timed = append(timed, timedEvent{micros: s.TimeAt(absTicks), event: ev})
		}
	}

	sort.SliceStable(timed, func(i, j int) bool {
		if timed[i].micros != timed[j].micros {
			return timed[i].micros < timed[j].micros
		}
		return timed[i].event.IsRelease() && !timed[j].event.IsRelease()
	})

	res := make([]model.RawEvent, len(timed))
	for i, t := range timed {
		t.event.Timestamp = base.Add(time.Duration(t.micros) * time.Microsecond)
		res[i] = t.event
	}
	return res
}
