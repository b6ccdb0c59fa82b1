package lesson

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/jsphweid/chordcoach/model"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	exportBPM        = 120
	exportResolution = 480
	// at exportBPM
	ticksPerSecond = exportResolution * exportBPM / 60

	exportVelocity = 90
	// hold used for targets that give none and are not cut short by the next
	defaultExportHold = time.Second
)

type exportEvent struct {
	ticks uint32
	off   bool
	note  uint8
}

func toTicks(d time.Duration) uint32 {
	if d < 0 {
		return 0
	}
	return uint32(d.Seconds()*ticksPerSecond + 0.5)
}

// ToSMF renders targets as a single track, each chord sounding from its
// expected time for its expected hold. A chord is cut off where the next
// one starts.
func ToSMF(targets []model.TargetChord) *smf.SMF {
	var events []exportEvent
	for i, t := range targets {
		end := t.ExpectedTime + defaultExportHold
		if t.ExpectedHold > 0 {
			end = t.ExpectedTime + t.ExpectedHold
		}
		if i+1 < len(targets) && targets[i+1].ExpectedTime < end {
			end = targets[i+1].ExpectedTime
		}
		for _, n := range t.ExpectedNotes {
			if !model.ValidNote(n) {
				continue
			}
			events = append(events,
				exportEvent{ticks: toTicks(t.ExpectedTime), note: uint8(n)},
				exportEvent{ticks: toTicks(end), off: true, note: uint8(n)},
			)
		}
	}

	// note offs first so repeated notes are struck again
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].ticks != events[j].ticks {
			return events[i].ticks < events[j].ticks
		}
		return events[i].off && !events[j].off
	})

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(exportResolution)
	var tr smf.Track
	tr.Add(0, smf.MetaTempo(exportBPM))
	var last uint32
	for _, ev := range events {
		delta := ev.ticks - last
		last = ev.ticks
		if ev.off {
			tr.Add(delta, gomidi.NoteOff(0, ev.note))
		} else {
			tr.Add(delta, gomidi.NoteOn(0, ev.note, exportVelocity))
		}
	}
	tr.Close(0)
	// only fails for unclosed tracks
	_ = s.Add(tr)
	return s
}

func WriteSMF(path string, targets []model.TargetChord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := ToSMF(targets).WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
