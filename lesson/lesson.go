// Package lesson builds lesson plans, the ordered target chords a session
// walks through, from standard MIDI files or TOML.
package lesson

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/jsphweid/chordcoach/chord"
	"github.com/jsphweid/chordcoach/config"
	"github.com/jsphweid/chordcoach/log"
	"github.com/jsphweid/chordcoach/midi"
	"github.com/jsphweid/chordcoach/model"
	"gitlab.com/gomidi/midi/v2/smf"
	"golang.org/x/exp/slices"
)

var ErrUnknownFormat = errors.New("unknown lesson format")

// default distance between TOML chords that give no start time
const defaultStep = 2 * time.Second

type Lesson struct {
	Title   string
	Source  string
	Targets []model.TargetChord
}

// Load reads a lesson from a .mid/.midi or .toml file. spread is the
// window within which SMF note-ons are merged into one chord.
func Load(path string, spread time.Duration) (*Lesson, error) {
	var l *Lesson
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mid", ".midi":
		s, err := midi.ReadMidiFile(path)
		if err != nil {
			return nil, err
		}
		l = &Lesson{Targets: FromSMF(s, spread)}
	case ".toml":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		l, err = FromTOML(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
	l.Source = path
	if l.Title == "" {
		l.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	log.LESSON.Printf("loaded %q with %d chords", l.Title, len(l.Targets))
	return l, nil
}

// FromSMF turns the note-ons of every track into targets. Note-ons within
// spread of a chord's first note join that chord; the chord's hold lasts
// until the first of its notes is released.
func FromSMF(s *smf.SMF, spread time.Duration) []model.TargetChord {
	if spread < 0 {
		spread = 0
	}
	var zero time.Time
	var targets []model.TargetChord
	// note -> index of the chord it was pressed in
	held := make(map[int]int)

	for _, ev := range midi.Performance(s, zero) {
		at := ev.Timestamp.Sub(zero)
		if ev.IsRelease() {
			i, ok := held[ev.Note]
			if !ok {
				continue
			}
			delete(held, ev.Note)
			if targets[i].ExpectedHold == 0 {
				targets[i].ExpectedHold = at - targets[i].ExpectedTime
			}
			continue
		}
		if !model.ValidNote(ev.Note) {
			continue
		}

		n := len(targets)
		if n == 0 || at-targets[n-1].ExpectedTime > spread {
			targets = append(targets, model.TargetChord{ExpectedTime: at})
			n++
		}
		t := &targets[n-1]
		if !slices.Contains(t.ExpectedNotes, ev.Note) {
			t.ExpectedNotes = append(t.ExpectedNotes, ev.Note)
		}
		held[ev.Note] = n - 1
	}

	for i := range targets {
		slices.Sort(targets[i].ExpectedNotes)
		if m, ok := chord.Classify(targets[i].ExpectedNotes); ok {
			targets[i].Label = m.Name()
		}
	}
	return targets
}

type tomlLesson struct {
	Title  string          `toml:"title"`
	Step   config.Duration `toml:"step"`
	Chords []tomlChord     `toml:"chord"`
}

type tomlChord struct {
	Notes []string         `toml:"notes"`
	At    *config.Duration `toml:"at"`
	Hold  config.Duration  `toml:"hold"`
	Label string           `toml:"label"`
}

// FromTOML reads
//
//	title = "ii-V-I"
//	step = "2s"
//
//	[[chord]]
//	notes = ["D4", "F4", "A4", "C5"]
//	at = "0s"
//	hold = "1s"
//
// A chord without "at" starts one step after the previous one.
func FromTOML(r io.Reader) (*Lesson, error) {
	var doc tomlLesson
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}
	step := doc.Step.Duration
	if step <= 0 {
		step = defaultStep
	}

	l := &Lesson{Title: doc.Title}
	for i, c := range doc.Chords {
		if len(c.Notes) == 0 {
			return nil, fmt.Errorf("chord %d has no notes", i+1)
		}
		target := model.TargetChord{ExpectedHold: c.Hold.Duration, Label: c.Label}
		for _, name := range c.Notes {
			note, err := chord.ParsePitch(name)
			if err != nil {
				return nil, fmt.Errorf("chord %d: %w", i+1, err)
			}
			target.ExpectedNotes = append(target.ExpectedNotes, note)
		}

		switch {
		case c.At != nil:
			target.ExpectedTime = c.At.Duration
		case i > 0:
			target.ExpectedTime = l.Targets[i-1].ExpectedTime + step
		}
		if i > 0 && target.ExpectedTime < l.Targets[i-1].ExpectedTime {
			return nil, fmt.Errorf("chord %d starts before chord %d", i+1, i)
		}
		if target.Label == "" {
			if m, ok := chord.Classify(target.ExpectedNotes); ok {
				target.Label = m.Name()
			}
		}
		l.Targets = append(l.Targets, target)
	}
	return l, nil
}
