package chord

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"

	"github.com/jsphweid/chordcoach/model"
)

// PitchClassSet is a 12 bit membership set, bit i is pitch class i (C = 0).
type PitchClassSet uint16

const allPitchClasses PitchClassSet = 0xFFF

func (s PitchClassSet) With(pc int) PitchClassSet {
	return s | 1<<uint(((pc%12)+12)%12)
}

func (s PitchClassSet) Has(pc int) bool {
	return s&(1<<uint(((pc%12)+12)%12)) != 0
}

func (s PitchClassSet) Len() int {
	return bits.OnesCount16(uint16(s))
}

func (s PitchClassSet) Empty() bool {
	return s&allPitchClasses == 0
}

// Rotate shifts the set down by n semitones so that pitch class n lands on 0.
func (s PitchClassSet) Rotate(n int) PitchClassSet {
	n = ((n % 12) + 12) % 12
	if n == 0 {
		return s & allPitchClasses
	}
	return ((s >> uint(n)) | (s << uint(12-n))) & allPitchClasses
}

// Contains reports whether every member of other is in s.
func (s PitchClassSet) Contains(other PitchClassSet) bool {
	return other&^s == 0
}

// Index is the position of pc among the members in ascending order, or -1.
func (s PitchClassSet) Index(pc int) int {
	pc = ((pc % 12) + 12) % 12
	if !s.Has(pc) {
		return -1
	}
	below := s & (1<<uint(pc) - 1)
	return below.Len()
}

func (s PitchClassSet) Classes() []int {
	res := make([]int, 0, s.Len())
	for pc := 0; pc < 12; pc++ {
		if s.Has(pc) {
			res = append(res, pc)
		}
	}
	return res
}

func (s PitchClassSet) Names() []string {
	names := make([]string, 0, s.Len())
	for _, pc := range s.Classes() {
		names = append(names, degreeNames[pc])
	}
	return names
}

func (s PitchClassSet) String() string {
	return "{" + strings.Join(s.Names(), ",") + "}"
}

// SetOf folds notes into pitch classes, ignoring anything outside MIDI range.
func SetOf(notes []int) PitchClassSet {
	var s PitchClassSet
	for _, n := range notes {
		if model.ValidNote(n) {
			s = s.With(n)
		}
	}
	return s
}

var degreeNames = [12]string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}

func PitchClassName(pc int) string {
	return degreeNames[((pc%12)+12)%12]
}

// PitchName names a note with its octave, middle C (60) is C4.
func PitchName(note int) string {
	return fmt.Sprintf("%s%d", PitchClassName(note), note/12-1)
}

var ErrBadPitch = errors.New("bad pitch")

var letterClasses = map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11}

// ParsePitch reads names like C4, F#3, Bb5 or a plain MIDI number.
func ParsePitch(name string) (int, error) {
	var n int
	if _, err := fmt.Sscanf(name, "%d", &n); err == nil && fmt.Sprint(n) == name {
		if !model.ValidNote(n) {
			return 0, fmt.Errorf("%w: %q outside midi range", ErrBadPitch, name)
		}
		return n, nil
	}
	if name == "" {
		return 0, fmt.Errorf("%w: empty", ErrBadPitch)
	}
	pc, ok := letterClasses[name[0]]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrBadPitch, name)
	}
	rest := name[1:]
	switch {
	case strings.HasPrefix(rest, "#"):
		pc++
		rest = rest[1:]
	case strings.HasPrefix(rest, "♯"):
		pc++
		rest = rest[len("♯"):]
	case strings.HasPrefix(rest, "b"):
		pc--
		rest = rest[1:]
	case strings.HasPrefix(rest, "♭"):
		pc--
		rest = rest[len("♭"):]
	}
	var octave int
	if _, err := fmt.Sscanf(rest, "%d", &octave); err != nil || fmt.Sprint(octave) != rest {
		return 0, fmt.Errorf("%w: %q needs an octave", ErrBadPitch, name)
	}
	note := (octave+1)*12 + pc
	if !model.ValidNote(note) {
		return 0, fmt.Errorf("%w: %q outside midi range", ErrBadPitch, name)
	}
	return note, nil
}
