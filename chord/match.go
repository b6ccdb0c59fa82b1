package chord

import "strings"

type Voicing uint8

const (
	VoicingSingle Voicing = iota
	VoicingClose
	VoicingOpen
	VoicingWide
	VoicingPower
	VoicingCluster
)

var voicingNames = [...]string{"single", "close", "open", "wide", "power", "cluster"}

func (v Voicing) String() string {
	if int(v) < len(voicingNames) {
		return voicingNames[v]
	}
	return "unknown"
}

// Match is the classifier's best reading of a note set.
type Match struct {
	Root    int // pitch class
	Quality Quality

	// Bass is the lowest sounding note. It is a slash bass only when Slash
	// is set, otherwise Inversion says which chord member it is.
	Bass      int
	Slash     bool
	Inversion int

	Voicing    Voicing
	Confidence float64

	// every pitch class that was played
	Pitches PitchClassSet
	// played but not part of the shape, empty when none
	Extra PitchClassSet
	// optional shape members that were left out, empty when none
	Omitted PitchClassSet
}

// SlashBass returns the bass note when it is foreign to the chord.
func (m Match) SlashBass() (int, bool) {
	if !m.Slash {
		return 0, false
	}
	return m.Bass, true
}

func (m Match) HasExtra() bool {
	return !m.Extra.Empty()
}

// Name renders a chord symbol such as C, Cm7, C/G or Cm7 (+Db).
func (m Match) Name() string {
	name := PitchClassName(m.Root) + m.Quality.Symbol()
	if m.Quality == Single || m.Quality == Cluster {
		return name
	}
	if m.Slash || m.Inversion > 0 {
		name += "/" + PitchClassName(m.Bass)
	}
	extra := m.Extra
	if m.Slash {
		extra &^= PitchClassSet(0).With(m.Bass)
	}
	if !extra.Empty() {
		name += " (+" + strings.Join(extra.Names(), ",") + ")"
	}
	return name
}
