package chord

import (
	"fmt"
	"math/bits"

	"github.com/jsphweid/chordcoach/model"
	"github.com/jsphweid/chordcoach/util"
	"golang.org/x/exp/slices"
)

const (
	exactBonus    = 1000
	consumesBonus = 200
	extraPenalty  = 150
	omitPenalty   = 50

	fallbackPowerConfidence = 0.3
	clusterConfidence       = 0.1
)

// noteSet is every MIDI note as a 128 bit set. It lives on the stack, which
// keeps Classify free of allocations while deduplicating across octaves.
type noteSet [2]uint64

func (n *noteSet) add(note int) {
	n[note>>6] |= 1 << uint(note&63)
}

func (n *noteSet) empty() bool {
	return n[0] == 0 && n[1] == 0
}

func (n *noteSet) lowest() int {
	if n[0] != 0 {
		return bits.TrailingZeros64(n[0])
	}
	return 64 + bits.TrailingZeros64(n[1])
}

func (n *noteSet) highest() int {
	if n[1] != 0 {
		return 127 - bits.LeadingZeros64(n[1])
	}
	return 63 - bits.LeadingZeros64(n[0])
}

// Classify returns the best chord reading of notes. It reports false only
// when no valid note was given; any other input gets a result, with
// Confidence saying how good it is.
func Classify(notes []int) (Match, bool) {
	var held noteSet
	var pcs PitchClassSet
	for _, n := range notes {
		if !model.ValidNote(n) {
			continue
		}
		held.add(n)
		pcs = pcs.With(n)
	}
	if held.empty() {
		return Match{}, false
	}

	low, high := held.lowest(), held.highest()
	m := Match{Bass: low, Pitches: pcs}

	switch pcs.Len() {
	case 1:
		m.Root = low % 12
		m.Quality = Single
		m.Voicing = VoicingSingle
		m.Confidence = 1
		return m, true
	case 2:
		if root, ok := powerRoot(pcs); ok {
			m.Root = root
			m.Quality = Power
			m.Voicing = VoicingPower
			m.Confidence = 1
			if low%12 != root {
				m.Inversion = 1
			}
			return m, true
		}
	}

	best, bestRoot, bestScore := -1, 0, 0
	for root := 0; root < 12; root++ {
		// every shape needs its root
		if !pcs.Has(root) {
			continue
		}
		rotated := pcs.Rotate(root)
		for i := range Library {
			p := &Library[i]
			if p.Fallback || !rotated.Contains(p.Required()) {
				continue
			}
			extra := (rotated &^ p.Mask).Len()
			if extra > p.Tolerance() {
				continue
			}
			omitted := (p.Mask &^ rotated).Len()
			score := p.Priority - extraPenalty*extra - omitPenalty*omitted
			if rotated == p.Mask {
				score += exactBonus
			}
			if extra == 0 {
				score += consumesBonus
			}
			if best == -1 || score > bestScore {
				best, bestRoot, bestScore = i, root, score
			}
		}
	}

	if best == -1 {
		return fallback(m, pcs, high-low), true
	}

	p := &Library[best]
	rotated := pcs.Rotate(bestRoot)
	extra := rotated &^ p.Mask
	omitted := p.Mask &^ rotated

	m.Root = bestRoot
	m.Quality = p.Quality
	m.Extra = extra.Rotate(-bestRoot)
	m.Omitted = omitted.Rotate(-bestRoot)
	if rotated == p.Mask {
		m.Confidence = 1
	} else {
		m.Confidence = util.Clamp(1-0.1*float64(extra.Len())-0.05*float64(omitted.Len()), 0, 1)
	}
	placeBass(&m, p.Mask)
	m.Voicing = spanVoicing(high - low)
	return m, true
}

func fallback(m Match, pcs PitchClassSet, span int) Match {
	if root, ok := powerRoot(pcs); ok {
		m.Root = root
		m.Quality = Power
		m.Extra = pcs &^ intervals(0, 7).Rotate(-root)
		m.Confidence = fallbackPowerConfidence
		placeBass(&m, intervals(0, 7))
		m.Voicing = spanVoicing(span)
		return m
	}
	// lowest pitch class rather than the bass, so octave placement never
	// changes the reading
	m.Root = bits.TrailingZeros16(uint16(pcs))
	m.Quality = Cluster
	m.Extra = pcs &^ PitchClassSet(0).With(m.Root)
	m.Voicing = VoicingCluster
	m.Confidence = clusterConfidence
	return m
}

// placeBass decides between inversion and slash for the lowest note. shape
// is relative to m.Root.
func placeBass(m *Match, shape PitchClassSet) {
	interval := ((m.Bass-m.Root)%12 + 12) % 12
	if shape.Has(interval) {
		m.Inversion = shape.Index(interval)
		m.Slash = false
		return
	}
	m.Inversion = 0
	m.Slash = true
}

// powerRoot finds the lowest pitch class whose fifth is also present.
func powerRoot(pcs PitchClassSet) (int, bool) {
	for root := 0; root < 12; root++ {
		if pcs.Has(root) && pcs.Has(root+7) {
			return root, true
		}
	}
	return 0, false
}

func spanVoicing(span int) Voicing {
	switch {
	case span <= 12:
		return VoicingClose
	case span <= 24:
		return VoicingOpen
	default:
		return VoicingWide
	}
}

// Key joins notes into a stable lookup key such as 60-64-67.
func Key(notes []int) string {
	sorted := append([]int(nil), notes...)
	slices.Sort(sorted)
	var res string
	for i, note := range sorted {
		res += fmt.Sprintf("%v", note)
		if i < len(sorted)-1 {
			res += "-"
		}
	}
	return res
}
