package chord

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func classify(t *testing.T, notes ...int) Match {
	t.Helper()
	m, ok := Classify(notes)
	if !ok {
		t.Fatalf("Classify(%v) returned no result", notes)
	}
	return m
}

func TestMajorTriadRootPosition(t *testing.T) {
	m := classify(t, 60, 64, 67)

	assert := assert.New(t)
	assert.Equal(0, m.Root)
	assert.Equal(Major, m.Quality)
	assert.Equal(0, m.Inversion)
	assert.False(m.Slash)
	assert.Equal(VoicingClose, m.Voicing)
	assert.Equal(1.0, m.Confidence)
	assert.True(m.Extra.Empty())
	assert.Equal("C", m.Name())
}

func TestBassGUnderCMajorIsSecondInversion(t *testing.T) {
	m := classify(t, 55, 60, 64, 67)

	assert := assert.New(t)
	assert.Equal(0, m.Root)
	assert.Equal(Major, m.Quality)
	assert.Equal(55, m.Bass)
	assert.Equal(2, m.Inversion)
	assert.False(m.Slash)
	_, isSlash := m.SlashBass()
	assert.False(isSlash)
	assert.Equal("C/G", m.Name())
}

func TestFirstInversion(t *testing.T) {
	m := classify(t, 52, 55, 60)
	assert.Equal(t, Major, m.Quality)
	assert.Equal(t, 0, m.Root)
	assert.Equal(t, 1, m.Inversion)
}

func TestTrueSlashBass(t *testing.T) {
	// F# under a C major triad
	m := classify(t, 42, 60, 64, 67)

	assert := assert.New(t)
	assert.Equal(0, m.Root)
	assert.Equal(Major, m.Quality)
	assert.True(m.Slash)
	bass, ok := m.SlashBass()
	assert.True(ok)
	assert.Equal(42, bass)
	assert.Equal(0, m.Inversion)
	assert.True(m.Extra.Has(6))
	assert.Equal("C/Gb", m.Name())
}

func TestQualities(t *testing.T) {
	cases := []struct {
		notes   []int
		root    int
		quality Quality
	}{
		{[]int{60, 63, 67}, 0, Minor},
		{[]int{60, 63, 66}, 0, Diminished},
		{[]int{60, 64, 68}, 0, Augmented},
		{[]int{60, 62, 67}, 0, Sus2},
		{[]int{60, 65, 67}, 0, Sus4},
		{[]int{60, 64, 67, 71}, 0, Major7},
		{[]int{67, 71, 74, 77}, 7, Dominant7},
		{[]int{57, 60, 64, 67}, 9, Minor7},
		{[]int{59, 62, 65, 69}, 11, HalfDiminished7},
		{[]int{60, 64, 67, 70, 74}, 0, Dominant9},
		{[]int{60, 64, 67, 71, 74}, 0, Major9},
		{[]int{60, 63, 67, 70, 74}, 0, Minor9},
		{[]int{60, 62, 64, 67}, 0, Add9},
		{[]int{60, 64, 67, 70, 73}, 0, Dominant7Flat9},
		{[]int{60, 64, 67, 70, 75}, 0, Dominant7Sharp9},
		{[]int{60, 64, 66, 70}, 0, Dominant7Flat5},
		{[]int{60, 64, 68, 70}, 0, Dominant7Sharp5},
		{[]int{60, 64, 67, 69, 70, 74}, 0, Dominant13},
	}

	for _, c := range cases {
		t.Run(fmt.Sprintf("%v", c.notes), func(t *testing.T) {
			m := classify(t, c.notes...)
			assert.Equal(t, c.root, m.Root)
			assert.Equal(t, c.quality, m.Quality)
			assert.Equal(t, 1.0, m.Confidence)
		})
	}
}

func TestExtendedOutranksTriadWithExtras(t *testing.T) {
	// C E G Bb D is a ninth chord, not a triad with noise
	m := classify(t, 48, 64, 67, 70, 74)
	assert.Equal(t, Dominant9, m.Quality)
	assert.True(t, m.Extra.Empty())
}

func TestOmittedFifth(t *testing.T) {
	m := classify(t, 60, 64, 70)

	assert := assert.New(t)
	assert.Equal(Dominant7, m.Quality)
	assert.True(m.Omitted.Has(7))
	assert.Equal(1, m.Omitted.Len())
	assert.InDelta(0.95, m.Confidence, 1e-9)
}

func TestOneExtraNoteIsReported(t *testing.T) {
	m := classify(t, 60, 64, 66, 67)

	assert := assert.New(t)
	assert.Equal(Major, m.Quality)
	assert.Equal(0, m.Root)
	assert.True(m.Extra.Has(6))
	assert.Equal(1, m.Extra.Len())
	assert.InDelta(0.9, m.Confidence, 1e-9)
	assert.Equal("C (+Gb)", m.Name())
}

func TestDuplicatesAcrossOctavesDoNotChangeTheResult(t *testing.T) {
	a := classify(t, 60, 64, 67)
	b := classify(t, 60, 64, 67, 72, 76, 79, 60)

	assert := assert.New(t)
	assert.Equal(a.Root, b.Root)
	assert.Equal(a.Quality, b.Quality)
	assert.Equal(a.Confidence, b.Confidence)
	assert.Equal(a.Inversion, b.Inversion)
	assert.Equal(VoicingOpen, b.Voicing)
}

func TestVoicingFromSpan(t *testing.T) {
	assert.Equal(t, VoicingClose, classify(t, 60, 64, 67, 72).Voicing)
	assert.Equal(t, VoicingOpen, classify(t, 48, 64, 67).Voicing)
	assert.Equal(t, VoicingWide, classify(t, 36, 64, 67).Voicing)
}

func TestPowerChord(t *testing.T) {
	m := classify(t, 40, 47, 52)

	assert := assert.New(t)
	assert.Equal(4, m.Root)
	assert.Equal(Power, m.Quality)
	assert.Equal(VoicingPower, m.Voicing)
	assert.Equal(1.0, m.Confidence)
	assert.Equal("E5", m.Name())

	inverted := classify(t, 43, 48)
	assert.Equal(0, inverted.Root)
	assert.Equal(1, inverted.Inversion)
}

func TestSingleNote(t *testing.T) {
	m := classify(t, 61)
	assert.Equal(t, Single, m.Quality)
	assert.Equal(t, VoicingSingle, m.Voicing)
	assert.Equal(t, 1, m.Root)
	assert.Equal(t, "Db", m.Name())
}

func TestDenseInputFallsBack(t *testing.T) {
	// chromatic cluster, nothing in the library tolerates it
	m := classify(t, 60, 61, 62, 63, 64, 65)

	assert := assert.New(t)
	assert.Equal(Power, m.Quality)
	assert.InDelta(0.3, m.Confidence, 1e-9)

	m = classify(t, 60, 61, 62)
	assert.Equal(Cluster, m.Quality)
	assert.Equal(VoicingCluster, m.Voicing)
	assert.Equal(0, m.Root)
	assert.InDelta(0.1, m.Confidence, 1e-9)
	assert.Equal(2, m.Extra.Len())
}

func TestEmptyInput(t *testing.T) {
	_, ok := Classify(nil)
	assert.False(t, ok)
	_, ok = Classify([]int{})
	assert.False(t, ok)
	_, ok = Classify([]int{-1, 200})
	assert.False(t, ok)
}

func TestTotalityAndConfidenceRange(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		notes := make([]int, 1+r.Intn(8))
		for j := range notes {
			notes[j] = 21 + r.Intn(88)
		}
		m, ok := Classify(notes)
		if !assert.True(t, ok, "notes %v", notes) {
			continue
		}
		assert.GreaterOrEqual(t, m.Confidence, 0.0)
		assert.LessOrEqual(t, m.Confidence, 1.0)
		assert.True(t, m.Pitches.Contains(m.Extra))
	}
}

func TestOctaveInvariance(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	place := func(pcs []int) []int {
		notes := make([]int, len(pcs))
		for i, pc := range pcs {
			notes[i] = 12*(2+r.Intn(6)) + pc
		}
		return notes
	}

	for i := 0; i < 500; i++ {
		size := 1 + r.Intn(6)
		pcs := r.Perm(12)[:size]
		a := classify(t, place(pcs)...)
		b := classify(t, place(pcs)...)

		assert.Equal(t, a.Root, b.Root, "pcs %v", pcs)
		assert.Equal(t, a.Quality, b.Quality, "pcs %v", pcs)
		assert.Equal(t, a.Extra, b.Extra, "pcs %v", pcs)
		assert.Equal(t, a.Omitted, b.Omitted, "pcs %v", pcs)
		assert.Equal(t, a.Confidence, b.Confidence, "pcs %v", pcs)
	}
}

func TestClassifyDoesNotAllocate(t *testing.T) {
	notes := []int{43, 59, 62, 65, 69, 72}
	allocs := testing.AllocsPerRun(100, func() {
		Classify(notes)
	})
	assert.Equal(t, 0.0, allocs)
}

func TestKey(t *testing.T) {
	notes := []int{67, 60, 64}
	assert.Equal(t, "60-64-67", Key(notes))
	// input left untouched
	assert.Equal(t, []int{67, 60, 64}, notes)
}

func BenchmarkClassify(b *testing.B) {
	notes := []int{43, 59, 62, 65, 69, 72}
	for n := 0; n < b.N; n++ {
		Classify(notes)
	}
}
