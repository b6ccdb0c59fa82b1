package chord

type Quality uint8

const (
	Major Quality = iota
	Minor
	Diminished
	Augmented
	Sus2
	Sus4
	Major6
	Minor6
	SixNine
	Major7
	Dominant7
	Minor7
	HalfDiminished7
	Diminished7
	MinorMajor7
	Dominant7Sus4
	AugmentedMajor7
	Add9
	MinorAdd9
	Dominant9
	Major9
	Minor9
	Dominant11
	Minor11
	Dominant13
	Major13
	Minor13
	Dominant7Flat9
	Dominant7Sharp9
	Dominant7Sharp11
	Dominant7Flat5
	Dominant7Sharp5
	Dominant7Flat9Flat13
	Power
	Cluster
	Single
)

var qualityNames = [...]string{
	Major:                "major",
	Minor:                "minor",
	Diminished:           "diminished",
	Augmented:            "augmented",
	Sus2:                 "sus2",
	Sus4:                 "sus4",
	Major6:               "major6",
	Minor6:               "minor6",
	SixNine:              "6/9",
	Major7:               "major7",
	Dominant7:            "dominant7",
	Minor7:               "minor7",
	HalfDiminished7:      "half-diminished7",
	Diminished7:          "diminished7",
	MinorMajor7:          "minor-major7",
	Dominant7Sus4:        "7sus4",
	AugmentedMajor7:      "augmented-major7",
	Add9:                 "add9",
	MinorAdd9:            "minor-add9",
	Dominant9:            "dominant9",
	Major9:               "major9",
	Minor9:               "minor9",
	Dominant11:           "dominant11",
	Minor11:              "minor11",
	Dominant13:           "dominant13",
	Major13:              "major13",
	Minor13:              "minor13",
	Dominant7Flat9:       "7b9",
	Dominant7Sharp9:      "7#9",
	Dominant7Sharp11:     "7#11",
	Dominant7Flat5:       "7b5",
	Dominant7Sharp5:      "7#5",
	Dominant7Flat9Flat13: "7b9b13",
	Power:                "power",
	Cluster:              "cluster",
	Single:               "single",
}

// chord symbol suffixes, major triad has none
var qualitySymbols = [...]string{
	Major:                "",
	Minor:                "m",
	Diminished:           "dim",
	Augmented:            "aug",
	Sus2:                 "sus2",
	Sus4:                 "sus4",
	Major6:               "6",
	Minor6:               "m6",
	SixNine:              "6/9",
	Major7:               "maj7",
	Dominant7:            "7",
	Minor7:               "m7",
	HalfDiminished7:      "m7b5",
	Diminished7:          "dim7",
	MinorMajor7:          "mMaj7",
	Dominant7Sus4:        "7sus4",
	AugmentedMajor7:      "augMaj7",
	Add9:                 "add9",
	MinorAdd9:            "madd9",
	Dominant9:            "9",
	Major9:               "maj9",
	Minor9:               "m9",
	Dominant11:           "11",
	Minor11:              "m11",
	Dominant13:           "13",
	Major13:              "maj13",
	Minor13:              "m13",
	Dominant7Flat9:       "7b9",
	Dominant7Sharp9:      "7#9",
	Dominant7Sharp11:     "7#11",
	Dominant7Flat5:       "7b5",
	Dominant7Sharp5:      "7#5",
	Dominant7Flat9Flat13: "7b9b13",
	Power:                "5",
	Cluster:              "?",
	Single:               "",
}

func (q Quality) String() string {
	if int(q) < len(qualityNames) {
		return qualityNames[q]
	}
	return "unknown"
}

func (q Quality) Symbol() string {
	if int(q) < len(qualitySymbols) {
		return qualitySymbols[q]
	}
	return "?"
}

// Pattern is a chord shape as semitone offsets from its root. Optional bits
// (usually the fifth) may be left out by the player.
type Pattern struct {
	Mask     PitchClassSet
	Optional PitchClassSet
	Quality  Quality
	Priority int
	// fallback shapes are never tried by the general search
	Fallback bool
}

func (p Pattern) Required() PitchClassSet {
	return p.Mask &^ p.Optional
}

// Tolerance is how many foreign pitch classes the shape accepts.
func (p Pattern) Tolerance() int {
	if p.Required().Len() >= 5 {
		return 2
	}
	return 1
}

func intervals(offsets ...int) PitchClassSet {
	var s PitchClassSet
	for _, o := range offsets {
		s = s.With(o)
	}
	return s
}

var fifth = intervals(7)

// Library is ordered by quality. Ties in the search keep the earlier entry.
var Library = [...]Pattern{
	{Mask: intervals(0, 4, 7), Quality: Major, Priority: 10},
	{Mask: intervals(0, 3, 7), Quality: Minor, Priority: 10},
	{Mask: intervals(0, 3, 6), Quality: Diminished, Priority: 9},
	{Mask: intervals(0, 4, 8), Quality: Augmented, Priority: 9},
	{Mask: intervals(0, 2, 7), Quality: Sus2, Priority: 8},
	{Mask: intervals(0, 5, 7), Quality: Sus4, Priority: 8},

	{Mask: intervals(0, 4, 7, 9), Optional: fifth, Quality: Major6, Priority: 18},
	{Mask: intervals(0, 3, 7, 9), Optional: fifth, Quality: Minor6, Priority: 18},
	{Mask: intervals(0, 2, 4, 7, 9), Optional: fifth, Quality: SixNine, Priority: 28},

	{Mask: intervals(0, 4, 7, 11), Optional: fifth, Quality: Major7, Priority: 20},
	{Mask: intervals(0, 4, 7, 10), Optional: fifth, Quality: Dominant7, Priority: 20},
	{Mask: intervals(0, 3, 7, 10), Optional: fifth, Quality: Minor7, Priority: 20},
	{Mask: intervals(0, 3, 6, 10), Quality: HalfDiminished7, Priority: 20},
	{Mask: intervals(0, 3, 6, 9), Quality: Diminished7, Priority: 19},
	{Mask: intervals(0, 3, 7, 11), Optional: fifth, Quality: MinorMajor7, Priority: 19},
	{Mask: intervals(0, 5, 7, 10), Optional: fifth, Quality: Dominant7Sus4, Priority: 19},
	{Mask: intervals(0, 4, 8, 11), Quality: AugmentedMajor7, Priority: 19},

	{Mask: intervals(0, 2, 4, 7), Quality: Add9, Priority: 15},
	{Mask: intervals(0, 2, 3, 7), Quality: MinorAdd9, Priority: 15},

	{Mask: intervals(0, 2, 4, 7, 10), Optional: fifth, Quality: Dominant9, Priority: 30},
	{Mask: intervals(0, 2, 4, 7, 11), Optional: fifth, Quality: Major9, Priority: 30},
	{Mask: intervals(0, 2, 3, 7, 10), Optional: fifth, Quality: Minor9, Priority: 30},
	{Mask: intervals(0, 2, 4, 5, 7, 10), Optional: fifth, Quality: Dominant11, Priority: 32},
	{Mask: intervals(0, 2, 3, 5, 7, 10), Optional: fifth, Quality: Minor11, Priority: 32},
	{Mask: intervals(0, 2, 4, 7, 9, 10), Optional: intervals(2, 7), Quality: Dominant13, Priority: 34},
	{Mask: intervals(0, 2, 4, 7, 9, 11), Optional: intervals(2, 7), Quality: Major13, Priority: 34},
	{Mask: intervals(0, 2, 3, 7, 9, 10), Optional: intervals(2, 7), Quality: Minor13, Priority: 34},

	{Mask: intervals(0, 1, 4, 7, 10), Optional: fifth, Quality: Dominant7Flat9, Priority: 36},
	{Mask: intervals(0, 3, 4, 7, 10), Optional: fifth, Quality: Dominant7Sharp9, Priority: 36},
	{Mask: intervals(0, 4, 6, 7, 10), Quality: Dominant7Sharp11, Priority: 36},
	{Mask: intervals(0, 4, 6, 10), Quality: Dominant7Flat5, Priority: 35},
	{Mask: intervals(0, 4, 8, 10), Quality: Dominant7Sharp5, Priority: 35},
	{Mask: intervals(0, 1, 4, 8, 10), Quality: Dominant7Flat9Flat13, Priority: 37},

	{Mask: intervals(0, 7), Quality: Power, Priority: 1, Fallback: true},
	{Mask: intervals(0), Quality: Cluster, Priority: 0, Fallback: true},
}
