package cmd

import (
	"fmt"
	"io"

	"github.com/jsphweid/chordcoach/chord"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(classifyCmd)
}

var classifyCmd = &cobra.Command{
	Use:   "classify NOTE...",
	Short: "Names the chord formed by some notes",
	Long: `Names the chord formed by some notes. Notes are MIDI numbers or
names such as C4, F#3 or Bb2.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		notes := make([]int, 0, len(args))
		for _, arg := range args {
			n, err := chord.ParsePitch(arg)
			if err != nil {
				return err
			}
			notes = append(notes, n)
		}
		m, _ := chord.Classify(notes)
		printMatch(cmd.OutOrStdout(), m)
		return nil
	},
}

var inversionNames = []string{"root position", "first inversion", "second inversion", "third inversion"}

func describeBass(m chord.Match) string {
	if bass, ok := m.SlashBass(); ok {
		return fmt.Sprintf("%s (slash)", chord.PitchName(bass))
	}
	if m.Inversion < len(inversionNames) {
		return fmt.Sprintf("%s (%s)", chord.PitchName(m.Bass), inversionNames[m.Inversion])
	}
	return fmt.Sprintf("%s (inversion %d)", chord.PitchName(m.Bass), m.Inversion)
}

func printMatch(w io.Writer, m chord.Match) {
	fmt.Fprintf(w, "chord:      %s\n", m.Name())
	fmt.Fprintf(w, "root:       %s\n", chord.PitchClassName(m.Root))
	fmt.Fprintf(w, "quality:    %s\n", m.Quality)
	fmt.Fprintf(w, "bass:       %s\n", describeBass(m))
	fmt.Fprintf(w, "voicing:    %s\n", m.Voicing)
	fmt.Fprintf(w, "confidence: %.2f\n", m.Confidence)
	if m.HasExtra() {
		fmt.Fprintf(w, "extra:      %s\n", m.Extra)
	}
	if !m.Omitted.Empty() {
		fmt.Fprintf(w, "omitted:    %s\n", m.Omitted)
	}
}
