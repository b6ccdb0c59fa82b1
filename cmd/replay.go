package cmd

import (
	"time"

	"github.com/jsphweid/chordcoach/lesson"
	"github.com/jsphweid/chordcoach/midi"
	"github.com/jsphweid/chordcoach/practice"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(replayCmd)
}

var replayCmd = &cobra.Command{
	Use:   "replay LESSON PERFORMANCE.mid",
	Short: "Scores a recorded performance against a lesson",
	Long: `Plays the notes of a recorded MIDI file into a practice session on a
virtual clock and prints how it went. The recording's time zero is the
start of the session.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := lesson.Load(args[0], cfg.Lesson.ChordSpread.Duration)
		if err != nil {
			return err
		}
		s, err := midi.ReadMidiFile(args[1])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		start := time.Unix(0, 0).UTC()
		state, err := practice.Replay(l.Targets, midi.Performance(s, start), start, settings(), newPrinter(out).Print)
		if err != nil {
			return err
		}
		printReport(out, state)
		return nil
	},
}
