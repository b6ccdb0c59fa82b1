package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/jsphweid/chordcoach/chord"
	"github.com/jsphweid/chordcoach/lesson"
	"github.com/jsphweid/chordcoach/model"
	"github.com/spf13/cobra"
)

var exportPath string

func init() {
	inspectCmd.Flags().StringVar(&exportPath, "export", "", "also write the lesson as a standard midi file")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect LESSON",
	Short: "Inspects a lesson",
	Long:  `Prints the target chords of a lesson (.mid, .midi or .toml).`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := lesson.Load(args[0], cfg.Lesson.ChordSpread.Duration)
		if err != nil {
			return err
		}
		inspect(cmd.OutOrStdout(), l)
		if exportPath != "" {
			return lesson.WriteSMF(exportPath, l.Targets)
		}
		return nil
	},
}

func noteNames(notes model.Notes) string {
	names := make([]string, len(notes))
	for i, n := range notes {
		names[i] = chord.PitchName(n)
	}
	return strings.Join(names, " ")
}

func inspect(w io.Writer, l *lesson.Lesson) {
	fmt.Fprintf(w, "%s: %d chords\n", l.Title, len(l.Targets))
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tat\thold\tchord\tnotes")
	for i, t := range l.Targets {
		hold := "-"
		if t.ExpectedHold > 0 {
			hold = t.ExpectedHold.String()
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, t.ExpectedTime, hold, t.Label, noteNames(t.ExpectedNotes))
	}
	tw.Flush()
}
