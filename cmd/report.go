package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/jsphweid/chordcoach/session"
	"github.com/jsphweid/chordcoach/util"
)

type sessionReport struct {
	correct  int
	failed   int
	skipped  int
	accuracy float64
	avgError time.Duration
	ratings  map[session.Rating]int
}

func analyze(state session.State) sessionReport {
	r := sessionReport{ratings: make(map[session.Rating]int)}
	var timingErrors []time.Duration
	for _, a := range state.Attempts {
		switch a.Outcome {
		case session.Succeeded:
			r.correct++
			r.ratings[a.Rating]++
			timingErrors = append(timingErrors, a.TimingError)
		case session.Failed:
			r.failed++
		case session.Skipped:
			r.skipped++
		}
	}
	if r.correct > 0 {
		r.avgError = time.Duration(util.Sum(timingErrors)) / time.Duration(r.correct)
	}
	if state.TargetCount > 0 {
		r.accuracy = float64(state.CorrectCount) / float64(state.TargetCount)
	}
	return r
}

func printReport(w io.Writer, state session.State) {
	r := analyze(state)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "target\toutcome\tchord\trating\toff by\tpoints")
	for _, a := range state.Attempts {
		played := "-"
		if a.Chord != nil {
			played = a.Chord.Name()
		}
		detail := a.Rating.String()
		if a.Outcome == session.Failed {
			detail = a.Reason.Message()
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\n",
			a.TargetIndex+1, a.Outcome, played, detail, a.TimingError.Truncate(time.Millisecond), a.Award)
	}
	tw.Flush()

	fmt.Fprintf(w, "\nscore:     %d\n", state.Score)
	fmt.Fprintf(w, "accuracy:  %.1f%% (%d/%d)\n", r.accuracy*100, state.CorrectCount, state.TargetCount)
	fmt.Fprintf(w, "attempts:  %d (%d failed, %d skipped)\n", state.AttemptCount, r.failed, r.skipped)
	fmt.Fprintf(w, "streak:    %d best\n", state.MaxStreak)
	fmt.Fprintf(w, "timing:    %s average error\n", r.avgError.Truncate(time.Millisecond))
	for _, rating := range util.SortedKeys(r.ratings) {
		fmt.Fprintf(w, "  %-8s %d\n", rating, r.ratings[rating])
	}
}
