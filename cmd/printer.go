package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/jsphweid/chordcoach/model"
	"github.com/jsphweid/chordcoach/session"
)

// printer writes one line per interesting transition, stamped relative to
// the first transition it sees.
type printer struct {
	w     io.Writer
	start time.Time
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w}
}

func describeTarget(t *model.TargetChord) string {
	if t == nil {
		return ""
	}
	if t.Label == "" {
		return noteNames(t.ExpectedNotes)
	}
	return fmt.Sprintf("%s (%s)", t.Label, noteNames(t.ExpectedNotes))
}

func (p *printer) Print(t session.Transition) {
	if p.start.IsZero() {
		p.start = t.At
	}
	at := t.At.Sub(p.start).Truncate(time.Millisecond)
	played := "nothing"
	if t.Chord != nil {
		played = t.Chord.Name()
	}

	switch t.Phase {
	case session.WaitingForInput:
		fmt.Fprintf(p.w, "%9s  [%d/%d] play %s\n", at, t.State.CurrentTargetIndex+1, t.State.TargetCount, describeTarget(t.Target))
	case session.SuccessFeedback:
		a := t.Success
		fmt.Fprintf(p.w, "%9s  ok    %s, %s (off by %s) +%d  score %d  streak %d\n",
			at, played, a.Rating, a.TimingError.Truncate(time.Millisecond), a.Total, t.State.Score, t.State.Streak)
	case session.FailFeedback:
		fmt.Fprintf(p.w, "%9s  miss  %s, played %s\n", at, t.Failure.Message, played)
	case session.Paused:
		fmt.Fprintf(p.w, "%9s  paused\n", at)
	case session.Idle:
		fmt.Fprintf(p.w, "%9s  restarted\n", at)
	case session.Completed:
		s := t.Summary
		fmt.Fprintf(p.w, "%9s  done  score %d, %d/%d correct (%.0f%%), best streak %d\n",
			at, s.Score, s.Correct, s.Total, s.Accuracy*100, s.MaxStreak)
	}
}
