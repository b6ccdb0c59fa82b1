package session

type Phase uint8

const (
	Idle Phase = iota
	WaitingForInput
	Evaluating
	SuccessFeedback
	FailFeedback
	NextChord
	Completed
	Paused
)

var phaseNames = [...]string{
	Idle:            "idle",
	WaitingForInput: "waiting-for-input",
	Evaluating:      "evaluating",
	SuccessFeedback: "success-feedback",
	FailFeedback:    "fail-feedback",
	NextChord:       "next-chord",
	Completed:       "completed",
	Paused:          "paused",
}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// Active phases can be paused.
func (p Phase) Active() bool {
	switch p {
	case WaitingForInput, Evaluating, SuccessFeedback, FailFeedback:
		return true
	}
	return false
}

// every move the evaluator may make, restart to Idle is always allowed
var moves = map[Phase][]Phase{
	Idle:            {WaitingForInput},
	WaitingForInput: {Evaluating, NextChord, Paused},
	Evaluating:      {WaitingForInput, SuccessFeedback, FailFeedback, NextChord, Paused},
	SuccessFeedback: {NextChord, Paused},
	FailFeedback:    {WaitingForInput, NextChord, Paused},
	NextChord:       {WaitingForInput, Completed},
	Completed:       {},
	Paused:          {WaitingForInput, NextChord},
}

func canMove(from, to Phase) bool {
	if to == Idle {
		return from != Idle
	}
	for _, p := range moves[from] {
		if p == to {
			return true
		}
	}
	return false
}
