// Package session scores a timed walk through a lesson plan.
//
// The Evaluator consumes stabilizer signals, classifies every stable note
// set and moves through
//
//	Idle -> WaitingForInput -> Evaluating -> SuccessFeedback|FailFeedback
//	     -> NextChord -> WaitingForInput|Completed
//
// with Paused reachable from every active phase. It runs on a single
// logical thread: all calls, including timer callbacks, must come from the
// goroutine driving its timer.Scheduler. Listeners run synchronously and
// must not call back into the Evaluator.
package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/jsphweid/chordcoach/chord"
	"github.com/jsphweid/chordcoach/log"
	"github.com/jsphweid/chordcoach/model"
	"github.com/jsphweid/chordcoach/timer"
	"github.com/jsphweid/chordcoach/util"
)

type listenerEntry struct {
	id uint64
	fn Listener
}

type Evaluator struct {
	targets []model.TargetChord
	masks   []chord.PitchClassSet
	opts    Options
	sched   timer.Scheduler

	hold     timer.Slot
	grace    timer.Slot
	feedback timer.Slot

	state       State
	startedAt   time.Time
	pausedAt    time.Time
	pausedTotal time.Duration
	// paused while a success was on screen, advance on resume
	advanceOnResume bool

	waitingSince time.Time
	current      model.StableNoteSet
	lastChord    chord.Match
	hasChord     bool
	onsetAt      time.Time
	holdStart    time.Time
	holdReached  bool
	gracePeriod  GracePeriod
	// stable set that arrived during feedback
	pending *model.StableNoteSet

	listeners []listenerEntry
	nextID    uint64
	disposed  bool
}

// New builds an Evaluator over targets. The targets are copied; an empty
// plan is rejected here rather than at Start.
func New(targets []model.TargetChord, sched timer.Scheduler, opts Options) (*Evaluator, error) {
	if len(targets) == 0 {
		return nil, ErrEmptyLessonPlan
	}
	e := &Evaluator{
		targets:  make([]model.TargetChord, len(targets)),
		masks:    make([]chord.PitchClassSet, len(targets)),
		opts:     opts.withDefaults(),
		sched:    sched,
		hold:     timer.NewSlot(sched),
		grace:    timer.NewSlot(sched),
		feedback: timer.NewSlot(sched),
	}
	for i, t := range targets {
		t.ExpectedNotes = append(model.Notes(nil), t.ExpectedNotes...)
		e.targets[i] = t
		e.masks[i] = chord.SetOf(t.ExpectedNotes)
	}
	e.state = State{Phase: Idle, TargetCount: len(targets)}
	return e, nil
}

func (e *Evaluator) Options() Options {
	return e.opts
}

// Snapshot returns a copy of the current state.
func (e *Evaluator) Snapshot() State {
	return e.state.clone()
}

func (e *Evaluator) Phase() Phase {
	return e.state.Phase
}

// Grace returns a copy of the grace period, inactive when none runs.
func (e *Evaluator) Grace() GracePeriod {
	g := e.gracePeriod
	g.LastKnownGood = append(model.Notes(nil), g.LastKnownGood...)
	return g
}

func (e *Evaluator) Subscribe(fn Listener) *Subscription {
	e.nextID++
	e.listeners = append(e.listeners, listenerEntry{id: e.nextID, fn: fn})
	return &Subscription{e: e, id: e.nextID}
}

func (e *Evaluator) unsubscribe(id uint64) {
	for i, l := range e.listeners {
		if l.id == id {
			e.listeners = append(e.listeners[:i:i], e.listeners[i+1:]...)
			return
		}
	}
}

func (e *Evaluator) Start() error {
	if e.disposed {
		return ErrDisposed
	}
	if e.state.Phase != Idle {
		return ErrNotIdle
	}
	now := e.sched.Now()
	e.state.SessionID = uuid.NewString()
	e.state.CurrentTargetIndex = 0
	e.startedAt = now
	e.pausedTotal = 0
	e.waitingSince = now
	e.move(WaitingForInput, nil)
	return nil
}

// StableNotes handles a settled note set from the stabilizer.
func (e *Evaluator) StableNotes(set model.StableNoteSet) {
	if e.disposed {
		return
	}
	switch e.state.Phase {
	case WaitingForInput:
		if set.Empty() {
			return
		}
		e.begin(set)
	case Evaluating:
		e.change(set)
	case SuccessFeedback, FailFeedback:
		s := set
		e.pending = &s
	}
}

// NotesCleared handles a full release. Letting go early is not a failure.
func (e *Evaluator) NotesCleared(at time.Time) {
	if e.disposed {
		return
	}
	e.pending = nil
	if e.state.Phase == Evaluating {
		e.resetHold()
		e.enterWaiting()
		return
	}
	e.resetHold()
}

func (e *Evaluator) begin(set model.StableNoteSet) {
	m, _ := chord.Classify(set.Notes)
	e.current = set
	e.lastChord, e.hasChord = m, true
	e.holdReached = false

	// a set held over from before we started waiting counts from the burst
	// that settled it
	e.onsetAt = set.HeldSince
	if e.onsetAt.Before(e.waitingSince) {
		e.onsetAt = set.SettlingSince
	}
	e.holdStart = e.onsetAt
	if e.holdStart.Before(e.waitingSince) {
		e.holdStart = e.waitingSince
	}

	log.EVAL.Debugf("evaluating %s (%s) against target %d", m.Name(), chord.Key(set.Notes), e.state.CurrentTargetIndex)
	if !e.move(Evaluating, nil) {
		return
	}

	remaining := e.holdStart.Add(e.opts.MinHold).Sub(e.sched.Now())
	if remaining <= 0 {
		e.holdDone()
		return
	}
	e.hold.Set(remaining, e.holdDone)
}

func (e *Evaluator) change(set model.StableNoteSet) {
	if set.Empty() {
		e.resetHold()
		e.fail(NoChordDetected)
		return
	}
	if set.Same(e.current) {
		return
	}
	previous := e.current
	previousMatched := e.hasChord && e.matches(e.lastChord)

	m, _ := chord.Classify(set.Notes)
	e.current = set
	e.lastChord, e.hasChord = m, true

	if e.matches(m) {
		if e.gracePeriod.Active {
			log.EVAL.Debugf("back on target, grace cancelled")
			e.cancelGrace()
		}
		if e.holdReached {
			e.complete()
		}
		return
	}
	if e.gracePeriod.Active {
		// keep the original deadline
		return
	}
	if !previousMatched {
		// never on target: the hold timer decides, as a wrong chord
		return
	}
	e.gracePeriod = GracePeriod{
		Active:        true,
		Deadline:      e.sched.Now().Add(e.opts.GracePeriod),
		LastKnownGood: append(model.Notes(nil), previous.Notes...),
	}
	log.EVAL.Debugf("off target with %s, grace until %s", m.Name(), e.gracePeriod.Deadline.Format("15:04:05.000"))
	e.grace.Set(e.opts.GracePeriod, e.graceExpired)
}

func (e *Evaluator) graceExpired() {
	e.gracePeriod = GracePeriod{}
	e.hold.Stop()
	e.fail(ChordChangedDuringHold)
}

func (e *Evaluator) cancelGrace() {
	e.grace.Stop()
	e.gracePeriod = GracePeriod{}
}

func (e *Evaluator) holdDone() {
	e.holdReached = true
	if e.gracePeriod.Active {
		// decided by the grace period
		return
	}
	e.complete()
}

func (e *Evaluator) complete() {
	e.hold.Stop()
	if e.hasChord && e.matches(e.lastChord) {
		e.succeed()
		return
	}
	e.fail(WrongChord)
}

// matches applies the target rule: equal pitch classes, or unless strict, a
// confident superset.
func (e *Evaluator) matches(m chord.Match) bool {
	target := e.masks[e.state.CurrentTargetIndex]
	if m.Pitches == target {
		return true
	}
	if e.opts.StrictMatch {
		return false
	}
	return m.Pitches.Contains(target) && m.Confidence >= e.opts.MinConfidence
}

func (e *Evaluator) elapsedAt(t time.Time) time.Duration {
	return t.Sub(e.startedAt) - e.pausedTotal
}

func (e *Evaluator) succeed() {
	target := e.targets[e.state.CurrentTargetIndex]
	timingError := util.Abs(e.elapsedAt(e.onsetAt) - target.ExpectedTime)
	rating := Judge(timingError)

	award := Award{
		Rating:      rating,
		TimingError: timingError,
		Base:        e.opts.BaseScore,
		TimingBonus: e.opts.timingBonus(rating),
		StreakBonus: e.state.Streak * e.opts.StreakWeight,
	}
	award.Total = award.Base + award.TimingBonus + award.StreakBonus

	e.state.Score += award.Total
	e.state.Streak++
	e.state.MaxStreak = util.Max(e.state.MaxStreak, e.state.Streak)
	e.state.CorrectCount++
	e.state.AttemptCount++
	e.record(Attempt{
		Outcome:     Succeeded,
		Rating:      rating,
		TimingError: timingError,
		Award:       award.Total,
	})
	log.EVAL.Printf("target %d: %s %s +%d", e.state.CurrentTargetIndex, e.lastChord.Name(), rating, award.Total)

	e.resetHold()
	if e.move(SuccessFeedback, func(t *Transition) { t.Success = &award }) {
		e.feedback.Set(e.opts.FeedbackInterval, e.advance)
	}
}

func (e *Evaluator) fail(reason Reason) {
	e.state.Streak = 0
	e.state.AttemptCount++
	e.record(Attempt{Outcome: Failed, Reason: reason})
	log.EVAL.Printf("target %d: %s", e.state.CurrentTargetIndex, reason.Message())

	e.resetHold()
	failure := Failure{Reason: reason, Message: reason.Message()}
	if e.move(FailFeedback, func(t *Transition) { t.Failure = &failure }) {
		e.feedback.Set(e.opts.FeedbackInterval, e.retry)
	}
}

func (e *Evaluator) record(a Attempt) {
	a.TargetIndex = e.state.CurrentTargetIndex
	a.At = e.sched.Now()
	if e.hasChord && !e.current.Empty() {
		c := e.lastChord
		a.Chord = &c
	}
	e.state.Attempts = append(e.state.Attempts, a)
}

// retry returns to the same target after a failure.
func (e *Evaluator) retry() {
	e.enterWaiting()
}

func (e *Evaluator) advance() {
	e.state.CurrentTargetIndex++
	if !e.move(NextChord, nil) {
		return
	}
	if e.state.CurrentTargetIndex >= len(e.targets) {
		e.pending = nil
		summary := e.summary()
		log.EVAL.Printf("completed: score %d, accuracy %.0f%%", summary.Score, summary.Accuracy*100)
		e.move(Completed, func(t *Transition) { t.Summary = &summary })
		return
	}
	e.enterWaiting()
}

func (e *Evaluator) enterWaiting() {
	e.waitingSince = e.sched.Now()
	if !e.move(WaitingForInput, nil) {
		return
	}
	if p := e.pending; p != nil {
		e.pending = nil
		e.begin(*p)
	}
}

func (e *Evaluator) summary() Summary {
	s := Summary{
		Score:     e.state.Score,
		Correct:   e.state.CorrectCount,
		Total:     len(e.targets),
		MaxStreak: e.state.MaxStreak,
		Attempts:  e.state.AttemptCount,
		Elapsed:   e.elapsedAt(e.sched.Now()),
	}
	s.Accuracy = float64(s.Correct) / float64(s.Total)
	return s
}

// resetHold forgets the attempt in progress and stops its timers.
func (e *Evaluator) resetHold() {
	e.hold.Stop()
	e.cancelGrace()
	e.holdReached = false
	e.current = model.StableNoteSet{}
}

func (e *Evaluator) Pause() error {
	if e.disposed {
		return ErrDisposed
	}
	if !e.state.Phase.Active() {
		return ErrNotActive
	}
	e.advanceOnResume = e.state.Phase == SuccessFeedback
	e.feedback.Stop()
	e.resetHold()
	e.pending = nil
	e.pausedAt = e.sched.Now()
	e.move(Paused, nil)
	return nil
}

func (e *Evaluator) Resume() error {
	if e.disposed {
		return ErrDisposed
	}
	if e.state.Phase != Paused {
		return ErrNotPaused
	}
	e.pausedTotal += e.sched.Now().Sub(e.pausedAt)
	if e.advanceOnResume {
		e.advanceOnResume = false
		e.advance()
		return nil
	}
	e.enterWaiting()
	return nil
}

// Skip gives up on the current target and moves on without touching the
// score. The streak is lost.
func (e *Evaluator) Skip() error {
	if e.disposed {
		return ErrDisposed
	}
	switch e.state.Phase {
	case WaitingForInput, Evaluating, FailFeedback:
	default:
		return ErrNotActive
	}
	e.feedback.Stop()
	e.state.Streak = 0
	if e.opts.SkipCountsAsAttempt {
		e.state.AttemptCount++
	}
	e.record(Attempt{Outcome: Skipped})
	e.resetHold()
	e.pending = nil
	e.advance()
	return nil
}

// Restart throws away all progress and returns to Idle.
func (e *Evaluator) Restart() {
	if e.disposed {
		return
	}
	e.feedback.Stop()
	e.resetHold()
	e.pending = nil
	e.hasChord = false
	e.lastChord = chord.Match{}
	e.advanceOnResume = false
	e.pausedTotal = 0

	previous := e.state.Phase
	e.state = State{Phase: previous, TargetCount: len(e.targets)}
	if previous != Idle {
		e.move(Idle, nil)
	}
}

// Dispose cancels every timer and drops all listeners. Nothing is
// published afterwards.
func (e *Evaluator) Dispose() {
	e.feedback.Stop()
	e.hold.Stop()
	e.grace.Stop()
	e.gracePeriod = GracePeriod{}
	e.pending = nil
	e.listeners = nil
	e.disposed = true
}

func (e *Evaluator) move(to Phase, fill func(*Transition)) bool {
	from := e.state.Phase
	if !canMove(from, to) {
		log.EVAL.Printf("refusing move %s -> %s", from, to)
		return false
	}
	e.state.Phase = to

	t := Transition{
		Phase:    to,
		Previous: from,
		At:       e.sched.Now(),
		State:    e.state.clone(),
	}
	if e.hasChord {
		c := e.lastChord
		t.Chord = &c
	}
	if i := e.state.CurrentTargetIndex; to != Idle && i < len(e.targets) {
		target := e.targets[i]
		target.ExpectedNotes = append(model.Notes(nil), target.ExpectedNotes...)
		t.Target = &target
	}
	if fill != nil {
		fill(&t)
	}
	log.EVAL.Debugf("%s -> %s", from, to)

	listeners := append([]listenerEntry(nil), e.listeners...)
	for _, l := range listeners {
		l.fn(t)
	}
	return true
}
