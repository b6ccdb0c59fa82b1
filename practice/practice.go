// Package practice assembles a stabilizer and an evaluator on one
// scheduler, either live on a timer.Loop or replayed on a virtual clock.
package practice

import (
	"context"
	"time"

	"github.com/jsphweid/chordcoach/log"
	"github.com/jsphweid/chordcoach/model"
	"github.com/jsphweid/chordcoach/session"
	"github.com/jsphweid/chordcoach/stabilizer"
	"github.com/jsphweid/chordcoach/timer"
)

type Settings struct {
	Window  time.Duration
	Options session.Options
}

// Session is the stabilizer feeding the evaluator. It has no locking; all
// calls must come from the scheduler's goroutine.
type Session struct {
	Stabilizer *stabilizer.Stabilizer
	Evaluator  *session.Evaluator

	unsubscribe func()
}

func New(targets []model.TargetChord, sched timer.Scheduler, settings Settings) (*Session, error) {
	ev, err := session.New(targets, sched, settings.Options)
	if err != nil {
		return nil, err
	}
	st := stabilizer.New(sched, settings.Window)
	return &Session{
		Stabilizer:  st,
		Evaluator:   ev,
		unsubscribe: st.Subscribe(ev),
	}, nil
}

func (s *Session) Feed(ev model.RawEvent) {
	s.Stabilizer.HandleEvent(ev)
}

func (s *Session) Dispose() {
	s.unsubscribe()
	s.Stabilizer.Dispose()
	s.Evaluator.Dispose()
}

// Live runs a Session on its own loop. Feed and Do may be called from any
// goroutine.
type Live struct {
	session *Session
	loop    *timer.Loop
}

func NewLive(targets []model.TargetChord, settings Settings) (*Live, error) {
	loop := timer.NewLoop()
	s, err := New(targets, loop, settings)
	if err != nil {
		loop.Close()
		return nil, err
	}
	return &Live{session: s, loop: loop}, nil
}

// Subscribe must be called before Run. Listeners run on the loop.
func (l *Live) Subscribe(fn session.Listener) *session.Subscription {
	return l.session.Evaluator.Subscribe(fn)
}

func (l *Live) Feed(ev model.RawEvent) error {
	return l.loop.Post(func() {
		l.session.Feed(ev)
	})
}

// Do runs fn against the evaluator on the loop, e.g. to pause or skip.
func (l *Live) Do(fn func(*session.Evaluator) error) error {
	errc := make(chan error, 1)
	if err := l.loop.Post(func() {
		errc <- fn(l.session.Evaluator)
	}); err != nil {
		return err
	}
	select {
	case err := <-errc:
		return err
	case <-l.loop.Done():
		// fn may have been the one finishing the session
		select {
		case err := <-errc:
			return err
		default:
			return timer.ErrLoopClosed
		}
	}
}

// Run starts the session and blocks until it completes or ctx is done.
func (l *Live) Run(ctx context.Context) (session.State, error) {
	var final session.State
	l.session.Evaluator.Subscribe(func(t session.Transition) {
		if t.Phase == session.Completed {
			final = t.State
			// let the task that got us here finish first
			_ = l.loop.Post(l.loop.Close)
		}
	})
	if err := l.loop.Post(func() {
		if err := l.session.Evaluator.Start(); err != nil {
			log.CLI.Printf("start: %v", err)
			l.loop.Close()
		}
	}); err != nil {
		return final, err
	}

	err := l.loop.Run(ctx)
	l.session.Dispose()
	if final.Phase != session.Completed {
		return final, err
	}
	return final, nil
}

// Replay plays events against targets on a virtual clock starting at start,
// then lets every pending timer run out. Event timestamps before start are
// treated as arriving at start.
func Replay(targets []model.TargetChord, events []model.RawEvent, start time.Time, settings Settings, listeners ...session.Listener) (session.State, error) {
	clock := timer.NewManual(start)
	s, err := New(targets, clock, settings)
	if err != nil {
		return session.State{}, err
	}
	defer s.Dispose()
	for _, fn := range listeners {
		s.Evaluator.Subscribe(fn)
	}
	if err := s.Evaluator.Start(); err != nil {
		return session.State{}, err
	}

	for _, ev := range events {
		clock.AdvanceTo(ev.Timestamp)
		if ev.Timestamp.Before(clock.Now()) {
			ev.Timestamp = clock.Now()
		}
		s.Feed(ev)
	}
	for clock.Pending() > 0 {
		clock.Advance(time.Second)
	}
	return s.Evaluator.Snapshot(), nil
}
