package timer

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrLoopClosed = errors.New("loop closed")

// Loop serialises work onto the goroutine running Run. Timer callbacks and
// anything handed to Post execute there one at a time, so code driven by a
// Loop needs no locking of its own.
type Loop struct {
	tasks chan func()

	mu     sync.Mutex
	next   Handle
	live   map[Handle]*time.Timer
	closed bool
	done   chan struct{}
}

func NewLoop() *Loop {
	return &Loop{
		tasks: make(chan func(), 256),
		live:  make(map[Handle]*time.Timer),
		done:  make(chan struct{}),
	}
}

func (l *Loop) Now() time.Time {
	return time.Now()
}

// Post queues fn for the loop goroutine. Safe from any goroutine.
func (l *Loop) Post(fn func()) error {
	l.mu.Lock()
	closed := l.closed
	l.mu.Unlock()
	if closed {
		return ErrLoopClosed
	}
	select {
	case l.tasks <- fn:
		return nil
	case <-l.done:
		return ErrLoopClosed
	}
}

func (l *Loop) Schedule(after time.Duration, fn func()) Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.next++
	h := l.next
	if l.closed {
		return h
	}
	l.live[h] = time.AfterFunc(after, func() {
		_ = l.Post(func() {
			// a cancel may have raced the timer; only live handles run
			if l.take(h) {
				fn()
			}
		})
	})
	return h
}

func (l *Loop) take(h Handle) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.live[h]; !ok {
		return false
	}
	delete(l.live, h)
	return true
}

func (l *Loop) Cancel(h Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if t, ok := l.live[h]; ok {
		t.Stop()
		delete(l.live, h)
	}
}

// Run executes posted work until ctx is done or Close is called.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			l.Close()
			return ctx.Err()
		case <-l.done:
			return nil
		case fn := <-l.tasks:
			fn()
		}
	}
}

// Done is closed once the loop has been closed.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Close stops every pending timer. Work already queued is discarded.
func (l *Loop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	for h, t := range l.live {
		t.Stop()
		delete(l.live, h)
	}
	close(l.done)
}
