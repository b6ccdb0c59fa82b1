package timer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestManualFiresInDeadlineOrder(t *testing.T) {
	m := NewManual(epoch)
	var order []string
	m.Schedule(30*time.Millisecond, func() { order = append(order, "c") })
	m.Schedule(10*time.Millisecond, func() { order = append(order, "a") })
	m.Schedule(10*time.Millisecond, func() { order = append(order, "b") })

	m.Advance(20 * time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, epoch.Add(20*time.Millisecond), m.Now())

	m.Advance(20 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestManualNowIsDeadlineDuringCallback(t *testing.T) {
	m := NewManual(epoch)
	var seen time.Time
	m.Schedule(15*time.Millisecond, func() { seen = m.Now() })
	m.Advance(time.Second)
	assert.Equal(t, epoch.Add(15*time.Millisecond), seen)
}

func TestManualCancel(t *testing.T) {
	m := NewManual(epoch)
	fired := false
	h := m.Schedule(10*time.Millisecond, func() { fired = true })
	m.Cancel(h)
	m.Advance(time.Second)
	assert.False(t, fired)
	assert.Equal(t, 0, m.Pending())
}

func TestManualChainedCallbacks(t *testing.T) {
	m := NewManual(epoch)
	count := 0
	var again func()
	again = func() {
		count++
		if count < 3 {
			m.Schedule(10*time.Millisecond, again)
		}
	}
	m.Schedule(10*time.Millisecond, again)
	m.Advance(25 * time.Millisecond)
	assert.Equal(t, 2, count)
	m.Advance(10 * time.Millisecond)
	assert.Equal(t, 3, count)
}

func TestSlotKeepsOneHandle(t *testing.T) {
	m := NewManual(epoch)
	slot := NewSlot(m)
	var fired []int
	slot.Set(10*time.Millisecond, func() { fired = append(fired, 1) })
	slot.Set(10*time.Millisecond, func() { fired = append(fired, 2) })
	assert.Equal(t, 1, m.Pending())
	assert.True(t, slot.Active())

	m.Advance(10 * time.Millisecond)
	assert.Equal(t, []int{2}, fired)
	assert.False(t, slot.Active())
}

func TestLoopRunsTimerOnLoopGoroutine(t *testing.T) {
	l := NewLoop()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	got := make(chan string, 2)
	go func() { _ = l.Run(ctx) }()

	cancelled := make(chan Handle, 1)
	require.NoError(t, l.Post(func() {
		h := l.Schedule(5*time.Millisecond, func() { got <- "cancelled" })
		cancelled <- h
		l.Cancel(h)
		l.Schedule(10*time.Millisecond, func() { got <- "fired" })
	}))

	select {
	case v := <-got:
		assert.Equal(t, "fired", v)
	case <-ctx.Done():
		t.Fatal("timer never fired")
	}
	<-cancelled
	l.Close()
	assert.ErrorIs(t, l.Post(func() {}), ErrLoopClosed)
}
