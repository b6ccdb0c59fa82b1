package stabilizer

import (
	"testing"
	"time"

	"github.com/jsphweid/chordcoach/model"
	"github.com/jsphweid/chordcoach/timer"
	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type recorder struct {
	stable  []model.StableNoteSet
	cleared []time.Time
}

func (r *recorder) StableNotes(set model.StableNoteSet) { r.stable = append(r.stable, set) }
func (r *recorder) NotesCleared(at time.Time)          { r.cleared = append(r.cleared, at) }

type harness struct {
	clock *timer.Manual
	s     *Stabilizer
	rec   *recorder
}

func newHarness(window time.Duration) *harness {
	clock := timer.NewManual(epoch)
	s := New(clock, window)
	rec := &recorder{}
	s.Subscribe(rec)
	return &harness{clock: clock, s: s, rec: rec}
}

// at advances the clock to epoch+ms and feeds the event.
func (h *harness) at(ms int, note int, press bool) {
	ts := epoch.Add(time.Duration(ms) * time.Millisecond)
	h.clock.AdvanceTo(ts)
	vel := 0
	if press {
		vel = 90
	}
	h.s.HandleEvent(model.RawEvent{Note: note, IsPress: press, Velocity: vel, Timestamp: ts})
}

func TestChordPressedWithinWindowStabilizesOnce(t *testing.T) {
	h := newHarness(40 * time.Millisecond)
	h.at(0, 60, true)
	h.at(4, 64, true)
	h.at(9, 67, true)
	h.clock.Advance(time.Second)

	assert := assert.New(t)
	assert.Len(h.rec.stable, 1)
	set := h.rec.stable[0]
	assert.Equal(model.Notes{60, 64, 67}, set.Notes)
	assert.Equal(epoch.Add(49*time.Millisecond), set.StabilizedAt)
	assert.Equal(epoch, set.HeldSince)
	assert.Equal(epoch, set.SettlingSince)
}

func TestQuietWindowProperty(t *testing.T) {
	for _, gap := range []int{1, 10, 25, 39} {
		h := newHarness(40 * time.Millisecond)
		notes := []int{48, 52, 55, 60, 64, 67}
		last := 0
		for i, n := range notes {
			last = i * gap
			h.at(last, n, true)
		}
		h.clock.Advance(5 * time.Second)

		if assert.Len(t, h.rec.stable, 1, "gap %d", gap) {
			set := h.rec.stable[0]
			assert.Equal(t, model.Notes{48, 52, 55, 60, 64, 67}, set.Notes)
			assert.False(t, set.StabilizedAt.Before(epoch.Add(time.Duration(last+40)*time.Millisecond)))
		}
	}
}

func TestNoStableEventBeforeWindow(t *testing.T) {
	h := newHarness(40 * time.Millisecond)
	h.at(0, 60, true)
	h.clock.Advance(39 * time.Millisecond)
	assert.Empty(t, h.rec.stable)
	h.clock.Advance(time.Millisecond)
	assert.Len(t, h.rec.stable, 1)
}

func TestFullReleaseClearsImmediately(t *testing.T) {
	h := newHarness(40 * time.Millisecond)
	h.at(0, 60, true)
	h.at(5, 64, true)
	h.at(10, 60, false)
	h.at(12, 64, true) // already held, not a transition
	h.at(15, 64, false)
	h.clock.Advance(time.Second)

	assert := assert.New(t)
	assert.Empty(h.rec.stable)
	assert.Equal([]time.Time{epoch.Add(15 * time.Millisecond)}, h.rec.cleared)
	assert.Equal(0, h.clock.Pending())
}

func TestVelocityZeroPressIsRelease(t *testing.T) {
	h := newHarness(40 * time.Millisecond)
	h.at(0, 60, true)
	h.clock.Advance(100 * time.Millisecond)
	h.clock.AdvanceTo(epoch.Add(200 * time.Millisecond))
	h.s.HandleEvent(model.RawEvent{Note: 60, IsPress: true, Velocity: 0, Timestamp: h.clock.Now()})

	assert.Len(t, h.rec.cleared, 1)
	assert.Empty(t, h.s.Held())
}

func TestInvalidNotesAreDroppedWithoutTouchingTheWindow(t *testing.T) {
	h := newHarness(40 * time.Millisecond)
	h.at(0, 60, true)
	h.at(30, 128, true)
	h.at(35, -1, false)
	h.clock.AdvanceTo(epoch.Add(40 * time.Millisecond))

	assert.Len(t, h.rec.stable, 1)
	assert.Equal(t, model.Notes{60}, h.rec.stable[0].Notes)
}

func TestPartialReleaseStabilizesRemainder(t *testing.T) {
	h := newHarness(40 * time.Millisecond)
	h.at(0, 60, true)
	h.at(2, 64, true)
	h.at(4, 67, true)
	h.at(100, 64, false)
	h.at(180, 64, true)
	h.clock.Advance(time.Second)

	assert := assert.New(t)
	if assert.Len(h.rec.stable, 3) {
		assert.Equal(model.Notes{60, 67}, h.rec.stable[1].Notes)
		assert.Equal(epoch.Add(140*time.Millisecond), h.rec.stable[1].StabilizedAt)
		assert.Equal(epoch.Add(100*time.Millisecond), h.rec.stable[1].SettlingSince)
		assert.Equal(model.Notes{60, 64, 67}, h.rec.stable[2].Notes)
		// still the same gesture
		assert.Equal(epoch, h.rec.stable[2].HeldSince)
	}
	assert.Empty(h.rec.cleared)
}

func TestUnsubscribeAndDispose(t *testing.T) {
	h := newHarness(40 * time.Millisecond)
	other := &recorder{}
	unsubscribe := h.s.Subscribe(other)
	unsubscribe()

	h.at(0, 60, true)
	h.s.Dispose()
	h.clock.Advance(time.Second)
	h.at(2000, 60, false)

	assert.Empty(t, h.rec.stable)
	assert.Empty(t, h.rec.cleared)
	assert.Empty(t, other.stable)
}

func TestDefaultWindow(t *testing.T) {
	s := New(timer.NewManual(epoch), 0)
	assert.Equal(t, 40*time.Millisecond, s.Window())
}
