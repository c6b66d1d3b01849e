package timer

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

type tickEvent struct {
	gen       uint64
	remaining int
}

// harness collects countdown callbacks on channels so tests can wait for
// them deterministically with a fake clock.
type harness struct {
	clock  *clockwork.FakeClock
	cd     *Countdown
	ticks  chan tickEvent
	expiry chan uint64
}

func newHarness() *harness {
	h := &harness{
		clock:  clockwork.NewFakeClock(),
		ticks:  make(chan tickEvent, 100),
		expiry: make(chan uint64, 10),
	}
	h.cd = NewCountdown(h.clock, time.Second,
		func(gen uint64, remaining int) { h.ticks <- tickEvent{gen, remaining} },
		func(gen uint64) { h.expiry <- gen },
	)
	return h
}

func (h *harness) waitTick(t *testing.T) tickEvent {
	t.Helper()
	select {
	case ev := <-h.ticks:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for tick")
		return tickEvent{}
	}
}

func (h *harness) waitExpiry(t *testing.T) uint64 {
	t.Helper()
	select {
	case gen := <-h.expiry:
		return gen
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for expiry")
		return 0
	}
}

func TestCountdownTicksDownAndExpiresOnce(t *testing.T) {
	h := newHarness()
	gen := h.cd.Start(3)
	h.clock.BlockUntil(1)

	for want := 2; want >= 0; want-- {
		h.clock.Advance(time.Second)
		ev := h.waitTick(t)
		if ev.gen != gen {
			t.Errorf("tick generation %d, want %d", ev.gen, gen)
		}
		if ev.remaining != want {
			t.Errorf("tick remaining %d, want %d", ev.remaining, want)
		}
	}

	if got := h.waitExpiry(t); got != gen {
		t.Errorf("expiry generation %d, want %d", got, gen)
	}

	// No further events after expiry.
	h.clock.Advance(5 * time.Second)
	select {
	case ev := <-h.ticks:
		t.Errorf("unexpected tick after expiry: %+v", ev)
	case gen := <-h.expiry:
		t.Errorf("unexpected second expiry: gen %d", gen)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCancelStopsWithoutExpiry(t *testing.T) {
	h := newHarness()
	h.cd.Start(5)
	h.clock.BlockUntil(1)

	h.clock.Advance(time.Second)
	if ev := h.waitTick(t); ev.remaining != 4 {
		t.Fatalf("expected remaining 4, got %d", ev.remaining)
	}

	h.cd.Cancel()
	h.clock.Advance(10 * time.Second)
	select {
	case ev := <-h.ticks:
		t.Errorf("unexpected tick after cancel: %+v", ev)
	case gen := <-h.expiry:
		t.Errorf("expiry must not fire after cancel: gen %d", gen)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStartReplacesRunningCountdown(t *testing.T) {
	h := newHarness()
	gen1 := h.cd.Start(60)
	h.clock.BlockUntil(1)

	gen2 := h.cd.Start(60)
	if gen2 <= gen1 {
		t.Fatalf("replacement generation %d must exceed %d", gen2, gen1)
	}

	// Only the replacement may report ticks from now on. Advancing retries
	// until the replacement ticker is registered with the fake clock.
	deadline := time.Now().Add(2 * time.Second)
	got := 0
	for got < 3 {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for replacement ticks")
		}
		h.clock.Advance(time.Second)
		select {
		case ev := <-h.ticks:
			if ev.gen == gen1 {
				t.Fatalf("stale tick from replaced countdown: %+v", ev)
			}
			got++
		case <-time.After(100 * time.Millisecond):
		}
	}
}

func TestCancelWhenIdleIsNoOp(t *testing.T) {
	h := newHarness()
	h.cd.Cancel()
	h.cd.Cancel()

	gen := h.cd.Start(1)
	h.clock.BlockUntil(1)
	h.clock.Advance(time.Second)
	if ev := h.waitTick(t); ev.remaining != 0 || ev.gen != gen {
		t.Fatalf("unexpected tick %+v", ev)
	}
	h.waitExpiry(t)
}
