package websocket

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotTimer_TicksThenExpires(t *testing.T) {
	clock := clockwork.NewFakeClock()
	timer := newSlotTimer(clock)
	defer timer.Stop()

	expired := make(chan int, 1)
	tick := make(chan struct{}, 1)

	// Arm registers the countdown with the clock before returning.
	timer.Arm(0, 3*time.Second, expired, tick)

	clock.Advance(time.Second)
	select {
	case <-tick:
	case <-time.After(time.Second):
		t.Fatal("expected a tick after 1s")
	}
	select {
	case slot := <-expired:
		t.Fatalf("timer expired early for slot %d", slot)
	default:
	}

	clock.Advance(2 * time.Second)
	select {
	case slot := <-expired:
		assert.Equal(t, 0, slot)
	case <-time.After(time.Second):
		t.Fatal("expected expiry after the full duration")
	}
}

func TestSlotTimer_StopPreventsExpiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	timer := newSlotTimer(clock)

	expired := make(chan int, 1)
	tick := make(chan struct{}, 1)

	timer.Arm(0, 2*time.Second, expired, tick)
	timer.Stop()
	clock.Advance(5 * time.Second)

	select {
	case slot := <-expired:
		t.Fatalf("stopped timer fired for slot %d", slot)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSlotTimer_RearmReplacesCountdown(t *testing.T) {
	clock := clockwork.NewFakeClock()
	timer := newSlotTimer(clock)
	defer timer.Stop()

	expired := make(chan int, 2)
	tick := make(chan struct{}, 1)

	timer.Arm(0, 2*time.Second, expired, tick)

	// Re-arming for the next slot cancels the slot 0 countdown; the
	// replacement is registered with the clock before Arm returns.
	timer.Arm(1, 4*time.Second, expired, tick)

	clock.Advance(4 * time.Second)

	select {
	case slot := <-expired:
		require.Equal(t, 1, slot, "only the replacement countdown may fire")
	case <-time.After(time.Second):
		t.Fatal("expected expiry from the re-armed countdown")
	}

	select {
	case slot := <-expired:
		t.Fatalf("got a second expiry for slot %d", slot)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSlotTimer_DroppedTicksDoNotBlock(t *testing.T) {
	clock := clockwork.NewFakeClock()
	timer := newSlotTimer(clock)
	defer timer.Stop()

	expired := make(chan int, 1)
	// Nobody drains ticks; the timer must still reach expiry.
	tick := make(chan struct{})

	timer.Arm(3, 3*time.Second, expired, tick)

	for i := 0; i < 3; i++ {
		clock.Advance(time.Second)
	}

	select {
	case slot := <-expired:
		assert.Equal(t, 3, slot)
	case <-time.After(time.Second):
		t.Fatal("expected expiry despite undrained ticks")
	}
}
