package websocket

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// slotTimer drives the countdown for one slot at a time: a one-shot for
// expiry and a 1s ticker for TIMER_TICK. It never touches room state; it only
// signals the room's loop over the channels passed to Arm, and the loop
// decides what the signals mean. Built on clockwork so tests can step time.
type slotTimer struct {
	clock clockwork.Clock

	mu   sync.Mutex
	stop chan struct{}
}

func newSlotTimer(clock clockwork.Clock) *slotTimer {
	return &slotTimer{clock: clock}
}

// Arm replaces any running countdown with one for the given slot. The slot
// index travels with the expiry signal so the room can drop firings that
// belong to a slot it has already moved past. The timer and ticker are
// created before Arm returns, so the new countdown is registered with the
// clock even if the goroutine has not been scheduled yet.
func (t *slotTimer) Arm(slot int, remaining time.Duration, expired chan<- int, tick chan<- struct{}) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stop != nil {
		close(t.stop)
	}
	t.stop = make(chan struct{})

	timer := t.clock.NewTimer(remaining)
	ticker := t.clock.NewTicker(time.Second)
	go t.run(slot, timer, ticker, expired, tick, t.stop)
}

// Stop cancels the running countdown, if any.
func (t *slotTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

func (t *slotTimer) run(slot int, timer clockwork.Timer, ticker clockwork.Ticker, expired chan<- int, tick chan<- struct{}, stop chan struct{}) {
	defer timer.Stop()
	defer ticker.Stop()

	for {
		select {
		case <-timer.Chan():
			// A countdown replaced or stopped before this fired is stale.
			select {
			case <-stop:
				return
			default:
			}
			select {
			case expired <- slot:
			case <-stop:
			}
			return
		case <-ticker.Chan():
			// Ticks are cosmetic; drop them rather than block.
			select {
			case tick <- struct{}{}:
			default:
			}
		case <-stop:
			return
		}
	}
}
