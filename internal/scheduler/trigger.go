package scheduler

import (
	"sync"
	"time"
)

// Handle cancels an armed trigger. Disarm is idempotent and may be called
// after the trigger has already fired.
type Handle interface {
	Disarm()
}

// Trigger arms a callback that fires once per period until disarmed.
type Trigger interface {
	Arm(period time.Duration, fire func()) Handle
}

// TickerTrigger runs each armed callback on its own goroutine driven by a
// time.Ticker.
type TickerTrigger struct{}

func (TickerTrigger) Arm(period time.Duration, fire func()) Handle {
	h := &tickerHandle{stop: make(chan struct{})}
	ticker := time.NewTicker(period)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-h.stop:
				return
			case <-ticker.C:
				// A stop that arrives together with a tick wins.
				select {
				case <-h.stop:
					return
				default:
				}
				fire()
			}
		}
	}()
	return h
}

type tickerHandle struct {
	once sync.Once
	stop chan struct{}
}

func (h *tickerHandle) Disarm() {
	h.once.Do(func() { close(h.stop) })
}

// NopTrigger never fires. One-shot commands use it so that opening the
// engine does not advance running timers.
type NopTrigger struct{}

func (NopTrigger) Arm(time.Duration, func()) Handle { return nopHandle{} }

type nopHandle struct{}

func (nopHandle) Disarm() {}
