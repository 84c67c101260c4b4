// Package scheduler keeps exactly one periodic trigger per running timer and
// turns trigger firings into Tick commands. It also watches ticks for
// completions and halfway crossings, feeding the follow-up commands back into
// the store and notifying subscribers.
package scheduler

import (
	"sync"
	"time"

	"github.com/sadopc/multitimer/internal/logging"
	"github.com/sadopc/multitimer/internal/state"
	"github.com/sadopc/multitimer/internal/timer"
)

// DefaultPeriod is the tick interval used when Options.Period is zero.
const DefaultPeriod = time.Second

type Options struct {
	Period  time.Duration
	Trigger Trigger
	Now     func() time.Time
	Logger  *logging.Logger
}

type entry struct {
	handle Handle
}

// Scheduler is attached to a store by New. Its bookkeeping is only touched
// while the store's dispatch lock is held.
type Scheduler struct {
	store   *state.Store
	period  time.Duration
	trigger Trigger
	now     func() time.Time
	logger  *logging.Logger

	entries map[string]*entry
	stopped bool

	subMu  sync.Mutex
	subs   []chan Event
	closed bool
}

// New attaches a scheduler to store and arms triggers for every timer that
// is already running.
func New(store *state.Store, opts Options) *Scheduler {
	if opts.Period <= 0 {
		opts.Period = DefaultPeriod
	}
	if opts.Trigger == nil {
		opts.Trigger = TickerTrigger{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logging.NopLogger()
	}

	s := &Scheduler{
		store:   store,
		period:  opts.Period,
		trigger: opts.Trigger,
		now:     opts.Now,
		logger:  opts.Logger.WithComponent("scheduler"),
		entries: make(map[string]*entry),
	}
	store.React(s.react)
	store.Exclusive(func() { s.sync(store.State()) })
	return s
}

// Armed reports how many triggers are currently armed.
func (s *Scheduler) Armed() int {
	var n int
	s.store.Exclusive(func() { n = len(s.entries) })
	return n
}

// IsArmed reports whether a trigger is armed for id.
func (s *Scheduler) IsArmed(id string) bool {
	var ok bool
	s.store.Exclusive(func() { _, ok = s.entries[id] })
	return ok
}

// Subscribe returns a channel receiving every event raised from now on.
// Sends never block: a subscriber that falls behind by more than buffer
// events misses the overflow. The channel is closed by Stop.
func (s *Scheduler) Subscribe(buffer int) <-chan Event {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	s.subMu.Lock()
	defer s.subMu.Unlock()
	if s.closed {
		close(ch)
		return ch
	}
	s.subs = append(s.subs, ch)
	return ch
}

// Stop disarms every trigger and closes all subscriber channels. No tick is
// dispatched once Stop has returned.
func (s *Scheduler) Stop() {
	s.store.Exclusive(func() {
		if s.stopped {
			return
		}
		s.stopped = true
		for id, e := range s.entries {
			e.handle.Disarm()
			delete(s.entries, id)
		}
	})

	s.subMu.Lock()
	defer s.subMu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for _, ch := range s.subs {
		close(ch)
	}
	s.subs = nil
	s.logger.Debug("scheduler stopped")
}

func (s *Scheduler) react(cmd state.Command, prev, next timer.Snapshot) []state.Command {
	if s.stopped {
		return nil
	}
	var follow []state.Command
	if tick, ok := cmd.(state.Tick); ok {
		follow = s.afterTick(tick.ID, prev, next)
	}
	s.sync(next)
	return follow
}

func (s *Scheduler) afterTick(id string, prev, next timer.Snapshot) []state.Command {
	before, ok := prev.Find(id)
	if !ok || !before.IsRunning() {
		return nil
	}
	after, ok := next.Find(id)
	if !ok {
		return nil
	}

	var follow []state.Command
	at := s.now()

	if after.ReachedHalfway && !after.HalfwayAlertShown && after.EnableHalfwayAlert {
		latched := after
		latched.HalfwayAlertShown = true
		follow = append(follow, state.UpdateTimer{Timer: latched})
		s.emit(Event{Type: EventHalfway, Timer: latched, At: at})
		s.logger.WithTimer(id).Info("halfway reached", "name", after.Name)
	}

	if before.RemainingTime > 0 && after.RemainingTime == 0 {
		s.disarm(id)
		follow = append(follow, state.AppendHistory{Entry: timer.NewHistoryEntry(after, at)})
		s.emit(Event{Type: EventCompleted, Timer: after, At: at})
		s.logger.WithTimer(id).Info("timer completed", "name", after.Name, "category", after.Category)
	}
	return follow
}

// sync arms a trigger for every running timer that lacks one and disarms
// triggers whose timer is no longer running.
func (s *Scheduler) sync(snap timer.Snapshot) {
	running := make(map[string]bool)
	for _, id := range snap.RunningIDs() {
		running[id] = true
	}
	for id := range s.entries {
		if !running[id] {
			s.disarm(id)
		}
	}
	for id := range running {
		if _, ok := s.entries[id]; !ok {
			s.arm(id)
		}
	}
}

func (s *Scheduler) arm(id string) {
	e := &entry{}
	e.handle = s.trigger.Arm(s.period, func() { s.fire(id, e) })
	s.entries[id] = e
	s.logger.WithTimer(id).Debug("trigger armed", "period", s.period.String())
}

func (s *Scheduler) disarm(id string) {
	e, ok := s.entries[id]
	if !ok {
		return
	}
	e.handle.Disarm()
	delete(s.entries, id)
	s.logger.WithTimer(id).Debug("trigger disarmed")
}

// fire runs on the trigger's goroutine. The guard drops firings from a
// trigger that was disarmed, or replaced, while the fire was pending.
func (s *Scheduler) fire(id string, e *entry) {
	_, applied := s.store.DispatchIf(func() bool {
		return !s.stopped && s.entries[id] == e
	}, state.Tick{ID: id})
	if !applied {
		s.logger.WithTimer(id).Debug("stale tick dropped")
	}
}

func (s *Scheduler) emit(ev Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if s.closed {
		return
	}
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
			s.logger.WithTimer(ev.Timer.ID).Warn("subscriber full, event dropped", "type", string(ev.Type))
		}
	}
}
