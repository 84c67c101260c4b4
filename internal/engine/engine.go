// Package engine assembles the timer store, the tick scheduler and the
// persistence saver into the object the CLI and terminal UI drive.
package engine

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sadopc/multitimer/internal/logging"
	"github.com/sadopc/multitimer/internal/scheduler"
	"github.com/sadopc/multitimer/internal/state"
	"github.com/sadopc/multitimer/internal/store"
	"github.com/sadopc/multitimer/internal/timer"
)

var (
	ErrTimerNotFound  = errors.New("timer not found")
	ErrAmbiguousTimer = errors.New("timer reference is ambiguous")
)

type Options struct {
	// Period is the tick interval; zero means one second.
	Period time.Duration
	// Trigger overrides the ticker, mainly for tests.
	Trigger scheduler.Trigger
	Now     func() time.Time
	// Categories seeds a fresh snapshot. Empty means the defaults.
	Categories []string
	Logger     *logging.Logger
}

// Engine owns the running state for one process.
type Engine struct {
	store  *state.Store
	sched  *scheduler.Scheduler
	saver  *store.Saver
	logger *logging.Logger

	closeOnce sync.Once
}

// New loads the initial snapshot from gw and starts the scheduler. Load
// failures are logged and replaced by a default snapshot.
func New(gw store.Gateway, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	logger = logger.WithComponent("engine")

	initial := loadInitial(gw, opts.Categories, logger)

	st := state.NewStore(initial)
	e := &Engine{
		store:  st,
		saver:  store.NewSaver(gw, logger),
		logger: logger,
	}
	st.Observe(e.observe)
	e.sched = scheduler.New(st, scheduler.Options{
		Period:  opts.Period,
		Trigger: opts.Trigger,
		Now:     opts.Now,
		Logger:  logger,
	})
	logger.Info("engine started",
		"timers", len(initial.Timers),
		"running", len(initial.RunningIDs()),
		"history", len(initial.History))
	return e
}

func loadInitial(gw store.Gateway, categories []string, logger *logging.Logger) timer.Snapshot {
	fallback := timer.DefaultSnapshot()
	if len(categories) > 0 {
		fallback.Categories = append([]string(nil), categories...)
	}

	snap, ok, err := gw.Load()
	switch {
	case err != nil:
		logger.Error("load snapshot failed, starting from defaults", "error", err)
		return fallback
	case !ok:
		logger.Info("no stored snapshot, starting from defaults")
		return fallback
	}
	return snap
}

func (e *Engine) observe(cmd state.Command, next timer.Snapshot) {
	if _, ok := cmd.(state.Tick); !ok {
		e.logger.Debug("command applied", "command", cmd.Name())
	}
	e.saver.Enqueue(next)
}

// Dispatch applies cmd and its follow-ups and returns the resulting state.
func (e *Engine) Dispatch(cmd state.Command) timer.Snapshot {
	return e.store.Dispatch(cmd)
}

func (e *Engine) State() timer.Snapshot {
	return e.store.State()
}

// Subscribe delivers completion and halfway events until Close.
func (e *Engine) Subscribe(buffer int) <-chan scheduler.Event {
	return e.sched.Subscribe(buffer)
}

// Armed reports how many timers currently have a live trigger.
func (e *Engine) Armed() int {
	return e.sched.Armed()
}

// AddTimer validates the input, rejects categories the snapshot does not
// know, and adds a paused timer.
func (e *Engine) AddTimer(name string, durationSecs int, category string, halfwayAlert bool) (timer.Timer, error) {
	t, err := timer.New(name, durationSecs, category, halfwayAlert)
	if err != nil {
		return timer.Timer{}, err
	}
	if t.Category != timer.CategoryOther && !timer.IsKnownCategory(t.Category, e.State().Categories) {
		return timer.Timer{}, fmt.Errorf("%w: %q", timer.ErrUnknownCategory, t.Category)
	}
	e.Dispatch(state.AddTimer{Timer: t})
	return t, nil
}

// Resolve finds a timer by id, unique id prefix or case-insensitive name.
func (e *Engine) Resolve(ref string) (timer.Timer, error) {
	return Resolve(e.State(), ref)
}

// Resolve looks ref up in snap. See Engine.Resolve.
func Resolve(snap timer.Snapshot, ref string) (timer.Timer, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return timer.Timer{}, ErrTimerNotFound
	}
	if t, ok := snap.Find(ref); ok {
		return t, nil
	}

	var matches []timer.Timer
	for _, t := range snap.Timers {
		if strings.HasPrefix(t.ID, ref) || strings.EqualFold(t.Name, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return timer.Timer{}, fmt.Errorf("%w: %q", ErrTimerNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return timer.Timer{}, fmt.Errorf("%w: %q matches %d timers", ErrAmbiguousTimer, ref, len(matches))
	}
}

// Close stops ticking and writes the final snapshot. It does not close the
// gateway.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		e.sched.Stop()
		e.saver.Enqueue(e.store.State())
		e.saver.Close()
		e.logger.Info("engine stopped")
	})
}
