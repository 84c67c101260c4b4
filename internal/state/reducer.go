package state

import (
	"slices"

	"github.com/sadopc/multitimer/internal/timer"
)

// Reduce applies cmd to s and returns the next state. It has no side
// effects and never mutates s. Commands addressing unknown timers, and
// commands it does not recognise, return s unchanged.
func Reduce(s timer.Snapshot, cmd Command) timer.Snapshot {
	switch c := cmd.(type) {
	case AddTimer:
		if _, exists := s.Find(c.Timer.ID); exists || c.Timer.ID == "" {
			return s
		}
		next := s.Clone()
		next.Timers = append(next.Timers, c.Timer.Normalize())
		return next

	case UpdateTimer:
		return mapTimers(s, func(t timer.Timer) (timer.Timer, bool) {
			if t.ID != c.Timer.ID {
				return t, false
			}
			updated := c.Timer
			updated.Duration = t.Duration
			// latches only move forward
			updated.ReachedHalfway = updated.ReachedHalfway || t.ReachedHalfway
			updated.HalfwayAlertShown = updated.HalfwayAlertShown || t.HalfwayAlertShown
			if t.IsCompleted() {
				// only a reset brings a completed timer back
				updated.Status = timer.StatusCompleted
				updated.RemainingTime = 0
			}
			return updated.Normalize(), true
		})

	case DeleteTimer:
		idx := slices.IndexFunc(s.Timers, func(t timer.Timer) bool { return t.ID == c.ID })
		if idx < 0 {
			return s
		}
		next := s.Clone()
		next.Timers = slices.Delete(next.Timers, idx, idx+1)
		return next

	case StartTimer:
		return mapTimers(s, func(t timer.Timer) (timer.Timer, bool) {
			if t.ID != c.ID {
				return t, false
			}
			return start(t)
		})

	case PauseTimer:
		return mapTimers(s, func(t timer.Timer) (timer.Timer, bool) {
			if t.ID != c.ID {
				return t, false
			}
			return pause(t)
		})

	case ResetTimer:
		return mapTimers(s, func(t timer.Timer) (timer.Timer, bool) {
			if t.ID != c.ID {
				return t, false
			}
			return reset(t), true
		})

	case CompleteTimer:
		return mapTimers(s, func(t timer.Timer) (timer.Timer, bool) {
			if t.ID != c.ID {
				return t, false
			}
			t.Status = timer.StatusCompleted
			t.RemainingTime = 0
			t.Progress = 0
			return t, true
		})

	case StartCategory:
		return mapTimers(s, func(t timer.Timer) (timer.Timer, bool) {
			if t.Category != c.Category {
				return t, false
			}
			return start(t)
		})

	case PauseCategory:
		return mapTimers(s, func(t timer.Timer) (timer.Timer, bool) {
			if t.Category != c.Category {
				return t, false
			}
			return pause(t)
		})

	case ResetCategory:
		return mapTimers(s, func(t timer.Timer) (timer.Timer, bool) {
			if t.Category != c.Category {
				return t, false
			}
			return reset(t), true
		})

	case Tick:
		return mapTimers(s, func(t timer.Timer) (timer.Timer, bool) {
			if t.ID != c.ID || t.Status != timer.StatusRunning {
				return t, false
			}
			return tick(t), true
		})

	case AppendHistory:
		next := s.Clone()
		next.History = append([]timer.HistoryEntry{c.Entry}, next.History...)
		return next

	case LoadSnapshot:
		next := c.Snapshot.Clone()
		if len(next.Categories) == 0 {
			next.Categories = timer.DefaultCategories()
		}
		if next.Timers == nil {
			next.Timers = []timer.Timer{}
		}
		if next.History == nil {
			next.History = []timer.HistoryEntry{}
		}
		return next
	}
	return s
}

func start(t timer.Timer) (timer.Timer, bool) {
	if t.Status == timer.StatusCompleted || t.Status == timer.StatusRunning {
		return t, false
	}
	t.Status = timer.StatusRunning
	return t, true
}

func pause(t timer.Timer) (timer.Timer, bool) {
	if t.Status != timer.StatusRunning {
		return t, false
	}
	t.Status = timer.StatusPaused
	return t, true
}

// reset rewinds t. The halfway latches survive a reset, so the halfway
// alert does not fire a second time for the same timer.
func reset(t timer.Timer) timer.Timer {
	t.RemainingTime = t.Duration
	t.Progress = 1
	t.Status = timer.StatusPaused
	return t
}

func tick(t timer.Timer) timer.Timer {
	t.RemainingTime = max(0, t.RemainingTime-1)
	t.Progress = t.ComputeProgress()
	if t.RemainingTime == t.HalfwayPoint() {
		t.ReachedHalfway = true
	}
	if t.RemainingTime == 0 {
		t.Status = timer.StatusCompleted
	}
	return t
}

// mapTimers applies fn to every timer. The input snapshot is returned as is
// when fn reports no change for any timer.
func mapTimers(s timer.Snapshot, fn func(timer.Timer) (timer.Timer, bool)) timer.Snapshot {
	var next []timer.Timer
	for i, t := range s.Timers {
		updated, changed := fn(t)
		if !changed {
			continue
		}
		if next == nil {
			next = slices.Clone(s.Timers)
		}
		next[i] = updated
	}
	if next == nil {
		return s
	}
	out := s
	out.Timers = next
	return out
}
