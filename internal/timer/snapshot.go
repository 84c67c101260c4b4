package timer

import "slices"

// Snapshot is the complete engine state at one point in time.
type Snapshot struct {
	Timers     []Timer        `json:"timers"`
	History    []HistoryEntry `json:"history"`
	Categories []string       `json:"categories"`
}

// DefaultSnapshot is the state used when nothing has been persisted.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Timers:     []Timer{},
		History:    []HistoryEntry{},
		Categories: DefaultCategories(),
	}
}

// Clone returns a deep copy; the slices of the copy share nothing with s.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Timers:     slices.Clone(s.Timers),
		History:    slices.Clone(s.History),
		Categories: slices.Clone(s.Categories),
	}
}

// Find returns the timer with the given id.
func (s Snapshot) Find(id string) (Timer, bool) {
	for _, t := range s.Timers {
		if t.ID == id {
			return t, true
		}
	}
	return Timer{}, false
}

// RunningIDs lists the ids of running timers in list order.
func (s Snapshot) RunningIDs() []string {
	var ids []string
	for _, t := range s.Timers {
		if t.Status == StatusRunning {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// InCategory returns the timers whose classified category equals category.
func (s Snapshot) InCategory(category string) []Timer {
	var out []Timer
	for _, t := range s.Timers {
		if Classify(t.Category, s.Categories) == category {
			out = append(out, t)
		}
	}
	return out
}
