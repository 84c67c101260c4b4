package store

import (
	"errors"
	"time"

	"github.com/sadopc/multitimer/internal/timer"
)

// ErrNotFound is returned by GetValue for a missing key.
var ErrNotFound = errors.New("not found")

// Gateway loads and saves the engine snapshot. ok is false when nothing has
// been stored yet.
type Gateway interface {
	Load() (snap timer.Snapshot, ok bool, err error)
	Save(snap timer.Snapshot) error
}

// HistoryReader answers history queries without going through the engine.
type HistoryReader interface {
	ListHistory(f HistoryFilter) ([]timer.HistoryEntry, error)
	CategoryTotals() ([]CategoryTotal, error)
}

// KV is one row of the key-value table.
type KV struct {
	Key   string
	Value string
}

// HistoryFilter narrows history queries. An empty Category or "All" matches
// every entry.
type HistoryFilter struct {
	Category string
	From     *time.Time
	To       *time.Time
	Limit    int
}

// CategoryTotal aggregates completed runs for one category.
type CategoryTotal struct {
	Category     string
	Count        int
	TotalSeconds int64
}
