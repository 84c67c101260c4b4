package timer

import (
	"time"

	"github.com/google/uuid"
)

// HistoryEntry records one completed run. Entries are never mutated.
type HistoryEntry struct {
	ID          string    `json:"id"`
	TimerID     string    `json:"timerId"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Duration    int       `json:"duration"`
	CompletedAt time.Time `json:"completedAt"`
}

// NewHistoryEntry captures the completion facts of t at the given time.
func NewHistoryEntry(t Timer, at time.Time) HistoryEntry {
	return HistoryEntry{
		ID:          uuid.NewString(),
		TimerID:     t.ID,
		Name:        t.Name,
		Category:    t.Category,
		Duration:    t.Duration,
		CompletedAt: at.UTC(),
	}
}

// FilterHistory returns the entries whose category matches. "All" or an
// empty category returns every entry.
func FilterHistory(history []HistoryEntry, category string) []HistoryEntry {
	if category == "" || category == CategoryAll {
		return history
	}
	var out []HistoryEntry
	for _, h := range history {
		if h.Category == category {
			out = append(out, h)
		}
	}
	return out
}

// HistoryCategories lists the distinct categories present in history, in
// first-seen order.
func HistoryCategories(history []HistoryEntry) []string {
	seen := make(map[string]bool)
	var out []string
	for _, h := range history {
		if seen[h.Category] {
			continue
		}
		seen[h.Category] = true
		out = append(out, h.Category)
	}
	return out
}

// SecondsByCategory sums completed seconds per category.
func SecondsByCategory(history []HistoryEntry) map[string]int {
	totals := make(map[string]int)
	for _, h := range history {
		totals[h.Category] += h.Duration
	}
	return totals
}
