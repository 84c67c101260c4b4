package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sadopc/multitimer/internal/timer"
)

// Encode serializes a snapshot to its stored JSON form.
func Encode(snap timer.Snapshot) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a stored snapshot. JSON that does not parse is an error.
// Anything that parses is sanitized: timers are normalized, timers that are
// still invalid or repeat an id are dropped, history entries without an id
// are dropped, and missing categories fall back to the defaults.
func Decode(data []byte) (timer.Snapshot, error) {
	var raw timer.Snapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		return timer.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}

	snap := timer.Snapshot{
		Timers:     make([]timer.Timer, 0, len(raw.Timers)),
		History:    make([]timer.HistoryEntry, 0, len(raw.History)),
		Categories: make([]string, 0, len(raw.Categories)),
	}

	seen := make(map[string]bool)
	for _, t := range raw.Timers {
		t = t.Normalize()
		if t.Validate() != nil || seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		snap.Timers = append(snap.Timers, t)
	}

	for _, h := range raw.History {
		if h.ID == "" {
			continue
		}
		snap.History = append(snap.History, h)
	}

	known := make(map[string]bool)
	for _, c := range raw.Categories {
		c = strings.TrimSpace(c)
		if c == "" || known[c] {
			continue
		}
		known[c] = true
		snap.Categories = append(snap.Categories, c)
	}
	if len(snap.Categories) == 0 {
		snap.Categories = timer.DefaultCategories()
	}
	return snap, nil
}
