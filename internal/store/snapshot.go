package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sadopc/multitimer/internal/timer"
)

// Load reads the stored snapshot. A missing snapshot is not an error.
func (s *Store) Load() (timer.Snapshot, bool, error) {
	raw, err := s.GetValue(SnapshotKey)
	if errors.Is(err, ErrNotFound) {
		return timer.Snapshot{}, false, nil
	}
	if err != nil {
		return timer.Snapshot{}, false, fmt.Errorf("load snapshot: %w", err)
	}
	snap, err := Decode([]byte(raw))
	if err != nil {
		return timer.Snapshot{}, false, fmt.Errorf("load snapshot: %w", err)
	}
	return snap, true, nil
}

// Save writes the snapshot and mirrors new history entries into the
// completions table in one transaction.
func (s *Store) Save(snap timer.Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("save snapshot: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value,
		 updated_at = strftime('%Y-%m-%dT%H:%M:%SZ','now')`,
		SnapshotKey, string(data),
	); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	fresh, err := unmirrored(tx, snap.History)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	// oldest first so rowid order follows completion order
	for i := len(fresh) - 1; i >= 0; i-- {
		h := fresh[i]
		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO completions (id, timer_id, name, category, duration, completed_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			h.ID, h.TimerID, h.Name, h.Category, h.Duration, h.CompletedAt.UTC().Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("save completion %s: %w", h.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save snapshot: commit: %w", err)
	}
	return nil
}

// unmirrored returns the leading entries of a newest-first history that are
// not yet in the completions table. It stops at the first stored id, so a
// save costs one lookup per new entry plus one.
func unmirrored(tx *sql.Tx, history []timer.HistoryEntry) ([]timer.HistoryEntry, error) {
	for i, h := range history {
		var one int
		err := tx.QueryRow(`SELECT 1 FROM completions WHERE id = ?`, h.ID).Scan(&one)
		if err == nil {
			return history[:i], nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("check completion %s: %w", h.ID, err)
		}
	}
	return history, nil
}
