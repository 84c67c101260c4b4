package store

import (
	"fmt"
	"time"

	"github.com/sadopc/multitimer/internal/timer"
)

// ListHistory returns completed runs, newest first.
func (s *Store) ListHistory(f HistoryFilter) ([]timer.HistoryEntry, error) {
	query := `SELECT id, timer_id, name, category, duration, completed_at FROM completions WHERE 1=1`
	var args []any

	if f.Category != "" && f.Category != timer.CategoryAll {
		query += ` AND category = ?`
		args = append(args, f.Category)
	}
	if f.From != nil {
		query += ` AND completed_at >= ?`
		args = append(args, f.From.UTC().Format(time.RFC3339))
	}
	if f.To != nil {
		query += ` AND completed_at < ?`
		args = append(args, f.To.UTC().Format(time.RFC3339))
	}
	query += ` ORDER BY completed_at DESC, rowid DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	entries := []timer.HistoryEntry{}
	for rows.Next() {
		var h timer.HistoryEntry
		var completedAt string
		if err := rows.Scan(&h.ID, &h.TimerID, &h.Name, &h.Category, &h.Duration, &completedAt); err != nil {
			return nil, fmt.Errorf("list history: %w", err)
		}
		at, err := time.Parse(time.RFC3339, completedAt)
		if err != nil {
			return nil, fmt.Errorf("list history: completion %s: bad completed_at %q: %w", h.ID, completedAt, err)
		}
		h.CompletedAt = at
		entries = append(entries, h)
	}
	return entries, rows.Err()
}

// CategoryTotals aggregates completions per category, busiest first.
func (s *Store) CategoryTotals() ([]CategoryTotal, error) {
	rows, err := s.db.Query(`
		SELECT category, COUNT(*), COALESCE(SUM(duration), 0)
		FROM completions
		GROUP BY category
		ORDER BY SUM(duration) DESC, category`)
	if err != nil {
		return nil, fmt.Errorf("category totals: %w", err)
	}
	defer rows.Close()

	var totals []CategoryTotal
	for rows.Next() {
		var ct CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Count, &ct.TotalSeconds); err != nil {
			return nil, err
		}
		totals = append(totals, ct)
	}
	return totals, rows.Err()
}
