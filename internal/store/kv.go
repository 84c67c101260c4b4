package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// Key under which the engine snapshot is stored.
const SnapshotKey = "timerState"

func (s *Store) GetValue(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("get value %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get value %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetValue(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value,
		 updated_at = strftime('%Y-%m-%dT%H:%M:%SZ','now')`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set value %q: %w", key, err)
	}
	return nil
}

// ListValues returns every key except the snapshot itself.
func (s *Store) ListValues() ([]KV, error) {
	rows, err := s.db.Query(`SELECT key, value FROM kv WHERE key != ? ORDER BY key`, SnapshotKey)
	if err != nil {
		return nil, fmt.Errorf("list values: %w", err)
	}
	defer rows.Close()

	var values []KV
	for rows.Next() {
		var kv KV
		if err := rows.Scan(&kv.Key, &kv.Value); err != nil {
			return nil, err
		}
		values = append(values, kv)
	}
	return values, rows.Err()
}
