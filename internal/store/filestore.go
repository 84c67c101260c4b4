package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/sadopc/multitimer/internal/timer"
)

// FileStore keeps the snapshot as a single JSON file. Writes go to a
// temporary file that is renamed over the old one.
type FileStore struct {
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Load() (timer.Snapshot, bool, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return timer.Snapshot{}, false, nil
	}
	if err != nil {
		return timer.Snapshot{}, false, fmt.Errorf("read state file: %w", err)
	}
	snap, err := Decode(data)
	if err != nil {
		return timer.Snapshot{}, false, err
	}
	return snap, true, nil
}

func (f *FileStore) Save(snap timer.Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".state-*.json")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write state file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

func (f *FileStore) ListHistory(filter HistoryFilter) ([]timer.HistoryEntry, error) {
	snap, _, err := f.Load()
	if err != nil {
		return nil, err
	}
	return filterHistory(snap.History, filter), nil
}

func (f *FileStore) CategoryTotals() ([]CategoryTotal, error) {
	snap, _, err := f.Load()
	if err != nil {
		return nil, err
	}
	return categoryTotals(snap.History), nil
}

func filterHistory(history []timer.HistoryEntry, f HistoryFilter) []timer.HistoryEntry {
	out := []timer.HistoryEntry{}
	for _, h := range timer.FilterHistory(history, f.Category) {
		if f.From != nil && h.CompletedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !h.CompletedAt.Before(*f.To) {
			continue
		}
		out = append(out, h)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletedAt.After(out[j].CompletedAt)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}

func categoryTotals(history []timer.HistoryEntry) []CategoryTotal {
	index := make(map[string]int)
	var totals []CategoryTotal
	for _, h := range history {
		i, ok := index[h.Category]
		if !ok {
			i = len(totals)
			index[h.Category] = i
			totals = append(totals, CategoryTotal{Category: h.Category})
		}
		totals[i].Count++
		totals[i].TotalSeconds += int64(h.Duration)
	}
	sort.SliceStable(totals, func(i, j int) bool {
		if totals[i].TotalSeconds != totals[j].TotalSeconds {
			return totals[i].TotalSeconds > totals[j].TotalSeconds
		}
		return totals[i].Category < totals[j].Category
	})
	return totals
}

// Close is a no-op; it lets FileStore stand in wherever *Store is closed.
func (f *FileStore) Close() error { return nil }
