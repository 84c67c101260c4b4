package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/sadopc/multitimer/internal/timer"
)

type document struct {
	ExportedAt string  `json:"exported_at" yaml:"exported_at"`
	Count      int     `json:"count" yaml:"count"`
	Entries    []entry `json:"entries" yaml:"entries"`
}

type entry struct {
	ID          string `json:"id" yaml:"id"`
	TimerID     string `json:"timer_id" yaml:"timer_id"`
	Name        string `json:"name" yaml:"name"`
	Category    string `json:"category" yaml:"category"`
	DurationSec int    `json:"duration_seconds" yaml:"duration_seconds"`
	Duration    string `json:"duration" yaml:"duration"`
	CompletedAt string `json:"completed_at" yaml:"completed_at"`
}

func newDocument(entries []timer.HistoryEntry) document {
	doc := document{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(entries),
		Entries:    make([]entry, 0, len(entries)),
	}
	for _, e := range entries {
		doc.Entries = append(doc.Entries, entry{
			ID:          e.ID,
			TimerID:     e.TimerID,
			Name:        e.Name,
			Category:    e.Category,
			DurationSec: e.Duration,
			Duration:    FormatDuration(e.Duration),
			CompletedAt: e.CompletedAt.UTC().Format(time.RFC3339),
		})
	}
	return doc
}

// ToJSON writes history entries to an indented JSON file at path.
func ToJSON(entries []timer.HistoryEntry, path string) error {
	return toFile(path, entries, writeJSON)
}

func writeJSON(w io.Writer, entries []timer.HistoryEntry) error {
	data, err := json.MarshalIndent(newDocument(entries), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
