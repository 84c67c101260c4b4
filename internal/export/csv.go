package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/sadopc/multitimer/internal/timer"
)

// ToCSV writes history entries to a CSV file at path.
func ToCSV(entries []timer.HistoryEntry, path string) error {
	return toFile(path, entries, writeCSV)
}

func writeCSV(out io.Writer, entries []timer.HistoryEntry) error {
	w := csv.NewWriter(out)

	if err := w.Write([]string{"ID", "Timer ID", "Name", "Category", "Duration (s)", "Duration", "Completed"}); err != nil {
		return err
	}

	for _, e := range entries {
		row := []string{
			e.ID,
			e.TimerID,
			e.Name,
			e.Category,
			strconv.Itoa(e.Duration),
			FormatDuration(e.Duration),
			e.CompletedAt.Local().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// FormatDuration renders seconds as HH:MM:SS.
func FormatDuration(secs int) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
