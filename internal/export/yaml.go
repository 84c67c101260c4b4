package export

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/sadopc/multitimer/internal/timer"
)

// ToYAML writes history entries to a YAML file at path.
func ToYAML(entries []timer.HistoryEntry, path string) error {
	return toFile(path, entries, writeYAML)
}

func writeYAML(w io.Writer, entries []timer.HistoryEntry) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newDocument(entries)); err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	return enc.Close()
}
