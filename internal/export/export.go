// Package export writes completed-timer history to CSV, JSON or YAML.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sadopc/multitimer/internal/timer"
)

const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var ErrUnknownFormat = errors.New("unknown export format")

type writerFunc func(io.Writer, []timer.HistoryEntry) error

var writers = map[string]writerFunc{
	FormatCSV:  writeCSV,
	FormatJSON: writeJSON,
	FormatYAML: writeYAML,
}

// Formats lists the supported format names.
func Formats() []string {
	return []string{FormatCSV, FormatJSON, FormatYAML}
}

// Write encodes entries in the named format. "yml" is accepted for YAML.
func Write(w io.Writer, format string, entries []timer.HistoryEntry) error {
	fn, err := lookup(format)
	if err != nil {
		return err
	}
	return fn(w, entries)
}

// ToFile writes entries to path in the named format.
func ToFile(format string, entries []timer.HistoryEntry, path string) error {
	fn, err := lookup(format)
	if err != nil {
		return err
	}
	return toFile(path, entries, fn)
}

func lookup(format string) (writerFunc, error) {
	f := strings.ToLower(strings.TrimSpace(format))
	if f == "yml" {
		f = FormatYAML
	}
	fn, ok := writers[f]
	if !ok {
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownFormat, format, strings.Join(Formats(), ", "))
	}
	return fn, nil
}

func toFile(path string, entries []timer.HistoryEntry, fn writerFunc) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := fn(f, entries); err != nil {
		f.Close()
		return fmt.Errorf("write export file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}
	return nil
}
