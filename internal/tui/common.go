package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/multitimer/internal/scheduler"
	"github.com/sadopc/multitimer/internal/timer"
)

// viewState represents the currently active view.
type viewState int

const (
	viewTimers viewState = iota
	viewHistory
	viewSummary
)

var viewNames = []string{"Timers", "History", "Summary"}

// Preference keys persisted through Prefs.
const (
	prefView          = "tui.view"
	prefHistoryFilter = "tui.history_filter"
	prefTimerFilter   = "tui.timer_filter"
)

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

// eventMsg carries a scheduler notification into the update loop.
type eventMsg struct {
	event scheduler.Event
}

// eventsClosedMsg is sent once the engine stops delivering notifications.
type eventsClosedMsg struct{}

type exportDoneMsg struct {
	path  string
	count int
}

// --- Helpers ---

// formatClock renders seconds as MM:SS, or H:MM:SS past an hour.
func formatClock(secs int) string {
	if secs < 0 {
		secs = 0
	}
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

func formatHours(secs int) string {
	return fmt.Sprintf("%.1fh", float64(secs)/3600)
}

// progressBar draws a fixed-width bar for a 0..1 fraction of time left.
func progressBar(fraction float64, width int) string {
	if width < 1 {
		return ""
	}
	fraction = max(0, min(1, fraction))
	filled := int(fraction*float64(width) + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func statusIcon(t timer.Timer) string {
	switch t.Status {
	case timer.StatusRunning:
		return "●"
	case timer.StatusCompleted:
		return "✓"
	}
	return "⏸"
}

// cycle returns the element after current in options, wrapping around.
// An unknown current selects the first option.
func cycle(options []string, current string, step int) string {
	if len(options) == 0 {
		return current
	}
	for i, o := range options {
		if o == current {
			return options[((i+step)%len(options)+len(options))%len(options)]
		}
	}
	return options[0]
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
