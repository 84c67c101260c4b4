package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/multitimer/internal/timer"
)

type historyModel struct {
	prefs  Prefs
	width  int
	height int

	snap   timer.Snapshot
	filter string
	limit  int
	offset int
}

func newHistoryModel(prefs Prefs, limit int) historyModel {
	return historyModel{
		prefs:  prefs,
		filter: timer.CategoryAll,
		limit:  limit,
	}
}

func (h *historyModel) setSize(w, ht int) {
	h.width = w
	h.height = ht
}

func (h *historyModel) setSnapshot(snap timer.Snapshot) {
	h.snap = snap
	if !slices.Contains(h.filters(), h.filter) {
		h.filter = timer.CategoryAll
	}
	h.offset = min(h.offset, max(len(h.entries())-1, 0))
}

// filters lists All, the configured categories, and any category that only
// appears in history.
func (h historyModel) filters() []string {
	out := append([]string{timer.CategoryAll}, h.snap.Categories...)
	for _, c := range timer.HistoryCategories(h.snap.History) {
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}

// entries returns the filtered history, newest first, capped at the limit.
func (h historyModel) entries() []timer.HistoryEntry {
	filtered := timer.FilterHistory(h.snap.History, h.filter)
	if h.limit > 0 && len(filtered) > h.limit {
		filtered = filtered[:h.limit]
	}
	return filtered
}

func (h historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return h, nil
	}
	switch {
	case key.Matches(keyMsg, keys.Filter), key.Matches(keyMsg, keys.Right):
		h.filter = cycle(h.filters(), h.filter, 1)
		h.offset = 0
		return h, savePref(h.prefs, prefHistoryFilter, h.filter)
	case key.Matches(keyMsg, keys.Left):
		h.filter = cycle(h.filters(), h.filter, -1)
		h.offset = 0
		return h, savePref(h.prefs, prefHistoryFilter, h.filter)
	case key.Matches(keyMsg, keys.Up):
		if h.offset > 0 {
			h.offset--
		}
	case key.Matches(keyMsg, keys.Down):
		if h.offset < len(h.entries())-1 {
			h.offset++
		}
	}
	return h, nil
}

func (h historyModel) view() string {
	var b strings.Builder

	var items []string
	for _, f := range h.filters() {
		if f == h.filter {
			items = append(items, selectedItemStyle.Render("["+f+"]"))
		} else {
			items = append(items, mutedStyle.Render(f))
		}
	}
	b.WriteString("  " + strings.Join(items, "  "))
	b.WriteString("\n\n")

	entries := h.entries()
	if len(entries) == 0 {
		b.WriteString(mutedStyle.Render("  No completed timers yet."))
		return b.String()
	}

	total := 0
	for _, e := range entries {
		total += e.Duration
	}
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %d completed, %s total", len(entries), formatClock(total))))
	b.WriteString("\n\n")

	nameWidth := max(h.width/3, 16)
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %-*s %-12s %10s  %s", nameWidth, "Timer", "Category", "Duration", "Completed")))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("  " + strings.Repeat("─", min(max(h.width-6, 10), nameWidth+48))))
	b.WriteString("\n")

	visible := max(h.height-7, 1)
	end := min(h.offset+visible, len(entries))
	var rows []string
	for _, e := range entries[h.offset:end] {
		dot := lipgloss.NewStyle().Foreground(categoryColor(h.snap.Categories, e.Category)).Render("●")
		rows = append(rows, fmt.Sprintf("  %-*s %s %-10s %10s  %s",
			nameWidth, truncate(e.Name, nameWidth), dot, truncate(e.Category, 10),
			formatClock(e.Duration), e.CompletedAt.Local().Format("Jan 02 15:04"),
		))
	}
	b.WriteString(strings.Join(rows, "\n"))
	if end < len(entries) {
		b.WriteString("\n" + mutedStyle.Render(fmt.Sprintf("  … %d more", len(entries)-end)))
	}
	return b.String()
}
