// Package tui is the interactive terminal front end for the timer engine.
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/multitimer/internal/export"
	"github.com/sadopc/multitimer/internal/logging"
	"github.com/sadopc/multitimer/internal/scheduler"
	"github.com/sadopc/multitimer/internal/state"
	"github.com/sadopc/multitimer/internal/timer"
)

// Engine is the part of the timer engine the UI drives.
type Engine interface {
	Dispatch(cmd state.Command) timer.Snapshot
	State() timer.Snapshot
	Subscribe(buffer int) <-chan scheduler.Event
	AddTimer(name string, durationSecs int, category string, halfwayAlert bool) (timer.Timer, error)
}

// Prefs stores small UI preferences between sessions.
type Prefs interface {
	GetValue(key string) (string, error)
	SetValue(key, value string) error
}

// Options configures the App.
type Options struct {
	// HistoryLimit caps the rows on the history view. Zero shows everything.
	HistoryLimit  int
	ConfirmDelete bool
	Logger        *logging.Logger
	// Prefs is optional; without it filters and the last view are not kept.
	Prefs Prefs
	// ExportDir defaults to the user's home directory.
	ExportDir string
}

const (
	refreshInterval = 250 * time.Millisecond
	eventBuffer     = 16
)

// App is the root Bubble Tea model.
type App struct {
	eng    Engine
	events <-chan scheduler.Event
	prefs  Prefs
	logger *logging.Logger
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int
	exportDir     string

	timers  timersModel
	history historyModel
	summary summaryModel

	help      help.Model
	status    string
	statusErr bool
}

func NewApp(eng Engine, opts Options) App {
	h := help.New()
	h.ShowAll = false

	logger := opts.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	exportDir := opts.ExportDir
	if exportDir == "" {
		exportDir, _ = os.UserHomeDir()
	}

	a := App{
		eng:        eng,
		events:     eng.Subscribe(eventBuffer),
		prefs:      opts.Prefs,
		logger:     logger.WithComponent("tui"),
		activeView: viewTimers,
		exportDir:  exportDir,
		timers:     newTimersModel(eng, opts.Prefs, opts.ConfirmDelete),
		history:    newHistoryModel(opts.Prefs, opts.HistoryLimit),
		summary:    newSummaryModel(),
		help:       h,
	}
	a.loadPrefs()
	a.refresh()
	return a
}

// loadPrefs restores the last view and filters. Missing or stale values
// are ignored.
func (a *App) loadPrefs() {
	if a.prefs == nil {
		return
	}
	if v, err := a.prefs.GetValue(prefView); err == nil {
		if i := slices.Index(viewNames, v); i >= 0 {
			a.activeView = viewState(i)
		}
	}
	if v, err := a.prefs.GetValue(prefTimerFilter); err == nil && v != "" {
		a.timers.filter = v
	}
	if v, err := a.prefs.GetValue(prefHistoryFilter); err == nil && v != "" {
		a.history.filter = v
	}
}

// refresh pulls the latest snapshot into every view.
func (a *App) refresh() {
	snap := a.eng.State()
	a.timers.setSnapshot(snap)
	a.history.setSnapshot(snap)
	a.summary.setSnapshot(snap)
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		waitForEvent(a.events),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForEvent blocks on the next scheduler notification.
func waitForEvent(events <-chan scheduler.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg{event: ev}
	}
}

func setStatus(text string, isError bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isError: isError}
	}
}

func savePref(prefs Prefs, key, value string) tea.Cmd {
	if prefs == nil {
		return nil
	}
	return func() tea.Msg {
		if err := prefs.SetValue(key, value); err != nil {
			return statusMsg{text: fmt.Sprintf("save preference: %v", err), isError: true}
		}
		return nil
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.timers.setSize(a.width, contentHeight)
		a.history.setSize(a.width, contentHeight)
		a.summary.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.setView(viewTimers)
		case key.Matches(msg, keys.Tab2):
			return a.setView(viewHistory)
		case key.Matches(msg, keys.Tab3):
			return a.setView(viewSummary)
		case key.Matches(msg, keys.Tab):
			return a.setView((a.activeView + 1) % viewState(len(viewNames)))
		}

	case tickMsg:
		a.refresh()
		return a, tickCmd()

	case eventMsg:
		a.refresh()
		a.status = msg.event.Message()
		a.statusErr = false
		a.logger.WithTimer(msg.event.Timer.ID).Debug("notification shown",
			"event", string(msg.event.Type),
		)
		return a, waitForEvent(a.events)

	case eventsClosedMsg:
		return a, nil

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		if msg.isError {
			a.logger.Warn("ui error", "message", msg.text)
		}
		return a, nil

	case exportDoneMsg:
		a.status = fmt.Sprintf("Exported %d entries to %s", msg.count, msg.path)
		a.statusErr = false
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) setView(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	a.refresh()
	return a, savePref(a.prefs, prefView, viewNames[v])
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewTimers:
		a.timers, cmd = a.timers.update(msg)
		// other views see timer changes right away
		a.history.setSnapshot(a.timers.snap)
		a.summary.setSnapshot(a.timers.snap)
	case viewHistory:
		a.history, cmd = a.history.update(msg)
	case viewSummary:
		a.summary, cmd = a.summary.update(msg)
	}
	return a, cmd
}

// isFormActive reports whether the active view is capturing raw key input.
func (a App) isFormActive() bool {
	if a.activeView == viewTimers {
		return a.timers.formActive || a.timers.confirming
	}
	return false
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewTimers:
		content = a.timers.view()
	case viewHistory:
		content = a.history.view()
	case viewSummary:
		content = a.summary.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(a.height-headerHeight-footerHeight, 1)

	// Show export picker overlay
	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("multitimer")
	gap := max(a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusErr {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	// Running indicator in footer
	running := ""
	if n := len(a.timers.snap.RunningIDs()); n > 0 {
		running = successStyle.Render(fmt.Sprintf(" ● %d running", n))
	}

	left := footerStyle.Render(helpView)
	right := running + status

	gap := max(a.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export History")
	scope := mutedStyle.Render("  category: " + a.history.filter)
	var rows []string
	rows = append(rows, title+scope)
	rows = append(rows, "")
	for i, f := range export.Formats() {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+strings.ToUpper(f)))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(export.Formats())-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(export.Formats()[a.exportCursor])
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// doExport writes the history under the current history filter. The limit
// only applies to the on-screen list.
func (a App) doExport(format string) tea.Cmd {
	entries := timer.FilterHistory(a.eng.State().History, a.history.filter)
	dir := a.exportDir
	return func() tea.Msg {
		path := filepath.Join(dir, fmt.Sprintf("multitimer-history-%s.%s", time.Now().Format("2006-01-02"), format))
		if err := export.ToFile(format, entries, path); err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		return exportDoneMsg{path: path, count: len(entries)}
	}
}
