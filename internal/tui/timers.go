package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/multitimer/internal/state"
	"github.com/sadopc/multitimer/internal/timer"
)

type timersModel struct {
	eng    Engine
	prefs  Prefs
	width  int
	height int

	snap   timer.Snapshot
	groups []timer.Group
	rows   []timer.Timer // timers in display order
	cursor int
	filter string

	confirmDelete bool
	confirming    bool
	pendingID     string

	formActive bool
	form       *huh.Form
	formType   string // "new" or "edit"
	editingID  string

	// Form field pointers (survive value copies)
	formName     *string
	formDuration *string
	formCategory *string
	formHalfway  *bool
}

func newTimersModel(eng Engine, prefs Prefs, confirmDelete bool) timersModel {
	name, dur, cat, halfway := "", "", "", true
	return timersModel{
		eng:           eng,
		prefs:         prefs,
		filter:        timer.CategoryAll,
		confirmDelete: confirmDelete,
		formName:      &name,
		formDuration:  &dur,
		formCategory:  &cat,
		formHalfway:   &halfway,
	}
}

func (m *timersModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

// setSnapshot rebuilds the grouped rows, keeping the cursor on the same
// timer when it still exists.
func (m *timersModel) setSnapshot(snap timer.Snapshot) {
	var selected string
	if t, ok := m.selected(); ok {
		selected = t.ID
	}

	m.snap = snap
	if m.filter != timer.CategoryAll && !timer.IsKnownCategory(m.filter, snap.Categories) {
		m.filter = timer.CategoryAll
	}

	visible := snap.Timers
	if m.filter != timer.CategoryAll {
		visible = snap.InCategory(m.filter)
	}
	m.groups = timer.GroupByCategory(visible, snap.Categories)
	m.rows = nil
	for _, g := range m.groups {
		m.rows = append(m.rows, g.Timers...)
	}

	m.cursor = min(m.cursor, max(len(m.rows)-1, 0))
	for i, t := range m.rows {
		if t.ID == selected {
			m.cursor = i
			break
		}
	}
}

func (m timersModel) selected() (timer.Timer, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return timer.Timer{}, false
	}
	return m.rows[m.cursor], true
}

// filters lists the category filter options in cycle order.
func (m timersModel) filters() []string {
	return append([]string{timer.CategoryAll}, m.snap.Categories...)
}

// targetCategory is the category bulk actions apply to: the selected
// timer's own category, which may be a custom one shown under Other.
func (m timersModel) targetCategory() (string, bool) {
	t, ok := m.selected()
	if !ok {
		return "", false
	}
	return t.Category, true
}

func (m timersModel) dispatch(cmd state.Command) timersModel {
	m.setSnapshot(m.eng.Dispatch(cmd))
	return m
}

func (m timersModel) update(msg tea.Msg) (timersModel, tea.Cmd) {
	if m.formActive {
		return m.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.confirming {
		switch {
		case key.Matches(keyMsg, keys.Confirm):
			m.confirming = false
			return m.deleteTimer(m.pendingID)
		case key.Matches(keyMsg, keys.Deny):
			m.confirming = false
			m.pendingID = ""
		}
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(keyMsg, keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
		return m, nil
	case key.Matches(keyMsg, keys.Filter), key.Matches(keyMsg, keys.Right):
		m.filter = cycle(m.filters(), m.filter, 1)
		m.setSnapshot(m.snap)
		return m, savePref(m.prefs, prefTimerFilter, m.filter)
	case key.Matches(keyMsg, keys.Left):
		m.filter = cycle(m.filters(), m.filter, -1)
		m.setSnapshot(m.snap)
		return m, savePref(m.prefs, prefTimerFilter, m.filter)
	case key.Matches(keyMsg, keys.New):
		return m.showNewForm()
	case key.Matches(keyMsg, keys.StartCategory):
		return m.bulk("Started", func(c string) state.Command { return state.StartCategory{Category: c} })
	case key.Matches(keyMsg, keys.PauseCategory):
		return m.bulk("Paused", func(c string) state.Command { return state.PauseCategory{Category: c} })
	case key.Matches(keyMsg, keys.ResetCategory):
		return m.bulk("Reset", func(c string) state.Command { return state.ResetCategory{Category: c} })
	}

	t, ok := m.selected()
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.Toggle):
		if t.IsRunning() {
			return m.dispatch(state.PauseTimer{ID: t.ID}), nil
		}
		return m.start(t)
	case key.Matches(keyMsg, keys.Start):
		return m.start(t)
	case key.Matches(keyMsg, keys.Pause):
		return m.dispatch(state.PauseTimer{ID: t.ID}), nil
	case key.Matches(keyMsg, keys.Reset):
		return m.dispatch(state.ResetTimer{ID: t.ID}), setStatus("Reset "+t.Name, false)
	case key.Matches(keyMsg, keys.Complete):
		if t.IsCompleted() {
			return m, nil
		}
		return m.dispatch(state.CompleteTimer{ID: t.ID}), setStatus("Marked "+t.Name+" complete", false)
	case key.Matches(keyMsg, keys.Enter):
		return m.showEditForm(t)
	case key.Matches(keyMsg, keys.Delete):
		if m.confirmDelete {
			m.confirming = true
			m.pendingID = t.ID
			return m, nil
		}
		return m.deleteTimer(t.ID)
	}
	return m, nil
}

func (m timersModel) start(t timer.Timer) (timersModel, tea.Cmd) {
	if t.IsCompleted() {
		return m, setStatus(t.Name+" is complete; press r to reset it", true)
	}
	return m.dispatch(state.StartTimer{ID: t.ID}), nil
}

func (m timersModel) bulk(verb string, build func(string) state.Command) (timersModel, tea.Cmd) {
	category, ok := m.targetCategory()
	if !ok {
		return m, nil
	}
	m = m.dispatch(build(category))
	return m, setStatus(fmt.Sprintf("%s all %s timers", verb, category), false)
}

func (m timersModel) deleteTimer(id string) (timersModel, tea.Cmd) {
	t, ok := m.snap.Find(id)
	m.pendingID = ""
	if !ok {
		return m, nil
	}
	m = m.dispatch(state.DeleteTimer{ID: id})
	return m, setStatus("Deleted "+t.Name, false)
}

// --- Forms ---

func validateName(s string) error {
	if strings.TrimSpace(s) == "" {
		return timer.ErrInvalidName
	}
	return nil
}

func validateDuration(s string) error {
	if _, err := timer.ParseDuration(s); err != nil {
		return errors.New("use seconds or a duration like 90s, 25m, 1h30m")
	}
	return nil
}

// categoryOptions lists the configured categories, plus current when it is
// a custom one so editing does not move the timer.
func (m timersModel) categoryOptions(current string) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(m.snap.Categories)+1)
	for _, c := range m.snap.Categories {
		opts = append(opts, huh.NewOption(c, c))
	}
	if current != "" && !timer.IsKnownCategory(current, m.snap.Categories) {
		opts = append(opts, huh.NewOption(current+" (custom)", current))
	}
	return opts
}

func (m timersModel) showNewForm() (timersModel, tea.Cmd) {
	*m.formName = ""
	*m.formDuration = "5m"
	*m.formHalfway = true
	*m.formCategory = timer.CategoryOther
	if m.filter != timer.CategoryAll {
		*m.formCategory = m.filter
	} else if len(m.snap.Categories) > 0 {
		*m.formCategory = m.snap.Categories[0]
	}
	m.formType = "new"

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Timer Name").Value(m.formName).Validate(validateName),
			huh.NewInput().Title("Duration").
				Description("seconds, or 90s, 25m, 1h30m").
				Value(m.formDuration).Validate(validateDuration),
			huh.NewSelect[string]().Title("Category").Options(m.categoryOptions("")...).Value(m.formCategory),
			huh.NewConfirm().Title("Halfway alert?").Value(m.formHalfway),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m timersModel) showEditForm(t timer.Timer) (timersModel, tea.Cmd) {
	*m.formName = t.Name
	*m.formCategory = t.Category
	*m.formHalfway = t.EnableHalfwayAlert
	m.formType = "edit"
	m.editingID = t.ID

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Timer Name").Value(m.formName).Validate(validateName),
			huh.NewSelect[string]().Title("Category").Options(m.categoryOptions(t.Category)...).Value(m.formCategory),
			huh.NewConfirm().Title("Halfway alert?").Value(m.formHalfway),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m timersModel) updateForm(msg tea.Msg) (timersModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		m.form = nil
		switch m.formType {
		case "new":
			return m.submitNew()
		case "edit":
			return m.submitEdit()
		}
	}
	return m, cmd
}

func (m timersModel) submitNew() (timersModel, tea.Cmd) {
	secs, err := timer.ParseDuration(*m.formDuration)
	if err != nil {
		return m, setStatus(err.Error(), true)
	}
	t, err := m.eng.AddTimer(*m.formName, secs, *m.formCategory, *m.formHalfway)
	if err != nil {
		return m, setStatus(err.Error(), true)
	}
	m.setSnapshot(m.eng.State())
	for i, row := range m.rows {
		if row.ID == t.ID {
			m.cursor = i
		}
	}
	return m, setStatus("Added "+t.Name, false)
}

func (m timersModel) submitEdit() (timersModel, tea.Cmd) {
	// the cached snapshot may be a few ticks behind
	t, ok := m.eng.State().Find(m.editingID)
	if !ok {
		return m, setStatus("timer no longer exists", true)
	}
	t.Name = strings.TrimSpace(*m.formName)
	t.Category = *m.formCategory
	t.EnableHalfwayAlert = *m.formHalfway
	if err := t.Validate(); err != nil {
		return m, setStatus(err.Error(), true)
	}
	m = m.dispatch(state.UpdateTimer{Timer: t})
	return m, setStatus("Updated "+t.Name, false)
}

// --- Rendering ---

func (m timersModel) view() string {
	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Timer")
		if m.formType == "edit" {
			title = titleStyle.Render("Edit Timer")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(m.width - 4).Render(content)
	}

	var b strings.Builder
	b.WriteString(m.renderFilterBar())
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		if len(m.snap.Timers) == 0 {
			b.WriteString(mutedStyle.Render("  No timers yet. Press n to add one."))
		} else {
			b.WriteString(mutedStyle.Render("  No timers in " + m.filter + "."))
		}
		return b.String()
	}

	lines := m.renderGroups()
	// keep the cursor row on screen
	visible := max(m.height-4, 1)
	start := 0
	if cursorLine := m.cursorLine(); cursorLine >= visible {
		start = cursorLine - visible + 1
	}
	end := min(start+visible, len(lines))
	b.WriteString(strings.Join(lines[start:end], "\n"))

	if m.confirming {
		if t, ok := m.snap.Find(m.pendingID); ok {
			b.WriteString("\n\n")
			b.WriteString(warningStyle.Render(fmt.Sprintf("  Delete %q? y/n", t.Name)))
		}
	}
	return b.String()
}

func (m timersModel) renderFilterBar() string {
	var items []string
	for _, f := range m.filters() {
		if f == m.filter {
			items = append(items, selectedItemStyle.Render("["+f+"]"))
		} else {
			items = append(items, mutedStyle.Render(f))
		}
	}
	running := len(m.snap.RunningIDs())
	summary := mutedStyle.Render(fmt.Sprintf("%d timers, %d running", len(m.snap.Timers), running))
	return "  " + strings.Join(items, "  ") + "    " + summary
}

// cursorLine maps the cursor row to its rendered line, counting group headers.
func (m timersModel) cursorLine() int {
	line, row := 0, 0
	for _, g := range m.groups {
		line++
		for range g.Timers {
			if row == m.cursor {
				return line
			}
			line++
			row++
		}
	}
	return line
}

func (m timersModel) renderGroups() []string {
	nameWidth := max(m.width/4, 12)
	barWidth := max(m.width-nameWidth-40, 10)

	var lines []string
	row := 0
	for _, g := range m.groups {
		header := lipgloss.NewStyle().Bold(true).
			Foreground(categoryColor(m.snap.Categories, g.Name)).
			Render(g.Name)
		counts := mutedStyle.Render(fmt.Sprintf(" (%d) %d running, %d done", len(g.Timers), g.Running, g.Completed))
		lines = append(lines, "  "+groupHeaderStyle.Render("▸ ")+header+counts)

		for _, t := range g.Timers {
			cursor := "    "
			nameStyle := normalItemStyle
			if row == m.cursor {
				cursor = "  > "
				nameStyle = selectedItemStyle
			}
			lines = append(lines, cursor+m.renderTimer(t, nameStyle, nameWidth, barWidth))
			row++
		}
	}
	return lines
}

func (m timersModel) renderTimer(t timer.Timer, nameStyle lipgloss.Style, nameWidth, barWidth int) string {
	rowStyle := timerPausedStyle
	switch t.Status {
	case timer.StatusRunning:
		rowStyle = timerRunningStyle
	case timer.StatusCompleted:
		rowStyle = timerCompletedStyle
	}

	name := nameStyle.Width(nameWidth).Render(truncate(t.Name, nameWidth))
	bar := rowStyle.UnsetStrikethrough().Render(progressBar(t.Progress, barWidth))
	clock := rowStyle.Render(fmt.Sprintf("%s / %s", formatClock(t.RemainingTime), formatClock(t.Duration)))

	marker := " "
	if t.EnableHalfwayAlert {
		marker = mutedStyle.Render("½")
		if t.ReachedHalfway {
			marker = accentStyle.Render("½")
		}
	}
	return fmt.Sprintf("%s %s %s %s %s", rowStyle.Render(statusIcon(t)), name, bar, clock, marker)
}
