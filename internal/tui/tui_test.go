package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/multitimer/internal/scheduler"
	"github.com/sadopc/multitimer/internal/state"
	"github.com/sadopc/multitimer/internal/timer"
)

// fakeEngine drives a real state store without a ticker.
type fakeEngine struct {
	st     *state.Store
	events chan scheduler.Event
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		st:     state.NewStore(timer.DefaultSnapshot()),
		events: make(chan scheduler.Event, 4),
	}
}

func (f *fakeEngine) Dispatch(cmd state.Command) timer.Snapshot { return f.st.Dispatch(cmd) }
func (f *fakeEngine) State() timer.Snapshot                     { return f.st.State() }
func (f *fakeEngine) Subscribe(int) <-chan scheduler.Event      { return f.events }

func (f *fakeEngine) AddTimer(name string, secs int, category string, halfway bool) (timer.Timer, error) {
	t, err := timer.New(name, secs, category, halfway)
	if err != nil {
		return timer.Timer{}, err
	}
	f.st.Dispatch(state.AddTimer{Timer: t})
	return t, nil
}

func (f *fakeEngine) mustAdd(t *testing.T, name string, secs int, category string) timer.Timer {
	t.Helper()
	tm, err := f.AddTimer(name, secs, category, true)
	if err != nil {
		t.Fatalf("add timer: %v", err)
	}
	return tm
}

type memPrefs struct {
	values map[string]string
	err    error
}

func newMemPrefs() *memPrefs { return &memPrefs{values: map[string]string{}} }

func (p *memPrefs) GetValue(key string) (string, error) {
	v, ok := p.values[key]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}

func (p *memPrefs) SetValue(key, value string) error {
	if p.err != nil {
		return p.err
	}
	p.values[key] = value
	return nil
}

func newTestApp(t *testing.T, eng *fakeEngine, opts Options) App {
	t.Helper()
	if opts.ExportDir == "" {
		opts.ExportDir = t.TempDir()
	}
	a := NewApp(eng, opts)
	m, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m.(App)
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds keys in order and returns the final model and last command.
func press(a App, ks ...string) (App, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range ks {
		var m tea.Model
		m, cmd = a.Update(keyMsg(k))
		a = m.(App)
	}
	return a, cmd
}

// run executes cmd and feeds the resulting message back into the app.
func run(a App, cmd tea.Cmd) App {
	if cmd == nil {
		return a
	}
	msg := cmd()
	if msg == nil {
		return a
	}
	m, _ := a.Update(msg)
	return m.(App)
}

func refreshed(a App) App {
	m, _ := a.Update(tickMsg(time.Now()))
	return m.(App)
}

func find(t *testing.T, eng *fakeEngine, id string) timer.Timer {
	t.Helper()
	tm, ok := eng.State().Find(id)
	if !ok {
		t.Fatalf("timer %s not found", id)
	}
	return tm
}

// ============================================================
// Helpers
// ============================================================

func TestFormatClock(t *testing.T) {
	tests := []struct {
		secs int
		want string
	}{
		{0, "00:00"},
		{59, "00:59"},
		{600, "10:00"},
		{3661, "1:01:01"},
		{-5, "00:00"},
	}
	for _, tt := range tests {
		if got := formatClock(tt.secs); got != tt.want {
			t.Errorf("formatClock(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestFormatHours(t *testing.T) {
	if got := formatHours(5400); got != "1.5h" {
		t.Errorf("formatHours(5400) = %q", got)
	}
}

func TestProgressBar(t *testing.T) {
	if got := progressBar(1, 4); got != "████" {
		t.Errorf("full bar = %q", got)
	}
	if got := progressBar(0.5, 4); got != "██░░" {
		t.Errorf("half bar = %q", got)
	}
	if got := progressBar(-1, 3); got != "░░░" {
		t.Errorf("clamped bar = %q", got)
	}
	if got := progressBar(0.5, 0); got != "" {
		t.Errorf("zero width bar = %q", got)
	}
}

func TestCycle(t *testing.T) {
	opts := []string{"All", "Workout", "Study"}
	if got := cycle(opts, "All", 1); got != "Workout" {
		t.Errorf("next = %q", got)
	}
	if got := cycle(opts, "Study", 1); got != "All" {
		t.Errorf("wrap = %q", got)
	}
	if got := cycle(opts, "All", -1); got != "Study" {
		t.Errorf("prev wrap = %q", got)
	}
	if got := cycle(opts, "Gone", 1); got != "All" {
		t.Errorf("unknown = %q", got)
	}
	if got := cycle(nil, "x", 1); got != "x" {
		t.Errorf("empty = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("stretching", 6); got != "stret…" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("run", 6); got != "run" {
		t.Errorf("short = %q", got)
	}
}

func TestStatusIcon(t *testing.T) {
	if statusIcon(timer.Timer{Status: timer.StatusRunning}) != "●" {
		t.Error("running icon")
	}
	if statusIcon(timer.Timer{Status: timer.StatusCompleted}) != "✓" {
		t.Error("completed icon")
	}
	if statusIcon(timer.Timer{Status: timer.StatusPaused}) != "⏸" {
		t.Error("paused icon")
	}
}

// ============================================================
// App model
// ============================================================

func TestNewApp(t *testing.T) {
	a := NewApp(newFakeEngine(), Options{ExportDir: t.TempDir()})
	if a.activeView != viewTimers {
		t.Errorf("initial view = %d, want timers", a.activeView)
	}
	if a.exportPicking {
		t.Error("export picker should start closed")
	}
	if a.Init() == nil {
		t.Error("Init should schedule the refresh tick and event wait")
	}
}

func TestAppLoadingState(t *testing.T) {
	a := NewApp(newFakeEngine(), Options{})
	if got := a.View(); got != "Loading..." {
		t.Errorf("View before size = %q", got)
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	a := newTestApp(t, newFakeEngine(), Options{})
	header := a.renderHeader()
	for _, name := range viewNames {
		if !strings.Contains(header, name) {
			t.Errorf("header missing tab %q", name)
		}
	}
	if !strings.Contains(header, "multitimer") {
		t.Error("header missing title")
	}
}

func TestAppSwitchViews(t *testing.T) {
	prefs := newMemPrefs()
	a := newTestApp(t, newFakeEngine(), Options{Prefs: prefs})

	a, cmd := press(a, "2")
	if a.activeView != viewHistory {
		t.Fatalf("view = %d, want history", a.activeView)
	}
	run(a, cmd)
	if prefs.values[prefView] != "History" {
		t.Errorf("saved view = %q", prefs.values[prefView])
	}

	a, _ = press(a, "3")
	if a.activeView != viewSummary {
		t.Errorf("view = %d, want summary", a.activeView)
	}
	a, _ = press(a, "tab")
	if a.activeView != viewTimers {
		t.Errorf("tab should wrap to timers, got %d", a.activeView)
	}
}

func TestAppRestoresPrefs(t *testing.T) {
	prefs := newMemPrefs()
	prefs.values[prefView] = "Summary"
	prefs.values[prefTimerFilter] = "Study"
	prefs.values[prefHistoryFilter] = "Break"

	a := newTestApp(t, newFakeEngine(), Options{Prefs: prefs})
	if a.activeView != viewSummary {
		t.Errorf("view = %d, want summary", a.activeView)
	}
	if a.timers.filter != "Study" {
		t.Errorf("timer filter = %q", a.timers.filter)
	}
	if a.history.filter != "Break" {
		t.Errorf("history filter = %q", a.history.filter)
	}
}

func TestAppIgnoresStalePrefs(t *testing.T) {
	prefs := newMemPrefs()
	prefs.values[prefView] = "Calendar"
	prefs.values[prefTimerFilter] = "Gone"

	a := newTestApp(t, newFakeEngine(), Options{Prefs: prefs})
	if a.activeView != viewTimers {
		t.Errorf("view = %d, want timers", a.activeView)
	}
	if a.timers.filter != timer.CategoryAll {
		t.Errorf("timer filter = %q, want All", a.timers.filter)
	}
}

func TestAppPrefSaveErrorShowsStatus(t *testing.T) {
	prefs := newMemPrefs()
	prefs.err = errors.New("disk full")
	a := newTestApp(t, newFakeEngine(), Options{Prefs: prefs})

	a, cmd := press(a, "2")
	a = run(a, cmd)
	if !a.statusErr || !strings.Contains(a.status, "disk full") {
		t.Errorf("status = %q (err %v)", a.status, a.statusErr)
	}
}

func TestAppStatusMessage(t *testing.T) {
	a := newTestApp(t, newFakeEngine(), Options{})
	m, _ := a.Update(statusMsg{text: "hello"})
	a = m.(App)
	if !strings.Contains(a.renderFooter(), "hello") {
		t.Error("footer should show status")
	}
}

func TestAppEventNotification(t *testing.T) {
	eng := newFakeEngine()
	tm := eng.mustAdd(t, "Run", 10, "Workout")
	a := newTestApp(t, eng, Options{})

	m, cmd := a.Update(eventMsg{event: scheduler.Event{Type: scheduler.EventHalfway, Timer: tm}})
	a = m.(App)
	if a.status != "Run is halfway there" {
		t.Errorf("status = %q", a.status)
	}
	if cmd == nil {
		t.Fatal("event should re-arm the event wait")
	}

	eng.events <- scheduler.Event{Type: scheduler.EventCompleted, Timer: tm}
	if msg, ok := cmd().(eventMsg); !ok || msg.event.Type != scheduler.EventCompleted {
		t.Errorf("next event = %#v", msg)
	}
}

func TestAppEventsClosed(t *testing.T) {
	eng := newFakeEngine()
	close(eng.events)
	if _, ok := waitForEvent(eng.events)().(eventsClosedMsg); !ok {
		t.Error("closed channel should yield eventsClosedMsg")
	}
}

func TestAppTickRefreshesSnapshot(t *testing.T) {
	eng := newFakeEngine()
	a := newTestApp(t, eng, Options{})
	eng.mustAdd(t, "Read", 60, "Study")

	m, cmd := a.Update(tickMsg(time.Now()))
	a = m.(App)
	if len(a.timers.rows) != 1 {
		t.Errorf("rows after tick = %d, want 1", len(a.timers.rows))
	}
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
}

func TestAppRunningIndicator(t *testing.T) {
	eng := newFakeEngine()
	tm := eng.mustAdd(t, "Run", 60, "Workout")
	eng.Dispatch(state.StartTimer{ID: tm.ID})
	a := newTestApp(t, eng, Options{})
	if !strings.Contains(a.renderFooter(), "1 running") {
		t.Error("footer should count running timers")
	}
}

// ============================================================
// Timers view
// ============================================================

func TestTimersViewEmpty(t *testing.T) {
	a := newTestApp(t, newFakeEngine(), Options{})
	if !strings.Contains(a.View(), "No timers yet") {
		t.Error("empty view should prompt to add a timer")
	}
}

func TestTimersViewGroupsByCategory(t *testing.T) {
	eng := newFakeEngine()
	eng.mustAdd(t, "Read", 60, "Study")
	eng.mustAdd(t, "Run", 60, "Workout")
	eng.mustAdd(t, "Mystery", 60, "Knitting")
	a := newTestApp(t, eng, Options{})

	// rows follow category order, unknown categories land in Other
	want := []string{"Run", "Read", "Mystery"}
	for i, name := range want {
		if a.timers.rows[i].Name != name {
			t.Errorf("row %d = %q, want %q", i, a.timers.rows[i].Name, name)
		}
	}
	view := a.View()
	for _, s := range []string{"Workout", "Study", "Other", "Run", "Mystery"} {
		if !strings.Contains(view, s) {
			t.Errorf("view missing %q", s)
		}
	}
}

func TestTimersToggleStartPause(t *testing.T) {
	eng := newFakeEngine()
	tm := eng.mustAdd(t, "Run", 60, "Workout")
	a := newTestApp(t, eng, Options{})

	a, _ = press(a, " ")
	if !find(t, eng, tm.ID).IsRunning() {
		t.Fatal("space should start the timer")
	}
	a, _ = press(a, " ")
	if find(t, eng, tm.ID).Status != timer.StatusPaused {
		t.Fatal("space should pause a running timer")
	}
	a, _ = press(a, "s")
	if !find(t, eng, tm.ID).IsRunning() {
		t.Fatal("s should start the timer")
	}
	press(a, "p")
	if find(t, eng, tm.ID).Status != timer.StatusPaused {
		t.Fatal("p should pause the timer")
	}
}

func TestTimersResetAndComplete(t *testing.T) {
	eng := newFakeEngine()
	tm := eng.mustAdd(t, "Run", 10, "Workout")
	eng.Dispatch(state.StartTimer{ID: tm.ID})
	eng.Dispatch(state.Tick{ID: tm.ID})
	a := newTestApp(t, eng, Options{})

	a, _ = press(a, "r")
	got := find(t, eng, tm.ID)
	if got.RemainingTime != 10 || got.Status != timer.StatusPaused {
		t.Fatalf("after reset = %+v", got)
	}

	a, _ = press(a, "c")
	if !find(t, eng, tm.ID).IsCompleted() {
		t.Fatal("c should complete the timer")
	}

	a, cmd := press(a, "s")
	a = run(a, cmd)
	if find(t, eng, tm.ID).IsRunning() {
		t.Error("a completed timer should not start")
	}
	if !a.statusErr {
		t.Error("starting a completed timer should report an error")
	}
}

func TestTimersCursorMovement(t *testing.T) {
	eng := newFakeEngine()
	eng.mustAdd(t, "Run", 60, "Workout")
	read := eng.mustAdd(t, "Read", 60, "Study")
	a := newTestApp(t, eng, Options{})

	a, _ = press(a, "down", "down")
	if a.timers.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", a.timers.cursor)
	}
	press(a, "s")
	if !find(t, eng, read.ID).IsRunning() {
		t.Error("s should act on the selected timer")
	}
}

func TestTimersCursorFollowsTimer(t *testing.T) {
	eng := newFakeEngine()
	eng.mustAdd(t, "Read", 60, "Study")
	a := newTestApp(t, eng, Options{})

	// a timer added ahead of the selection shifts the rows
	eng.mustAdd(t, "Run", 60, "Workout")
	a = refreshed(a)
	if sel, _ := a.timers.selected(); sel.Name != "Read" {
		t.Errorf("selected = %q, want Read", sel.Name)
	}
}

func TestTimersBulkCategoryActions(t *testing.T) {
	eng := newFakeEngine()
	a1 := eng.mustAdd(t, "Squats", 60, "Workout")
	a2 := eng.mustAdd(t, "Plank", 60, "Workout")
	other := eng.mustAdd(t, "Read", 60, "Study")
	a := newTestApp(t, eng, Options{})

	a, _ = press(a, "S")
	if !find(t, eng, a1.ID).IsRunning() || !find(t, eng, a2.ID).IsRunning() {
		t.Fatal("S should start every timer in the selected category")
	}
	if find(t, eng, other.ID).IsRunning() {
		t.Fatal("S should not touch other categories")
	}

	a, _ = press(a, "P")
	if len(eng.State().RunningIDs()) != 0 {
		t.Fatal("P should pause the category")
	}

	eng.Dispatch(state.StartTimer{ID: a1.ID})
	eng.Dispatch(state.Tick{ID: a1.ID})
	if find(t, eng, a1.ID).RemainingTime != 59 {
		t.Fatal("tick should count down")
	}
	press(a, "R")
	if got := find(t, eng, a1.ID); got.RemainingTime != 60 || got.IsRunning() {
		t.Error("R should reset the category")
	}
}

func TestTimersBulkUsesFilter(t *testing.T) {
	eng := newFakeEngine()
	eng.mustAdd(t, "Run", 60, "Workout")
	read := eng.mustAdd(t, "Read", 60, "Study")
	a := newTestApp(t, eng, Options{})

	a, _ = press(a, "f", "f") // All -> Workout -> Study
	if a.timers.filter != "Study" {
		t.Fatalf("filter = %q", a.timers.filter)
	}
	if len(a.timers.rows) != 1 || a.timers.rows[0].ID != read.ID {
		t.Fatalf("filtered rows = %+v", a.timers.rows)
	}
	press(a, "S")
	if got := eng.State().RunningIDs(); len(got) != 1 || got[0] != read.ID {
		t.Errorf("running = %v, want only Read", got)
	}
}

func TestTimersBulkTargetsCustomCategory(t *testing.T) {
	eng := newFakeEngine()
	knit := eng.mustAdd(t, "Knit", 60, "Crafts")
	plain := eng.mustAdd(t, "Misc", 60, "Other")
	a := newTestApp(t, eng, Options{})

	// both timers sit in the Other group; Knit is listed first
	if sel, _ := a.timers.selected(); sel.ID != knit.ID {
		t.Fatalf("selected = %q, want Knit", sel.Name)
	}
	press(a, "S")
	if !find(t, eng, knit.ID).IsRunning() {
		t.Fatal("S should start the selected timer's own category")
	}
	if find(t, eng, plain.ID).IsRunning() {
		t.Error("S must not spill over into Other")
	}
}

func TestTimersEditUsesCurrentState(t *testing.T) {
	eng := newFakeEngine()
	tm := eng.mustAdd(t, "Dash", 2, "Workout")
	eng.Dispatch(state.StartTimer{ID: tm.ID})
	eng.Dispatch(state.Tick{ID: tm.ID})
	a := newTestApp(t, eng, Options{})

	a, _ = press(a, "enter")
	// the timer finishes while the form is open
	eng.Dispatch(state.Tick{ID: tm.ID})

	m := a.timers
	*m.formName = "Dash renamed"
	m.submitEdit()

	got := find(t, eng, tm.ID)
	if got.Name != "Dash renamed" {
		t.Fatalf("name = %q", got.Name)
	}
	if !got.IsCompleted() || got.RemainingTime != 0 {
		t.Errorf("edit revived a completed timer: %+v", got)
	}
}

func TestTimersFilterPersists(t *testing.T) {
	prefs := newMemPrefs()
	a := newTestApp(t, newFakeEngine(), Options{Prefs: prefs})

	a, cmd := press(a, "f")
	run(a, cmd)
	if prefs.values[prefTimerFilter] != "Workout" {
		t.Errorf("saved filter = %q", prefs.values[prefTimerFilter])
	}

	a, _ = press(a, "h")
	if a.timers.filter != timer.CategoryAll {
		t.Errorf("left should step back to All, got %q", a.timers.filter)
	}
}

func TestTimersDeleteWithConfirm(t *testing.T) {
	eng := newFakeEngine()
	tm := eng.mustAdd(t, "Run", 60, "Workout")
	a := newTestApp(t, eng, Options{ConfirmDelete: true})

	a, _ = press(a, "d")
	if !a.timers.confirming {
		t.Fatal("d should ask for confirmation")
	}
	if !strings.Contains(a.View(), `Delete "Run"?`) {
		t.Error("view should show the confirmation prompt")
	}
	a, _ = press(a, "n")
	if a.timers.confirming || a.timers.formActive {
		t.Fatal("n should cancel without opening the form")
	}
	if _, ok := eng.State().Find(tm.ID); !ok {
		t.Fatal("cancelled delete removed the timer")
	}

	press(a, "d", "y")
	if _, ok := eng.State().Find(tm.ID); ok {
		t.Error("confirmed delete should remove the timer")
	}
}

func TestTimersDeleteWithoutConfirm(t *testing.T) {
	eng := newFakeEngine()
	eng.mustAdd(t, "Run", 60, "Workout")
	a := newTestApp(t, eng, Options{})

	a, _ = press(a, "d")
	if len(eng.State().Timers) != 0 {
		t.Fatal("d should delete immediately")
	}
	if len(a.timers.rows) != 0 || a.timers.cursor != 0 {
		t.Errorf("rows = %d cursor = %d", len(a.timers.rows), a.timers.cursor)
	}
}

func TestTimersNewForm(t *testing.T) {
	eng := newFakeEngine()
	a := newTestApp(t, eng, Options{})

	a, _ = press(a, "n")
	if !a.timers.formActive || !a.isFormActive() {
		t.Fatal("n should open the form")
	}
	if !strings.Contains(a.View(), "New Timer") {
		t.Error("view should render the form")
	}
	a, _ = press(a, "esc")
	if a.timers.formActive {
		t.Fatal("esc should cancel the form")
	}
	if len(eng.State().Timers) != 0 {
		t.Error("cancelled form should not add a timer")
	}
}

func TestTimersSubmitNew(t *testing.T) {
	eng := newFakeEngine()
	a := newTestApp(t, eng, Options{})

	m, _ := a.timers.showNewForm()
	*m.formName = "  Stretch "
	*m.formDuration = "90s"
	*m.formCategory = "Break"
	*m.formHalfway = false
	m, cmd := m.submitNew()

	snap := eng.State()
	if len(snap.Timers) != 1 {
		t.Fatalf("timers = %d, want 1", len(snap.Timers))
	}
	got := snap.Timers[0]
	if got.Name != "Stretch" || got.Duration != 90 || got.Category != "Break" || got.EnableHalfwayAlert {
		t.Errorf("added timer = %+v", got)
	}
	if sel, _ := m.selected(); sel.ID != got.ID {
		t.Error("new timer should be selected")
	}
	if msg, ok := cmd().(statusMsg); !ok || msg.isError {
		t.Errorf("status = %#v", msg)
	}
}

func TestTimersSubmitNewInvalid(t *testing.T) {
	eng := newFakeEngine()
	a := newTestApp(t, eng, Options{})

	m, _ := a.timers.showNewForm()
	*m.formName = "Run"
	*m.formDuration = "soon"
	_, cmd := m.submitNew()
	if msg, ok := cmd().(statusMsg); !ok || !msg.isError {
		t.Errorf("status = %#v", msg)
	}
	if len(eng.State().Timers) != 0 {
		t.Error("invalid duration should not add a timer")
	}
}

func TestTimersSubmitEdit(t *testing.T) {
	eng := newFakeEngine()
	tm := eng.mustAdd(t, "Run", 60, "Workout")
	eng.Dispatch(state.StartTimer{ID: tm.ID})
	eng.Dispatch(state.Tick{ID: tm.ID})
	a := newTestApp(t, eng, Options{})

	a, _ = press(a, "enter")
	if !a.timers.formActive || a.timers.formType != "edit" {
		t.Fatal("enter should open the edit form")
	}
	m := a.timers
	*m.formName = "Sprint"
	*m.formCategory = "Study"
	*m.formHalfway = false
	m.submitEdit()

	got := find(t, eng, tm.ID)
	if got.Name != "Sprint" || got.Category != "Study" || got.EnableHalfwayAlert {
		t.Errorf("edited timer = %+v", got)
	}
	if got.Duration != 60 || got.RemainingTime != 59 || !got.IsRunning() {
		t.Errorf("edit should keep the countdown, got %+v", got)
	}
}

func TestTimersEditKeepsCustomCategory(t *testing.T) {
	eng := newFakeEngine()
	tm := eng.mustAdd(t, "Knit", 60, "Crafts")
	a := newTestApp(t, eng, Options{})

	a, _ = press(a, "enter")
	m := a.timers
	if *m.formCategory != "Crafts" {
		t.Fatalf("form category = %q, want Crafts", *m.formCategory)
	}
	*m.formName = "Knit socks"
	m.submitEdit()
	if got := find(t, eng, tm.ID); got.Category != "Crafts" || got.Name != "Knit socks" {
		t.Errorf("edited timer = %+v", got)
	}
}

func TestValidators(t *testing.T) {
	if validateName("  ") == nil {
		t.Error("blank name should fail")
	}
	if validateName("Run") != nil {
		t.Error("name should pass")
	}
	if validateDuration("0") == nil {
		t.Error("zero duration should fail")
	}
	if validateDuration("25m") != nil {
		t.Error("25m should pass")
	}
}

// ============================================================
// History view
// ============================================================

func historyEntry(name, category string, secs int, at time.Time) timer.HistoryEntry {
	return timer.HistoryEntry{
		ID:          name + at.String(),
		TimerID:     name,
		Name:        name,
		Category:    category,
		Duration:    secs,
		CompletedAt: at,
	}
}

func seedHistory(eng *fakeEngine) {
	base := time.Now().Add(-time.Hour)
	eng.Dispatch(state.AppendHistory{Entry: historyEntry("Run", "Workout", 600, base)})
	eng.Dispatch(state.AppendHistory{Entry: historyEntry("Read", "Study", 1200, base.Add(time.Minute))})
	eng.Dispatch(state.AppendHistory{Entry: historyEntry("Knit", "Crafts", 300, base.Add(2*time.Minute))})
}

func TestHistoryNewestFirst(t *testing.T) {
	eng := newFakeEngine()
	seedHistory(eng)
	a := newTestApp(t, eng, Options{})

	got := a.history.entries()
	if len(got) != 3 || got[0].Name != "Knit" || got[2].Name != "Run" {
		t.Errorf("entries = %+v", got)
	}
}

func TestHistoryLimit(t *testing.T) {
	eng := newFakeEngine()
	seedHistory(eng)
	a := newTestApp(t, eng, Options{HistoryLimit: 2})

	got := a.history.entries()
	if len(got) != 2 || got[0].Name != "Knit" {
		t.Errorf("limited entries = %+v", got)
	}
}

func TestHistoryFilterIncludesHistoryOnlyCategories(t *testing.T) {
	eng := newFakeEngine()
	seedHistory(eng)
	a := newTestApp(t, eng, Options{})

	filters := a.history.filters()
	if filters[0] != timer.CategoryAll || filters[len(filters)-1] != "Crafts" {
		t.Errorf("filters = %v", filters)
	}
}

func TestHistoryFilterCycle(t *testing.T) {
	eng := newFakeEngine()
	seedHistory(eng)
	prefs := newMemPrefs()
	a := newTestApp(t, eng, Options{Prefs: prefs})

	a, _ = press(a, "2")
	a, cmd := press(a, "f")
	run(a, cmd)
	if a.history.filter != "Workout" {
		t.Fatalf("filter = %q", a.history.filter)
	}
	if prefs.values[prefHistoryFilter] != "Workout" {
		t.Errorf("saved filter = %q", prefs.values[prefHistoryFilter])
	}
	got := a.history.entries()
	if len(got) != 1 || got[0].Name != "Run" {
		t.Errorf("filtered entries = %+v", got)
	}
	if !strings.Contains(a.View(), "1 completed") {
		t.Error("view should count filtered entries")
	}
}

func TestHistoryViewEmpty(t *testing.T) {
	a := newTestApp(t, newFakeEngine(), Options{})
	a, _ = press(a, "2")
	if !strings.Contains(a.View(), "No completed timers yet") {
		t.Error("empty history message missing")
	}
}

// ============================================================
// Summary view
// ============================================================

func TestSummaryCategoryBars(t *testing.T) {
	eng := newFakeEngine()
	seedHistory(eng)
	a := newTestApp(t, eng, Options{})

	bars := a.summary.categoryBars()
	if len(bars) != 3 {
		t.Fatalf("bars = %d, want 3", len(bars))
	}
	if bars[0].Label != "Workout" || bars[0].Values[0].Value != 10 {
		t.Errorf("first bar = %+v", bars[0])
	}
	if bars[2].Label != "Crafts" {
		t.Errorf("history-only category should come last, got %q", bars[2].Label)
	}
}

func TestSummaryDailyBars(t *testing.T) {
	eng := newFakeEngine()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)
	eng.Dispatch(state.AppendHistory{Entry: historyEntry("Run", "Workout", 600, now.Add(-time.Hour))})
	eng.Dispatch(state.AppendHistory{Entry: historyEntry("Old", "Workout", 600, now.AddDate(0, 0, -30))})
	a := newTestApp(t, eng, Options{})
	a.summary.now = func() time.Time { return now }

	bars := a.summary.dailyBars()
	if len(bars) != 7 {
		t.Fatalf("bars = %d, want 7", len(bars))
	}
	last := bars[6]
	if last.Label != now.Format("Mon 02") || last.Values[0].Value != 10 {
		t.Errorf("today bar = %+v", last)
	}
	if bars[0].Values[0].Value != 0 {
		t.Errorf("empty day should have a zero bar, got %+v", bars[0])
	}
}

func TestSummaryModeToggle(t *testing.T) {
	eng := newFakeEngine()
	seedHistory(eng)
	a := newTestApp(t, eng, Options{})

	a, _ = press(a, "3")
	if !strings.Contains(a.View(), "Summary") {
		t.Error("summary title missing")
	}
	a, _ = press(a, "f")
	if a.summary.mode != summaryByDay {
		t.Error("f should switch to the daily chart")
	}
	a, _ = press(a, "f")
	if a.summary.mode != summaryByCategory {
		t.Error("f should switch back")
	}
}

func TestSummaryTableCounts(t *testing.T) {
	eng := newFakeEngine()
	seedHistory(eng)
	tm := eng.mustAdd(t, "Run", 60, "Workout")
	eng.Dispatch(state.StartTimer{ID: tm.ID})
	a := newTestApp(t, eng, Options{})

	table := a.summary.renderTable(100)
	for _, s := range []string{"Workout", "Study", "Crafts", "0.2h"} {
		if !strings.Contains(table, s) {
			t.Errorf("table missing %q:\n%s", s, table)
		}
	}
}

// ============================================================
// Export
// ============================================================

func TestExportPicker(t *testing.T) {
	eng := newFakeEngine()
	seedHistory(eng)
	dir := t.TempDir()
	a := newTestApp(t, eng, Options{ExportDir: dir})

	a, _ = press(a, "e")
	if !a.exportPicking {
		t.Fatal("e should open the export picker")
	}
	if !strings.Contains(a.View(), "YAML") {
		t.Error("picker should list YAML")
	}
	a, _ = press(a, "down", "down", "down")
	if a.exportCursor != 2 {
		t.Fatalf("cursor = %d, want clamp at 2", a.exportCursor)
	}
	a, cmd := press(a, "enter")
	if a.exportPicking {
		t.Error("enter should close the picker")
	}
	a = run(a, cmd)
	if !strings.Contains(a.status, "Exported 3 entries") {
		t.Fatalf("status = %q", a.status)
	}

	matches, _ := filepath.Glob(filepath.Join(dir, "multitimer-history-*.yaml"))
	if len(matches) != 1 {
		t.Fatalf("export files = %v", matches)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Knit") {
		t.Error("export should contain history entries")
	}
}

func TestExportUsesHistoryFilter(t *testing.T) {
	eng := newFakeEngine()
	seedHistory(eng)
	a := newTestApp(t, eng, Options{})
	a.history.filter = "Study"

	m := run(a, a.doExport("csv"))
	if !strings.Contains(m.status, "Exported 1 entries") {
		t.Errorf("status = %q", m.status)
	}
}

func TestExportPickerCancel(t *testing.T) {
	a := newTestApp(t, newFakeEngine(), Options{})
	a, _ = press(a, "e", "esc")
	if a.exportPicking {
		t.Error("esc should close the picker")
	}
}

// ============================================================
// Key map & styles
// ============================================================

func TestKeyMapShortHelp(t *testing.T) {
	if len(keys.ShortHelp()) == 0 {
		t.Error("short help should not be empty")
	}
}

func TestKeyMapFullHelp(t *testing.T) {
	groups := keys.FullHelp()
	if len(groups) == 0 {
		t.Fatal("full help should not be empty")
	}
	for i, g := range groups {
		if len(g) == 0 {
			t.Errorf("help group %d is empty", i)
		}
	}
}

func TestCategoryColor(t *testing.T) {
	cats := timer.DefaultCategories()
	if categoryColor(cats, "Workout") != categoryPalette[0] {
		t.Error("first category should take the first palette color")
	}
	if categoryColor(cats, "Unknown") != colorMuted {
		t.Error("unknown category should be muted")
	}
}

func TestStylesRender(t *testing.T) {
	styles := []interface{ Render(...string) string }{
		activeTabStyle, inactiveTabStyle, panelStyle, activePanelStyle,
		timerRunningStyle, timerPausedStyle, timerCompletedStyle, groupHeaderStyle,
		titleStyle, accentStyle, successStyle, warningStyle, errorStyle, mutedStyle,
		headerStyle, footerStyle, selectedItemStyle, normalItemStyle,
	}
	for i, s := range styles {
		if s.Render("x") == "" {
			t.Errorf("style %d rendered empty", i)
		}
	}
}
