package state

import "github.com/sadopc/multitimer/internal/timer"

// Command is an instruction to the reducer. The set is closed: only the
// types in this file satisfy it.
type Command interface {
	command()
	// Name is a short label used in logs.
	Name() string
}

type AddTimer struct{ Timer timer.Timer }
type UpdateTimer struct{ Timer timer.Timer }
type DeleteTimer struct{ ID string }
type StartTimer struct{ ID string }
type PauseTimer struct{ ID string }
type ResetTimer struct{ ID string }
type CompleteTimer struct{ ID string }
type StartCategory struct{ Category string }
type PauseCategory struct{ Category string }
type ResetCategory struct{ Category string }
type Tick struct{ ID string }
type AppendHistory struct{ Entry timer.HistoryEntry }
type LoadSnapshot struct{ Snapshot timer.Snapshot }

func (AddTimer) command()      {}
func (UpdateTimer) command()   {}
func (DeleteTimer) command()   {}
func (StartTimer) command()    {}
func (PauseTimer) command()    {}
func (ResetTimer) command()    {}
func (CompleteTimer) command() {}
func (StartCategory) command() {}
func (PauseCategory) command() {}
func (ResetCategory) command() {}
func (Tick) command()          {}
func (AppendHistory) command() {}
func (LoadSnapshot) command()  {}

func (AddTimer) Name() string      { return "add_timer" }
func (UpdateTimer) Name() string   { return "update_timer" }
func (DeleteTimer) Name() string   { return "delete_timer" }
func (StartTimer) Name() string    { return "start_timer" }
func (PauseTimer) Name() string    { return "pause_timer" }
func (ResetTimer) Name() string    { return "reset_timer" }
func (CompleteTimer) Name() string { return "complete_timer" }
func (StartCategory) Name() string { return "start_category" }
func (PauseCategory) Name() string { return "pause_category" }
func (ResetCategory) Name() string { return "reset_category" }
func (Tick) Name() string          { return "tick" }
func (AppendHistory) Name() string { return "append_history" }
func (LoadSnapshot) Name() string  { return "load_snapshot" }
