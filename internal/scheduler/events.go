package scheduler

import (
	"time"

	"github.com/sadopc/multitimer/internal/timer"
)

// EventType identifies a notification raised by the scheduler.
type EventType string

const (
	EventCompleted EventType = "completed"
	EventHalfway   EventType = "halfway"
)

// Event is delivered to subscribers. Timer is the timer as it was right
// after the tick that raised the event.
type Event struct {
	Type  EventType
	Timer timer.Timer
	At    time.Time
}

// Message renders the event for status lines and the headless runner.
func (e Event) Message() string {
	switch e.Type {
	case EventCompleted:
		return e.Timer.Name + " completed"
	case EventHalfway:
		return e.Timer.Name + " is halfway there"
	default:
		return e.Timer.Name
	}
}
