package timer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a timer.
type Status string

const (
	StatusPaused    Status = "paused"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
)

var (
	ErrInvalidName     = errors.New("timer name must not be empty")
	ErrInvalidDuration = errors.New("timer duration must be a positive number of seconds")
	ErrUnknownCategory = errors.New("unknown category")
)

// Timer is a single countdown. Duration and RemainingTime are whole seconds.
type Timer struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Category           string  `json:"category"`
	Duration           int     `json:"duration"`
	RemainingTime      int     `json:"remainingTime"`
	Progress           float64 `json:"progress"`
	Status             Status  `json:"status"`
	ReachedHalfway     bool    `json:"reachedHalfway"`
	HalfwayAlertShown  bool    `json:"halfwayAlertShown"`
	EnableHalfwayAlert bool    `json:"enableHalfwayAlert"`
}

// New validates the input and returns a paused timer with a fresh id.
func New(name string, duration int, category string, enableHalfwayAlert bool) (Timer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Timer{}, ErrInvalidName
	}
	if duration <= 0 {
		return Timer{}, fmt.Errorf("%w: got %d", ErrInvalidDuration, duration)
	}
	category = strings.TrimSpace(category)
	if category == "" {
		category = CategoryOther
	}
	return Timer{
		ID:                 uuid.NewString(),
		Name:               name,
		Category:           category,
		Duration:           duration,
		RemainingTime:      duration,
		Progress:           1,
		Status:             StatusPaused,
		EnableHalfwayAlert: enableHalfwayAlert,
	}, nil
}

// HalfwayPoint is the remaining time at which the halfway latch trips.
// Integer division: a 5 second timer is halfway at 2.
func (t Timer) HalfwayPoint() int {
	return t.Duration / 2
}

func (t Timer) IsRunning() bool   { return t.Status == StatusRunning }
func (t Timer) IsCompleted() bool { return t.Status == StatusCompleted }

// ComputeProgress returns RemainingTime/Duration, or 0 for a zero duration.
func (t Timer) ComputeProgress() float64 {
	if t.Duration <= 0 {
		return 0
	}
	return float64(t.RemainingTime) / float64(t.Duration)
}

// Normalize returns a copy with the derived fields brought back in line:
// remaining clamped to [0, Duration], completed iff remaining is zero,
// progress recomputed, and the alert latch cleared when halfway was never
// reached.
func (t Timer) Normalize() Timer {
	if t.RemainingTime < 0 {
		t.RemainingTime = 0
	}
	if t.RemainingTime > t.Duration {
		t.RemainingTime = t.Duration
	}
	switch {
	case t.RemainingTime == 0:
		t.Status = StatusCompleted
	case t.Status == StatusCompleted, t.Status == "":
		t.Status = StatusPaused
	case t.Status != StatusRunning && t.Status != StatusPaused:
		t.Status = StatusPaused
	}
	t.Progress = t.ComputeProgress()
	if !t.ReachedHalfway {
		t.HalfwayAlertShown = false
	}
	return t
}

// Validate reports the first broken invariant, if any.
func (t Timer) Validate() error {
	switch {
	case t.ID == "":
		return errors.New("timer id is required")
	case strings.TrimSpace(t.Name) == "":
		return ErrInvalidName
	case t.Duration <= 0:
		return ErrInvalidDuration
	case t.RemainingTime < 0 || t.RemainingTime > t.Duration:
		return fmt.Errorf("remaining time %d outside [0, %d]", t.RemainingTime, t.Duration)
	case (t.Status == StatusCompleted) != (t.RemainingTime == 0):
		return fmt.Errorf("status %q inconsistent with remaining time %d", t.Status, t.RemainingTime)
	case t.Progress != t.ComputeProgress():
		return fmt.Errorf("progress %v, want %v", t.Progress, t.ComputeProgress())
	case t.HalfwayAlertShown && !t.ReachedHalfway:
		return errors.New("halfway alert shown before halfway was reached")
	}
	return nil
}
