package config

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

func ValidBackends() []string {
	return []string{BackendSQLite, BackendFile}
}

func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// MinTickInterval keeps a misconfigured interval from spinning the CPU.
const MinTickInterval = 10 * time.Millisecond

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidBackends(), c.Storage.Backend) {
		errors = append(errors, ValidationError{
			Field:   "storage.backend",
			Value:   c.Storage.Backend,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidBackends(), ", ")),
		})
	}

	if c.Engine.TickInterval < MinTickInterval {
		errors = append(errors, ValidationError{
			Field:   "engine.tick_interval",
			Value:   c.Engine.TickInterval,
			Message: fmt.Sprintf("must be at least %s", MinTickInterval),
		})
	}

	seen := make(map[string]bool)
	for _, cat := range c.Engine.Categories {
		name := strings.TrimSpace(cat)
		if name == "" {
			errors = append(errors, ValidationError{
				Field:   "engine.categories",
				Value:   cat,
				Message: "category names must not be empty",
			})
			continue
		}
		if seen[name] {
			errors = append(errors, ValidationError{
				Field:   "engine.categories",
				Value:   cat,
				Message: "duplicate category",
			})
		}
		seen[name] = true
	}

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	if c.TUI.HistoryLimit < 0 {
		errors = append(errors, ValidationError{
			Field:   "tui.history_limit",
			Value:   c.TUI.HistoryLimit,
			Message: "must be non-negative",
		})
	}

	return errors
}
