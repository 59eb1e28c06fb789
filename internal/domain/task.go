package domain

import (
	"fmt"
	"maps"
	"slices"
)

// TaskConfig describes one LaunchAgent: what to run and when.
// Optional scheduling fields are pointers so that "unset" and zero differ.
type TaskConfig struct {
	StartInterval        *int              // Seconds between runs
	StartCalendarHour    *int              // 0-23, set together with StartCalendarMinute
	StartCalendarMinute  *int              // 0-59, set together with StartCalendarHour
	EnvironmentVariables map[string]string // nil when there is nothing to inject
	Label                string            // {domain}.{task_name}
	ProgramArguments     []string          // argv; first element is the executable
	RunAtLoad            bool
}

// ScheduleKind identifies which scheduling mode a TaskConfig uses.
type ScheduleKind string

// Schedule kinds.
const (
	ScheduleNone     ScheduleKind = "none"
	ScheduleInterval ScheduleKind = "interval"
	ScheduleCalendar ScheduleKind = "calendar"
)

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}

// NewIntervalTask creates a config that runs every seconds.
func NewIntervalTask(label string, args []string, seconds int) *TaskConfig {
	return &TaskConfig{
		Label:            label,
		ProgramArguments: args,
		StartInterval:    IntPtr(seconds),
		RunAtLoad:        true,
	}
}

// NewCalendarTask creates a config that runs daily at hour:minute.
func NewCalendarTask(label string, args []string, hour, minute int) *TaskConfig {
	return &TaskConfig{
		Label:               label,
		ProgramArguments:    args,
		StartCalendarHour:   IntPtr(hour),
		StartCalendarMinute: IntPtr(minute),
		RunAtLoad:           true,
	}
}

// Schedule returns the scheduling mode of the config.
// Partially set calendar fields count as ScheduleNone; Validate reports them.
func (c *TaskConfig) Schedule() ScheduleKind {
	switch {
	case c.StartInterval != nil:
		return ScheduleInterval
	case c.StartCalendarHour != nil && c.StartCalendarMinute != nil:
		return ScheduleCalendar
	default:
		return ScheduleNone
	}
}

// ScheduleString returns a short human-readable schedule description.
func (c *TaskConfig) ScheduleString() string {
	switch c.Schedule() {
	case ScheduleInterval:
		return fmt.Sprintf("every %ds", *c.StartInterval)
	case ScheduleCalendar:
		return fmt.Sprintf("daily at %02d:%02d", *c.StartCalendarHour, *c.StartCalendarMinute)
	default:
		return "on load only"
	}
}

// Validate checks the TaskConfig invariants.
func (c *TaskConfig) Validate() error {
	if c.Label == "" {
		return ErrEmptyLabel
	}
	if len(c.ProgramArguments) == 0 {
		return ErrEmptyProgramArguments
	}
	for i, arg := range c.ProgramArguments {
		if arg == "" {
			return fmt.Errorf("%w: argument %d is empty", ErrInvalidTaskConfig, i)
		}
	}

	hasHour := c.StartCalendarHour != nil
	hasMinute := c.StartCalendarMinute != nil
	if hasHour != hasMinute {
		return fmt.Errorf("%w: calendar hour and minute must be set together", ErrInvalidTaskConfig)
	}
	if c.StartInterval != nil && hasHour {
		return fmt.Errorf("%w: interval and calendar scheduling are mutually exclusive", ErrInvalidTaskConfig)
	}

	if c.StartInterval != nil {
		if ok, msg := ValidateInterval(*c.StartInterval); !ok {
			return fmt.Errorf("%w: %s", ErrInvalidTaskConfig, msg)
		}
	}
	if hasHour {
		if ok, msg := ValidateHour(*c.StartCalendarHour); !ok {
			return fmt.Errorf("%w: %s", ErrInvalidTaskConfig, msg)
		}
		if ok, msg := ValidateMinute(*c.StartCalendarMinute); !ok {
			return fmt.Errorf("%w: %s", ErrInvalidTaskConfig, msg)
		}
	}
	return nil
}

// Clone returns a deep copy of the config.
func (c *TaskConfig) Clone() *TaskConfig {
	out := *c
	out.ProgramArguments = slices.Clone(c.ProgramArguments)
	if c.EnvironmentVariables != nil {
		out.EnvironmentVariables = maps.Clone(c.EnvironmentVariables)
	}
	if c.StartInterval != nil {
		out.StartInterval = IntPtr(*c.StartInterval)
	}
	if c.StartCalendarHour != nil {
		out.StartCalendarHour = IntPtr(*c.StartCalendarHour)
	}
	if c.StartCalendarMinute != nil {
		out.StartCalendarMinute = IntPtr(*c.StartCalendarMinute)
	}
	return &out
}
