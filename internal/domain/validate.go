package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Validators return (valid, message). The message is empty iff valid.
// They never return errors so prompt loops can simply re-ask.

// ValidateTaskName accepts non-empty names made of ASCII letters, digits, '-' and '_'.
func ValidateTaskName(name string) (bool, string) {
	if name == "" {
		return false, "Task name cannot be empty"
	}
	for _, r := range name {
		if !isTaskNameRune(r) {
			return false, fmt.Sprintf("Task name contains invalid character %q (use letters, digits, hyphens and underscores only)", r)
		}
	}
	return true, ""
}

func isTaskNameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '-', r == '_':
		return true
	default:
		return false
	}
}

// ValidateCommand accepts any command that is non-empty after trimming.
func ValidateCommand(command string) (bool, string) {
	if strings.TrimSpace(command) == "" {
		return false, "Command cannot be empty"
	}
	return true, ""
}

// ValidateInterval accepts seconds >= 1.
func ValidateInterval(seconds int) (bool, string) {
	if seconds < 1 {
		return false, "Interval must be a positive integer (at least 1 second)"
	}
	return true, ""
}

// ValidateHour accepts 0-23.
func ValidateHour(hour int) (bool, string) {
	if hour < 0 || hour > 23 {
		return false, "Hour must be between 0 and 23"
	}
	return true, ""
}

// ValidateMinute accepts 0-59.
func ValidateMinute(minute int) (bool, string) {
	if minute < 0 || minute > 59 {
		return false, "Minute must be between 0 and 59"
	}
	return true, ""
}

// ValidateDomain accepts reverse-DNS style namespaces such as "com.example.tool":
// dot-separated, non-empty segments of ASCII letters, digits, '-' and '_'.
func ValidateDomain(domain string) (bool, string) {
	if domain == "" {
		return false, "Domain cannot be empty"
	}
	for _, segment := range strings.Split(domain, ".") {
		if segment == "" {
			return false, fmt.Sprintf("Domain %q has an empty segment", domain)
		}
		for _, r := range segment {
			if !isTaskNameRune(r) {
				return false, fmt.Sprintf("Domain %q contains invalid character %q", domain, r)
			}
		}
	}
	return true, ""
}

// ParseTimeOfDay parses "HH:MM" (24-hour clock, leading zeros optional)
// into an hour and minute that pass ValidateHour and ValidateMinute.
func ParseTimeOfDay(s string) (hour, minute int, err error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, 0, fmt.Errorf("time %q must be HH:MM", s)
	}
	hour, err = strconv.Atoi(h)
	if err != nil {
		return 0, 0, fmt.Errorf("time %q must be HH:MM", s)
	}
	minute, err = strconv.Atoi(m)
	if err != nil {
		return 0, 0, fmt.Errorf("time %q must be HH:MM", s)
	}
	if ok, msg := ValidateHour(hour); !ok {
		return 0, 0, errors.New(msg)
	}
	if ok, msg := ValidateMinute(minute); !ok {
		return 0, 0, errors.New(msg)
	}
	return hour, minute, nil
}
