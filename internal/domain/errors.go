package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors.
var (
	ErrEmptyLabel            = errors.New("label cannot be empty")
	ErrEmptyProgramArguments = errors.New("program arguments cannot be empty")
	ErrInvalidTaskConfig     = errors.New("invalid task config")
	ErrAgentNotFound         = errors.New("agent not found")
	ErrAgentExists           = errors.New("agent already installed (use --force to replace it)")
	ErrDomainNotConfigured   = errors.New("launchctl domain not configured (set [launchctl].domain in config.toml or pass --domain)")
	ErrCredentialNotFound    = errors.New("credential not found")
	ErrEmptyCredentialKey    = errors.New("credential key cannot be empty")
	ErrConfigExists          = errors.New("config file already exists")
	ErrPromptCancelled       = errors.New("cancelled")
)

// PlistError reports a failure to generate or parse an agent definition.
type PlistError struct {
	Err    error
	Op     string // "generate" or "parse"
	Reason string
}

func (e *PlistError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("plist %s: %s: %v", e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("plist %s: %s", e.Op, e.Reason)
}

func (e *PlistError) Unwrap() error { return e.Err }

// FilesystemError reports a failed file or directory operation.
type FilesystemError struct {
	Err  error
	Op   string
	Path string
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }

// LifecycleError reports a non-zero exit from the service manager.
// Stderr is the captured output, verbatim.
type LifecycleError struct {
	Err      error
	Op       string // "load" or "unload"
	Target   string
	Stderr   string
	ExitCode int
}

func (e *LifecycleError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("launchctl %s %s failed (exit %d): %s", e.Op, e.Target, e.ExitCode, msg)
}

func (e *LifecycleError) Unwrap() error { return e.Err }

// notLoadedMarkers are launchctl replies meaning the agent is not registered.
var notLoadedMarkers = []string{
	"could not find specified service",
	"no such process",
	"not loaded",
	"could not find service",
}

// NotLoaded reports whether the failure means the agent was not loaded in the first place.
func (e *LifecycleError) NotLoaded() bool {
	stderr := strings.ToLower(e.Stderr)
	for _, marker := range notLoadedMarkers {
		if strings.Contains(stderr, marker) {
			return true
		}
	}
	return false
}

// ConfigError reports an unreadable or malformed configuration file.
type ConfigError struct {
	Err  error
	Path string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// CredentialError reports a credential store failure.
type CredentialError struct {
	Err error
	Op  string
	Key string
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("credential %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *CredentialError) Unwrap() error { return e.Err }
