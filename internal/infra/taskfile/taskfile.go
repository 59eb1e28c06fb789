// Package taskfile reads and writes YAML agent task definitions.
//
// A task file describes one agent without its domain:
//
//	name: backup
//	command: rsync -a ~/src /Volumes/backup
//	at: "03:30"
//	env:
//	  PATH: /usr/local/bin:/usr/bin:/bin
//	env_secrets:
//	  GITHUB_TOKEN: github_token
package taskfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/den-cli/den/internal/domain"
	"github.com/google/shlex"
	"gopkg.in/yaml.v3"
)

// Definition is a task file document. Field order is the YAML key order.
type Definition struct {
	Name       string            `yaml:"name"`
	Command    string            `yaml:"command,omitempty"`
	Args       []string          `yaml:"args,omitempty"`
	Interval   *int              `yaml:"interval,omitempty"`
	At         string            `yaml:"at,omitempty"` // "HH:MM", shorthand for hour + minute
	Hour       *int              `yaml:"hour,omitempty"`
	Minute     *int              `yaml:"minute,omitempty"`
	RunAtLoad  *bool             `yaml:"run_at_load,omitempty"`
	Env        map[string]string `yaml:"env,omitempty"`
	EnvSecrets map[string]string `yaml:"env_secrets,omitempty"` // env var -> credential key
}

// Load reads and validates the task file at path.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read task file: %w", err)
	}
	def, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("task file %s: %w", path, err)
	}
	return def, nil
}

// Parse decodes and validates a task file document. Unknown keys are errors.
func Parse(data []byte) (*Definition, error) {
	var def Definition
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty document")
		}
		return nil, err
	}
	if err := def.normalize(); err != nil {
		return nil, err
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// normalize expands At into Hour and Minute.
func (d *Definition) normalize() error {
	if d.At == "" {
		return nil
	}
	if d.Hour != nil || d.Minute != nil {
		return errors.New("at cannot be combined with hour or minute")
	}
	hour, minute, err := domain.ParseTimeOfDay(d.At)
	if err != nil {
		return fmt.Errorf("at: %w", err)
	}
	d.Hour, d.Minute, d.At = &hour, &minute, ""
	return nil
}

// Validate checks the definition with the same rules as interactive input.
func (d *Definition) Validate() error {
	if ok, msg := domain.ValidateTaskName(d.Name); !ok {
		return fmt.Errorf("name: %s", msg)
	}

	switch {
	case d.Command != "" && len(d.Args) > 0:
		return errors.New("command and args are mutually exclusive")
	case len(d.Args) > 0:
		for i, arg := range d.Args {
			if arg == "" {
				return fmt.Errorf("args[%d] cannot be empty", i)
			}
		}
	default:
		if ok, msg := domain.ValidateCommand(d.Command); !ok {
			return fmt.Errorf("command: %s", msg)
		}
		if _, err := SplitCommand(d.Command); err != nil {
			return fmt.Errorf("command: %w", err)
		}
	}

	calendar := d.Hour != nil || d.Minute != nil
	if d.Interval != nil && calendar {
		return errors.New("interval and calendar schedule are mutually exclusive")
	}
	if d.Interval != nil {
		if ok, msg := domain.ValidateInterval(*d.Interval); !ok {
			return fmt.Errorf("interval: %s", msg)
		}
	}
	if calendar {
		if d.Hour == nil || d.Minute == nil {
			return errors.New("calendar schedule needs both hour and minute")
		}
		if ok, msg := domain.ValidateHour(*d.Hour); !ok {
			return fmt.Errorf("hour: %s", msg)
		}
		if ok, msg := domain.ValidateMinute(*d.Minute); !ok {
			return fmt.Errorf("minute: %s", msg)
		}
	}

	for name := range d.Env {
		if name == "" {
			return errors.New("env: variable name cannot be empty")
		}
		if _, dup := d.EnvSecrets[name]; dup {
			return fmt.Errorf("env: %s is also listed in env_secrets", name)
		}
	}
	for name, key := range d.EnvSecrets {
		if name == "" || key == "" {
			return errors.New("env_secrets: variable name and credential key cannot be empty")
		}
	}
	return nil
}

// Arguments returns the program arguments: Args verbatim, or Command split
// with shell quoting rules.
func (d *Definition) Arguments() ([]string, error) {
	if len(d.Args) > 0 {
		return append([]string(nil), d.Args...), nil
	}
	return SplitCommand(d.Command)
}

// SplitCommand splits a command line into words using shell quoting rules.
// No expansion is performed.
func SplitCommand(command string) ([]string, error) {
	args, err := shlex.Split(command)
	if err != nil {
		return nil, fmt.Errorf("cannot split command: %w", err)
	}
	if len(args) == 0 {
		return nil, errors.New("command has no words")
	}
	return args, nil
}

// FromTaskConfig describes an installed agent as a task file.
func FromTaskConfig(task string, cfg *domain.TaskConfig) *Definition {
	runAtLoad := cfg.RunAtLoad
	def := &Definition{
		Name:      task,
		Args:      append([]string(nil), cfg.ProgramArguments...),
		RunAtLoad: &runAtLoad,
	}
	if cfg.StartInterval != nil {
		def.Interval = domain.IntPtr(*cfg.StartInterval)
	}
	if cfg.StartCalendarHour != nil && cfg.StartCalendarMinute != nil {
		def.At = fmt.Sprintf("%02d:%02d", *cfg.StartCalendarHour, *cfg.StartCalendarMinute)
	}
	if len(cfg.EnvironmentVariables) > 0 {
		def.Env = make(map[string]string, len(cfg.EnvironmentVariables))
		for k, v := range cfg.EnvironmentVariables {
			def.Env[k] = v
		}
	}
	return def
}

// Marshal encodes def as YAML with two-space indentation.
func Marshal(def *Definition) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(def); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
