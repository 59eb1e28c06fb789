package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/den-cli/den/internal/app"
	"github.com/den-cli/den/internal/domain"
	"github.com/den-cli/den/internal/infra/taskfile"
	"github.com/den-cli/den/internal/usecase"
	"github.com/spf13/cobra"
)

// installOptions holds the install command flags.
// Fields are ordered to minimize memory padding.
type installOptions struct {
	env         []string
	envSecrets  []string
	name        string
	command     string
	at          string
	file        string
	interval    int
	noRunAtLoad bool
	force       bool
}

// newInstallCommand creates the launchctl install subcommand.
func newInstallCommand(c *app.Container, domainOf func() (string, error)) *cobra.Command {
	var opts installOptions

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install a scheduled LaunchAgent",
		Long: `Install a LaunchAgent that runs a command on a schedule.

Values not given as flags are asked for interactively. The command line
is split with shell quoting rules; no shell expansion is performed.
A task file (--file) describes the whole agent in YAML.`,
		Example: `  den launchctl install
  den launchctl install --name backup --command "rsync -a ~/src /Volumes/backup" --at 03:30
  den launchctl install --name sync --command "gh repo sync" --interval 3600 --env-secret GITHUB_TOKEN=github_token
  den launchctl install --file backup.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			domainName, err := domainOf()
			if err != nil {
				return err
			}

			in := usecase.InstallAgentInput{
				Domain:    domainName,
				RunAtLoad: c.AppConfig.DefaultRunAtLoad(),
				Force:     opts.force,
			}

			w := cmd.OutOrStdout()
			if opts.file != "" {
				if err := applyTaskFile(cmd, &in, opts.file); err != nil {
					return err
				}
			} else {
				p := prompterFor(c, cmd)
				if err := collectInstallInput(cmd, p, w, &opts, &in); err != nil {
					return err
				}
			}

			if opts.noRunAtLoad {
				in.RunAtLoad = false
			}
			if err := mergeAssignments(&in.Env, "--env", opts.env); err != nil {
				return err
			}
			if err := mergeAssignments(&in.EnvSecrets, "--env-secret", opts.envSecrets); err != nil {
				return err
			}

			out, err := c.InstallAgentUseCase().Execute(cmd.Context(), in)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(w, "LaunchAgent installed successfully: %s\n", out.Path)
			if out.Replaced {
				_, _ = fmt.Fprintln(w, "Replaced the existing definition.")
			}
			_, _ = fmt.Fprintf(w, "  Label:    %s\n", out.Config.Label)
			_, _ = fmt.Fprintf(w, "  Schedule: %s\n", out.Config.ScheduleString())
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "Task name (letters, digits, '-' and '_')")
	cmd.Flags().StringVarP(&opts.command, "command", "c", "", "Command line to run")
	cmd.Flags().IntVar(&opts.interval, "interval", 0, "Run every N seconds")
	cmd.Flags().StringVar(&opts.at, "at", "", "Run daily at HH:MM")
	cmd.Flags().StringArrayVarP(&opts.env, "env", "e", nil, "Environment variable KEY=VALUE (repeatable)")
	cmd.Flags().StringArrayVar(&opts.envSecrets, "env-secret", nil, "Environment variable KEY=credential-key, resolved from the credential store (repeatable)")
	cmd.Flags().BoolVar(&opts.noRunAtLoad, "no-run-at-load", false, "Do not run the command when the agent is loaded")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Replace an existing agent with the same name")
	cmd.Flags().StringVar(&opts.file, "file", "", "Read the task from a YAML task file")

	cmd.MarkFlagsMutuallyExclusive("interval", "at")
	for _, name := range []string{"name", "command", "interval", "at"} {
		cmd.MarkFlagsMutuallyExclusive("file", name)
	}

	return cmd
}

// applyTaskFile fills in from the task file at path.
func applyTaskFile(cmd *cobra.Command, in *usecase.InstallAgentInput, path string) error {
	def, err := taskfile.Load(path)
	if err != nil {
		return err
	}
	args, err := def.Arguments()
	if err != nil {
		return fmt.Errorf("task file %s: %w", path, err)
	}

	in.TaskName = def.Name
	in.Args = args
	in.Interval = def.Interval
	in.Hour = def.Hour
	in.Minute = def.Minute
	in.Env = def.Env
	in.EnvSecrets = def.EnvSecrets
	if def.RunAtLoad != nil && !cmd.Flags().Changed("no-run-at-load") {
		in.RunAtLoad = *def.RunAtLoad
	}
	return nil
}

// collectInstallInput takes each value from its flag, prompting for the rest.
// Flag values are validated once; prompted values are asked again until valid.
func collectInstallInput(cmd *cobra.Command, p domain.Prompter, w io.Writer, opts *installOptions, in *usecase.InstallAgentInput) error {
	var err error

	if cmd.Flags().Changed("name") {
		if ok, msg := domain.ValidateTaskName(opts.name); !ok {
			return fmt.Errorf("invalid --name: %s", msg)
		}
		in.TaskName = opts.name
	} else {
		in.TaskName, err = askValid(p, w, "Task name:", checkWith(domain.ValidateTaskName))
		if err != nil {
			return err
		}
	}

	if cmd.Flags().Changed("command") {
		in.Args, err = parseCommand(opts.command)
		if err != nil {
			return fmt.Errorf("invalid --command: %w", err)
		}
	} else {
		_, err = askValid(p, w, "Command to execute:", func(answer string) string {
			args, err := parseCommand(answer)
			if err != nil {
				return err.Error()
			}
			in.Args = args
			return ""
		})
		if err != nil {
			return err
		}
	}

	switch {
	case cmd.Flags().Changed("interval"):
		if ok, msg := domain.ValidateInterval(opts.interval); !ok {
			return fmt.Errorf("invalid --interval: %s", msg)
		}
		in.Interval = domain.IntPtr(opts.interval)
		return nil
	case cmd.Flags().Changed("at"):
		hour, minute, err := domain.ParseTimeOfDay(opts.at)
		if err != nil {
			return fmt.Errorf("invalid --at: %w", err)
		}
		in.Hour, in.Minute = domain.IntPtr(hour), domain.IntPtr(minute)
		return nil
	}

	return askSchedule(p, w, in)
}

// askSchedule prompts for the scheduling type and its values.
func askSchedule(p domain.Prompter, w io.Writer, in *usecase.InstallAgentInput) error {
	_, _ = fmt.Fprintln(w, "Scheduling type:")
	_, _ = fmt.Fprintln(w, "  1. Interval (run every N seconds)")
	_, _ = fmt.Fprintln(w, "  2. Calendar (run at specific time daily)")
	choice, err := askValid(p, w, "Select scheduling type (1 or 2):", func(answer string) string {
		switch strings.TrimSpace(answer) {
		case scheduleChoiceInterval, scheduleChoiceCalendar:
			return ""
		}
		return "Please enter 1 or 2"
	})
	if err != nil {
		return err
	}

	if strings.TrimSpace(choice) == scheduleChoiceInterval {
		seconds, err := askInt(p, w, "Interval in seconds:", domain.ValidateInterval)
		if err != nil {
			return err
		}
		in.Interval = domain.IntPtr(seconds)
		return nil
	}

	hour, err := askInt(p, w, "Hour (0-23):", domain.ValidateHour)
	if err != nil {
		return err
	}
	minute, err := askInt(p, w, "Minute (0-59):", domain.ValidateMinute)
	if err != nil {
		return err
	}
	in.Hour, in.Minute = domain.IntPtr(hour), domain.IntPtr(minute)
	return nil
}

// parseCommand validates and splits a command line.
func parseCommand(command string) ([]string, error) {
	if ok, msg := domain.ValidateCommand(command); !ok {
		return nil, errors.New(msg)
	}
	return taskfile.SplitCommand(command)
}

// mergeAssignments adds KEY=VALUE pairs to *dst. Later pairs win.
func mergeAssignments(dst *map[string]string, flag string, pairs []string) error {
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return fmt.Errorf("invalid %s %q: want KEY=VALUE", flag, pair)
		}
		if *dst == nil {
			*dst = make(map[string]string, len(pairs))
		}
		(*dst)[strings.TrimSpace(key)] = value
	}
	return nil
}
