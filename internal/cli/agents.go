package cli

import (
	"fmt"
	"io"

	"github.com/den-cli/den/internal/app"
	"github.com/den-cli/den/internal/infra/taskfile"
	"github.com/den-cli/den/internal/usecase"
	"github.com/spf13/cobra"
)

// Output formats for launchctl show.
const (
	outputXML  = "xml"
	outputYAML = "yaml"
)

// newListCommand creates the launchctl list subcommand.
func newListCommand(c *app.Container, domainOf func() (string, error)) *cobra.Command {
	var noStatus bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the LaunchAgents of the domain",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			domainName, err := domainOf()
			if err != nil {
				return err
			}

			out, err := c.ListAgentsUseCase().Execute(cmd.Context(), usecase.ListAgentsInput{
				Domain:      domainName,
				CheckLoaded: !noStatus,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(out.Agents) == 0 {
				_, _ = fmt.Fprintf(w, "No LaunchAgents found for domain '%s'\n", domainName)
				return nil
			}

			_, _ = fmt.Fprintln(w, styles.Header.Render(fmt.Sprintf("LaunchAgents for %s:", domainName)))
			for _, agent := range out.Agents {
				writeAgentLine(w, agent, !noStatus)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noStatus, "no-status", false, "Do not query launchd for loaded state")

	return cmd
}

// writeAgentLine prints one list entry.
func writeAgentLine(w io.Writer, agent usecase.AgentInfo, withStatus bool) {
	name := styles.TaskName.Render(agent.TaskName)
	if agent.Config == nil {
		_, _ = fmt.Fprintf(w, "  %s  %s\n", name, styles.Error.Render("invalid: "+agent.ParseErr.Error()))
		return
	}

	line := fmt.Sprintf("  %s  %s", name, styles.Schedule.Render(agent.Config.ScheduleString()))
	if withStatus {
		switch {
		case agent.LoadErr != nil:
			line += "  " + styles.Warning.Render("status unknown")
		case agent.Loaded:
			line += "  " + styles.Loaded.Render("loaded")
		default:
			line += "  " + styles.NotLoaded.Render("not loaded")
		}
	}
	_, _ = fmt.Fprintln(w, line)
}

// newShowCommand creates the launchctl show subcommand.
func newShowCommand(c *app.Container, domainOf func() (string, error)) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <task>",
		Short: "Show a LaunchAgent definition",
		Long: `Show the property list of an installed agent.

--output yaml prints the agent as a task file, which can be edited and
reinstalled with 'den launchctl install --file <file> --force'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			domainName, err := domainOf()
			if err != nil {
				return err
			}
			if format != outputXML && format != outputYAML {
				return fmt.Errorf("unknown output format %q (want %s or %s)", format, outputXML, outputYAML)
			}

			out, err := c.ShowAgentUseCase().Execute(cmd.Context(), usecase.ShowAgentInput{
				Domain:   domainName,
				TaskName: args[0],
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if format == outputXML {
				return writeSource(w, out.Content, "xml")
			}

			if out.Config == nil {
				return out.ParseErr
			}
			data, err := taskfile.Marshal(taskfile.FromTaskConfig(args[0], out.Config))
			if err != nil {
				return fmt.Errorf("encode task file: %w", err)
			}
			return writeSource(w, string(data), "yaml")
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", outputXML, "Output format: xml or yaml")

	return cmd
}

// newValidateCommand creates the launchctl validate subcommand.
func newValidateCommand(c *app.Container, domainOf func() (string, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a property list file",
		Long: `Check that a property list file is a valid agent definition.

When a domain is configured, files that den would not manage under it
are reported as warnings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// The domain is optional here.
			domainName, _ := domainOf()

			out, err := c.ValidatePlistUseCase().Execute(cmd.Context(), usecase.ValidatePlistInput{
				Path:   args[0],
				Domain: domainName,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, warning := range out.Warnings {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), styles.Warning.Render("Warning: "+warning))
			}
			_, _ = fmt.Fprintf(w, "%s: OK (%s, %s)\n", args[0], out.Config.Label, out.Config.ScheduleString())
			return nil
		},
	}

	return cmd
}
