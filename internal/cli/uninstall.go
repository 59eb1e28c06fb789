package cli

import (
	"fmt"

	"github.com/den-cli/den/internal/app"
	"github.com/den-cli/den/internal/usecase"
	"github.com/spf13/cobra"
)

// newUninstallCommand creates the launchctl uninstall subcommand.
func newUninstallCommand(c *app.Container, domainOf func() (string, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "uninstall [task]",
		Aliases: []string{"rm"},
		Short:   "Unload and remove a LaunchAgent",
		Long: `Unload a LaunchAgent and delete its definition.

Without a task name, the agents of the domain are listed and one is
selected by number. An agent that is not loaded is removed anyway.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			domainName, err := domainOf()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			var task string
			if len(args) == 1 {
				task = args[0]
			} else {
				listed, err := c.ListAgentsUseCase().Execute(cmd.Context(), usecase.ListAgentsInput{Domain: domainName})
				if err != nil {
					return err
				}
				if len(listed.Agents) == 0 {
					_, _ = fmt.Fprintf(w, "No LaunchAgents found for domain '%s'\n", domainName)
					return nil
				}

				_, _ = fmt.Fprintln(w, "Available LaunchAgents:")
				for i, agent := range listed.Agents {
					_, _ = fmt.Fprintf(w, "  %d. %s\n", i+1, agent.TaskName)
				}
				n, err := askChoice(prompterFor(c, cmd), w, "Select task to uninstall (number):", len(listed.Agents))
				if err != nil {
					return err
				}
				task = listed.Agents[n-1].TaskName
			}

			if _, err := c.UninstallAgentUseCase().Execute(cmd.Context(), usecase.UninstallAgentInput{
				Domain:   domainName,
				TaskName: task,
			}); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(w, "LaunchAgent '%s' uninstalled successfully\n", task)
			return nil
		},
	}

	return cmd
}
