// Package cli provides the command-line interface for den.
package cli

import (
	"github.com/den-cli/den/internal/app"
	"github.com/den-cli/den/internal/domain"
	"github.com/den-cli/den/internal/infra/prompt"
	"github.com/spf13/cobra"
)

// Command group IDs.
const (
	groupAgents = "agents"
	groupSetup  = "setup"
)

// configIndependent lists commands that must work with a broken config file.
var configIndependent = map[string]bool{
	"config":   true,
	"init":     true,
	"path":     true,
	"template": true,
	"help":     true,
}

// NewRootCommand creates the root command for den.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	var debug bool

	root := &cobra.Command{
		Use:   "den",
		Short: "Personal macOS automation CLI",
		Long: `den manages personal automation on macOS.

The launchctl commands install and remove per-user LaunchAgents
(~/Library/LaunchAgents) under a configured reverse-DNS domain, so
scheduled jobs can be created without writing property lists by hand.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip if container is nil (e.g. in tests)
			if c == nil || c.ConfigErr == nil {
				return nil
			}
			if configIndependent[cmd.Name()] {
				return nil
			}
			return c.ConfigErr
		},
	}

	// Parsed in main before the container is built; declared here so cobra accepts it.
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Write debug-level entries to the log file")

	// Define command groups
	root.AddGroup(
		&cobra.Group{ID: groupAgents, Title: "Agent Commands:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
	)

	launchctlCmd := newLaunchctlCommand(c)
	launchctlCmd.GroupID = groupAgents

	authCmd := newAuthCommand(c)
	authCmd.GroupID = groupSetup

	configCmd := newConfigCommand(c)
	configCmd.GroupID = groupSetup

	root.AddCommand(
		launchctlCmd,
		authCmd,
		configCmd,
	)

	return root
}

// prompterFor returns the container's prompter, or one bound to the command's streams.
func prompterFor(c *app.Container, cmd *cobra.Command) domain.Prompter {
	if c.Prompter != nil {
		return c.Prompter
	}
	return prompt.New(cmd.InOrStdin(), cmd.OutOrStdout())
}
