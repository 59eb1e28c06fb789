package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/den-cli/den/internal/app"
	"github.com/den-cli/den/internal/domain"
	"github.com/den-cli/den/internal/usecase"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

// newConfigCommand creates the config command.
func newConfigCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `Manage the den configuration file (~/.config/den/config.toml).`,
		// No RunE: shows subcommand list when called without arguments
	}

	// Add subcommands
	cmd.AddCommand(newConfigShowCommand(c))
	cmd.AddCommand(newConfigTemplateCommand())
	cmd.AddCommand(newConfigInitCommand(c))
	cmd.AddCommand(newConfigPathCommand(c))

	return cmd
}

// newConfigShowCommand creates the config show subcommand.
func newConfigShowCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display effective configuration after merging the config file onto the defaults.

Shows which config file was loaded and the final merged configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ShowConfigUseCase().Execute(cmd.Context(), usecase.ShowConfigInput{})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()

			// Display loaded file section
			_, _ = fmt.Fprintln(w, "[Loaded from]")
			switch {
			case out.File.Path == "":
				_, _ = fmt.Fprintln(w, "- (no config directory)")
			case out.File.Exists:
				_, _ = fmt.Fprintf(w, "- %s\n", out.File.Path)
			default:
				_, _ = fmt.Fprintf(w, "- %s (not found)\n", out.File.Path)
			}

			_, _ = fmt.Fprintln(w)

			// Display effective config in TOML format
			_, _ = fmt.Fprintln(w, "[Effective Config]")
			return formatEffectiveConfig(w, out.Effective)
		},
	}

	return cmd
}

// formatEffectiveConfig writes cfg as TOML with defaults filled in.
func formatEffectiveConfig(w io.Writer, cfg *domain.Config) error {
	effective := *cfg
	runAtLoad := cfg.DefaultRunAtLoad()
	effective.Launchctl.RunAtLoad = &runAtLoad

	if err := toml.NewEncoder(w).Encode(&effective); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// newConfigTemplateCommand creates the config template subcommand.
func newConfigTemplateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Output configuration template",
		Long: `Output a configuration file template to stdout.

The template uses default values and does not read the existing config file,
so it works even if that file is broken.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _ = fmt.Fprint(cmd.OutOrStdout(), domain.RenderConfigTemplate(domain.NewDefaultConfig()))
			return nil
		},
	}

	return cmd
}

// newConfigInitCommand creates the config init subcommand.
func newConfigInitCommand(c *app.Container) *cobra.Command {
	var domainName string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate configuration file",
		Long: `Generate the configuration file from a commented template.

Error conditions:
- Target file already exists: error`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := domain.NewDefaultConfig()
			if domainName != "" {
				if ok, msg := domain.ValidateDomain(domainName); !ok {
					return fmt.Errorf("invalid --domain: %s", msg)
				}
				cfg.Launchctl.Domain = domainName
			}

			out, err := c.InitConfigUseCase().Execute(cmd.Context(), usecase.InitConfigInput{Config: cfg})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created config file: %s\n", out.Path)
			return nil
		},
	}

	cmd.Flags().StringVar(&domainName, "domain", "", "LaunchAgent label domain to write, e.g. com.example.den")

	return cmd
}

// newConfigPathCommand creates the config path subcommand.
func newConfigPathCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := c.ConfigManager.GetConfigInfo()
			if info.Path == "" {
				return errors.New("config directory not available")
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), info.Path)
			return nil
		},
	}
}
