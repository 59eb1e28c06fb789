package cli

import (
	"github.com/den-cli/den/internal/app"
	"github.com/den-cli/den/internal/domain"
	"github.com/spf13/cobra"
)

// newLaunchctlCommand creates the launchctl command group.
func newLaunchctlCommand(c *app.Container) *cobra.Command {
	var domainFlag string

	cmd := &cobra.Command{
		Use:     "launchctl",
		Aliases: []string{"agents"},
		Short:   "Manage scheduled LaunchAgents",
		Long: `Manage per-user LaunchAgents owned by a domain.

Every agent is labelled <domain>.<task> and stored as
<agents dir>/<domain>.<task>.plist. The domain comes from --domain or
[launchctl].domain in the config file.`,
		// No RunE: shows subcommand list when called without arguments
	}

	cmd.PersistentFlags().StringVar(&domainFlag, "domain", "", "Label domain, e.g. com.example.den (overrides config)")

	domainOf := func() (string, error) {
		return resolveDomain(c, domainFlag)
	}

	cmd.AddCommand(
		newInstallCommand(c, domainOf),
		newUninstallCommand(c, domainOf),
		newListCommand(c, domainOf),
		newShowCommand(c, domainOf),
		newValidateCommand(c, domainOf),
	)

	return cmd
}

// resolveDomain returns the flag value, falling back to the configured domain.
func resolveDomain(c *app.Container, flag string) (string, error) {
	d := flag
	if d == "" && c.AppConfig != nil {
		d = c.AppConfig.Launchctl.Domain
	}
	if d == "" {
		return "", domain.ErrDomainNotConfigured
	}
	if ok, msg := domain.ValidateDomain(d); !ok {
		return "", &domain.ConfigError{Path: "--domain", Err: errorString(msg)}
	}
	return d, nil
}

// errorString is an error carrying a validator message verbatim.
type errorString string

func (e errorString) Error() string { return string(e) }
