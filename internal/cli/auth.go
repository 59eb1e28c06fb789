package cli

import (
	"errors"
	"fmt"

	"github.com/den-cli/den/internal/app"
	"github.com/den-cli/den/internal/domain"
	"github.com/den-cli/den/internal/usecase"
	"github.com/spf13/cobra"
)

// newAuthCommand creates the auth command.
func newAuthCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage stored credentials",
		Long: `Manage credentials used by den.

Credentials live in the macOS keychain ([auth].backend = "keychain") or
in a 0600 JSON file under the config directory ([auth].backend = "file").
Agents reference them by key with 'launchctl install --env-secret'.`,
		// No RunE: shows subcommand list when called without arguments
	}

	cmd.AddCommand(newAuthSetCommand(c))
	cmd.AddCommand(newAuthGetCommand(c))
	cmd.AddCommand(newAuthDeleteCommand(c))
	cmd.AddCommand(newAuthListCommand(c))
	cmd.AddCommand(newAuthMigrateCommand(c))

	return cmd
}

// newAuthSetCommand creates the auth set subcommand.
func newAuthSetCommand(c *app.Container) *cobra.Command {
	var value string

	cmd := &cobra.Command{
		Use:   "set <key>",
		Short: "Store a credential",
		Long: `Store a credential under key.

The value is prompted for without echo unless --value is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("value") {
				var err error
				value, err = prompterFor(c, cmd).AskSecret(fmt.Sprintf("Value for %s:", args[0]))
				if err != nil {
					return err
				}
			}

			out, err := c.SetCredentialUseCase().Execute(cmd.Context(), usecase.SetCredentialInput{
				Key:   args[0],
				Value: value,
			})
			if err != nil {
				return err
			}

			verb := "Stored"
			if out.Replaced {
				verb = "Updated"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s credential '%s'\n", verb, args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&value, "value", "", "Credential value (visible in shell history)")

	return cmd
}

// newAuthGetCommand creates the auth get subcommand.
func newAuthGetCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print a credential",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.GetCredentialUseCase().Execute(cmd.Context(), usecase.GetCredentialInput{Key: args[0]})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.Value)
			return nil
		},
	}
}

// newAuthDeleteCommand creates the auth delete subcommand.
func newAuthDeleteCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <key>",
		Aliases: []string{"rm"},
		Short:   "Delete a credential",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.DeleteCredentialUseCase().Execute(cmd.Context(), usecase.DeleteCredentialInput{Key: args[0]}); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted credential '%s'\n", args[0])
			return nil
		},
	}
}

// newAuthListCommand creates the auth list subcommand.
func newAuthListCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List credential keys",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ListCredentialsUseCase().Execute(cmd.Context(), usecase.ListCredentialsInput{})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(out.Keys) == 0 {
				_, _ = fmt.Fprintln(w, "No credentials stored")
				return nil
			}
			for _, key := range out.Keys {
				_, _ = fmt.Fprintln(w, key)
			}
			return nil
		},
	}
}

// newAuthMigrateCommand creates the auth migrate subcommand.
func newAuthMigrateCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Move file credentials into the keychain",
		Long: `Move credentials from the JSON credential file into the macOS keychain.

Keys already present in the keychain keep their keychain value. Every
migrated or skipped key is removed from the file afterwards. Nothing is
removed if any keychain operation fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if c.AppConfig != nil && c.AppConfig.Auth.Backend == domain.AuthBackendFile {
				return errors.New(`[auth].backend is "file"; set it to "keychain" before migrating`)
			}

			out, err := c.MigrateCredentialsUseCase().Execute(cmd.Context(), usecase.MigrateCredentialsInput{})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(out.Migrated) == 0 && len(out.Skipped) == 0 {
				_, _ = fmt.Fprintln(w, "No credentials to migrate")
				return nil
			}
			for _, key := range out.Migrated {
				_, _ = fmt.Fprintf(w, "Migrated credential '%s'\n", key)
			}
			for _, key := range out.Skipped {
				_, _ = fmt.Fprintf(w, "Skipped credential '%s' (already in keychain)\n", key)
			}
			return nil
		},
	}
}
