// Package app provides the dependency injection container for the application.
package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/den-cli/den/internal/domain"
	"github.com/den-cli/den/internal/infra/agentdir"
	"github.com/den-cli/den/internal/infra/config"
	"github.com/den-cli/den/internal/infra/executor"
	"github.com/den-cli/den/internal/infra/jsonstore"
	"github.com/den-cli/den/internal/infra/keychain"
	"github.com/den-cli/den/internal/infra/launchctl"
	"github.com/den-cli/den/internal/infra/logging"
	"github.com/den-cli/den/internal/infra/plistcodec"
	"github.com/den-cli/den/internal/usecase"
)

// Config holds the resolved application paths.
type Config struct {
	ConfigDir       string // ~/.config/den
	AgentsDir       string // ~/Library/LaunchAgents unless overridden
	LogPath         string // Rotated log file
	CredentialsPath string // File credential store
}

// Options controls container construction.
type Options struct {
	Debug bool // Log at debug level regardless of config
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Executor      domain.CommandExecutor
	Codec         domain.PlistCodec
	Agents        domain.AgentStore
	Runner        domain.AgentRunner
	Credentials   domain.CredentialStore
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager

	// Both credential backends, for migrating from the file store to the keychain.
	// Credentials is one of them, chosen by [auth].backend.
	FileCredentials     domain.CredentialStore
	KeychainCredentials domain.CredentialStore

	// Prompter overrides the interactive prompter.
	// When nil, commands prompt on their own stdin/stdout.
	Prompter domain.Prompter

	// ConfigErr is the error from loading the config file.
	// AppConfig holds defaults when it is set.
	ConfigErr error

	// Pointer fields
	AppConfig *domain.Config
	Logger    *slog.Logger
	logFile   *logging.Logger

	// Configuration
	Config Config
}

// New creates a Container from the user's config file.
// A broken config file does not fail construction; it is reported through ConfigErr
// so that commands which repair the config keep working.
func New(opts Options) (*Container, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("determine home directory: %w", err)
	}

	configDir := domain.DefaultConfigDir()
	configLoader := config.NewLoader()
	appConfig, configErr := configLoader.Load()
	if configErr != nil {
		appConfig = domain.NewDefaultConfig()
	}

	cfg := Config{
		ConfigDir:       configDir,
		AgentsDir:       appConfig.Launchctl.AgentsDir,
		LogPath:         appConfig.Log.File,
		CredentialsPath: domain.CredentialsPath(configDir),
	}
	if cfg.AgentsDir == "" {
		cfg.AgentsDir = domain.DefaultAgentsDir(home)
	}
	if cfg.LogPath == "" {
		cfg.LogPath = domain.LogPath(configDir)
	}

	level := logging.ParseLevel(appConfig.Log.Level)
	if opts.Debug {
		level = slog.LevelDebug
	}
	logFile := logging.New(cfg.LogPath, level)

	exec := executor.NewClient()

	fileCreds := jsonstore.New(cfg.CredentialsPath)
	keychainCreds := keychain.New(exec, appConfig.Auth.Service)
	var creds domain.CredentialStore = keychainCreds
	if appConfig.Auth.Backend == domain.AuthBackendFile {
		creds = fileCreds
	}

	return &Container{
		Executor:            exec,
		Codec:               plistcodec.New(),
		Agents:              agentdir.New(cfg.AgentsDir),
		Runner:              launchctl.NewRunner(exec, appConfig.LaunchctlTimeout()),
		Credentials:         creds,
		ConfigLoader:        configLoader,
		ConfigManager:       config.NewManager(),
		FileCredentials:     fileCreds,
		KeychainCredentials: keychainCreds,
		ConfigErr:           configErr,
		AppConfig:           appConfig,
		Logger:              logFile.Slog(),
		logFile:             logFile,
		Config:              cfg,
	}, nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(
	cfg Config,
	appConfig *domain.Config,
	agents domain.AgentStore,
	runner domain.AgentRunner,
	creds domain.CredentialStore,
	logger *slog.Logger,
) *Container {
	if appConfig == nil {
		appConfig = domain.NewDefaultConfig()
	}
	return &Container{
		Codec:         plistcodec.New(),
		Agents:        agents,
		Runner:        runner,
		Credentials:   creds,
		ConfigLoader:  config.NewLoaderWithDir(cfg.ConfigDir),
		ConfigManager: config.NewManagerWithDir(cfg.ConfigDir),
		AppConfig:     appConfig,
		Logger:        logger,
		Config:        cfg,
	}
}

// Close releases the log file.
func (c *Container) Close() error {
	if c.logFile == nil {
		return nil
	}
	return c.logFile.Close()
}

// UseCase factory methods

// InstallAgentUseCase returns a new InstallAgent use case.
func (c *Container) InstallAgentUseCase() *usecase.InstallAgent {
	return usecase.NewInstallAgent(c.Agents, c.Codec, c.Runner, c.Credentials, c.Logger)
}

// UninstallAgentUseCase returns a new UninstallAgent use case.
func (c *Container) UninstallAgentUseCase() *usecase.UninstallAgent {
	return usecase.NewUninstallAgent(c.Agents, c.Runner, c.Logger)
}

// ListAgentsUseCase returns a new ListAgents use case.
func (c *Container) ListAgentsUseCase() *usecase.ListAgents {
	return usecase.NewListAgents(c.Agents, c.Codec, c.Runner)
}

// ShowAgentUseCase returns a new ShowAgent use case.
func (c *Container) ShowAgentUseCase() *usecase.ShowAgent {
	return usecase.NewShowAgent(c.Agents, c.Codec)
}

// ValidatePlistUseCase returns a new ValidatePlist use case.
func (c *Container) ValidatePlistUseCase() *usecase.ValidatePlist {
	return usecase.NewValidatePlist(c.Codec)
}

// SetCredentialUseCase returns a new SetCredential use case.
func (c *Container) SetCredentialUseCase() *usecase.SetCredential {
	return usecase.NewSetCredential(c.Credentials, c.Logger)
}

// GetCredentialUseCase returns a new GetCredential use case.
func (c *Container) GetCredentialUseCase() *usecase.GetCredential {
	return usecase.NewGetCredential(c.Credentials)
}

// DeleteCredentialUseCase returns a new DeleteCredential use case.
func (c *Container) DeleteCredentialUseCase() *usecase.DeleteCredential {
	return usecase.NewDeleteCredential(c.Credentials, c.Logger)
}

// ListCredentialsUseCase returns a new ListCredentials use case.
func (c *Container) ListCredentialsUseCase() *usecase.ListCredentials {
	return usecase.NewListCredentials(c.Credentials)
}

// MigrateCredentialsUseCase returns a new MigrateCredentials use case
// moving credentials from the file store into the keychain.
func (c *Container) MigrateCredentialsUseCase() *usecase.MigrateCredentials {
	return usecase.NewMigrateCredentials(c.FileCredentials, c.KeychainCredentials, c.Logger)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}
