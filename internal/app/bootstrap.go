package app

import (
	"context"
	"fmt"
	"os"

	"retrato/internal/config"
	"retrato/pkg/logging"
)

// Application is the main application structure that bootstraps and runs retrato
type Application struct {
	config   *Config
	services *Services
}

// NewApplication creates and initializes a new application instance
func NewApplication(cfg *Config) (*Application, error) {
	// Logs go to stderr: stdout carries session output and the MCP stdio stream.
	logging.InitForCLI(cliLogLevel(cfg.Debug, ""), os.Stderr)

	var retratoCfg config.RetratoConfig
	var err error

	if cfg.ConfigPath != "" {
		retratoCfg, err = config.LoadConfigFromPath(cfg.ConfigPath)
		if err != nil {
			logging.Error("Bootstrap", err, "Failed to load retrato configuration from path: %s", cfg.ConfigPath)
			return nil, fmt.Errorf("failed to load retrato configuration from path %s: %w", cfg.ConfigPath, err)
		}
		logging.Info("Bootstrap", "Loaded configuration from custom path: %s", cfg.ConfigPath)
	} else {
		retratoCfg, err = config.LoadConfig()
		if err != nil {
			logging.Error("Bootstrap", err, "Failed to load retrato configuration")
			return nil, fmt.Errorf("failed to load retrato configuration: %w", err)
		}
		logging.Debug("Bootstrap", "Loaded configuration using layered approach")
	}

	cfg.RetratoConfig = &retratoCfg
	if err := cfg.applyOverrides(); err != nil {
		return nil, fmt.Errorf("invalid session options: %w", err)
	}
	logging.InitForCLI(cliLogLevel(cfg.Debug, retratoCfg.LogLevel), os.Stderr)

	services, err := InitializeServices(cfg)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &Application{
		config:   cfg,
		services: services,
	}, nil
}

// Run executes the application in the appropriate mode
func (a *Application) Run(ctx context.Context) error {
	if a.config.NoTUI {
		return runCLIMode(ctx, a.config, a.services, os.Stdout)
	}
	return runTUIMode(ctx, a.config, a.services)
}

// ServeMCP serves the wizard as MCP tools until ctx is cancelled.
func (a *Application) ServeMCP(ctx context.Context) error {
	return runMCPMode(ctx, a.config, a.services)
}

func cliLogLevel(debug bool, configured string) logging.LogLevel {
	if debug {
		return logging.LevelDebug
	}
	if configured == "" {
		return logging.LevelInfo
	}
	level, err := logging.ParseLevel(configured)
	if err != nil {
		logging.Warn("Bootstrap", "%v, using info", err)
	}
	return level
}
