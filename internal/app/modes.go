package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"retrato/internal/mcpserver"
	"retrato/internal/tui/controller"
	"retrato/internal/tui/model"
	"retrato/pkg/logging"
)

// runCLIMode walks one session from the flags, printing each step to out.
func runCLIMode(ctx context.Context, config *Config, services *Services, out io.Writer) error {
	logging.Info("CLI", "Running in no-TUI mode.")
	if err := config.validateSession(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := services.NewWizard(newConsoleUI(out))
	if err != nil {
		return fmt.Errorf("failed to create wizard session: %w", err)
	}
	defer func() {
		if err := w.Close(); err != nil {
			logging.Warn("CLI", "closing camera: %v", err)
		}
	}()
	logging.Info("CLI", "Session %s", w.Session())

	if err := w.Begin(); err != nil {
		return err
	}
	if err := w.ConfirmHeight(ctx, config.Height); err != nil {
		return err
	}

	if config.UseCamera {
		err = w.Snap(ctx)
	} else {
		var data []byte
		data, err = os.ReadFile(config.PhotoPath)
		if err != nil {
			return fmt.Errorf("reading photo: %w", err)
		}
		err = w.LoadPhoto(filepath.Base(config.PhotoPath), data)
	}
	if err != nil {
		return err
	}

	if config.TestPrint {
		if err := w.TestPhoto(ctx); err != nil {
			return err
		}
	}
	if err := w.ConfirmPhoto(ctx); err != nil {
		return err
	}

	logging.Info("CLI", "Portrait sent to the robot.")
	return nil
}

// runTUIMode executes the interactive terminal UI mode
func runTUIMode(ctx context.Context, config *Config, services *Services) error {
	logging.Info("CLI", "Starting TUI mode...")

	// Switch logging to channel-based system for TUI integration
	logLevel := cliLogLevel(config.Debug, config.RetratoConfig.LogLevel)
	logChan := logging.InitForTUI(logLevel)
	defer logging.CloseTUIChannel()

	p, _, err := controller.NewProgram(model.TUIConfig{
		DebugMode:     config.Debug,
		DarkMode:      true,
		NewWizard:     services.NewWizard,
		AlertDuration: config.RetratoConfig.Wizard.AlertDuration,
		LogChannel:    logChan,
	})
	if err != nil {
		logging.Error("TUI-Lifecycle", err, "Error creating TUI program")
		return err
	}

	// Run the TUI until user exits
	if _, err := p.Run(); err != nil {
		logging.Error("TUI-Lifecycle", err, "Error running TUI program")
		return err
	}
	logging.Info("TUI-Lifecycle", "TUI exited.")

	return nil
}

// runMCPMode serves wizard tools until interrupted.
func runMCPMode(ctx context.Context, config *Config, services *Services) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := mcpserver.New(config.Version, services.NewWizard)
	if err != nil {
		return err
	}
	return srv.Serve(ctx, config.RetratoConfig.MCP)
}
