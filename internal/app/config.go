package app

import (
	"errors"
	"fmt"
	"net"
	"strconv"

	"retrato/internal/config"
)

// Config holds the application configuration
type Config struct {
	// UI mode
	NoTUI bool

	// Debug settings
	Debug bool

	// Directory holding config.yaml; empty means the layered lookup.
	ConfigPath string

	// Version reported by the MCP server.
	Version string

	// Unattended session, used with NoTUI.
	Height    string
	PhotoPath string
	UseCamera bool
	Format    string
	TestPrint bool

	// MCP server overrides
	MCPTransport string
	MCPAddr      string

	// Loaded retrato configuration
	RetratoConfig *config.RetratoConfig
}

// NewConfig creates a new application configuration
func NewConfig(noTUI, debug bool, configPath string) *Config {
	return &Config{
		NoTUI:      noTUI,
		Debug:      debug,
		ConfigPath: configPath,
	}
}

// validateSession checks the flags of an unattended session.
func (c *Config) validateSession() error {
	var errs []error
	if c.Height == "" {
		errs = append(errs, errors.New("--height is required with --no-tui"))
	}
	switch {
	case c.PhotoPath == "" && !c.UseCamera:
		errs = append(errs, errors.New("one of --photo or --camera is required with --no-tui"))
	case c.PhotoPath != "" && c.UseCamera:
		errs = append(errs, errors.New("--photo and --camera are mutually exclusive"))
	}
	return errors.Join(errs...)
}

// applyOverrides folds the session flags into the loaded configuration.
func (c *Config) applyOverrides() error {
	rc := c.RetratoConfig
	if c.TestPrint {
		rc.Wizard.TestStep = true
	}
	if c.Format != "" {
		rc.Wizard.DefaultFormat = c.Format
	}
	if c.Debug {
		rc.LogLevel = "debug"
	}
	if c.MCPTransport != "" {
		rc.MCP.Transport = c.MCPTransport
	}
	if c.MCPAddr != "" {
		host, port, err := net.SplitHostPort(c.MCPAddr)
		if err != nil {
			return fmt.Errorf("--addr: %w", err)
		}
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("--addr: port %q is not a number", port)
		}
		rc.MCP.Host, rc.MCP.Port = host, p
	}
	return rc.Validate()
}
