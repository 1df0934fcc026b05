package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// RetratoConfig is the top-level configuration structure for retrato.
type RetratoConfig struct {
	LogLevel string        `yaml:"logLevel,omitempty"`
	Backend  BackendConfig `yaml:"backend"`
	Wizard   WizardConfig  `yaml:"wizard"`
	MCP      MCPConfig     `yaml:"mcp"`
	Update   UpdateConfig  `yaml:"update"`
}

// BackendConfig points at the robot-control HTTP service.
type BackendConfig struct {
	BaseURL string        `yaml:"baseURL"`
	Timeout time.Duration `yaml:"timeout,omitempty"` // per request; positioning and processing can take minutes
}

// WizardConfig holds the feature flags and timings of the wizard.
type WizardConfig struct {
	TestStep         bool               `yaml:"testStep"`
	ChromaKey        bool               `yaml:"chromaKey"`
	ChromaThreshold  int                `yaml:"chromaThreshold,omitempty"`
	TextUpload       bool               `yaml:"textUpload"`
	CameraDevice     int                `yaml:"cameraDevice"`
	AlertDuration    time.Duration      `yaml:"alertDuration,omitempty"`
	ProgressSteps    int                `yaml:"progressSteps,omitempty"`
	ProgressInterval time.Duration      `yaml:"progressInterval,omitempty"`
	DefaultFormat    string             `yaml:"defaultFormat,omitempty"`
	Formats          []FormatDefinition `yaml:"formats,omitempty"`
}

// FormatDefinition is a paper format in millimetres.
type FormatDefinition struct {
	Name   string `yaml:"name"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// MCP transports.
const (
	MCPTransportStdio = "stdio"
	MCPTransportSSE   = "sse"
)

// MCPConfig configures the `retrato mcp` tool server.
type MCPConfig struct {
	Transport string `yaml:"transport,omitempty"`
	Host      string `yaml:"host,omitempty"`
	Port      int    `yaml:"port,omitempty"`
}

// Addr returns host:port for the SSE transport.
func (c MCPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// UpdateConfig configures self-update.
type UpdateConfig struct {
	Repository string `yaml:"repository,omitempty"` // GitHub owner/name slug
}

// FindFormat returns the format with the given name.
func (c WizardConfig) FindFormat(name string) (FormatDefinition, bool) {
	for _, f := range c.Formats {
		if f.Name == name {
			return f, true
		}
	}
	return FormatDefinition{}, false
}

// Validate checks the merged configuration.
func (c RetratoConfig) Validate() error {
	var errs []error

	if c.Backend.BaseURL == "" {
		errs = append(errs, errors.New("backend.baseURL must be set"))
	} else if u, err := url.Parse(c.Backend.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("backend.baseURL %q is not an absolute URL", c.Backend.BaseURL))
	}
	if c.Backend.Timeout <= 0 {
		errs = append(errs, errors.New("backend.timeout must be positive"))
	}

	w := c.Wizard
	if w.ChromaThreshold < 0 || w.ChromaThreshold > 255 {
		errs = append(errs, fmt.Errorf("wizard.chromaThreshold %d out of range 0-255", w.ChromaThreshold))
	}
	if w.CameraDevice < 0 {
		errs = append(errs, errors.New("wizard.cameraDevice must not be negative"))
	}
	if w.AlertDuration <= 0 {
		errs = append(errs, errors.New("wizard.alertDuration must be positive"))
	}
	if w.ProgressSteps <= 0 {
		errs = append(errs, errors.New("wizard.progressSteps must be positive"))
	}
	if w.ProgressInterval < 0 {
		errs = append(errs, errors.New("wizard.progressInterval must not be negative"))
	}

	seen := make(map[string]bool, len(w.Formats))
	for _, f := range w.Formats {
		switch {
		case f.Name == "":
			errs = append(errs, errors.New("wizard.formats: format without name"))
		case seen[f.Name]:
			errs = append(errs, fmt.Errorf("wizard.formats: duplicate format %q", f.Name))
		case f.Width <= 0 || f.Height <= 0:
			errs = append(errs, fmt.Errorf("wizard.formats: format %q needs positive width and height", f.Name))
		}
		seen[f.Name] = true
	}
	if w.TestStep && len(w.Formats) == 0 {
		errs = append(errs, errors.New("wizard.testStep requires at least one format"))
	}
	if w.DefaultFormat != "" && !seen[w.DefaultFormat] {
		errs = append(errs, fmt.Errorf("wizard.defaultFormat %q is not a configured format", w.DefaultFormat))
	}

	switch c.MCP.Transport {
	case MCPTransportStdio:
	case MCPTransportSSE:
		if c.MCP.Port <= 0 || c.MCP.Port > 65535 {
			errs = append(errs, fmt.Errorf("mcp.port %d out of range", c.MCP.Port))
		}
	default:
		errs = append(errs, fmt.Errorf("mcp.transport %q must be %q or %q", c.MCP.Transport, MCPTransportStdio, MCPTransportSSE))
	}

	return errors.Join(errs...)
}
