package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a config file with raw YAML content
func writeConfigFile(t *testing.T, dir, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, configFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// mockPaths points both layers at tempDir and restores them afterwards.
func mockPaths(t *testing.T, tempDir string) {
	t.Helper()
	originalHome, originalWd := osUserHomeDir, osGetwd
	t.Cleanup(func() {
		osUserHomeDir, osGetwd = originalHome, originalWd
	})
	osUserHomeDir = func() (string, error) { return filepath.Join(tempDir, "home"), nil }
	osGetwd = func() (string, error) { return filepath.Join(tempDir, "work"), nil }
}

func TestLoadConfig_DefaultOnly(t *testing.T) {
	mockPaths(t, t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), cfg)
	assert.Equal(t, DefaultChromaThreshold, cfg.Wizard.ChromaThreshold)
	assert.Equal(t, 3*time.Second, cfg.Wizard.AlertDuration)
}

func TestLoadConfig_UserOverride(t *testing.T) {
	tempDir := t.TempDir()
	mockPaths(t, tempDir)

	writeConfigFile(t, filepath.Join(tempDir, "home", userConfigDir), `
backend:
  baseURL: "http://robot.local:5000"
wizard:
  chromaKey: true
  alertDuration: 5s
  formats:
    - name: "A4"
      width: 200
      height: 290
    - name: "Letter"
      width: 216
      height: 279
`)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://robot.local:5000", cfg.Backend.BaseURL)
	assert.Equal(t, 5*time.Minute, cfg.Backend.Timeout, "absent keys keep defaults")
	assert.True(t, cfg.Wizard.ChromaKey)
	assert.Equal(t, 5*time.Second, cfg.Wizard.AlertDuration)
	assert.Equal(t, DefaultChromaThreshold, cfg.Wizard.ChromaThreshold)

	require.Len(t, cfg.Wizard.Formats, 4)
	a4, ok := cfg.Wizard.FindFormat("A4")
	require.True(t, ok)
	assert.Equal(t, 200, a4.Width)
	assert.Equal(t, "Letter", cfg.Wizard.Formats[3].Name)
}

func TestLoadConfig_ProjectOverridesUser(t *testing.T) {
	tempDir := t.TempDir()
	mockPaths(t, tempDir)

	writeConfigFile(t, filepath.Join(tempDir, "home", userConfigDir), `
wizard:
  testStep: true
  progressSteps: 4
`)
	writeConfigFile(t, filepath.Join(tempDir, "work", projectConfigDir), `
wizard:
  progressSteps: 20
mcp:
  transport: sse
  port: 9000
`)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.Wizard.TestStep, "user layer survives when project does not set it")
	assert.Equal(t, 20, cfg.Wizard.ProgressSteps)
	assert.Equal(t, MCPTransportSSE, cfg.MCP.Transport)
	assert.Equal(t, "localhost:9000", cfg.MCP.Addr())
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	tempDir := t.TempDir()
	mockPaths(t, tempDir)
	writeConfigFile(t, filepath.Join(tempDir, "work", projectConfigDir), "wizard: [not, a, map")

	_, err := LoadConfig()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "project config")
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tempDir := t.TempDir()
	mockPaths(t, tempDir)
	writeConfigFile(t, filepath.Join(tempDir, "work", projectConfigDir), `
wizard:
  chromaThreshold: 300
`)

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chromaThreshold")
}

func TestLoadConfigFromPath(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, `
backend:
  baseURL: "http://10.0.0.5:5000"
  timeout: 30s
`)

	cfg, err := LoadConfigFromPath(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:5000", cfg.Backend.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Backend.Timeout)

	_, err = LoadConfigFromPath(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RetratoConfig)
		wantErr string
	}{
		{"defaults", func(*RetratoConfig) {}, ""},
		{"relative url", func(c *RetratoConfig) { c.Backend.BaseURL = "robot:5000/x" }, "absolute URL"},
		{"empty url", func(c *RetratoConfig) { c.Backend.BaseURL = "" }, "baseURL must be set"},
		{"zero timeout", func(c *RetratoConfig) { c.Backend.Timeout = 0 }, "timeout"},
		{"duplicate format", func(c *RetratoConfig) {
			c.Wizard.Formats = append(c.Wizard.Formats, FormatDefinition{Name: "A4", Width: 1, Height: 1})
		}, "duplicate format"},
		{"bad format size", func(c *RetratoConfig) {
			c.Wizard.Formats = []FormatDefinition{{Name: "A4", Width: 0, Height: 10}}
		}, "positive width"},
		{"unknown default format", func(c *RetratoConfig) { c.Wizard.DefaultFormat = "B5" }, "defaultFormat"},
		{"test step without formats", func(c *RetratoConfig) {
			c.Wizard.TestStep = true
			c.Wizard.Formats = nil
			c.Wizard.DefaultFormat = ""
		}, "requires at least one format"},
		{"bad transport", func(c *RetratoConfig) { c.MCP.Transport = "grpc" }, "mcp.transport"},
		{"sse bad port", func(c *RetratoConfig) {
			c.MCP.Transport = MCPTransportSSE
			c.MCP.Port = 0
		}, "mcp.port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeFormats(t *testing.T) {
	base := []FormatDefinition{{Name: "A5", Width: 1, Height: 1}, {Name: "A4", Width: 2, Height: 2}}
	overlay := []FormatDefinition{{Name: "A4", Width: 3, Height: 3}, {Name: "A3", Width: 4, Height: 4}}

	got := mergeFormats(base, overlay)
	assert.Equal(t, []FormatDefinition{
		{Name: "A5", Width: 1, Height: 1},
		{Name: "A4", Width: 3, Height: 3},
		{Name: "A3", Width: 4, Height: 4},
	}, got)
	assert.Equal(t, 2, base[1].Width, "base slice must not be modified")
}

func TestGetUserConfigDir(t *testing.T) {
	tempDir := t.TempDir()
	mockPaths(t, tempDir)

	dir, err := GetUserConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tempDir, "home", ".config", "retrato"), dir)

	path, err := getUserConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, configFileName), path)
}
