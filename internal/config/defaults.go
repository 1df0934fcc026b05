package config

import "time"

// DefaultChromaThreshold is the channel value above which a camera pixel is
// treated as background.
const DefaultChromaThreshold = 180

// DefaultUpdateRepository is the release source for self-update.
const DefaultUpdateRepository = "retrato-robot/retrato"

// GetDefaultConfig returns the configuration used when no file overrides it.
func GetDefaultConfig() RetratoConfig {
	return RetratoConfig{
		LogLevel: "info",
		Backend: BackendConfig{
			BaseURL: "http://127.0.0.1:5000",
			Timeout: 5 * time.Minute,
		},
		Wizard: WizardConfig{
			ChromaThreshold:  DefaultChromaThreshold,
			AlertDuration:    3 * time.Second,
			ProgressSteps:    10,
			ProgressInterval: 200 * time.Millisecond,
			DefaultFormat:    "A4",
			Formats: []FormatDefinition{
				{Name: "A5", Width: 148, Height: 210},
				{Name: "A4", Width: 210, Height: 297},
				{Name: "A3", Width: 297, Height: 420},
			},
		},
		MCP: MCPConfig{
			Transport: MCPTransportStdio,
			Host:      "localhost",
			Port:      8095,
		},
		Update: UpdateConfig{
			Repository: DefaultUpdateRepository,
		},
	}
}
