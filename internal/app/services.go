package app

import (
	"retrato/internal/backend"
	"retrato/internal/config"
	"retrato/internal/photo"
	"retrato/internal/wizard"
	"retrato/pkg/logging"
)

// Services holds the backend client and the wizard factory shared by every
// front end.
type Services struct {
	Backend   *backend.Client
	NewWizard func(ui wizard.UI) (*wizard.Controller, error)
}

// InitializeServices creates the backend client and the session factory.
func InitializeServices(cfg *Config) (*Services, error) {
	rc := *cfg.RetratoConfig
	client := backend.New(rc.Backend.BaseURL, rc.Backend.Timeout)
	logging.Info("Bootstrap", "Robot backend at %s", client.BaseURL())

	return &Services{
		Backend: client,
		NewWizard: func(ui wizard.UI) (*wizard.Controller, error) {
			opts := WizardOptions(rc, client, ui)
			opts.OpenCamera = photo.OpenCamera
			return wizard.New(opts)
		},
	}, nil
}

// WizardOptions translates the configuration into controller options. The
// camera opener is left to the caller.
func WizardOptions(rc config.RetratoConfig, b wizard.Backend, ui wizard.UI) wizard.Options {
	w := rc.Wizard

	formats := make([]backend.PrintFormat, len(w.Formats))
	for i, f := range w.Formats {
		formats[i] = backend.PrintFormat{Name: f.Name, Width: f.Width, Height: f.Height}
	}
	defaultFormat := ""
	if len(formats) > 0 {
		defaultFormat = w.DefaultFormat
	}

	return wizard.Options{
		Backend: b,
		UI:      ui,
		Features: wizard.Features{
			TestStep:        w.TestStep,
			ChromaKey:       w.ChromaKey,
			ChromaThreshold: uint8(min(max(w.ChromaThreshold, 0), 255)),
			TextUpload:      w.TextUpload,
		},
		CameraDevice:  w.CameraDevice,
		Formats:       formats,
		DefaultFormat: defaultFormat,
		Progress: wizard.Progress{
			Steps:    w.ProgressSteps,
			Interval: w.ProgressInterval,
		},
	}
}
