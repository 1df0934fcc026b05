package model

import (
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"retrato/internal/color"
	"retrato/internal/wizard"
)

// InitializeModel creates the TUI model and the first wizard session.
func InitializeModel(cfg TUIConfig) (*Model, error) {
	if cfg.NewWizard == nil {
		return nil, errors.New("tui: wizard factory is required")
	}

	tuiChan := make(chan tea.Msg, tuiChannelSize)
	ui := NewChannelUI(tuiChan)
	w, err := cfg.NewWizard(ui)
	if err != nil {
		return nil, err
	}

	heightInput := textinput.New()
	heightInput.Placeholder = "e.g. 170"
	heightInput.Prompt = "Height (cm): "
	heightInput.CharLimit = 8
	heightInput.Width = 10

	pathInput := textinput.New()
	pathInput.Placeholder = "~/Pictures/portrait.png"
	pathInput.Prompt = "Photo file: "
	pathInput.CharLimit = 4096
	pathInput.Width = 48

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(color.Primary)

	alertDuration := cfg.AlertDuration
	if alertDuration <= 0 {
		alertDuration = DefaultAlertDuration
	}

	m := &Model{
		CurrentAppMode: ModeWizard,
		DebugMode:      cfg.DebugMode,
		DarkMode:       cfg.DarkMode,
		NewWizard:      cfg.NewWizard,
		UI:             ui,
		HeightInput:    heightInput,
		PathInput:      pathInput,
		Alerts:         make(map[wizard.AlertTarget]string),
		AlertDuration:  alertDuration,
		alertCancel:    make(map[wizard.AlertTarget]chan struct{}),
		ActivityLog:    []string{},
		LogViewport:    viewport.New(80, 20),
		Spinner:        s,
		Progress:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		Keys:           DefaultKeyMap(),
		Help:           help.New(),
		TUIChannel:     tuiChan,
		LogChannel:     cfg.LogChannel,
	}
	m.AttachWizard(w)
	return m, nil
}

// AttachWizard resets the session mirrors to a fresh controller's state.
func (m *Model) AttachWizard(w *wizard.Controller) {
	s := w.Snapshot()

	m.Wizard = w
	m.Step = s.Step
	m.Busy = s.Busy
	m.CaptureControls = s.CaptureControls
	m.Photo = s.Photo
	m.PhotoPreview = ""
	m.TestPreview, m.TestPreviewURL = "", ""
	m.ResultPreview, m.ResultURL = "", ""
	m.ProgressValue = 0
	m.Features = s.Features
	m.Formats = w.Formats()
	m.FormatIndex = 0
	if f, ok := w.Format(); ok {
		for i, candidate := range m.Formats {
			if candidate.Name == f.Name {
				m.FormatIndex = i
			}
		}
	}
	m.PathInputActive = false
	m.PathInput.Blur()
	m.HeightInput.Reset()
	m.HeightInput.Blur()
	for target := range m.Alerts {
		m.ClearAlert(target)
	}
}

// Init implements the tea.Model Init hook.
func (m *Model) Init() tea.Cmd {
	color.Initialize(m.DarkMode)
	cmds := []tea.Cmd{
		ChannelReaderCmd(m.TUIChannel),
		m.Spinner.Tick,
	}
	if cmd := ListenForLogEntriesCmd(m.LogChannel); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}
