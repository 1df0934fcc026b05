package model

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"retrato/internal/backend"
	"retrato/internal/photo"
	"retrato/internal/wizard"
	"retrato/pkg/logging"
)

// AppMode represents the current mode of the application
type AppMode int

const (
	ModeWizard AppMode = iota
	ModeHelpOverlay
	ModeLogOverlay
	ModeQuitting
)

// String provides a human-readable representation of the AppMode.
func (m AppMode) String() string {
	switch m {
	case ModeWizard:
		return "Wizard"
	case ModeHelpOverlay:
		return "HelpOverlay"
	case ModeLogOverlay:
		return "LogOverlay"
	case ModeQuitting:
		return "Quitting"
	default:
		return "Unknown"
	}
}

// MessageType represents the type of status bar message
type MessageType int

const (
	StatusBarInfo MessageType = iota
	StatusBarSuccess
	StatusBarError
	StatusBarWarning
)

// Constants for UI
const (
	MaxActivityLogLines  = 1000
	DefaultAlertDuration = 3 * time.Second
	tuiChannelSize       = 256
)

// WizardFactory builds a wizard controller that reports to ui. The TUI calls
// it at start-up and for every new session.
type WizardFactory func(ui wizard.UI) (*wizard.Controller, error)

// TUIConfig configures the TUI.
type TUIConfig struct {
	DebugMode     bool
	DarkMode      bool
	NewWizard     WizardFactory
	AlertDuration time.Duration
	LogChannel    <-chan logging.LogEntry
}

// KeyMap defines all the key bindings for the application
type KeyMap struct {
	Enter      key.Binding
	Esc        key.Binding
	Snap       key.Binding
	Open       key.Binding
	Retake     key.Binding
	Test       key.Binding
	NextFormat key.Binding
	PrevFormat key.Binding
	NewSession key.Binding
	Quit       key.Binding
	Help       key.Binding
	ToggleLog  key.Binding
	CopyLogs   key.Binding
	ToggleDark key.Binding
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.Help, k.ToggleLog, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Enter, k.Esc, k.Snap, k.Open, k.Retake},
		{k.Test, k.NextFormat, k.PrevFormat, k.NewSession},
		{k.Help, k.ToggleLog, k.CopyLogs, k.ToggleDark, k.Quit},
	}
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Enter:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Esc:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel/close")),
		Snap:       key.NewBinding(key.WithKeys("s", " "), key.WithHelp("s/space", "take photo")),
		Open:       key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "load photo file")),
		Retake:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retake")),
		Test:       key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "test print")),
		NextFormat: key.NewBinding(key.WithKeys("tab", "right"), key.WithHelp("tab", "next format")),
		PrevFormat: key.NewBinding(key.WithKeys("shift+tab", "left"), key.WithHelp("shift+tab", "previous format")),
		NewSession: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new portrait")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		ToggleLog:  key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "activity log")),
		CopyLogs:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy log")),
		ToggleDark: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "toggle theme")),
	}
}

// Model represents the state of the TUI application
type Model struct {
	// Terminal dimensions
	Width  int
	Height int

	// Global application state
	CurrentAppMode  AppMode
	LastAppMode     AppMode
	DebugMode       bool
	DarkMode        bool
	QuittingMessage string

	// Wizard session
	Wizard    *wizard.Controller
	NewWizard WizardFactory
	UI        *ChannelUI

	// Mirrors of the controller's state, updated from wizard messages
	Step            wizard.Step
	Busy            bool
	CaptureControls bool
	Photo           *photo.Photo
	PhotoPreview    string
	TestPreview     string
	TestPreviewURL  string
	ResultPreview   string
	ResultURL       string
	ProgressValue   float64
	Formats         []backend.PrintFormat
	FormatIndex     int
	Features        wizard.Features

	// Inputs
	HeightInput     textinput.Model
	PathInput       textinput.Model
	PathInputActive bool

	// Alerts per wizard alert area
	Alerts        map[wizard.AlertTarget]string
	AlertDuration time.Duration
	alertCancel   map[wizard.AlertTarget]chan struct{}

	// UI State & Output
	ActivityLog          []string
	ActivityLogDirty     bool
	LogViewport          viewport.Model
	LogViewportLastWidth int
	Spinner              spinner.Model
	Progress             progress.Model
	Keys                 KeyMap
	Help                 help.Model
	TUIChannel           chan tea.Msg
	StatusBarMessage     string
	StatusBarMessageType MessageType
	StatusBarClearCancel chan struct{}

	// Logging
	LogChannel <-chan logging.LogEntry
}

// SetStatusMessage updates the status bar message
func (m *Model) SetStatusMessage(message string, msgType MessageType, clearAfter time.Duration) tea.Cmd {
	m.StatusBarMessage = message
	m.StatusBarMessageType = msgType

	if m.StatusBarClearCancel != nil {
		close(m.StatusBarClearCancel)
	}

	m.StatusBarClearCancel = make(chan struct{})
	captured := m.StatusBarClearCancel

	return tea.Tick(clearAfter, func(t time.Time) tea.Msg {
		select {
		case <-captured:
			return nil
		default:
			return ClearStatusBarMsg{}
		}
	})
}

// SetAlert shows msg on the target's alert area and schedules its removal
// after AlertDuration. A newer alert on the same target restarts the timer.
func (m *Model) SetAlert(target wizard.AlertTarget, msg string) tea.Cmd {
	if m.Alerts == nil {
		m.Alerts = make(map[wizard.AlertTarget]string)
	}
	if m.alertCancel == nil {
		m.alertCancel = make(map[wizard.AlertTarget]chan struct{})
	}
	m.Alerts[target] = msg

	if prev, ok := m.alertCancel[target]; ok {
		close(prev)
	}
	cancel := make(chan struct{})
	m.alertCancel[target] = cancel

	d := m.AlertDuration
	if d <= 0 {
		d = DefaultAlertDuration
	}
	return tea.Tick(d, func(time.Time) tea.Msg {
		select {
		case <-cancel:
			return nil
		default:
			return ClearAlertMsg{Target: target}
		}
	})
}

// ClearAlert removes the alert on target.
func (m *Model) ClearAlert(target wizard.AlertTarget) {
	delete(m.Alerts, target)
	if c, ok := m.alertCancel[target]; ok {
		close(c)
		delete(m.alertCancel, target)
	}
}

// SelectedFormat returns the format under the cursor on the Photo step.
func (m *Model) SelectedFormat() (backend.PrintFormat, bool) {
	if m.FormatIndex < 0 || m.FormatIndex >= len(m.Formats) {
		return backend.PrintFormat{}, false
	}
	return m.Formats[m.FormatIndex], true
}

// InputFocused reports whether keystrokes go to a text input.
func (m *Model) InputFocused() bool {
	return (m.Step == wizard.StepHeight && m.HeightInput.Focused()) || m.PathInputActive
}
