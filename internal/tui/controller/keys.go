package controller

import (
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"retrato/internal/color"
	"retrato/internal/tui/model"
	"retrato/internal/wizard"
	"retrato/pkg/logging"
)

// handleKeyMsg routes a key press: overlays first, then text inputs, then
// the keys of the current wizard step.
func handleKeyMsg(m *model.Model, msg tea.KeyMsg) (*model.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return quit(m)
	}

	switch m.CurrentAppMode {
	case model.ModeHelpOverlay:
		if key.Matches(msg, m.Keys.Help, m.Keys.Esc) {
			m.CurrentAppMode = m.LastAppMode
		}
		return m, nil
	case model.ModeLogOverlay:
		return handleLogOverlayKey(m, msg)
	}

	if m.InputFocused() {
		return handleInputKey(m, msg)
	}

	switch {
	case key.Matches(msg, m.Keys.Quit):
		return quit(m)
	case key.Matches(msg, m.Keys.Help):
		m.LastAppMode = m.CurrentAppMode
		m.CurrentAppMode = model.ModeHelpOverlay
		return m, nil
	case key.Matches(msg, m.Keys.ToggleLog):
		m.LastAppMode = m.CurrentAppMode
		m.CurrentAppMode = model.ModeLogOverlay
		m.LogViewport.GotoBottom()
		return m, nil
	case key.Matches(msg, m.Keys.ToggleDark):
		m.DarkMode = !m.DarkMode
		color.Initialize(m.DarkMode)
		return m, nil
	}

	if m.Busy {
		return m, nil
	}

	switch m.Step {
	case wizard.StepIntro:
		if key.Matches(msg, m.Keys.Enter) {
			return m, model.BeginCmd(m.Wizard)
		}
	case wizard.StepHeight:
		if key.Matches(msg, m.Keys.Enter) {
			return m, m.HeightInput.Focus()
		}
	case wizard.StepPhoto:
		return handlePhotoKey(m, msg)
	case wizard.StepResult:
		if key.Matches(msg, m.Keys.NewSession, m.Keys.Enter) {
			return m, model.NewSessionCmd(m.Wizard, m.NewWizard, m.UI.Next())
		}
	}
	return m, nil
}

func handlePhotoKey(m *model.Model, msg tea.KeyMsg) (*model.Model, tea.Cmd) {
	if m.CaptureControls {
		switch {
		case key.Matches(msg, m.Keys.Snap):
			return m, model.SnapCmd(m.Wizard)
		case key.Matches(msg, m.Keys.Open):
			m.PathInputActive = true
			return m, m.PathInput.Focus()
		case key.Matches(msg, m.Keys.Enter):
			return m, model.ConfirmPhotoCmd(m.Wizard)
		}
	} else {
		switch {
		case key.Matches(msg, m.Keys.Retake):
			return m, model.RetakeCmd(m.Wizard)
		case key.Matches(msg, m.Keys.Enter):
			return m, model.ConfirmPhotoCmd(m.Wizard)
		}
	}

	if !m.Features.TestStep || len(m.Formats) == 0 {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.Keys.Test):
		return m, model.TestPhotoCmd(m.Wizard)
	case key.Matches(msg, m.Keys.NextFormat):
		m.FormatIndex = (m.FormatIndex + 1) % len(m.Formats)
	case key.Matches(msg, m.Keys.PrevFormat):
		m.FormatIndex = (m.FormatIndex - 1 + len(m.Formats)) % len(m.Formats)
	default:
		return m, nil
	}
	f, _ := m.SelectedFormat()
	m.TestPreview, m.TestPreviewURL = "", ""
	return m, model.SelectFormatCmd(m.Wizard, f.Name)
}

// handleInputKey feeds keys to the focused text input.
func handleInputKey(m *model.Model, msg tea.KeyMsg) (*model.Model, tea.Cmd) {
	var cmd tea.Cmd

	if m.PathInputActive {
		switch msg.Type {
		case tea.KeyEsc:
			m.PathInputActive = false
			m.PathInput.Blur()
			return m, nil
		case tea.KeyEnter:
			if m.Busy {
				return m, nil
			}
			return m, model.LoadPhotoCmd(m.Wizard, m.PathInput.Value())
		}
		m.PathInput, cmd = m.PathInput.Update(msg)
		return m, cmd
	}

	switch msg.Type {
	case tea.KeyEsc:
		m.HeightInput.Blur()
		return m, nil
	case tea.KeyEnter:
		if m.Busy {
			return m, nil
		}
		return m, model.ConfirmHeightCmd(m.Wizard, m.HeightInput.Value())
	}
	m.HeightInput, cmd = m.HeightInput.Update(msg)
	return m, cmd
}

func handleLogOverlayKey(m *model.Model, msg tea.KeyMsg) (*model.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.ToggleLog, m.Keys.Esc):
		m.CurrentAppMode = m.LastAppMode
		return m, nil
	case key.Matches(msg, m.Keys.CopyLogs):
		if err := clipboard.WriteAll(strings.Join(m.ActivityLog, "\n")); err != nil {
			logging.Error(controllerSubsystem, err, "copying activity log")
			return m, m.SetStatusMessage("Copy logs failed", model.StatusBarError, 3*time.Second)
		}
		return m, m.SetStatusMessage("Logs copied to clipboard", model.StatusBarSuccess, 3*time.Second)
	}
	var cmd tea.Cmd
	m.LogViewport, cmd = m.LogViewport.Update(msg)
	return m, cmd
}

func quit(m *model.Model) (*model.Model, tea.Cmd) {
	m.CurrentAppMode = model.ModeQuitting
	m.QuittingMessage = "Releasing camera..."
	if m.Wizard != nil {
		if err := m.Wizard.Close(); err != nil {
			logging.Warn(controllerSubsystem, "closing wizard: %v", err)
		}
	}
	return m, tea.Quit
}
