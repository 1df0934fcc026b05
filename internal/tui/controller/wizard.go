package controller

import (
	tea "github.com/charmbracelet/bubbletea"

	"retrato/internal/tui/model"
	"retrato/internal/tui/view"
	"retrato/internal/wizard"
	"retrato/pkg/logging"
)

// handleWizardMsg mirrors a wizard UI call into the model.
func handleWizardMsg(m *model.Model, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case model.StepChangedMsg:
		m.Step = msg.Step
		if msg.Step == wizard.StepHeight {
			return m.HeightInput.Focus()
		}
		m.HeightInput.Blur()

	case model.AlertMsg:
		return m.SetAlert(msg.Target, msg.Message)

	case model.PhotoShownMsg:
		m.Photo = msg.Photo
		m.PhotoPreview = ""
		m.TestPreview, m.TestPreviewURL = "", ""
		if msg.Photo != nil {
			m.PhotoPreview = view.PhotoPreview(msg.Photo, view.PreviewColumns(m.Width))
		}

	case model.CaptureControlsMsg:
		m.CaptureControls = msg.Visible

	case model.BusyMsg:
		m.Busy = msg.Busy
		if msg.Busy {
			return m.Spinner.Tick
		}

	case model.TestPreviewMsg:
		m.TestPreviewURL = msg.URL
		return model.FetchPreviewCmd(m.Wizard, model.PreviewTest)

	case model.ResultMsg:
		m.ResultURL = msg.URL
		m.ProgressValue = 0
		return model.FetchPreviewCmd(m.Wizard, model.PreviewResult)

	case model.ProgressMsg:
		m.ProgressValue = msg.Fraction
	}
	return nil
}

func handlePreviewLoaded(m *model.Model, msg model.PreviewLoadedMsg) {
	if msg.Err != nil {
		logging.Warn(controllerSubsystem, "preview unavailable: %v", msg.Err)
		return
	}
	rendered, err := view.PreviewFromBytes(msg.Data, view.PreviewColumns(m.Width))
	if err != nil {
		logging.Warn(controllerSubsystem, "preview is not an image: %v", err)
		return
	}
	switch msg.Kind {
	case model.PreviewTest:
		m.TestPreview = rendered
	case model.PreviewResult:
		m.ResultPreview = rendered
	}
}
