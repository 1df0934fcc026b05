package controller

import (
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"retrato/internal/tui/model"
	"retrato/internal/tui/view"
	"retrato/internal/wizard"
	"retrato/pkg/logging"
)

const controllerSubsystem = "TUI"

// mainControllerDispatch is the central message routing function for the TUI.
// It directs every message to its handler and refreshes the log viewport
// afterwards.
func mainControllerDispatch(m *model.Model, msg tea.Msg) (*model.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case spinner.TickMsg, model.NewLogEntryMsg, model.ProgressMsg:
	default:
		if m.DebugMode {
			logging.Debug(controllerSubsystem, "msg %T", msg)
		}
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return handleKeyMsg(m, msg)

	case tea.WindowSizeMsg:
		return handleWindowSizeMsg(m, msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	// Wizard UI messages arrive on the TUI channel; keep listening after each.
	case model.StepChangedMsg, model.AlertMsg, model.PhotoShownMsg, model.CaptureControlsMsg,
		model.BusyMsg, model.TestPreviewMsg, model.ResultMsg, model.ProgressMsg:
		if tagged, ok := msg.(interface{ SessionGen() uint64 }); ok && tagged.SessionGen() != m.UI.Gen() {
			logging.Debug(controllerSubsystem, "dropping %T from a replaced session", msg)
			cmds = append(cmds, model.ChannelReaderCmd(m.TUIChannel))
			break
		}
		cmds = append(cmds, handleWizardMsg(m, msg), model.ChannelReaderCmd(m.TUIChannel))

	case model.WizardOpResultMsg:
		cmds = append(cmds, handleOpResult(m, msg))

	case model.PreviewLoadedMsg:
		handlePreviewLoaded(m, msg)

	case model.NewSessionMsg:
		cmds = append(cmds, handleNewSession(m, msg))

	case model.ClearAlertMsg:
		m.ClearAlert(msg.Target)

	case model.ClearStatusBarMsg:
		m.StatusBarMessage = ""

	case model.NewLogEntryMsg:
		model.AddRawLineToActivityLog(m, model.FormatLogEntry(msg.Entry))
		cmds = append(cmds, model.ListenForLogEntriesCmd(m.LogChannel))

	default:
		var cmd tea.Cmd
		if m.CurrentAppMode == model.ModeLogOverlay {
			m.LogViewport, cmd = m.LogViewport.Update(msg)
		}
		cmds = append(cmds, cmd)
	}

	refreshLogViewport(m)
	return m, tea.Batch(cmds...)
}

func refreshLogViewport(m *model.Model) {
	widthChanged := m.LogViewportLastWidth != m.LogViewport.Width
	if !m.ActivityLogDirty && !widthChanged {
		return
	}
	atBottom := m.LogViewport.AtBottom()
	m.LogViewport.SetContent(view.PrepareLogContent(m.ActivityLog, m.LogViewport.Width))
	if atBottom || m.CurrentAppMode != model.ModeLogOverlay {
		m.LogViewport.GotoBottom()
	}
	m.LogViewportLastWidth = m.LogViewport.Width
	m.ActivityLogDirty = false
}

// handleWindowSizeMsg updates the model with the new terminal dimensions.
func handleWindowSizeMsg(m *model.Model, msg tea.WindowSizeMsg) (*model.Model, tea.Cmd) {
	m.Width = msg.Width
	m.Height = msg.Height
	m.Help.Width = msg.Width

	m.LogViewport.Width = max(msg.Width-view.OverlayHorizontalFrame, 10)
	m.LogViewport.Height = max(msg.Height-view.OverlayVerticalFrame, 3)

	m.Progress.Width = min(max(msg.Width-10, 10), 60)

	if m.Photo != nil {
		m.PhotoPreview = view.PhotoPreview(m.Photo, view.PreviewColumns(m.Width))
	}
	refreshLogViewport(m)
	return m, nil
}

// handleOpResult logs failed operations. Alerts were already delivered by
// the wizard; only errors it never saw need one here.
func handleOpResult(m *model.Model, msg model.WizardOpResultMsg) tea.Cmd {
	if msg.Err == nil {
		if msg.Op == "load photo" {
			m.PathInputActive = false
			m.PathInput.Blur()
			m.PathInput.Reset()
		}
		return nil
	}

	kind, isWizardErr := wizard.KindOf(msg.Err)
	if !isWizardErr {
		logging.Error(controllerSubsystem, msg.Err, "%s failed", msg.Op)
		return m.SetAlert(wizard.AlertPhoto, "Cannot read file")
	}
	if kind == wizard.KindState {
		// Keys pressed at the wrong moment: not worth an alert.
		logging.Debug(controllerSubsystem, "%s ignored: %v", msg.Op, msg.Err)
		if errors.Is(msg.Err, wizard.ErrBusy) {
			return m.SetStatusMessage("Please wait for the robot", model.StatusBarWarning, m.AlertDuration)
		}
	}
	return nil
}

func handleNewSession(m *model.Model, msg model.NewSessionMsg) tea.Cmd {
	if msg.Err != nil {
		logging.Error(controllerSubsystem, msg.Err, "starting a new session")
		return m.SetStatusMessage("Could not start a new session", model.StatusBarError, m.AlertDuration)
	}
	m.UI = msg.UI
	m.AttachWizard(msg.Wizard)
	logging.Info(controllerSubsystem, "new session %s", msg.Wizard.Session())
	return m.SetStatusMessage("Ready for a new portrait", model.StatusBarSuccess, m.AlertDuration)
}
