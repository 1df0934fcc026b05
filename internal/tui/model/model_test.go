package model

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retrato/internal/backend"
	"retrato/internal/wizard"
	"retrato/pkg/logging"
)

type stubBackend struct{}

func (stubBackend) StartRobot(context.Context, float64) error                { return nil }
func (stubBackend) CapturePhoto(context.Context, []byte) error               { return nil }
func (stubBackend) Upload(context.Context, []byte) (string, error)           { return "ok", nil }
func (stubBackend) ProcessPhoto(context.Context, *backend.PrintFormat) error { return nil }
func (stubBackend) TestPhoto(context.Context, backend.PrintFormat) error     { return nil }
func (stubBackend) FetchPreview(context.Context) ([]byte, error)             { return nil, nil }
func (stubBackend) PreviewURL() string                                       { return "http://robot/img/pontos_dither_debug.png" }

func testFactory(features wizard.Features) WizardFactory {
	return func(ui wizard.UI) (*wizard.Controller, error) {
		return wizard.New(wizard.Options{
			Backend:  stubBackend{},
			UI:       ui,
			Features: features,
			Formats: []backend.PrintFormat{
				{Name: "A5", Width: 148, Height: 210},
				{Name: "A4", Width: 210, Height: 297},
			},
			DefaultFormat: "A4",
		})
	}
}

func TestInitializeModel(t *testing.T) {
	logChan := make(chan logging.LogEntry, 1)
	m, err := InitializeModel(TUIConfig{
		NewWizard:  testFactory(wizard.Features{TestStep: true}),
		LogChannel: logChan,
		DebugMode:  true,
	})
	require.NoError(t, err)

	assert.Equal(t, ModeWizard, m.CurrentAppMode)
	assert.Equal(t, wizard.StepIntro, m.Step)
	assert.True(t, m.Features.TestStep)
	assert.Len(t, m.Formats, 2)
	assert.Equal(t, 1, m.FormatIndex, "cursor starts on the default format")
	assert.Equal(t, DefaultAlertDuration, m.AlertDuration)
	assert.NotNil(t, m.TUIChannel)
	assert.NotNil(t, m.Init())

	f, ok := m.SelectedFormat()
	require.True(t, ok)
	assert.Equal(t, "A4", f.Name)
}

func TestInitializeModel_Errors(t *testing.T) {
	_, err := InitializeModel(TUIConfig{})
	assert.Error(t, err)

	_, err = InitializeModel(TUIConfig{NewWizard: func(wizard.UI) (*wizard.Controller, error) {
		return nil, errors.New("no backend")
	}})
	assert.EqualError(t, err, "no backend")
}

func TestChannelUI(t *testing.T) {
	ch := make(chan tea.Msg, 10)
	ui := NewChannelUI(ch)

	ui.ShowStep(wizard.StepPhoto)
	ui.Alert(wizard.AlertPhoto, wizard.MsgNoPhoto)
	ui.SetCaptureControls(true)
	ui.SetBusy(true)
	ui.ShowPhoto(nil)
	ui.ShowTestPreview("u1")
	ui.ShowResult("u2")
	ui.SetProgress(0.5)

	want := []tea.Msg{
		StepChangedMsg{Step: wizard.StepPhoto},
		AlertMsg{Target: wizard.AlertPhoto, Message: wizard.MsgNoPhoto},
		CaptureControlsMsg{Visible: true},
		BusyMsg{Busy: true},
		PhotoShownMsg{},
		TestPreviewMsg{URL: "u1"},
		ResultMsg{URL: "u2"},
		ProgressMsg{Fraction: 0.5},
	}
	for _, w := range want {
		assert.Equal(t, w, <-ch)
	}
}

func TestChannelUI_NextTagsMessages(t *testing.T) {
	ch := make(chan tea.Msg, 2)
	first := NewChannelUI(ch)
	next := first.Next()
	assert.Equal(t, uint64(0), first.Gen())
	assert.Equal(t, uint64(1), next.Gen())

	first.SetBusy(true)
	next.SetBusy(false)
	assert.Equal(t, BusyMsg{Busy: true}, <-ch)
	assert.Equal(t, BusyMsg{SessionTag: SessionTag{Gen: 1}, Busy: false}, <-ch)
}

func TestSetAlert(t *testing.T) {
	m := &Model{AlertDuration: 10 * time.Millisecond}

	cmd := m.SetAlert(wizard.AlertHeight, wizard.MsgInvalidHeight)
	require.NotNil(t, cmd)
	assert.Equal(t, wizard.MsgInvalidHeight, m.Alerts[wizard.AlertHeight])
	assert.Equal(t, ClearAlertMsg{Target: wizard.AlertHeight}, cmd())

	first := m.SetAlert(wizard.AlertPhoto, "one")
	_ = m.SetAlert(wizard.AlertPhoto, "two")
	assert.Nil(t, first(), "superseded alert timer does nothing")
	assert.Equal(t, "two", m.Alerts[wizard.AlertPhoto])

	m.ClearAlert(wizard.AlertPhoto)
	assert.NotContains(t, m.Alerts, wizard.AlertPhoto)
}

func TestSetStatusMessage(t *testing.T) {
	m := &Model{}
	cmd := m.SetStatusMessage("copied", StatusBarSuccess, time.Millisecond)
	assert.Equal(t, "copied", m.StatusBarMessage)
	assert.Equal(t, StatusBarSuccess, m.StatusBarMessageType)
	assert.Equal(t, ClearStatusBarMsg{}, cmd())
}

func TestAddRawLineToActivityLog(t *testing.T) {
	m := &Model{}
	for i := 0; i < MaxActivityLogLines+5; i++ {
		AddRawLineToActivityLog(m, fmt.Sprintf("line %d", i))
	}
	assert.Len(t, m.ActivityLog, MaxActivityLogLines)
	assert.Equal(t, "line 5", m.ActivityLog[0])
	assert.True(t, m.ActivityLogDirty)
}

func TestFormatLogEntry(t *testing.T) {
	ts := time.Date(2024, 5, 1, 13, 4, 5, 0, time.UTC)
	line := FormatLogEntry(logging.LogEntry{
		Timestamp: ts,
		Level:     logging.LevelError,
		Subsystem: "Backend",
		Message:   "request failed",
		Err:       errors.New("refused"),
	})
	assert.Equal(t, "13:04:05 [ERROR] [Backend] request failed: refused", line)
}

func TestAppMode_String(t *testing.T) {
	assert.Equal(t, "Wizard", ModeWizard.String())
	assert.Equal(t, "LogOverlay", ModeLogOverlay.String())
	assert.Equal(t, "Unknown", AppMode(99).String())
}

func TestCommands(t *testing.T) {
	m, err := InitializeModel(TUIConfig{NewWizard: testFactory(wizard.Features{})})
	require.NoError(t, err)

	msg := BeginCmd(m.Wizard)()
	assert.Equal(t, WizardOpResultMsg{Op: "begin"}, msg)
	assert.Equal(t, StepChangedMsg{Step: wizard.StepHeight}, <-m.TUIChannel)

	res := LoadPhotoCmd(m.Wizard, "/does/not/exist.png")().(WizardOpResultMsg)
	assert.Error(t, res.Err)
	_, isWizardErr := wizard.KindOf(res.Err)
	assert.False(t, isWizardErr)

	assert.Nil(t, ListenForLogEntriesCmd(nil))
}
