package model

import (
	"retrato/internal/photo"
	"retrato/internal/wizard"
	"retrato/pkg/logging"
)

// ---- Wizard UI messages, sent by ChannelUI ----

// SessionTag marks which session generation sent a wizard message.
type SessionTag struct {
	Gen uint64
}

// SessionGen returns the sending session's generation.
func (t SessionTag) SessionGen() uint64 { return t.Gen }

type StepChangedMsg struct {
	SessionTag
	Step wizard.Step
}

type AlertMsg struct {
	SessionTag
	Target  wizard.AlertTarget
	Message string
}

type PhotoShownMsg struct {
	SessionTag
	Photo *photo.Photo
}

type CaptureControlsMsg struct {
	SessionTag
	Visible bool
}

type BusyMsg struct {
	SessionTag
	Busy bool
}

type TestPreviewMsg struct {
	SessionTag
	URL string
}

type ResultMsg struct {
	SessionTag
	URL string
}

type ProgressMsg struct {
	SessionTag
	Fraction float64
}

// ---- Command results ----

// WizardOpResultMsg reports the end of a wizard operation run as a command.
type WizardOpResultMsg struct {
	Op  string
	Err error
}

// PreviewKind tells which rendering a downloaded preview belongs to.
type PreviewKind int

const (
	PreviewTest PreviewKind = iota
	PreviewResult
)

type PreviewLoadedMsg struct {
	Kind PreviewKind
	Data []byte
	Err  error
}

type NewSessionMsg struct {
	Wizard *wizard.Controller
	UI     *ChannelUI
	Err    error
}

// ---- Logging / status bar ----

type NewLogEntryMsg struct {
	Entry logging.LogEntry
}

type ClearStatusBarMsg struct{}

type ClearAlertMsg struct {
	Target wizard.AlertTarget
}
