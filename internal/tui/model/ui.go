package model

import (
	tea "github.com/charmbracelet/bubbletea"

	"retrato/internal/photo"
	"retrato/internal/wizard"
)

// ChannelUI implements wizard.UI by turning every call into a message on
// the TUI channel, so the controller can run in command goroutines while
// only Update touches the model. Each session gets its own ChannelUI; its
// messages carry the session generation so late ones from a replaced
// session can be dropped.
type ChannelUI struct {
	ch  chan<- tea.Msg
	gen uint64
}

// NewChannelUI creates a UI that sends to ch.
func NewChannelUI(ch chan<- tea.Msg) *ChannelUI {
	return &ChannelUI{ch: ch}
}

// Next returns a UI for the following session on the same channel.
func (u *ChannelUI) Next() *ChannelUI {
	return &ChannelUI{ch: u.ch, gen: u.gen + 1}
}

// Gen is the session generation stamped on this UI's messages.
func (u *ChannelUI) Gen() uint64 { return u.gen }

func (u *ChannelUI) tag() SessionTag { return SessionTag{Gen: u.gen} }

var _ wizard.UI = (*ChannelUI)(nil)

func (u *ChannelUI) ShowStep(step wizard.Step) {
	u.ch <- StepChangedMsg{SessionTag: u.tag(), Step: step}
}

func (u *ChannelUI) Alert(target wizard.AlertTarget, msg string) {
	u.ch <- AlertMsg{SessionTag: u.tag(), Target: target, Message: msg}
}

func (u *ChannelUI) ShowPhoto(p *photo.Photo) {
	u.ch <- PhotoShownMsg{SessionTag: u.tag(), Photo: p}
}

func (u *ChannelUI) SetCaptureControls(visible bool) {
	u.ch <- CaptureControlsMsg{SessionTag: u.tag(), Visible: visible}
}

func (u *ChannelUI) SetBusy(busy bool) {
	u.ch <- BusyMsg{SessionTag: u.tag(), Busy: busy}
}

func (u *ChannelUI) ShowTestPreview(url string) {
	u.ch <- TestPreviewMsg{SessionTag: u.tag(), URL: url}
}

func (u *ChannelUI) ShowResult(url string) {
	u.ch <- ResultMsg{SessionTag: u.tag(), URL: url}
}

func (u *ChannelUI) SetProgress(fraction float64) {
	u.ch <- ProgressMsg{SessionTag: u.tag(), Fraction: fraction}
}
