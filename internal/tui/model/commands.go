package model

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"retrato/internal/wizard"
	"retrato/pkg/logging"
)

// previewTimeout bounds a preview download.
const previewTimeout = 30 * time.Second

// ChannelReaderCmd waits for the next message on the TUI channel.
func ChannelReaderCmd(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

// ListenForLogEntriesCmd waits for the next log entry.
func ListenForLogEntriesCmd(ch <-chan logging.LogEntry) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		entry, ok := <-ch
		if !ok {
			return nil
		}
		return NewLogEntryMsg{Entry: entry}
	}
}

func opCmd(op string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		return WizardOpResultMsg{Op: op, Err: fn()}
	}
}

// BeginCmd leaves the Intro step.
func BeginCmd(w *wizard.Controller) tea.Cmd {
	return opCmd("begin", w.Begin)
}

// ConfirmHeightCmd submits the height input.
func ConfirmHeightCmd(w *wizard.Controller, input string) tea.Cmd {
	return opCmd("confirm height", func() error {
		return w.ConfirmHeight(context.Background(), input)
	})
}

// SnapCmd takes a camera photo.
func SnapCmd(w *wizard.Controller) tea.Cmd {
	return opCmd("snap", func() error {
		return w.Snap(context.Background())
	})
}

// LoadPhotoCmd reads path and hands it to the wizard. A leading ~ is
// expanded to the home directory. Read errors come back unwrapped, not as
// a *wizard.Error, since the wizard never saw them.
func LoadPhotoCmd(w *wizard.Controller, path string) tea.Cmd {
	return opCmd("load photo", func() error {
		path = expandHome(strings.TrimSpace(path))
		data, err := os.ReadFile(path)
		if err != nil {
			logging.Warn("TUI", "reading %s: %v", path, err)
			return err
		}
		return w.LoadPhoto(filepath.Base(path), data)
	})
}

// RetakeCmd drops the held photo.
func RetakeCmd(w *wizard.Controller) tea.Cmd {
	return opCmd("retake", w.Retake)
}

// SelectFormatCmd selects a print format.
func SelectFormatCmd(w *wizard.Controller, name string) tea.Cmd {
	return opCmd("select format", func() error {
		return w.SelectFormat(name)
	})
}

// TestPhotoCmd requests a test print.
func TestPhotoCmd(w *wizard.Controller) tea.Cmd {
	return opCmd("test photo", func() error {
		return w.TestPhoto(context.Background())
	})
}

// ConfirmPhotoCmd submits the photo for processing.
func ConfirmPhotoCmd(w *wizard.Controller) tea.Cmd {
	return opCmd("confirm photo", func() error {
		return w.ConfirmPhoto(context.Background())
	})
}

// FetchPreviewCmd downloads the image the backend rendered last.
func FetchPreviewCmd(w *wizard.Controller, kind PreviewKind) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), previewTimeout)
		defer cancel()
		data, err := w.Preview(ctx)
		return PreviewLoadedMsg{Kind: kind, Data: data, Err: err}
	}
}

// NewSessionCmd closes the finished controller and builds a new one that
// reports through ui.
func NewSessionCmd(old *wizard.Controller, factory WizardFactory, ui *ChannelUI) tea.Cmd {
	return func() tea.Msg {
		if old != nil {
			_ = old.Close()
		}
		w, err := factory(ui)
		return NewSessionMsg{Wizard: w, UI: ui, Err: err}
	}
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
