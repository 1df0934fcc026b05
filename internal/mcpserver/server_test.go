package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retrato/internal/backend"
	"retrato/internal/wizard"
)

type fakeBackend struct {
	startErr error
	preview  []byte
}

func (b *fakeBackend) StartRobot(context.Context, float64) error                { return b.startErr }
func (b *fakeBackend) CapturePhoto(context.Context, []byte) error               { return nil }
func (b *fakeBackend) Upload(context.Context, []byte) (string, error)           { return "ok", nil }
func (b *fakeBackend) ProcessPhoto(context.Context, *backend.PrintFormat) error { return nil }
func (b *fakeBackend) TestPhoto(context.Context, backend.PrintFormat) error     { return nil }
func (b *fakeBackend) PreviewURL() string                                       { return "http://robot/img/pontos_dither_debug.png" }

func (b *fakeBackend) FetchPreview(context.Context) ([]byte, error) {
	if b.preview == nil {
		return nil, errors.New("HTTP 404")
	}
	return b.preview, nil
}

func newTestServer(t *testing.T, be *fakeBackend, features wizard.Features) *Server {
	t.Helper()
	s, err := New("test", func(ui wizard.UI) (*wizard.Controller, error) {
		return wizard.New(wizard.Options{
			Backend:  be,
			UI:       ui,
			Features: features,
			Formats: []backend.PrintFormat{
				{Name: "A5", Width: 148, Height: 210},
				{Name: "A4", Width: 210, Height: 297},
			},
			DefaultFormat: "A4",
		})
	})
	require.NoError(t, err)
	return s
}

func call(t *testing.T, s *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	for _, tool := range s.tools() {
		if tool.Tool.Name == name {
			result, err := tool.Handler(context.Background(), mcp.CallToolRequest{
				Params: mcp.CallToolParams{Name: name, Arguments: args},
			})
			require.NoError(t, err)
			require.NotNil(t, result)
			return result
		}
	}
	t.Fatalf("tool %s not registered", name)
	return nil
}

func text(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, result.Content, 1)
	tc, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok, "expected text content")
	return tc.Text
}

func status(t *testing.T, result *mcp.CallToolResult) Status {
	t.Helper()
	require.False(t, result.IsError, text(t, result))
	var st Status
	require.NoError(t, json.Unmarshal([]byte(text(t, result)), &st))
	return st
}

func writePNG(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 4, 4))))
	path := filepath.Join(t.TempDir(), "sitter.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func TestNew_RequiresFactory(t *testing.T) {
	_, err := New("test", nil)
	assert.Error(t, err)

	_, err = New("test", func(wizard.UI) (*wizard.Controller, error) {
		return nil, errors.New("no backend")
	})
	assert.ErrorContains(t, err, "no backend")
}

func TestTools(t *testing.T) {
	s := newTestServer(t, &fakeBackend{}, wizard.Features{})

	names := make(map[string]bool)
	for _, tool := range s.tools() {
		names[tool.Tool.Name] = true
		assert.NotEmpty(t, tool.Tool.Description, tool.Tool.Name)
	}
	for _, want := range []string{
		"wizard_status", "wizard_begin", "wizard_set_height", "wizard_snap",
		"wizard_load_photo", "wizard_retake", "wizard_list_formats",
		"wizard_select_format", "wizard_test_photo", "wizard_confirm_photo",
		"wizard_preview", "wizard_new_session",
	} {
		assert.True(t, names[want], "missing tool %s", want)
	}
	assert.NotNil(t, s.MCPServer())
}

func TestFullSession(t *testing.T) {
	s := newTestServer(t, &fakeBackend{}, wizard.Features{})

	st := status(t, call(t, s, "wizard_status", nil))
	assert.Equal(t, "Intro", st.Step)
	assert.Equal(t, 1, st.StepNumber)

	st = status(t, call(t, s, "wizard_begin", nil))
	assert.Equal(t, "Height", st.Step)

	result := call(t, s, "wizard_set_height", map[string]interface{}{"height": "-3"})
	assert.True(t, result.IsError)
	assert.Equal(t, wizard.MsgInvalidHeight, text(t, result))

	st = status(t, call(t, s, "wizard_set_height", map[string]interface{}{"height": "172,5"}))
	assert.Equal(t, "Photo", st.Step)
	assert.Equal(t, 172.5, st.Height)
	assert.True(t, st.CaptureControls)

	st = status(t, call(t, s, "wizard_load_photo", map[string]interface{}{"path": writePNG(t)}))
	assert.Contains(t, st.Photo, "sitter.png 4x4")
	assert.False(t, st.CaptureControls)

	st = status(t, call(t, s, "wizard_confirm_photo", nil))
	assert.Equal(t, "Result", st.Step)
	assert.Equal(t, "http://robot/img/pontos_dither_debug.png", st.ResultURL)
	assert.Equal(t, 1.0, st.Progress)
}

func TestConnectionError(t *testing.T) {
	s := newTestServer(t, &fakeBackend{startErr: backend.ErrUnavailable}, wizard.Features{})
	call(t, s, "wizard_begin", nil)

	result := call(t, s, "wizard_set_height", map[string]interface{}{"height": "170"})
	assert.True(t, result.IsError)
	assert.Equal(t, wizard.MsgConnection, text(t, result))

	st := status(t, call(t, s, "wizard_status", nil))
	assert.Equal(t, "Height", st.Step)
	assert.Empty(t, st.Alerts, "alerts of a failed tool call are reported once")
}

func TestWrongStep(t *testing.T) {
	s := newTestServer(t, &fakeBackend{}, wizard.Features{})

	result := call(t, s, "wizard_confirm_photo", nil)
	assert.True(t, result.IsError)
	assert.Contains(t, text(t, result), "Cannot confirm photo")

	result = call(t, s, "wizard_set_height", nil)
	assert.True(t, result.IsError)
	assert.Equal(t, "height is required", text(t, result))
}

func TestLoadPhoto_Errors(t *testing.T) {
	s := newTestServer(t, &fakeBackend{}, wizard.Features{})
	call(t, s, "wizard_begin", nil)
	call(t, s, "wizard_set_height", map[string]interface{}{"height": "170"})

	result := call(t, s, "wizard_load_photo", map[string]interface{}{"path": filepath.Join(t.TempDir(), "missing.png")})
	assert.True(t, result.IsError)
	assert.Contains(t, text(t, result), "Cannot read file")

	notes := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("hello"), 0644))
	result = call(t, s, "wizard_load_photo", map[string]interface{}{"path": notes})
	assert.True(t, result.IsError)
	assert.Equal(t, wizard.MsgInvalidFile, text(t, result))
}

func TestFormats(t *testing.T) {
	s := newTestServer(t, &fakeBackend{}, wizard.Features{TestStep: true})

	var listed struct {
		Enabled  bool                  `json:"enabled"`
		Selected string                `json:"selected"`
		Formats  []backend.PrintFormat `json:"formats"`
	}
	require.NoError(t, json.Unmarshal([]byte(text(t, call(t, s, "wizard_list_formats", nil))), &listed))
	assert.True(t, listed.Enabled)
	assert.Equal(t, "A4", listed.Selected)
	assert.Len(t, listed.Formats, 2)

	st := status(t, call(t, s, "wizard_select_format", map[string]interface{}{"name": "A5"}))
	assert.Equal(t, "A5 (148x210)", st.Format)

	result := call(t, s, "wizard_select_format", map[string]interface{}{"name": "Letter"})
	assert.True(t, result.IsError)
	assert.Equal(t, wizard.MsgUnknownFormat, text(t, result))

	call(t, s, "wizard_begin", nil)
	call(t, s, "wizard_set_height", map[string]interface{}{"height": "170"})
	call(t, s, "wizard_load_photo", map[string]interface{}{"path": writePNG(t)})

	st = status(t, call(t, s, "wizard_test_photo", nil))
	assert.True(t, st.Tested)
	assert.Equal(t, "http://robot/img/pontos_dither_debug.png", st.TestPreviewURL)
}

func TestFormats_Disabled(t *testing.T) {
	s := newTestServer(t, &fakeBackend{}, wizard.Features{})

	result := call(t, s, "wizard_select_format", map[string]interface{}{"name": "A5"})
	assert.True(t, result.IsError)
	assert.Contains(t, text(t, result), "feature disabled")
}

func TestPreview(t *testing.T) {
	be := &fakeBackend{}
	s := newTestServer(t, be, wizard.Features{})

	result := call(t, s, "wizard_preview", nil)
	assert.True(t, result.IsError)

	be.preview = []byte{0x89, 'P', 'N', 'G'}
	result = call(t, s, "wizard_preview", nil)
	require.False(t, result.IsError)
	var img mcp.ImageContent
	for _, c := range result.Content {
		if ic, ok := mcp.AsImageContent(c); ok {
			img = *ic
		}
	}
	assert.Equal(t, "image/png", img.MIMEType)
	assert.Equal(t, "iVBORw==", img.Data)
}

func TestNewSession(t *testing.T) {
	s := newTestServer(t, &fakeBackend{}, wizard.Features{})
	first := status(t, call(t, s, "wizard_begin", nil))

	st := status(t, call(t, s, "wizard_new_session", nil))
	assert.Equal(t, "Intro", st.Step)
	assert.NotEqual(t, first.Session, st.Session)
	assert.NoError(t, s.Close())
}

func TestNewSession_OldSessionCannotReport(t *testing.T) {
	s := newTestServer(t, &fakeBackend{}, wizard.Features{})
	old := s.current()

	_, err := s.NewSession()
	require.NoError(t, err)

	old.ui.ShowResult("http://robot/old.png")
	old.ui.SetProgress(0.5)
	old.ui.Alert(wizard.AlertPhoto, wizard.MsgProcessFailed)

	st := status(t, call(t, s, "wizard_status", nil))
	assert.Empty(t, st.ResultURL)
	assert.Zero(t, st.Progress)
	assert.Empty(t, st.Alerts)
	assert.NotSame(t, old.ui, s.current().ui)
}

func TestRecorder_TakeAlerts(t *testing.T) {
	r := NewRecorder()
	assert.Nil(t, r.TakeAlerts())

	r.Alert(wizard.AlertHeight, wizard.MsgInvalidHeight)
	r.Alert(wizard.AlertPhoto, wizard.MsgNoPhoto)
	assert.Equal(t, map[string]string{
		"height": wizard.MsgInvalidHeight,
		"photo":  wizard.MsgNoPhoto,
	}, r.TakeAlerts())
	assert.Nil(t, r.TakeAlerts())

	r.ShowTestPreview("u")
	r.ShowPhoto(nil)
	testURL, _, _ := r.view()
	assert.Empty(t, testURL)
}
