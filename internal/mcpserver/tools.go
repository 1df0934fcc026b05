package mcpserver

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"retrato/internal/backend"
	"retrato/internal/wizard"
	"retrato/pkg/logging"
)

// Status is the session summary every successful tool returns.
type Status struct {
	Session         string            `json:"session"`
	Step            string            `json:"step"`
	StepNumber      int               `json:"stepNumber"`
	Height          float64           `json:"height,omitempty"`
	Photo           string            `json:"photo,omitempty"`
	CaptureControls bool              `json:"captureControls"`
	CameraReady     bool              `json:"cameraReady"`
	Format          string            `json:"format,omitempty"`
	Tested          bool              `json:"tested"`
	TestPreviewURL  string            `json:"testPreviewURL,omitempty"`
	ResultURL       string            `json:"resultURL,omitempty"`
	Progress        float64           `json:"progress"`
	Alerts          map[string]string `json:"alerts,omitempty"`
}

func (s *Server) tools() []server.ServerTool {
	return []server.ServerTool{
		{
			Tool: mcp.NewTool("wizard_status",
				mcp.WithDescription("Show the current step and what the session holds"),
			),
			Handler: s.handleStatus,
		},
		{
			Tool: mcp.NewTool("wizard_begin",
				mcp.WithDescription("Leave the intro screen and ask for the height"),
			),
			Handler: s.handleBegin,
		},
		{
			Tool: mcp.NewTool("wizard_set_height",
				mcp.WithDescription("Send the sitter's height and position the robot"),
				mcp.WithString("height",
					mcp.Required(),
					mcp.Description("Height in centimetres, e.g. 172 or 172,5"),
				),
			),
			Handler: s.handleSetHeight,
		},
		{
			Tool: mcp.NewTool("wizard_snap",
				mcp.WithDescription("Take a photo with the camera"),
			),
			Handler: s.handleSnap,
		},
		{
			Tool: mcp.NewTool("wizard_load_photo",
				mcp.WithDescription("Use an image file as the photo"),
				mcp.WithString("path",
					mcp.Required(),
					mcp.Description("Path of a PNG, JPEG, GIF, BMP or WebP file"),
				),
			),
			Handler: s.handleLoadPhoto,
		},
		{
			Tool: mcp.NewTool("wizard_retake",
				mcp.WithDescription("Discard the photo and show the capture controls again"),
			),
			Handler: s.handleRetake,
		},
		{
			Tool: mcp.NewTool("wizard_list_formats",
				mcp.WithDescription("List the print formats and the selected one"),
			),
			Handler: s.handleListFormats,
		},
		{
			Tool: mcp.NewTool("wizard_select_format",
				mcp.WithDescription("Choose the print format for the test print and the portrait"),
				mcp.WithString("name",
					mcp.Required(),
					mcp.Description("Format name as listed by wizard_list_formats"),
				),
			),
			Handler: s.handleSelectFormat,
		},
		{
			Tool: mcp.NewTool("wizard_test_photo",
				mcp.WithDescription("Send the photo for a test print in the selected format"),
			),
			Handler: s.handleTestPhoto,
		},
		{
			Tool: mcp.NewTool("wizard_confirm_photo",
				mcp.WithDescription("Send the photo and start drawing the portrait"),
			),
			Handler: s.handleConfirmPhoto,
		},
		{
			Tool: mcp.NewTool("wizard_preview",
				mcp.WithDescription("Fetch the backend's dither preview image"),
			),
			Handler: s.handlePreview,
		},
		{
			Tool: mcp.NewTool("wizard_new_session",
				mcp.WithDescription("Abandon the current session and start over at the intro"),
			),
			Handler: s.handleNewSession,
		},
	}
}

func (s *Server) handleStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.current().status())
}

func (s *Server) handleBegin(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.run("begin", func(w *wizard.Controller) error {
		return w.Begin()
	})
}

func (s *Server) handleSetHeight(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	height, err := req.RequireString("height")
	if err != nil {
		return mcp.NewToolResultError("height is required"), nil
	}
	return s.run("set height", func(w *wizard.Controller) error {
		return w.ConfirmHeight(ctx, height)
	})
}

func (s *Server) handleSnap(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.run("snap", func(w *wizard.Controller) error {
		return w.Snap(ctx)
	})
}

func (s *Server) handleLoadPhoto(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path is required"), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Cannot read file: %v", err)), nil
	}
	return s.run("load photo", func(w *wizard.Controller) error {
		return w.LoadPhoto(filepath.Base(path), data)
	})
}

func (s *Server) handleRetake(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.run("retake", func(w *wizard.Controller) error {
		return w.Retake()
	})
}

func (s *Server) handleListFormats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	w := s.current().wizard
	result := map[string]interface{}{
		"enabled": w.Snapshot().Features.TestStep,
		"formats": w.Formats(),
	}
	if f, ok := w.Format(); ok {
		result["selected"] = f.Name
	}
	return jsonResult(result)
}

func (s *Server) handleSelectFormat(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required"), nil
	}
	return s.run("select format", func(w *wizard.Controller) error {
		return w.SelectFormat(name)
	})
}

func (s *Server) handleTestPhoto(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.run("test photo", func(w *wizard.Controller) error {
		return w.TestPhoto(ctx)
	})
}

func (s *Server) handleConfirmPhoto(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.run("confirm photo", func(w *wizard.Controller) error {
		return w.ConfirmPhoto(ctx)
	})
}

func (s *Server) handlePreview(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := s.current().wizard.Preview(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Preview unavailable: %v", err)), nil
	}
	return mcp.NewToolResultImage(backend.PathPreview, base64.StdEncoding.EncodeToString(data), "image/png"), nil
}

func (s *Server) handleNewSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if _, err := s.NewSession(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to start a new session: %v", err)), nil
	}
	return jsonResult(s.current().status())
}

// run performs one wizard operation and reports the resulting status, or
// the message the operation alerted.
func (s *Server) run(op string, fn func(w *wizard.Controller) error) (*mcp.CallToolResult, error) {
	sess := s.current()
	if err := fn(sess.wizard); err != nil {
		logging.Debug(subsystem, "%s failed: %v", op, err)
		sess.ui.TakeAlerts()
		return mcp.NewToolResultError(describe(op, err)), nil
	}
	return jsonResult(sess.status())
}

func describe(op string, err error) string {
	var we *wizard.Error
	if errors.As(err, &we) {
		switch {
		case errors.Is(err, wizard.ErrWrongStep), errors.Is(err, wizard.ErrBusy), errors.Is(err, wizard.ErrDisabled):
			return fmt.Sprintf("Cannot %s: %v", op, we.Err)
		case we.Message != "":
			return we.Message
		}
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

func (sess session) status() Status {
	snap := sess.wizard.Snapshot()
	testURL, resultURL, progress := sess.ui.view()

	st := Status{
		Session:         snap.Session,
		Step:            snap.Step.String(),
		StepNumber:      snap.Step.Number(),
		Height:          snap.Height,
		CaptureControls: snap.CaptureControls,
		CameraReady:     snap.CameraReady,
		Tested:          snap.Tested,
		TestPreviewURL:  testURL,
		ResultURL:       resultURL,
		Progress:        progress,
		Alerts:          sess.ui.TakeAlerts(),
	}
	if snap.Photo != nil {
		st.Photo = snap.Photo.String()
	}
	if snap.Format != nil {
		st.Format = snap.Format.String()
	}
	return st
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	resultJSON, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format result: %v", err)), nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(string(resultJSON)),
		},
	}, nil
}
