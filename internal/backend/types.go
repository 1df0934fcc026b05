package backend

import (
	"errors"
	"fmt"
)

// Status values the backend replies with on success.
const (
	StatusPositioned = "posicionado"
	StatusReceived   = "received"
	StatusDone       = "done"
	StatusTested     = "tested"
)

// Endpoint paths, relative to the configured base URL.
const (
	PathStartRobot   = "/start_robot"
	PathCapturePhoto = "/capture_photo"
	PathProcessPhoto = "/process_photo"
	PathTestPhoto    = "/test_photo"
	PathUpload       = "/upload"
	PathPreview      = "/img/pontos_dither_debug.png"
)

// PhotoField and PhotoFileName describe the multipart part carrying the photo.
const (
	PhotoField    = "image"
	PhotoFileName = "foto.png"
)

// SessionHeader carries the wizard session id on every request.
const SessionHeader = "X-Session-ID"

// ErrUnavailable wraps transport failures: refused connections, DNS errors,
// timeouts. The request may or may not have reached the robot.
var ErrUnavailable = errors.New("backend unavailable")

// PrintFormat is the target paper size sent with test and process requests.
// Field names are the backend's wire format.
type PrintFormat struct {
	Name   string `json:"formato"`
	Width  int    `json:"largura"`
	Height int    `json:"altura"`
}

// String renders the format as "A4 (210x297)".
func (f PrintFormat) String() string {
	return fmt.Sprintf("%s (%dx%d)", f.Name, f.Width, f.Height)
}

// Reply is the JSON envelope returned by the wizard endpoints.
type Reply struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// StatusError reports a reply that did not carry the expected status.
type StatusError struct {
	Endpoint   string
	HTTPStatus int
	Expected   string
	Status     string
	Message    string
}

func (e *StatusError) Error() string {
	var msg string
	if e.Expected == "" {
		msg = fmt.Sprintf("backend %s: HTTP %d", e.Endpoint, e.HTTPStatus)
	} else {
		msg = fmt.Sprintf("backend %s: expected status %q, got %q (HTTP %d)", e.Endpoint, e.Expected, e.Status, e.HTTPStatus)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}
