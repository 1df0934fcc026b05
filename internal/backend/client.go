// Package backend is the HTTP client for the robot-control service.
//
// Every call is a single request with no retry. A call succeeds only when the
// reply carries the status the wizard waits for; anything else comes back as
// a *StatusError, and transport failures wrap ErrUnavailable.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"retrato/pkg/logging"
)

const subsystem = "Backend"

// maxReplyBytes bounds how much of a JSON or text reply is read.
const maxReplyBytes = 1 << 20

// maxPreviewBytes bounds the result preview download.
const maxPreviewBytes = 32 << 20

// Client talks to one backend instance.
type Client struct {
	baseURL string
	timeout time.Duration
	httpc   HTTPClient
}

// New creates a client for baseURL. timeout bounds each request; zero means
// the caller's context is the only deadline.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		httpc:   NewHTTPClient(),
	}
}

// WithHTTPClient overrides the transport (tests, tracing).
func (c *Client) WithHTTPClient(h HTTPClient) *Client {
	if h != nil {
		c.httpc = h
	}
	return c
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// PreviewURL is the absolute URL of the result preview image.
func (c *Client) PreviewURL() string { return c.baseURL + PathPreview }

type sessionKey struct{}

// WithSession attaches a wizard session id to ctx; requests made with the
// returned context carry it in SessionHeader.
func WithSession(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// SessionFrom returns the session id stored by WithSession.
func SessionFrom(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

// StartRobot asks the robot to position itself for a sitter of the given
// height (cm).
func (c *Client) StartRobot(ctx context.Context, height float64) error {
	body, err := json.Marshal(struct {
		Height float64 `json:"height"`
	}{height})
	if err != nil {
		return err
	}
	return c.expect(ctx, PathStartRobot, "application/json", body, StatusPositioned)
}

// CapturePhoto uploads the photo as the multipart field "image".
func (c *Client) CapturePhoto(ctx context.Context, png []byte) error {
	body, contentType, err := photoForm(png)
	if err != nil {
		return err
	}
	return c.expect(ctx, PathCapturePhoto, contentType, body, StatusReceived)
}

// Upload posts the photo to the plain upload endpoint and returns the
// backend's text acknowledgment. Any 2xx counts as received.
func (c *Client) Upload(ctx context.Context, png []byte) (string, error) {
	body, contentType, err := photoForm(png)
	if err != nil {
		return "", err
	}
	resp, err := c.post(ctx, PathUpload, contentType, body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return "", fmt.Errorf("%w: reading %s reply: %v", ErrUnavailable, PathUpload, err)
	}
	ack := strings.TrimSpace(string(text))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{Endpoint: PathUpload, HTTPStatus: resp.StatusCode, Message: ack}
	}
	logging.Debug(subsystem, "%s acknowledged: %q", PathUpload, ack)
	return ack, nil
}

// ProcessPhoto starts processing of the last uploaded photo. The format is
// sent only when non-nil.
func (c *Client) ProcessPhoto(ctx context.Context, format *PrintFormat) error {
	var (
		body        []byte
		contentType string
	)
	if format != nil {
		var err error
		if body, err = json.Marshal(format); err != nil {
			return err
		}
		contentType = "application/json"
	}
	return c.expect(ctx, PathProcessPhoto, contentType, body, StatusDone)
}

// TestPhoto renders a test preview of the uploaded photo for the format.
func (c *Client) TestPhoto(ctx context.Context, format PrintFormat) error {
	body, err := json.Marshal(format)
	if err != nil {
		return err
	}
	return c.expect(ctx, PathTestPhoto, "application/json", body, StatusTested)
}

// FetchPreview downloads the result preview image.
func (c *Client) FetchPreview(ctx context.Context) ([]byte, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.PreviewURL(), nil)
	if err != nil {
		return nil, err
	}
	c.decorate(ctx, req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", ErrUnavailable, PathPreview, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Endpoint: PathPreview, HTTPStatus: resp.StatusCode}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPreviewBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading preview: %v", ErrUnavailable, err)
	}
	return data, nil
}

// expect posts body and checks the JSON reply for the wanted status.
func (c *Client) expect(ctx context.Context, path, contentType string, body []byte, want string) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.post(ctx, path, contentType, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return fmt.Errorf("%w: reading %s reply: %v", ErrUnavailable, path, err)
	}

	var reply Reply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return &StatusError{
			Endpoint:   path,
			HTTPStatus: resp.StatusCode,
			Expected:   want,
			Message:    fmt.Sprintf("malformed reply: %v", err),
		}
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode <= 299 && reply.Status == want
	if !ok {
		return &StatusError{
			Endpoint:   path,
			HTTPStatus: resp.StatusCode,
			Expected:   want,
			Status:     reply.Status,
			Message:    reply.Message,
		}
	}
	logging.Debug(subsystem, "%s -> %s", path, reply.Status)
	return nil
}

func (c *Client) post(ctx context.Context, path, contentType string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	c.decorate(ctx, req)

	logging.Debug(subsystem, "POST %s (%d bytes)", path, len(body))
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: POST %s: %v", ErrUnavailable, path, err)
	}
	return resp, nil
}

func (c *Client) decorate(ctx context.Context, req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if id := SessionFrom(ctx); id != "" {
		req.Header.Set(SessionHeader, id)
	}
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// photoForm builds the multipart body shared by /capture_photo and /upload.
func photoForm(png []byte) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, PhotoField, PhotoFileName))
	h.Set("Content-Type", "image/png")
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(png); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
