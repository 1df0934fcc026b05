package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorded is what the fake backend saw for one request.
type recorded struct {
	method    string
	path      string
	session   string
	json      map[string]interface{}
	fileName  string
	fieldData []byte
}

func newBackend(t *testing.T, status int, reply string) (*Client, *[]recorded) {
	t.Helper()
	var seen []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path, session: r.Header.Get(SessionHeader)}
		switch {
		case strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"):
			f, hdr, err := r.FormFile(PhotoField)
			if err == nil {
				rec.fileName = hdr.Filename
				rec.fieldData, _ = io.ReadAll(f)
				f.Close()
			}
		case r.Header.Get("Content-Type") == "application/json":
			_ = json.NewDecoder(r.Body).Decode(&rec.json)
		}
		seen = append(seen, rec)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", time.Second), &seen
}

func TestClient_StartRobot(t *testing.T) {
	c, seen := newBackend(t, http.StatusOK, `{"status":"posicionado"}`)

	ctx := WithSession(context.Background(), "abc-123")
	require.NoError(t, c.StartRobot(ctx, 172.5))

	require.Len(t, *seen, 1)
	got := (*seen)[0]
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, PathStartRobot, got.path)
	assert.Equal(t, "abc-123", got.session)
	assert.Equal(t, 172.5, got.json["height"])
}

func TestClient_StartRobot_WrongStatus(t *testing.T) {
	c, _ := newBackend(t, http.StatusOK, `{"status":"busy"}`)

	err := c.StartRobot(context.Background(), 170)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, PathStartRobot, se.Endpoint)
	assert.Equal(t, StatusPositioned, se.Expected)
	assert.Equal(t, "busy", se.Status)
	assert.False(t, errors.Is(err, ErrUnavailable))
}

func TestClient_ErrorReplyCarriesMessage(t *testing.T) {
	c, _ := newBackend(t, http.StatusBadRequest, `{"status":"error","message":"Nenhuma imagem enviada"}`)

	err := c.CapturePhoto(context.Background(), []byte("png"))
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.HTTPStatus)
	assert.Equal(t, "error", se.Status)
	assert.Contains(t, err.Error(), "Nenhuma imagem enviada")
}

func TestClient_MalformedReply(t *testing.T) {
	c, _ := newBackend(t, http.StatusOK, `<html>oops</html>`)

	err := c.ProcessPhoto(context.Background(), nil)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Message, "malformed reply")
}

func TestClient_CapturePhoto_Multipart(t *testing.T) {
	c, seen := newBackend(t, http.StatusOK, `{"status":"received"}`)

	data := []byte{0x89, 'P', 'N', 'G', 1, 2, 3}
	require.NoError(t, c.CapturePhoto(context.Background(), data))

	got := (*seen)[0]
	assert.Equal(t, PathCapturePhoto, got.path)
	assert.Equal(t, PhotoFileName, got.fileName)
	if diff := cmp.Diff(data, got.fieldData); diff != "" {
		t.Errorf("uploaded bytes mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_ProcessPhoto(t *testing.T) {
	t.Run("without format", func(t *testing.T) {
		c, seen := newBackend(t, http.StatusOK, `{"status":"done"}`)
		require.NoError(t, c.ProcessPhoto(context.Background(), nil))
		assert.Nil(t, (*seen)[0].json)
	})

	t.Run("with format", func(t *testing.T) {
		c, seen := newBackend(t, http.StatusOK, `{"status":"done"}`)
		f := PrintFormat{Name: "A4", Width: 210, Height: 297}
		require.NoError(t, c.ProcessPhoto(context.Background(), &f))
		body := (*seen)[0].json
		assert.Equal(t, "A4", body["formato"])
		assert.Equal(t, float64(210), body["largura"])
		assert.Equal(t, float64(297), body["altura"])
	})
}

func TestClient_TestPhoto(t *testing.T) {
	c, seen := newBackend(t, http.StatusOK, `{"status":"tested"}`)
	require.NoError(t, c.TestPhoto(context.Background(), PrintFormat{Name: "A5", Width: 148, Height: 210}))
	assert.Equal(t, PathTestPhoto, (*seen)[0].path)
	assert.Equal(t, "A5", (*seen)[0].json["formato"])
}

func TestClient_Upload(t *testing.T) {
	c, seen := newBackend(t, http.StatusOK, "Arquivo recebido!\n")
	ack, err := c.Upload(context.Background(), []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, "Arquivo recebido!", ack)
	assert.Equal(t, PathUpload, (*seen)[0].path)

	c, _ = newBackend(t, http.StatusInternalServerError, "disk full")
	_, err = c.Upload(context.Background(), []byte("img"))
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "disk full", se.Message)
}

func TestClient_FetchPreview(t *testing.T) {
	c, seen := newBackend(t, http.StatusOK, "PNGDATA")
	data, err := c.FetchPreview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("PNGDATA"), data)
	assert.Equal(t, http.MethodGet, (*seen)[0].method)
	assert.Equal(t, PathPreview, (*seen)[0].path)

	c, _ = newBackend(t, http.StatusNotFound, "")
	_, err = c.FetchPreview(context.Background())
	assert.Error(t, err)
}

func TestClient_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, time.Second)
	err := c.StartRobot(context.Background(), 170)
	assert.ErrorIs(t, err, ErrUnavailable)
}

// MockHTTPClient lets tests fail at the transport without a listener.
type MockHTTPClient struct {
	DoFunc func(req *http.Request) (*http.Response, error)
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.DoFunc(req)
}

func TestClient_WithHTTPClient(t *testing.T) {
	var gotURL string
	mock := &MockHTTPClient{DoFunc: func(req *http.Request) (*http.Response, error) {
		gotURL = req.URL.String()
		return nil, errors.New("dial tcp: refused")
	}}

	c := New("http://robot.local:5000/", 0).WithHTTPClient(mock)
	err := c.TestPhoto(context.Background(), PrintFormat{Name: "A4"})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, "http://robot.local:5000"+PathTestPhoto, gotURL)
	assert.Equal(t, "http://robot.local:5000"+PathPreview, c.PreviewURL())
}

func TestClient_Timeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	c := New(srv.URL, 50*time.Millisecond)
	err := c.StartRobot(context.Background(), 170)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestPrintFormat_String(t *testing.T) {
	assert.Equal(t, "A4 (210x297)", PrintFormat{Name: "A4", Width: 210, Height: 297}.String())
}

func TestStatusError_Error(t *testing.T) {
	err := &StatusError{Endpoint: PathUpload, HTTPStatus: 500}
	assert.Equal(t, "backend /upload: HTTP 500", err.Error())
}
