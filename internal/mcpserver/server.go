package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"retrato/internal/config"
	"retrato/internal/wizard"
	"retrato/pkg/logging"
)

const subsystem = "MCP"

// WizardFactory builds a wizard session reporting to ui.
type WizardFactory func(ui wizard.UI) (*wizard.Controller, error)

// session pairs a wizard with the recorder only it reports to, so calls
// still running on a replaced session never reach the next one's status.
type session struct {
	wizard *wizard.Controller
	ui     *Recorder
}

func newSession(factory WizardFactory) (session, error) {
	ui := NewRecorder()
	w, err := factory(ui)
	if err != nil {
		return session{}, fmt.Errorf("creating wizard session: %w", err)
	}
	return session{wizard: w, ui: ui}, nil
}

// Server owns one wizard session at a time and serves it as MCP tools.
type Server struct {
	newWizard WizardFactory
	mcp       *server.MCPServer

	mu      sync.Mutex
	session session
}

// New creates the tool server and its first session.
func New(version string, factory WizardFactory) (*Server, error) {
	if factory == nil {
		return nil, errors.New("mcpserver: wizard factory is required")
	}
	sess, err := newSession(factory)
	if err != nil {
		return nil, err
	}

	s := &Server{
		newWizard: factory,
		session:   sess,
		mcp: server.NewMCPServer(
			"retrato",
			version,
			server.WithToolCapabilities(true),
		),
	}
	s.mcp.AddTools(s.tools()...)
	return s, nil
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer { return s.mcp }

func (s *Server) current() session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// NewSession closes the running session and starts a fresh one.
func (s *Server) NewSession() (*wizard.Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.session.wizard
	if err := old.Close(); err != nil {
		logging.Warn(subsystem, "closing session %s: %v", old.Session(), err)
	}
	sess, err := newSession(s.newWizard)
	if err != nil {
		return nil, err
	}
	s.session = sess
	logging.Info(subsystem, "new session %s", sess.wizard.Session())
	return sess.wizard, nil
}

// Close releases the running session's camera.
func (s *Server) Close() error {
	return s.current().wizard.Close()
}

// Serve blocks serving the configured transport until ctx is cancelled or
// the transport fails.
func (s *Server) Serve(ctx context.Context, cfg config.MCPConfig) error {
	defer func() {
		if err := s.Close(); err != nil {
			logging.Warn(subsystem, "closing session: %v", err)
		}
	}()

	switch cfg.Transport {
	case config.MCPTransportStdio, "":
		logging.Info(subsystem, "serving wizard tools on stdio")
		return server.NewStdioServer(s.mcp).Listen(ctx, os.Stdin, os.Stdout)
	case config.MCPTransportSSE:
		return s.serveSSE(ctx, cfg.Addr())
	default:
		return fmt.Errorf("unknown MCP transport %q", cfg.Transport)
	}
}

func (s *Server) serveSSE(ctx context.Context, addr string) error {
	sse := server.NewSSEServer(
		s.mcp,
		server.WithBaseURL("http://"+addr),
		server.WithSSEEndpoint("/sse"),
		server.WithMessageEndpoint("/message"),
		server.WithKeepAlive(true),
		server.WithKeepAliveInterval(30*time.Second),
	)

	errCh := make(chan error, 1)
	go func() {
		logging.Info(subsystem, "serving wizard tools on http://%s/sse", addr)
		errCh <- sse.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logging.Info(subsystem, "stopping SSE server")
		return sse.Shutdown(shutdownCtx)
	}
}
