// Package logging is the single logging entry point of retrato.
//
// In CLI mode records are written as slog text lines to an io.Writer. In TUI
// mode every record is turned into a LogEntry and pushed to a buffered
// channel that the TUI drains into its activity log, so nothing is written to
// the terminal the TUI owns.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

// LogLevel defines the severity of the log entry.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String makes LogLevel satisfy the fmt.Stringer interface.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// SlogLevel maps the level onto log/slog.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func levelFromSlog(l slog.Level) LogLevel {
	switch {
	case l >= slog.LevelError:
		return LevelError
	case l >= slog.LevelWarn:
		return LevelWarn
	case l >= slog.LevelInfo:
		return LevelInfo
	default:
		return LevelDebug
	}
}

// ParseLevel converts a config string ("debug", "info", ...) to a LogLevel.
func ParseLevel(s string) (LogLevel, error) {
	switch s {
	case "debug", "DEBUG":
		return LevelDebug, nil
	case "", "info", "INFO":
		return LevelInfo, nil
	case "warn", "WARN", "warning":
		return LevelWarn, nil
	case "error", "ERROR":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// LogEntry is the structured log entry passed to the TUI.
type LogEntry struct {
	Timestamp time.Time
	Level     LogLevel
	Subsystem string
	Message   string
	Err       error
}

const tuiChannelBufferSize = 1024

var (
	mu      sync.RWMutex
	logger  *slog.Logger
	tuiChan chan LogEntry
)

// channelHandler is a slog.Handler that forwards records to the TUI channel.
// Sends never block: when the TUI falls behind, records are dropped rather
// than stalling a backend call.
type channelHandler struct {
	ch    chan<- LogEntry
	level slog.Level
	attrs []slog.Attr
}

func (h *channelHandler) Enabled(_ context.Context, l slog.Level) bool { return l >= h.level }

func (h *channelHandler) Handle(_ context.Context, r slog.Record) error {
	entry := LogEntry{
		Timestamp: r.Time,
		Level:     levelFromSlog(r.Level),
		Message:   r.Message,
	}
	visit := func(a slog.Attr) bool {
		switch a.Key {
		case "subsystem":
			entry.Subsystem = a.Value.String()
		case "error":
			if err, ok := a.Value.Any().(error); ok {
				entry.Err = err
			} else {
				entry.Err = fmt.Errorf("%s", a.Value.String())
			}
		}
		return true
	}
	for _, a := range h.attrs {
		visit(a)
	}
	r.Attrs(visit)

	select {
	case h.ch <- entry:
	default:
	}
	return nil
}

func (h *channelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &channelHandler{ch: h.ch, level: h.level, attrs: merged}
}

func (h *channelHandler) WithGroup(string) slog.Handler { return h }

// InitForCLI initializes logging for non-interactive use.
func InitForCLI(level LogLevel, output io.Writer) {
	if output == nil {
		output = os.Stderr
	}
	handler := slog.NewTextHandler(output, &slog.HandlerOptions{Level: level.SlogLevel()})

	mu.Lock()
	defer mu.Unlock()
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// InitForTUI switches logging to channel mode and returns the channel the
// TUI must drain. Call CloseTUIChannel on shutdown.
func InitForTUI(level LogLevel) <-chan LogEntry {
	ch := make(chan LogEntry, tuiChannelBufferSize)

	mu.Lock()
	defer mu.Unlock()
	tuiChan = ch
	logger = slog.New(&channelHandler{ch: ch, level: level.SlogLevel()})
	return ch
}

// CloseTUIChannel closes the TUI log channel and falls back to stderr.
func CloseTUIChannel() {
	mu.Lock()
	defer mu.Unlock()
	if tuiChan != nil {
		close(tuiChan)
		tuiChan = nil
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
}

func logInternal(level LogLevel, subsystem string, err error, messageFmt string, args ...interface{}) {
	msg := messageFmt
	if len(args) > 0 {
		msg = fmt.Sprintf(messageFmt, args...)
	}

	mu.RLock()
	l := logger
	mu.RUnlock()

	if l == nil {
		fmt.Fprintf(os.Stderr, "[LOGGING_ERROR] logger not initialized: %s [%s] %s\n", time.Now().Format(time.RFC3339), level, msg)
		return
	}

	attrs := []slog.Attr{slog.String("subsystem", subsystem)}
	if err != nil {
		attrs = append(attrs, slog.Any("error", err))
	}
	l.LogAttrs(context.Background(), level.SlogLevel(), msg, attrs...)
}

// Debug logs a debug message.
func Debug(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelDebug, subsystem, nil, messageFmt, args...)
}

// Info logs an informational message.
func Info(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelInfo, subsystem, nil, messageFmt, args...)
}

// Warn logs a warning message.
func Warn(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelWarn, subsystem, nil, messageFmt, args...)
}

// Error logs an error message.
func Error(subsystem string, err error, messageFmt string, args ...interface{}) {
	logInternal(LevelError, subsystem, err, messageFmt, args...)
}
