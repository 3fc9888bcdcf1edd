package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

const defaultLogFile = "tmux-floatdesk.log"

var (
	mu           sync.Mutex
	traceEnabled bool
	logPath      = defaultLogFile
	level        = zerolog.InfoLevel
	output       io.Writer
	logger       = zerolog.Nop()
)

// Configure sets the log destination. Empty values fall back to the default
// path. Directories are created automatically when missing. The terminal is
// owned by the UI, so logs never go to stdout.
func Configure(path string) {
	mu.Lock()
	defer mu.Unlock()
	logPath = defaultLogFile
	if strings.TrimSpace(path) != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "unable to create log directory: %v\n", err)
		} else {
			logPath = path
		}
	}
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging failed: %v\n", err)
		output = nil
		logger = zerolog.Nop()
		return
	}
	if c, ok := output.(io.Closer); ok {
		_ = c.Close()
	}
	output = f
	rebuild()
}

// SetOutput routes logs to w. Tests use it to capture entries.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	rebuild()
}

// SetLevel parses a zerolog level name; unknown names keep the current level.
func SetLevel(name string) {
	mu.Lock()
	defer mu.Unlock()
	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || parsed == zerolog.NoLevel {
		return
	}
	level = parsed
	rebuild()
}

// SetTraceEnabled toggles emission of structured trace entries.
func SetTraceEnabled(enabled bool) {
	mu.Lock()
	traceEnabled = enabled
	mu.Unlock()
}

func rebuild() {
	if output == nil {
		logger = zerolog.Nop()
		return
	}
	logger = zerolog.New(output).Level(level).With().Timestamp().Logger()
}

func current() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// Error records err at error level.
func Error(err error) {
	if err == nil {
		return
	}
	l := current()
	l.Error().Err(err).Send()
}

// Trace records a structured entry when tracing is enabled.
func Trace(event string, payload map[string]interface{}) {
	mu.Lock()
	enabled := traceEnabled
	l := logger
	mu.Unlock()
	if !enabled {
		return
	}
	l.Log().Str("event", event).Fields(payload).Msg("trace")
}

// WithComponent returns a logger tagged with the component name.
func WithComponent(component string) zerolog.Logger {
	l := current()
	return l.With().Str("component", component).Logger()
}
