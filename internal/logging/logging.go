package logging

import (
	"io"
	"log"
	"strings"

	"github.com/lowaak/zen-breath/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// uiLogBufferSize is how many lines may queue for the UI before lines are dropped
const uiLogBufferSize = 256

// Logger bundles the application logger with its UI line feed and file sink
type Logger struct {
	*log.Logger
	lines chan string
	file  io.WriteCloser
}

// New builds a logger that writes every line to a rotating file (when enabled)
// and to a channel that feeds the on-screen log pane
func New(cfg config.LoggingConfig) *Logger {
	lines := make(chan string, uiLogBufferSize)

	var file io.WriteCloser = nopCloser{io.Discard}
	if cfg.Enabled {
		file = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
	}

	out := io.MultiWriter(file, &lineWriter{lines: lines})
	return &Logger{
		Logger: log.New(out, "", log.Ltime),
		lines:  lines,
		file:   file,
	}
}

// Lines returns the feed of formatted log lines for the UI
func (l *Logger) Lines() <-chan string {
	return l.lines
}

// Close flushes and closes the log file
func (l *Logger) Close() error {
	return l.file.Close()
}

// lineWriter forwards each write as one line, without its trailing newline,
// and never blocks the caller
type lineWriter struct {
	lines chan<- string
}

func (w *lineWriter) Write(p []byte) (int, error) {
	select {
	case w.lines <- strings.TrimSuffix(string(p), "\n"):
	default:
	}
	return len(p), nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
