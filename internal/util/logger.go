// Package util holds the debug logger and small shared helpers.
package util

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

var (
	logger  *slog.Logger
	logFile *os.File
)

// InitLogger sets up structured logging with Go's slog package. The
// interactive session owns the terminal, so log output goes to a debug.log
// file in the working directory; it is only enabled when verbosity is
// requested.
func InitLogger(verboseLevel int) error {
	if verboseLevel <= 0 {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		return nil
	}

	var err error
	logFile, err = os.OpenFile("debug.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open debug.log: %w", err)
	}

	level := slog.LevelInfo
	if verboseLevel >= 2 {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(logFile, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				a.Value = slog.StringValue(a.Value.Time().Format("15:04:05"))
			}
			return a
		},
	})
	logger = slog.New(handler)
	logger.Info("=== diffpatch session started ===", "verbose_level", verboseLevel)
	return nil
}

// CleanupLogger closes the debug log file.
func CleanupLogger() {
	if logger != nil && logFile != nil {
		logger.Info("=== diffpatch session ended ===")
	}
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	logger = nil
}

// Debug writes a debug message with optional structured attributes.
func Debug(msg string, attrs ...any) {
	if logger != nil {
		logger.Debug(msg, attrs...)
	}
}

// Info writes an info message with optional structured attributes.
func Info(msg string, attrs ...any) {
	if logger != nil {
		logger.Info(msg, attrs...)
	}
}

// Error writes an error message to the log and to stderr.
func Error(msg string, attrs ...any) {
	if logger != nil {
		logger.Error(msg, attrs...)
	}
	fmt.Fprintf(os.Stderr, "ERROR: %s\n", msg)
}
