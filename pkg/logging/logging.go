package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupLogger configures the global logger based on verbosity.
// Console output goes to stderr; when logFile is not empty, JSON lines are
// also appended to that file.
func SetupLogger(verbosity int, logFile string) {
	SetupLoggerTo(os.Stderr, verbosity, logFile)
}

// SetupLoggerTo is SetupLogger with an explicit console writer
func SetupLoggerTo(console io.Writer, verbosity int, logFile string) {
	switch verbosity {
	case 0:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case 1:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case 2:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: time.Kitchen,
		NoColor:    !isTerminal(console),
	}

	writers := []io.Writer{consoleWriter}

	var fileErr error
	if logFile != "" {
		var handle *os.File
		handle, fileErr = setupLogFile(logFile)
		if fileErr == nil {
			writers = append(writers, handle)
		}
	}

	multi := io.MultiWriter(writers...)
	log.Logger = zerolog.New(multi).With().Timestamp().Logger()

	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", logFile).Msg("Failed to open log file, logging to console only")
	}

	// Add caller information for debug and trace levels
	if verbosity >= 2 {
		log.Logger = log.Logger.With().Caller().Logger()
	}

	log.Debug().Int("verbosity", verbosity).Str("logFile", logFile).Msg("Logger initialized")
}

// GetLogger returns a contextualized logger with the given name
func GetLogger(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// LogOperationStart logs the start of an operation and returns a function to log its completion
func LogOperationStart(logger zerolog.Logger, operation string) func() {
	start := time.Now()
	logger.Debug().
		Str("operation", operation).
		Msg("Operation started")

	return func() {
		logger.Debug().
			Str("operation", operation).
			Dur("duration", time.Since(start)).
			Msg("Operation completed")
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// setupLogFile creates the log file and its parent directories
func setupLogFile(logPath string) (*os.File, error) {
	logDir := filepath.Dir(logPath)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return file, nil
}
