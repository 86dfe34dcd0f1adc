package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

var defaultLogger *slog.Logger

// Options controls where logs go.
type Options struct {
	// Verbose adds a stderr sink and lowers the level to debug.
	Verbose bool
	// DisableFile skips the log file under the XDG state directory.
	DisableFile bool
}

// LogFilePath determines the path for the application log file based on XDG spec.
func LogFilePath() (string, error) {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not get user home directory: %w", err)
		}
		stateDir = filepath.Join(homeDir, ".local", "state")
	}

	return filepath.Join(stateDir, "gbs", "gbs.log"), nil
}

func openLogFile() (*os.File, error) {
	logFilePath, err := LogFilePath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(logFilePath), 0750); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	file, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", logFilePath, err)
	}
	return file, nil
}

// InitLogger configures the package logger. It should be called once, before
// the first request is sent. The log file is left for the OS to close on exit.
func InitLogger(opts Options) {
	var writers []io.Writer

	if !opts.DisableFile {
		file, err := openLogFile()
		if err != nil {
			// A broken log file must not break the command itself.
			if opts.Verbose {
				fmt.Fprintf(os.Stderr, "File logging disabled: %v\n", err)
			}
		} else {
			writers = append(writers, file)
		}
	}

	level := slog.LevelInfo
	if opts.Verbose {
		writers = append(writers, os.Stderr)
		level = slog.LevelDebug
	}

	var finalWriter io.Writer
	switch len(writers) {
	case 0:
		finalWriter = io.Discard
	case 1:
		finalWriter = writers[0]
	default:
		finalWriter = io.MultiWriter(writers...)
	}

	defaultLogger = slog.New(slog.NewJSONHandler(finalWriter, &slog.HandlerOptions{Level: level}))
}

// SetLogger replaces the package logger, mostly for tests.
func SetLogger(l *slog.Logger) {
	defaultLogger = l
}

func checkLogger() *slog.Logger {
	if defaultLogger == nil {
		defaultLogger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return defaultLogger
}

// Info logs an informational message.
func Info(msg string, args ...any) {
	checkLogger().Info(msg, args...)
}

func Infof(format string, v ...interface{}) {
	checkLogger().Info(fmt.Sprintf(format, v...))
}

// Error logs an error message.
func Error(msg string, args ...any) {
	checkLogger().Error(msg, args...)
}

func Errorf(format string, v ...interface{}) {
	checkLogger().Error(fmt.Sprintf(format, v...))
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	checkLogger().Debug(msg, args...)
}

func Debugf(format string, v ...interface{}) {
	checkLogger().Debug(fmt.Sprintf(format, v...))
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	checkLogger().Warn(msg, args...)
}

func Warnf(format string, v ...interface{}) {
	checkLogger().Warn(fmt.Sprintf(format, v...))
}

// Resty adapts the package logger to resty's Logger interface.
type Resty struct{}

func (Resty) Errorf(format string, v ...interface{}) { Errorf(format, v...) }
func (Resty) Warnf(format string, v ...interface{})  { Warnf(format, v...) }
func (Resty) Debugf(format string, v ...interface{}) { Debugf(format, v...) }
