// Package log provides file-backed loggers shared by every package.
// Initialize must be called once at startup before any logger is used.
package log

import (
	"io"
	stdlog "log"
	"os"
	"path/filepath"

	"taskdeck/internal/sentry"
)

var (
	InfoLog    *stdlog.Logger
	WarningLog *stdlog.Logger
	ErrorLog   *stdlog.Logger
)

var logFile *os.File

// defaultLogFileName is the name of the log file inside the user cache dir.
const defaultLogFileName = "taskdeck.log"

func init() {
	// The TUI owns stdout/stderr, so default to discarding until Initialize
	// runs. This also keeps package tests from writing to a nil logger.
	discard := stdlog.New(io.Discard, "", 0)
	InfoLog, WarningLog, ErrorLog = discard, discard, discard
}

// Initialize opens the log file and wires up the package loggers. When
// telemetryEnabled is true, warnings become Sentry breadcrumbs and errors
// become Sentry events via the tee writer.
func Initialize(telemetryEnabled bool) {
	path := logPath()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	logFile = f

	var infoW, warnW, errW io.Writer = f, f, f
	if telemetryEnabled {
		infoW = sentry.NewWriter(f, sentry.LevelInfo)
		warnW = sentry.NewWriter(f, sentry.LevelWarning)
		errW = sentry.NewWriter(f, sentry.LevelError)
	}

	flags := stdlog.LstdFlags | stdlog.Lshortfile
	InfoLog = stdlog.New(infoW, "INFO: ", flags)
	WarningLog = stdlog.New(warnW, "WARN: ", flags)
	ErrorLog = stdlog.New(errW, "ERROR: ", flags)
}

// Close closes the log file, removing it when nothing was written.
func Close() {
	if logFile == nil {
		return
	}
	name := logFile.Name()
	_ = logFile.Close()
	if fi, err := os.Stat(name); err == nil && fi.Size() == 0 {
		_ = os.Remove(name)
	}
}

// Path returns the location of the log file for the debug command.
func Path() string {
	return logPath()
}

func logPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), defaultLogFileName)
	}
	dir = filepath.Join(dir, "taskdeck")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return filepath.Join(os.TempDir(), defaultLogFileName)
	}
	return filepath.Join(dir, defaultLogFileName)
}
