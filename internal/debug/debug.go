// Package debug writes an optional diagnostic log for teamlookup.
// Nothing is written unless Init(true) was called, which happens for
// --debug or `debug: true` in config. The log lives at
// ~/.teamlookup/debug.log and starts empty on every launch.
package debug

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	// LogFileName is the name of the debug log file.
	LogFileName = "debug.log"
	// LogDirName is the directory under the user's home holding the log.
	LogDirName = ".teamlookup"
)

var (
	mu      sync.RWMutex
	enabled bool
	logger  *log.Logger
	logFile *os.File

	// logPath is swapped out by tests.
	logPath = defaultLogPath
)

// Init turns logging on or off. When enabled, the log file is created or
// truncated and a header line is written.
func Init(enable bool) error {
	mu.Lock()
	defer mu.Unlock()

	closeLocked()
	enabled = false
	logger = log.New(io.Discard, "", 0)
	if !enable {
		return nil
	}

	path, err := logPath()
	if err != nil {
		return fmt.Errorf("determine log path: %w", err)
	}
	//nolint:gosec // G301: lives in the user's own dot directory
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	//nolint:gosec // G304: path derives from the home directory
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	logFile = f
	enabled = true
	logger = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds)
	logger.Printf("=== teamlookup debug log started at %s (pid %d) ===", time.Now().Format(time.RFC3339), os.Getpid())
	return nil
}

// Close releases the log file. Calling it more than once is fine.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
	enabled = false
}

func closeLocked() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

// Logf writes one formatted line when logging is on.
func Logf(format string, v ...any) {
	mu.RLock()
	defer mu.RUnlock()

	if !enabled || logger == nil {
		return
	}
	logger.Printf(format, v...)
}

// Scope tags every line with a component name, e.g. "lookup[teams]".
type Scope string

// Logf writes a formatted line prefixed with the scope.
func (s Scope) Logf(format string, v ...any) {
	if !Enabled() {
		return
	}
	Logf("%s: "+format, append([]any{string(s)}, v...)...)
}

// Enabled reports whether lines are being written.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

func defaultLogPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determine user home: %w", err)
	}
	return filepath.Join(home, LogDirName, LogFileName), nil
}
