package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

const maxLogSize = 10 * 1024 * 1024

// fallback 关闭日志文件后使用的输出
var fallback io.Writer = os.Stderr

var (
	mu      sync.Mutex
	std     = newLogger(fallback, log.InfoLevel)
	logFile *os.File
	logPath string
)

func newLogger(w io.Writer, level log.Level) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		Prefix:          "leebox",
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	l.SetLevel(level)
	return l
}

// ParseLevel maps a config level name to a log level, defaulting to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Init configures the package logger to write to w at the given level.
func Init(w io.Writer, level string) *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	std = newLogger(w, ParseLevel(level))
	return std
}

// InitFile redirects logging to ~/.leebox/debug.log. The host console owns the
// terminal, so nothing may be written to stdout/stderr while it runs.
func InitFile(level string) (*log.Logger, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return InitFileIn(filepath.Join(homeDir, ".leebox"), level)
}

// InitFileIn is InitFile with an explicit log directory.
func InitFileIn(logDir, level string) (*log.Logger, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	path := filepath.Join(logDir, "debug.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	// Rotate if file is too large
	if info, err := f.Stat(); err == nil && info.Size() > maxLogSize {
		_ = f.Close()
		backupPath := filepath.Join(logDir, fmt.Sprintf("debug.log.%d", time.Now().Unix()))
		_ = os.Rename(path, backupPath)
		f, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to create new log file: %w", err)
		}
	}

	mu.Lock()
	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = f
	logPath = path
	std = newLogger(f, ParseLevel(level))
	l := std
	mu.Unlock()

	l.Info("logger initialized", "file", path)
	return l, nil
}

// Close closes the log file, if any, and sends later output to stderr at the
// same level.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
		std = newLogger(fallback, std.GetLevel())
	}
}

// Default returns the package logger.
func Default() *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	return std
}

// LogInfo logs an info message
func LogInfo(format string, args ...any) {
	Default().Infof(format, args...)
}

// LogError logs an error message
func LogError(format string, args ...any) {
	Default().Errorf(format, args...)
}

// LogPanic logs a panic with stack trace
func LogPanic(r any) {
	Default().Error("panic recovered", "panic", r, "stack", string(debug.Stack()))
}

// GetLogPath returns the current log file path
func GetLogPath() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}
