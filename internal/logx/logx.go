package logx

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"droidbuild/internal/paths"
)

// New creates a logger backed by a timestamped file in the session's logs
// directory. Callers close the returned closer when the command finishes.
func New(p paths.SessionPaths) (*log.Logger, io.Closer, error) {
	return open(p.LogsDir, "")
}

// NewGlobal creates a logger under the user-level logs directory
// (~/.droidbuild/logs), for commands that run before a session exists. The
// name is embedded in the log filename.
func NewGlobal(name string) (*log.Logger, io.Closer, error) {
	dir, err := paths.GlobalLogsDir()
	if err != nil {
		return nil, nil, err
	}
	return open(dir, name)
}

func open(dir, name string) (*log.Logger, io.Closer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("ensure logs directory: %w", err)
	}

	filename := time.Now().Format("20060102-150405")
	if name != "" {
		filename += "-" + name
	}
	filename += ".log"

	filePath := filepath.Join(dir, filename)
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	logger := log.New(file, "", log.LstdFlags|log.Lmicroseconds)
	return logger, file, nil
}
