package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SessionPaths captures canonical locations for a droidbuild session.
type SessionPaths struct {
	Root       string
	ConfigFile string
	LogsDir    string
	TmpDir     string
}

// Resolve determines the session root using the optional --project flag, the
// DROIDBUILD_PROJECT environment variable, or the current working directory.
func Resolve(projectFlag string) (SessionPaths, error) {
	var (
		root string
		err  error
	)

	switch {
	case projectFlag != "":
		root, err = filepath.Abs(projectFlag)
	case os.Getenv("DROIDBUILD_PROJECT") != "":
		root, err = filepath.Abs(os.Getenv("DROIDBUILD_PROJECT"))
	default:
		root, err = os.Getwd()
	}
	if err != nil {
		return SessionPaths{}, fmt.Errorf("resolve session root: %w", err)
	}

	return newSessionPaths(root), nil
}

func newSessionPaths(root string) SessionPaths {
	return SessionPaths{
		Root:       root,
		ConfigFile: filepath.Join(root, "config.yml"),
		LogsDir:    filepath.Join(root, "logs"),
		TmpDir:     filepath.Join(root, "tmp"),
	}
}

// SDKRoot resolves a configured SDK path against the session root when it is
// relative. Empty input stays empty.
func (p SessionPaths) SDKRoot(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	return filepath.Join(p.Root, value)
}

// EnsureRoot makes sure the session root exists on disk.
func (p SessionPaths) EnsureRoot() error {
	if err := os.MkdirAll(p.Root, 0o755); err != nil {
		return fmt.Errorf("create session root: %w", err)
	}
	return nil
}

// EnsureMetaDirs creates the logs/tmp hierarchy under the session root.
func (p SessionPaths) EnsureMetaDirs() error {
	dirs := []string{p.LogsDir, p.TmpDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GlobalDir returns the user-level droidbuild directory (~/.droidbuild),
// creating it on first use.
func GlobalDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("detect user home: %w", err)
	}
	dir := filepath.Join(home, ".droidbuild")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create global dir: %w", err)
	}
	return dir, nil
}

// GlobalLogsDir returns the global logs directory (~/.droidbuild/logs),
// creating it on first use.
func GlobalLogsDir() (string, error) {
	global, err := GlobalDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(global, "logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create global logs dir: %w", err)
	}
	return dir, nil
}

// FileExists reports whether path names a regular file. Absence is not an
// error.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// DirExists reports whether path names a directory. Absence is not an
// error.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
