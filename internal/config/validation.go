package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// ValidationResult is one finding from a strict config check.
type ValidationResult struct {
	Level   string `json:"level"` // "error" or "warning"
	Message string `json:"message"`
}

// ValidateStrict checks the config beyond what parsing enforces and returns
// every finding. knownTools is the set of recognized SDK tool names (pass
// sdk.ToolNames()).
func (c Config) ValidateStrict(sessionRoot string, knownTools []string) []ValidationResult {
	var results []ValidationResult
	results = append(results, c.validateSDKPath(sessionRoot)...)
	results = append(results, c.validateBuildTools(sessionRoot)...)
	results = append(results, c.validateToolPaths(knownTools)...)
	results = append(results, c.validateScanIgnore()...)
	return results
}

func (c Config) validateSDKPath(sessionRoot string) []ValidationResult {
	root := c.SDKRoot()
	if root == "" {
		return []ValidationResult{{
			Level:   "warning",
			Message: "sdk_path is not set and $ANDROID_HOME is empty",
		}}
	}
	resolved := resolveSessionPath(sessionRoot, root)
	info, err := os.Stat(resolved)
	if err != nil || !info.IsDir() {
		return []ValidationResult{{
			Level:   "error",
			Message: fmt.Sprintf("sdk_path %q is not an existing directory", root),
		}}
	}
	return nil
}

func (c Config) validateBuildTools(sessionRoot string) []ValidationResult {
	version := c.BuildToolsVersion()
	if version == "" {
		return nil
	}
	root := c.SDKRoot()
	if root == "" {
		return nil
	}
	dir := filepath.Join(resolveSessionPath(sessionRoot, root), "build-tools", version)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return []ValidationResult{{
			Level:   "error",
			Message: fmt.Sprintf("pinned build_tools %q not installed under %s", version, root),
		}}
	}
	return nil
}

func (c Config) validateToolPaths(knownTools []string) []ValidationResult {
	if len(c.ToolPaths) == 0 {
		return nil
	}

	known := make(map[string]bool, len(knownTools))
	for _, t := range knownTools {
		known[t] = true
	}

	names := make([]string, 0, len(c.ToolPaths))
	for name := range c.ToolPaths {
		names = append(names, name)
	}
	sort.Strings(names)

	var results []ValidationResult
	for _, name := range names {
		if !known[name] {
			results = append(results, ValidationResult{
				Level:   "warning",
				Message: fmt.Sprintf("tool_paths entry %q is not a recognized SDK tool (known: %v)", name, knownTools),
			})
		}
		path := c.ToolPath(name)
		if path == "" {
			continue
		}
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("tool_paths entry %q: %q is not an existing file", name, path),
			})
		}
	}
	return results
}

func (c Config) validateScanIgnore() []ValidationResult {
	var results []ValidationResult
	for _, pattern := range c.ScanIgnorePatterns() {
		if !doublestar.ValidatePattern(pattern) {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("scan_ignore pattern %q is not a valid glob", pattern),
			})
		}
	}
	return results
}

// resolveSessionPath returns path as-is if absolute, otherwise joins it with
// sessionRoot.
func resolveSessionPath(sessionRoot, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(sessionRoot, path)
}
