package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config captures the session configuration for preparing an Android
// project against a local SDK installation.
type Config struct {
	// SDKPath is the root of the Android SDK. Supports ~ and $VAR
	// references, expanded at access time.
	SDKPath string `yaml:"sdk_path"`

	// BuildTools pins a build-tools release. Empty means the highest
	// installed release is selected at session start.
	BuildTools string `yaml:"build_tools"`

	// ToolPaths maps an SDK tool name to an explicit executable path,
	// bypassing the SDK directory search for that tool.
	ToolPaths map[string]string `yaml:"tool_paths,omitempty"`

	// ScanIgnore lists glob patterns (doublestar syntax, matched against
	// paths relative to the scanned directory) excluded from descriptor
	// scans.
	ScanIgnore []string `yaml:"scan_ignore"`
}

// Default returns the configuration a fresh session starts from.
func Default() Config {
	return Config{
		SDKPath:    "$ANDROID_HOME",
		BuildTools: "",
		ScanIgnore: []string{"**/.git/**"},
	}
}

// Load parses the YAML configuration at path. A missing file is not an
// error; it yields the defaults.
func Load(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults ensures fields fall back to sensible defaults when the YAML
// omits them.
func (c *Config) ApplyDefaults() {
	defaults := Default()

	if strings.TrimSpace(c.SDKPath) == "" {
		c.SDKPath = defaults.SDKPath
	}
	if c.ScanIgnore == nil {
		c.ScanIgnore = defaults.ScanIgnore
	}
}

// SDKRoot returns the configured SDK path with environment variables and a
// leading ~ expanded. An unset variable expands to the empty string, which
// callers treat as "not configured".
func (c Config) SDKRoot() string {
	return expandPath(c.SDKPath)
}

// BuildToolsVersion returns the pinned build-tools release, or empty when the
// session should auto-detect one.
func (c Config) BuildToolsVersion() string {
	return strings.TrimSpace(c.BuildTools)
}

// ToolPath returns the configured override path for a tool, or empty.
func (c Config) ToolPath(name string) string {
	if c.ToolPaths == nil {
		return ""
	}
	return expandPath(c.ToolPaths[name])
}

// ScanIgnorePatterns returns the configured ignore globs, trimmed, without
// empty entries.
func (c Config) ScanIgnorePatterns() []string {
	patterns := make([]string, 0, len(c.ScanIgnore))
	for _, p := range c.ScanIgnore {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		patterns = append(patterns, p)
	}
	return patterns
}

// Marshal encodes the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	buf, err := yaml.Marshal(&c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return buf, nil
}

// Save writes the configuration to path through a temp file and rename, so
// readers never observe a partial write.
func (c Config) Save(path string) error {
	buf, err := c.Marshal()
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}

// expandPath expands $VAR / ${VAR} references and then a leading ~, matching
// how SDK locations are conventionally configured ($ANDROID_HOME, ~/Android).
func expandPath(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	value = strings.TrimSpace(os.ExpandEnv(value))
	if value == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return value
	}
	if strings.HasPrefix(value, "~"+string(os.PathSeparator)) || strings.HasPrefix(value, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, value[2:])
		}
	}
	return value
}
