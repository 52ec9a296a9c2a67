package sdk

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

const (
	// aapt from build-tools 26.0.x is the oldest release that produces
	// packages current Android versions still accept.
	minAaptBuildTools = "26.0.0"

	// SDK builds of aapt report an AOSP build number instead of a
	// build-tools release; this one corresponds to build-tools 26.0.0.
	minAaptBuildNumber = 4062713
)

var aaptVersionPattern = regexp.MustCompile(`v([0-9]+)\.([0-9]+)[.-]?([0-9.\-]*)`)

// AaptVersion runs `aapt version` through the runner and returns the first
// line of output, e.g. "Android Asset Packaging Tool, v0.2-4913185". Some
// aapt builds print the banner on stderr, so that stream is consulted when
// stdout is empty.
func AaptVersion(ctx context.Context, runner Runner, path string) (string, error) {
	if runner == nil {
		runner = CmdRunner{}
	}
	res, err := runner.Run(ctx, path, "version")
	if err != nil {
		return "", fmt.Errorf("aapt version: %w", err)
	}
	banner := strings.TrimSpace(string(res.Stdout))
	if banner == "" {
		banner = strings.TrimSpace(string(res.Stderr))
	}
	return firstLine(banner), nil
}

// CheckAapt reports a warning when the aapt at path comes from a build-tools
// release too old to produce installable packages. The empty string means the
// version passed. Distro builds report the build-tools release after the
// dash ("v0.2-23.0.2"), SDK builds an AOSP build number ("v0.2-4913185").
func CheckAapt(ctx context.Context, runner Runner, path string) (string, error) {
	line, err := AaptVersion(ctx, runner, path)
	if err != nil {
		return "", err
	}

	m := aaptVersionPattern.FindStringSubmatch(line)
	if m == nil {
		return fmt.Sprintf("could not parse aapt version from %q", line), nil
	}

	suffix := strings.Trim(m[3], "-.")
	if suffix == "" {
		return "", nil
	}

	if strings.Contains(suffix, ".") {
		if sem := normalizeSemver(suffix); sem != "" && semver.Compare(sem, "v"+minAaptBuildTools) < 0 {
			return fmt.Sprintf("aapt from build-tools %s is older than %s, update the SDK", suffix, minAaptBuildTools), nil
		}
		return "", nil
	}

	if n, convErr := strconv.Atoi(suffix); convErr == nil && n < minAaptBuildNumber {
		return fmt.Sprintf("aapt build %d predates build-tools %s, update the SDK", n, minAaptBuildTools), nil
	}
	return "", nil
}

func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return text[:idx]
	}
	return text
}
