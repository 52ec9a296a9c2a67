// Package manifest extracts application identity from gradle descriptors
// and AndroidManifest.xml files.
package manifest

import (
	"bufio"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Logger is the minimal logging surface Parse needs.
type Logger interface {
	Printf(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Printf(string, ...any) {}

// Info holds the application identity extracted from a project tree.
type Info struct {
	Package     string `json:"package"`
	VersionName string `json:"version_name,omitempty"`
	VersionCode int    `json:"version_code,omitempty"`
}

var (
	gradleComment   = regexp.MustCompile(`^\s*//`)
	packageLine     = regexp.MustCompile(`(?:applicationId|packageName|namespace)\s*=?\s*["']([^"']+)["']`)
	versionNameLine = regexp.MustCompile(`[Vv]ersionName\s*=?\s*["']([^"']*)["']`)
	versionCodeLine = regexp.MustCompile(`[Vv]ersionCode\s*=?\s*['"]?([0-9]+)['"]?`)

	packageIDPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*(?:\.[a-zA-Z_][a-zA-Z0-9_]*)*$`)
)

// Parse extracts the application id, version name, and version code from a
// mixed list of gradle descriptors and AndroidManifest.xml files, usually
// the output of a tree scan. The entry with the highest numeric version
// code wins; the application id is the first one seen, matching how
// multi-module projects declare the id once at the application module.
// Files that cannot be read or parsed are logged and skipped. A missing or
// malformed final application id is an error.
func Parse(paths []string, logger Logger) (Info, error) {
	if logger == nil {
		logger = noopLogger{}
	}

	var info Info
	firstName := ""
	best := -1
	for _, path := range paths {
		e, err := parseFile(path)
		if err != nil {
			logger.Printf("WARN: skipping %s: %v", path, err)
			continue
		}
		if info.Package == "" && e.pkg != "" {
			info.Package = e.pkg
		}
		if firstName == "" && e.name != "" {
			firstName = e.name
		}
		if e.code > best {
			best = e.code
			if e.name != "" {
				info.VersionName = e.name
			}
		}
	}
	if info.VersionName == "" {
		info.VersionName = firstName
	}
	if best > 0 {
		info.VersionCode = best
	}

	if info.Package == "" {
		return Info{}, errors.New("no application id found")
	}
	if !packageIDPattern.MatchString(info.Package) {
		return Info{}, fmt.Errorf("invalid application id %q", info.Package)
	}
	return info, nil
}

type fileEntry struct {
	pkg  string
	name string
	code int
}

func parseFile(path string) (fileEntry, error) {
	if strings.HasSuffix(path, ".gradle") || strings.HasSuffix(path, ".gradle.kts") {
		return parseGradle(path)
	}
	return parseManifestXML(path)
}

func parseGradle(path string) (fileEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return fileEntry{}, err
	}
	defer f.Close()

	e := fileEntry{code: -1}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if gradleComment.MatchString(line) {
			continue
		}
		if m := packageLine.FindStringSubmatch(line); m != nil {
			e.pkg = m[1]
		}
		if m := versionNameLine.FindStringSubmatch(line); m != nil {
			e.name = m[1]
		}
		if m := versionCodeLine.FindStringSubmatch(line); m != nil {
			if code, err := strconv.Atoi(m[1]); err == nil {
				e.code = code
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fileEntry{}, err
	}
	return e, nil
}

type manifestRoot struct {
	Package     string `xml:"package,attr"`
	VersionName string `xml:"http://schemas.android.com/apk/res/android versionName,attr"`
	VersionCode string `xml:"http://schemas.android.com/apk/res/android versionCode,attr"`
}

func parseManifestXML(path string) (fileEntry, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return fileEntry{}, err
	}

	var root manifestRoot
	if err := xml.Unmarshal(contents, &root); err != nil {
		return fileEntry{}, fmt.Errorf("parse manifest xml: %w", err)
	}

	e := fileEntry{pkg: root.Package, name: root.VersionName, code: -1}
	if root.VersionCode != "" {
		if code, err := strconv.Atoi(strings.TrimSpace(root.VersionCode)); err == nil {
			e.code = code
		}
	}
	return e, nil
}
