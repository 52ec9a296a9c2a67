package gradle

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Shapes recognized while locating the application subproject: settings
// files, ':name' subproject references, and the android application plugin
// declaration in groovy or plugins-DSL form.
var (
	settingsName      = regexp.MustCompile(`^settings\.gradle(?:\.kts)?`)
	subprojectRef     = regexp.MustCompile(`['"]:([^'"]+)['"]`)
	androidPluginLine = regexp.MustCompile(`^\s*(?:apply plugin:|id)\(?\s*['"](?:android|com\.android\.application)['"]\s*\)?`)
)

// SubprojectDir locates the gradle application subproject under dir and
// returns its path relative to dir. Settings files are read for subproject
// references and each referenced directory is probed for a descriptor that
// applies the android application plugin. When none qualifies it falls back
// to the directory of the first collected file; a build based at the root
// yields "".
func SubprojectDir(dir string, tree Tree) string {
	firstDir := ""
	for _, path := range tree.Paths() {
		if firstDir == "" {
			if rel, err := filepath.Rel(dir, filepath.Dir(path)); err == nil {
				firstDir = rel
			}
		}
		if !settingsName.MatchString(filepath.Base(path)) {
			continue
		}
		contents, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		settingsDir := filepath.Dir(path)
		for _, m := range subprojectRef.FindAllStringSubmatch(string(contents), -1) {
			for _, candidate := range subprojectCandidates(m[1]) {
				if sub := androidAppDir(dir, filepath.Join(settingsDir, candidate)); sub != "" {
					return sub
				}
			}
		}
	}
	if firstDir != "" && firstDir != "." {
		return filepath.ToSlash(firstDir)
	}
	return ""
}

// subprojectCandidates maps a settings reference to the directories it may
// live in. Nested references like "libs:core" usually sit at libs/core.
func subprojectCandidates(name string) []string {
	candidates := []string{name}
	if slashed := strings.ReplaceAll(name, ":", "/"); slashed != name {
		candidates = append(candidates, slashed)
	}
	return candidates
}

// androidAppDir returns subDir relative to root when it holds a descriptor
// applying the android application plugin, and "" otherwise.
func androidAppDir(root, subDir string) string {
	matches, err := filepath.Glob(filepath.Join(subDir, "build.gradle*"))
	if err != nil {
		return ""
	}
	for _, descriptor := range matches {
		if !declaresAndroidApplication(descriptor) {
			continue
		}
		rel, err := filepath.Rel(root, filepath.Dir(descriptor))
		if err != nil {
			continue
		}
		return filepath.ToSlash(rel)
	}
	return ""
}

func declaresAndroidApplication(path string) bool {
	contents, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	for _, line := range strings.Split(string(contents), "\n") {
		if androidPluginLine.MatchString(line) {
			return true
		}
	}
	return false
}
