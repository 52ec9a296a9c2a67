package gradle

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// DescriptorName is the root build descriptor Patch rewrites.
const DescriptorName = "build.gradle"

// ErrPropertyNotFound reports that a descriptor declares no
// buildToolsVersion property.
var ErrPropertyNotFound = errors.New("no buildToolsVersion property")

// A declaration line is leading whitespace, the property name, then one or
// more spaces or '=' before the value. That covers both the groovy call
// form (buildToolsVersion '19.0.0') and the assignment form
// (buildToolsVersion = "19.0.0"), in .gradle and .gradle.kts files alike.
var (
	quotedValueLine = regexp.MustCompile(`^(\s*buildToolsVersion[\s=]+)(['"])([^'"]*)(['"])(.*)$`)
	bareValueLine   = regexp.MustCompile(`^(\s*buildToolsVersion[\s=]+)([^\s'"]+)(.*)$`)
)

// Patch pins version in the build.gradle at the root of projectDir.
func Patch(projectDir, version string) error {
	_, err := PatchFile(filepath.Join(projectDir, DescriptorName), version)
	return err
}

// PatchFile rewrites every buildToolsVersion declaration in the descriptor
// at path to version and reports whether the contents changed. A descriptor
// that already pins version is left untouched. Descriptors without the
// property fail with ErrPropertyNotFound and are never modified.
func PatchFile(path, version string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read descriptor: %w", err)
	}

	patched, count := patchDescriptor(data, version)
	if count == 0 {
		return false, fmt.Errorf("%s: %w", path, ErrPropertyNotFound)
	}
	if bytes.Equal(patched, data) {
		return false, nil
	}

	if err := writeDescriptor(path, patched); err != nil {
		return false, err
	}
	return true, nil
}

// patchDescriptor rewrites declaration lines in data to carry version,
// leaving every other byte alone. Quoted values keep their quote characters;
// bare values gain single quotes. Returns the rewritten contents and the
// number of lines matched.
func patchDescriptor(data []byte, version string) ([]byte, int) {
	lines := strings.Split(string(data), "\n")
	matched := 0
	for i, line := range lines {
		if m := quotedValueLine.FindStringSubmatch(line); m != nil {
			lines[i] = m[1] + m[2] + version + m[4] + m[5]
			matched++
			continue
		}
		if m := bareValueLine.FindStringSubmatch(line); m != nil {
			lines[i] = m[1] + "'" + version + "'" + m[3]
			matched++
		}
	}
	return []byte(strings.Join(lines, "\n")), matched
}

// writeDescriptor replaces path atomically so a crash mid-write never leaves
// a truncated descriptor behind. The original file mode is preserved.
func writeDescriptor(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat descriptor: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp descriptor: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp descriptor: %w", err)
	}
	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp descriptor: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp descriptor: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace descriptor: %w", err)
	}
	return nil
}
