package gradle

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const manifestName = "AndroidManifest.xml"

// Tree holds the build-relevant files found under a project checkout.
type Tree struct {
	Descriptors []string // *.gradle and *.gradle.kts
	Manifests   []string // AndroidManifest.xml files

	all []string
}

// Paths returns every collected file in walk order.
func (t Tree) Paths() []string { return t.all }

// ScanTree walks dir and collects gradle descriptors and Android manifests
// in lexical order. Ignore patterns are doublestar globs matched against
// slash-separated paths relative to dir.
func ScanTree(dir string, ignore []string) (Tree, error) {
	var tree Tree
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if ignoredDir(ignore, rel) {
				return fs.SkipDir
			}
			return nil
		}
		if ignored(ignore, rel) {
			return nil
		}
		switch name := d.Name(); {
		case name == manifestName:
			tree.Manifests = append(tree.Manifests, path)
			tree.all = append(tree.all, path)
		case strings.HasSuffix(name, ".gradle") || strings.HasSuffix(name, ".gradle.kts"):
			tree.Descriptors = append(tree.Descriptors, path)
			tree.all = append(tree.all, path)
		}
		return nil
	})
	if err != nil {
		return Tree{}, fmt.Errorf("scan %s: %w", dir, err)
	}
	return tree, nil
}

func ignored(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// ignoredDir reports whether a pattern excludes the whole directory, so the
// walk can skip it instead of testing every file inside. A trailing "/**"
// covers all descendants, which makes pruning at the directory safe.
func ignoredDir(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
		if trimmed, found := strings.CutSuffix(p, "/**"); found {
			if ok, err := doublestar.Match(trimmed, rel); err == nil && ok {
				return true
			}
		}
	}
	return false
}
