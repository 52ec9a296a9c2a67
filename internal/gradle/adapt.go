package gradle

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Statuses reported for each descriptor during AdaptTree.
const (
	StatusPatched    = "patched"
	StatusWouldPatch = "would-patch"
	StatusUnchanged  = "unchanged"
	StatusSkipped    = "skipped"
	StatusError      = "error"
)

// FileResult records the outcome for one descriptor.
type FileResult struct {
	Path   string `json:"path"` // relative to the tree root
	Status string `json:"status"`
	Err    string `json:"error,omitempty"`
}

// Reporter receives per-file progress while a tree is adapted.
type Reporter interface {
	FileStarted(path string)
	FileFinished(result FileResult)
}

// AdaptOptions tune AdaptTree.
type AdaptOptions struct {
	Ignore   []string // doublestar patterns relative to the tree root
	DryRun   bool     // report would-patch without rewriting
	Reporter Reporter // optional progress sink
}

// AdaptTree pins version in every gradle descriptor under dir that declares
// buildToolsVersion. Descriptors without the property are recorded as
// skipped, not failed, since subproject and settings files routinely lack
// it. Results follow walk order; the returned error is reserved for
// failures of the walk itself.
func AdaptTree(dir, version string, opts AdaptOptions) ([]FileResult, error) {
	tree, err := ScanTree(dir, opts.Ignore)
	if err != nil {
		return nil, err
	}
	return AdaptFiles(dir, version, tree.Descriptors, opts), nil
}

// AdaptFiles patches an already-collected descriptor list, reporting paths
// relative to dir. Callers that scanned up front, for example to seed a
// progress table, use this to avoid walking the tree twice.
func AdaptFiles(dir, version string, descriptors []string, opts AdaptOptions) []FileResult {
	results := make([]FileResult, 0, len(descriptors))
	for _, path := range descriptors {
		rel := relOrSelf(dir, path)
		if opts.Reporter != nil {
			opts.Reporter.FileStarted(rel)
		}

		result := FileResult{Path: rel}
		changed, err := patchOne(path, version, opts.DryRun)
		switch {
		case errors.Is(err, ErrPropertyNotFound):
			result.Status = StatusSkipped
		case err != nil:
			result.Status = StatusError
			result.Err = err.Error()
		case changed && opts.DryRun:
			result.Status = StatusWouldPatch
		case changed:
			result.Status = StatusPatched
		default:
			result.Status = StatusUnchanged
		}

		if opts.Reporter != nil {
			opts.Reporter.FileFinished(result)
		}
		results = append(results, result)
	}
	return results
}

// patchOne applies or previews a single-descriptor patch. In dry-run mode
// it reports whether a write would happen without touching the file.
func patchOne(path, version string, dryRun bool) (bool, error) {
	if !dryRun {
		return PatchFile(path, version)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read descriptor: %w", err)
	}
	patched, count := patchDescriptor(data, version)
	if count == 0 {
		return false, fmt.Errorf("%s: %w", path, ErrPropertyNotFound)
	}
	return !bytes.Equal(patched, data), nil
}

func relOrSelf(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
