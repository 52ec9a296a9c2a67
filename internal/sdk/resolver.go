package sdk

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"droidbuild/internal/config"
	"droidbuild/internal/paths"
)

var (
	// ErrUnresolved reports that no usable build-tools release was found
	// under an SDK root. Ordinary absence, not a filesystem failure.
	ErrUnresolved = errors.New("build-tools not resolved")

	// ErrToolNotFound reports that a recognized tool exists in none of the
	// candidate directories.
	ErrToolNotFound = errors.New("sdk tool not found")
)

// LocateBuildTools scans <root>/build-tools and returns the name of the
// best release directory: names are ordered by descending lexical sort and
// the first directory containing the marker executable as a regular file
// wins. Symlinks pointing nowhere do not count. A missing root or
// build-tools directory, or no qualifying release, yields ErrUnresolved.
func LocateBuildTools(root string) (string, error) {
	versions, err := ListBuildTools(root)
	if err != nil {
		return "", err
	}
	if len(versions) == 0 {
		return "", fmt.Errorf("no build-tools release under %s: %w", root, ErrUnresolved)
	}
	return versions[0], nil
}

// ListBuildTools returns every qualifying build-tools release under root in
// descending lexical order. Qualifying means the marker executable exists
// inside the release directory as a regular file.
func ListBuildTools(root string) ([]string, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("no sdk root configured: %w", ErrUnresolved)
	}

	dir := filepath.Join(root, "build-tools")
	ok, err := paths.DirExists(dir)
	if err != nil {
		return nil, fmt.Errorf("stat build-tools dir: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("no build-tools dir under %s: %w", root, ErrUnresolved)
	}

	infos, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read build-tools dir: %w", err)
	}
	sort.SliceStable(infos, func(i, j int) bool { return infos[i].Name() > infos[j].Name() })

	var versions []string
	for _, info := range infos {
		marker := filepath.Join(dir, info.Name(), executableName(markerTool))
		present, err := statRegular(marker)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", marker, err)
		}
		if present {
			versions = append(versions, info.Name())
		}
	}
	return versions, nil
}

// statRegular reports whether path names an existing regular file. Absence in
// any form (missing entry, dangling symlink, file in the parent chain) is
// false without error; other failures such as permission errors surface.
func statRegular(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) || errors.Is(err, syscall.ENOTDIR) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// systemToolDirs is searched after every SDK location, for distro packages
// of the SDK tools.
var systemToolDirs = []string{"/usr/bin"}

// Resolver finds SDK tool executables for one session. The configuration is
// shared with the session so a build-tools selection recorded there narrows
// later searches.
type Resolver struct {
	cfg  *config.Config
	root string
}

// NewResolver returns a resolver over the given SDK root. An empty root
// restricts the search to configured overrides and system locations.
func NewResolver(cfg *config.Config, root string) *Resolver {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	return &Resolver{cfg: cfg, root: strings.TrimSpace(root)}
}

// Root returns the SDK root the resolver searches under.
func (r *Resolver) Root() string {
	return r.root
}

// FindTool returns the absolute path of a recognized SDK tool, searching the
// configured override path first, then the candidate directories in order.
// Absence everywhere yields ErrToolNotFound; only filesystem failures other
// than absence surface as different errors.
func (r *Resolver) FindTool(name string) (string, error) {
	if !IsTool(name) {
		return "", fmt.Errorf("unrecognized sdk tool %q", name)
	}

	if override := r.cfg.ToolPath(name); override != "" {
		present, err := statRegular(override)
		if err != nil {
			return "", fmt.Errorf("stat tool override: %w", err)
		}
		if present {
			return override, nil
		}
	}

	exe := executableName(name)
	for _, dir := range r.toolDirs() {
		candidate := filepath.Join(dir, exe)
		present, err := statRegular(candidate)
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", candidate, err)
		}
		if present {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("tool %q: %w", name, ErrToolNotFound)
}

// toolDirs builds the candidate directory list: the pinned build-tools
// release when it exists, otherwise every release directory in descending
// lexical order plus the build-tools root, then the SDK's tools and
// platform-tools directories, then /usr/bin.
func (r *Resolver) toolDirs() []string {
	var dirs []string

	if r.root != "" {
		if ok, _ := paths.DirExists(r.root); ok {
			buildTools := filepath.Join(r.root, "build-tools")
			pinnedDir := ""
			if pinned := r.cfg.BuildToolsVersion(); pinned != "" {
				candidate := filepath.Join(buildTools, pinned)
				if ok, _ := paths.DirExists(candidate); ok {
					pinnedDir = candidate
				}
			}
			if pinnedDir != "" {
				dirs = append(dirs, pinnedDir)
			} else if infos, err := os.ReadDir(buildTools); err == nil {
				sort.SliceStable(infos, func(i, j int) bool { return infos[i].Name() > infos[j].Name() })
				for _, info := range infos {
					if !info.IsDir() {
						continue
					}
					dirs = append(dirs, filepath.Join(buildTools, info.Name()))
				}
				dirs = append(dirs, buildTools)
			}

			for _, sub := range []string{"tools", "platform-tools"} {
				dir := filepath.Join(r.root, sub)
				if ok, _ := paths.DirExists(dir); ok {
					dirs = append(dirs, dir)
				}
			}
		}
	}

	dirs = append(dirs, systemToolDirs...)
	return dirs
}

// Status captures availability of one recognized SDK tool.
type Status struct {
	Tool  string `json:"tool"`
	Found bool   `json:"found"`
	Path  string `json:"path,omitempty"`
	Error string `json:"error,omitempty"`
}

// Statuses reports availability for every recognized tool, sorted by name.
func (r *Resolver) Statuses() []Status {
	var statuses []Status
	for _, name := range ToolNames() {
		status := Status{Tool: name}
		path, err := r.FindTool(name)
		switch {
		case err == nil:
			status.Found = true
			status.Path = path
		case errors.Is(err, ErrToolNotFound):
			// plain absence, nothing to report beyond Found=false
		default:
			status.Error = err.Error()
		}
		statuses = append(statuses, status)
	}
	return statuses
}
