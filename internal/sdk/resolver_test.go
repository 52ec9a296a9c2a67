package sdk

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"droidbuild/internal/config"
)

func writeMarker(t *testing.T, sdkRoot, version string) string {
	t.Helper()
	dir := filepath.Join(sdkRoot, "build-tools", version)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	marker := filepath.Join(dir, executableName(markerTool))
	if err := os.WriteFile(marker, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write marker: %v", err)
	}
	return marker
}

func noSystemDirs(t *testing.T) {
	t.Helper()
	saved := systemToolDirs
	systemToolDirs = nil
	t.Cleanup(func() { systemToolDirs = saved })
}

func TestLocateBuildToolsPicksHighestWithMarker(t *testing.T) {
	sdkRoot := t.TempDir()
	writeMarker(t, sdkRoot, "19.0.0")
	writeMarker(t, sdkRoot, "20.0.0")
	if err := os.MkdirAll(filepath.Join(sdkRoot, "build-tools", "18.1.1"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	version, err := LocateBuildTools(sdkRoot)
	if err != nil {
		t.Fatalf("LocateBuildTools: %v", err)
	}
	if version != "20.0.0" {
		t.Fatalf("expected 20.0.0, got %q", version)
	}
}

func TestLocateBuildToolsSkipsMarkerlessNewest(t *testing.T) {
	sdkRoot := t.TempDir()
	writeMarker(t, sdkRoot, "19.0.0")
	if err := os.MkdirAll(filepath.Join(sdkRoot, "build-tools", "21.1.2"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	version, err := LocateBuildTools(sdkRoot)
	if err != nil {
		t.Fatalf("LocateBuildTools: %v", err)
	}
	if version != "19.0.0" {
		t.Fatalf("expected 19.0.0, got %q", version)
	}
}

func TestLocateBuildToolsNoQualifyingDirIsUnresolved(t *testing.T) {
	sdkRoot := t.TempDir()
	if err := os.MkdirAll(filepath.Join(sdkRoot, "build-tools", "18.1.1"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	_, err := LocateBuildTools(sdkRoot)
	if !errors.Is(err, ErrUnresolved) {
		t.Fatalf("expected ErrUnresolved, got %v", err)
	}
}

func TestLocateBuildToolsMissingParentIsUnresolved(t *testing.T) {
	_, err := LocateBuildTools(t.TempDir())
	if !errors.Is(err, ErrUnresolved) {
		t.Fatalf("expected ErrUnresolved, got %v", err)
	}

	_, err = LocateBuildTools(filepath.Join(t.TempDir(), "nowhere"))
	if !errors.Is(err, ErrUnresolved) {
		t.Fatalf("expected ErrUnresolved for missing root, got %v", err)
	}
}

func TestLocateBuildToolsEmptyRootIsUnresolved(t *testing.T) {
	_, err := LocateBuildTools("")
	if !errors.Is(err, ErrUnresolved) {
		t.Fatalf("expected ErrUnresolved, got %v", err)
	}
}

func TestLocateBuildToolsExcludesDanglingSymlink(t *testing.T) {
	sdkRoot := t.TempDir()
	writeMarker(t, sdkRoot, "19.0.0")

	dir := filepath.Join(sdkRoot, "build-tools", "20.0.0")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	target := filepath.Join(sdkRoot, "gone")
	if err := os.Symlink(target, filepath.Join(dir, executableName(markerTool))); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	version, err := LocateBuildTools(sdkRoot)
	if err != nil {
		t.Fatalf("LocateBuildTools: %v", err)
	}
	if version != "19.0.0" {
		t.Fatalf("expected dangling symlink to be excluded, got %q", version)
	}
}

func TestLocateBuildToolsIgnoresStrayFile(t *testing.T) {
	sdkRoot := t.TempDir()
	writeMarker(t, sdkRoot, "19.0.0")
	stray := filepath.Join(sdkRoot, "build-tools", "99.9.9")
	if err := os.WriteFile(stray, []byte("not a dir"), 0o644); err != nil {
		t.Fatalf("write stray: %v", err)
	}

	version, err := LocateBuildTools(sdkRoot)
	if err != nil {
		t.Fatalf("LocateBuildTools: %v", err)
	}
	if version != "19.0.0" {
		t.Fatalf("expected stray file to be skipped, got %q", version)
	}
}

func TestLocateBuildToolsMarkerMustBeRegular(t *testing.T) {
	sdkRoot := t.TempDir()
	writeMarker(t, sdkRoot, "19.0.0")
	dir := filepath.Join(sdkRoot, "build-tools", "20.0.0", executableName(markerTool))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	version, err := LocateBuildTools(sdkRoot)
	if err != nil {
		t.Fatalf("LocateBuildTools: %v", err)
	}
	if version != "19.0.0" {
		t.Fatalf("expected directory-shaped marker to be excluded, got %q", version)
	}
}

func TestListBuildToolsDescendingOrder(t *testing.T) {
	sdkRoot := t.TempDir()
	for _, v := range []string{"19.0.0", "20.0.0", "18.1.1"} {
		writeMarker(t, sdkRoot, v)
	}

	versions, err := ListBuildTools(sdkRoot)
	if err != nil {
		t.Fatalf("ListBuildTools: %v", err)
	}
	want := []string{"20.0.0", "19.0.0", "18.1.1"}
	if len(versions) != len(want) {
		t.Fatalf("expected %v, got %v", want, versions)
	}
	for i := range want {
		if versions[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, versions)
		}
	}
}

func TestFindToolNotFound(t *testing.T) {
	noSystemDirs(t)

	cfg := config.Config{SDKPath: t.TempDir()}
	r := NewResolver(&cfg, cfg.SDKRoot())

	_, err := r.FindTool("zipalign")
	if !errors.Is(err, ErrToolNotFound) {
		t.Fatalf("expected ErrToolNotFound, got %v", err)
	}
}

func TestFindToolUnrecognizedName(t *testing.T) {
	cfg := config.Default()
	r := NewResolver(&cfg, "")

	_, err := r.FindTool("gcc")
	if err == nil || errors.Is(err, ErrToolNotFound) {
		t.Fatalf("expected unrecognized-tool error, got %v", err)
	}
}

func TestFindToolSearchesBuildToolsDescending(t *testing.T) {
	noSystemDirs(t)
	sdkRoot := t.TempDir()
	writeMarker(t, sdkRoot, "19.0.0")
	writeMarker(t, sdkRoot, "20.0.0")

	cfg := config.Config{SDKPath: sdkRoot}
	r := NewResolver(&cfg, cfg.SDKRoot())

	path, err := r.FindTool("aapt")
	if err != nil {
		t.Fatalf("FindTool: %v", err)
	}
	want := filepath.Join(sdkRoot, "build-tools", "20.0.0", executableName("aapt"))
	if path != want {
		t.Fatalf("expected %s, got %s", want, path)
	}
}

func TestFindToolPinnedReleaseWins(t *testing.T) {
	noSystemDirs(t)
	sdkRoot := t.TempDir()
	writeMarker(t, sdkRoot, "19.0.0")
	writeMarker(t, sdkRoot, "20.0.0")

	cfg := config.Config{SDKPath: sdkRoot, BuildTools: "19.0.0"}
	r := NewResolver(&cfg, cfg.SDKRoot())

	path, err := r.FindTool("aapt")
	if err != nil {
		t.Fatalf("FindTool: %v", err)
	}
	want := filepath.Join(sdkRoot, "build-tools", "19.0.0", executableName("aapt"))
	if path != want {
		t.Fatalf("expected pinned release path %s, got %s", want, path)
	}
}

func TestFindToolFallsBackToPlatformTools(t *testing.T) {
	noSystemDirs(t)
	sdkRoot := t.TempDir()
	writeMarker(t, sdkRoot, "20.0.0")

	platformTools := filepath.Join(sdkRoot, "platform-tools")
	if err := os.MkdirAll(platformTools, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	adb := filepath.Join(platformTools, executableName("adb"))
	if err := os.WriteFile(adb, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write adb: %v", err)
	}

	cfg := config.Config{SDKPath: sdkRoot}
	r := NewResolver(&cfg, cfg.SDKRoot())

	path, err := r.FindTool("adb")
	if err != nil {
		t.Fatalf("FindTool: %v", err)
	}
	if path != adb {
		t.Fatalf("expected %s, got %s", adb, path)
	}
}

func TestFindToolConfiguredOverride(t *testing.T) {
	noSystemDirs(t)
	dir := t.TempDir()
	override := filepath.Join(dir, "my-zipalign")
	if err := os.WriteFile(override, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write override: %v", err)
	}

	cfg := config.Config{
		SDKPath:   t.TempDir(),
		ToolPaths: map[string]string{"zipalign": override},
	}
	r := NewResolver(&cfg, cfg.SDKRoot())

	path, err := r.FindTool("zipalign")
	if err != nil {
		t.Fatalf("FindTool: %v", err)
	}
	if path != override {
		t.Fatalf("expected override %s, got %s", override, path)
	}
}

func TestFindToolMissingOverrideFallsThrough(t *testing.T) {
	noSystemDirs(t)
	sdkRoot := t.TempDir()
	marker := writeMarker(t, sdkRoot, "20.0.0")

	cfg := config.Config{
		SDKPath:   sdkRoot,
		ToolPaths: map[string]string{"aapt": filepath.Join(t.TempDir(), "gone")},
	}
	r := NewResolver(&cfg, cfg.SDKRoot())

	path, err := r.FindTool("aapt")
	if err != nil {
		t.Fatalf("FindTool: %v", err)
	}
	if path != marker {
		t.Fatalf("expected %s, got %s", marker, path)
	}
}

func TestStatusesCoverEveryTool(t *testing.T) {
	noSystemDirs(t)
	sdkRoot := t.TempDir()
	writeMarker(t, sdkRoot, "20.0.0")

	cfg := config.Config{SDKPath: sdkRoot}
	r := NewResolver(&cfg, cfg.SDKRoot())

	statuses := r.Statuses()
	if len(statuses) != len(ToolNames()) {
		t.Fatalf("expected %d statuses, got %d", len(ToolNames()), len(statuses))
	}

	byName := map[string]Status{}
	for _, st := range statuses {
		byName[st.Tool] = st
	}
	if !byName["aapt"].Found {
		t.Fatalf("expected aapt found, got %+v", byName["aapt"])
	}
	if byName["adb"].Found {
		t.Fatalf("expected adb missing, got %+v", byName["adb"])
	}
	if byName["adb"].Error != "" {
		t.Fatalf("expected plain absence without error text, got %q", byName["adb"].Error)
	}
}
