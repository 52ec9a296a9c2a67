package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type testLogger struct {
	lines []string
}

func (l *testLogger) Printf(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestParseGradleDescriptor(t *testing.T) {
	path := writeFile(t, t.TempDir(), "build.gradle", `android {
    compileSdkVersion 23

    defaultConfig {
        applicationId "org.example.app"
        minSdkVersion 14
        versionCode 10200
        versionName "1.2.0"
    }
}
`)

	info, err := Parse([]string{path}, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := Info{Package: "org.example.app", VersionName: "1.2.0", VersionCode: 10200}
	if info != want {
		t.Fatalf("info = %+v, want %+v", info, want)
	}
}

func TestParseKotlinDescriptor(t *testing.T) {
	path := writeFile(t, t.TempDir(), "build.gradle.kts", `android {
    namespace = "org.example.kts"
    defaultConfig {
        versionCode = 42
        versionName = "0.4.2"
    }
}
`)

	info, err := Parse([]string{path}, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := Info{Package: "org.example.kts", VersionName: "0.4.2", VersionCode: 42}
	if info != want {
		t.Fatalf("info = %+v, want %+v", info, want)
	}
}

func TestParseSkipsCommentLines(t *testing.T) {
	path := writeFile(t, t.TempDir(), "build.gradle", `android {
    defaultConfig {
        applicationId "org.example.app"
        // versionCode 99999
        versionCode 7
    }
}
`)

	info, err := Parse([]string{path}, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if info.VersionCode != 7 {
		t.Fatalf("VersionCode = %d, want 7", info.VersionCode)
	}
}

func TestParseAndroidManifestXML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "AndroidManifest.xml",
		`<?xml version="1.0" encoding="utf-8"?>
<manifest xmlns:android="http://schemas.android.com/apk/res/android"
    package="org.example.xml"
    android:versionCode="301"
    android:versionName="3.0.1">
    <application android:label="Example"/>
</manifest>
`)

	info, err := Parse([]string{path}, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := Info{Package: "org.example.xml", VersionName: "3.0.1", VersionCode: 301}
	if info != want {
		t.Fatalf("info = %+v, want %+v", info, want)
	}
}

func TestParseHighestVersionCodeWins(t *testing.T) {
	dir := t.TempDir()
	older := writeFile(t, dir, "lib/build.gradle", `android {
    defaultConfig {
        applicationId "org.example.app"
        versionCode 5
        versionName "0.5"
    }
}
`)
	newer := writeFile(t, dir, "app/build.gradle", `android {
    defaultConfig {
        versionCode 12
        versionName "1.2"
    }
}
`)

	info, err := Parse([]string{older, newer}, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := Info{Package: "org.example.app", VersionName: "1.2", VersionCode: 12}
	if info != want {
		t.Fatalf("info = %+v, want %+v", info, want)
	}
}

func TestParseFirstApplicationIDWins(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "a.gradle", "applicationId \"org.example.first\"\n")
	second := writeFile(t, dir, "b.gradle", "applicationId \"org.example.second\"\nversionCode 9\n")

	info, err := Parse([]string{first, second}, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if info.Package != "org.example.first" {
		t.Fatalf("Package = %q, want org.example.first", info.Package)
	}
	if info.VersionCode != 9 {
		t.Fatalf("VersionCode = %d, want 9", info.VersionCode)
	}
}

func TestParseSkipsUnreadableFiles(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "build.gradle", "applicationId \"org.example.app\"\n")
	missing := filepath.Join(dir, "gone.gradle")

	logger := &testLogger{}
	info, err := Parse([]string{missing, good}, logger)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if info.Package != "org.example.app" {
		t.Fatalf("Package = %q, want org.example.app", info.Package)
	}
	if len(logger.lines) != 1 || !strings.Contains(logger.lines[0], "gone.gradle") {
		t.Fatalf("logger lines = %v, want one skip warning", logger.lines)
	}
}

func TestParseMalformedXMLIsSkipped(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "AndroidManifest.xml", "<manifest package='org.broken'")
	good := writeFile(t, dir, "build.gradle", "applicationId \"org.example.app\"\n")

	info, err := Parse([]string{bad, good}, &testLogger{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if info.Package != "org.example.app" {
		t.Fatalf("Package = %q, want org.example.app", info.Package)
	}
}

func TestParseNoApplicationID(t *testing.T) {
	path := writeFile(t, t.TempDir(), "build.gradle", "versionCode 3\n")

	if _, err := Parse([]string{path}, nil); err == nil {
		t.Fatal("expected an error when no application id is present")
	}
}

func TestParseRejectsMalformedApplicationID(t *testing.T) {
	path := writeFile(t, t.TempDir(), "build.gradle", "applicationId \"org.example..app\"\n")

	_, err := Parse([]string{path}, nil)
	if err == nil {
		t.Fatal("expected an error for a malformed application id")
	}
	if !strings.Contains(err.Error(), "org.example..app") {
		t.Fatalf("err = %v, want the offending id named", err)
	}
}
