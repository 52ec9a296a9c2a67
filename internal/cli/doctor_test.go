package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"droidbuild/internal/config"
	"droidbuild/internal/paths"
	"droidbuild/internal/sdk"
)

type fakeRunner struct {
	output string
	err    error
}

func (r fakeRunner) Run(context.Context, string, ...string) (sdk.Output, error) {
	return sdk.Output{Stdout: []byte(r.output)}, r.err
}

func TestJoinComma(t *testing.T) {
	tests := []struct {
		input []string
		want  string
	}{
		{nil, ""},
		{[]string{"a"}, "a"},
		{[]string{"a", "b"}, "a, b"},
		{[]string{"a", "b", "c"}, "a, b, c"},
	}

	for _, tt := range tests {
		got := joinComma(tt.input)
		if got != tt.want {
			t.Errorf("joinComma(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCheckConfigWithError(t *testing.T) {
	pp, _ := paths.Resolve(t.TempDir())
	var emptyCfg config.Config
	result := checkConfig(pp, emptyCfg, fmt.Errorf("config file not found"))

	if result.Status != "error" {
		t.Errorf("got status=%q, want error", result.Status)
	}
	if result.Name != "Config" {
		t.Errorf("got name=%q, want Config", result.Name)
	}
}

func TestCheckConfigValid(t *testing.T) {
	pp, _ := paths.Resolve(t.TempDir())
	cfg := config.Default()
	cfg.SDKPath = t.TempDir()
	result := checkConfig(pp, cfg, nil)

	if result.Status != "ok" {
		t.Errorf("got status=%q (%s), want ok", result.Status, result.Summary)
	}
}

func TestCheckConfigMissingSDK(t *testing.T) {
	pp, _ := paths.Resolve(t.TempDir())
	cfg := config.Default()
	cfg.SDKPath = filepath.Join(t.TempDir(), "nope")
	result := checkConfig(pp, cfg, nil)

	if result.Status != "error" {
		t.Errorf("got status=%q, want error for missing sdk_path", result.Status)
	}
}

func TestCheckSDKRoots(t *testing.T) {
	t.Run("no candidates", func(t *testing.T) {
		result := checkSDKRoots(nil)
		if result.Status != "error" {
			t.Errorf("got status=%q, want error", result.Status)
		}
	})

	t.Run("existing candidate", func(t *testing.T) {
		dir := t.TempDir()
		result := checkSDKRoots([]string{dir})
		if result.Status != "ok" {
			t.Errorf("got status=%q, want ok", result.Status)
		}
		if result.Summary != dir {
			t.Errorf("got summary=%q, want %q", result.Summary, dir)
		}
	})

	t.Run("all candidates missing", func(t *testing.T) {
		result := checkSDKRoots([]string{"/nope/a", "/nope/b"})
		if result.Status != "error" {
			t.Errorf("got status=%q, want error", result.Status)
		}
		if !strings.Contains(result.Summary, "/nope/a, /nope/b") {
			t.Errorf("expected candidates in summary, got %q", result.Summary)
		}
	})
}

func TestCheckToolAvailability(t *testing.T) {
	t.Run("all found", func(t *testing.T) {
		statuses := []sdk.Status{
			{Tool: "aapt", Found: true},
			{Tool: "zipalign", Found: true},
		}
		result := checkToolAvailability(statuses)
		if result.Status != "ok" {
			t.Errorf("got status=%q, want ok", result.Status)
		}
		if result.Summary != "aapt, zipalign" {
			t.Errorf("got summary=%q", result.Summary)
		}
	})

	t.Run("some missing", func(t *testing.T) {
		statuses := []sdk.Status{
			{Tool: "aapt", Found: true},
			{Tool: "adb", Found: false},
		}
		result := checkToolAvailability(statuses)
		if result.Status != "warning" {
			t.Errorf("got status=%q, want warning", result.Status)
		}
		if result.Summary != "1 of 2 tools found" {
			t.Errorf("got summary=%q", result.Summary)
		}
	})
}

func TestDoctorCommandHealthySession(t *testing.T) {
	t.Setenv("ANDROID_HOME", "")
	t.Setenv("ANDROID_SDK_ROOT", "")
	t.Setenv("HOME", t.TempDir())

	prevProject := projectDir
	prevJSON := outputJSON
	prevRunner := doctorRunner
	defer func() {
		projectDir = prevProject
		outputJSON = prevJSON
		doctorRunner = prevRunner
	}()

	projectDir = t.TempDir()
	outputJSON = false
	doctorRunner = fakeRunner{output: "Android Asset Packaging Tool, v0.2-8618415\n"}

	sdkRoot := writeSDKFixture(t, "26.0.2")
	configData := "sdk_path: " + sdkRoot + "\n"
	if err := os.WriteFile(filepath.Join(projectDir, "config.yml"), []byte(configData), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := newDoctorCmd()
	stdout := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("doctor: %v", err)
	}

	got := stdout.String()
	if !strings.Contains(got, "SESSION HEALTH:") {
		t.Fatalf("expected health header, got %q", got)
	}
	if !strings.Contains(got, "26.0.2 under "+sdkRoot) {
		t.Fatalf("expected build-tools summary, got %q", got)
	}
	if !strings.Contains(got, "Android Asset Packaging Tool") {
		t.Fatalf("expected aapt version line, got %q", got)
	}
	if !strings.Contains(got, "✓ OK") {
		t.Fatalf("expected passing checks, got %q", got)
	}
}

func TestDoctorCommandJSONWithoutSDK(t *testing.T) {
	t.Setenv("ANDROID_HOME", "")
	t.Setenv("ANDROID_SDK_ROOT", "")
	t.Setenv("HOME", t.TempDir())

	prevProject := projectDir
	prevJSON := outputJSON
	defer func() {
		projectDir = prevProject
		outputJSON = prevJSON
	}()

	projectDir = t.TempDir()
	outputJSON = true

	cmd := newDoctorCmd()
	stdout := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("doctor: %v", err)
	}

	got := stdout.String()
	if !strings.Contains(got, "\"name\": \"Config\"") {
		t.Fatalf("expected config check in JSON, got %q", got)
	}
	if !strings.Contains(got, "\"name\": \"Build tools\"") {
		t.Fatalf("expected build tools check in JSON, got %q", got)
	}
	if !strings.Contains(got, "\"error\"") {
		t.Fatalf("expected failing resolution in JSON, got %q", got)
	}
}
