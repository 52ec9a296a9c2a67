package cli

import (
	"bytes"
	"strings"
	"testing"

	"droidbuild/internal/sdk"
)

func TestToolsCommandTableOutput(t *testing.T) {
	t.Setenv("ANDROID_SDK_ROOT", "")
	t.Setenv("HOME", t.TempDir())

	prevProject := projectDir
	prevJSON := outputJSON
	defer func() {
		projectDir = prevProject
		outputJSON = prevJSON
	}()

	projectDir = t.TempDir()
	outputJSON = false

	sdkRoot := writeSDKFixture(t, "25.0.3")
	t.Setenv("ANDROID_HOME", sdkRoot)

	cmd := newToolsCmd()
	stdout := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("tools: %v", err)
	}

	got := stdout.String()
	if !strings.Contains(got, "SDK root: "+sdkRoot) {
		t.Fatalf("expected sdk root line, got %q", got)
	}
	if !strings.Contains(got, "Build tools: 25.0.3") {
		t.Fatalf("expected build tools line, got %q", got)
	}
	if !strings.Contains(got, "aapt") || !strings.Contains(got, "yes") {
		t.Fatalf("expected aapt to be found, got %q", got)
	}
}

func TestToolsCommandJSONOutput(t *testing.T) {
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

	sdkRoot := writeSDKFixture(t, "25.0.3")
	t.Setenv("ANDROID_HOME", sdkRoot)

	cmd := newToolsCmd()
	stdout := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("tools --json: %v", err)
	}

	got := stdout.String()
	if !strings.Contains(got, "\"build_tools\": \"25.0.3\"") {
		t.Fatalf("expected build_tools in JSON, got %q", got)
	}
	if !strings.Contains(got, "\"tool\": \"aapt\"") {
		t.Fatalf("expected aapt entry in JSON, got %q", got)
	}
}

func TestPrintToolTableEmpty(t *testing.T) {
	cmd := newToolsCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)

	printToolTable(cmd, "", "", nil)

	if !strings.Contains(buf.String(), "(no tool statuses)") {
		t.Fatalf("expected placeholder, got %q", buf.String())
	}
}

func TestPrintToolTableMissingTool(t *testing.T) {
	cmd := newToolsCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)

	statuses := []sdk.Status{
		{Tool: "aapt", Found: true, Path: "/sdk/build-tools/25.0.3/aapt"},
		{Tool: "adb", Found: false},
	}
	printToolTable(cmd, "/sdk", "25.0.3", statuses)

	got := buf.String()
	if !strings.Contains(got, "(missing)") {
		t.Fatalf("expected missing placeholder, got %q", got)
	}
	if !strings.Contains(got, "/sdk/build-tools/25.0.3/aapt") {
		t.Fatalf("expected tool path, got %q", got)
	}
}
