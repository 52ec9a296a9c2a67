package tui

import (
	"io"
	"os"
	"runtime"
	"strings"
)

// OutputMode selects how a command presents per-file progress.
type OutputMode int

const (
	// ModeTUI repaints a live table while work runs.
	ModeTUI OutputMode = iota
	// ModePlain prints a static table once all work has finished.
	ModePlain
	// ModeJSON emits a machine-readable report on stdout.
	ModeJSON
)

// DetectMode picks the output mode for out. The live table is used only when
// out is an interactive terminal; JSON output and --no-progress force the
// static forms.
func DetectMode(out io.Writer, noProgress, jsonOutput bool) OutputMode {
	switch {
	case jsonOutput:
		return ModeJSON
	case noProgress, !isTerminal(out), !termCapable():
		return ModePlain
	}
	return ModeTUI
}

// isTerminal reports whether out is a character device.
func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// termCapable reports whether $TERM names a terminal that can handle cursor
// addressing. Windows consoles do not use TERM.
func termCapable() bool {
	if runtime.GOOS == "windows" {
		return true
	}
	term := os.Getenv("TERM")
	return term != "" && !strings.EqualFold(term, "dumb")
}
