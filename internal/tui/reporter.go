package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"droidbuild/internal/gradle"
)

// AdaptReporter bridges per-descriptor patch progress into bubbletea
// messages so the progress table updates while a tree is adapted. Row keys
// are descriptor paths relative to the tree root, matching the keys the
// adapt command pre-populates.
type AdaptReporter struct {
	send func(tea.Msg)
}

// NewAdaptReporter wraps a program send callback.
func NewAdaptReporter(send func(tea.Msg)) *AdaptReporter {
	return &AdaptReporter{send: send}
}

// FileStarted implements gradle.Reporter.
func (r *AdaptReporter) FileStarted(path string) {
	r.send(RowUpdateMsg{
		Key:    path,
		Fields: map[string]string{"STATUS": "patching"},
	})
}

// FileFinished implements gradle.Reporter.
func (r *AdaptReporter) FileFinished(result gradle.FileResult) {
	fields := map[string]string{"STATUS": result.Status}
	if result.Err != "" {
		fields["DETAIL"] = result.Err
	}
	r.send(RowUpdateMsg{
		Key:    result.Path,
		Fields: fields,
	})
}
