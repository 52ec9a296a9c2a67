package tui

import (
	"fmt"
	"io"
	"sync"
	"time"
)

const statusInterval = 100 * time.Millisecond

// StatusWriter renders a single in-place status line with a spinner and a
// per-phase elapsed time. Commands run one during the setup work that
// happens before any table output, resolving the toolchain or scanning a
// tree, and stop it before handing the stream to the progress TUI.
type StatusWriter struct {
	mu      sync.Mutex
	out     io.Writer
	text    string
	since   time.Time
	stopped bool
	done    chan struct{}
}

// NewStatusWriter starts the spinner on w. Callers must Stop it before
// writing anything else to the same stream.
func NewStatusWriter(w io.Writer) *StatusWriter {
	sw := &StatusWriter{
		out:   w,
		since: time.Now(),
		done:  make(chan struct{}),
	}
	go sw.run()
	return sw
}

// Update replaces the status text and restarts the phase clock.
func (sw *StatusWriter) Update(text string) {
	sw.mu.Lock()
	sw.text = text
	sw.since = time.Now()
	sw.mu.Unlock()
}

// Stop erases the status line. Later calls do nothing, so a deferred Stop
// can coexist with an explicit one ahead of table output.
func (sw *StatusWriter) Stop() {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	if sw.stopped {
		return
	}
	sw.stopped = true
	close(sw.done)
	fmt.Fprint(sw.out, "\r\033[K")
}

func (sw *StatusWriter) run() {
	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()

	for frame := 0; ; frame++ {
		select {
		case <-sw.done:
			return
		case <-ticker.C:
			sw.render(frame)
		}
	}
}

// render draws one spinner frame. The stopped check runs under the same
// lock as the write, so a frame never lands after Stop cleared the line.
func (sw *StatusWriter) render(frame int) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	if sw.stopped {
		return
	}
	spinner := spinnerFrames[frame%len(spinnerFrames)]
	fmt.Fprintf(sw.out, "\r\033[K%s %s (%s)", spinner, sw.text, elapsedLabel(time.Since(sw.since)))
}

// elapsedLabel compacts a duration for the status line: milliseconds under a
// second, tenths up to ten seconds, then whole seconds and minutes.
func elapsedLabel(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < 10*time.Second:
		return fmt.Sprintf("%.1fs", d.Seconds())
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	default:
		return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
	}
}
