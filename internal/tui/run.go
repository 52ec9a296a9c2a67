package tui

import (
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	// startupDelay leaves the program time to render its first frame before
	// any row updates arrive.
	startupDelay = 50 * time.Millisecond

	// sendYield spaces consecutive row updates so each lands on its own
	// frame.
	sendYield = 5 * time.Millisecond
)

// RunWithWork runs model in a bubbletea program while workFn executes in the
// background. workFn reports progress through its send callback; completion
// is signaled automatically when it returns. The error carried by the final
// model, if any, becomes the return value.
func RunWithWork(out io.Writer, model ProgressModel, workFn func(send func(tea.Msg))) error {
	p := tea.NewProgram(model, tea.WithOutput(out))

	go runWork(p, workFn)

	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(ProgressModel); ok {
		return m.Err()
	}
	return nil
}

func runWork(p *tea.Program, workFn func(send func(tea.Msg))) {
	time.Sleep(startupDelay)
	workFn(func(msg tea.Msg) {
		p.Send(msg)
		time.Sleep(sendYield)
	})
	p.Send(WorkDoneMsg{})
}
