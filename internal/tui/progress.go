package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// The table repaints on a fixed cadence. Each tick advances the spinner one
// frame and slides any scrolling cell one character.
const tickInterval = 150 * time.Millisecond

// marqueeGap separates the end of a scrolling value from its next repetition.
const marqueeGap = "   "

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// tickMsg is the animation clock signal.
type tickMsg time.Time

// Column describes one table column. Width is the minimum cell width; a
// longer header widens the column, cell content never does.
type Column struct {
	Header string
	Width  int
}

// Row is one table line, addressed by Key when the work loop reports
// progress.
type Row struct {
	Key    string
	Fields []string
}

// ProgressModel renders live per-file progress as a fixed-width table with a
// spinner footer. Commands share it by supplying their own column set.
type ProgressModel struct {
	title   string
	columns []Column
	widths  []int
	rows    []Row
	byKey   map[string]int

	// statusIdx is the position of the STATUS column, -1 when the column
	// set has none.
	statusIdx int

	tick int
	done bool
	err  error
}

// NewProgressModel builds an empty table for the given columns. Rows are
// registered up front with AddRow; the work loop then addresses them by key.
func NewProgressModel(title string, columns []Column) ProgressModel {
	widths := make([]int, len(columns))
	statusIdx := -1
	for i, col := range columns {
		widths[i] = max(col.Width, len(col.Header))
		if statusIdx < 0 && strings.EqualFold(col.Header, "STATUS") {
			statusIdx = i
		}
	}
	return ProgressModel{
		title:     title,
		columns:   columns,
		widths:    widths,
		byKey:     make(map[string]int),
		statusIdx: statusIdx,
	}
}

// AddRow appends a row keyed for later updates. Field values beyond the
// column count are dropped; missing ones render empty.
func (m *ProgressModel) AddRow(key string, fields []string) {
	row := Row{Key: key, Fields: make([]string, len(m.columns))}
	copy(row.Fields, fields)
	m.byKey[key] = len(m.rows)
	m.rows = append(m.rows, row)
}

func nextTick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init starts the animation clock.
func (m ProgressModel) Init() tea.Cmd {
	return nextTick()
}

// Update advances the model. Ticks reschedule themselves until the work
// signals completion, so the spinner stops once the table settles.
func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.tick++
		if m.done {
			return m, nil
		}
		return m, nextTick()

	case RowUpdateMsg:
		m.setFields(msg.Key, msg.Fields)
		return m, nil

	case WorkDoneMsg:
		m.done = true
		return m, tea.Quit

	case ErrorMsg:
		m.done = true
		m.err = msg.Err
		return m, tea.Quit

	case tea.KeyMsg:
		if s := msg.String(); s == "ctrl+c" || s == "q" {
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// setFields overwrites the named columns of the row registered under key.
// Updates for unregistered keys are ignored.
func (m *ProgressModel) setFields(key string, fields map[string]string) {
	idx, ok := m.byKey[key]
	if !ok {
		return
	}
	row := &m.rows[idx]
	for i, col := range m.columns {
		if v, ok := fields[col.Header]; ok {
			row.Fields[i] = v
		}
	}
}

// View renders the full frame: optional title, header row, one line per
// registered row, and a spinner footer while work is still running.
func (m ProgressModel) View() string {
	if m.done && m.err != nil {
		return fmt.Sprintf("Error: %v\n", m.err)
	}

	var b strings.Builder
	if m.title != "" {
		b.WriteString(HeaderStyle.Render(m.title))
		b.WriteString("\n\n")
	}
	m.writeHeader(&b)
	for i := range m.rows {
		m.writeRow(&b, i)
	}
	m.writeFooter(&b)
	return b.String()
}

func (m ProgressModel) writeHeader(b *strings.Builder) {
	cells := make([]string, len(m.columns))
	for i, col := range m.columns {
		cells[i] = HeaderStyle.Render(pad(col.Header, m.widths[i]))
	}
	b.WriteString(strings.Join(cells, "  "))
	b.WriteByte('\n')
}

func (m ProgressModel) writeRow(b *strings.Builder, idx int) {
	row := m.rows[idx]
	cells := make([]string, len(m.columns))
	for i := range m.columns {
		cells[i] = m.cell(row, i)
	}
	b.WriteString(strings.Join(cells, "  "))
	b.WriteByte('\n')
}

// cell fits one field value into its column. Overlong values scroll while
// work is running and are truncated once the table is final.
func (m ProgressModel) cell(row Row, i int) string {
	val := ""
	if i < len(row.Fields) {
		val = row.Fields[i]
	}
	width := m.widths[i]
	if !m.done && len(strings.TrimSpace(val)) > width {
		val = marqueeText(val, width, m.tick)
	} else {
		val = TruncateWithEllipsis(val, width)
	}
	if i == m.statusIdx {
		return StatusStyle(val).Render(pad(val, width))
	}
	return pad(val, width)
}

func (m ProgressModel) writeFooter(b *strings.Builder) {
	if m.done {
		return
	}
	processed, total := m.progressCounts()
	frame := spinnerFrames[m.tick%len(spinnerFrames)]
	fmt.Fprintf(b, "\n%s Processing %d/%d...\n", frame, processed, total)
}

// progressCounts reports how many rows have moved past their initial pending
// state, against the total row count.
func (m ProgressModel) progressCounts() (int, int) {
	total := len(m.rows)
	if m.statusIdx < 0 {
		return 0, total
	}
	processed := 0
	for _, row := range m.rows {
		if m.statusIdx >= len(row.Fields) {
			continue
		}
		switch strings.TrimSpace(row.Fields[m.statusIdx]) {
		case "", "pending":
		default:
			processed++
		}
	}
	return processed, total
}

// Done reports whether the model received a completion or abort signal.
func (m ProgressModel) Done() bool { return m.done }

// Err returns the failure carried by an ErrorMsg, if any.
func (m ProgressModel) Err() error { return m.err }

func pad(s string, width int) string {
	return fmt.Sprintf("%-*s", width, s)
}

// marqueeText returns a width-sized window into text that slides one
// character per tick, wrapping through a short gap back to the start.
func marqueeText(text string, width, tick int) string {
	text = strings.TrimSpace(text)
	if width <= 0 {
		return ""
	}
	if len(text) <= width {
		return text
	}
	loop := text + marqueeGap
	start := tick % len(loop)
	window := loop + loop
	return window[start : start+width]
}

// NonEmptyOrDash substitutes "-" for blank values so table cells stay
// visibly aligned.
func NonEmptyOrDash(value string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return "-"
}

// TruncateWithEllipsis shortens value to at most max characters, marking the
// cut with "..." when there is room for it.
func TruncateWithEllipsis(value string, max int) string {
	if max <= 0 {
		return ""
	}
	value = strings.TrimSpace(value)
	if len(value) <= max {
		return value
	}
	if max <= 3 {
		return value[:max]
	}
	return value[:max-3] + "..."
}
