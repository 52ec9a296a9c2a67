package tui

import "github.com/charmbracelet/lipgloss"

// HeaderStyle renders the table header row.
var HeaderStyle = lipgloss.NewStyle().Bold(true)

// statusColors maps a status cell value to its ANSI color: green for settled
// rows, blue for rows being worked on, cyan for dry-run hits, yellow for rows
// needing attention, red for failures.
var statusColors = map[string]string{
	"patched":   "2",
	"unchanged": "2",
	"found":     "2",
	"ok":        "2",

	"scanning":  "4",
	"patching":  "4",
	"resolving": "4",

	"would-patch": "6",

	"skipped":    "3",
	"missing":    "3",
	"unresolved": "3",

	"error": "1",
}

// StatusStyle returns the style for a status cell. Pending rows are dimmed,
// values outside the palette render unstyled.
func StatusStyle(status string) lipgloss.Style {
	if status == "pending" {
		return lipgloss.NewStyle().Faint(true)
	}
	if c, ok := statusColors[status]; ok {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	return lipgloss.NewStyle()
}
