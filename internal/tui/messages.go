package tui

// Messages sent from the work goroutine into the running program.

// RowUpdateMsg rewrites the named columns of the row registered under Key.
// Columns absent from Fields keep their current value.
type RowUpdateMsg struct {
	Key    string
	Fields map[string]string
}

// WorkDoneMsg reports that the work goroutine has finished every row.
type WorkDoneMsg struct{}

// ErrorMsg aborts the program; Err is surfaced as the final frame.
type ErrorMsg struct {
	Err error
}
