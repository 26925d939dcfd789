package render

import (
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"
)

// Terminal renders rows in place on an ANSI terminal.
//
// Row i is the i-th line of a block printed below the cursor position at
// the time of the first write. The cursor always rests on the line after the
// block, so an update moves up to its row, erases it, writes the new text
// and moves back down. All writes go through one mutex, which keeps the
// escape sequences of concurrent updates from interleaving.
//
// The block only grows: an update for an index past the last row first
// appends empty lines.
//
// A row must never reach the right margin, or the terminal wraps it onto the
// next row and every later cursor move lands one line off. With a positive
// width, rows are cut to width-1 cells with a trailing ellipsis.
type Terminal struct {
	mu    sync.Mutex
	w     io.Writer
	width int
	rows  []string
}

// NewTerminal creates a Terminal writing to w, which is width cells wide.
// A width of 0 disables truncation.
func NewTerminal(w io.Writer, width int) *Terminal {
	return &Terminal{w: w, width: max(width, 0)}
}

// Allocate reserves rows empty lines.
func (t *Terminal) Allocate(rows int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.grow(rows)
}

// UpdateRow rewrites the row owned by index. Indices start at 1; smaller
// values are ignored.
func (t *Terminal) UpdateRow(index int, text string) {
	if index < 1 {
		return
	}
	text = strings.NewReplacer("\r", " ", "\n", " ").Replace(text)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.grow(index)
	t.rows[index-1] = text

	up := len(t.rows) - index + 1
	var b strings.Builder
	b.WriteString("\r")
	b.WriteString(ansi.CursorUp(up))
	b.WriteString(ansi.EraseEntireLine)
	b.WriteString(t.fit(text))
	b.WriteString("\r")
	b.WriteString(ansi.CursorDown(up))
	_, _ = io.WriteString(t.w, b.String())
}

// fit cuts text so it stays clear of the last column.
func (t *Terminal) fit(text string) string {
	if t.width == 0 {
		return text
	}
	return ansi.Truncate(text, t.width-1, "…")
}

// Row returns the last text written to index, before truncation.
func (t *Terminal) Row(index int) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if index < 1 || index > len(t.rows) {
		return ""
	}
	return t.rows[index-1]
}

// Rows returns a copy of all rows in index order.
func (t *Terminal) Rows() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.rows...)
}

// grow appends empty lines until the block has n rows. Callers hold mu.
func (t *Terminal) grow(n int) {
	if n <= len(t.rows) {
		return
	}
	_, _ = io.WriteString(t.w, strings.Repeat("\n", n-len(t.rows)))
	for len(t.rows) < n {
		t.rows = append(t.rows, "")
	}
}
