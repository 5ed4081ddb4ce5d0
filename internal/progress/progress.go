// Package progress provides CLI progress indicators. Output goes to stderr
// to keep stdout clean for piping, and TTY detection ensures proper
// formatting in both interactive and scripted usage. The long operations in
// a vault are reindexing (one decrypt per note) and syncing (network).
package progress

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// minItems is the minimum number of items before showing progress.
// A vault of four notes reindexes faster than the line can be read.
const minItems = 5

// Progress tracks and displays counted work, such as notes decrypted
// during a rebuild.
type Progress struct {
	w       io.Writer
	label   string
	total   int
	current int
	isTTY   bool
}

// New creates a progress reporter that writes to stderr.
// If total is less than minItems, progress updates are suppressed.
func New(label string, total int) *Progress {
	return &Progress{
		w:     os.Stderr,
		label: label,
		total: total,
		isTTY: term.IsTerminal(int(os.Stderr.Fd())),
	}
}

// Increment advances the progress counter by one and redraws.
func (p *Progress) Increment() {
	p.current++
	p.print()
}

// print writes the current progress to stderr. On TTY, carriage return
// updates the line in place; non-TTY and small totals stay silent.
func (p *Progress) print() {
	if p.total < minItems || !p.isTTY {
		return
	}

	pct := 0
	if p.total > 0 {
		pct = (p.current * 100) / p.total
	}
	fmt.Fprintf(p.w, "\r%s... %d/%d (%d%%)", p.label, p.current, p.total, pct)
}

// Done clears the progress line (on TTY) to make way for final output.
func (p *Progress) Done() {
	if p.total < minItems || !p.isTTY {
		return
	}
	fmt.Fprintf(p.w, "\r%s\r", "                                        ")
}

// Status prints a one-line status update to stderr. Used as the sync
// engine's report hook so fetch/merge/push phases are visible without
// polluting stdout.
func Status(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
