package ui

import (
	"bufio"
	"fmt"
	"io"

	"github.com/samdwyer/toruslife/internal/game"
)

// clearScreen moves the cursor home and erases the terminal.
const clearScreen = "\x1b[H\x1b[2J"

// TextRenderer writes snapshots as plain text: a clear sequence, the
// "Generation: <n>" header, then one line of glyphs per row.
type TextRenderer struct {
	w     *bufio.Writer
	clear bool
}

// NewTextRenderer creates a renderer writing to w. When clear is false no
// escape sequence is written, which suits logs and pipes.
func NewTextRenderer(w io.Writer, clear bool) *TextRenderer {
	return &TextRenderer{w: bufio.NewWriter(w), clear: clear}
}

// Render writes one frame.
func (r *TextRenderer) Render(snap game.Snapshot) {
	if r.clear {
		r.w.WriteString(clearScreen)
	}
	fmt.Fprintf(r.w, "Generation: %d\n", snap.Generation)
	for _, line := range snap.Grid.Lines(snap.LiveGlyph, snap.DeadGlyph) {
		r.w.WriteString(line)
		r.w.WriteByte('\n')
	}
	r.w.Flush()
}
