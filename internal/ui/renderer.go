package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/toruslife/internal/game"
)

// helpText lists the key bindings shown under the grid.
const helpText = "p pause  r run  n/→ step  b/← back  s save seed  w save state  q quit"

// Renderer draws snapshots to a tcell screen.
type Renderer struct {
	screen *Screen

	// colours caches parsed "#RRGGBB" strings.
	colours map[string]tcell.Color
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen, colours: make(map[string]tcell.Color)}
}

// Render draws the generation header, the grid, and a status area below it.
func (r *Renderer) Render(snap game.Snapshot) {
	r.screen.Clear()

	headerStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	drawText(r.screen, 0, 0, fmt.Sprintf("Generation: %d", snap.Generation), headerStyle)

	liveStyle := r.cellStyle(snap.LiveColor)
	deadStyle := r.cellStyle(snap.DeadColor)
	grid := snap.Grid
	for y := 0; y < grid.Rows; y++ {
		for x := 0; x < grid.Cols; x++ {
			if grid.At(x, y).IsLive() {
				r.screen.SetContent(x, y+1, snap.LiveGlyph, liveStyle)
			} else {
				r.screen.SetContent(x, y+1, snap.DeadGlyph, deadStyle)
			}
		}
	}

	statusY := grid.Rows + 2
	status := fmt.Sprintf("[%s] seed %d  history %d", snap.Mode, snap.Seed, snap.History)
	drawText(r.screen, 0, statusY, status, r.statusStyle(snap.Mode))
	drawText(r.screen, 0, statusY+1, helpText, tcell.StyleDefault.Foreground(tcell.ColorGray))
	if snap.Message != "" {
		r.RenderMessage(snap.Message, statusY+2)
	}

	if r.screen.Prompt() != "" {
		r.screen.DrawPrompt()
	}
	r.screen.Show()
}

// RenderMessage displays a message on the given line.
func (r *Renderer) RenderMessage(msg string, y int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	drawText(r.screen, 0, y, msg, style)
}

// cellStyle returns the style for a configured colour, or the default style.
func (r *Renderer) cellStyle(hex string) tcell.Style {
	if hex == "" {
		return tcell.StyleDefault
	}
	c, ok := r.colours[hex]
	if !ok {
		var err error
		if c, err = ParseHexColor(hex); err != nil {
			c = tcell.ColorDefault
		}
		r.colours[hex] = c
	}
	return tcell.StyleDefault.Foreground(c)
}

// statusStyle returns the status line style for a mode.
func (r *Renderer) statusStyle(m game.Mode) tcell.Style {
	switch m {
	case game.ModePaused:
		return tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	default:
		return tcell.StyleDefault.Foreground(tcell.ColorGreen)
	}
}
