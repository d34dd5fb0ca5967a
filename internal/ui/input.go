package ui

import (
	"context"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/toruslife/internal/game"
)

// Default export paths used when a prompt is submitted empty.
const (
	DefaultSeedPath  = "seed.json"
	DefaultStatePath = "state.json"
)

// pathPrompt collects a file path before sending a save command.
type pathPrompt struct {
	label   string
	def     string
	command func(path string) game.Command
	buf     []rune
}

func (p *pathPrompt) text() string {
	return p.label + " [" + p.def + "]: " + string(p.buf)
}

// KeyInput translates terminal key events into controller commands.
type KeyInput struct {
	screen *Screen
	sink   game.Sender
	prompt *pathPrompt
}

// NewKeyInput creates an input adapter reading from screen and sending to sink.
func NewKeyInput(screen *Screen, sink game.Sender) *KeyInput {
	return &KeyInput{screen: screen, sink: sink}
}

// Run polls terminal events until the quit key is pressed or ctx is cancelled.
func (in *KeyInput) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, in.screen.Interrupt)
	defer stop()

	for {
		if ctx.Err() != nil {
			return nil
		}
		ev := in.screen.PollEvent()
		if ev == nil {
			// Screen finalized
			return nil
		}

		switch ev := ev.(type) {
		case *tcell.EventKey:
			if in.HandleKey(ev) {
				return nil
			}
		case *tcell.EventResize:
			in.screen.Sync()
		}
	}
}

// HandleKey processes one key press. It reports whether the key asked to quit.
func (in *KeyInput) HandleKey(ev *tcell.EventKey) bool {
	if in.prompt != nil {
		in.handlePromptKey(ev)
		return false
	}

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		in.sink.Send(game.Quit{})
		return true
	case tcell.KeyRight:
		in.sink.Send(game.StepForward{})
	case tcell.KeyLeft:
		in.sink.Send(game.StepBackward{})

	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			in.sink.Send(game.Quit{})
			return true
		case 'p', 'P':
			in.sink.Send(game.Pause{})
		case 'r', 'R':
			in.sink.Send(game.Unpause{})
		case 'n', 'N':
			in.sink.Send(game.StepForward{})
		case 'b', 'B':
			in.sink.Send(game.StepBackward{})
		case 's', 'S':
			in.openPrompt("Save seed to", DefaultSeedPath, func(path string) game.Command {
				return game.SaveSeed{Path: path}
			})
		case 'w', 'W':
			in.openPrompt("Save state to", DefaultStatePath, func(path string) game.Command {
				return game.SaveState{Path: path}
			})
		}
	}
	return false
}

// Prompting reports whether a path prompt is open.
func (in *KeyInput) Prompting() bool {
	return in.prompt != nil
}

func (in *KeyInput) openPrompt(label, def string, command func(string) game.Command) {
	in.prompt = &pathPrompt{label: label, def: def, command: command}
	in.showPrompt()
}

func (in *KeyInput) handlePromptKey(ev *tcell.EventKey) {
	p := in.prompt
	switch ev.Key() {
	case tcell.KeyEnter:
		path := string(p.buf)
		if path == "" {
			path = p.def
		}
		in.closePrompt()
		in.sink.Send(p.command(path))
		return
	case tcell.KeyEscape, tcell.KeyCtrlC:
		in.closePrompt()
		return
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(p.buf) > 0 {
			p.buf = p.buf[:len(p.buf)-1]
		}
	case tcell.KeyRune:
		p.buf = append(p.buf, ev.Rune())
	}
	in.showPrompt()
}

func (in *KeyInput) showPrompt() {
	in.screen.SetPrompt(in.prompt.text())
	in.screen.DrawPrompt()
	in.screen.Show()
}

func (in *KeyInput) closePrompt() {
	in.prompt = nil
	in.screen.SetPrompt("")
	in.screen.DrawPrompt()
	in.screen.Show()
}
