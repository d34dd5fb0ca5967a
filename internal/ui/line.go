package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/samdwyer/toruslife/internal/game"
)

// ParseLine converts a typed command line into a controller command.
// Save commands take an optional path and fall back to the default export paths.
func ParseLine(line string) (game.Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	arg := func(def string) string {
		if len(fields) > 1 {
			return strings.Join(fields[1:], " ")
		}
		return def
	}

	switch strings.ToLower(fields[0]) {
	case "p", "pause":
		return game.Pause{}, nil
	case "r", "run", "resume", "unpause":
		return game.Unpause{}, nil
	case "n", "next", "step":
		return game.StepForward{}, nil
	case "b", "back":
		return game.StepBackward{}, nil
	case "s", "seed":
		return game.SaveSeed{Path: arg(DefaultSeedPath)}, nil
	case "w", "state":
		return game.SaveState{Path: arg(DefaultStatePath)}, nil
	case "q", "quit", "exit":
		return game.Quit{}, nil
	default:
		return nil, fmt.Errorf("unknown command %q", fields[0])
	}
}

// LineInput reads one command per line, for use without a terminal screen.
type LineInput struct {
	r      io.Reader
	sink   game.Sender
	logger *log.Logger
}

// NewLineInput creates a line adapter reading from r and sending to sink.
func NewLineInput(r io.Reader, sink game.Sender, logger *log.Logger) *LineInput {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &LineInput{r: r, sink: sink, logger: logger}
}

// Run sends a command for each line until quit, end of input or ctx is
// cancelled. The reading goroutine cannot be interrupted and is left blocked
// on the reader when ctx ends first.
func (in *LineInput) Run(ctx context.Context) error {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in.r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errc:
			return err
		case line := <-lines:
			if strings.TrimSpace(line) == "" {
				continue
			}
			cmd, err := ParseLine(line)
			if err != nil {
				in.logger.Warn("ignoring input", "line", line, "err", err)
				continue
			}
			in.sink.Send(cmd)
			if _, ok := cmd.(game.Quit); ok {
				return nil
			}
		}
	}
}
