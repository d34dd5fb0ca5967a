// Package game provides the simulation controller and the state it owns.
package game

import (
	"github.com/samdwyer/toruslife/internal/world"
)

// Mode is the controller's run mode.
type Mode int

const (
	// ModeRunning advances one generation per tick interval.
	ModeRunning Mode = iota
	// ModePaused only services commands.
	ModePaused
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeRunning:
		return "running"
	case ModePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// State is the simulation state owned by the controller goroutine.
type State struct {
	Grid       *world.Grid
	Generation int
	Seed       uint64
	Trail      []uint64 // Per-cell draws recorded at initialization
}

// NewState wraps a freshly seeded grid at generation 0.
func NewState(s *world.Seeding) *State {
	return &State{
		Grid:  s.Grid,
		Seed:  s.Seed,
		Trail: s.Trail,
	}
}

// Snapshot is a read-only view of the state handed to renderers and exporters.
// The grid must not be modified.
type Snapshot struct {
	Generation int
	Seed       uint64
	Grid       *world.Grid
	Mode       Mode
	Message    string // Last status or error message for the operator
	History    int    // Generations available for stepping back

	LiveGlyph rune
	DeadGlyph rune
	LiveColor string
	DeadColor string
}
