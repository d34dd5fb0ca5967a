package gamedata

import (
	"fmt"

	"github.com/samdwyer/toruslife/internal/world"
)

// Glyphs used for cells in state files, independent of the display glyphs.
const (
	LiveRune = 'O'
	DeadRune = '.'
)

// StateRecord is the full game state export.
type StateRecord struct {
	RunID        string   `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Generation   int      `json:"generation" yaml:"generation"`
	Seed         uint64   `json:"seed" yaml:"seed"`
	Rows         int      `json:"rows" yaml:"rows"`
	Cols         int      `json:"cols" yaml:"cols"`
	NumbersAdded []uint64 `json:"numbers_added" yaml:"numbers_added"`
	Cells        []string `json:"cells" yaml:"cells"` // One string per row
}

// NewStateRecord builds a record from a grid and its bookkeeping.
func NewStateRecord(runID string, generation int, seed uint64, trail []uint64, g *world.Grid) StateRecord {
	return StateRecord{
		RunID:        runID,
		Generation:   generation,
		Seed:         seed,
		Rows:         g.Rows,
		Cols:         g.Cols,
		NumbersAdded: trail,
		Cells:        g.Lines(LiveRune, DeadRune),
	}
}

// Grid decodes the cell rows, checking them against the recorded dimensions.
func (r StateRecord) Grid() (*world.Grid, error) {
	g, err := world.ParseLines(r.Cells, LiveRune)
	if err != nil {
		return nil, err
	}
	if g.Rows != r.Rows || g.Cols != r.Cols {
		return nil, fmt.Errorf("cells are %dx%d, record says %dx%d", g.Rows, g.Cols, r.Rows, r.Cols)
	}
	return g, nil
}

// SaveState writes a state record to path.
func SaveState(path string, rec StateRecord) error {
	return Save(path, rec)
}

// LoadState reads a state record from path.
func LoadState(path string) (StateRecord, error) {
	rec, err := Load[StateRecord](path)
	if err != nil {
		return rec, err
	}
	if rec.Generation < 0 {
		return rec, fmt.Errorf("state %s: negative generation %d", path, rec.Generation)
	}
	return rec, nil
}
