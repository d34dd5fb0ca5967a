// Package world provides the toroidal Life grid, its neighbor topology and the generation rule.
package world

// Cell represents the state of a single grid position.
type Cell uint8

const (
	// Dead is the inactive cell state. It is the zero value.
	Dead Cell = iota
	// Live is the active cell state.
	Live
)

// IsLive returns true if the cell is live.
func (c Cell) IsLive() bool {
	return c == Live
}

// String returns a human-readable cell name.
func (c Cell) String() string {
	switch c {
	case Live:
		return "live"
	case Dead:
		return "dead"
	default:
		return "unknown"
	}
}
