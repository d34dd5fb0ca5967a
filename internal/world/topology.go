package world

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidDimensions is returned for grids with zero or negative area.
var ErrInvalidDimensions = errors.New("invalid grid dimensions")

// Direction names one of the eight Moore neighbors, in table order.
type Direction int

const (
	TopLeft Direction = iota
	Top
	TopRight
	Left
	Right
	BottomLeft
	Bottom
	BottomRight

	// NeighborCount is the size of the Moore neighborhood.
	NeighborCount = 8
)

// offsets holds the (dx, dy) of each Direction.
var offsets = [NeighborCount][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Coord is an (x, y) grid position.
type Coord struct {
	X, Y int
}

// Topology is the precomputed toroidal neighbor table for one pair of dimensions.
// It depends on the dimensions only; a resized grid needs a freshly built Topology.
type Topology struct {
	Rows int
	Cols int

	// neighbors holds NeighborCount linear cell indices per cell, in Direction order.
	neighbors []int32
}

func checkDimensions(rows, cols int) error {
	if rows < 1 || cols < 1 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, rows, cols)
	}
	// Neighbor indices are stored as int32
	if rows > math.MaxInt32/cols {
		return fmt.Errorf("%w: %dx%d exceeds %d cells", ErrInvalidDimensions, rows, cols, math.MaxInt32)
	}
	return nil
}

// wrap returns v mod n, always in [0, n).
func wrap(v, n int) int {
	return ((v % n) + n) % n
}

// BuildTopology computes the eight wrapped neighbors of every cell of a rows x cols grid.
func BuildTopology(rows, cols int) (*Topology, error) {
	if err := checkDimensions(rows, cols); err != nil {
		return nil, err
	}

	t := &Topology{
		Rows:      rows,
		Cols:      cols,
		neighbors: make([]int32, rows*cols*NeighborCount),
	}
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			base := (y*cols + x) * NeighborCount
			for d, off := range offsets {
				nx := wrap(x+off[0], cols)
				ny := wrap(y+off[1], rows)
				t.neighbors[base+d] = int32(ny*cols + nx)
			}
		}
	}
	return t, nil
}

// MustBuildTopology builds a topology, panicking on invalid dimensions.
func MustBuildTopology(rows, cols int) *Topology {
	t, err := BuildTopology(rows, cols)
	if err != nil {
		panic(err)
	}
	return t
}

// Fits returns true if the topology was built for the grid's dimensions.
func (t *Topology) Fits(g *Grid) bool {
	return t != nil && g != nil && t.Rows == g.Rows && t.Cols == g.Cols
}

// indices returns the neighbor indices of the cell at linear index i.
func (t *Topology) indices(i int) []int32 {
	base := i * NeighborCount
	return t.neighbors[base : base+NeighborCount]
}

// Neighbors returns the eight neighbor coordinates of (x, y) in Direction order.
func (t *Topology) Neighbors(x, y int) [NeighborCount]Coord {
	var out [NeighborCount]Coord
	for d, idx := range t.indices(y*t.Cols + x) {
		out[d] = Coord{X: int(idx) % t.Cols, Y: int(idx) / t.Cols}
	}
	return out
}

// Neighbor returns the neighbor of (x, y) in direction d.
func (t *Topology) Neighbor(x, y int, d Direction) Coord {
	return t.Neighbors(x, y)[d]
}
