package world

import "fmt"

// Next returns the state of a cell with the given number of live neighbors
// after one generation.
func Next(c Cell, live int) Cell {
	switch {
	case live < 2:
		// Underpopulation
		return Dead
	case c.IsLive() && live <= 3:
		return Live
	case c.IsLive():
		// Overpopulation
		return Dead
	case live == 3:
		// Reproduction
		return Live
	default:
		return c
	}
}

// liveNeighbors counts the live neighbors of the cell at linear index i.
func liveNeighbors(g *Grid, t *Topology, i int) int {
	n := 0
	for _, idx := range t.indices(i) {
		if g.Cells[idx].IsLive() {
			n++
		}
	}
	return n
}

// Step computes the next generation of cur into a newly allocated grid.
// Every cell reads only from cur, so the result does not depend on update order.
// It panics if t was built for different dimensions than cur.
func Step(cur *Grid, t *Topology) *Grid {
	if !t.Fits(cur) {
		panic(fmt.Sprintf("world: topology %dx%d does not fit grid %dx%d", t.Rows, t.Cols, cur.Rows, cur.Cols))
	}

	next := &Grid{Rows: cur.Rows, Cols: cur.Cols, Cells: make([]Cell, len(cur.Cells))}
	for i, c := range cur.Cells {
		next.Cells[i] = Next(c, liveNeighbors(cur, t, i))
	}
	return next
}
