package world

import "fmt"

// Grid is a rows x cols rectangle of cells stored in row-major order.
// Coordinates are (x, y) with 0 <= x < Cols and 0 <= y < Rows.
type Grid struct {
	Rows  int
	Cols  int
	Cells []Cell
}

// NewGrid creates a grid of the given dimensions with every cell dead.
func NewGrid(rows, cols int) (*Grid, error) {
	if err := checkDimensions(rows, cols); err != nil {
		return nil, err
	}
	return &Grid{
		Rows:  rows,
		Cols:  cols,
		Cells: make([]Cell, rows*cols),
	}, nil
}

// MustNewGrid creates a grid, panicking on invalid dimensions.
func MustNewGrid(rows, cols int) *Grid {
	g, err := NewGrid(rows, cols)
	if err != nil {
		panic(err)
	}
	return g
}

// Index returns the linear slice index for coordinates (x, y).
func (g *Grid) Index(x, y int) int {
	return y*g.Cols + x
}

// InBounds returns true if (x, y) addresses a cell of the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Cols && y >= 0 && y < g.Rows
}

// At returns the cell at (x, y). Out-of-range coordinates read as dead.
func (g *Grid) At(x, y int) Cell {
	if !g.InBounds(x, y) {
		return Dead
	}
	return g.Cells[g.Index(x, y)]
}

// Set changes the cell at (x, y). Out-of-range coordinates are ignored.
func (g *Grid) Set(x, y int, c Cell) {
	if g.InBounds(x, y) {
		g.Cells[g.Index(x, y)] = c
	}
}

// LiveCount returns the number of live cells.
func (g *Grid) LiveCount() int {
	n := 0
	for _, c := range g.Cells {
		if c.IsLive() {
			n++
		}
	}
	return n
}

// SameSize returns true if both grids have identical dimensions.
func (g *Grid) SameSize(other *Grid) bool {
	return other != nil && g.Rows == other.Rows && g.Cols == other.Cols
}

// Equal returns true if both grids have the same dimensions and contents.
func (g *Grid) Equal(other *Grid) bool {
	if !g.SameSize(other) {
		return false
	}
	for i := range g.Cells {
		if g.Cells[i] != other.Cells[i] {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([]Cell, len(g.Cells))
	copy(cells, g.Cells)
	return &Grid{Rows: g.Rows, Cols: g.Cols, Cells: cells}
}

// Lines renders each row as a string, using live for live cells and dead otherwise.
func (g *Grid) Lines(live, dead rune) []string {
	lines := make([]string, g.Rows)
	row := make([]rune, g.Cols)
	for y := 0; y < g.Rows; y++ {
		for x := 0; x < g.Cols; x++ {
			if g.Cells[g.Index(x, y)].IsLive() {
				row[x] = live
			} else {
				row[x] = dead
			}
		}
		lines[y] = string(row)
	}
	return lines
}

// ParseLines builds a grid from rows of text. The live rune marks live cells,
// every other rune is dead. All rows must have the same rune length.
func ParseLines(lines []string, live rune) (*Grid, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidDimensions)
	}
	cols := len([]rune(lines[0]))
	g, err := NewGrid(len(lines), cols)
	if err != nil {
		return nil, err
	}
	for y, line := range lines {
		runes := []rune(line)
		if len(runes) != cols {
			return nil, fmt.Errorf("row %d has %d cells, want %d", y, len(runes), cols)
		}
		for x, r := range runes {
			if r == live {
				g.Cells[g.Index(x, y)] = Live
			}
		}
	}
	return g, nil
}
