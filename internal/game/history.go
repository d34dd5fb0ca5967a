package game

import "github.com/samdwyer/toruslife/internal/world"

// History is a bounded ring of previous grids, newest last. When full, the
// oldest grid is dropped.
type History struct {
	grids []*world.Grid
	start int
	n     int
}

// NewHistory creates a ring holding up to capacity grids. A capacity of 0
// keeps nothing.
func NewHistory(capacity int) *History {
	if capacity < 0 {
		capacity = 0
	}
	return &History{grids: make([]*world.Grid, capacity)}
}

// Cap returns the maximum number of grids kept.
func (h *History) Cap() int {
	return len(h.grids)
}

// Len returns the number of grids currently kept.
func (h *History) Len() int {
	return h.n
}

// Push records g as the newest entry.
func (h *History) Push(g *world.Grid) {
	c := len(h.grids)
	if c == 0 {
		return
	}
	if h.n < c {
		h.grids[(h.start+h.n)%c] = g
		h.n++
		return
	}
	h.grids[h.start] = g
	h.start = (h.start + 1) % c
}

// Pop removes and returns the newest entry.
func (h *History) Pop() (*world.Grid, bool) {
	if h.n == 0 {
		return nil, false
	}
	i := (h.start + h.n - 1) % len(h.grids)
	g := h.grids[i]
	h.grids[i] = nil
	h.n--
	return g, true
}

// Resize changes the capacity, keeping the newest entries that still fit.
func (h *History) Resize(capacity int) {
	if capacity < 0 {
		capacity = 0
	}
	if capacity == len(h.grids) {
		return
	}
	keep := min(h.n, capacity)
	grids := make([]*world.Grid, capacity)
	for i := 0; i < keep; i++ {
		grids[i] = h.grids[(h.start+h.n-keep+i)%len(h.grids)]
	}
	h.grids, h.start, h.n = grids, 0, keep
}
