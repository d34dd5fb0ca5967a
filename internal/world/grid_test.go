package world

import "testing"

func TestGridLinesRoundTrip(t *testing.T) {
	lines := []string{
		".O...",
		"..O..",
		"OOO..",
	}

	g, err := ParseLines(lines, 'O')
	if err != nil {
		t.Fatalf("ParseLines() error: %v", err)
	}
	if g.Rows != 3 || g.Cols != 5 {
		t.Fatalf("ParseLines() size = %dx%d, want 3x5", g.Rows, g.Cols)
	}
	if g.LiveCount() != 5 {
		t.Errorf("LiveCount() = %d, want 5", g.LiveCount())
	}

	got := g.Lines('O', '.')
	for i := range lines {
		if got[i] != lines[i] {
			t.Errorf("Lines()[%d] = %q, want %q", i, got[i], lines[i])
		}
	}
}

func TestGridLinesGlyphs(t *testing.T) {
	g := gridWith(1, 3, Coord{1, 0})
	if got := g.Lines('■', '▢')[0]; got != "▢■▢" {
		t.Errorf("Lines() = %q, want %q", got, "▢■▢")
	}
}

func TestParseLinesRagged(t *testing.T) {
	if _, err := ParseLines([]string{"..", "..."}, 'O'); err == nil {
		t.Error("ParseLines() with ragged rows should fail")
	}
}

func TestGridOutOfRange(t *testing.T) {
	g := MustNewGrid(2, 2)
	g.Set(5, 5, Live)
	if g.LiveCount() != 0 {
		t.Error("Set() out of range changed the grid")
	}
	if g.At(-1, 0) != Dead {
		t.Error("At() out of range should read dead")
	}
}

func TestCellString(t *testing.T) {
	tests := []struct {
		cell     Cell
		expected string
	}{
		{Live, "live"},
		{Dead, "dead"},
		{Cell(9), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.cell.String(); got != tt.expected {
			t.Errorf("Cell(%d).String() = %q, want %q", tt.cell, got, tt.expected)
		}
	}
}
