package cellgrid

import "testing"

func TestNewDimensionsAndBlank(t *testing.T) {
	g := New(4, 3)
	if g.Width() != 4 || g.Height() != 3 {
		t.Fatalf("Width/Height = %d/%d, want 4/3", g.Width(), g.Height())
	}
	for r := 0; r < 3; r++ {
		for c := 0; c < 4; c++ {
			cell := g.CellAt(c, r)
			if cell.Ch != ' ' || cell.FG != DefaultFG || cell.BG != DefaultBG {
				t.Fatalf("CellAt(%d,%d) = %+v, want blank default", c, r, cell)
			}
		}
	}
	if col, row := g.Cursor(); col != 0 || row != 0 {
		t.Fatalf("Cursor() = (%d,%d), want (0,0)", col, row)
	}
}

func TestCellAtOutOfBounds(t *testing.T) {
	g := New(4, 3)
	if cell := g.CellAt(-1, 0); cell.Ch != ' ' {
		t.Fatalf("out of bounds CellAt should return blank, got %+v", cell)
	}
	if cell := g.CellAt(4, 0); cell.Ch != ' ' {
		t.Fatalf("out of bounds CellAt should return blank, got %+v", cell)
	}
}

func TestPrintAdvancesCursor(t *testing.T) {
	g := New(5, 2)
	g.Print('h')
	g.Print('i')
	if col, row := g.Cursor(); col != 2 || row != 0 {
		t.Fatalf("Cursor() = (%d,%d), want (2,0)", col, row)
	}
	if g.CellAt(0, 0).Ch != 'h' || g.CellAt(1, 0).Ch != 'i' {
		t.Fatalf("printed cells wrong: %q %q", g.CellAt(0, 0).Ch, g.CellAt(1, 0).Ch)
	}
	if g.PrintedChars != 2 {
		t.Fatalf("PrintedChars = %d, want 2", g.PrintedChars)
	}
}

func TestPrintClampsAtRightEdge(t *testing.T) {
	g := New(3, 1)
	g.SetCursor(2, 0)
	g.Print('x')
	if g.CellAt(2, 0).Ch != 'x' {
		t.Fatalf("expected x written to last column")
	}
}

func TestSetCursorClamps(t *testing.T) {
	g := New(4, 3)
	g.SetCursor(-5, -5)
	if col, row := g.Cursor(); col != 0 || row != 0 {
		t.Fatalf("SetCursor should clamp negative to 0, got (%d,%d)", col, row)
	}
	g.SetCursor(100, 100)
	if col, row := g.Cursor(); col != 3 || row != 2 {
		t.Fatalf("SetCursor should clamp to bounds, got (%d,%d)", col, row)
	}
}

func TestMoveCursorSaturates(t *testing.T) {
	g := New(4, 3)
	g.MoveCursor(-1, -1)
	if col, row := g.Cursor(); col != 0 || row != 0 {
		t.Fatalf("MoveCursor should saturate at 0, got (%d,%d)", col, row)
	}
	g.MoveCursor(10, 10)
	if col, row := g.Cursor(); col != 3 || row != 2 {
		t.Fatalf("MoveCursor should saturate at bounds, got (%d,%d)", col, row)
	}
}

func TestResizeResetsAndBlanks(t *testing.T) {
	g := New(4, 3)
	g.Print('x')
	g.Resize(2, 2)
	if g.Width() != 2 || g.Height() != 2 {
		t.Fatalf("Resize dims wrong: %d/%d", g.Width(), g.Height())
	}
	if col, row := g.Cursor(); col != 0 || row != 0 {
		t.Fatalf("Resize should reset cursor, got (%d,%d)", col, row)
	}
	if g.CellAt(0, 0).Ch != ' ' {
		t.Fatalf("Resize should blank the grid")
	}
	if len(g.cells) != 4 {
		t.Fatalf("grid length = %d, want width*height=4", len(g.cells))
	}
}

func TestResizeTwiceMatchesSingleResize(t *testing.T) {
	a := New(4, 3)
	a.Print('x')
	a.Resize(6, 4)
	a.Resize(6, 4)

	b := New(6, 4)

	for r := 0; r < 4; r++ {
		for c := 0; c < 6; c++ {
			if a.CellAt(c, r) != b.CellAt(c, r) {
				t.Fatalf("cell (%d,%d) differs after double resize", c, r)
			}
		}
	}
}

func TestEraseMode0ClearsFromCursorToEnd(t *testing.T) {
	g := New(3, 2)
	for i := 0; i < 6; i++ {
		g.Print('x')
	}
	g.SetCursor(1, 0)
	g.Erase(0)
	if g.CellAt(0, 0).Ch != 'x' {
		t.Fatalf("cell before cursor should be untouched")
	}
	if g.CellAt(1, 0).Ch != ' ' || g.CellAt(2, 1).Ch != ' ' {
		t.Fatalf("erase mode 0 should clear cursor..end")
	}
}

func TestEraseMode1ClearsStartToCursor(t *testing.T) {
	g := New(3, 2)
	// Print does not wrap, so place the cursor for each cell to fill both rows.
	for i := 0; i < 6; i++ {
		g.SetCursor(i%3, i/3)
		g.Print('x')
	}
	g.SetCursor(1, 1)
	g.Erase(1)
	if g.CellAt(0, 0).Ch != ' ' || g.CellAt(1, 1).Ch != ' ' {
		t.Fatalf("erase mode 1 should clear start..cursor")
	}
	if g.CellAt(2, 1).Ch != 'x' {
		t.Fatalf("cell after cursor should be untouched")
	}
}

func TestSetSGRTable(t *testing.T) {
	g := New(1, 1)
	g.SetSGR(31)
	g.SetSGR(44)
	if fg, bg := g.FGBG(); fg != 31 || bg != 44 {
		t.Fatalf("FGBG = %d/%d, want 31/44", fg, bg)
	}
	g.SetSGR(0)
	if fg, bg := g.FGBG(); fg != DefaultFG || bg != DefaultBG {
		t.Fatalf("SGR 0 should reset to defaults, got %d/%d", fg, bg)
	}
	g.SetSGR(31)
	g.SetSGR(39)
	if fg, _ := g.FGBG(); fg != DefaultFG {
		t.Fatalf("SGR 39 should reset fg to default, got %d", fg)
	}
}

func TestSetSGR256(t *testing.T) {
	g := New(1, 1)
	g.SetSGR256(true, 200)
	if fg, _ := g.FGBG(); fg != 200 {
		t.Fatalf("SetSGR256 fg = %d, want 200", fg)
	}
}
