// Package cellgrid holds the character-cell buffer each window renders
// its child's output into. It is pure data plus a small mutation API; the
// VT parser in package vtparse drives it, and the frame renderer reads it.
package cellgrid

// Cell is one displayed character position: a codepoint plus the SGR
// colors and attributes that were active when it was written. Width
// handling for combining/wide glyphs is out of scope — one codepoint,
// one column.
type Cell struct {
	Ch   rune
	FG   byte
	BG   byte
	Attr Attr
}

// Attr is a bitset of SGR attributes. Print copies the grid's current
// bits into each cell; no code path in the core sets them, and neither
// Window.GetContent nor the frame renderer reads them.
type Attr uint8

const (
	AttrBold Attr = 1 << iota
	AttrUnderline
	AttrReverse
)

// DefaultFG and DefaultBG match a conventional terminal default palette:
// white on black.
const (
	DefaultFG byte = 37
	DefaultBG byte = 40
)

func blank() Cell {
	return Cell{Ch: ' ', FG: DefaultFG, BG: DefaultBG}
}

// Grid is a dense, row-major buffer of Cells with cursor and current SGR
// state. Its length is always Width*Height. The cursor row is always in
// bounds; the cursor column is in bounds except right after Print writes
// the last column, when it sits at Width() (see AtRightEdge) until the
// next SetCursor, MoveCursor or Resize brings it back in range.
type Grid struct {
	width, height int
	cells         []Cell

	curCol, curRow int
	fg, bg         byte
	attr           Attr

	// PrintedChars is a monotonically increasing debug counter of
	// characters written via Print.
	PrintedChars uint64
}

// New allocates a Grid of the given dimensions, filled with blank cells
// and the cursor at (0,0).
func New(width, height int) *Grid {
	g := &Grid{width: width, height: height}
	g.cells = make([]Cell, width*height)
	g.resetCells()
	g.fg, g.bg = DefaultFG, DefaultBG
	return g
}

func (g *Grid) resetCells() {
	b := blank()
	for i := range g.cells {
		g.cells[i] = b
	}
}

// Width returns the grid's column count.
func (g *Grid) Width() int { return g.width }

// Height returns the grid's row count.
func (g *Grid) Height() int { return g.height }

// Cursor returns the current cursor position (col, row).
func (g *Grid) Cursor() (col, row int) { return g.curCol, g.curRow }

// CellAt returns the cell at (col, row). Out-of-bounds coordinates return
// a blank cell rather than panicking.
func (g *Grid) CellAt(col, row int) Cell {
	if col < 0 || col >= g.width || row < 0 || row >= g.height {
		return blank()
	}
	return g.cells[g.index(col, row)]
}

func (g *Grid) index(col, row int) int {
	return row*g.width + col
}

// Resize reallocates the grid to the new dimensions. Content is not
// preserved — callers get a fresh blank grid with the cursor reset to
// (0,0), matching §4.1's resize contract.
func (g *Grid) Resize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	g.width = width
	g.height = height
	g.cells = make([]Cell, width*height)
	g.resetCells()
	g.curCol, g.curRow = 0, 0
}

// SetCursor clamps each coordinate into bounds and moves the cursor there.
func (g *Grid) SetCursor(col, row int) {
	g.curCol = clamp(col, 0, g.width-1)
	g.curRow = clamp(row, 0, g.height-1)
}

// MoveCursor performs a saturating relative move, clamped to bounds.
func (g *Grid) MoveCursor(dcol, drow int) {
	g.SetCursor(g.curCol+dcol, g.curRow+drow)
}

// Print writes ch into the cell at the cursor using the current SGR
// colors, then advances the cursor one column. The write position is
// clamped to width-1, so a cursor already past the last column simply
// overwrites the rightmost column (and advances further) — wrapping onto the
// next line is the VT parser's job (it calls MoveCursor/SetCursor itself
// after reading the wrap policy), not the grid's.
func (g *Grid) Print(ch rune) {
	col := clamp(g.curCol, 0, g.width-1)
	row := clamp(g.curRow, 0, g.height-1)
	g.cells[g.index(col, row)] = Cell{Ch: ch, FG: g.fg, BG: g.bg, Attr: g.attr}
	g.curCol++
	g.PrintedChars++
}

// AtRightEdge reports whether the cursor has advanced past the last valid
// column — the VT parser uses this to decide when to wrap before printing.
// This is only true once Print has already advanced curCol past width-1;
// the cursor sitting exactly on the last column (about to legitimately
// print there) must not report true, or printing would wrap one column
// early and skip the last column on every row.
func (g *Grid) AtRightEdge() bool {
	return g.curCol >= g.width
}

// Erase mode:
//
//	0: cursor (inclusive) to end of grid
//	1: start of grid to cursor (inclusive)
//	2, 3: same as mode 1 in this core (no scrollback to also clear)
func (g *Grid) Erase(mode int) {
	b := blank()
	cur := g.index(clamp(g.curCol, 0, g.width-1), clamp(g.curRow, 0, g.height-1))
	switch mode {
	case 0:
		for i := cur; i < len(g.cells); i++ {
			g.cells[i] = b
		}
	default: // 1, 2, 3
		for i := 0; i <= cur && i < len(g.cells); i++ {
			g.cells[i] = b
		}
	}
}

// EraseLine clears part of the current row only: mode 0 cursor..EOL,
// mode 1 BOL..cursor (inclusive), mode 2 the whole row. This is CSI K's
// effect, distinct from the whole-grid Erase (CSI J).
func (g *Grid) EraseLine(mode int) {
	b := blank()
	row := clamp(g.curRow, 0, g.height-1)
	col := clamp(g.curCol, 0, g.width-1)
	base := row * g.width
	switch mode {
	case 0:
		for c := col; c < g.width; c++ {
			g.cells[base+c] = b
		}
	case 1:
		for c := 0; c <= col; c++ {
			g.cells[base+c] = b
		}
	default: // 2
		for c := 0; c < g.width; c++ {
			g.cells[base+c] = b
		}
	}
}

// SetSGR applies one SGR parameter code to the grid's current drawing
// colors, per the table in §4.2.
func (g *Grid) SetSGR(code int) {
	switch {
	case code == 0:
		g.fg, g.bg = DefaultFG, DefaultBG
	case code >= 30 && code <= 37:
		g.fg = byte(code)
	case code == 39:
		g.fg = DefaultFG
	case code >= 40 && code <= 47:
		g.bg = byte(code)
	case code == 49:
		g.bg = DefaultBG
	}
}

// SetSGR256 sets the foreground (fg=true) or background 256-color palette
// index directly, for the "38;5;N"/"48;5;N" extended SGR forms.
func (g *Grid) SetSGR256(fg bool, index int) {
	v := byte(index)
	if fg {
		g.fg = v
	} else {
		g.bg = v
	}
}

// FGBG returns the grid's current drawing colors (used by tests).
func (g *Grid) FGBG() (fg, bg byte) { return g.fg, g.bg }

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
