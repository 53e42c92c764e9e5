// Package window implements the draggable, resizable terminal window: one
// PtyChild, its read pump and queue, a cell grid driven by a VT parser, and
// the mouse/keyboard handlers that interpret host input against the
// window's geometry. PTY wiring is via package ptychild.
package window

import (
	"strconv"
	"strings"

	"termwm/internal/bytequeue"
	"termwm/internal/cellgrid"
	"termwm/internal/ptychild"
	"termwm/internal/vtparse"
)

// KeyCode names the keys the host driver can report, restricted to the
// subset §4.5's encoding table and the Ctrl+C/Ctrl+Q decisions care about.
type KeyCode int

const (
	KeyOther KeyCode = iota
	KeyChar
	KeyEnter
	KeyBackspace
	KeyArrowLeft
	KeyArrowRight
	KeyArrowUp
	KeyArrowDown
)

// Key is one host keystroke, already classified by the event loop.
type Key struct {
	Code KeyCode
	Rune rune // valid when Code == KeyChar
	Ctrl bool
}

type point struct{ x, y int }
type extent struct{ w, h int }

// Window owns one child shell and everything needed to render and drive
// it: its PTY, read queue, cell grid, and VT parser, plus on-screen
// geometry and drag bookkeeping.
type Window struct {
	child  *ptychild.PtyChild
	queue  *bytequeue.Queue
	grid   *cellgrid.Grid
	parser *vtparse.Parser

	x, y, width, height int
	title               string
	scrollY             int

	lastMouseDown point
	lastSize      extent
	lastPos       point
}

// New starts shell (or the resolved default if empty) in a PTY sized to
// width×height, and launches its read pump goroutine.
func New(x, y, width, height int, title, shell string) (*Window, error) {
	child, err := ptychild.Start(shell, width, height)
	if err != nil {
		return nil, err
	}
	grid := cellgrid.New(width, height)
	w := &Window{
		child:  child,
		queue:  bytequeue.New(),
		grid:   grid,
		parser: vtparse.New(grid),

		x: x, y: y, width: width, height: height,
		title: title,

		lastSize: extent{width, height},
		lastPos:  point{x, y},
	}
	go w.readPump()
	return w, nil
}

// NewBare builds a Window with a live grid/parser but no child process or
// read pump. It exists so other packages' tests (compositor, tui) can
// exercise geometry, focus, and hit-test logic without spawning a real
// shell.
func NewBare(x, y, width, height int, title string) *Window {
	grid := cellgrid.New(width, height)
	return &Window{
		grid:   grid,
		parser: vtparse.New(grid),
		x:      x, y: y, width: width, height: height,
		title:    title,
		lastSize: extent{width, height},
		lastPos:  point{x, y},
	}
}

// readPump is the Read Pump (§4.4): one goroutine per window, blocking
// reads of up to 1024 bytes, each pushed as an immutable chunk. It exits on
// read error or EOF, leaving the window to keep rendering its last grid.
func (w *Window) readPump() {
	for {
		buf := make([]byte, 1024)
		n, err := w.child.Read(buf)
		if n > 0 {
			w.queue.Push(buf[:n])
		}
		if err != nil {
			return
		}
	}
}

// UpdateContent drains the read queue into the VT parser.
func (w *Window) UpdateContent() {
	for _, chunk := range w.queue.Drain() {
		w.parser.Write(chunk)
	}
}

// GetContent serializes the grid row by row into a styled string: an SGR
// escape is emitted whenever fg/bg changes from the previous cell, and the
// cell under the cursor is forced to reverse video (bg=47) so the host
// terminal shows a visible caret.
func (w *Window) GetContent() string {
	var b strings.Builder
	curCol, curRow := w.grid.Cursor()
	prevFG, prevBG := byte(0), byte(0)
	havePrev := false

	for r := 0; r < w.grid.Height(); r++ {
		if r > 0 {
			b.WriteByte('\n')
		}
		for c := 0; c < w.grid.Width(); c++ {
			cell := w.grid.CellAt(c, r)
			fg, bg := cell.FG, cell.BG
			if c == curCol && r == curRow {
				bg = 47
			}
			if !havePrev || fg != prevFG || bg != prevBG {
				b.WriteString("\x1b[0;")
				b.WriteString(strconv.Itoa(int(fg)))
				b.WriteByte(';')
				b.WriteString(strconv.Itoa(int(bg)))
				b.WriteByte('m')
				prevFG, prevBG = fg, bg
				havePrev = true
			}
			b.WriteRune(cell.Ch)
		}
	}
	return b.String()
}

// Geometry accessors.
func (w *Window) X() int                { return w.x }
func (w *Window) Y() int                { return w.y }
func (w *Window) Width() int            { return w.width }
func (w *Window) Height() int           { return w.height }
func (w *Window) Title() string         { return w.title }
func (w *Window) ScrollY() int          { return w.scrollY }
func (w *Window) Cursor() (int, int)    { return w.grid.Cursor() }
func (w *Window) Grid() *cellgrid.Grid  { return w.grid }

// Input feeds bytes directly through the parser, bypassing the PTY. Used
// by tests to drive the grid synthetically.
func (w *Window) Input(data []byte) {
	w.parser.Write(data)
}

// SetSize updates the window's rectangle, reallocates its grid, and
// informs the child via ioctl + SIGWINCH.
func (w *Window) SetSize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	w.width, w.height = width, height
	w.grid.Resize(width, height)
	if w.child != nil {
		_ = w.child.Resize(width, height)
	}
}

// OnScrollY applies a saturating adjustment, clamped at 0.
func (w *Window) OnScrollY(delta int) {
	w.scrollY += delta
	if w.scrollY < 0 {
		w.scrollY = 0
	}
}

// OnMouseDown snapshots the press origin and the window's current
// geometry; OnMouseDrag interprets later drag events relative to this
// snapshot, not the live geometry.
func (w *Window) OnMouseDown(x, y int) {
	w.lastMouseDown = point{x, y}
	w.lastSize = extent{w.width, w.height}
	w.lastPos = point{w.x, w.y}
}

// OnMouseUp commits the current geometry as the new drag baseline.
func (w *Window) OnMouseUp(x, y int) {
	w.lastSize = extent{w.width, w.height}
	w.lastPos = point{w.x, w.y}
}

// OnMouseDrag interprets (x, y) against the press-time snapshot, not the
// window's live position. The three gestures are independent and compose
// in this order: resize width, resize height, then move — matching
// SimpleBufferWindow.on_mouse_drag.
func (w *Window) OnMouseDrag(x, y int) {
	// Right-edge resize: press landed on the column just past the window,
	// within its vertical extent (inclusive of one row past the bottom).
	if w.lastMouseDown.x == w.lastPos.x+w.lastSize.w &&
		w.lastMouseDown.y >= w.lastPos.y &&
		w.lastMouseDown.y < w.lastPos.y+w.lastSize.h+1 {
		if x > w.x {
			w.setWidth(x - w.x)
		}
	}

	// Bottom-edge resize: symmetric, on the row just past the window.
	if w.lastMouseDown.y == w.lastPos.y+w.lastSize.h &&
		w.lastMouseDown.x >= w.lastPos.x &&
		w.lastMouseDown.x < w.lastPos.x+w.lastSize.w+1 {
		if y > w.y {
			w.setHeight(y - w.y)
		}
	}

	// Title-bar move: press landed one row above the window.
	if w.lastMouseDown.y == w.lastPos.y-1 &&
		w.lastMouseDown.x >= w.lastPos.x &&
		w.lastMouseDown.x < w.lastPos.x+w.lastSize.w+1 {
		dx := w.lastMouseDown.x - w.lastPos.x
		dy := w.lastMouseDown.y - (w.lastPos.y - 1)
		if x > dx {
			w.x = x - dx
		}
		if y > dy {
			w.y = y - dy
		}
	}
}

// setWidth/setHeight resize without touching position, reallocating the
// grid and notifying the child — same effect as SetSize but keeping the
// other dimension untouched.
func (w *Window) setWidth(width int) {
	w.SetSize(width, w.height)
}

func (w *Window) setHeight(height int) {
	w.SetSize(w.width, height)
}

// OnKey encodes a keystroke per §4.5's table and writes it to the child.
// Ctrl+<letter> (including Ctrl+C → ETX 0x03) encodes to the corresponding
// C0 control byte, the standard terminal convention. Ctrl+C has no
// host-level meaning: the event loop binds shutdown to Ctrl+Q and forwards
// Ctrl+C here like any other key.
func (w *Window) OnKey(k Key) {
	if out := encodeKey(k); len(out) > 0 {
		_, _ = w.child.Write(out)
	}
}

// encodeKey implements §4.5's keyboard encoding table in isolation so it
// can be tested without a live child process.
func encodeKey(k Key) []byte {
	switch {
	case k.Code == KeyChar && k.Ctrl:
		r := k.Rune
		if r >= 'a' && r <= 'z' {
			return []byte{byte(r - 'a' + 1)}
		}
		if r >= 'A' && r <= 'Z' {
			return []byte{byte(r - 'A' + 1)}
		}
		return nil
	case k.Code == KeyChar:
		return []byte(string(k.Rune))
	case k.Code == KeyEnter:
		return []byte{0x0A}
	case k.Code == KeyBackspace:
		return []byte{0x08}
	case k.Code == KeyArrowLeft:
		return []byte{0x1B, '[', 'D'}
	case k.Code == KeyArrowRight:
		return []byte{0x1B, '[', 'C'}
	case k.Code == KeyArrowUp:
		return []byte{0x1B, '[', 'A'}
	case k.Code == KeyArrowDown:
		return []byte{0x1B, '[', 'B'}
	default:
		return nil
	}
}

// IsTouching reports whether (x, y) falls within the window's content
// rectangle extended by its one-cell border, per §4.5's hit test.
func (w *Window) IsTouching(x, y int) bool {
	return x >= w.x-1 && x <= w.x+w.width &&
		y >= w.y-1 && y <= w.y+w.height
}

// Close tears down the child process and its PTY.
func (w *Window) Close() error {
	return w.child.Close()
}
