// Package frame renders a Screen onto the host terminal: a background
// fill, bordered chrome and title per window, clipped content, resize
// handles, and an optional diagnostic line. Every tick performs a full
// redraw: background reset, per-window bordered rect, clipped content
// blit, ↔/↕ resize handles, and the buffer-size debug line at (2,0).
// Border and title coloring use lipgloss.
package frame

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"termwm/internal/cellgrid"
	"termwm/internal/compositor"
	"termwm/internal/config"
)

// styleKey is a comparable description of a cell's styling, used to batch
// runs of same-styled cells into one lipgloss.Render call instead of
// wrapping every rune individually (which would interleave reset codes
// between adjacent characters and break substring continuity).
type styleKey struct {
	styled bool
	bold   bool
	fg, bg string
}

var noStyle = styleKey{}

// cell is one position in the output buffer.
type cell struct {
	ch  rune
	key styleKey
}

// buffer is a dense (width*height) rune grid assembled before flushing.
type buffer struct {
	w, h  int
	cells []cell
}

// newBuffer allocates the frame buffer already background-filled with a
// black block character, per §4.7 step 1 — this is the frame's reset,
// redone from scratch every tick (idempotent, no dirty tracking).
func newBuffer(w, h int) *buffer {
	b := &buffer{w: w, h: h, cells: make([]cell, w*h)}
	for i := range b.cells {
		b.cells[i] = cell{ch: '█', key: styleKey{styled: true, fg: "0"}}
	}
	return b
}

func (b *buffer) set(x, y int, ch rune, key styleKey) {
	if x < 0 || x >= b.w || y < 0 || y >= b.h {
		return
	}
	b.cells[y*b.w+x] = cell{ch: ch, key: key}
}

// Render produces the full frame for a (W, H) host terminal given the
// screen's current windows, matching §4.7's procedure. showDiagnostics
// toggles the trailing buffer-size debug line.
func Render(screen *compositor.Screen, hostW, hostH int, theme config.Theme, showDiagnostics bool) string {
	buf := newBuffer(hostW, hostH)

	borderFocused := styleKey{styled: true, fg: theme.BorderFocused}
	borderUnfocused := styleKey{styled: true, fg: theme.BorderUnfocused}
	titleKey := styleKey{styled: true, fg: theme.TitleFG, bold: true}

	windows := screen.Windows()
	top := screen.Top()

	for _, w := range windows {
		borderKey := borderUnfocused
		if w == top {
			borderKey = borderFocused
		}
		drawBorder(buf, w.X()-1, w.Y()-1, w.Width()+2, w.Height()+2, borderKey)
		drawText(buf, w.X(), w.Y()-1, hostW-w.X(), 1, w.Title(), titleKey)

		if w.X() <= hostW && w.Y() < hostH {
			contentW, contentH := w.Width(), w.Height()-1
			if w.X()+w.Width() > hostW {
				contentW -= w.X() + w.Width() - hostW
			}
			if w.Y()+w.Height() > hostH {
				contentH -= w.Y() + w.Height() - hostH
			}
			if contentW > 0 && contentH > 0 {
				drawGridContent(buf, w.X(), w.Y(), contentW, contentH, w.Grid())
			}
		}

		if w.X()+w.Width() < hostW {
			buf.set(w.X()+w.Width(), w.Y()+w.Height()/2, '↔', noStyle)
		}
		if w.Y()+w.Height() < hostH {
			buf.set(w.X()+w.Width()/2, w.Y()+w.Height(), '↕', noStyle)
		}
	}

	out := serialize(buf)

	if showDiagnostics {
		diag := []rune("Stdout buffer size : " + itoa(len(out)))
		for i, r := range diag {
			if i >= hostW {
				break
			}
			buf.set(2+i, 0, r, noStyle)
		}
		out = serialize(buf)
	}

	return out
}

// drawBorder fills the perimeter of the (x,y)-(x+w,y+h) rectangle with
// key; the interior is left as the black block characters the background
// fill already put there, giving the whole rectangle block-character
// coverage while only the perimeter cells carry the border's style.
func drawBorder(buf *buffer, x, y, w, h int, key styleKey) {
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			if xx == x || yy == y || xx == x+w-1 || yy == y+h-1 {
				buf.set(xx, yy, '█', key)
			}
		}
	}
}

// drawGridContent prints a window's cell grid directly, cell by cell,
// rather than going through Window.GetContent's ANSI-escaped string — an
// escape sequence's bytes would otherwise be miscounted as visible columns
// by the buffer's clipping logic. The cell under the cursor is forced to
// reverse video (bg=47), matching GetContent's own cursor-highlight rule.
func drawGridContent(buf *buffer, x, y, maxW, maxH int, g *cellgrid.Grid) {
	curCol, curRow := g.Cursor()
	for r := 0; r < maxH && r < g.Height(); r++ {
		for c := 0; c < maxW && c < g.Width(); c++ {
			ce := g.CellAt(c, r)
			bg := ce.BG
			if c == curCol && r == curRow {
				bg = 47
			}
			buf.set(x+c, y+r, ce.Ch, sgrKey(ce.FG, bg))
		}
	}
}

// sgrKey maps a grid cell's one-byte fg/bg (§3: CharacterCell stores a
// single color byte per channel) to a style key: codes in the classic
// 30-37/40-47 SGR ranges map to their ANSI index, anything else is treated
// as a 256-color palette index (the 38;5;N/48;5;N extended form).
func sgrKey(fg, bg byte) styleKey {
	return styleKey{styled: true, fg: ansiColor(fg, 30), bg: ansiColor(bg, 40)}
}

func ansiColor(code byte, base int) string {
	if int(code) >= base && int(code) <= base+7 {
		return itoa(int(code) - base)
	}
	return itoa(int(code))
}

// drawText prints text starting at (x,y), one line per "\n"-delimited
// segment, truncated to maxW columns and at most maxH lines.
func drawText(buf *buffer, x, y, maxW, maxH int, text string, key styleKey) {
	if maxW <= 0 || maxH <= 0 {
		return
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if i >= maxH {
			return
		}
		runes := []rune(line)
		if len(runes) > maxW {
			runes = runes[:maxW]
		}
		for c, r := range runes {
			buf.set(x+c, y+i, r, key)
		}
	}
}

// serialize walks the buffer row by row, batching consecutive cells that
// share a style key into a single lipgloss.Render call so escape codes
// aren't interleaved between characters of the same run, then joins rows
// with "\r\n" the way bubbletea's renderer expects.
func serialize(buf *buffer) string {
	var b strings.Builder
	for y := 0; y < buf.h; y++ {
		if y > 0 {
			b.WriteString("\r\n")
		}
		var run strings.Builder
		runKey := noStyle
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runKey.styled {
				b.WriteString(styleFor(runKey).Render(run.String()))
			} else {
				b.WriteString(run.String())
			}
			run.Reset()
		}
		for x := 0; x < buf.w; x++ {
			c := buf.cells[y*buf.w+x]
			if c.key != runKey {
				flush()
				runKey = c.key
			}
			run.WriteRune(c.ch)
		}
		flush()
	}
	return b.String()
}

func styleFor(key styleKey) lipgloss.Style {
	s := lipgloss.NewStyle()
	if key.fg != "" {
		s = s.Foreground(lipgloss.Color(key.fg))
	}
	if key.bg != "" {
		s = s.Background(lipgloss.Color(key.bg))
	}
	if key.bold {
		s = s.Bold(true)
	}
	return s
}

func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	var tmp [20]byte
	i := len(tmp)
	for v > 0 {
		i--
		tmp[i] = byte('0' + v%10)
		v /= 10
	}
	return string(tmp[i:])
}
