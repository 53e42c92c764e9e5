// Package vtparse implements the byte-fed VT escape-sequence state machine
// that drives a cellgrid.Grid from a child PTY's raw output: Ground/Escape/
// CSI/OSC states with csiBuf/oscBuf accumulation, generalized behind a Sink
// interface so it can drive any grid implementation.
package vtparse

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Sink is the callback surface the parser drives. cellgrid.Grid implements
// it directly; tests can substitute a recording fake.
type Sink interface {
	Print(ch rune)
	Cursor() (col, row int)
	MoveCursor(dcol, drow int)
	SetCursor(col, row int)
	Erase(mode int)
	EraseLine(mode int)
	SetSGR(code int)
	SetSGR256(fg bool, index int)
	Width() int
	Height() int
	AtRightEdge() bool
}

// state names the VT parser automaton's states (§4.2).
type state int

const (
	stateGround state = iota
	stateEscape
	stateCSIEntry
	stateOSCString
)

// Parser is a total byte-fed state machine: feeding any byte sequence
// never fails, and after ESC the next byte always transitions the state
// machine (either consuming the sequence or returning to Ground).
type Parser struct {
	sink Sink

	st     state
	csiBuf []byte
	oscBuf []byte

	// BellCount increments on C0 BEL; the host driver can surface it as an
	// audible/visual bell without the parser knowing about the host.
	BellCount uint64

	// Title is set by OSC 0/2 (xterm window-title) sequences. Not wired to
	// the window title in the core per §4.2 — callers may read it anyway.
	Title string

	savedCol, savedRow int

	utf8Buf [4]byte
	utf8Len int
	utf8Got int
}

// New creates a Parser that drives sink.
func New(sink Sink) *Parser {
	return &Parser{sink: sink, st: stateGround}
}

// Feed processes one byte.
func (p *Parser) Feed(b byte) {
	switch p.st {
	case stateGround:
		p.feedGround(b)
	case stateEscape:
		p.feedEscape(b)
	case stateCSIEntry:
		p.feedCSI(b)
	case stateOSCString:
		p.feedOSC(b)
	}
}

// Write feeds every byte of data into the state machine and implements
// io.Writer so a Parser can sit directly at the end of a read pump.
func (p *Parser) Write(data []byte) (int, error) {
	for _, b := range data {
		p.Feed(b)
	}
	return len(data), nil
}

// feedGround handles C0 controls and printable bytes (§4.2's C0 table).
func (p *Parser) feedGround(b byte) {
	if p.utf8Len > 0 {
		if b >= 0x80 && b <= 0xBF {
			p.utf8Buf[p.utf8Got] = b
			p.utf8Got++
			if p.utf8Got == p.utf8Len {
				r, _ := utf8.DecodeRune(p.utf8Buf[:p.utf8Len])
				p.utf8Len, p.utf8Got = 0, 0
				if r != utf8.RuneError {
					p.print(r)
				}
			}
			return
		}
		// Invalid continuation byte: drop the partial sequence and fall
		// through to process b normally.
		p.utf8Len, p.utf8Got = 0, 0
	}

	switch b {
	case 0x1b:
		p.st = stateEscape
	case 0x07: // BEL
		p.BellCount++
	case 0x08: // BS
		p.sink.MoveCursor(-1, 0)
	case 0x0A: // LF
		p.sink.MoveCursor(0, 1)
	case 0x0D: // CR
		_, row := p.sink.Cursor()
		p.sink.SetCursor(0, row)
	default:
		switch {
		case b >= 0x20 && b <= 0x7E:
			p.print(rune(b))
		case b >= 0xC0 && b <= 0xF7: // UTF-8 lead byte
			p.utf8Buf[0] = b
			p.utf8Got = 1
			switch {
			case b < 0xE0:
				p.utf8Len = 2
			case b < 0xF0:
				p.utf8Len = 3
			default:
				p.utf8Len = 4
			}
		}
		// anything else (other C0 controls, stray continuation bytes): ignored
	}
}

// print writes ch at the cursor, wrapping to the next row first if the
// cursor already sits on the right edge. This resolves §9's "cursor wrap"
// design note: wrap-at-right-edge, not an out-of-bounds write.
func (p *Parser) print(ch rune) {
	if p.sink.AtRightEdge() {
		_, row := p.sink.Cursor()
		p.sink.SetCursor(0, row+1)
	}
	p.sink.Print(ch)
}

func (p *Parser) feedEscape(b byte) {
	switch b {
	case '[':
		p.st = stateCSIEntry
		p.csiBuf = p.csiBuf[:0]
	case ']':
		p.st = stateOSCString
		p.oscBuf = p.oscBuf[:0]
	case '7': // DEC save cursor
		p.savedCol, p.savedRow = p.sink.Cursor()
		p.st = stateGround
	case '8': // DEC restore cursor
		p.sink.SetCursor(p.savedCol, p.savedRow)
		p.st = stateGround
	default:
		// Unrecognized ESC sequence (including DCS 'P', SOS/PM/APC): silently
		// dropped, return to Ground. Failure policy per §4.2.
		p.st = stateGround
	}
}

func (p *Parser) feedCSI(b byte) {
	switch {
	case b >= 0x30 && b <= 0x3F: // parameter bytes incl. ';' and private '?'
		p.csiBuf = append(p.csiBuf, b)
	case b >= 0x20 && b <= 0x2F: // intermediate bytes
		p.csiBuf = append(p.csiBuf, b)
	default: // final byte 0x40-0x7E
		p.dispatchCSI(b)
		p.st = stateGround
	}
}

func (p *Parser) feedOSC(b byte) {
	switch b {
	case 0x07: // BEL terminator
		p.finishOSC()
	case 0x1b: // treat ESC as terminator too (ST handling simplified, as §4.2 allows)
		p.finishOSC()
	default:
		p.oscBuf = append(p.oscBuf, b)
	}
}

func (p *Parser) finishOSC() {
	payload := string(p.oscBuf)
	if strings.HasPrefix(payload, "0;") || strings.HasPrefix(payload, "2;") {
		p.Title = payload[2:]
	}
	p.st = stateGround
}

// dispatchCSI executes one CSI sequence given its final byte, per the
// table in §4.2.
func (p *Parser) dispatchCSI(final byte) {
	params := p.parseParams()
	n := func(i, def int) int { return paramDefault(params, i, def) }

	switch final {
	case 'A': // CUU
		p.sink.MoveCursor(0, -n(0, 1))
	case 'B': // CUD
		p.sink.MoveCursor(0, n(0, 1))
	case 'C': // CUF
		p.sink.MoveCursor(n(0, 1), 0)
	case 'D': // CUB
		p.sink.MoveCursor(-n(0, 1), 0)
	case 'E': // CNL
		_, row := p.sink.Cursor()
		p.sink.SetCursor(0, row+n(0, 1))
	case 'F': // CPL
		_, row := p.sink.Cursor()
		p.sink.SetCursor(0, row-n(0, 1))
	case 'G': // CHA
		_, row := p.sink.Cursor()
		p.sink.SetCursor(n(0, 1)-1, row)
	case 'H', 'f': // CUP
		p.sink.SetCursor(n(1, 1)-1, n(0, 1)-1)
	case 'J': // ED
		p.sink.Erase(n(0, 0))
	case 'K': // EL
		p.sink.EraseLine(n(0, 0))
	case 'm': // SGR
		p.applySGR(params)
	}
}

func (p *Parser) applySGR(params []int) {
	if len(params) == 0 {
		params = []int{0}
	}
	i := 0
	for i < len(params) {
		code := params[i]
		switch {
		case code == 38 && i+1 < len(params) && params[i+1] == 5 && i+2 < len(params):
			p.sink.SetSGR256(true, params[i+2])
			i += 2
		case code == 48 && i+1 < len(params) && params[i+1] == 5 && i+2 < len(params):
			p.sink.SetSGR256(false, params[i+2])
			i += 2
		default:
			p.sink.SetSGR(code)
		}
		i++
	}
}

// parseParams splits the accumulated CSI parameter buffer into integers.
// A leading private-mode prefix ('?', '>', '=', '!') is stripped; missing
// values default to 0 (paramDefault then substitutes the per-command
// default where required).
func (p *Parser) parseParams() []int {
	raw := strings.TrimLeft(string(p.csiBuf), "?>=!")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ";")
	out := make([]int, len(parts))
	for i, s := range parts {
		v, _ := strconv.Atoi(s)
		out[i] = v
	}
	return out
}

func paramDefault(params []int, idx, def int) int {
	if idx < len(params) && params[idx] > 0 {
		return params[idx]
	}
	return def
}
