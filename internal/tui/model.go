// Package tui is the Bubbletea host driver: it satisfies §6's host terminal
// driver contract (raw mode, mouse capture, event poll, draw flush) by
// wiring a tea.Program around the Screen/Window/Frame pipeline — the actual
// event loop described in §4.8.
package tui

import (
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"termwm/internal/compositor"
	"termwm/internal/config"
	"termwm/internal/frame"
	"termwm/internal/window"
)

// tickMsg drives the per-tick update_content + render cycle (§4.8 step 1-2).
type tickMsg time.Time

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Model is the root Bubbletea model: cached host dimensions, the window
// compositor, and the config driving poll interval and theme.
type Model struct {
	cfg    config.Config
	screen *compositor.Screen

	width  int
	height int

	quitting bool
}

// New builds the initial Model from cfg, spawning one Window per configured
// initial window spec.
func New(cfg config.Config) (Model, error) {
	screen := compositor.New()
	for i, ws := range cfg.InitialWindows {
		shell := ws.Shell
		if shell == "" {
			shell = cfg.DefaultShell
		}
		title := "shell " + strconv.Itoa(i+1)
		w, err := window.New(ws.X, ws.Y, ws.Width, ws.Height, title, shell)
		if err != nil {
			return Model{}, err
		}
		screen.Add(w)
	}
	return Model{cfg: cfg, screen: screen}, nil
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.pollInterval()), tea.EnableMouseAllMotion)
}

func (m Model) pollInterval() time.Duration {
	ms := m.cfg.IdlePollMillis
	if ms <= 0 {
		ms = 33
	}
	return time.Duration(ms) * time.Millisecond
}

// Update implements the per-tick contract of §4.8: content refresh and
// render happen on every tickMsg; host events are classified and dispatched
// as they arrive, outside the tick.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tickMsg:
		for _, w := range m.screen.Windows() {
			w.UpdateContent()
		}
		return m, tickCmd(m.pollInterval())

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleMouse classifies a Bubbletea mouse event into the Down/Up/Drag/
// ScrollUp/ScrollDown cases §4.8 specifies. Down performs a focus hit test
// first; the rest forward unconditionally to the current top window using
// its press-time drag snapshot.
func (m Model) handleMouse(msg tea.MouseMsg) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if top := m.screen.Top(); top != nil {
			top.OnScrollY(-1)
		}
		return
	case tea.MouseButtonWheelDown:
		if top := m.screen.Top(); top != nil {
			top.OnScrollY(1)
		}
		return
	}

	switch msg.Action {
	case tea.MouseActionPress:
		m.screen.FocusAt(msg.X, msg.Y)
		if top := m.screen.Top(); top != nil {
			top.OnMouseDown(msg.X, msg.Y)
		}
	case tea.MouseActionRelease:
		if top := m.screen.Top(); top != nil {
			top.OnMouseUp(msg.X, msg.Y)
		}
	case tea.MouseActionMotion:
		if top := m.screen.Top(); top != nil {
			top.OnMouseDrag(msg.X, msg.Y)
		}
	}
}

// handleKey forwards to the focused window. Ctrl+C always forwards ETX to
// the child (§9's Open Question decision); host-level shutdown is bound to
// the distinct Ctrl+Q, never conflated with the forwarded keystroke.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlQ {
		m.quitting = true
		for _, w := range m.screen.Windows() {
			_ = w.Close()
		}
		return m, tea.Quit
	}

	top := m.screen.Top()
	if top == nil {
		return m, nil
	}
	top.OnKey(toWindowKey(msg))
	return m, nil
}

// toWindowKey classifies a Bubbletea key message into the small key
// vocabulary window.encodeKey understands (§4.5's encoding table).
func toWindowKey(msg tea.KeyMsg) window.Key {
	switch msg.Type {
	case tea.KeyRunes:
		if len(msg.Runes) == 1 {
			return window.Key{Code: window.KeyChar, Rune: msg.Runes[0]}
		}
	case tea.KeyEnter:
		return window.Key{Code: window.KeyEnter}
	case tea.KeyBackspace:
		return window.Key{Code: window.KeyBackspace}
	case tea.KeyLeft:
		return window.Key{Code: window.KeyArrowLeft}
	case tea.KeyRight:
		return window.Key{Code: window.KeyArrowRight}
	case tea.KeyUp:
		return window.Key{Code: window.KeyArrowUp}
	case tea.KeyDown:
		return window.Key{Code: window.KeyArrowDown}
	case tea.KeyCtrlC:
		return window.Key{Code: window.KeyChar, Rune: 'c', Ctrl: true}
	}
	if r, ctrl, ok := ctrlLetter(msg.Type); ok {
		return window.Key{Code: window.KeyChar, Rune: r, Ctrl: ctrl}
	}
	return window.Key{Code: window.KeyOther}
}

// ctrlLetter maps Bubbletea's named Ctrl+<letter> key types to the
// corresponding rune, covering the keys window.encodeKey's Ctrl branch
// handles that aren't already named above.
func ctrlLetter(t tea.KeyType) (rune, bool, bool) {
	m := map[tea.KeyType]rune{
		tea.KeyCtrlA: 'a', tea.KeyCtrlB: 'b', tea.KeyCtrlD: 'd', tea.KeyCtrlE: 'e',
		tea.KeyCtrlF: 'f', tea.KeyCtrlG: 'g', tea.KeyCtrlH: 'h', tea.KeyCtrlJ: 'j',
		tea.KeyCtrlK: 'k', tea.KeyCtrlL: 'l', tea.KeyCtrlN: 'n', tea.KeyCtrlO: 'o',
		tea.KeyCtrlP: 'p', tea.KeyCtrlR: 'r', tea.KeyCtrlS: 's', tea.KeyCtrlT: 't',
		tea.KeyCtrlU: 'u', tea.KeyCtrlV: 'v', tea.KeyCtrlW: 'w', tea.KeyCtrlX: 'x',
		tea.KeyCtrlY: 'y', tea.KeyCtrlZ: 'z',
	}
	r, ok := m[t]
	return r, true, ok
}

// View renders the current frame, matching §4.7's full-redraw-every-tick
// contract.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return ""
	}
	return frame.Render(m.screen, m.width, m.height, m.cfg.Theme, m.cfg.ShowDiagnostics)
}
