// termwm is a tiling terminal multiplexer that runs inside a single host
// terminal, hosting several independent child shells as movable, resizable
// windows.
package main

import (
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"termwm/internal/config"
	"termwm/internal/tui"
)

func main() {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		fmt.Fprintln(os.Stderr, "termwm: stdin is not a terminal")
		os.Exit(1)
	}

	logFile, err := openLogFile()
	if err == nil {
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	cfg := config.Load()
	log.Println("termwm starting, windows:", len(cfg.InitialWindows))

	model, err := tui.New(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "termwm: failed to start:", err)
		os.Exit(1)
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "termwm: fatal:", err)
		os.Exit(1)
	}
}

// openLogFile opens ~/.termwm.log for append: log.Println diagnostics go
// to this file rather than stdout, which the alt-screen TUI owns.
func openLogFile() (*os.File, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return os.OpenFile(home+"/.termwm.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}
