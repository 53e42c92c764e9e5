// Package ptychild owns the PTY lifecycle for a single window's child
// process: fork+exec into a new session, ioctl-driven resize, and a close
// sequence that gives the child a chance to exit cleanly before it is
// killed. The master/slave plumbing is github.com/creack/pty.
package ptychild

import (
	"errors"
	"os"
	"os/exec"
	"os/user"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
)

// closeGrace is how long Close waits for the child to exit after SIGHUP
// before escalating to SIGKILL.
const closeGrace = 750 * time.Millisecond

// PtyChild is a running child process attached to a PTY master.
type PtyChild struct {
	cmd    *exec.Cmd
	master *os.File

	mu     sync.Mutex
	exited bool
	waitCh chan struct{}
}

// Start spawns shell (or the resolved default shell if shell is empty)
// inside a new session attached to a PTY of the given size.
func Start(shell string, cols, rows int) (*PtyChild, error) {
	if shell == "" {
		shell = defaultShell()
	}

	cmd := exec.Command(shell)
	cmd.Env = childEnv()
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	master, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
	if err != nil {
		return nil, err
	}

	pc := &PtyChild{
		cmd:    cmd,
		master: master,
		waitCh: make(chan struct{}),
	}
	go pc.waitLoop()
	return pc, nil
}

func (pc *PtyChild) waitLoop() {
	pc.cmd.Wait()
	pc.mu.Lock()
	pc.exited = true
	pc.mu.Unlock()
	close(pc.waitCh)
}

// Read reads raw child output. The window's read pump calls this in a
// dedicated goroutine and pushes the bytes into its queue.
func (pc *PtyChild) Read(buf []byte) (int, error) {
	return pc.master.Read(buf)
}

// Write sends input to the child.
func (pc *PtyChild) Write(data []byte) (int, error) {
	return pc.master.Write(data)
}

// Resize applies a new terminal size via TIOCSWINSZ and signals SIGWINCH to
// the child process (its pid, not its process group), per §4.3's resize
// procedure.
func (pc *PtyChild) Resize(cols, rows int) error {
	if err := pty.Setsize(pc.master, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	}); err != nil {
		return err
	}
	if pc.cmd.Process != nil {
		_ = syscall.Kill(pc.cmd.Process.Pid, syscall.SIGWINCH)
	}
	return nil
}

// HasExited reports whether the child process has already exited.
func (pc *PtyChild) HasExited() bool {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.exited
}

// Close signals the child to exit: SIGHUP to its process group, then waits
// up to closeGrace before escalating to SIGKILL, and finally releases the
// master fd. Safe to call more than once.
func (pc *PtyChild) Close() error {
	if pc.cmd.Process != nil {
		pgid := pc.cmd.Process.Pid
		_ = syscall.Kill(-pgid, syscall.SIGHUP)

		select {
		case <-pc.waitCh:
		case <-time.After(closeGrace):
			_ = syscall.Kill(-pgid, syscall.SIGKILL)
			<-pc.waitCh
		}
	}
	return pc.master.Close()
}

// defaultShell resolves $SHELL, falling back to the current user's
// /etc/passwd entry, then to the first of /bin/bash, /bin/zsh and /bin/sh
// that exists, and finally to /bin/sh.
func defaultShell() string {
	if sh := os.Getenv("SHELL"); sh != "" {
		if _, err := os.Stat(sh); err == nil {
			return sh
		}
	}
	if u, err := user.Current(); err == nil {
		if sh := passwdShell(u.Username); sh != "" {
			if _, err := os.Stat(sh); err == nil {
				return sh
			}
		}
	}
	for _, sh := range []string{"/bin/bash", "/bin/zsh", "/bin/sh"} {
		if _, err := os.Stat(sh); err == nil {
			return sh
		}
	}
	return "/bin/sh"
}

// passwdShell reads the login shell for username from /etc/passwd.
func passwdShell(username string) string {
	data, err := os.ReadFile("/etc/passwd")
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Split(line, ":")
		if len(fields) >= 7 && fields[0] == username {
			return fields[6]
		}
	}
	return ""
}

// childEnv is the spawned shell's entire environment: §6 specifies the
// child sees only TERM=dumb, nothing inherited from the host process.
func childEnv() []string {
	return []string{"TERM=dumb"}
}

// ErrNoProcess is an error value for a child that has already exited and
// been reaped. None of this package's functions return it.
var ErrNoProcess = errors.New("ptychild: no running process")
