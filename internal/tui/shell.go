package tui

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/creack/pty"
	"github.com/hinshun/vt10x"
)

// shellSession is a kubectl subprocess on a PTY with a vt100 state machine
// for rendering its screen.
type shellSession struct {
	ptmx *os.File
	term vt10x.Terminal
	cmd  *exec.Cmd
	cols int
	rows int
}

func (m *Model) ptySize() (cols, rows int) {
	cols = m.width*80/100 - 2
	rows = m.height*80/100 - 2
	if cols < 40 {
		cols = 40
	}
	if rows < 10 {
		rows = 10
	}
	return cols, rows
}

func (m *Model) startShell(pod string) tea.Cmd {
	return m.spawnPty(fmt.Sprintf("Shell: %s", pod),
		"exec", "-it", pod, "-n", m.currentNamespace, "--context", m.currentContext, "--", "sh")
}

func (m *Model) startEdit(kind, name string) tea.Cmd {
	return m.spawnPty(fmt.Sprintf("Edit: %s/%s", kind, name),
		"edit", kind, name, "-n", m.currentNamespace, "--context", m.currentContext)
}

func (m *Model) spawnPty(title string, args ...string) tea.Cmd {
	cols, rows := m.ptySize()
	cmd := exec.Command("kubectl", args...)
	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		m.setError(fmt.Sprintf("Failed to open PTY: %v", err))
		return nil
	}
	m.shell = &shellSession{
		ptmx: ptmx,
		term: vt10x.New(vt10x.WithSize(cols, rows)),
		cmd:  cmd,
		cols: cols,
		rows: rows,
	}
	m.shellTitle = title
	m.mode = ModeShellView
	ctx := m.tasks.start(taskShellPump)
	return shellPump(ctx, ptmx, cmd, m.events)
}

// closeShell tears the session down without waiting for the child; closing
// the master side hangs the subprocess up.
func (m *Model) closeShell() {
	m.tasks.cancel(taskShellPump)
	if m.shell != nil && m.shell.cmd.Process != nil {
		_ = m.shell.cmd.Process.Kill()
	}
	m.shell = nil
	m.mode = ModeList
}

// shellPump reads PTY output into the internal channel until the
// subprocess exits.
func shellPump(ctx context.Context, ptmx *os.File, cmd *exec.Cmd, ch chan<- interface{}) tea.Cmd {
	return func() tea.Msg {
		go func() {
			<-ctx.Done()
			ptmx.Close()
		}()
		buf := make([]byte, 4096)
		for {
			n, err := ptmx.Read(buf)
			if n > 0 {
				data := make([]byte, n)
				copy(data, buf[:n])
				select {
				case ch <- ShellOutputMsg{Data: data}:
				case <-ctx.Done():
					return nil
				}
			}
			if err != nil {
				break
			}
		}
		_ = cmd.Wait()
		if ctx.Err() != nil {
			return nil
		}
		return ShellExitedMsg{}
	}
}

func handleShellKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+q" {
		m.closeShell()
		return nil
	}
	if m.shell == nil {
		return nil
	}
	if bytes := keyToPtyBytes(msg); len(bytes) > 0 {
		_, _ = m.shell.ptmx.Write(bytes)
	}
	return nil
}

// keyToPtyBytes translates a key event into the byte sequence a terminal
// would send.
func keyToPtyBytes(msg tea.KeyMsg) []byte {
	switch msg.Type {
	case tea.KeyRunes:
		b := []byte(string(msg.Runes))
		if msg.Alt {
			return append([]byte{0x1b}, b...)
		}
		return b
	case tea.KeySpace:
		if msg.Alt {
			return []byte{0x1b, ' '}
		}
		return []byte{' '}
	case tea.KeyEnter:
		return []byte{'\r'}
	case tea.KeyBackspace:
		return []byte{0x7f}
	case tea.KeyTab:
		return []byte{'\t'}
	case tea.KeyEsc:
		return []byte{0x1b}
	case tea.KeyUp:
		return []byte("\x1b[A")
	case tea.KeyDown:
		return []byte("\x1b[B")
	case tea.KeyRight:
		return []byte("\x1b[C")
	case tea.KeyLeft:
		return []byte("\x1b[D")
	case tea.KeyHome:
		return []byte("\x1b[H")
	case tea.KeyEnd:
		return []byte("\x1b[F")
	case tea.KeyDelete:
		return []byte("\x1b[3~")
	case tea.KeyPgUp:
		return []byte("\x1b[5~")
	case tea.KeyPgDown:
		return []byte("\x1b[6~")
	default:
		// Remaining non-negative key types are raw control bytes
		// (ctrl+a .. ctrl+z and friends).
		if msg.Type >= 0 && msg.Type < 32 {
			if msg.Alt {
				return []byte{0x1b, byte(msg.Type)}
			}
			return []byte{byte(msg.Type)}
		}
		return nil
	}
}
