package tui

import (
	"fmt"
	"strconv"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/crn4/kr/internal/kube"
)

func handleSecretKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "q":
		m.secretName = ""
		m.secretEntries = nil
		m.mode = ModeList
	case "j", "down":
		if m.secretCursor < len(m.secretEntries)-1 {
			m.secretCursor++
		}
	case "k", "up":
		if m.secretCursor > 0 {
			m.secretCursor--
		}
	case "r":
		m.secretHidden = !m.secretHidden
	case "c":
		if m.secretCursor < 0 || m.secretCursor >= len(m.secretEntries) {
			break
		}
		entry := m.secretEntries[m.secretCursor]
		if err := clipboard.WriteAll(entry.Value); err != nil {
			m.setError(fmt.Sprintf("Clipboard error: %v", err))
			break
		}
		m.setSuccess(fmt.Sprintf("Copied '%s' to clipboard (clears in 15s)", entry.Key))
		ctx := m.tasks.start(taskClipboardClear)
		return clipboardClearCmd(ctx)
	}
	return nil
}

func handleDescribeKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	page := m.describeVisibleHeight()
	switch msg.String() {
	case "esc", "q":
		m.describeLines = nil
		m.describeScroll = 0
		m.mode = ModeList
	case "j", "down":
		if m.describeScroll < m.describeMaxScroll() {
			m.describeScroll++
		}
	case "k", "up":
		if m.describeScroll > 0 {
			m.describeScroll--
		}
	case "pgdown":
		if m.describeScroll += page; m.describeScroll > m.describeMaxScroll() {
			m.describeScroll = m.describeMaxScroll()
		}
	case "pgup":
		if m.describeScroll -= page; m.describeScroll < 0 {
			m.describeScroll = 0
		}
	case "G":
		m.describeScroll = m.describeMaxScroll()
	case "g":
		m.describeScroll = 0
	}
	return nil
}

func handleScaleKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.scaleInput.Blur()
		m.mode = ModeList
		return nil
	case "enter":
		value := m.scaleInput.Value()
		if value == "" {
			// Stay in the prompt; the input must keep accepting keys.
			m.setError("Enter a replica count")
			return nil
		}
		m.scaleInput.Blur()
		replicas, err := strconv.Atoi(value)
		if err != nil {
			m.setError("Invalid number")
			m.mode = ModeList
			return nil
		}
		if replicas > kube.MaxReplicas {
			m.setError(fmt.Sprintf("Replica count must be <= %d", kube.MaxReplicas))
			m.mode = ModeList
			return nil
		}
		if res, ok := m.selectedResource(); ok {
			m.pending = &PendingAction{Scale: &ScaleAction{Name: res.Name(), Replicas: int32(replicas)}}
			m.mode = ModeConfirm
			return nil
		}
		m.mode = ModeList
		return nil
	default:
		// Only digits may reach the buffer; editing and cursor keys pass
		// through untouched.
		if msg.Type == tea.KeyRunes {
			digits := make([]rune, 0, len(msg.Runes))
			for _, r := range msg.Runes {
				if r >= '0' && r <= '9' {
					digits = append(digits, r)
				}
			}
			if len(digits) == 0 {
				return nil
			}
			msg.Runes = digits
		}
		var cmd tea.Cmd
		m.scaleInput, cmd = m.scaleInput.Update(msg)
		return cmd
	}
}

func handleConfirmKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		pending := m.pending
		m.pending = nil
		m.mode = ModeList
		m.selected = map[int]struct{}{}
		if pending == nil {
			return nil
		}
		return m.executePending(*pending)
	case "n", "N", "esc":
		m.pending = nil
		m.selected = map[int]struct{}{}
		m.mode = ModeList
	}
	return nil
}

// executePending fires the confirmed operation. Deletes run one call per
// target so each result lands as its own banner.
func (m *Model) executePending(p PendingAction) tea.Cmd {
	switch {
	case p.Delete != nil:
		cmds := make([]tea.Cmd, 0, len(p.Delete.Names))
		for _, name := range p.Delete.Names {
			cmds = append(cmds, deleteResourceCmd(m.client, m.activeTab, m.currentNamespace, name))
		}
		return tea.Batch(cmds...)
	case p.Restart != nil:
		return restartDeploymentCmd(m.client, m.currentNamespace, p.Restart.Name)
	case p.Scale != nil:
		return scaleDeploymentCmd(m.client, m.currentNamespace, p.Scale.Name, p.Scale.Replicas)
	default:
		return nil
	}
}
