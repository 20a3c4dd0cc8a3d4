package tui

import (
	"sort"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/crn4/kr/internal/kube"
)

// handleKey dispatches a key press to the active mode's handler.
func handleKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	switch m.mode {
	case ModeList:
		return handleListKey(m, msg)
	case ModeFilterInput:
		return handleFilterKey(m, msg)
	case ModeStatusFilter:
		return handleStatusFilterKey(m, msg)
	case ModeContextSelect:
		return handleContextKey(m, msg)
	case ModeNamespaceSelect:
		return handleNamespaceKey(m, msg)
	case ModeScaleInput:
		return handleScaleKey(m, msg)
	case ModeConfirm:
		return handleConfirmKey(m, msg)
	case ModeSecretDecode:
		return handleSecretKey(m, msg)
	case ModeDescribeView:
		return handleDescribeKey(m, msg)
	case ModeLogView:
		return handleLogKey(m, msg)
	case ModeLogSearchInput:
		return handleLogSearchKey(m, msg)
	case ModeShellView:
		return handleShellKey(m, msg)
	default:
		return nil
	}
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	m.tasks.cancelAll()
	if m.sub != nil {
		m.sub.Stop()
	}
	return tea.Quit
}

func handleListKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c":
		return m.quit()
	case "tab":
		m.nextTab()
	case "shift+tab":
		m.prevTab()
	case "c":
		m.contextCursor = 0
		for i, ctx := range m.availableContexts {
			if ctx == m.currentContext {
				m.contextCursor = i
				break
			}
		}
		m.mode = ModeContextSelect
	case "n":
		m.nsInput.Reset()
		m.nsTyping = false
		m.filteredNS = append(m.filteredNS[:0], m.availableNS...)
		m.nsCursor = 0
		for i, ns := range m.filteredNS {
			if ns == m.currentNamespace {
				m.nsCursor = i
				break
			}
		}
		if len(m.filteredNS) == 0 {
			m.nsCursor = -1
		}
		m.mode = ModeNamespaceSelect
	case "/":
		m.filterInput.Focus()
		m.mode = ModeFilterInput
	case "j", "down":
		m.nextRow()
	case "k", "up":
		m.prevRow()
	case "g":
		if len(m.filteredItems) > 0 {
			m.cursor = 0
		}
	case "G":
		if n := len(m.filteredItems); n > 0 {
			m.cursor = n - 1
		}
	case "pgdown":
		if n := len(m.filteredItems); n > 0 {
			page := m.bodyHeight()
			i := m.cursor
			if i < 0 {
				i = 0
			}
			if i += page; i > n-1 {
				i = n - 1
			}
			m.cursor = i
		}
	case "pgup":
		if len(m.filteredItems) > 0 {
			page := m.bodyHeight()
			i := m.cursor
			if i < 0 {
				i = 0
			}
			if i -= page; i < 0 {
				i = 0
			}
			m.cursor = i
		}
	case " ":
		if m.activeTab == kube.KindSecret {
			break
		}
		if m.cursor >= 0 && m.cursor < len(m.filteredItems) {
			if _, ok := m.selected[m.cursor]; ok {
				delete(m.selected, m.cursor)
			} else {
				m.selected[m.cursor] = struct{}{}
			}
		}
	case "ctrl+a":
		if len(m.selected) == len(m.filteredItems) {
			m.selected = map[int]struct{}{}
		} else {
			m.selected = map[int]struct{}{}
			for i := range m.filteredItems {
				m.selected[i] = struct{}{}
			}
		}
	case "f":
		if m.activeTab == kube.KindPod {
			m.buildStatusChoices()
			m.mode = ModeStatusFilter
		}
	case "l":
		if m.activeTab != kube.KindPod {
			break
		}
		if res, ok := m.selectedResource(); ok {
			return m.openLogs(res.Name())
		}
		m.setError("No pod selected")
	case "s":
		if m.activeTab != kube.KindPod {
			break
		}
		if res, ok := m.selectedResource(); ok {
			return m.startShell(res.Name())
		}
		m.setError("No pod selected")
	case "D", "delete":
		if m.activeTab == kube.KindSecret {
			break
		}
		names := m.deletionTargets()
		if len(names) == 0 {
			m.setError("No resource selected")
			break
		}
		m.pending = &PendingAction{Delete: &DeleteAction{Kind: m.activeTab.Plural(), Names: names}}
		m.mode = ModeConfirm
	case "S":
		if m.activeTab != kube.KindDeployment {
			break
		}
		if _, ok := m.selectedResource(); ok {
			m.scaleInput.Reset()
			m.scaleInput.Focus()
			m.mode = ModeScaleInput
		} else {
			m.setError("No deployment selected")
		}
	case "r":
		if m.activeTab != kube.KindDeployment {
			break
		}
		if res, ok := m.selectedResource(); ok {
			m.pending = &PendingAction{Restart: &RestartAction{Name: res.Name()}}
			m.mode = ModeConfirm
		} else {
			m.setError("No deployment selected")
		}
	case "d":
		if m.activeTab == kube.KindSecret {
			break
		}
		if res, ok := m.selectedResource(); ok {
			return describeCmd(m.currentContext, m.activeTab, m.currentNamespace, res.Name())
		}
		m.setError("No resource selected")
	case "e":
		if m.activeTab == kube.KindSecret {
			break
		}
		if res, ok := m.selectedResource(); ok {
			return m.startEdit(m.activeTab.Singular(), res.Name())
		}
		m.setError("No resource selected")
	case "enter", "x":
		if m.activeTab != kube.KindSecret {
			break
		}
		if m.decodeSelectedSecret() {
			m.secretCursor = 0
			m.secretHidden = true
			m.mode = ModeSecretDecode
		}
	case "esc":
		m.filterInput.Reset()
		m.statusFilter = map[string]struct{}{}
		m.updateFilter()
	}
	return nil
}

// deletionTargets is the multi-selection if any, else the cursor row.
func (m *Model) deletionTargets() []string {
	if len(m.selected) == 0 {
		if res, ok := m.selectedResource(); ok {
			return []string{res.Name()}
		}
		return nil
	}
	indices := make([]int, 0, len(m.selected))
	for i := range m.selected {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	names := make([]string, 0, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(m.filteredItems) {
			names = append(names, m.filteredItems[i].Name())
		}
	}
	return names
}

func handleFilterKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "enter":
		m.filterInput.Blur()
		m.mode = ModeList
		return nil
	default:
		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(msg)
		m.updateFilter()
		return cmd
	}
}
