package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/crn4/kr/internal/kube"
)

func handleContextKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.mode = ModeList
	case "enter":
		m.mode = ModeList
		if m.contextCursor >= 0 && m.contextCursor < len(m.availableContexts) {
			target := m.availableContexts[m.contextCursor]
			if target != m.currentContext {
				return switchContextCmd(target)
			}
		}
	case "k", "up":
		if m.contextCursor > 0 {
			m.contextCursor--
		}
	case "j", "down":
		if m.contextCursor < len(m.availableContexts)-1 {
			m.contextCursor++
		}
	}
	return nil
}

func handleNamespaceKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	if m.nsTyping {
		return handleNamespaceTypingKey(m, msg)
	}
	switch msg.String() {
	case "esc":
		m.nsInput.Reset()
		m.nsTyping = false
		m.mode = ModeList
	case "/":
		m.nsTyping = true
		m.nsInput.Reset()
		m.nsInput.Focus()
	case "enter":
		if m.nsCursor >= 0 && m.nsCursor < len(m.filteredNS) {
			m.selectNamespace(m.filteredNS[m.nsCursor])
		}
	case "k", "up":
		if m.nsCursor > 0 {
			m.nsCursor--
		}
	case "j", "down":
		if m.nsCursor < len(m.filteredNS)-1 {
			m.nsCursor++
		}
	}
	return nil
}

// handleNamespaceTypingKey is the free-text sub-mode: arrows still move the
// filtered list, Enter takes the list selection or the typed name.
func handleNamespaceTypingKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.nsInput.Reset()
		m.nsInput.Blur()
		m.nsTyping = false
		m.filteredNS = append(m.filteredNS[:0], m.availableNS...)
		m.nsCursor = 0
		for i, ns := range m.filteredNS {
			if ns == m.currentNamespace {
				m.nsCursor = i
				break
			}
		}
	case "enter":
		ns := m.nsInput.Value()
		if m.nsCursor >= 0 && m.nsCursor < len(m.filteredNS) {
			ns = m.filteredNS[m.nsCursor]
		}
		if kube.IsValidNamespaceName(ns) {
			m.nsInput.Blur()
			m.selectNamespace(ns)
		} else {
			m.setError("Invalid namespace name (RFC 1123: lowercase, digits, hyphens, max 63 chars)")
		}
	case "up":
		if m.nsCursor > 0 {
			m.nsCursor--
		}
	case "down":
		if m.nsCursor < len(m.filteredNS)-1 {
			m.nsCursor++
		}
	default:
		var cmd tea.Cmd
		m.nsInput, cmd = m.nsInput.Update(msg)
		m.updateNamespaceFilter()
		return cmd
	}
	return nil
}

func handleStatusFilterKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	n := len(m.statusChoices)
	switch msg.String() {
	case "esc":
		m.mode = ModeList
	case "enter":
		toggled := m.statusToggled
		if len(toggled) == 0 && n > 0 {
			toggled = map[int]struct{}{m.statusCursor: {}}
		}
		if len(toggled) == n {
			// Everything selected is the same as no filter.
			m.statusFilter = map[string]struct{}{}
		} else {
			m.statusFilter = map[string]struct{}{}
			for i := range toggled {
				if i >= 0 && i < n {
					m.statusFilter[m.statusChoices[i].Phase] = struct{}{}
				}
			}
		}
		m.updateFilter()
		m.mode = ModeList
	case " ":
		if _, ok := m.statusToggled[m.statusCursor]; ok {
			delete(m.statusToggled, m.statusCursor)
		} else if n > 0 {
			m.statusToggled[m.statusCursor] = struct{}{}
		}
	case "a":
		if len(m.statusToggled) == n {
			m.statusToggled = map[int]struct{}{}
		} else {
			m.statusToggled = map[int]struct{}{}
			for i := 0; i < n; i++ {
				m.statusToggled[i] = struct{}{}
			}
		}
	case "k", "up":
		if m.statusCursor > 0 {
			m.statusCursor--
		}
	case "j", "down":
		if m.statusCursor < n-1 {
			m.statusCursor++
		}
	}
	return nil
}
