package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/crn4/kr/internal/logview"
)

// openLogs starts a fresh log session for the pod and spawns the follow
// stream under the task registry.
func (m *Model) openLogs(pod string) tea.Cmd {
	generation := m.logs.Start(pod, m.currentNamespace)
	m.mode = ModeLogView
	ctx := m.tasks.start(taskLogFollow)
	return followLogs(ctx, m.client, m.currentNamespace, pod, generation, int64(m.logs.TailLines()), m.events)
}

func (m *Model) closeLogs() {
	m.tasks.cancel(taskLogFollow)
	m.tasks.cancel(taskLogHistory)
	m.mode = ModeList
}

// loadMoreHistory grows the tail window and spawns the backfill fetch, if
// the session allows one.
func (m *Model) loadMoreHistory() tea.Cmd {
	req, ok := m.logs.RequestMore()
	if !ok {
		return nil
	}
	ctx := m.tasks.start(taskLogHistory)
	return fetchHistory(ctx, m.client, m.logs.Namespace(), m.logs.Pod(), req.Generation, req.TailLines)
}

// reportSearch posts the banner for a search outcome; a miss with history
// remaining turns into a backfill whose merge resolves the search.
func (m *Model) reportSearch(outcome logview.SearchOutcome) tea.Cmd {
	switch outcome {
	case logview.SearchNeedHistory:
		return m.loadMoreHistory()
	case logview.SearchExhausted:
		if _, ok := m.logs.MatchLine(); ok {
			m.setError("No more matches")
		} else {
			m.setError(fmt.Sprintf("Not found: '%s'", m.logs.Query()))
		}
	}
	return nil
}

func handleLogKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	h := m.logVisibleHeight()
	switch msg.String() {
	case "q":
		m.closeLogs()
	case "esc":
		if m.logs.Query() != "" {
			m.logs.ClearSearch()
		} else {
			m.closeLogs()
		}
	case "/":
		m.searchInput.SetValue(m.logs.Query())
		m.searchInput.CursorEnd()
		m.searchInput.Focus()
		m.mode = ModeLogSearchInput
	case "n":
		return m.reportSearch(m.logs.SearchNext(h))
	case "N":
		return m.reportSearch(m.logs.SearchPrev(h))
	case "j", "down":
		m.logs.ScrollDown(h)
	case "k", "up":
		if m.logs.ScrollUp(h) {
			return m.loadMoreHistory()
		}
	case "pgdown":
		m.logs.PageDown(h)
	case "pgup":
		if m.logs.PageUp(h) {
			return m.loadMoreHistory()
		}
	case "G":
		m.logs.Follow()
	case "g":
		m.logs.ScrollTop()
	}
	return nil
}

func handleLogSearchKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		// Keep the previous confirmed query.
		m.searchInput.Reset()
		m.searchInput.Blur()
		m.mode = ModeLogView
		return nil
	case "enter":
		m.logs.SetQuery(m.searchInput.Value())
		m.searchInput.Blur()
		m.mode = ModeLogView
		return m.reportSearch(m.logs.SearchNext(m.logVisibleHeight()))
	default:
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return cmd
	}
}
