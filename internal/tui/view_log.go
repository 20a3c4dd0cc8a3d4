package tui

import (
	"fmt"
	"strings"

	"github.com/crn4/kr/internal/logview"
)

func (m *Model) viewLogs() string {
	innerWidth := m.width - 2
	innerHeight := m.logVisibleHeight()

	modeLabel := "PAUSED"
	if m.logs.Following() {
		modeLabel = "FOLLOWING"
	}
	historyLabel := ""
	if m.logs.LoadingHistory() {
		if m.logs.SearchPending() {
			historyLabel = " [Searching...]"
		} else {
			historyLabel = " [Loading...]"
		}
	}

	// While typing, highlight against the draft query instead of the
	// confirmed one.
	query := m.logs.Query()
	searchLabel := ""
	if m.mode == ModeLogSearchInput {
		query = strings.ToLower(m.searchInput.Value())
		searchLabel = fmt.Sprintf(" /%s_", m.searchInput.Value())
	} else if query != "" {
		searchLabel = fmt.Sprintf(" /%s", query)
	}

	title := fmt.Sprintf("Logs [%d lines] [%s]%s%s", m.logs.Len(), modeLabel, historyLabel, searchLabel)

	all := m.logs.Lines()
	top := m.logs.Top(innerHeight)
	end := top + innerHeight
	if end > len(all) {
		end = len(all)
	}
	lines := make([]string, 0, innerHeight)
	for _, line := range all[top:end] {
		lines = append(lines, highlightMatches(truncate(line, innerWidth), query))
	}
	return m.box(title, lines, innerWidth, innerHeight)
}

// highlightMatches styles every case-insensitive occurrence of query in the
// line. query must already be lowercase.
func highlightMatches(line, query string) string {
	if query == "" {
		return line
	}
	var b strings.Builder
	rest := line
	for {
		i := logview.IndexFold(rest, query)
		if i < 0 {
			b.WriteString(rest)
			return b.String()
		}
		b.WriteString(rest[:i])
		b.WriteString(styleSearchMatch.Render(rest[i : i+len(query)]))
		rest = rest[i+len(query):]
	}
}
