package tui

import (
	"fmt"
	"strings"

	"github.com/crn4/kr/internal/kube"
)

const cursorSymbol = "> "

func (m *Model) viewList() string {
	innerWidth := m.width - 2
	innerHeight := m.bodyHeight() - 2
	title := m.activeTab.String()
	if len(m.selected) > 0 {
		title = fmt.Sprintf("%s (%d selected)", title, len(m.selected))
	}

	if len(m.filteredItems) == 0 {
		msg := ""
		if m.lastError == "" {
			noun := strings.ToLower(m.activeTab.String())
			if m.filterInput.Value() == "" && len(m.statusFilter) == 0 {
				msg = fmt.Sprintf("No %s in this namespace", noun)
			} else {
				msg = fmt.Sprintf("No %s match filter", noun)
			}
		}
		return m.box(title, []string{msg}, innerWidth, innerHeight)
	}

	nameWidth := innerWidth - len(cursorSymbol)
	var header []string
	switch m.activeTab {
	case kube.KindPod:
		nameWidth -= 2 + 8 + 12 + 10 + 8
		header = []string{pad("", 2), pad("Name", nameWidth), pad("Ready", 8), pad("Status", 12), pad("Restarts", 10), pad("Age", 8)}
	case kube.KindDeployment:
		nameWidth -= 2 + 10 + 12 + 10 + 8
		header = []string{pad("", 2), pad("Name", nameWidth), pad("Ready", 10), pad("Up-to-date", 12), pad("Available", 10), pad("Age", 8)}
	default:
		nameWidth -= 25 + 12 + 8
		header = []string{pad("Name", nameWidth), pad("Type", 25), pad("Data Count", 12), pad("Age", 8)}
	}
	if nameWidth < 8 {
		nameWidth = 8
	}

	lines := make([]string, 0, innerHeight)
	headerLine := strings.Repeat(" ", len(cursorSymbol))
	for _, cell := range header {
		headerLine += styleHeaderCell.Render(cell)
	}
	lines = append(lines, headerLine, "")

	rowSpace := innerHeight - len(lines)
	if rowSpace < 1 {
		rowSpace = 1
	}
	start := 0
	if m.cursor >= rowSpace {
		start = m.cursor - rowSpace + 1
	}
	end := start + rowSpace
	if end > len(m.filteredItems) {
		end = len(m.filteredItems)
	}

	for i := start; i < end; i++ {
		lines = append(lines, m.renderRow(i, nameWidth))
	}
	return m.box(title, lines, innerWidth, innerHeight)
}

func (m *Model) renderRow(i, nameWidth int) string {
	item := m.filteredItems[i]
	atCursor := i == m.cursor
	_, isSelected := m.selected[i]

	prefix := strings.Repeat(" ", len(cursorSymbol))
	if atCursor {
		prefix = cursorSymbol
	}
	marker := "  "
	if isSelected {
		marker = "● "
	}

	var cells []string
	phaseCell := -1
	var phase string
	switch r := item.(type) {
	case kube.PodItem:
		ready, total := kube.PodReady(r.Pod)
		phase = kube.PodPhase(r.Pod)
		phaseCell = 3
		cells = []string{
			marker,
			pad(r.Name(), nameWidth),
			pad(fmt.Sprintf("%d/%d", ready, total), 8),
			pad(phase, 12),
			pad(fmt.Sprintf("%d", kube.PodRestarts(r.Pod)), 10),
			pad(kube.Age(r.CreationTime()), 8),
		}
	case kube.DeploymentItem:
		st := r.Deployment.Status
		cells = []string{
			marker,
			pad(r.Name(), nameWidth),
			pad(fmt.Sprintf("%d/%d", st.ReadyReplicas, st.Replicas), 10),
			pad(fmt.Sprintf("%d", st.UpdatedReplicas), 12),
			pad(fmt.Sprintf("%d", st.AvailableReplicas), 10),
			pad(kube.Age(r.CreationTime()), 8),
		}
	case kube.SecretItem:
		cells = []string{
			pad(r.Name(), nameWidth),
			pad(string(r.Secret.Type), 25),
			pad(fmt.Sprintf("%d", len(r.Secret.Data)), 12),
			pad(kube.Age(r.CreationTime()), 8),
		}
	default:
		cells = []string{pad(item.Name(), nameWidth)}
	}

	if atCursor {
		return prefix + styleCursorRow.Render(strings.Join(cells, ""))
	}
	var b strings.Builder
	b.WriteString(prefix)
	for i, cell := range cells {
		switch {
		case i == 0 && isSelected && cell == marker:
			b.WriteString(styleMarker.Render(cell))
		case i == phaseCell:
			b.WriteString(phaseStyle(phase).Render(cell))
		default:
			b.WriteString(cell)
		}
	}
	return b.String()
}
