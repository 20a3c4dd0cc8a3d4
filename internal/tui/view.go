package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/crn4/kr/internal/kube"
)

var spinnerFrames = []rune{'◐', '◓', '◑', '◒'}

func (m *Model) View() string {
	if !m.ready || m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.viewTabs())
	b.WriteByte('\n')
	b.WriteString(m.viewInfo())
	b.WriteByte('\n')
	b.WriteString(m.viewBody())
	b.WriteByte('\n')
	b.WriteString(m.viewFooter())
	return b.String()
}

func (m *Model) viewTabs() string {
	parts := make([]string, 0, 3)
	for _, k := range []kube.Kind{kube.KindPod, kube.KindDeployment, kube.KindSecret} {
		title := " " + k.String() + " "
		if k == m.activeTab {
			parts = append(parts, styleTabActive.Render(title))
		} else {
			parts = append(parts, styleNormal.Render(title))
		}
	}
	return strings.Join(parts, "|")
}

func (m *Model) viewInfo() string {
	filterPart := ""
	if q := m.filterInput.Value(); q != "" {
		if m.mode == ModeFilterInput {
			filterPart = fmt.Sprintf(" | Filter: %s_", q)
		} else {
			filterPart = fmt.Sprintf(" | Filter: %s", q)
		}
	} else if m.mode == ModeFilterInput {
		filterPart = " | Filter: _"
	}
	statusPart := ""
	if len(m.statusFilter) > 0 {
		phases := make([]string, 0, len(m.statusFilter))
		for phase := range m.statusFilter {
			phases = append(phases, phase)
		}
		sort.Strings(phases)
		statusPart = fmt.Sprintf(" | Status: %s", strings.Join(phases, ", "))
	}
	return fmt.Sprintf(" Ctx: %s | NS: %s | Items: %d%s%s",
		m.currentContext, m.currentNamespace, len(m.filteredItems), filterPart, statusPart)
}

func (m *Model) viewBody() string {
	switch m.mode {
	case ModeLogView, ModeLogSearchInput:
		return m.viewLogs()
	case ModeSecretDecode:
		return m.centered(m.viewSecretModal())
	case ModeContextSelect:
		return m.centered(m.viewContextPopup())
	case ModeNamespaceSelect:
		return m.centered(m.viewNamespacePopup())
	case ModeStatusFilter:
		return m.centered(m.viewStatusPopup())
	case ModeScaleInput:
		return m.centered(m.viewScalePrompt())
	case ModeConfirm:
		return m.centered(m.viewConfirm())
	case ModeShellView:
		return m.centered(m.viewShell())
	case ModeDescribeView:
		return m.centered(m.viewDescribe())
	default:
		if m.loading && len(m.filteredItems) == 0 {
			return m.viewLoading()
		}
		return m.viewList()
	}
}

func (m *Model) viewFooter() string {
	if m.lastError != "" {
		return styleError.Render(truncate(" ERROR: "+m.lastError, m.width))
	}
	if m.lastSuccess != "" {
		return styleSuccess.Render(truncate(" OK: "+m.lastSuccess, m.width))
	}
	return truncate(m.helpText(), m.width)
}

func (m *Model) helpText() string {
	switch m.mode {
	case ModeList:
		switch m.activeTab {
		case kube.KindPod:
			return "q:Quit /:Filter f:Status j/k:Nav g/G:Top/End Space:Sel ^a:All Tab:Next l:Logs s:Shell D:Del d:Desc e:Edit c:Ctx n:NS"
		case kube.KindDeployment:
			return "q:Quit /:Filter j/k:Nav g/G:Top/End PgUp/PgDn Space:Sel ^a:All Tab:Next S:Scale r:Restart D:Del d:Desc e:Edit c:Ctx n:NS"
		default:
			return "q:Quit /:Filter j/k:Nav g/G:Top/End PgUp/PgDn Tab:Next Enter/x:Decode c:Ctx n:NS"
		}
	case ModeFilterInput:
		return "Type to filter | Esc:Cancel | Enter:Confirm"
	case ModeSecretDecode:
		return "j/k:Scroll | r:Reveal | c:Copy | q/Esc:Close"
	case ModeLogView:
		return "j/k:Scroll | PgUp/PgDn | g/G:Top/Follow | /:Search n/N:Next/Prev | q/Esc:Back"
	case ModeLogSearchInput:
		return "Type to search | Enter:Confirm | Esc:Cancel"
	case ModeScaleInput:
		return "Enter replica count | Enter:Confirm | Esc:Cancel"
	case ModeConfirm:
		return "y:Confirm | n/Esc:Cancel"
	case ModeDescribeView:
		return "j/k:Scroll | PgUp/PgDn | g/G:Top/Bottom | q/Esc:Close"
	case ModeShellView:
		if strings.HasPrefix(m.shellTitle, "Edit") {
			return "Ctrl+Q:Close editor"
		}
		return "Ctrl+Q:Close shell"
	case ModeStatusFilter:
		return "j/k:Nav | Space:Toggle | a:All | Enter:Apply | Esc:Cancel"
	case ModeNamespaceSelect:
		if m.nsTyping {
			return "Type namespace | Up/Down:Nav | Enter:Select | Esc:Back"
		}
		return "j/k:Nav | /:Search | Enter:Select | Esc:Cancel"
	default:
		return ""
	}
}

func (m *Model) viewLoading() string {
	resource := strings.ToLower(m.activeTab.String())
	elapsed := time.Since(m.loadingSince)
	frame := spinnerFrames[int(elapsed.Milliseconds()/250)%len(spinnerFrames)]
	label := fmt.Sprintf(" %c Loading %s in %s... (%.1fs)",
		frame, resource, m.currentNamespace, elapsed.Seconds())
	return m.box("", []string{label}, m.width-2, m.bodyHeight()-2)
}

// centered places a pre-rendered block in the middle of the body area.
func (m *Model) centered(block string) string {
	return lipgloss.Place(m.width, m.bodyHeight(), lipgloss.Center, lipgloss.Center, block)
}

// box draws a bordered block with the title in the top border, fixed to the
// given inner width and height.
func (m *Model) box(title string, lines []string, innerWidth, innerHeight int) string {
	if innerWidth < 1 {
		innerWidth = 1
	}
	if innerHeight < 1 {
		innerHeight = 1
	}
	var b strings.Builder
	top := "┌" + title
	if pad := innerWidth - lipgloss.Width(title); pad > 0 {
		top += strings.Repeat("─", pad)
	}
	b.WriteString(top + "┐\n")
	for i := 0; i < innerHeight; i++ {
		line := ""
		if i < len(lines) {
			line = lines[i]
		}
		if w := lipgloss.Width(line); w < innerWidth {
			line += strings.Repeat(" ", innerWidth-w)
		}
		b.WriteString("│" + line + "│\n")
	}
	b.WriteString("└" + strings.Repeat("─", innerWidth) + "┘")
	return b.String()
}

// truncate clips a plain string to the given display width.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "")
}

// pad clips or right-pads a plain string to exactly the given width.
func pad(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, ""), width)
}
