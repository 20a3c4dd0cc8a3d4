package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/hinshun/vt10x"
)

const popupCursor = ">> "

func (m *Model) popupSize() (w, h int) {
	w = m.width / 2
	h = m.bodyHeight() / 2
	if w < 30 {
		w = 30
	}
	if h < 6 {
		h = 6
	}
	return w, h
}

// listLines renders a cursor-driven list, windowed so the cursor stays
// visible.
func listLines(items []string, cursor, height int) []string {
	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	end := start + height
	if end > len(items) {
		end = len(items)
	}
	lines := make([]string, 0, height)
	for i := start; i < end; i++ {
		if i == cursor {
			lines = append(lines, popupCursor+styleCursorRow.Render(items[i]))
		} else {
			lines = append(lines, strings.Repeat(" ", len(popupCursor))+items[i])
		}
	}
	return lines
}

func (m *Model) viewContextPopup() string {
	w, h := m.popupSize()
	items := make([]string, 0, len(m.availableContexts))
	for _, ctx := range m.availableContexts {
		if ctx == m.currentContext {
			items = append(items, ctx+" (current)")
		} else {
			items = append(items, ctx)
		}
	}
	return m.box("Select Context", listLines(items, m.contextCursor, h), w, h)
}

func (m *Model) viewNamespacePopup() string {
	w, h := m.popupSize()
	if !m.nsTyping {
		return m.box("Select Namespace", listLines(m.filteredNS, m.nsCursor, h), w, h)
	}
	input := m.box("Type namespace", []string{m.nsInput.Value() + "_"}, w, 1)
	listHeight := h - 3
	if listHeight < 1 {
		listHeight = 1
	}
	list := m.box("", listLines(m.filteredNS, m.nsCursor, listHeight), w, listHeight)
	return input + "\n" + list
}

func (m *Model) viewStatusPopup() string {
	w, h := m.popupSize()
	items := make([]string, 0, len(m.statusChoices))
	for i, choice := range m.statusChoices {
		mark := "[ ]"
		if _, ok := m.statusToggled[i]; ok {
			mark = "[x]"
		}
		items = append(items, fmt.Sprintf("%s %s (%d)", mark, choice.Phase, choice.Count))
	}
	return m.box("Filter by Status", listLines(items, m.statusCursor, h), w, h)
}

func (m *Model) viewSecretModal() string {
	w := m.width * 60 / 100
	h := m.bodyHeight() * 60 / 100
	if w < 40 {
		w = 40
	}
	if h < 6 {
		h = 6
	}
	title := "Decoded Secret"
	if len(m.secretEntries) == 0 {
		return m.box(title, []string{"No data in secret."}, w, h)
	}

	keyWidth := w * 30 / 100
	valWidth := w - len(cursorSymbol) - keyWidth
	lines := make([]string, 0, h)
	lines = append(lines,
		strings.Repeat(" ", len(cursorSymbol))+
			styleHeaderCell.Render(pad("KEY", keyWidth))+
			styleHeaderCell.Render(pad("VALUE", valWidth)),
		"")

	rowSpace := h - len(lines)
	start := 0
	if m.secretCursor >= rowSpace {
		start = m.secretCursor - rowSpace + 1
	}
	end := start + rowSpace
	if end > len(m.secretEntries) {
		end = len(m.secretEntries)
	}
	for i := start; i < end; i++ {
		entry := m.secretEntries[i]
		value := entry.Value
		if m.secretHidden {
			value = "********"
		}
		row := pad(entry.Key, keyWidth) + pad(value, valWidth)
		if i == m.secretCursor {
			lines = append(lines, cursorSymbol+styleTitle.Render(row))
		} else {
			lines = append(lines, strings.Repeat(" ", len(cursorSymbol))+row)
		}
	}
	return m.box(title, lines, w, h)
}

func (m *Model) viewScalePrompt() string {
	return m.box("Scale Deployment", []string{
		"",
		fmt.Sprintf(" Replicas: %s_", m.scaleInput.Value()),
	}, 35, 3)
}

func (m *Model) viewConfirm() string {
	msg := "Confirm action?"
	if m.pending != nil {
		msg = m.pending.Message()
	}
	lines := strings.Split(msg, "\n")
	lines = append(lines, "", "[y] Yes  [n] No")
	return m.box("Confirm", lines, 50, len(lines))
}

func (m *Model) viewDescribe() string {
	w := m.width * 90 / 100
	h := m.describeVisibleHeight()
	title := fmt.Sprintf("Describe [%d lines]", len(m.describeLines))
	end := m.describeScroll + h
	if end > len(m.describeLines) {
		end = len(m.describeLines)
	}
	lines := make([]string, 0, h)
	for _, line := range m.describeLines[m.describeScroll:end] {
		lines = append(lines, truncate(line, w))
	}
	return m.box(title, lines, w, h)
}

func (m *Model) viewShell() string {
	if m.shell == nil {
		return ""
	}
	lines := make([]string, 0, m.shell.rows)
	cursor := m.shell.term.Cursor()
	for row := 0; row < m.shell.rows; row++ {
		var b strings.Builder
		for col := 0; col < m.shell.cols; col++ {
			cell := m.shell.term.Cell(col, row)
			ch := cell.Char
			if ch == 0 {
				ch = ' '
			}
			style := cellStyle(cell)
			if row == cursor.Y && col == cursor.X {
				style = style.Reverse(true)
			}
			b.WriteString(style.Render(string(ch)))
		}
		lines = append(lines, b.String())
	}
	return m.box("Shell (Ctrl+Q to close)", lines, m.shell.cols, m.shell.rows)
}

func cellStyle(g vt10x.Glyph) lipgloss.Style {
	style := lipgloss.NewStyle()
	if c, ok := termColor(g.FG); ok {
		style = style.Foreground(c)
	}
	if c, ok := termColor(g.BG); ok {
		style = style.Background(c)
	}
	return style
}

func termColor(c vt10x.Color) (lipgloss.Color, bool) {
	switch {
	case c == vt10x.DefaultFG || c == vt10x.DefaultBG:
		return "", false
	case c < 256:
		return lipgloss.Color(strconv.Itoa(int(c))), true
	default:
		return lipgloss.Color(fmt.Sprintf("#%06x", uint32(c)&0xffffff)), true
	}
}
