package tui

import "github.com/charmbracelet/lipgloss"

var (
	styleNormal    = lipgloss.NewStyle()
	styleTabActive = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("6")).
			Bold(true)
	styleHeaderCell = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	styleCursorRow  = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("6")).
			Bold(true)
	styleSearchMatch = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("3")).
				Bold(true)
	styleMarker  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleTitle   = lipgloss.NewStyle().Bold(true)
)

// phaseStyle colors a pod phase the way kubectl users expect: green running,
// yellow pending, cyan succeeded, magenta terminating, red everything else.
func phaseStyle(phase string) lipgloss.Style {
	switch phase {
	case "Running":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "Pending":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	case "Succeeded":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	case "Terminating":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	}
}
