package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F4F4F5")).
			Background(lipgloss.Color("#3F3F46")).
			Padding(0, 1)

	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#52525B")).
			Padding(0, 1)

	selectedColumnStyle = columnStyle.
				BorderForeground(lipgloss.Color("#7D56F4"))

	dropTargetColumnStyle = columnStyle.
				BorderForeground(lipgloss.Color("#22C55E"))

	columnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#E4E4E7"))

	columnAggregateStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#A1A1AA"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#3F3F46")).
			Padding(0, 1)

	selectedCardStyle = cardStyle.
				BorderForeground(lipgloss.Color("#7D56F4"))

	grabbedCardStyle = cardStyle.
				BorderForeground(lipgloss.Color("#22C55E")).
				Bold(true)

	cardMetaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A1A1AA"))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A1A1AA"))

	footerActiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#F4F4F5")).
				Bold(true)

	helpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(1, 2)
)

// priorityColor maps the priority attribute to a badge color.
func priorityColor(priority string) lipgloss.Color {
	switch priority {
	case "critical", "high":
		return lipgloss.Color("#EF4444")
	case "medium":
		return lipgloss.Color("#F59E0B")
	case "low":
		return lipgloss.Color("#22C55E")
	default:
		return lipgloss.Color("#71717A")
	}
}
