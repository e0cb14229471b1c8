package display

import "github.com/charmbracelet/lipgloss"

const panelWidth = 80

var (
	brand     = lipgloss.Color("#2E7D32")
	brandSoft = lipgloss.Color("#66BB6A")
	muted     = lipgloss.Color("#6B7280")
	warning   = lipgloss.Color("#F59E0B")
	danger    = lipgloss.Color("#EF4444")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(brand).
			Padding(0, 1).
			MarginBottom(1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(brand).
			Padding(1, 2).
			Width(panelWidth)

	balanceStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(brand).
			Padding(1, 2).
			Width(panelWidth)

	alertStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(warning).
			Padding(1, 2).
			Width(panelWidth)

	labelStyle = lipgloss.NewStyle().
			Foreground(muted)

	strongStyle = lipgloss.NewStyle().
			Bold(true)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true)

	assistantStyle = lipgloss.NewStyle().
			Foreground(brand).
			Bold(true)

	availableStyle = lipgloss.NewStyle().
			Foreground(brandSoft).
			Bold(true)

	unavailableStyle = lipgloss.NewStyle().
				Foreground(muted)

	creditStyle = lipgloss.NewStyle().
			Foreground(brandSoft)

	debitStyle = lipgloss.NewStyle().
			Foreground(danger)

	errorStyle = lipgloss.NewStyle().
			Foreground(danger).
			Bold(true)
)
