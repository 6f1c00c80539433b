package tui

import "github.com/charmbracelet/lipgloss"

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted    = ac("240", "243")
	colorAccent   = ac("#5A56E0", "#7571F9")
	colorApproved = ac("#22863a", "#97e023")
	colorError    = ac("#cb2431", "#ff5f5f")

	titleStyle       = lipgloss.NewStyle().Bold(true)
	footerStyle      = lipgloss.NewStyle().Faint(true)
	headerCellStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	summaryStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	approvedStyle    = lipgloss.NewStyle().Foreground(colorApproved)
	selectedStyle    = lipgloss.NewStyle().Reverse(true)
	bannerStyle      = lipgloss.NewStyle().Bold(true).Foreground(colorError)
	statusStyle      = lipgloss.NewStyle().Foreground(colorMuted)
	navStyle         = lipgloss.NewStyle().Padding(0, 1).MarginRight(1).Border(lipgloss.NormalBorder(), false, true, false, false).BorderForeground(colorMuted)
	navSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	alertStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorError).Padding(1, 3)
	paneStyle        = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(colorMuted).Padding(0, 1)
)
