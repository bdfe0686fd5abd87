package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#6366f1"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af"))
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#d1d5db")).
			Padding(0, 1)
	topMarkerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#111827")).
			Padding(0, 1)
	errorTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ef4444"))
)

// colored 使用调色板颜色渲染文本
func colored(color, s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(s)
}

func noticeStyle(color string) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#ffffff")).
		Background(lipgloss.Color(color)).
		Padding(0, 1)
}
