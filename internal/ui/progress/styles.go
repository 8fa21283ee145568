package progress

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sizeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	logStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginLeft(2)
)
