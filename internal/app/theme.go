package app

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	tabStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)
	tabActiveStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("236")).Bold(true).Padding(0, 1)
	bannerStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("160")).Bold(true).Padding(0, 1)
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	helpStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	unavailableStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Italic(true)
	emptyStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	selectedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("236"))
	cardHeaderStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	cardMetaStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	recommendStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("114")).Bold(true)
	approveButtonStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("70")).Bold(true).Underline(true)
	overrideButtonStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("179")).Bold(true).Underline(true)
	severityLowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	severityMediumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("179"))
	severityHighStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	fieldLabelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	fieldValueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	filterStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	historyUserStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("110")).Bold(true)
	historyDiffStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	inlineErrorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	toastInfoStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("29")).Bold(true)
	toastErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("160")).Bold(true)
)

func severityStyle(severity string) lipgloss.Style {
	switch severity {
	case "high", "critical":
		return severityHighStyle
	case "medium":
		return severityMediumStyle
	default:
		return severityLowStyle
	}
}
