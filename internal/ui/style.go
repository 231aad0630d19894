package ui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#FF8C42")
	faint  = lipgloss.Color("241")

	paddingStyle   = lipgloss.NewStyle().Padding(1, 2)
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1A1A1A")).Background(accent).Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().Bold(true).Foreground(accent).Underline(true).Padding(0, 1)
	tabStyle       = lipgloss.NewStyle().Foreground(faint).Padding(0, 1)
	faintStyle     = lipgloss.NewStyle().Foreground(faint)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	linkStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)
