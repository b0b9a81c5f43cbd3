package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Card/Panel style with border and background
	CardStyle = lipgloss.NewStyle().
			Background(ColorBgLight).
			Foreground(ColorFg).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(1, 2)

	// Focused card, used for the confirmation popup
	CardFocusedStyle = lipgloss.NewStyle().
				Background(ColorBgLight).
				Foreground(ColorFg).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary).
				Padding(1, 2)

	// Error popup card
	CardErrorStyle = lipgloss.NewStyle().
			Background(ColorBgLight).
			Foreground(ColorError).
			Border(lipgloss.ThickBorder()).
			BorderForeground(ColorError).
			Padding(1, 2)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1)

	// Text styles
	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// Status styles
	StatusError = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	// List item styles
	SelectedStyle = lipgloss.NewStyle().
			Background(ColorBgLight).
			Foreground(ColorFg).
			Bold(true)

	HeaderRowStyle = lipgloss.NewStyle().
			Foreground(ColorFg).
			Background(ColorBgLight).
			Bold(true)

	// Help styles
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// Tab styles
	TabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(ColorMuted)

	ActiveTabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(ColorPrimary).
			Bold(true).
			Underline(true)
)
