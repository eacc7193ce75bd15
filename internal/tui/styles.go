package tui

import "github.com/charmbracelet/lipgloss"

var (
	ColorPrimary   = lipgloss.Color("#7C3AED")
	ColorSecondary = lipgloss.Color("#3B82F6")
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorError     = lipgloss.Color("#EF4444")
	ColorBorder    = lipgloss.Color("#6B7280")
	ColorText      = lipgloss.Color("#F9FAFB")
	ColorTextMuted = lipgloss.Color("#9CA3AF")
)

type Theme struct {
	TitleStyle     lipgloss.Style
	SubtitleStyle  lipgloss.Style
	HeadingStyle   lipgloss.Style
	SubheadStyle   lipgloss.Style
	TextStyle      lipgloss.Style
	MutedStyle     lipgloss.Style
	LinkStyle      lipgloss.Style
	ErrorStyle     lipgloss.Style
	SuccessStyle   lipgloss.Style
	InputStyle     lipgloss.Style
	ButtonStyle    lipgloss.Style
	BusyStyle      lipgloss.Style
	PanelStyle     lipgloss.Style
	StatusBarStyle lipgloss.Style
	HelpStyle      lipgloss.Style
}

func DefaultTheme() *Theme {
	return &Theme{
		TitleStyle:    lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary),
		SubtitleStyle: lipgloss.NewStyle().Italic(true).Foreground(ColorTextMuted),
		HeadingStyle:  lipgloss.NewStyle().Bold(true).Foreground(ColorSecondary),
		SubheadStyle:  lipgloss.NewStyle().Bold(true).Foreground(ColorText),
		TextStyle:     lipgloss.NewStyle().Foreground(ColorText),
		MutedStyle:    lipgloss.NewStyle().Foreground(ColorTextMuted),
		LinkStyle:     lipgloss.NewStyle().Underline(true).Foreground(ColorSecondary),
		ErrorStyle:    lipgloss.NewStyle().Bold(true).Foreground(ColorError),
		SuccessStyle:  lipgloss.NewStyle().Foreground(ColorSuccess),
		InputStyle: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1),
		ButtonStyle: lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorPrimary).
			Padding(0, 2),
		BusyStyle: lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Background(ColorBorder).
			Padding(0, 2),
		PanelStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2),
		StatusBarStyle: lipgloss.NewStyle().Foreground(ColorTextMuted),
		HelpStyle:      lipgloss.NewStyle().Foreground(ColorTextMuted).Italic(true),
	}
}
