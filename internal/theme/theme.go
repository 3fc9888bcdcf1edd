package theme

import "github.com/charmbracelet/lipgloss"

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Tab           *lipgloss.Style
	SelectedTab   *lipgloss.Style
	TabStrip      *lipgloss.Style
	FrameActive   *lipgloss.Style
	FrameInactive *lipgloss.Style
	FrameTitle    *lipgloss.Style
	Glyph         *lipgloss.Style
	Desk          *lipgloss.Style
	Status        *lipgloss.Style
	Error         *lipgloss.Style
	Info          *lipgloss.Style
	FilterPrompt  *lipgloss.Style
	FilterMatch   *lipgloss.Style
	Sticker       *lipgloss.Style
}

var defaultStyles = Styles{
	Tab: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	SelectedTab: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
	),
	TabStrip: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	),
	FrameActive: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
	),
	FrameInactive: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	),
	FrameTitle: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true),
	),
	Glyph: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	),
	Desk: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("236")),
	),
	Status: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Error: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Info: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	FilterPrompt: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	FilterMatch: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
	),
	Sticker: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	),
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
