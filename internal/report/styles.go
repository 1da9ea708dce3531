package report

import "github.com/charmbracelet/lipgloss"

// Color palette for report output.
const (
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorMuted   = lipgloss.Color("#6B7280")
)

// Styles groups the lipgloss styles the text reporter uses.
type Styles struct {
	Info    lipgloss.Style
	Comment lipgloss.Style
	Title   lipgloss.Style
	Warning lipgloss.Style
}

// NewStyles returns coloured styles, or unstyled ones when color is false.
func NewStyles(color bool) Styles {
	if !color {
		plain := lipgloss.NewStyle()
		return Styles{Info: plain, Comment: plain, Title: plain, Warning: plain}
	}
	return Styles{
		Info:    lipgloss.NewStyle().Foreground(colorSuccess),
		Comment: lipgloss.NewStyle().Foreground(colorMuted),
		Title:   lipgloss.NewStyle().Bold(true).Underline(true),
		Warning: lipgloss.NewStyle().Foreground(colorWarning),
	}
}
