package views

import (
	"github.com/charmbracelet/lipgloss"

	"cratetui/internal/config"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title        lipgloss.Style
	Dim          lipgloss.Style
	Accent       lipgloss.Style
	Status       lipgloss.Style
	Filter       lipgloss.Style
	PromptBox    lipgloss.Style
	PromptActive lipgloss.Style
	Header       lipgloss.Style
	Row          lipgloss.Style
	RowAlt       lipgloss.Style
	RowSelected  lipgloss.Style
	Tab          lipgloss.Style
	TabActive    lipgloss.Style
	InfoBox      lipgloss.Style
	InfoLabel    lipgloss.Style
	InfoValue    lipgloss.Style
	HelpBox      lipgloss.Style
	HelpKey      lipgloss.Style
	HelpDesc     lipgloss.Style
	Scroll       lipgloss.Style
	PopupInfo    lipgloss.Style
	PopupError   lipgloss.Style
	Faded        lipgloss.Style
}

// NewStyles builds the styles from the configured palette
func NewStyles(c config.Style) *Styles {
	border := lipgloss.Color(c.Border)
	return &Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c.Title)),
		Dim:    lipgloss.NewStyle().Faint(true),
		Accent: lipgloss.NewStyle().Foreground(lipgloss.Color(c.Accent)),
		Status: lipgloss.NewStyle().Foreground(lipgloss.Color(c.Muted)),
		Filter: lipgloss.NewStyle().Foreground(lipgloss.Color(c.Accent)),
		PromptBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
		PromptActive: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(c.Accent)).
			Padding(0, 1),
		Header:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c.Title)),
		Row:         lipgloss.NewStyle(),
		RowAlt:      lipgloss.NewStyle().Background(lipgloss.Color(c.RowAlt)),
		RowSelected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c.Selected)).Background(border),
		Tab:         lipgloss.NewStyle().Foreground(lipgloss.Color(c.Muted)).Padding(0, 1),
		TabActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(c.Accent)).
			Underline(true).
			Padding(0, 1),
		InfoBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
		InfoLabel: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c.Accent)),
		InfoValue: lipgloss.NewStyle(),
		HelpBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(c.Muted)).
			Padding(1, 2),
		HelpKey:  lipgloss.NewStyle().Foreground(lipgloss.Color(c.Accent)),
		HelpDesc: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Scroll:   lipgloss.NewStyle().Foreground(lipgloss.Color(c.Muted)).Italic(true),
		PopupInfo: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(c.Info)).
			Padding(1, 2),
		PopupError: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(c.Error)).
			Foreground(lipgloss.Color(c.Error)).
			Padding(1, 2),
		Faded: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}
