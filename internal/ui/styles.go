package ui

import "github.com/charmbracelet/lipgloss"

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Prompt        lipgloss.Style
	Query         lipgloss.Style
	Rule          lipgloss.Style
	Cursor        lipgloss.Style
	Selected      lipgloss.Style
	Pinned        lipgloss.Style
	Name          lipgloss.Style
	Dim           lipgloss.Style
	Highlight     lipgloss.Style
	Meta          lipgloss.Style
	PreviewBox    lipgloss.Style
	PreviewTitle  lipgloss.Style
	Status        lipgloss.Style
	StatusError   lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusWarning lipgloss.Style
	Mode          lipgloss.Style
	Empty         lipgloss.Style
	Spinner       lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title:         lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		Prompt:        lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		Query:         lipgloss.NewStyle().Bold(true),
		Rule:          lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		Cursor:        lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		Selected:      lipgloss.NewStyle().Background(lipgloss.Color("238")),
		Pinned:        lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		Name:          lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Dim:           lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Highlight:     lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		Meta:          lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		PreviewBox:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("241")).Padding(0, 1),
		PreviewTitle:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		Status:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		StatusWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		Mode:          lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		Empty:         lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Spinner:       lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
	}
}
