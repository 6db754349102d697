package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

type helpSection struct {
	title    string
	bindings []key.Binding
}

// RenderHelp renders the full key reference shown in the pager
func RenderHelp(k keyMap) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220")).
		Width(14)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	sections := []helpSection{
		{"Navigation", []key.Binding{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom}},
		{"Search", []key.Binding{k.Backspace, k.Clear, k.ToggleMode}},
		{"Actions", []key.Binding{k.Select, k.CopyPath, k.CopyContent, k.TogglePreview, k.OpenPager}},
		{"Other", []key.Binding{k.Help, k.Escape, k.Quit}},
	}

	var help strings.Builder
	help.WriteString(titleStyle.Render("findt Help"))
	help.WriteString("\n")
	help.WriteString(descStyle.Render("  Type to search. Matching is case-insensitive; fuzzy mode matches"))
	help.WriteString("\n")
	help.WriteString(descStyle.Render("  characters in order with gaps and ranks the best matches first."))
	help.WriteString("\n")

	for _, s := range sections {
		help.WriteString(sectionStyle.Render(s.title))
		help.WriteString("\n")
		for _, b := range s.bindings {
			keys := strings.Join(b.Keys(), ", ")
			help.WriteString(fmt.Sprintf("  %s %s\n", keyStyle.Render(keys), descStyle.Render(b.Help().Desc)))
		}
	}
	help.WriteString("\n")
	help.WriteString(lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241")).Render("  Press q to close this help."))
	return help.String()
}
