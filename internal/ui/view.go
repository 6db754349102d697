package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"findt/internal/domain"
	"findt/internal/filter"
	"findt/internal/match"
	"findt/internal/session"
)

const readyMarker = "__READY__"

// View renders the UI
func (m *Model) View() string {
	if m.exiting {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	v := m.session.View()
	var b strings.Builder

	b.WriteString(m.renderHeader(v))
	b.WriteString("\n")
	b.WriteString(m.renderList(v))
	if m.previewShown() {
		b.WriteString("\n")
		b.WriteString(m.renderPreview())
	}
	b.WriteString("\n")
	b.WriteString(m.renderStatus(v))
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	return b.String()
}

func (m *Model) renderHeader(v session.View) string {
	title := m.styles.Title.Render("findt")
	if m.scanning {
		title += " " + m.spinner.View() + m.styles.Dim.Render(fmt.Sprintf("indexing… %d files", v.Total))
	}
	if m.opts.ReadyMarker {
		title += " " + readyMarker
	}

	search := m.styles.Prompt.Render("🔍 Search: ") + m.styles.Query.Render(v.Query) + m.styles.Cursor.Render("▏")
	rule := m.styles.Rule.Render(strings.Repeat("─", max(m.width, 1)))
	return title + "\n" + search + "\n" + rule
}

func (m *Model) renderList(v session.View) string {
	lines := make([]string, 0, v.Height)
	if v.Matched == 0 {
		msg := "No files found. Try a different search term."
		if !v.DiscoveryDone && v.Total == 0 {
			msg = "Looking for files…"
		}
		lines = append(lines, m.styles.Empty.Render("  "+msg))
	}

	var hl match.Highlighter
	if h, ok := m.session.Scorer().(match.Highlighter); ok && v.Query != "" {
		hl = h
	}

	for i, r := range v.Rows {
		var positions []int
		if hl != nil {
			positions = hl.Positions(v.Query, r.Entry)
		}
		lines = append(lines, m.renderRow(r, v.Offset+i == v.SelectedIndex, positions))
	}
	for len(lines) < v.Height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderRow(r filter.Result, current bool, positions []int) string {
	e := r.Entry
	cursor := "  "
	if current {
		cursor = m.styles.Cursor.Render("→ ")
	}
	mark := " "
	if m.pinned != nil && m.pinned.Path == e.Path {
		mark = m.styles.Pinned.Render("●")
	}

	meta := m.styles.Meta.Render(fmt.Sprintf("%8s • %s", formatSize(e.Size), timeAgo(m.now(), e.ModTime)))
	prefix := cursor + fileIcon(e.Ext()) + " "
	avail := m.width - lipgloss.Width(prefix) - lipgloss.Width(meta) - 4
	path := m.renderPath(e, positions, avail)

	gap := m.width - lipgloss.Width(prefix) - lipgloss.Width(path) - lipgloss.Width(meta) - 3
	if gap < 1 {
		gap = 1
	}
	line := prefix + path + strings.Repeat(" ", gap) + meta + " " + mark
	if current {
		return m.styles.Selected.Render(line)
	}
	return line
}

// renderPath draws the directory dimmed and the name plain, with matched
// bytes highlighted. Long paths lose their leading part.
func (m *Model) renderPath(e domain.Entry, positions []int, width int) string {
	p := e.Path
	nameStart := len(p) - len(e.Name())

	start := 0
	if width > 1 && lipgloss.Width(p) > width {
		runes := []rune(p)
		keep := width - 1
		if keep > len(runes) {
			keep = len(runes)
		}
		start = len(string(runes[:len(runes)-keep]))
	}

	matched := make(map[int]bool, len(positions))
	for _, pos := range positions {
		matched[pos] = true
	}

	var b strings.Builder
	if start > 0 {
		b.WriteString(m.styles.Dim.Render("…"))
	}
	var run strings.Builder
	runStyle := -1
	flush := func() {
		if run.Len() == 0 {
			return
		}
		switch runStyle {
		case 0:
			b.WriteString(m.styles.Dim.Render(run.String()))
		case 1:
			b.WriteString(m.styles.Name.Render(run.String()))
		default:
			b.WriteString(m.styles.Highlight.Render(run.String()))
		}
		run.Reset()
	}
	for i, r := range p[start:] {
		at := start + i
		style := 1
		switch {
		case matched[at]:
			style = 2
		case at < nameStart:
			style = 0
		}
		if style != runStyle {
			flush()
			runStyle = style
		}
		run.WriteRune(r)
	}
	flush()
	return b.String()
}

func (m *Model) renderPreview() string {
	title := "Preview"
	if m.pinned != nil {
		title = "Preview: " + m.pinned.Path
	}
	body := m.styles.PreviewTitle.Render(title) + "\n" + m.viewport.View()
	return m.styles.PreviewBox.Width(max(m.width-2, 10)).Render(body)
}

func (m *Model) renderStatus(v session.View) string {
	mode := m.styles.Mode.Render(v.Mode.String())
	if !v.FuzzyAvailable {
		mode += m.styles.Dim.Render(" (fuzzy unavailable)")
	}
	count := fmt.Sprintf("%d files", v.Matched)
	if v.Matched != v.Total {
		count = fmt.Sprintf("%d/%d files", v.Matched, v.Total)
	}
	left := m.styles.Status.Render(fmt.Sprintf("%s • %s • %s", mode, m.clip.Status(), count))
	if m.scanSource == "git" {
		left += m.styles.Dim.Render(" • git")
	}
	if m.status == "" {
		return left
	}

	style := m.styles.Status
	switch m.statusKind {
	case statusSuccess:
		style = m.styles.StatusSuccess
	case statusWarning:
		style = m.styles.StatusWarning
	case statusError:
		style = m.styles.StatusError
	}
	return left + "  " + style.Render(m.status)
}
