package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/inkinno/projects/internal/contracts"
	"github.com/inkinno/projects/internal/timeline"
)

func (m Model) View() string {
	sections := []string{m.headerView()}
	g := m.view.Grid()
	switch {
	case g == nil && m.view.Fetching():
		sections = append(sections, mutedStyle.Render("Loading timeline…"))
	case g == nil:
		sections = append(sections, mutedStyle.Render("No timeline loaded. Press r to retry."))
	default:
		sections = append(sections, m.gridView(*g), m.detailView(*g))
	}
	if panel := m.panelView(); panel != "" {
		sections = append(sections, panel)
	}
	if n, ok := m.view.Notice(); ok {
		sections = append(sections, noticeView(n))
	}
	sections = append(sections, helpStyle.Render(m.help.View(m.keys)))
	return strings.Join(sections, "\n")
}

func (m Model) headerView() string {
	rng := m.view.Range()
	label := rng.Start + " to " + rng.End
	if g := m.view.Grid(); g != nil && g.Label != "" {
		label = g.Label
	}
	status := ""
	if m.view.Fetching() {
		status = mutedStyle.Render("  loading…")
	}
	return fmt.Sprintf("%s  %s  %s%s",
		titleStyle.Render("Project timeline"),
		accentStyle.Render(label),
		mutedStyle.Render(fmt.Sprintf("[%s, %s]", m.view.Mode(), m.view.Order())),
		status,
	)
}

func (m Model) columnWidth(services int) int {
	if services == 0 {
		return 0
	}
	w := (m.width - labelWidth - 2) / services
	switch {
	case w < 12:
		return 12
	case w > 32:
		return 32
	default:
		return w
	}
}

func (m Model) gridView(g contracts.GridResponse) string {
	if len(g.Services) == 0 {
		return mutedStyle.Render("No services yet. Press n to add one.")
	}
	colW := m.columnWidth(len(g.Services))

	var b strings.Builder
	b.WriteString(pad("", labelWidth))
	for i, svc := range g.Services {
		head := pad(svc.Emoji+" "+svc.Name, colW-1) + " "
		if i == m.col {
			head = accentStyle.Render(head)
		} else {
			head = titleStyle.Render(head)
		}
		b.WriteString(head)
	}
	b.WriteString("\n")

	end := m.offset + m.visibleRows()
	if end > len(g.Rows) {
		end = len(g.Rows)
	}
	for r := m.offset; r < end; r++ {
		row := g.Rows[r]
		label := pad(row.Label, labelWidth-1) + " "
		if r == g.CurrentRow {
			label = currentStyle.Render(label)
		}
		b.WriteString(label)
		for c, cell := range row.Cells {
			text := pad(cellSummary(cell), colW-1)
			switch {
			case r == m.row && c == m.col:
				text = selectedStyle.Render(text)
			case hasHighlight(cell):
				text = highlightStyle.Render(text)
			case len(cell.Events) == 0:
				text = mutedStyle.Render(text)
			}
			b.WriteString(text + " ")
		}
		if r < end-1 {
			b.WriteString("\n")
		}
	}
	if len(g.Rows) > m.visibleRows() {
		b.WriteString("\n" + mutedStyle.Render(fmt.Sprintf("rows %d-%d of %d", m.offset+1, end, len(g.Rows))))
	}
	return b.String()
}

func cellSummary(cell contracts.GridCell) string {
	if len(cell.Events) == 0 {
		return emptyCell
	}
	first := cell.Events[0]
	text := first.Title
	if first.Highlight {
		text = highlightMark + " " + text
	}
	if more := len(cell.Events) - 1; more > 0 {
		text = fmt.Sprintf("%s +%d", text, more)
	}
	return text
}

func hasHighlight(cell contracts.GridCell) bool {
	for _, ev := range cell.Events {
		if ev.Highlight {
			return true
		}
	}
	return false
}

func (m Model) detailView(g contracts.GridResponse) string {
	if m.row >= len(g.Rows) || m.col >= len(g.Services) {
		return ""
	}
	row := g.Rows[m.row]
	if m.col >= len(row.Cells) {
		return ""
	}
	cell := row.Cells[m.col]
	svc := g.Services[m.col]
	lines := []string{titleStyle.Render(fmt.Sprintf("%s %s · %s", svc.Emoji, svc.Name, row.Label))}
	if len(cell.Events) == 0 {
		lines = append(lines, mutedStyle.Render("No events. Press a to add one."))
	}
	for _, ev := range cell.Events {
		mark := " "
		if ev.Highlight {
			mark = highlightStyle.Render(highlightMark)
		}
		lines = append(lines, fmt.Sprintf("%s %s  %s %s", mark, ev.Date, titleStyle.Render(ev.Title), mutedStyle.Render("["+ev.Category+"]")))
		if ev.Reason != "" {
			lines = append(lines, "    "+mutedStyle.Render(truncate(ev.Reason, m.width-6)))
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) panelView() string {
	var lines []string
	switch m.mode {
	case modeAddEvent:
		title := "Add event"
		if modal, ok := m.view.Modal(); ok && modal.Submitting {
			title += mutedStyle.Render("  classifying…")
		}
		lines = append(lines, titleStyle.Render(title))
	case modeEditService:
		lines = append(lines, titleStyle.Render("Edit service"))
	case modeConfirmDelete:
		svc, _ := m.selectedService()
		return panelStyle.Render(errorStyle.Render(fmt.Sprintf("Delete %s %s and all of its events? (y/N)", svc.Emoji, svc.Name)))
	default:
		return ""
	}
	for _, in := range m.inputs {
		lines = append(lines, in.View())
	}
	if m.inputErr != "" {
		lines = append(lines, errorStyle.Render(m.inputErr))
	}
	lines = append(lines, helpStyle.Render("enter submit · tab next field · esc cancel"))
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func noticeView(n timeline.Notice) string {
	text := n.Title
	if n.Message != "" {
		text += ": " + n.Message
	}
	if n.Kind == timeline.NoticeError {
		return errorStyle.Render("✖ " + text)
	}
	return successStyle.Render("✔ " + text)
}
