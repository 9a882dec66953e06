package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the UI based on the model state
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderPrompt())
	b.WriteString("\n\n")

	if m.engine.ViewEmpty() {
		b.WriteString(m.renderEmpty())
	} else {
		b.WriteString(m.list.View())
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

// renderHeader renders the title and project counts
func (m Model) renderHeader() string {
	title := m.styles.title.Render("Project Switcher")

	current := ""
	if name := m.engine.CurrentSession(); name != "" {
		current = m.styles.current.Render(" [" + name + "]")
	}

	var status string
	switch {
	case m.scanning && m.scans == 0:
		status = "scanning…"
	case m.engine.CatalogEmpty():
		status = "no projects found"
	default:
		status = fmt.Sprintf("%d/%d projects", m.engine.Len(), len(m.engine.Catalog()))
	}
	status = m.styles.status.Render(status)

	leftPart := lipgloss.Width(title) + lipgloss.Width(current)
	spacing := max(1, m.width-leftPart-lipgloss.Width(status)-2)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		title,
		current,
		strings.Repeat(" ", spacing),
		status,
	)
}

// renderPrompt renders the search term with a cursor
func (m Model) renderPrompt() string {
	return m.styles.prompt.Render("> ") +
		m.styles.term.Render(m.engine.SearchTerm()) +
		m.styles.cursor.Render("▏")
}

func (m Model) renderEmpty() string {
	msg := "No matching projects"
	if m.engine.CatalogEmpty() {
		msg = "No projects yet"
	}
	return m.styles.empty.Render(msg)
}

func (m Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return m.styles.errorLine.Render(m.status)
	}
	return m.styles.info.Render(m.status)
}
