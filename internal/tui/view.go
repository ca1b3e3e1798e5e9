package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"taskscribe/internal/board"
	"taskscribe/internal/output"
	"taskscribe/internal/service"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("236")).Padding(0, 1)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Strikethrough(true)
	metaStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	actionStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	completeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)

	priorityStyles = map[service.Priority]lipgloss.Style{
		service.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		service.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		service.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("108")),
	}
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("TaskScribe"))
	b.WriteString("  ")
	b.WriteString(m.summary())
	b.WriteString("\n\n")

	switch m.mode {
	case modeExtract:
		b.WriteString(panelStyle.Render("Paste Meeting Transcript\n\n" + m.transcript.View()))
		b.WriteString("\n\n")
	case modeEdit:
		b.WriteString(m.renderEditPanel())
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderTasks())

	b.WriteString("\n")
	if m.status != "" {
		if m.isError {
			b.WriteString(errorStyle.Render(m.status))
		} else {
			b.WriteString(m.status)
		}
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(m.help()))
	return b.String()
}

func (m Model) summary() string {
	open, completed := m.board.Counts()
	f := m.board.Filter()
	s := fmt.Sprintf("%d open, %d completed | status: %s | priority: %s", open, completed, f.Status, f.Priority)
	if m.pending > 0 {
		s += fmt.Sprintf(" | %d pending", m.pending)
	}
	return metaStyle.Render(s)
}

func (m Model) renderTasks() string {
	view := m.board.View()
	if len(view) == 0 {
		open, completed := m.board.Counts()
		if open+completed == 0 {
			if !m.board.Loaded() {
				return "\n"
			}
			return output.EmptyBoard + "\n"
		}
		return output.NoMatches + "\n"
	}

	edit, editing := m.board.Editing()

	var b strings.Builder
	for i, t := range view {
		cursor := "  "
		if i == m.cursor && m.mode != modeExtract {
			cursor = cursorStyle.Render("> ")
		}

		desc := t.Description
		check := "[ ]"
		if t.Completed {
			desc = doneStyle.Render(desc)
			check = completeStyle.Render("[✔]")
		}
		fmt.Fprintf(&b, "%s%s #%d %s\n", cursor, check, t.ID, desc)

		pstyle, ok := priorityStyles[t.Priority]
		if !ok {
			pstyle = metaStyle
		}
		fmt.Fprintf(&b, "      %s %s\n",
			metaStyle.Render(fmt.Sprintf("Owner: %s | Deadline: %s | Created: %s |",
				board.OrPlaceholder(t.Owner), board.OrPlaceholder(t.Deadline), board.FormatTimestamp(t.CreatedAt))),
			pstyle.Render(board.OrPlaceholder(string(t.Priority))),
		)
		fmt.Fprintf(&b, "      %s\n\n", renderActions(output.Actions(t, editing && edit.TargetID == t.ID)))
	}
	return b.String()
}

// renderActions keeps every action in place and dims the disabled ones.
func renderActions(actions []output.Action) string {
	parts := make([]string, len(actions))
	for i, a := range actions {
		label := "[" + a.Label + "]"
		if i == 0 {
			label = fmt.Sprintf("%-10s", label)
		}
		if a.Enabled {
			parts[i] = actionStyle.Render(label)
		} else {
			parts[i] = disabledStyle.Render(label)
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) renderEditPanel() string {
	s, ok := m.board.Editing()
	if !ok {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Editing #%d\n\n", s.TargetID)
	for i, name := range board.EditFields {
		prefix := "  "
		value := board.OrPlaceholder(draftValue(s.Draft, name))
		if i == m.editField {
			prefix = cursorStyle.Render("> ")
			value = m.field.View()
		}
		fmt.Fprintf(&b, "%s%-12s %s\n", prefix, name, value)
	}
	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) help() string {
	switch m.mode {
	case modeExtract:
		return "ctrl+s extract • esc cancel"
	case modeEdit:
		return "tab/shift+tab field • enter next/save • ctrl+s save • esc cancel • ctrl+↑/↓ select task • ctrl+x complete/reopen • ctrl+d delete"
	case modeConfirmDelete:
		return "y delete • any other key cancels"
	}
	return "j/k move • x complete/reopen • e edit • d delete • n new transcript • s status • p priority • r reload • q quit"
}
