// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"taskscribe/internal/board"
	"taskscribe/internal/service"
)

// EmptyBoard is printed when the service has no tasks at all.
const EmptyBoard = "No tasks yet. Paste a meeting transcript to generate tasks."

// NoMatches is printed when tasks exist but none pass the filter.
const NoMatches = "No tasks match the current filters."

// Action is one entry of a task's action row.
type Action struct {
	Label   string
	Enabled bool
}

// toggleWidth keeps the action row aligned whether the first action is
// complete or reopen.
const toggleWidth = len("complete")

// Actions returns the action row for t. The row always has the same three
// entries; unavailable actions are disabled rather than omitted. Editing
// only disables edit itself.
func Actions(t service.Task, editing bool) []Action {
	toggle := "complete"
	if t.Completed {
		toggle = "reopen"
	}
	return []Action{
		{Label: toggle, Enabled: true},
		{Label: "edit", Enabled: !editing},
		{Label: "delete", Enabled: true},
	}
}

// FormatActions renders an action row. Disabled actions are shown in
// parentheses instead of brackets.
func FormatActions(actions []Action) string {
	parts := make([]string, len(actions))
	for i, a := range actions {
		label := a.Label
		if i == 0 {
			label = fmt.Sprintf("%-*s", toggleWidth, label)
		}
		if a.Enabled {
			parts[i] = "[" + label + "]"
		} else {
			parts[i] = "(" + label + ")"
		}
	}
	return strings.Join(parts, " ")
}

// FormatTask writes one task as three lines: title, metadata, actions.
// Format: "{#ID:<6}[x] {DESCRIPTION}\n" followed by two 6-space indented lines.
func FormatTask(w io.Writer, t service.Task, editing bool) {
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}
	fmt.Fprintf(w, "%-6s%s %s\n", fmt.Sprintf("#%d", t.ID), check, normalizeTitle(t.Description))
	fmt.Fprintf(w, "      %s\n", FormatMeta(t))
	fmt.Fprintf(w, "      %s\n", FormatActions(Actions(t, editing)))
}

// FormatMeta renders owner, deadline, priority and creation time.
func FormatMeta(t service.Task) string {
	return fmt.Sprintf("Owner: %s | Deadline: %s | Priority: %s | Created: %s",
		board.OrPlaceholder(t.Owner),
		board.OrPlaceholder(t.Deadline),
		board.OrPlaceholder(string(t.Priority)),
		board.FormatTimestamp(t.CreatedAt),
	)
}

// FormatBoard writes every task in view, separated by blank lines.
func FormatBoard(w io.Writer, view []service.Task) {
	for i, t := range view {
		if i > 0 {
			fmt.Fprintln(w)
		}
		FormatTask(w, t, false)
	}
}

// FormatSummary writes the one-line status summary for a board.
func FormatSummary(w io.Writer, shown, open, completed int, f board.Filter) {
	fmt.Fprintf(w, "%d shown, %d open, %d completed (status: %s, priority: %s)\n",
		shown, open, completed, f.Status, f.Priority)
}

// FormatDraft writes the fields of an edit draft, one per line.
func FormatDraft(w io.Writer, d service.TaskFields) {
	fmt.Fprintf(w, "description: %s\n", normalizeTitle(d.Description))
	fmt.Fprintf(w, "owner:       %s\n", board.OrPlaceholder(d.Owner))
	fmt.Fprintf(w, "deadline:    %s\n", board.OrPlaceholder(d.Deadline))
	fmt.Fprintf(w, "priority:    %s\n", d.Priority)
}

// normalizeTitle normalizes a task description for display.
// - Empty or whitespace-only descriptions become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
