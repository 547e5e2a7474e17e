package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/kanbohq/kanbo/internal/assist"
	"github.com/kanbohq/kanbo/internal/board"
)

const defaultWidth = 96

// View implements tea.Model.
func (m Model) View() string {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("kanbo"))
	b.WriteString(m.styles.Meta.Render(fmt.Sprintf("  %s theme", m.theme)))
	b.WriteString("\n\n")

	if m.detail {
		b.WriteString(m.detailView(width))
	} else {
		b.WriteString(m.boardView(width))
	}

	if m.adding {
		b.WriteString("\n")
		b.WriteString(m.styles.ColumnTitle.Render("New task: "))
		b.WriteString(m.input.View())
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Status.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(
		"a add · space complete · H/L move · d delete · g analyze · b break down · s subtasks · enter details · t theme · q quit"))
	return b.String()
}

func (m Model) boardView(width int) string {
	colWidth := width/len(board.Statuses) - 4
	if colWidth < 16 {
		colWidth = 16
	}

	columns := make([]string, 0, len(board.Statuses))
	for i, status := range board.Statuses {
		tasks := m.store.Column(status)
		var col strings.Builder
		col.WriteString(m.styles.ColumnTitle.Render(fmt.Sprintf("%s (%d)", status.Title(), len(tasks))))
		col.WriteString("\n")
		for row, task := range tasks {
			col.WriteString(m.taskLine(task, i == m.focusCol && row == m.focusRow, colWidth))
		}

		style := m.styles.Column
		if i == m.focusCol {
			style = m.styles.FocusedCol
		}
		columns = append(columns, style.Width(colWidth).Render(col.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

func (m Model) taskLine(task board.Task, selected bool, width int) string {
	checkbox := "[ ]"
	if task.Completed {
		checkbox = "[x]"
	}
	marker := " "
	if selected {
		marker = ">"
	}

	style := m.styles.Item
	switch {
	case selected:
		style = m.styles.SelectedItem
	case task.Completed:
		style = m.styles.DoneItem
	}

	var b strings.Builder
	b.WriteString(style.Render(truncate(fmt.Sprintf("%s %s %s", marker, checkbox, task.Text), width)))
	b.WriteString("\n")

	if m.flows.Loading(task.ID, assist.KindAnalysis) {
		b.WriteString(m.styles.Meta.Render(fmt.Sprintf("   %s analyzing…", m.spin.View())))
		b.WriteString("\n")
	} else if task.Analysis != nil {
		metaStyle := m.styles.Meta
		if task.Analysis.Category == "Error" {
			metaStyle = m.styles.ErrorMeta
		}
		b.WriteString(metaStyle.Render(truncate(fmt.Sprintf("   %s · %s", task.Analysis.Category, task.Analysis.Priority), width)))
		b.WriteString("\n")
	}

	if m.flows.Loading(task.ID, assist.KindBreakdown) {
		b.WriteString(m.styles.Meta.Render(fmt.Sprintf("   %s breaking down…", m.spin.View())))
		b.WriteString("\n")
	} else if task.ShowSubTasks {
		for _, sub := range task.SubTasks {
			b.WriteString(m.styles.Meta.Render(truncate("   • "+sub, width)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// detailView renders the focused task as markdown through glamour.
func (m Model) detailView(width int) string {
	task, ok := m.selected()
	if !ok {
		return m.styles.Meta.Render("nothing selected")
	}

	md := taskMarkdown(task)
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(GlamourStyle(m.theme)),
		glamour.WithWordWrap(min(width, 80)),
	)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}

func taskMarkdown(task board.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", task.Text)
	fmt.Fprintf(&b, "Status: **%s**\n\n", task.Status)

	if task.Analysis != nil {
		b.WriteString("## Analysis\n\n")
		fmt.Fprintf(&b, "- Category: %s\n", task.Analysis.Category)
		fmt.Fprintf(&b, "- Priority: %s\n", task.Analysis.Priority)
		fmt.Fprintf(&b, "- Notes: %s\n", task.Analysis.Notes)
		b.WriteString("\n")
	}
	if len(task.SubTasks) > 0 {
		b.WriteString("## Sub-tasks\n\n")
		for i, sub := range task.SubTasks {
			fmt.Fprintf(&b, "%d. %s\n", i+1, sub)
		}
	}
	return b.String()
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 1 || len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
