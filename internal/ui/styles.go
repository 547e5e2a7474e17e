package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/kanbohq/kanbo/internal/settings"
)

// Styles holds the lipgloss styles for one theme.
type Styles struct {
	Title        lipgloss.Style
	Column       lipgloss.Style
	FocusedCol   lipgloss.Style
	ColumnTitle  lipgloss.Style
	Item         lipgloss.Style
	SelectedItem lipgloss.Style
	DoneItem     lipgloss.Style
	Meta         lipgloss.Style
	ErrorMeta    lipgloss.Style
	Status       lipgloss.Style
	Help         lipgloss.Style
}

// NewStyles builds the style set for a theme name.
func NewStyles(theme string) Styles {
	dark := theme == settings.ThemeDark

	text := lipgloss.Color("235")
	faint := lipgloss.Color("245")
	accent := lipgloss.Color("26")
	border := lipgloss.Color("250")
	errColor := lipgloss.Color("124")
	if dark {
		text = lipgloss.Color("252")
		faint = lipgloss.Color("243")
		accent = lipgloss.Color("39")
		border = lipgloss.Color("240")
		errColor = lipgloss.Color("203")
	}

	column := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)

	return Styles{
		Title:        lipgloss.NewStyle().Bold(true).Foreground(accent),
		Column:       column,
		FocusedCol:   column.BorderForeground(accent),
		ColumnTitle:  lipgloss.NewStyle().Bold(true).Foreground(text),
		Item:         lipgloss.NewStyle().Foreground(text),
		SelectedItem: lipgloss.NewStyle().Bold(true).Foreground(accent),
		DoneItem:     lipgloss.NewStyle().Strikethrough(true).Foreground(faint),
		Meta:         lipgloss.NewStyle().Foreground(faint),
		ErrorMeta:    lipgloss.NewStyle().Foreground(errColor),
		Status:       lipgloss.NewStyle().Foreground(faint).Italic(true),
		Help:         lipgloss.NewStyle().Foreground(faint),
	}
}

// GlamourStyle returns the glamour standard style for a theme name.
func GlamourStyle(theme string) string {
	if theme == settings.ThemeDark {
		return "dark"
	}
	return "light"
}
