package console

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// TableConfig describes a table to render.
type TableConfig struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// RenderTable renders a bordered table with an optional title line. An
// empty configuration renders to the empty string.
func RenderTable(config TableConfig) string {
	if len(config.Headers) == 0 && len(config.Rows) == 0 {
		return ""
	}

	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(config.Headers...).
		Rows(config.Rows...)

	var b strings.Builder
	if config.Title != "" {
		b.WriteString(config.Title)
		b.WriteString("\n")
	}
	b.WriteString(t.Render())
	return b.String()
}
