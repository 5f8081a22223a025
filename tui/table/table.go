// Package table renders listings for the CLI.
package table

import (
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/grovetools/workon/tui/theme"
)

// New returns a rounded-border table styled with t.
func New(t *theme.Theme) *ltable.Table {
	if t == nil {
		t = theme.DefaultTheme
	}
	cell := lipgloss.NewStyle().Padding(0, 1)
	return ltable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(t.Colors.MutedText)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return t.Header.Padding(0, 1)
			}
			if col == 0 {
				return cell.Foreground(t.Colors.Cyan)
			}
			return cell
		})
}

// Render draws headers and rows.
func Render(headers []string, rows [][]string) string {
	return New(theme.DefaultTheme).Headers(headers...).Rows(rows...).Render()
}
