package ux

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99"))
)

// WriteTable renders rows under headers. An empty table prints empty.
func WriteTable(w io.Writer, noColor bool, headers []string, rows [][]string, empty string) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, empty)
		return err
	}

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if noColor {
				return cellStyle
			}
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// Field is one key/value line of a detail view.
type Field struct {
	Key   string
	Value string
}

// WriteFields renders aligned key/value lines, skipping empty values.
func WriteFields(w io.Writer, noColor bool, fields []Field) error {
	width := 0
	for _, f := range fields {
		if f.Value != "" && len(f.Key) > width {
			width = len(f.Key)
		}
	}

	for _, f := range fields {
		if f.Value == "" {
			continue
		}
		key := fmt.Sprintf("%-*s", width+1, f.Key+":")
		if !noColor {
			key = keyStyle.Render(key)
		}
		if _, err := fmt.Fprintf(w, "%s %s\n", key, f.Value); err != nil {
			return err
		}
	}
	return nil
}
