// Package output provides terminal output utilities.
package output

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// TableStyle defines the style for table output.
type TableStyle struct {
	// Border is the border style.
	Border lipgloss.Border

	// BorderColor is the color for borders.
	BorderColor lipgloss.Color

	// HeaderStyle is the style for header cells.
	HeaderStyle lipgloss.Style

	// CellStyle is the style for regular cells.
	CellStyle lipgloss.Style
}

// DefaultTableStyle returns the default table style.
func DefaultTableStyle() TableStyle {
	return TableStyle{
		Border:      lipgloss.NormalBorder(),
		BorderColor: colorDimGray,
		HeaderStyle: lipgloss.NewStyle().Bold(true).Foreground(colorBlue),
		CellStyle:   lipgloss.NewStyle(),
	}
}

// Table represents a styled table.
type Table struct {
	headers []string
	rows    [][]string
	style   TableStyle
}

// NewTable creates a new table with the given headers.
func NewTable(headers ...string) *Table {
	return &Table{
		headers: headers,
		rows:    make([][]string, 0),
		style:   DefaultTableStyle(),
	}
}

// Row adds a row to the table.
func (t *Table) Row(cells ...string) *Table {
	t.rows = append(t.rows, cells)
	return t
}

// Values adds a row of untyped values. Nil values render as "-".
func (t *Table) Values(values ...any) *Table {
	cells := make([]string, len(values))
	for i, v := range values {
		cells[i] = FormatCell(v)
	}
	return t.Row(cells...)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// SetStyle sets the table style.
func (t *Table) SetStyle(style TableStyle) *Table {
	t.style = style
	return t
}

// String renders the table as a string.
func (t *Table) String() string {
	tbl := table.New().
		Border(t.style.Border).
		BorderStyle(lipgloss.NewStyle().Foreground(t.style.BorderColor)).
		Headers(t.headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return t.style.HeaderStyle
			}
			return t.style.CellStyle
		})

	for _, row := range t.rows {
		tbl.Row(row...)
	}

	return tbl.String()
}

// FormatCell renders a single table value.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'g', 6, 64)
	case int:
		return strconv.Itoa(x)
	default:
		return fmt.Sprint(x)
	}
}
