package report

import (
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// Console prints report tables as text.
type Console struct {
	out   io.Writer
	title *color.Color
	note  *color.Color
}

// NewConsole returns a Console writing to out. With noColor set, section
// titles are printed without escape sequences even on a terminal.
func NewConsole(out io.Writer, noColor bool) *Console {
	c := &Console{
		out:   out,
		title: color.New(color.FgYellow, color.Bold),
		note:  color.New(color.FgCyan),
	}
	if noColor {
		c.title.DisableColor()
		c.note.DisableColor()
	}
	return c
}

// Print writes the table under its coloured title.
func (c *Console) Print(t Table) {
	c.title.Fprintf(c.out, "\n%s\n", t.Title)

	table := tablewriter.NewWriter(c.out)
	table.SetHeader(t.Header)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = formatCell(v)
		}
		table.Append(cells)
	}
	if len(t.Rows) == 0 {
		table.Append(emptyRow(len(t.Header)))
	}
	table.Render()

	for _, n := range t.Notes {
		c.note.Fprintln(c.out, n)
	}
}

// Banner prints a one-line run header.
func (c *Console) Banner(format string, args ...any) {
	c.note.Fprintf(c.out, format+"\n", args...)
}

func emptyRow(width int) []string {
	row := make([]string, width)
	if width > 0 {
		row[0] = "(no rows)"
	}
	return row
}
