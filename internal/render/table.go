package render

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"icsevents/internal/model"
)

const (
	minColumnWidth = 5
	ellipsis       = "…"
)

// TableOptions controls terminal rendering.
type TableOptions struct {
	// Title is centered above the header; empty omits it.
	Title string
	// Width is the maximum line width. Location and Event Name cells are
	// shortened with "…" to fit. 0 means unlimited.
	Width int
	// Color enables ANSI styling.
	Color bool
}

var columnColors = []text.Colors{
	{text.FgCyan},
	{text.FgMagenta},
	{text.FgGreen},
}

// Table writes events as a box-drawn table to w.
func Table(w io.Writer, events []model.Event, opts TableOptions) error {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Title.Align = text.AlignCenter
	if opts.Color {
		t.Style().Title.Colors = text.Colors{text.Bold}
	}
	if opts.Title != "" {
		t.SetTitle(opts.Title)
	}

	header := make(table.Row, len(model.Header))
	for i, h := range model.Header {
		header[i] = h
	}
	t.AppendHeader(header)

	rows := make([][]string, 0, len(events))
	for _, e := range events {
		rec := e.Record()
		for i := range rec {
			rec[i] = flatten(rec[i])
		}
		rows = append(rows, rec)

		row := make(table.Row, len(rec))
		for i, cell := range rec {
			row[i] = cell
		}
		t.AppendRow(row)
	}

	widths := columnWidths(rows)
	if opts.Width > 0 {
		fitWidths(widths, opts.Width)
	}
	t.SetColumnConfigs(columnConfigs(widths, opts.Color))

	if _, err := io.WriteString(w, t.Render()+"\n"); err != nil {
		return err
	}
	return nil
}

func columnConfigs(widths []int, color bool) []table.ColumnConfig {
	configs := make([]table.ColumnConfig, len(widths))
	for i, width := range widths {
		c := table.ColumnConfig{
			Number:      i + 1,
			Align:       text.AlignLeft,
			AlignHeader: text.AlignLeft,
		}
		if i == 0 {
			c.Align = text.AlignCenter
			c.AlignHeader = text.AlignCenter
		} else {
			c.WidthMax = width
			c.WidthMaxEnforcer = snip
		}
		if color {
			c.Colors = columnColors[i]
			c.ColorsHeader = text.Colors{text.Bold}
		}
		configs[i] = c
	}
	return configs
}

// columnWidths is the display width of the widest cell per column,
// header included.
func columnWidths(rows [][]string) []int {
	widths := make([]int, len(model.Header))
	for i, h := range model.Header {
		widths[i] = text.RuneWidthWithoutEscSequences(h)
	}
	for _, r := range rows {
		for i, cell := range r {
			if n := text.RuneWidthWithoutEscSequences(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}
	return widths
}

// fitWidths narrows the Location and Event Name columns, widest first,
// until the table fits limit or both reach minColumnWidth. The Date column
// is never narrowed.
func fitWidths(widths []int, limit int) {
	for lineWidth(widths) > limit {
		i := 1
		if widths[2] > widths[1] {
			i = 2
		}
		if widths[i] <= minColumnWidth {
			return
		}
		widths[i]--
	}
}

// lineWidth is the rendered width of a row: "│ " + cell + " " per column
// plus the closing "│".
func lineWidth(widths []int) int {
	n := 1
	for _, w := range widths {
		n += w + 3
	}
	return n
}

func snip(s string, width int) string {
	return text.Snip(s, width, ellipsis)
}
