package render

import (
	"bufio"
	"io"
	"strings"

	"icsevents/internal/model"
)

// Markdown writes a pipe table:
//
//	| Date | Location | Event Name |
//	|---|---|---|
//	| 2099-01-01 | Hall | Gala |
func Markdown(w io.Writer, events []model.Event) error {
	bw := bufio.NewWriter(w)

	writeMarkdownRow(bw, model.Header)
	bw.WriteString("|---|---|---|\n")
	for _, e := range events {
		writeMarkdownRow(bw, e.Record())
	}
	return bw.Flush()
}

func writeMarkdownRow(w *bufio.Writer, cells []string) {
	w.WriteString("|")
	for _, c := range cells {
		w.WriteString(" ")
		w.WriteString(markdownCell(c))
		w.WriteString(" |")
	}
	w.WriteString("\n")
}

// markdownCell escapes pipes, which would otherwise split the cell.
func markdownCell(s string) string {
	return strings.ReplaceAll(flatten(s), "|", `\|`)
}
