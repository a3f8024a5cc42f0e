package cmd

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func renderTable(w io.Writer, header table.Row, rows []table.Row) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(header)
	tw.AppendRows(rows)

	// The first column is a position when it holds ints.
	if len(rows) > 0 && len(rows[0]) > 0 {
		if _, ok := rows[0][0].(int); ok {
			tw.SetColumnConfigs([]table.ColumnConfig{
				{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
			})
		}
	}

	tw.Render()
}
