// Package output renders reports for the terminal.
package output

import (
	"fmt"
	"io"

	"icreport/internal/rollup"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

type Table struct {
	table  *tablewriter.Table
	header []string
	rows   [][]string
}

func NewTable(w io.Writer, headers []string) *Table {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNone,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignRight,
				},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoFormat: tw.Off,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
		}),
	)
	return &Table{table: table, header: headers}
}

func (t *Table) AddRows(rows [][]string) {
	t.rows = append(t.rows, rows...)
}

func (t *Table) Render() error {
	t.table.Header(t.header)
	if err := t.table.Bulk(t.rows); err != nil {
		return err
	}
	return t.table.Render()
}

// Report writes the department rows of r, the skip statistics, and the
// per-output table when items is set and the variant keeps one.
func Report(w io.Writer, r *rollup.Report, items bool) error {
	fmt.Fprintf(w, "%s (%d-%d)", r.Variant.Title, r.Window.Start, r.Window.End)
	if r.DepartmentID != "" {
		fmt.Fprintf(w, " department %s", r.DepartmentID)
	}
	fmt.Fprintln(w)

	rows := r.Table()
	t := NewTable(w, rows[0])
	t.AddRows(rows[1:])
	if err := t.Render(); err != nil {
		return err
	}

	s := r.Stats
	fmt.Fprintf(w, "outputs %d, counted %d, out of window %d, no project %d, filtered %d, unattributed %d, unclassified %d\n",
		s.Outputs, s.Counted, s.OutOfWindow, s.NoProject, s.Filtered, s.Unattributed, s.Unclassified)
	if s.Malformed > 0 || len(s.Orphans) > 0 {
		fmt.Fprintf(w, "malformed participant lists %d, unknown departments %v\n", s.Malformed, s.Orphans)
	}

	if items && r.Variant.Detail {
		itemRows := r.ItemTable()
		it := NewTable(w, itemRows[0])
		it.AddRows(itemRows[1:])
		return it.Render()
	}
	return nil
}
