package rollup

import (
	"math"
	"strconv"

	"icreport/internal/period"
)

// Stats describes what happened to the outputs read by one computation.
type Stats struct {
	Outputs      int
	OutOfWindow  int
	NoProject    int
	Filtered     int
	Unattributed int
	Unclassified int
	Counted      int
	Malformed    int
	Orphans      []string
}

// Report is the result of one computation: department rows in department
// list order, then the Total row.
type Report struct {
	Variant      *Variant
	Window       period.Window
	DepartmentID string
	Generation   uint64
	Rows         []*Row
	Stats        Stats
}

func (r *Report) Columns() []Column {
	return r.Variant.Columns
}

// Departments returns the rows without the Total row.
func (r *Report) Departments() []*Row {
	if len(r.Rows) == 0 {
		return nil
	}
	return r.Rows[:len(r.Rows)-1]
}

func (r *Report) Total() *Row {
	if len(r.Rows) == 0 {
		return nil
	}
	return r.Rows[len(r.Rows)-1]
}

func (r *Report) Header() []string {
	ret := []string{"Department"}
	for _, col := range r.Variant.Columns {
		ret = append(ret, col.Label)
	}
	return ret
}

// Records is the tabular form consumed by exporters: the header, then one
// slice of scalars per row. The first cell of a row is the department title,
// the others are float64.
func (r *Report) Records() [][]any {
	header := r.Header()
	first := make([]any, len(header))
	for i, h := range header {
		first[i] = h
	}
	ret := [][]any{first}
	for _, row := range r.Rows {
		rec := []any{row.Department}
		for _, col := range r.Variant.Columns {
			rec = append(rec, row.Value(col))
		}
		ret = append(ret, rec)
	}
	return ret
}

// Table is Records with every value formatted, ready for csv.Writer.
func (r *Report) Table() [][]string {
	ret := [][]string{r.Header()}
	for _, row := range r.Rows {
		rec := []string{row.Department}
		for _, col := range r.Variant.Columns {
			rec = append(rec, FormatValue(row.Value(col)))
		}
		ret = append(ret, rec)
	}
	return ret
}

var ItemHeader = []string{"Department", "Output", "Kind", "Title", "Year", "Level", "Classification", "Credit"}

// ItemTable flattens the detail listings of every department row.
func (r *Report) ItemTable() [][]string {
	ret := [][]string{ItemHeader}
	for _, row := range r.Departments() {
		for _, item := range row.Items {
			year := ""
			if item.Year > 0 {
				year = strconv.Itoa(item.Year)
			}
			ret = append(ret, []string{
				row.Department,
				item.OutputID,
				string(item.Kind),
				item.Title,
				year,
				string(item.Level),
				item.Classification,
				FormatValue(item.Credit),
			})
		}
	}
	return ret
}

// FormatValue rounds to four decimals and drops trailing zeros.
func FormatValue(v float64) string {
	v = math.Round(v*1e4) / 1e4
	if v == 0 {
		v = 0 // no "-0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
