// Package rollup accumulates per-department, per-bucket credit into report
// rows and appends the grand total row.
package rollup

import (
	"icreport/internal/classify"
	"icreport/internal/mode"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	log "github.com/sirupsen/logrus"
)

// Item is one output line of a detail listing.
type Item struct {
	OutputID       string
	Kind           mode.OutputKind
	Title          string
	Year           int
	Level          mode.Level
	Classification string
	Credit         float64
}

// Row is one department, or the Total row. Rows handed out by Build are not
// mutated afterwards.
type Row struct {
	DepartmentID string
	Department   string
	IsTotal      bool
	Credit       map[classify.Bucket]float64
	Derived      map[string]float64
	Items        []Item
}

func newRow(id, title string) *Row {
	return &Row{
		DepartmentID: id,
		Department:   title,
		Credit:       make(map[classify.Bucket]float64),
		Derived:      make(map[string]float64),
	}
}

// Value returns the value of a column of the row's variant.
func (r *Row) Value(col Column) float64 {
	if col.Source == Credit {
		return r.Credit[classify.Bucket(col.Key)]
	}
	return r.Derived[col.Key]
}

// Builder holds one row per department, in department list order.
type Builder struct {
	variant *Variant
	rows    *linkedhashmap.Map
}

// NewBuilder seeds a zero row for every department, active or not.
func NewBuilder(v *Variant, departments []mode.Department) *Builder {
	b := &Builder{variant: v, rows: linkedhashmap.New()}
	for _, d := range departments {
		if _, found := b.rows.Get(d.ID); found {
			continue
		}
		b.rows.Put(d.ID, newRow(d.ID, d.Title))
	}
	return b
}

func (b *Builder) row(departmentID string) (*Row, bool) {
	value, found := b.rows.Get(departmentID)
	if !found {
		log.WithField("department", departmentID).Debug("no row for department")
		return nil, false
	}
	return value.(*Row), true
}

// Add credits a bucket of a department. Unknown departments are ignored.
func (b *Builder) Add(departmentID string, bucket classify.Bucket, credit float64) bool {
	r, ok := b.row(departmentID)
	if !ok {
		return false
	}
	r.Credit[bucket] += credit
	return true
}

func (b *Builder) AddItem(departmentID string, item Item) bool {
	r, ok := b.row(departmentID)
	if !ok {
		return false
	}
	r.Items = append(r.Items, item)
	return true
}

// SetCount stores a membership count column.
func (b *Builder) SetCount(departmentID, key string, n int) bool {
	r, ok := b.row(departmentID)
	if !ok {
		return false
	}
	r.Derived[key] = float64(n)
	return true
}

// Merge adds every value of other into b. Both builders must share the same
// department list; merging is associative and commutative up to float
// rounding.
func (b *Builder) Merge(other *Builder) {
	it := other.rows.Iterator()
	for it.Next() {
		src := it.Value().(*Row)
		dst, ok := b.row(src.DepartmentID)
		if !ok {
			continue
		}
		for bucket, v := range src.Credit {
			dst.Credit[bucket] += v
		}
		for key, v := range src.Derived {
			dst.Derived[key] += v
		}
		dst.Items = append(dst.Items, src.Items...)
	}
}

// Keep drops every row but the given department. Used by department
// filtered reports.
func (b *Builder) Keep(departmentID string) {
	for _, key := range b.rows.Keys() {
		if key.(string) != departmentID {
			b.rows.Remove(key)
		}
	}
}

// Build derives the per-row columns and returns the department rows followed
// by the Total row. Total sums each department row per column, in row order;
// percentages are recomputed from the summed counts.
func (b *Builder) Build() []*Row {
	var ret []*Row
	total := newRow("", "Total")
	total.IsTotal = true
	for _, value := range b.rows.Values() {
		r := value.(*Row)
		b.variant.derive(r)
		ret = append(ret, r)
	}
	for _, col := range b.variant.Columns {
		if col.Source == Percent {
			continue
		}
		var v float64
		for _, r := range ret {
			v += r.Value(col)
		}
		if col.Source == Credit {
			total.Credit[classify.Bucket(col.Key)] = v
		} else {
			total.Derived[col.Key] = v
		}
	}
	b.variant.derivePercent(total)
	return append(ret, total)
}

func (v *Variant) derive(r *Row) {
	for _, col := range v.Columns {
		if col.Source != Sum {
			continue
		}
		var total float64
		for _, key := range col.Of {
			if of, ok := v.Column(key); ok {
				total += r.Value(of)
			}
		}
		r.Derived[col.Key] = total
	}
	v.derivePercent(r)
}

func (v *Variant) derivePercent(r *Row) {
	for _, col := range v.Columns {
		if col.Source != Percent || len(col.Of) != 2 {
			continue
		}
		num, _ := v.Column(col.Of[0])
		den, _ := v.Column(col.Of[1])
		r.Derived[col.Key] = percent(r.Value(num), r.Value(den))
	}
}

func percent(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num * 100 / den
}
