package report

import (
	"icreport/internal/classify"
	"icreport/internal/mode"
	"icreport/internal/period"
	"icreport/internal/rollup"
)

func (p *pass) item(o mode.Output) rollup.Item {
	year, ok := period.YearOf(o.PeriodStart)
	if !ok {
		year, _ = period.YearOf(o.PeriodEnd)
	}
	return rollup.Item{
		OutputID:       o.ID,
		Kind:           o.Kind,
		Title:          o.Title,
		Year:           year,
		Level:          classify.LevelOf(o),
		Classification: classify.Describe(o),
	}
}
