package core

import "time"

// MonthOverview is a compact cash-flow summary for a specific year+month.
// Planned totals aggregate planned amounts, realized totals aggregate
// realization amounts of entries that already have a realization date.
type MonthOverview struct {
	Year        int
	Month       time.Month
	Count       int
	Confirmed   int
	PlannedIn   int64
	PlannedOut  int64
	RealizedIn  int64
	RealizedOut int64
}

// Net returns realized cash-in minus realized cash-out.
func (o MonthOverview) Net() int64 {
	return o.RealizedIn - o.RealizedOut
}

// Summarize builds the overview for the month selected by the filter.
func Summarize(list []Transaction, f Filter) MonthOverview {
	o := MonthOverview{Year: f.Year, Month: f.Month}
	for _, t := range f.Apply(list) {
		o.Count++
		if t.Confirmed {
			o.Confirmed++
		}
		switch t.Type {
		case CashIn:
			o.PlannedIn += t.PlannedAmount
			if t.Realized() {
				o.RealizedIn += t.RealizationAmount
			}
		default:
			o.PlannedOut += t.PlannedAmount
			if t.Realized() {
				o.RealizedOut += t.RealizationAmount
			}
		}
	}
	return o
}
