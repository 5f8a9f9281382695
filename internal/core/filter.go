package core

import "time"

const (
	ByPlannedDate     DateField = "planned"
	ByRealizationDate DateField = "realized"
)

type (
	// DateField selects which date of a transaction a filter looks at.
	DateField string

	// Filter narrows a transaction list down to a single month. It is a
	// pure view parameter and is never persisted.
	Filter struct {
		Month time.Month
		Year  int
		Field DateField
	}
)

func (f DateField) IsValid() bool {
	return f == ByPlannedDate || f == ByRealizationDate
}

// CurrentMonth returns a filter for the planned dates of the current month.
func CurrentMonth(now time.Time) Filter {
	return Filter{Month: now.Month(), Year: now.Year(), Field: ByPlannedDate}
}

// Matches reports whether the selected date of t falls in the filter month.
// Transactions without the selected date never match.
func (f Filter) Matches(t Transaction) bool {
	d := t.PlannedDate
	if f.Field == ByRealizationDate {
		d = t.RealizationDate
	}
	if d.IsZero() {
		return false
	}
	return d.Month() == f.Month && d.Year() == f.Year
}

// Apply returns the matching subsequence of list in its original order.
func (f Filter) Apply(list []Transaction) []Transaction {
	var out []Transaction
	for _, t := range list {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}
