package core

import "sort"

// Filter selects transactions by kind, category and calendar month/year.
// Zero-valued fields impose no constraint.
type Filter struct {
	Kind     Kind
	Category string
	Year     int
	Month    int // 1-12; with Year zero it selects that month in every year
}

func (f Filter) matches(t Transaction) bool {
	if f.Kind != "" && t.Kind != f.Kind {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if f.Year != 0 && t.Date.Year() != f.Year {
		return false
	}
	if f.Month != 0 && t.Date.Month() != f.Month {
		return false
	}
	return true
}

// Apply returns the matching transactions in their original order. The
// input slice is never mutated.
func (f Filter) Apply(txns []Transaction) []Transaction {
	var out []Transaction
	for _, t := range txns {
		if f.matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// SortByDate returns a copy sorted by date. The sort is stable, so records
// sharing a date keep their insertion order, which is the tie-break rule
// the display layers rely on.
func SortByDate(txns []Transaction, descending bool) []Transaction {
	out := append([]Transaction(nil), txns...)
	sort.SliceStable(out, func(i, j int) bool {
		if descending {
			return out[j].Date.Before(out[i].Date.Time)
		}
		return out[i].Date.Before(out[j].Date.Time)
	})
	return out
}

// SortByAmount returns a copy stably sorted by amount.
func SortByAmount(txns []Transaction, descending bool) []Transaction {
	out := append([]Transaction(nil), txns...)
	sort.SliceStable(out, func(i, j int) bool {
		if descending {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Amount.Cents < out[j].Amount.Cents
	})
	return out
}
