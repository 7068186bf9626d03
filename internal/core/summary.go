package core

import "sort"

// Summary aggregates a sequence of transactions. It is defined over any
// supplied slice, typically a filtered view, so per-month and per-category
// totals come out of the same function.
type Summary struct {
	TotalIncome  Money
	TotalExpense Money
	Balance      Money
}

// CategoryAmount is one row of a category breakdown.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// Summarize computes income, expense and balance totals. The empty slice
// yields all-zero totals.
func Summarize(txns []Transaction) Summary {
	var s Summary
	for _, t := range txns {
		switch t.Kind {
		case KindIncome:
			s.TotalIncome.Cents += t.Amount.Cents
		case KindExpense:
			s.TotalExpense.Cents += t.Amount.Cents
		}
	}
	s.Balance.Cents = s.TotalIncome.Cents - s.TotalExpense.Cents
	return s
}

// GroupByCategory sums amounts per category for transactions of the given
// kind. Categories absent from the input are omitted, not zero-filled.
// Rows come back largest first so breakdown views render without re-sorting.
func GroupByCategory(txns []Transaction, kind Kind) []CategoryAmount {
	totals := make(map[string]int64)
	for _, t := range txns {
		if t.Kind == kind {
			totals[t.Category] += t.Amount.Cents
		}
	}
	out := make([]CategoryAmount, 0, len(totals))
	for name, cents := range totals {
		out = append(out, CategoryAmount{Name: name, Amount: Money{Cents: cents}})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Name < out[j].Name
	})
	return out
}
