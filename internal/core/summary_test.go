package core

import "testing"

func sampleLedger() []Transaction {
	return []Transaction{
		{Kind: KindIncome, Category: "Salary", Amount: Money{Cents: 5000000}, Date: NewDate(2024, 1, 5), Description: "Jan salary"},
		{Kind: KindExpense, Category: "Rent", Amount: Money{Cents: 1500000}, Date: NewDate(2024, 1, 6)},
		{Kind: KindExpense, Category: "Food", Amount: Money{Cents: 250000}, Date: NewDate(2024, 1, 10), Description: "Groceries"},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleLedger())
	if s.TotalIncome.Cents != 5000000 {
		t.Fatalf("income=%d", s.TotalIncome.Cents)
	}
	if s.TotalExpense.Cents != 1750000 {
		t.Fatalf("expense=%d", s.TotalExpense.Cents)
	}
	if s.Balance.Cents != 3250000 {
		t.Fatalf("balance=%d", s.Balance.Cents)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.TotalIncome.Cents != 0 || s.TotalExpense.Cents != 0 || s.Balance.Cents != 0 {
		t.Fatalf("expected all-zero summary, got %+v", s)
	}
}

func TestBalanceIdentity(t *testing.T) {
	for _, txns := range [][]Transaction{nil, sampleLedger(), sampleLedger()[1:]} {
		s := Summarize(txns)
		if s.Balance.Cents != s.TotalIncome.Cents-s.TotalExpense.Cents {
			t.Fatalf("balance identity broken: %+v", s)
		}
	}
}

func TestGroupByCategory(t *testing.T) {
	rows := GroupByCategory(sampleLedger(), KindExpense)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	// Largest first.
	if rows[0].Name != "Rent" || rows[0].Amount.Cents != 1500000 {
		t.Fatalf("row 0: %+v", rows[0])
	}
	if rows[1].Name != "Food" || rows[1].Amount.Cents != 250000 {
		t.Fatalf("row 1: %+v", rows[1])
	}

	// The breakdown sums to the aggregate expense total.
	var sum int64
	for _, r := range rows {
		sum += r.Amount.Cents
	}
	if sum != Summarize(sampleLedger()).TotalExpense.Cents {
		t.Fatalf("breakdown sum %d != expense total", sum)
	}
}

func TestGroupByCategoryOmitsAbsent(t *testing.T) {
	rows := GroupByCategory(sampleLedger(), KindIncome)
	if len(rows) != 1 || rows[0].Name != "Salary" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}
