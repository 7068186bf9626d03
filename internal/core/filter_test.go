package core

import "testing"

func TestFilterApply(t *testing.T) {
	txns := []Transaction{
		{ID: 1, Kind: KindIncome, Category: "Salary", Amount: Money{Cents: 100}, Date: NewDate(2024, 1, 5)},
		{ID: 2, Kind: KindExpense, Category: "Food", Amount: Money{Cents: 200}, Date: NewDate(2024, 1, 10)},
		{ID: 3, Kind: KindExpense, Category: "Food", Amount: Money{Cents: 300}, Date: NewDate(2024, 2, 1)},
	}

	got := Filter{Kind: KindExpense}.Apply(txns)
	if len(got) != 2 || got[0].ID != 2 || got[1].ID != 3 {
		t.Fatalf("kind filter: %+v", got)
	}

	got = Filter{Year: 2024, Month: 1}.Apply(txns)
	if len(got) != 2 || got[0].ID != 1 {
		t.Fatalf("month filter: %+v", got)
	}

	got = Filter{Category: "Food", Year: 2024, Month: 2}.Apply(txns)
	if len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("combined filter: %+v", got)
	}

	if got := (Filter{Kind: KindIncome, Year: 2023}).Apply(txns); len(got) != 0 {
		t.Fatalf("expected empty result, got %+v", got)
	}
}

func TestSortByDateStableAndNonMutating(t *testing.T) {
	txns := []Transaction{
		{ID: 1, Date: NewDate(2024, 1, 10)},
		{ID: 2, Date: NewDate(2024, 1, 5)},
		{ID: 3, Date: NewDate(2024, 1, 10)}, // same day as ID 1
	}

	desc := SortByDate(txns, true)
	if desc[0].ID != 1 || desc[1].ID != 3 || desc[2].ID != 2 {
		t.Fatalf("descending order: %+v", desc)
	}
	// Insertion order wins the tie between 1 and 3.
	asc := SortByDate(txns, false)
	if asc[0].ID != 2 || asc[1].ID != 1 || asc[2].ID != 3 {
		t.Fatalf("ascending order: %+v", asc)
	}
	// Original slice untouched.
	if txns[0].ID != 1 || txns[1].ID != 2 || txns[2].ID != 3 {
		t.Fatalf("input mutated: %+v", txns)
	}
}

func TestSortByAmount(t *testing.T) {
	txns := []Transaction{
		{ID: 1, Amount: Money{Cents: 50}},
		{ID: 2, Amount: Money{Cents: 200}},
		{ID: 3, Amount: Money{Cents: 50}},
	}
	got := SortByAmount(txns, true)
	if got[0].ID != 2 || got[1].ID != 1 || got[2].ID != 3 {
		t.Fatalf("descending: %+v", got)
	}
}
