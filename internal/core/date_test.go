package core

import "testing"

func TestParseDate(t *testing.T) {
	cases := []struct {
		in      string
		y, m, d int
		ok      bool
	}{
		{"2024-01-05", 2024, 1, 5, true},
		{"05/01/2024", 2024, 1, 5, true}, // legacy day-first
		{"2024-01-05 00:00:00", 2024, 1, 5, true},
		{"not a date", 0, 0, 0, false},
		{"", 0, 0, 0, false},
	}
	for i, tc := range cases {
		got, err := ParseDate(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("case %d (%q): %v", i, tc.in, err)
			}
			if got.Year() != tc.y || got.Month() != tc.m || got.Day() != tc.d {
				t.Fatalf("case %d (%q): got %v", i, tc.in, got)
			}
		} else if err == nil {
			t.Fatalf("case %d (%q): expected error", i, tc.in)
		}
	}
}

func TestDateStringIsCanonical(t *testing.T) {
	d, err := ParseDate("31/12/2023")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.String() != "2023-12-31" {
		t.Fatalf("expected ISO form, got %q", d.String())
	}
}

func TestSameDay(t *testing.T) {
	if !NewDate(2024, 3, 9).SameDay(NewDate(2024, 3, 9)) {
		t.Fatalf("expected same day")
	}
	if NewDate(2024, 3, 9).SameDay(NewDate(2024, 3, 10)) {
		t.Fatalf("expected different day")
	}
}
