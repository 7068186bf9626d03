package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"12.345", 1234, true},
		{"12.346", 1235, true},
		{"50000", 5000000, true},
		{"0", 0, true},
		{"0.00", 0, true},
		{".50", 50, true},
		{"", 0, false},
		{"-5", 0, false},
		{"+5", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
	}
	for i, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("case %d (%q): got (%d, %v), want %d", i, tc.in, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d (%q): expected error", i, tc.in)
		}
	}
}

func TestMoneyString(t *testing.T) {
	if s := (Money{Cents: 1500000}).String(); s != "15000.00" {
		t.Fatalf("got %q", s)
	}
	if s := (Money{Cents: 205}).String(); s != "2.05" {
		t.Fatalf("got %q", s)
	}
	if s := (Money{Cents: -50}).String(); s != "-0.50" {
		t.Fatalf("got %q", s)
	}
}
