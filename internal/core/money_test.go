package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"0", 0, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"92233720368547758.07", 1<<63 - 1, true}, // largest representable cents
		{"92233720368547758.08", 0, false},       // fractional cents would wrap negative
		{"92233720368547758.99", 0, false},
		{"92233720368547759", 0, false},
		{"-1", 0, false},
		{"+1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{1000, "10.00"},
		{1234, "12.34"},
		{5, "0.05"},
		{0, "0.00"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).String(); got != tc.want {
			t.Fatalf("%d cents expected %q, got %q", tc.cents, tc.want, got)
		}
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 0}).Validate(); err != nil {
		t.Fatalf("zero should be valid, got %v", err)
	}
	if err := (Money{Cents: -1}).Validate(); err == nil {
		t.Fatalf("expected error for negative amount")
	}
}
