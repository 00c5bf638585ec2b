package core

import (
	"testing"
	"time"
)

func TestParseCategory(t *testing.T) {
	cases := []struct {
		in  string
		out Category
	}{
		{"food", CategoryFood},
		{"Food", CategoryFood},
		{" TRANSPORT ", CategoryTransport},
		{"entertainment", CategoryFun},
		{"utilities", CategoryUtilities},
		{"groceries", CategoryGeneric},
		{"", CategoryGeneric},
	}
	for _, tc := range cases {
		if got := ParseCategory(tc.in); got != tc.out {
			t.Fatalf("%q expected %s, got %s", tc.in, tc.out, got)
		}
	}
}

func TestNewRecordDefaultDescription(t *testing.T) {
	cases := []struct {
		desc string
		cat  Category
		want string
	}{
		{"", CategoryFood, "Food"},
		{"", CategoryTransport, "Transport"},
		{"lunch", CategoryFood, "lunch"},
		{"", CategoryGeneric, ""},
		{"misc", CategoryGeneric, "misc"},
	}
	for i, tc := range cases {
		r := NewRecord(Money{Cents: 100}, "Alice", tc.desc, tc.cat)
		if r.Description != tc.want {
			t.Fatalf("case %d expected description %q, got %q", i, tc.want, r.Description)
		}
	}
}

func TestNewRecordTimestamp(t *testing.T) {
	fixed := time.Date(2024, 1, 15, 10, 30, 0, 500, time.UTC)
	origNow := nowFn
	nowFn = func() time.Time { return fixed }
	defer func() { nowFn = origNow }()

	r := NewRecord(Money{Cents: 100}, "Alice", "", CategoryFood)
	if !r.Timestamp.Equal(fixed.Truncate(time.Second)) {
		t.Fatalf("expected second-truncated timestamp, got %v", r.Timestamp)
	}
}

func TestRecordString(t *testing.T) {
	r := Record{
		Timestamp:   time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		User:        "Alice",
		Description: "Food",
		Amount:      Money{Cents: 1000},
		Category:    CategoryFood,
	}
	want := "2024-01-15 10:30:00 - Alice: Food: $10.00"
	if got := r.String(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestSummarize(t *testing.T) {
	recs := []Record{
		{User: "Alice", Amount: Money{Cents: 100}, Category: CategoryFood},
		{User: "Bob", Amount: Money{Cents: 200}, Category: CategoryFood},
		{User: "Alice", Amount: Money{Cents: 50}, Category: CategoryTransport},
	}
	o := Summarize(recs)
	if o.Total.Cents != 350 {
		t.Fatalf("expected total 350, got %d", o.Total.Cents)
	}
	if len(o.ByCategory) != 2 || o.ByCategory[0].Name != "food" || o.ByCategory[0].Amount.Cents != 300 {
		t.Fatalf("unexpected category breakdown: %+v", o.ByCategory)
	}
	if len(o.ByUser) != 2 || o.ByUser[0].Name != "Alice" || o.ByUser[0].Amount.Cents != 150 {
		t.Fatalf("unexpected user breakdown: %+v", o.ByUser)
	}
}
