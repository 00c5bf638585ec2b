package ledger

import (
	"errors"
	"testing"

	"fintrack/internal/core"
)

func rec(user string, cents int64) core.Record {
	return core.NewRecord(core.Money{Cents: cents}, user, "t", core.CategoryGeneric)
}

func TestAddAppends(t *testing.T) {
	l := New()
	l.Add(rec("Alice", 100))
	l.Add(rec("Bob", 200))
	got := l.Records()
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[1].User != "Bob" {
		t.Fatalf("expected new record last, got %+v", got[1])
	}
}

func TestRemoveAtShiftsDown(t *testing.T) {
	l := New()
	l.Add(rec("a", 1))
	l.Add(rec("b", 2))
	l.Add(rec("c", 3))
	if err := l.RemoveAt(1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	got := l.Records()
	if len(got) != 2 || got[0].User != "a" || got[1].User != "c" {
		t.Fatalf("unexpected records after removal: %+v", got)
	}
}

func TestRemoveAtStrict(t *testing.T) {
	l := New()
	l.Add(rec("a", 1))
	for _, idx := range []int{-1, 1, 99} {
		if err := l.RemoveAt(idx); !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("index %d expected ErrIndexOutOfRange, got %v", idx, err)
		}
	}
	if l.Len() != 1 {
		t.Fatalf("failed removals must not mutate, len=%d", l.Len())
	}
}

func TestRemoveAtLenient(t *testing.T) {
	l := NewLenient()
	l.Add(rec("a", 1))
	if err := l.RemoveAt(42); err != nil {
		t.Fatalf("lenient removal expected nil, got %v", err)
	}
	if l.Len() != 1 {
		t.Fatalf("lenient out-of-range removal must not mutate, len=%d", l.Len())
	}
	if err := l.RemoveAt(0); err != nil || l.Len() != 0 {
		t.Fatalf("valid lenient removal failed: err=%v len=%d", err, l.Len())
	}
}

func TestSetLimits(t *testing.T) {
	l := New()
	l.SetLimits(core.Money{Cents: 5000}, core.Money{Cents: 30000}, core.Money{Cents: 120000})
	lim := l.Limits()
	if lim.Daily.Cents != 5000 || lim.Weekly.Cents != 30000 || lim.Monthly.Cents != 120000 {
		t.Fatalf("unexpected limits: %+v", lim)
	}
}

func TestUserRegistry(t *testing.T) {
	l := New()
	l.AddUser("Alice")
	l.AddUser("Bob")
	l.AddUser("Alice") // duplicate insert
	users := l.Users()
	if len(users) != 2 || users[0] != "Alice" || users[1] != "Bob" {
		t.Fatalf("unexpected users: %v", users)
	}

	l.RemoveUser("Alice")
	if l.HasUser("Alice") {
		t.Fatalf("Alice should be removed")
	}
	l.RemoveUser("Carol") // never added, must be a no-op
	if len(l.Users()) != 1 {
		t.Fatalf("unexpected users after no-op removal: %v", l.Users())
	}
}

func TestReplaceRecordsKeepsUsersAndLimits(t *testing.T) {
	l := New()
	l.Add(rec("old", 1))
	l.AddUser("Alice")
	l.SetLimits(core.Money{Cents: 1}, core.Money{Cents: 2}, core.Money{Cents: 3})

	l.ReplaceRecords([]core.Record{rec("new", 2)})

	if got := l.Records(); len(got) != 1 || got[0].User != "new" {
		t.Fatalf("unexpected records: %+v", got)
	}
	if !l.HasUser("Alice") || l.Limits().Daily.Cents != 1 {
		t.Fatalf("replace must not touch users or limits")
	}
}

func TestReset(t *testing.T) {
	l := New()
	l.Add(rec("a", 1))
	l.AddUser("Alice")
	l.SetLimits(core.Money{Cents: 1}, core.Money{Cents: 2}, core.Money{Cents: 3})
	l.Reset()
	if l.Len() != 0 || len(l.Users()) != 0 || l.Limits() != (Limits{}) {
		t.Fatalf("reset must clear all state")
	}
}
