// Package ledger implements the in-memory expense ledger: the ordered
// record list, the user registry and the configured spending limits.
package ledger

import (
	"errors"
	"sort"
	"sync"

	"fintrack/internal/core"
)

// ErrIndexOutOfRange is returned by RemoveAt in strict mode when the
// index does not address an existing record.
var ErrIndexOutOfRange = errors.New("record index out of range")

// Limits holds the configured spending thresholds. They are descriptive
// state only; nothing in the ledger enforces them against records.
type Limits struct {
	Daily   core.Money
	Weekly  core.Money
	Monthly core.Money
}

// Ledger is the ordered collection of records plus the user set and the
// limits configuration. All methods are safe for concurrent use; the
// interactive shell is single-threaded but the archive and export
// surfaces are not.
type Ledger struct {
	mu      sync.Mutex
	records []core.Record
	users   map[string]struct{}
	limits  Limits

	// lenient restores the source program's behavior of silently
	// ignoring out-of-range removal indexes.
	lenient bool
}

func New() *Ledger {
	return &Ledger{users: make(map[string]struct{})}
}

// NewLenient returns a ledger whose RemoveAt is a silent no-op on an
// out-of-range index instead of an error.
func NewLenient() *Ledger {
	l := New()
	l.lenient = true
	return l
}

// SetLenient toggles the silent no-op removal behavior on an existing
// ledger.
func (l *Ledger) SetLenient(lenient bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lenient = lenient
}

// Add appends the record to the end of the ledger. It always succeeds.
func (l *Ledger) Add(r core.Record) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, r)
}

// RemoveAt deletes the record at index, shifting later records down one
// position. In strict mode (the default) an out-of-range index returns
// ErrIndexOutOfRange; in lenient mode it is a no-op.
func (l *Ledger) RemoveAt(index int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if index < 0 || index >= len(l.records) {
		if l.lenient {
			return nil
		}
		return ErrIndexOutOfRange
	}
	l.records = append(l.records[:index], l.records[index+1:]...)
	return nil
}

// Records returns a copy of the record list in insertion order.
func (l *Ledger) Records() []core.Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.Record(nil), l.records...)
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// ReplaceRecords swaps the whole record list in one step. Users and
// limits are untouched. Loading a file parses everything first and then
// replaces through this method, so a failed load leaves the ledger as
// it was.
func (l *Ledger) ReplaceRecords(records []core.Record) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append([]core.Record(nil), records...)
}

// SetLimits replaces the limits wholesale. Values are not validated.
func (l *Ledger) SetLimits(daily, weekly, monthly core.Money) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.limits = Limits{Daily: daily, Weekly: weekly, Monthly: monthly}
}

// Limits returns the current limits configuration.
func (l *Ledger) Limits() Limits {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.limits
}

// AddUser inserts the identifier into the user set.
func (l *Ledger) AddUser(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.users[id] = struct{}{}
}

// RemoveUser discards the identifier. Removing an absent user is a no-op.
func (l *Ledger) RemoveUser(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.users, id)
}

// Users returns the registered identifiers in sorted order.
func (l *Ledger) Users() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.users))
	for id := range l.users {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// HasUser reports whether the identifier is registered.
func (l *Ledger) HasUser(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.users[id]
	return ok
}

// Overview aggregates totals over the current records.
func (l *Ledger) Overview() core.Overview {
	return core.Summarize(l.Records())
}

// Reset clears records, users and limits. It exists for test isolation
// and for tearing down a logical session.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = nil
	l.users = make(map[string]struct{})
	l.limits = Limits{}
}
