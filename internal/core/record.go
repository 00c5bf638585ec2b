package core

import (
	"fmt"
	"time"
)

// TimestampLayout is the second-precision layout used for rendering and
// for the persisted CSV date column. Timestamps carry no zone marker;
// records are stamped in UTC at construction.
const TimestampLayout = "2006-01-02 15:04:05"

// Record is a single expense entry. Fields are fixed at construction;
// editing a record means removing it and adding a replacement.
type Record struct {
	Timestamp   time.Time
	User        string
	Description string
	Amount      Money
	Category    Category
}

// nowFn is a test seam for the construction timestamp.
var nowFn = func() time.Time { return time.Now().UTC() }

// NewRecord builds a Record stamped with the current UTC wall-clock time.
// An empty description defaults to the category's canonical label; Generic
// has no label, so the description stays empty unless supplied.
func NewRecord(amount Money, user, description string, category Category) Record {
	if description == "" {
		description = category.DefaultDescription()
	}
	return Record{
		Timestamp:   nowFn().Truncate(time.Second),
		User:        user,
		Description: description,
		Amount:      amount,
		Category:    category,
	}
}

func (r Record) Validate() error {
	if r.Timestamp.IsZero() {
		return fmt.Errorf("record has zero timestamp")
	}
	return r.Amount.Validate()
}

// String renders the record for display:
//
//	2024-01-15 10:30:00 - Alice: Food: $10.00
func (r Record) String() string {
	return fmt.Sprintf("%s - %s: %s: $%s",
		r.Timestamp.Format(TimestampLayout), r.User, r.Description, r.Amount)
}
