// Package codec converts the ledger's record list to and from the
// comma-delimited file format:
//
//	Date,User,Description,Amount
//	2024-01-15 10:30:00,Alice,Food,10.00
//
// The legacy four-column format never encodes the category, so every
// loaded record comes back Generic. The extended format adds a fifth
// Category column; Load detects it from the header, Save writes it only
// when the codec is configured to.
package codec

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"fintrack/internal/core"
)

var (
	// ErrRowFormat reports a row with the wrong number of fields.
	ErrRowFormat = errors.New("malformed row")
	// ErrParse reports a date or amount field that does not match the
	// expected format.
	ErrParse = errors.New("malformed field")
)

var header = []string{"Date", "User", "Description", "Amount"}

const categoryColumn = "Category"

// Codec serializes records to the delimited format. The zero value
// writes the legacy four-column layout.
type Codec struct {
	// WithCategory adds the Category column on save. Files written
	// either way are readable by Load.
	WithCategory bool
}

// Save writes the header row and one row per record to path, replacing
// any existing file. The header is present even for zero records.
func (c Codec) Save(path string, records []core.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := c.write(f, records); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// Load parses the whole file and returns its records. The header row is
// discarded unconditionally; a Category column, when present in the
// header, is honored. Any malformed row aborts the load, so the caller's
// ledger is never partially replaced.
func (c Codec) Load(path string) ([]core.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := c.read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return records, nil
}

// AppendRecord appends one record row to path, writing the header first
// when the file is empty. The export worker uses this to grow a running
// export file.
func (c Codec) AppendRecord(path string, r core.Record) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open %s for append: %w", path, err)
	}
	defer f.Close()

	// Size, not existence: a pre-existing empty file still needs the
	// header or Load would eat the first row as one.
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	fresh := info.Size() == 0

	w := csv.NewWriter(f)
	if fresh {
		if err := w.Write(c.header()); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	if err := w.Write(c.row(r)); err != nil {
		return fmt.Errorf("write row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}

func (c Codec) header() []string {
	if c.WithCategory {
		return append(append([]string(nil), header...), categoryColumn)
	}
	return header
}

func (c Codec) row(r core.Record) []string {
	row := []string{
		r.Timestamp.Format(core.TimestampLayout),
		r.User,
		r.Description,
		r.Amount.String(),
	}
	if c.WithCategory {
		row = append(row, r.Category.String())
	}
	return row
}

func (c Codec) write(w io.Writer, records []core.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(c.header()); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(c.row(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (c Codec) read(r io.Reader) ([]core.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	head, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("missing header: %w", ErrRowFormat)
		}
		return nil, err
	}
	withCategory := len(head) == len(header)+1 && head[len(header)] == categoryColumn
	wantFields := len(header)
	if withCategory {
		wantFields++
	}

	var records []core.Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		if len(row) != wantFields {
			return nil, fmt.Errorf("line %d: expected %d fields, got %d: %w",
				line, wantFields, len(row), ErrRowFormat)
		}

		ts, err := time.ParseInLocation(core.TimestampLayout, row[0], time.UTC)
		if err != nil {
			return nil, fmt.Errorf("line %d: date %q: %w", line, row[0], ErrParse)
		}
		amount, err := core.ParseMoney(row[3])
		if err != nil {
			return nil, fmt.Errorf("line %d: amount %q: %w", line, row[3], ErrParse)
		}

		category := core.CategoryGeneric
		if withCategory {
			category = core.ParseCategory(row[4])
		}

		records = append(records, core.Record{
			Timestamp:   ts,
			User:        row[1],
			Description: row[2],
			Amount:      amount,
			Category:    category,
		})
	}
	return records, nil
}
