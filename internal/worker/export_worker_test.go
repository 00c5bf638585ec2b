package worker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/codec"
	"fintrack/internal/core"
)

type fakeStore struct {
	records     map[int64]core.Record
	pending     []int64
	exported    []int64
	exportError []int64
}

func (f *fakeStore) Get(_ context.Context, id int64) (core.Record, error) {
	rec, ok := f.records[id]
	if !ok {
		return core.Record{}, errors.New("record not found")
	}
	return rec, nil
}

func (f *fakeStore) PendingExport(_ context.Context, limit int) ([]int64, error) {
	if len(f.pending) > limit {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

func (f *fakeStore) MarkExported(_ context.Context, id int64) error {
	f.exported = append(f.exported, id)
	return nil
}

func (f *fakeStore) MarkExportError(_ context.Context, id int64) error {
	f.exportError = append(f.exportError, id)
	return nil
}

func testRecord(user string) core.Record {
	return core.Record{
		Timestamp: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		User:      user,
		Amount:    core.Money{Cents: 100},
		Category:  core.CategoryFood,
	}
}

func TestHandleCreatedEventExports(t *testing.T) {
	exportFile := filepath.Join(t.TempDir(), "export.csv")
	store := &fakeStore{records: map[int64]core.Record{7: testRecord("Alice")}}
	w := NewExportWorker(store, codec.Codec{WithCategory: true}, exportFile, 10)

	if err := w.HandleEvent(context.Background(), amqp.NewRecordCreated(7)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(store.exported) != 1 || store.exported[0] != 7 {
		t.Fatalf("expected record marked exported, got %v", store.exported)
	}

	rows, err := codec.Codec{}.Load(exportFile)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if len(rows) != 1 || rows[0].User != "Alice" || rows[0].Category != core.CategoryFood {
		t.Fatalf("unexpected export rows: %+v", rows)
	}
}

func TestHandleEventMissingRecord(t *testing.T) {
	store := &fakeStore{records: map[int64]core.Record{}}
	w := NewExportWorker(store, codec.Codec{}, filepath.Join(t.TempDir(), "export.csv"), 10)

	if err := w.HandleEvent(context.Background(), amqp.NewRecordCreated(99)); err == nil {
		t.Fatalf("expected error for missing record")
	}
	if len(store.exportError) != 1 || store.exportError[0] != 99 {
		t.Fatalf("expected export error mark, got %v", store.exportError)
	}
}

func TestHandleDeletedEventIsNoOp(t *testing.T) {
	store := &fakeStore{}
	w := NewExportWorker(store, codec.Codec{}, filepath.Join(t.TempDir(), "export.csv"), 10)
	if err := w.HandleEvent(context.Background(), amqp.NewRecordDeleted(3)); err != nil {
		t.Fatalf("deleted event must not fail: %v", err)
	}
	if len(store.exported) != 0 {
		t.Fatalf("deleted event must not export anything")
	}
}

func TestProcessPending(t *testing.T) {
	exportFile := filepath.Join(t.TempDir(), "export.csv")
	store := &fakeStore{
		records: map[int64]core.Record{
			1: testRecord("a"),
			2: testRecord("b"),
		},
		pending: []int64{1, 2},
	}
	w := NewExportWorker(store, codec.Codec{}, exportFile, 10)

	if err := w.ProcessPending(context.Background()); err != nil {
		t.Fatalf("process pending: %v", err)
	}
	if len(store.exported) != 2 {
		t.Fatalf("expected both records exported, got %v", store.exported)
	}

	rows, err := codec.Codec{}.Load(exportFile)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 export rows, got %d", len(rows))
	}
}
