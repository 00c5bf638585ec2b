// Package services wires the in-memory ledger to its optional outbound
// collaborators: the SQLite archive and the AMQP event stream. The shell
// talks to RecordService only; the ledger stays free of I/O.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"fintrack/internal/amqp"
	"fintrack/internal/codec"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

// Archive is the persistence surface RecordService needs from the
// SQLite repository.
type Archive interface {
	Append(ctx context.Context, rec core.Record) (int64, error)
	Delete(ctx context.Context, id int64) error
	AddUser(ctx context.Context, id string) error
	RemoveUser(ctx context.Context, id string) error
	Close() error
}

// EventPublisher is the messaging surface RecordService needs from the
// AMQP client.
type EventPublisher interface {
	PublishRecordEvent(ctx context.Context, event *amqp.RecordEvent) error
	Close() error
}

// RecordService orchestrates ledger operations with the optional archive
// and event stream. Archive and publisher may both be nil; every ledger
// operation still works, only the side effects are skipped.
type RecordService struct {
	ledger  *ledger.Ledger
	archive Archive
	events  EventPublisher
	codec   codec.Codec

	// archiveIDs mirrors the ledger's record order with the archive id
	// of each record, zero for records that were never archived (for
	// example records loaded from a file).
	mu         sync.Mutex
	archiveIDs []int64
}

func NewRecordService(l *ledger.Ledger, archive Archive, events EventPublisher, c codec.Codec) *RecordService {
	return &RecordService{
		ledger:  l,
		archive: archive,
		events:  events,
		codec:   c,
	}
}

// CreateRecord builds a record, appends it to the ledger and archives
// it. The ledger append always succeeds; archive or publish failures are
// logged and do not fail the operation (the record is already tracked).
func (s *RecordService) CreateRecord(ctx context.Context, amount core.Money, user, description string, category core.Category) (core.Record, error) {
	if err := amount.Validate(); err != nil {
		return core.Record{}, fmt.Errorf("create record: %w", err)
	}

	rec := core.NewRecord(amount, user, description, category)
	s.ledger.Add(rec)

	var id int64
	if s.archive != nil {
		var err error
		id, err = s.archive.Append(ctx, rec)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to archive record", "user", user, "error", err)
			id = 0
		}
	}

	s.mu.Lock()
	s.archiveIDs = append(s.archiveIDs, id)
	s.mu.Unlock()

	if id != 0 {
		s.publish(ctx, amqp.NewRecordCreated(id))
	}

	return rec, nil
}

// RemoveRecord removes the record at index from the ledger, mirroring
// the removal into the archive when the record was archived.
func (s *RecordService) RemoveRecord(ctx context.Context, index int) error {
	if err := s.ledger.RemoveAt(index); err != nil {
		return err
	}

	s.mu.Lock()
	var id int64
	if index >= 0 && index < len(s.archiveIDs) {
		id = s.archiveIDs[index]
		s.archiveIDs = append(s.archiveIDs[:index], s.archiveIDs[index+1:]...)
	}
	s.mu.Unlock()

	if id != 0 && s.archive != nil {
		if err := s.archive.Delete(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to delete archived record", "id", id, "error", err)
		} else {
			s.publish(ctx, amqp.NewRecordDeleted(id))
		}
	}
	return nil
}

// ListRecords returns the ledger's records in insertion order.
func (s *RecordService) ListRecords() []core.Record {
	return s.ledger.Records()
}

// Overview aggregates totals over the current records.
func (s *RecordService) Overview() core.Overview {
	return s.ledger.Overview()
}

// SaveFile writes the ledger's records to path through the codec.
func (s *RecordService) SaveFile(ctx context.Context, path string) error {
	records := s.ledger.Records()
	if err := s.codec.Save(path, records); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Ledger saved", "path", path, "records", len(records))
	return nil
}

// LoadFile parses path and replaces the ledger's records. On any parse
// or I/O failure the ledger keeps its previous records. Records loaded
// from a file carry no archive id.
func (s *RecordService) LoadFile(ctx context.Context, path string) error {
	records, err := s.codec.Load(path)
	if err != nil {
		return err
	}
	s.ledger.ReplaceRecords(records)

	s.mu.Lock()
	s.archiveIDs = make([]int64, len(records))
	s.mu.Unlock()

	slog.InfoContext(ctx, "Ledger loaded", "path", path, "records", len(records))
	return nil
}

// SetLimits replaces the configured spending thresholds.
func (s *RecordService) SetLimits(daily, weekly, monthly core.Money) {
	s.ledger.SetLimits(daily, weekly, monthly)
}

// Limits returns the configured spending thresholds.
func (s *RecordService) Limits() ledger.Limits {
	return s.ledger.Limits()
}

// AddUser registers the identifier, mirroring into the archive.
func (s *RecordService) AddUser(ctx context.Context, id string) {
	s.ledger.AddUser(id)
	if s.archive != nil {
		if err := s.archive.AddUser(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to archive user", "user", id, "error", err)
		}
	}
}

// RemoveUser discards the identifier, mirroring into the archive.
// Removing an unknown user is a no-op.
func (s *RecordService) RemoveUser(ctx context.Context, id string) {
	s.ledger.RemoveUser(id)
	if s.archive != nil {
		if err := s.archive.RemoveUser(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to remove archived user", "user", id, "error", err)
		}
	}
}

// Users returns the registered identifiers in sorted order.
func (s *RecordService) Users() []string {
	return s.ledger.Users()
}

func (s *RecordService) publish(ctx context.Context, event *amqp.RecordEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishRecordEvent(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish record event",
			"kind", event.Kind, "id", event.ID, "error", err)
	}
}

// Close closes the archive and event stream connections.
func (s *RecordService) Close() error {
	var errs []error

	if s.archive != nil {
		if err := s.archive.Close(); err != nil {
			errs = append(errs, fmt.Errorf("archive: %w", err))
		}
	}
	if s.events != nil {
		if err := s.events.Close(); err != nil {
			errs = append(errs, fmt.Errorf("events: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close record service: %v", errs)
	}
	return nil
}
