// Package worker exports archived records to a running CSV file. It
// consumes record events from AMQP and keeps a periodic sweep as a
// backup for lost messages.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	"fintrack/internal/codec"
	"fintrack/internal/core"
)

// RecordSource is the archive surface the worker reads from.
type RecordSource interface {
	Get(ctx context.Context, id int64) (core.Record, error)
	PendingExport(ctx context.Context, limit int) ([]int64, error)
	MarkExported(ctx context.Context, id int64) error
	MarkExportError(ctx context.Context, id int64) error
}

// EventConsumer delivers record events to a handler until the context is
// cancelled.
type EventConsumer interface {
	ConsumeRecordEvents(ctx context.Context, handler func(*amqp.RecordEvent) error) error
}

// ExportWorker appends archived records to the export CSV file.
type ExportWorker struct {
	store      RecordSource
	codec      codec.Codec
	exportFile string
	batchSize  int
}

func NewExportWorker(store RecordSource, c codec.Codec, exportFile string, batchSize int) *ExportWorker {
	return &ExportWorker{
		store:      store,
		codec:      c,
		exportFile: exportFile,
		batchSize:  batchSize,
	}
}

// HandleEvent processes a single record event. Creation events export
// the record; deletion events are informational only, the export file is
// an append-only journal.
func (w *ExportWorker) HandleEvent(ctx context.Context, event *amqp.RecordEvent) error {
	switch event.Kind {
	case amqp.EventRecordCreated:
		return w.exportRecord(ctx, event.ID)
	case amqp.EventRecordDeleted:
		slog.InfoContext(ctx, "Record deleted upstream, export journal keeps its row", "id", event.ID)
		return nil
	default:
		slog.WarnContext(ctx, "Ignoring unknown event kind", "kind", event.Kind, "id", event.ID)
		return nil
	}
}

// ProcessPending exports records whose events were missed. Failures are
// logged per record so one bad row does not stall the sweep.
func (w *ExportWorker) ProcessPending(ctx context.Context) error {
	ids, err := w.store.PendingExport(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending records: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending exports", "count", len(ids))

	for _, id := range ids {
		if err := w.exportRecord(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to export record", "id", id, "error", err)
		}
	}
	return nil
}

// Run consumes events and sweeps for pending records until the context
// is cancelled.
func (w *ExportWorker) Run(ctx context.Context, consumer EventConsumer, sweepInterval time.Duration) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := consumer.ConsumeRecordEvents(ctx, func(ev *amqp.RecordEvent) error {
			return w.HandleEvent(ctx, ev)
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if err := w.ProcessPending(ctx); err != nil {
					slog.ErrorContext(ctx, "Pending sweep failed", "error", err)
				}
			}
		}
	})

	return g.Wait()
}

func (w *ExportWorker) exportRecord(ctx context.Context, id int64) error {
	rec, err := w.store.Get(ctx, id)
	if err != nil {
		if markErr := w.store.MarkExportError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark export error", "id", id, "error", markErr)
		}
		return fmt.Errorf("get record %d: %w", id, err)
	}

	if err := w.codec.AppendRecord(w.exportFile, rec); err != nil {
		if markErr := w.store.MarkExportError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark export error", "id", id, "error", markErr)
		}
		return fmt.Errorf("append record %d to export: %w", id, err)
	}

	if err := w.store.MarkExported(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to mark as exported", "id", id, "error", err)
		// The row is in the export file; don't fail the event.
	}

	slog.InfoContext(ctx, "Record exported",
		"id", id,
		"file", w.exportFile,
		"user", rec.User,
		"amount_cents", rec.Amount.Cents)

	return nil
}
