package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/inkinno/projects/internal/ports"
)

// OutboxWorker relays committed outbox rows to the event publisher.
type OutboxWorker struct {
	logger     *slog.Logger
	outbox     ports.OutboxRepository
	publisher  ports.EventPublisher
	interval   time.Duration
	batchSize  int
	claimTTL   time.Duration
	maxRetries int
	nowFn      func() time.Time
}

func NewOutboxWorker(
	logger *slog.Logger,
	outbox ports.OutboxRepository,
	publisher ports.EventPublisher,
	interval time.Duration,
	batchSize int,
	claimTTL time.Duration,
	maxRetries int,
) *OutboxWorker {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	if claimTTL <= 0 {
		claimTTL = 30 * time.Second
	}
	if maxRetries <= 0 {
		maxRetries = 5
	}
	return &OutboxWorker{
		logger:     logger,
		outbox:     outbox,
		publisher:  publisher,
		interval:   interval,
		batchSize:  batchSize,
		claimTTL:   claimTTL,
		maxRetries: maxRetries,
		nowFn:      func() time.Time { return time.Now().UTC() },
	}
}

// Run publishes pending records every interval until ctx is cancelled.
func (w *OutboxWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if _, err := w.ProcessOnce(ctx); err != nil {
			w.logger.ErrorContext(ctx, "outbox iteration failed",
				"module", "events.outbox_worker",
				"layer", "adapter",
				"operation", "outbox_process_once",
				"outcome", "failure",
				"error", err,
			)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// ProcessOnce claims and publishes a single batch and returns how many records were
// delivered. Records stay leased to this batch until claimTTL passes.
func (w *OutboxWorker) ProcessOnce(ctx context.Context) (int, error) {
	claimToken := uuid.NewString()
	records, err := w.outbox.ClaimUnpublished(ctx, w.batchSize, w.maxRetries, claimToken, w.nowFn().Add(w.claimTTL))
	if err != nil {
		return 0, err
	}

	published := 0
	failed := 0
	for _, rec := range records {
		now := w.nowFn()
		if err := w.publisher.Publish(ctx, rec.EventType, rec.Payload, rec.PartitionKey); err != nil {
			failed++
			attempts := rec.RetryCount + 1
			level := slog.LevelWarn
			msg := "outbox publish failed; retry scheduled"
			if attempts >= w.maxRetries {
				level = slog.LevelError
				msg = "outbox publish abandoned after max retries"
			}
			w.logger.Log(ctx, level, msg,
				"module", "events.outbox_worker",
				"layer", "adapter",
				"operation", "publish_event",
				"outcome", "failure",
				"outbox_id", rec.OutboxID,
				"event_type", rec.EventType,
				"payload_bytes", len(rec.Payload),
				"retry_count", attempts,
				"error", err,
			)
			if markErr := w.outbox.MarkFailed(ctx, rec.OutboxID, claimToken, err.Error(), now); markErr != nil {
				return published, markErr
			}
			continue
		}
		if err := w.outbox.MarkPublished(ctx, rec.OutboxID, claimToken, now); err != nil {
			return published, err
		}
		published++
	}
	if len(records) > 0 {
		w.logger.InfoContext(ctx, "outbox batch processed",
			"module", "events.outbox_worker",
			"layer", "adapter",
			"operation", "outbox_process_once",
			"outcome", "success",
			"batch_size", len(records),
			"published_count", published,
			"failed_count", failed,
		)
	}
	return published, nil
}
