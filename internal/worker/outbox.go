package worker

import (
	"context"
	"log/slog"
	"time"

	"rental-booking/internal/infra/repository"
	"rental-booking/internal/pkg/config"
)

type OutboxStore interface {
	FetchPending(ctx context.Context, limit int) ([]repository.PendingEvent, error)
	MarkPublished(ctx context.Context, ids []int64) error
}

type EventPublisher interface {
	Publish(ctx context.Context, routingKey, messageID string, body []byte) error
}

// OutboxRelay drains the transactional outbox into the message broker.
// A row is marked published only after the broker accepted it, so a crash
// mid-batch redelivers rather than drops (at-least-once).
type OutboxRelay struct {
	store     OutboxStore
	publisher EventPublisher
	cfg       config.OutboxConfig
	logger    *slog.Logger
}

func NewOutboxRelay(
	store OutboxStore,
	publisher EventPublisher,
	cfg config.OutboxConfig,
	logger *slog.Logger,
) *OutboxRelay {
	return &OutboxRelay{
		store:     store,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
	}
}

// Run blocks until ctx is cancelled.
func (r *OutboxRelay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.RunOnce(ctx); err != nil {
				r.logger.Error("outbox relay cycle failed", "error", err.Error())
			}
		}
	}
}

// RunOnce publishes one batch and returns how many events went out. A
// publish failure stops the batch; rows already accepted by the broker are
// still marked so they are not re-sent on the next tick.
func (r *OutboxRelay) RunOnce(ctx context.Context) (int, error) {
	pending, err := r.store.FetchPending(ctx, r.cfg.BatchSize)
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}

	published := make([]int64, 0, len(pending))
	var publishErr error
	for _, ev := range pending {
		if err := r.publisher.Publish(ctx, ev.RoutingKey, ev.MessageID, ev.Payload); err != nil {
			publishErr = err
			r.logger.Error("failed to publish event, will retry",
				"event_id", ev.ID,
				"routing_key", ev.RoutingKey,
				"error", err.Error(),
			)
			break
		}
		published = append(published, ev.ID)
	}

	if err := r.store.MarkPublished(ctx, published); err != nil {
		return len(published), err
	}
	return len(published), publishErr
}
