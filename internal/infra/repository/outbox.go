package repository

import (
	"context"
	"encoding/json"

	"rental-booking/internal/domain/booking"
	"rental-booking/internal/infra"
	"rental-booking/internal/infra/db"
)

// OutboxRepository stores lifecycle events in the same transaction as the
// booking write, so a crash between persist and publish never leaves a
// booking without its event. The relay drains unpublished rows.
type OutboxRepository struct {
	db db.DBTX
}

func NewOutboxRepository(dbtx db.DBTX) *OutboxRepository {
	return &OutboxRepository{db: dbtx}
}

func (r *OutboxRepository) Enqueue(ctx context.Context, ev booking.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return infra.WrapRepoErr("failed to serialize lifecycle event", err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO booking_events (booking_id, routing_key, message_id, payload, occurred_at)
		VALUES ($1, $2, $3, $4, $5)`,
		ev.BookingID, ev.RoutingKey(), ev.MessageID(), payload, ev.OccurredAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to enqueue lifecycle event", err)
	}
	return nil
}

// PendingEvent is an outbox row awaiting publication.
type PendingEvent struct {
	ID         int64
	BookingID  string
	RoutingKey string
	MessageID  string
	Payload    []byte
}

// FetchPending returns unpublished events in insertion order, which keeps
// per-booking publication order best-effort FIFO. Concurrent relays may
// fetch the same rows; delivery is at-least-once and consumers dedupe on
// the message id.
func (r *OutboxRepository) FetchPending(ctx context.Context, limit int) ([]PendingEvent, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, booking_id::text, routing_key, message_id, payload
		FROM booking_events
		WHERE published_at IS NULL
		ORDER BY id
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to fetch pending events", err)
	}
	defer rows.Close()

	var events []PendingEvent
	for rows.Next() {
		var ev PendingEvent
		if err := rows.Scan(&ev.ID, &ev.BookingID, &ev.RoutingKey, &ev.MessageID, &ev.Payload); err != nil {
			return nil, infra.WrapRepoErr("failed to scan pending event", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate pending events", err)
	}
	return events, nil
}

func (r *OutboxRepository) MarkPublished(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx,
		`UPDATE booking_events SET published_at = now() WHERE id = ANY($1)`,
		ids,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to mark events published", err)
	}
	return nil
}
