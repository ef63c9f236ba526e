package shared

import (
	"context"
	"time"

	"rental-booking/internal/domain/booking"

	"github.com/google/uuid"
)

// UnitOfWork runs fn inside a single database transaction. Serialization
// failures and deadlocks are retried with backoff before surfacing.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx exposes the write-side repositories bound to the open transaction, so
// that a booking write and its outbox event commit or roll back together.
type Tx interface {
	Bookings() BookingRepository
	Outbox() OutboxRepository
}

type BookingRepository interface {
	// CreateIfAvailable acquires the per-property overlap barrier, re-checks
	// that no blocking booking overlaps the stay, and inserts. An overlap is
	// reported as a CONFLICT repository error.
	CreateIfAvailable(ctx context.Context, b *booking.Booking) error

	FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)

	// UpdateStatus persists a transition with a compare-and-swap on the row
	// version. A concurrent writer having moved the row first is reported as
	// a CONFLICT repository error.
	UpdateStatus(ctx context.Context, b *booking.Booking) error

	// FindStalePending lists AWAITING_PAYMENT bookings created before cutoff,
	// oldest first, for the expiration reaper.
	FindStalePending(ctx context.Context, cutoff time.Time, limit int) ([]uuid.UUID, error)
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, ev booking.Event) error
}
