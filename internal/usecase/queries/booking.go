package queries

import (
	"context"
	"time"

	"rental-booking/internal/infra"
	"rental-booking/internal/pkg/clock"
	"rental-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrBookingNotFound = errs.New("booking not found")

// BookingView is the public read projection; internal-only fields (row
// version, outbox bookkeeping) never leave the query surface.
type BookingView struct {
	ID                 uuid.UUID `json:"id"`
	PropertyID         uuid.UUID `json:"property_id"`
	TenantID           uuid.UUID `json:"tenant_id"`
	StartDate          time.Time `json:"start_date"`
	EndDate            time.Time `json:"end_date"`
	Status             string    `json:"status"`
	TenantWallet       string    `json:"tenant_wallet_address"`
	PricePerNightCents int64     `json:"price_per_night_cents"`
	TotalPriceCents    int64     `json:"total_price_cents"`
	Currency           string    `json:"currency"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// PropertyBookingCount supports the catalog collaboration contract: the
// catalog enumerates a host's property ids, we answer with counts of future
// blocking bookings per property.
type PropertyBookingCount struct {
	PropertyID uuid.UUID `json:"property_id"`
	Count      int64     `json:"count"`
}

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]*BookingView, error)
	CountFutureBlocking(ctx context.Context, propertyIDs []uuid.UUID, from time.Time) ([]*PropertyBookingCount, error)
}

type BookingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*BookingView, error)
	CountFutureByProperty(ctx context.Context, propertyIDs []uuid.UUID) ([]*PropertyBookingCount, error)
}

type bookingQueriesImpl struct {
	store BookingReadStore
	clock clock.Clock
}

func NewBookingQueries(store BookingReadStore, clk clock.Clock) BookingQueries {
	return &bookingQueriesImpl{store: store, clock: clk}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *bookingQueriesImpl) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*BookingView, error) {
	return q.store.FindByTenant(ctx, tenantID)
}

func (q *bookingQueriesImpl) CountFutureByProperty(ctx context.Context, propertyIDs []uuid.UUID) ([]*PropertyBookingCount, error) {
	return q.store.CountFutureBlocking(ctx, propertyIDs, q.clock.Now())
}
