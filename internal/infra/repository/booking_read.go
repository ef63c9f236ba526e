package repository

import (
	"context"
	"errors"
	"time"

	"rental-booking/internal/infra"
	"rental-booking/internal/infra/db"
	"rental-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BookingReadStore serves the advisory query surface. Overlap answers read
// here must not be relied on for correctness; only CreateIfAvailable's
// barrier is authoritative.
type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: dbtx}
}

const bookingViewColumns = `id, property_id, tenant_id, start_date, end_date, status,
	tenant_wallet_address, price_per_night_cents, total_price_cents,
	currency, created_at, updated_at`

func (s *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+bookingViewColumns+` FROM bookings WHERE id = $1`, id)

	view, err := scanBookingView(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking view", err)
	}
	return view, nil
}

func (s *BookingReadStore) FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]*queries.BookingView, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+bookingViewColumns+` FROM bookings
		WHERE tenant_id = $1
		ORDER BY created_at DESC`,
		tenantID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings by tenant", err)
	}
	defer rows.Close()

	var views []*queries.BookingView
	for rows.Next() {
		view, err := scanBookingView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking view", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking views", err)
	}
	return views, nil
}

func (s *BookingReadStore) CountFutureBlocking(ctx context.Context, propertyIDs []uuid.UUID, from time.Time) ([]*queries.PropertyBookingCount, error) {
	rows, err := s.db.Query(ctx,
		`SELECT property_id, count(*)
		FROM bookings
		WHERE property_id = ANY($1)
		  AND status IN ('AWAITING_PAYMENT', 'CONFIRMED')
		  AND end_date > $2
		GROUP BY property_id`,
		propertyIDs, from,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to count future bookings", err)
	}
	defer rows.Close()

	var counts []*queries.PropertyBookingCount
	for rows.Next() {
		c := &queries.PropertyBookingCount{}
		if err := rows.Scan(&c.PropertyID, &c.Count); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking count", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking counts", err)
	}
	return counts, nil
}

func scanBookingView(row pgx.Row) (*queries.BookingView, error) {
	view := &queries.BookingView{}
	err := row.Scan(
		&view.ID, &view.PropertyID, &view.TenantID,
		&view.StartDate, &view.EndDate, &view.Status,
		&view.TenantWallet, &view.PricePerNightCents, &view.TotalPriceCents,
		&view.Currency, &view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return view, nil
}
