package repository

import (
	"context"
	"errors"
	"time"

	"rental-booking/internal/domain/booking"
	"rental-booking/internal/infra"
	"rental-booking/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(dbtx db.DBTX) *BookingRepository {
	return &BookingRepository{db: dbtx}
}

// CreateIfAvailable implements the overlap barrier. The advisory lock is
// transaction-scoped and keyed by property id, so the overlap query and the
// insert are atomic with respect to other bookings on the same property,
// while bookings on different properties proceed in parallel. Must run
// inside a transaction.
func (r *BookingRepository) CreateIfAvailable(ctx context.Context, b *booking.Booking) error {
	_, err := r.db.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`,
		b.PropertyID(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to acquire property lock", err)
	}

	var overlaps bool
	err = r.db.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE property_id = $1
			  AND status IN ('AWAITING_PAYMENT', 'CONFIRMED')
			  AND start_date < $3
			  AND end_date > $2
		)`,
		b.PropertyID(), b.Stay().Start(), b.Stay().End(),
	).Scan(&overlaps)
	if err != nil {
		return infra.WrapRepoErr("failed to check availability", err)
	}
	if overlaps {
		return infra.WrapRepoErr("overlapping booking exists", nil, infra.KindConflict)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO bookings (
			id, property_id, tenant_id, start_date, end_date, status,
			tenant_wallet_address, price_per_night_cents, total_price_cents,
			currency, version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		b.ID(), b.PropertyID(), b.TenantID(),
		b.Stay().Start(), b.Stay().End(), b.Status().String(),
		b.TenantWallet(), b.PricePerNightCents(), b.TotalPriceCents(),
		b.Currency(), b.Version(), b.CreatedAt(), b.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert booking", err)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, property_id, tenant_id, start_date, end_date, status,
			tenant_wallet_address, price_per_night_cents, total_price_cents,
			currency, version, created_at, updated_at
		FROM bookings WHERE id = $1`,
		id,
	)
	entity, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}
	return entity, nil
}

// UpdateStatus is the single write path for every transition (confirm,
// cancel, expire). The version CAS guarantees only one concurrent writer
// wins; the loser sees a CONFLICT.
func (r *BookingRepository) UpdateStatus(ctx context.Context, b *booking.Booking) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE bookings
		SET status = $2, version = version + 1, updated_at = $3
		WHERE id = $1 AND version = $4`,
		b.ID(), b.Status().String(), b.UpdatedAt(), b.Version(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking was modified concurrently", nil, infra.KindConflict)
	}
	return nil
}

func (r *BookingRepository) FindStalePending(ctx context.Context, cutoff time.Time, limit int) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id FROM bookings
		WHERE status = 'AWAITING_PAYMENT' AND created_at < $1
		ORDER BY created_at
		LIMIT $2`,
		cutoff, limit,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan stale bookings", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan stale booking id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate stale bookings", err)
	}
	return ids, nil
}

func scanBooking(row pgx.Row) (*booking.Booking, error) {
	var (
		id, propertyID, tenantID           uuid.UUID
		startDate, endDate                 time.Time
		status                             string
		wallet, currency                   string
		pricePerNightCents, totalCents     int64
		version                            int64
		createdAt, updatedAt               time.Time
	)
	err := row.Scan(
		&id, &propertyID, &tenantID, &startDate, &endDate, &status,
		&wallet, &pricePerNightCents, &totalCents, &currency,
		&version, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	parsed, err := booking.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	return booking.Reconstruct(
		id, propertyID, tenantID,
		booking.ReconstructStayPeriod(startDate, endDate),
		parsed, wallet, pricePerNightCents, totalCents, currency,
		version, createdAt, updatedAt,
	), nil
}
