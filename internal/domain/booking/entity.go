package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNonPositivePrice = errors.New("price per night must be positive")
	ErrEmptyCurrency    = errors.New("currency is required")
	ErrEmptyWallet      = errors.New("tenant wallet address is required")
)

// PriceSnapshot is the catalog price captured at creation time. It is
// write-once: later catalog changes never alter an existing booking.
type PriceSnapshot struct {
	PricePerNightCents int64
	Currency           string
}

// Booking is the aggregate root of the reservation lifecycle. All mutation
// goes through Confirm/Cancel/Expire, which enforce the transition table;
// everything else is a creation-time snapshot.
type Booking struct {
	id                 uuid.UUID
	propertyID         uuid.UUID
	tenantID           uuid.UUID
	stay               StayPeriod
	status             Status
	tenantWallet       string
	pricePerNightCents int64
	totalPriceCents    int64
	currency           string
	version            int64
	createdAt          time.Time
	updatedAt          time.Time
}

func NewBooking(
	propertyID, tenantID uuid.UUID,
	stay StayPeriod,
	price PriceSnapshot,
	tenantWallet string,
	now time.Time,
) (*Booking, error) {
	if price.PricePerNightCents <= 0 {
		return nil, ErrNonPositivePrice
	}
	if price.Currency == "" {
		return nil, ErrEmptyCurrency
	}
	if tenantWallet == "" {
		return nil, ErrEmptyWallet
	}

	return &Booking{
		id:                 uuid.New(),
		propertyID:         propertyID,
		tenantID:           tenantID,
		stay:               stay,
		status:             StatusAwaitingPayment,
		tenantWallet:       tenantWallet,
		pricePerNightCents: price.PricePerNightCents,
		totalPriceCents:    price.PricePerNightCents * stay.Nights(),
		currency:           price.Currency,
		version:            1,
		createdAt:          now,
		updatedAt:          now,
	}, nil
}

func Reconstruct(
	id, propertyID, tenantID uuid.UUID,
	stay StayPeriod,
	status Status,
	tenantWallet string,
	pricePerNightCents, totalPriceCents int64,
	currency string,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:                 id,
		propertyID:         propertyID,
		tenantID:           tenantID,
		stay:               stay,
		status:             status,
		tenantWallet:       tenantWallet,
		pricePerNightCents: pricePerNightCents,
		totalPriceCents:    totalPriceCents,
		currency:           currency,
		version:            version,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

// Confirm moves AWAITING_PAYMENT to CONFIRMED. Only the trusted
// payment-completion path may call this; any other current status is an
// invalid transition.
func (b *Booking) Confirm(now time.Time) error {
	if b.status != StatusAwaitingPayment {
		return ErrInvalidTransition
	}
	b.status = StatusConfirmed
	b.updatedAt = now
	return nil
}

// Cancel moves the booking to CANCELLED. Cancelling a CONFIRMED booking is
// allowed but reports refundRequired so a downstream refund workflow can
// react; this service never performs refunds itself.
func (b *Booking) Cancel(now time.Time) (refundRequired bool, err error) {
	switch b.status {
	case StatusCancelled:
		return false, ErrAlreadyCancelled
	case StatusExpired:
		return false, ErrAlreadyExpired
	case StatusConfirmed:
		refundRequired = true
	}
	b.status = StatusCancelled
	b.updatedAt = now
	return refundRequired, nil
}

// Expire force-moves an abandoned AWAITING_PAYMENT booking to EXPIRED once
// it is at least threshold old. Concurrent confirm/cancel winners surface
// as ErrInvalidTransition, which callers treat as a no-op.
func (b *Booking) Expire(now time.Time, threshold time.Duration) error {
	if b.status != StatusAwaitingPayment {
		return ErrInvalidTransition
	}
	if now.Sub(b.createdAt) < threshold {
		return ErrNotYetExpirable
	}
	b.status = StatusExpired
	b.updatedAt = now
	return nil
}

func (b *Booking) ID() uuid.UUID               { return b.id }
func (b *Booking) PropertyID() uuid.UUID       { return b.propertyID }
func (b *Booking) TenantID() uuid.UUID         { return b.tenantID }
func (b *Booking) Stay() StayPeriod            { return b.stay }
func (b *Booking) Status() Status              { return b.status }
func (b *Booking) TenantWallet() string        { return b.tenantWallet }
func (b *Booking) PricePerNightCents() int64   { return b.pricePerNightCents }
func (b *Booking) TotalPriceCents() int64      { return b.totalPriceCents }
func (b *Booking) Currency() string            { return b.currency }
func (b *Booking) Version() int64              { return b.version }
func (b *Booking) CreatedAt() time.Time        { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time        { return b.updatedAt }
