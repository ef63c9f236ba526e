package booking

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot is the public projection of a booking carried inside lifecycle
// events and query responses.
type Snapshot struct {
	ID                 uuid.UUID `json:"id"`
	PropertyID         uuid.UUID `json:"property_id"`
	TenantID           uuid.UUID `json:"tenant_id"`
	StartDate          time.Time `json:"start_date"`
	EndDate            time.Time `json:"end_date"`
	Status             Status    `json:"status"`
	TenantWallet       string    `json:"tenant_wallet_address"`
	PricePerNightCents int64     `json:"price_per_night_cents"`
	TotalPriceCents    int64     `json:"total_price_cents"`
	Currency           string    `json:"currency"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (b *Booking) ToSnapshot() Snapshot {
	return Snapshot{
		ID:                 b.id,
		PropertyID:         b.propertyID,
		TenantID:           b.tenantID,
		StartDate:          b.stay.Start(),
		EndDate:            b.stay.End(),
		Status:             b.status,
		TenantWallet:       b.tenantWallet,
		PricePerNightCents: b.pricePerNightCents,
		TotalPriceCents:    b.totalPriceCents,
		Currency:           b.currency,
		CreatedAt:          b.createdAt,
		UpdatedAt:          b.updatedAt,
	}
}

// Event is an immutable fact emitted on every transition. Delivery is
// at-least-once; consumers dedupe on (BookingID, NewStatus).
type Event struct {
	BookingID      uuid.UUID `json:"booking_id"`
	PropertyID     uuid.UUID `json:"property_id"`
	TenantID       uuid.UUID `json:"tenant_id"`
	PreviousStatus Status    `json:"previous_status"`
	NewStatus      Status    `json:"new_status"`
	RefundRequired bool      `json:"refund_required"`
	Booking        Snapshot  `json:"booking"`
	OccurredAt     time.Time `json:"occurred_at"`
}

func NewEvent(b *Booking, previous Status, refundRequired bool, occurredAt time.Time) Event {
	return Event{
		BookingID:      b.ID(),
		PropertyID:     b.PropertyID(),
		TenantID:       b.TenantID(),
		PreviousStatus: previous,
		NewStatus:      b.Status(),
		RefundRequired: refundRequired,
		Booking:        b.ToSnapshot(),
		OccurredAt:     occurredAt,
	}
}

// RoutingKey derives the topic routing key from the new status.
func (e Event) RoutingKey() string {
	switch e.NewStatus {
	case StatusAwaitingPayment:
		return "booking.created"
	case StatusConfirmed:
		return "booking.confirmed"
	case StatusCancelled:
		return "booking.cancelled"
	case StatusExpired:
		return "booking.expired"
	default:
		return "booking.unknown"
	}
}

// MessageID keys duplicate detection for at-least-once consumers.
func (e Event) MessageID() string {
	return e.BookingID.String() + ":" + string(e.NewStatus)
}
