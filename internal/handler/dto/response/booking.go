package response

import (
	"time"

	"rental-booking/internal/domain/booking"
	"rental-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type BookingResponse struct {
	ID                 uuid.UUID `json:"id"`
	PropertyID         uuid.UUID `json:"property_id"`
	TenantID           uuid.UUID `json:"tenant_id"`
	StartDate          string    `json:"start_date"`
	EndDate            string    `json:"end_date"`
	Status             string    `json:"status"`
	TenantWallet       string    `json:"tenant_wallet_address"`
	PricePerNightCents int64     `json:"price_per_night_cents"`
	TotalPriceCents    int64     `json:"total_price_cents"`
	Currency           string    `json:"currency"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func FromSnapshot(s *booking.Snapshot) BookingResponse {
	return BookingResponse{
		ID:                 s.ID,
		PropertyID:         s.PropertyID,
		TenantID:           s.TenantID,
		StartDate:          s.StartDate.Format(dateLayout),
		EndDate:            s.EndDate.Format(dateLayout),
		Status:             string(s.Status),
		TenantWallet:       s.TenantWallet,
		PricePerNightCents: s.PricePerNightCents,
		TotalPriceCents:    s.TotalPriceCents,
		Currency:           s.Currency,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

func FromView(v *queries.BookingView) BookingResponse {
	return BookingResponse{
		ID:                 v.ID,
		PropertyID:         v.PropertyID,
		TenantID:           v.TenantID,
		StartDate:          v.StartDate.Format(dateLayout),
		EndDate:            v.EndDate.Format(dateLayout),
		Status:             v.Status,
		TenantWallet:       v.TenantWallet,
		PricePerNightCents: v.PricePerNightCents,
		TotalPriceCents:    v.TotalPriceCents,
		Currency:           v.Currency,
		CreatedAt:          v.CreatedAt,
		UpdatedAt:          v.UpdatedAt,
	}
}

func FromViews(views []*queries.BookingView) []BookingResponse {
	out := make([]BookingResponse, 0, len(views))
	for _, v := range views {
		out = append(out, FromView(v))
	}
	return out
}

type PropertyBookingCountResponse struct {
	PropertyID uuid.UUID `json:"property_id"`
	Count      int64     `json:"count"`
}

func FromPropertyCounts(counts []*queries.PropertyBookingCount) []PropertyBookingCountResponse {
	out := make([]PropertyBookingCountResponse, 0, len(counts))
	for _, c := range counts {
		out = append(out, PropertyBookingCountResponse{PropertyID: c.PropertyID, Count: c.Count})
	}
	return out
}
