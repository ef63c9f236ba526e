package request

import (
	"time"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type CreateBookingRequest struct {
	PropertyID uuid.UUID `json:"property_id" binding:"required"`
	StartDate  string    `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate    string    `json:"end_date" binding:"required,datetime=2006-01-02"`
}

// Dates returns the stay boundaries as date-only UTC instants.
func (r CreateBookingRequest) Dates() (start, end time.Time, err error) {
	start, err = time.ParseInLocation(dateLayout, r.StartDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err = time.ParseInLocation(dateLayout, r.EndDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}
