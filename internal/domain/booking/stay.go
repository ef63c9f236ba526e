package booking

import (
	"errors"
	"time"
)

var (
	ErrStartDateInPast  = errors.New("start date cannot be in the past")
	ErrEndNotAfterStart = errors.New("end date must be after start date")
)

// StayPeriod is a date-only [start, end) range. Check-out day is excluded,
// so back-to-back stays on the same property do not overlap.
type StayPeriod struct {
	start time.Time
	end   time.Time
}

// NewStayPeriod validates a requested stay against the booking calendar:
// start must not be before today and the stay must cover at least one night.
func NewStayPeriod(start, end, today time.Time) (StayPeriod, error) {
	start = truncateToDate(start)
	end = truncateToDate(end)

	if start.Before(truncateToDate(today)) {
		return StayPeriod{}, ErrStartDateInPast
	}
	if !end.After(start) {
		return StayPeriod{}, ErrEndNotAfterStart
	}
	return StayPeriod{start: start, end: end}, nil
}

// ReconstructStayPeriod rehydrates a stored period without calendar checks;
// persisted rows stay valid even after their start date has passed.
func ReconstructStayPeriod(start, end time.Time) StayPeriod {
	return StayPeriod{start: truncateToDate(start), end: truncateToDate(end)}
}

func (p StayPeriod) Start() time.Time { return p.start }
func (p StayPeriod) End() time.Time   { return p.end }

func (p StayPeriod) Nights() int64 {
	return int64(p.end.Sub(p.start).Hours() / 24)
}

// Overlaps implements the half-open range test:
// newStart < existingEnd AND newEnd > existingStart.
func (p StayPeriod) Overlaps(other StayPeriod) bool {
	return p.start.Before(other.end) && p.end.After(other.start)
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
