package booking

import "errors"

var (
	ErrInvalidStatus     = errors.New("invalid booking status")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrAlreadyCancelled  = errors.New("booking is already cancelled")
	ErrAlreadyExpired    = errors.New("booking has expired")
	ErrNotYetExpirable   = errors.New("booking has not reached the expiration threshold")
)

// Status is the booking lifecycle state. AwaitingPayment is the only initial
// state; Cancelled and Expired are terminal; Confirmed admits exactly one
// further transition (cancel).
type Status string

const (
	StatusAwaitingPayment Status = "AWAITING_PAYMENT"
	StatusConfirmed       Status = "CONFIRMED"
	StatusCancelled       Status = "CANCELLED"
	StatusExpired         Status = "EXPIRED"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusAwaitingPayment, StatusConfirmed, StatusCancelled, StatusExpired:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

// Blocking reports whether a booking in this status holds its date range
// against new bookings on the same property.
func (s Status) Blocking() bool {
	return s == StatusAwaitingPayment || s == StatusConfirmed
}

func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusExpired
}

func (s Status) String() string {
	return string(s)
}
