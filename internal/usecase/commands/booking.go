package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"rental-booking/internal/domain/booking"
	"rental-booking/internal/infra"
	"rental-booking/internal/pkg/clock"
	"rental-booking/internal/pkg/errs"
	"rental-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrInvalidRequest        = errs.New("invalid booking request")
	ErrPropertyNotAvailable  = errs.New("property is already booked for the selected dates")
	ErrWalletNotConnected    = errs.New("wallet must be connected before booking")
	ErrPropertyNotFound      = errs.New("property not found")
	ErrInvalidPrice          = errs.New("property does not have a valid price")
	ErrDependencyUnavailable = errs.New("dependency unavailable, retry later")
	ErrBookingNotFound       = errs.New("booking not found")
	ErrInvalidTransition     = errs.New("invalid booking status transition")
	ErrAlreadyCancelled      = errs.New("booking is already cancelled")
	ErrAlreadyExpired        = errs.New("booking has expired")
	ErrPersistenceFailed     = errs.New("persistence operation failed")
)

type CreateBookingInput struct {
	PropertyID uuid.UUID
	StartDate  time.Time
	EndDate    time.Time
}

type BookingCommands interface {
	Create(ctx context.Context, tenantID uuid.UUID, in CreateBookingInput) (*booking.Snapshot, error)
	Confirm(ctx context.Context, bookingID uuid.UUID) (*booking.Snapshot, error)
	Cancel(ctx context.Context, bookingID uuid.UUID) (*booking.Snapshot, error)
}

type bookingCommandsImpl struct {
	uow     shared.UnitOfWork
	wallet  shared.WalletGateway
	pricing shared.PricingGateway
	clock   clock.Clock
	logger  *slog.Logger
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	wallet shared.WalletGateway,
	pricing shared.PricingGateway,
	clk clock.Clock,
	logger *slog.Logger,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:     uow,
		wallet:  wallet,
		pricing: pricing,
		clock:   clk,
		logger:  logger,
	}
}

// Create resolves the wallet and price snapshots first, then enters the
// overlap barrier for the check-and-insert only. External calls must never
// run while the barrier is held, or slow upstreams would serialize every
// booking on the property.
func (c *bookingCommandsImpl) Create(ctx context.Context, tenantID uuid.UUID, in CreateBookingInput) (*booking.Snapshot, error) {
	now := c.clock.Now()

	stay, err := booking.NewStayPeriod(in.StartDate, in.EndDate, now)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidRequest)
	}

	wallet, err := c.wallet.FetchWallet(ctx, tenantID)
	if err != nil {
		return nil, c.mapGatewayErr(err)
	}

	pricing, err := c.pricing.FetchPricing(ctx, in.PropertyID)
	if err != nil {
		return nil, c.mapGatewayErr(err)
	}

	entity, err := booking.NewBooking(
		in.PropertyID,
		tenantID,
		stay,
		booking.PriceSnapshot{PricePerNightCents: pricing.PriceCents, Currency: pricing.Currency},
		wallet.Address,
		now,
	)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidRequest)
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Bookings().CreateIfAvailable(ctx, entity); err != nil {
			return err
		}
		ev := booking.NewEvent(entity, "", false, now)
		return tx.Outbox().Enqueue(ctx, ev)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return nil, ErrPropertyNotAvailable
		}
		return nil, errs.Mark(err, ErrPersistenceFailed)
	}

	c.logger.Info("booking created",
		"booking_id", entity.ID(),
		"property_id", entity.PropertyID(),
		"tenant_id", tenantID,
		"total_price_cents", entity.TotalPriceCents(),
	)
	return snapshotOf(entity), nil
}

// Confirm is reserved for the trusted payment-completion path; the router
// enforces the service role before this is reachable.
func (c *bookingCommandsImpl) Confirm(ctx context.Context, bookingID uuid.UUID) (*booking.Snapshot, error) {
	var snap *booking.Snapshot

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := tx.Bookings().FindByID(ctx, bookingID)
		if err != nil {
			return err
		}

		previous := entity.Status()
		if err := entity.Confirm(c.clock.Now()); err != nil {
			return err
		}
		if err := tx.Bookings().UpdateStatus(ctx, entity); err != nil {
			return err
		}
		if err := tx.Outbox().Enqueue(ctx, booking.NewEvent(entity, previous, false, c.clock.Now())); err != nil {
			return err
		}

		snap = snapshotOf(entity)
		return nil
	})
	if err != nil {
		return nil, c.mapTransitionErr(err)
	}

	c.logger.Info("booking confirmed", "booking_id", bookingID)
	return snap, nil
}

func (c *bookingCommandsImpl) Cancel(ctx context.Context, bookingID uuid.UUID) (*booking.Snapshot, error) {
	var (
		snap           *booking.Snapshot
		refundRequired bool
	)

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := tx.Bookings().FindByID(ctx, bookingID)
		if err != nil {
			return err
		}

		previous := entity.Status()
		refundRequired, err = entity.Cancel(c.clock.Now())
		if err != nil {
			return err
		}
		if err := tx.Bookings().UpdateStatus(ctx, entity); err != nil {
			return err
		}
		if err := tx.Outbox().Enqueue(ctx, booking.NewEvent(entity, previous, refundRequired, c.clock.Now())); err != nil {
			return err
		}

		snap = snapshotOf(entity)
		return nil
	})
	if err != nil {
		return nil, c.mapTransitionErr(err)
	}

	if refundRequired {
		c.logger.Warn("confirmed booking cancelled, refund workflow must react", "booking_id", bookingID)
	} else {
		c.logger.Info("booking cancelled", "booking_id", bookingID)
	}
	return snap, nil
}

func (c *bookingCommandsImpl) mapGatewayErr(err error) error {
	switch {
	case errors.Is(err, shared.ErrWalletNotConnected):
		return ErrWalletNotConnected
	case errors.Is(err, shared.ErrUserNotFound):
		return errs.Mark(err, ErrInvalidRequest)
	case errors.Is(err, shared.ErrPropertyNotFound):
		return ErrPropertyNotFound
	case errors.Is(err, shared.ErrInvalidPrice):
		return ErrInvalidPrice
	case errors.Is(err, shared.ErrDependencyUnavailable):
		return ErrDependencyUnavailable
	default:
		return errs.Mark(err, ErrDependencyUnavailable)
	}
}

func (c *bookingCommandsImpl) mapTransitionErr(err error) error {
	switch {
	case infra.IsKind(err, infra.KindNotFound):
		return ErrBookingNotFound
	case infra.IsKind(err, infra.KindConflict):
		// A concurrent writer won the version CAS; the caller lost a race
		// that was correctly rejected.
		return ErrInvalidTransition
	case errors.Is(err, booking.ErrAlreadyCancelled):
		return ErrAlreadyCancelled
	case errors.Is(err, booking.ErrAlreadyExpired):
		return ErrAlreadyExpired
	case errors.Is(err, booking.ErrInvalidTransition):
		return ErrInvalidTransition
	default:
		return errs.Mark(err, ErrPersistenceFailed)
	}
}

func snapshotOf(b *booking.Booking) *booking.Snapshot {
	s := b.ToSnapshot()
	return &s
}
