// Package worker holds the background loops that run alongside request
// handling: the expiration reaper and the outbox relay.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"rental-booking/internal/domain/booking"
	"rental-booking/internal/infra"
	"rental-booking/internal/pkg/clock"
	"rental-booking/internal/pkg/config"
	"rental-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// StaleScanner lists candidate bookings outside any transaction; the
// authoritative status re-check happens row by row under the version CAS.
type StaleScanner interface {
	FindStalePending(ctx context.Context, cutoff time.Time, limit int) ([]uuid.UUID, error)
}

// Reaper force-expires abandoned AWAITING_PAYMENT bookings. It is safe to
// run concurrently with itself and with user-triggered confirm/cancel: a
// row that moved concurrently is a skipped no-op, never an error.
type Reaper struct {
	uow     shared.UnitOfWork
	scanner StaleScanner
	clock   clock.Clock
	cfg     config.ReaperConfig
	logger  *slog.Logger
}

func NewReaper(
	uow shared.UnitOfWork,
	scanner StaleScanner,
	clk clock.Clock,
	cfg config.ReaperConfig,
	logger *slog.Logger,
) *Reaper {
	return &Reaper{
		uow:     uow,
		scanner: scanner,
		clock:   clk,
		cfg:     cfg,
		logger:  logger,
	}
}

// Run blocks until ctx is cancelled.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.RunOnce(ctx); err != nil {
				r.logger.Error("reaper cycle failed", "error", err.Error())
			}
		}
	}
}

// RunOnce performs a single scan-and-expire cycle and returns how many
// bookings were expired. Individual failures are skip-and-continue; only a
// failed scan aborts the cycle.
func (r *Reaper) RunOnce(ctx context.Context) (int, error) {
	cutoff := r.clock.Now().Add(-r.cfg.ExpireAfter)

	ids, err := r.scanner.FindStalePending(ctx, cutoff, r.cfg.BatchSize)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, id := range ids {
		switch err := r.expireOne(ctx, id); {
		case err == nil:
			expired++
		case errors.Is(err, booking.ErrInvalidTransition),
			errors.Is(err, booking.ErrNotYetExpirable),
			infra.IsKind(err, infra.KindConflict),
			infra.IsKind(err, infra.KindNotFound):
			// Another actor confirmed, cancelled or already expired it.
			r.logger.Debug("skipping booking no longer expirable", "booking_id", id)
		default:
			r.logger.Error("failed to expire booking", "booking_id", id, "error", err.Error())
		}
	}

	if expired > 0 {
		r.logger.Info("expired stale bookings", "count", expired)
	}
	return expired, nil
}

func (r *Reaper) expireOne(ctx context.Context, id uuid.UUID) error {
	return r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := tx.Bookings().FindByID(ctx, id)
		if err != nil {
			return err
		}

		previous := entity.Status()
		now := r.clock.Now()
		if err := entity.Expire(now, r.cfg.ExpireAfter); err != nil {
			return err
		}
		if err := tx.Bookings().UpdateStatus(ctx, entity); err != nil {
			return err
		}
		return tx.Outbox().Enqueue(ctx, booking.NewEvent(entity, previous, false, now))
	})
}
