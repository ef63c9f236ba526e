package bootstrap

import (
	"context"
	"log/slog"

	"rental-booking/internal/worker"

	"go.uber.org/fx"
)

// registerWorkers ties the reaper and the outbox relay to the app lifecycle:
// both loops stop when their context is cancelled on shutdown.
func registerWorkers(
	lc fx.Lifecycle,
	reaper *worker.Reaper,
	relay *worker.OutboxRelay,
	logger *slog.Logger,
) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{}, 2)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer func() { done <- struct{}{} }()
				reaper.Run(ctx)
			}()
			go func() {
				defer func() { done <- struct{}{} }()
				relay.Run(ctx)
			}()
			logger.Info("background workers started")
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			for i := 0; i < 2; i++ {
				select {
				case <-done:
				case <-stopCtx.Done():
					return stopCtx.Err()
				}
			}
			logger.Info("background workers stopped")
			return nil
		},
	})
}
