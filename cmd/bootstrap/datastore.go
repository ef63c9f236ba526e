package bootstrap

import (
	"context"
	"log/slog"

	"rental-booking/internal/infra/db"
	"rental-booking/internal/infra/mq"
	"rental-booking/internal/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

func providePool(lc fx.Lifecycle, cfg config.DBConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	pool, cleanup, err := db.Connect(cfg)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			cleanup()
			logger.Info("database pool closed")
			return nil
		},
	})
	return pool, nil
}

func providePublisher(lc fx.Lifecycle, cfg config.MQConfig, logger *slog.Logger) (*mq.Publisher, error) {
	publisher, err := mq.NewPublisher(cfg)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := publisher.Close(); err != nil {
				logger.Warn("failed to close message broker connection", "error", err.Error())
			}
			return nil
		},
	})
	return publisher, nil
}
