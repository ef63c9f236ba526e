// Package bootstrap assembles the application with fx: configuration,
// datastore connections, use cases, HTTP surface and background workers.
package bootstrap

import (
	"rental-booking/internal/handler"
	"rental-booking/internal/handler/api"
	"rental-booking/internal/handler/middleware"
	"rental-booking/internal/infra/db"
	"rental-booking/internal/infra/gateway"
	"rental-booking/internal/infra/mq"
	"rental-booking/internal/infra/repository"
	"rental-booking/internal/infra/uow"
	"rental-booking/internal/pkg/clock"
	"rental-booking/internal/pkg/config"
	"rental-booking/internal/pkg/jwt"
	"rental-booking/internal/usecase/commands"
	"rental-booking/internal/usecase/queries"
	"rental-booking/internal/worker"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

func provideSubConfigs(cfg config.Config) (
	config.ServerConfig,
	config.DBConfig,
	config.CORSConfig,
	config.LogConfig,
	config.JWTConfig,
	config.MQConfig,
	config.GatewayConfig,
	config.BreakerConfig,
	config.ReaperConfig,
	config.OutboxConfig,
) {
	return cfg.Server, cfg.DB, cfg.CORS, cfg.Log, cfg.JWT,
		cfg.MQ, cfg.Gateway, cfg.Breaker, cfg.Reaper, cfg.Outbox
}

var Module = fx.Options(
	fx.Provide(
		config.LoadConfig,
		provideSubConfigs,
		NewLogger,
		clock.NewRealClock,
		jwt.NewManager,

		providePool,
		providePublisher,
		func(pool *pgxpool.Pool) db.DBTX { return pool },

		uow.NewPostgresUoW,
		repository.NewBookingRepository,
		repository.NewBookingReadStore,
		repository.NewOutboxRepository,
		func(r *repository.BookingReadStore) queries.BookingReadStore { return r },
		func(r *repository.BookingRepository) worker.StaleScanner { return r },
		func(r *repository.OutboxRepository) worker.OutboxStore { return r },
		func(p *mq.Publisher) worker.EventPublisher { return p },

		gateway.NewWalletGateway,
		gateway.NewPricingGateway,

		commands.NewBookingCommands,
		queries.NewBookingQueries,

		worker.NewReaper,
		worker.NewOutboxRelay,

		middleware.NewAuthMiddleware,
		api.NewBookingHandler,
		handler.NewRouter,
	),
	fx.Invoke(
		registerServer,
		registerWorkers,
	),
)
