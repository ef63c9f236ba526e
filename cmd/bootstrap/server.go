package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"rental-booking/internal/handler"
	"rental-booking/internal/pkg/config"

	"go.uber.org/fx"
)

const shutdownTimeout = 10 * time.Second

func registerServer(
	lc fx.Lifecycle,
	cfg config.ServerConfig,
	router *handler.Router,
	logger *slog.Logger,
) {
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router.Engine(),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info("http server starting", "addr", srv.Addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("http server stopped unexpectedly", "error", err.Error())
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
