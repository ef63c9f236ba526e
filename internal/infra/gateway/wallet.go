package gateway

import (
	"context"
	"log/slog"
	"net/http"

	"rental-booking/internal/pkg/config"
	"rental-booking/internal/pkg/errs"
	"rental-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
)

// walletStatusResponse mirrors the identity service's wallet-status payload.
type walletStatusResponse struct {
	WalletAddress string `json:"walletAddress"`
	Exists        bool   `json:"exists"`
}

type WalletHTTPGateway struct {
	baseURL string
	client  *http.Client
	timeout config.GatewayConfig
	breaker *gobreaker.CircuitBreaker[*shared.WalletFact]
	logger  *slog.Logger
}

func NewWalletGateway(cfg config.GatewayConfig, bcfg config.BreakerConfig, logger *slog.Logger) shared.WalletGateway {
	return &WalletHTTPGateway{
		baseURL: cfg.WalletBaseURL,
		client:  &http.Client{},
		timeout: cfg,
		breaker: gobreaker.NewCircuitBreaker[*shared.WalletFact](newBreakerSettings("wallet-service", bcfg, logger)),
		logger:  logger,
	}
}

func (g *WalletHTTPGateway) FetchWallet(ctx context.Context, tenantID uuid.UUID) (*shared.WalletFact, error) {
	fact, err := g.breaker.Execute(func() (*shared.WalletFact, error) {
		return g.fetch(ctx, tenantID)
	})
	if err != nil {
		return nil, mapBreakerErr(err)
	}
	return fact, nil
}

func (g *WalletHTTPGateway) fetch(ctx context.Context, tenantID uuid.UUID) (*shared.WalletFact, error) {
	url := g.baseURL + "/api/auth/wallet-status/" + tenantID.String()

	var body walletStatusResponse
	if err := getJSON(ctx, g.client, g.timeout.CallTimeout, url, &body); err != nil {
		if status, ok := statusOf(err); ok {
			if status == http.StatusNotFound {
				return nil, shared.ErrUserNotFound
			}
			g.logger.Error("wallet service returned unexpected status", "status", status)
			return nil, errs.Mark(err, shared.ErrDependencyUnavailable)
		}
		return nil, err
	}

	if !body.Exists || body.WalletAddress == "" {
		return nil, shared.ErrWalletNotConnected
	}
	return &shared.WalletFact{Address: body.WalletAddress}, nil
}
