package gateway

import (
	"context"
	"log/slog"
	"math"
	"net/http"

	"rental-booking/internal/pkg/config"
	"rental-booking/internal/pkg/errs"
	"rental-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
)

// propertyResponse mirrors the catalog service's property payload.
type propertyResponse struct {
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
}

type PricingHTTPGateway struct {
	baseURL string
	client  *http.Client
	timeout config.GatewayConfig
	breaker *gobreaker.CircuitBreaker[*shared.PricingFact]
	logger  *slog.Logger
}

func NewPricingGateway(cfg config.GatewayConfig, bcfg config.BreakerConfig, logger *slog.Logger) shared.PricingGateway {
	return &PricingHTTPGateway{
		baseURL: cfg.PricingBaseURL,
		client:  &http.Client{},
		timeout: cfg,
		breaker: gobreaker.NewCircuitBreaker[*shared.PricingFact](newBreakerSettings("pricing-service", bcfg, logger)),
		logger:  logger,
	}
}

func (g *PricingHTTPGateway) FetchPricing(ctx context.Context, propertyID uuid.UUID) (*shared.PricingFact, error) {
	fact, err := g.breaker.Execute(func() (*shared.PricingFact, error) {
		return g.fetch(ctx, propertyID)
	})
	if err != nil {
		return nil, mapBreakerErr(err)
	}
	return fact, nil
}

func (g *PricingHTTPGateway) fetch(ctx context.Context, propertyID uuid.UUID) (*shared.PricingFact, error) {
	url := g.baseURL + "/api/properties/" + propertyID.String()

	var body propertyResponse
	if err := getJSON(ctx, g.client, g.timeout.CallTimeout, url, &body); err != nil {
		if status, ok := statusOf(err); ok {
			if status == http.StatusNotFound {
				return nil, shared.ErrPropertyNotFound
			}
			g.logger.Error("pricing service returned unexpected status", "status", status)
			return nil, errs.Mark(err, shared.ErrDependencyUnavailable)
		}
		return nil, err
	}

	// A non-positive or missing price is a data error, not a transient
	// failure: it must not trip the breaker and is never retried.
	if body.Price <= 0 || body.Currency == "" {
		return nil, shared.ErrInvalidPrice
	}

	return &shared.PricingFact{
		PriceCents: int64(math.Round(body.Price * 100)),
		Currency:   body.Currency,
	}, nil
}
