package gateway_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"rental-booking/internal/infra/gateway"
	"rental-booking/internal/pkg/config"
	"rental-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBreakerConfig() config.BreakerConfig {
	return config.BreakerConfig{
		FailureRatio:     0.6,
		MinRequests:      3,
		Cooldown:         time.Minute,
		HalfOpenMaxCalls: 1,
	}
}

func gatewayConfig(baseURL string) config.GatewayConfig {
	return config.GatewayConfig{
		WalletBaseURL:  baseURL,
		PricingBaseURL: baseURL,
		CallTimeout:    time.Second,
	}
}

func TestWalletGateway_FetchWallet(t *testing.T) {
	tenantID := uuid.New()

	t.Run("connected wallet", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/auth/wallet-status/"+tenantID.String(), r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"walletAddress":"0xabc123","exists":true}`))
		}))
		defer srv.Close()

		g := gateway.NewWalletGateway(gatewayConfig(srv.URL), testBreakerConfig(), slog.Default())

		fact, err := g.FetchWallet(context.Background(), tenantID)

		require.NoError(t, err)
		assert.Equal(t, "0xabc123", fact.Address)
	})

	t.Run("no connected wallet", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"walletAddress":"","exists":false}`))
		}))
		defer srv.Close()

		g := gateway.NewWalletGateway(gatewayConfig(srv.URL), testBreakerConfig(), slog.Default())

		_, err := g.FetchWallet(context.Background(), tenantID)

		assert.ErrorIs(t, err, shared.ErrWalletNotConnected)
	})

	t.Run("unknown user", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		g := gateway.NewWalletGateway(gatewayConfig(srv.URL), testBreakerConfig(), slog.Default())

		_, err := g.FetchWallet(context.Background(), tenantID)

		assert.ErrorIs(t, err, shared.ErrUserNotFound)
	})

	t.Run("upstream 500 maps to unavailability", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		g := gateway.NewWalletGateway(gatewayConfig(srv.URL), testBreakerConfig(), slog.Default())

		_, err := g.FetchWallet(context.Background(), tenantID)

		assert.ErrorIs(t, err, shared.ErrDependencyUnavailable)
	})

	t.Run("open breaker fails fast without hitting upstream", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		g := gateway.NewWalletGateway(gatewayConfig(srv.URL), testBreakerConfig(), slog.Default())

		for i := 0; i < 3; i++ {
			_, err := g.FetchWallet(context.Background(), tenantID)
			assert.ErrorIs(t, err, shared.ErrDependencyUnavailable)
		}
		tripped := calls.Load()

		_, err := g.FetchWallet(context.Background(), tenantID)

		assert.ErrorIs(t, err, shared.ErrDependencyUnavailable)
		assert.Equal(t, tripped, calls.Load(), "open breaker must short-circuit the call")
	})
}

func TestPricingGateway_FetchPricing(t *testing.T) {
	propertyID := uuid.New()

	t.Run("price converted to cents", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/properties/"+propertyID.String(), r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"price":100.50,"currency":"USD"}`))
		}))
		defer srv.Close()

		g := gateway.NewPricingGateway(gatewayConfig(srv.URL), testBreakerConfig(), slog.Default())

		fact, err := g.FetchPricing(context.Background(), propertyID)

		require.NoError(t, err)
		assert.Equal(t, int64(10050), fact.PriceCents)
		assert.Equal(t, "USD", fact.Currency)
	})

	t.Run("unknown property", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		g := gateway.NewPricingGateway(gatewayConfig(srv.URL), testBreakerConfig(), slog.Default())

		_, err := g.FetchPricing(context.Background(), propertyID)

		assert.ErrorIs(t, err, shared.ErrPropertyNotFound)
	})

	t.Run("invalid price is a data error and never trips the breaker", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"price":0,"currency":"USD"}`))
		}))
		defer srv.Close()

		g := gateway.NewPricingGateway(gatewayConfig(srv.URL), testBreakerConfig(), slog.Default())

		// Well past MinRequests: if invalid prices counted as failures the
		// breaker would be open and stop reaching the upstream.
		for i := 0; i < 10; i++ {
			_, err := g.FetchPricing(context.Background(), propertyID)
			assert.ErrorIs(t, err, shared.ErrInvalidPrice)
		}
		assert.Equal(t, int32(10), calls.Load())
	})
}
