// Package gateway holds the protected-call wrappers around the two external
// fact services. Every call composes a bounded timeout, a per-dependency
// circuit breaker and a fail-fast fallback: when the breaker is open the
// caller gets ErrDependencyUnavailable immediately, never a guessed value.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"rental-booking/internal/pkg/config"
	"rental-booking/internal/pkg/errs"
	"rental-booking/internal/usecase/shared"

	"github.com/sony/gobreaker/v2"
)

func newBreakerSettings(name string, cfg config.BreakerConfig, logger *slog.Logger) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.HalfOpenMaxCalls,
		Timeout:     cfg.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.FailureRatio
		},
		// Data errors (not found, wallet not connected, invalid price) are
		// definitive upstream answers; only unavailability trips the breaker.
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.Is(err, shared.ErrDependencyUnavailable)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"dependency", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}
}

// getJSON performs a GET with a per-call deadline and decodes a 200 body
// into out. Non-2xx statuses are returned as httpStatusError for the caller
// to classify; transport failures and timeouts map to unavailability.
func getJSON(ctx context.Context, client *http.Client, timeout time.Duration, url string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errs.Mark(err, shared.ErrDependencyUnavailable)
	}

	resp, err := client.Do(req)
	if err != nil {
		return errs.Mark(err, shared.ErrDependencyUnavailable)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return &httpStatusError{status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errs.Mark(err, shared.ErrDependencyUnavailable)
	}
	return nil
}

type httpStatusError struct {
	status int
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("unexpected upstream status %d", e.status)
}

func statusOf(err error) (int, bool) {
	var se *httpStatusError
	if errors.As(err, &se) {
		return se.status, true
	}
	return 0, false
}

// mapBreakerErr converts breaker fail-fast errors into the shared taxonomy.
func mapBreakerErr(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return errs.Mark(err, shared.ErrDependencyUnavailable)
	}
	return err
}
