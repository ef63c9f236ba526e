package shared

import (
	"context"

	"rental-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

// Gateway failure taxonomy. ErrDependencyUnavailable means the circuit is
// open or the call timed out: safe to retry later, never substituted with a
// default value. The rest are data errors and are not retried.
var (
	ErrWalletNotConnected    = errs.New("tenant has no connected wallet")
	ErrUserNotFound          = errs.New("user not found in identity service")
	ErrPropertyNotFound      = errs.New("property not found in catalog")
	ErrInvalidPrice          = errs.New("property has no valid price")
	ErrDependencyUnavailable = errs.New("upstream dependency unavailable")
)

// WalletFact is the identity service's answer, snapshotted into the booking.
type WalletFact struct {
	Address string
}

// PricingFact is the catalog price at call time, snapshotted into the booking.
type PricingFact struct {
	PriceCents int64
	Currency   string
}

type WalletGateway interface {
	FetchWallet(ctx context.Context, tenantID uuid.UUID) (*WalletFact, error)
}

type PricingGateway interface {
	FetchPricing(ctx context.Context, propertyID uuid.UUID) (*PricingFact, error)
}
