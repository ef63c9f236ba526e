package booking_test

import (
	"testing"
	"time"

	"rental-booking/internal/domain/booking"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBooking(t *testing.T, status booking.Status, createdAt time.Time) *booking.Booking {
	t.Helper()
	stay := booking.ReconstructStayPeriod(date(2025, 6, 10), date(2025, 6, 14))
	return booking.Reconstruct(
		uuid.New(), uuid.New(), uuid.New(),
		stay, status,
		"0xabc123",
		10000, 40000, "USD",
		1,
		createdAt, createdAt,
	)
}

func TestNewBooking(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	stay, err := booking.NewStayPeriod(date(2025, 6, 10), date(2025, 6, 14), now)
	require.NoError(t, err)

	propertyID := uuid.New()
	tenantID := uuid.New()

	b, err := booking.NewBooking(
		propertyID, tenantID, stay,
		booking.PriceSnapshot{PricePerNightCents: 10000, Currency: "USD"},
		"0xabc123",
		now,
	)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, b.ID())
	assert.Equal(t, propertyID, b.PropertyID())
	assert.Equal(t, tenantID, b.TenantID())
	assert.Equal(t, booking.StatusAwaitingPayment, b.Status())
	assert.Equal(t, int64(10000), b.PricePerNightCents())
	assert.Equal(t, int64(40000), b.TotalPriceCents(), "4 nights at 100.00")
	assert.Equal(t, "USD", b.Currency())
	assert.Equal(t, int64(1), b.Version())
}

func TestNewBooking_Validation(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	stay, err := booking.NewStayPeriod(date(2025, 6, 10), date(2025, 6, 14), now)
	require.NoError(t, err)

	tests := []struct {
		name    string
		price   booking.PriceSnapshot
		wallet  string
		wantErr error
	}{
		{
			name:    "zero price",
			price:   booking.PriceSnapshot{PricePerNightCents: 0, Currency: "USD"},
			wallet:  "0xabc123",
			wantErr: booking.ErrNonPositivePrice,
		},
		{
			name:    "negative price",
			price:   booking.PriceSnapshot{PricePerNightCents: -500, Currency: "USD"},
			wallet:  "0xabc123",
			wantErr: booking.ErrNonPositivePrice,
		},
		{
			name:    "missing currency",
			price:   booking.PriceSnapshot{PricePerNightCents: 10000},
			wallet:  "0xabc123",
			wantErr: booking.ErrEmptyCurrency,
		},
		{
			name:    "missing wallet",
			price:   booking.PriceSnapshot{PricePerNightCents: 10000, Currency: "USD"},
			wallet:  "",
			wantErr: booking.ErrEmptyWallet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := booking.NewBooking(uuid.New(), uuid.New(), stay, tt.price, tt.wallet, now)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBooking_Confirm(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		status  booking.Status
		wantErr error
	}{
		{
			name:   "from awaiting payment",
			status: booking.StatusAwaitingPayment,
		},
		{
			name:    "already confirmed",
			status:  booking.StatusConfirmed,
			wantErr: booking.ErrInvalidTransition,
		},
		{
			name:    "cancelled",
			status:  booking.StatusCancelled,
			wantErr: booking.ErrInvalidTransition,
		},
		{
			name:    "expired",
			status:  booking.StatusExpired,
			wantErr: booking.ErrInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBooking(t, tt.status, now.Add(-time.Hour))

			err := b.Confirm(now)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.status, b.Status(), "status must not change on rejection")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, booking.StatusConfirmed, b.Status())
			assert.Equal(t, now, b.UpdatedAt())
		})
	}
}

func TestBooking_Cancel(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		status     booking.Status
		wantRefund bool
		wantErr    error
	}{
		{
			name:   "pending booking, no refund",
			status: booking.StatusAwaitingPayment,
		},
		{
			name:       "confirmed booking requires refund",
			status:     booking.StatusConfirmed,
			wantRefund: true,
		},
		{
			name:    "already cancelled",
			status:  booking.StatusCancelled,
			wantErr: booking.ErrAlreadyCancelled,
		},
		{
			name:    "expired",
			status:  booking.StatusExpired,
			wantErr: booking.ErrAlreadyExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBooking(t, tt.status, now.Add(-time.Hour))

			refund, err := b.Cancel(now)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.status, b.Status())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRefund, refund)
			assert.Equal(t, booking.StatusCancelled, b.Status())
		})
	}
}

func TestBooking_Expire(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	threshold := 15 * time.Minute

	t.Run("stale pending booking expires", func(t *testing.T) {
		b := newTestBooking(t, booking.StatusAwaitingPayment, now.Add(-threshold))

		err := b.Expire(now, threshold)

		require.NoError(t, err)
		assert.Equal(t, booking.StatusExpired, b.Status())
	})

	t.Run("fresh pending booking is not yet expirable", func(t *testing.T) {
		b := newTestBooking(t, booking.StatusAwaitingPayment, now.Add(-threshold+time.Second))

		err := b.Expire(now, threshold)

		assert.ErrorIs(t, err, booking.ErrNotYetExpirable)
		assert.Equal(t, booking.StatusAwaitingPayment, b.Status())
	})

	t.Run("confirmed booking never expires", func(t *testing.T) {
		b := newTestBooking(t, booking.StatusConfirmed, now.Add(-time.Hour))

		err := b.Expire(now, threshold)

		assert.ErrorIs(t, err, booking.ErrInvalidTransition)
		assert.Equal(t, booking.StatusConfirmed, b.Status())
	})
}

func TestStatus(t *testing.T) {
	t.Run("parse known statuses", func(t *testing.T) {
		for _, s := range []string{"AWAITING_PAYMENT", "CONFIRMED", "CANCELLED", "EXPIRED"} {
			parsed, err := booking.ParseStatus(s)
			require.NoError(t, err)
			assert.Equal(t, s, parsed.String())
		}
	})

	t.Run("reject unknown status", func(t *testing.T) {
		_, err := booking.ParseStatus("PENDING")
		assert.ErrorIs(t, err, booking.ErrInvalidStatus)
	})

	t.Run("blocking statuses hold the calendar", func(t *testing.T) {
		assert.True(t, booking.StatusAwaitingPayment.Blocking())
		assert.True(t, booking.StatusConfirmed.Blocking())
		assert.False(t, booking.StatusCancelled.Blocking())
		assert.False(t, booking.StatusExpired.Blocking())
	})

	t.Run("terminal statuses", func(t *testing.T) {
		assert.False(t, booking.StatusAwaitingPayment.Terminal())
		assert.False(t, booking.StatusConfirmed.Terminal())
		assert.True(t, booking.StatusCancelled.Terminal())
		assert.True(t, booking.StatusExpired.Terminal())
	})
}

func TestEvent(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	t.Run("routing key follows new status", func(t *testing.T) {
		tests := []struct {
			status booking.Status
			want   string
		}{
			{booking.StatusAwaitingPayment, "booking.created"},
			{booking.StatusConfirmed, "booking.confirmed"},
			{booking.StatusCancelled, "booking.cancelled"},
			{booking.StatusExpired, "booking.expired"},
		}
		for _, tt := range tests {
			b := newTestBooking(t, tt.status, now)
			ev := booking.NewEvent(b, "", false, now)
			assert.Equal(t, tt.want, ev.RoutingKey())
		}
	})

	t.Run("message id combines booking id and new status", func(t *testing.T) {
		b := newTestBooking(t, booking.StatusConfirmed, now)
		ev := booking.NewEvent(b, booking.StatusAwaitingPayment, false, now)

		assert.Equal(t, b.ID().String()+":CONFIRMED", ev.MessageID())
		assert.Equal(t, booking.StatusAwaitingPayment, ev.PreviousStatus)
		assert.Equal(t, b.ID(), ev.Booking.ID)
	})
}
