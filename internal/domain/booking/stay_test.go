package booking_test

import (
	"testing"
	"time"

	"rental-booking/internal/domain/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewStayPeriod(t *testing.T) {
	today := date(2025, 6, 1)

	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr error
	}{
		{
			name:  "valid multi-night stay",
			start: date(2025, 6, 10),
			end:   date(2025, 6, 14),
		},
		{
			name:  "single night",
			start: date(2025, 6, 10),
			end:   date(2025, 6, 11),
		},
		{
			name:  "starts today",
			start: date(2025, 6, 1),
			end:   date(2025, 6, 2),
		},
		{
			name:    "start in the past",
			start:   date(2025, 5, 31),
			end:     date(2025, 6, 5),
			wantErr: booking.ErrStartDateInPast,
		},
		{
			name:    "end equals start",
			start:   date(2025, 6, 10),
			end:     date(2025, 6, 10),
			wantErr: booking.ErrEndNotAfterStart,
		},
		{
			name:    "end before start",
			start:   date(2025, 6, 10),
			end:     date(2025, 6, 8),
			wantErr: booking.ErrEndNotAfterStart,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stay, err := booking.NewStayPeriod(tt.start, tt.end, today)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.start, stay.Start())
			assert.Equal(t, tt.end, stay.End())
		})
	}
}

func TestNewStayPeriod_TruncatesTimeOfDay(t *testing.T) {
	today := time.Date(2025, 6, 1, 23, 45, 0, 0, time.UTC)
	start := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 3, 17, 30, 0, 0, time.UTC)

	stay, err := booking.NewStayPeriod(start, end, today)

	require.NoError(t, err)
	assert.Equal(t, date(2025, 6, 1), stay.Start())
	assert.Equal(t, date(2025, 6, 3), stay.End())
	assert.Equal(t, int64(2), stay.Nights())
}

func TestStayPeriod_Nights(t *testing.T) {
	stay, err := booking.NewStayPeriod(date(2025, 6, 10), date(2025, 6, 14), date(2025, 6, 1))

	require.NoError(t, err)
	assert.Equal(t, int64(4), stay.Nights())
}

func TestStayPeriod_Overlaps(t *testing.T) {
	existing := booking.ReconstructStayPeriod(date(2025, 6, 10), date(2025, 6, 14))

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{
			name:  "identical range",
			start: date(2025, 6, 10),
			end:   date(2025, 6, 14),
			want:  true,
		},
		{
			name:  "contained within",
			start: date(2025, 6, 11),
			end:   date(2025, 6, 13),
			want:  true,
		},
		{
			name:  "overlaps tail",
			start: date(2025, 6, 13),
			end:   date(2025, 6, 20),
			want:  true,
		},
		{
			name:  "overlaps head",
			start: date(2025, 6, 5),
			end:   date(2025, 6, 11),
			want:  true,
		},
		{
			name:  "back-to-back after checkout",
			start: date(2025, 6, 14),
			end:   date(2025, 6, 18),
			want:  false,
		},
		{
			name:  "ends on check-in day",
			start: date(2025, 6, 5),
			end:   date(2025, 6, 10),
			want:  false,
		},
		{
			name:  "disjoint",
			start: date(2025, 6, 20),
			end:   date(2025, 6, 25),
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := booking.ReconstructStayPeriod(tt.start, tt.end)
			assert.Equal(t, tt.want, candidate.Overlaps(existing))
		})
	}
}
