package queries_test

import (
	"context"
	"testing"
	"time"

	"rental-booking/internal/infra"
	"rental-booking/internal/pkg/clock"
	"rental-booking/internal/usecase/queries"
	"rental-booking/tests/mock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newQueries(t *testing.T) (queries.BookingQueries, *mock.MockBookingReadStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := mock.NewMockBookingReadStore(ctrl)
	return queries.NewBookingQueries(store, clock.NewMockClock(testNow)), store
}

func TestBookingQueries_GetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		q, store := newQueries(t)
		id := uuid.New()
		view := &queries.BookingView{ID: id, Status: "CONFIRMED"}

		store.EXPECT().FindByID(gomock.Any(), id).Return(view, nil)

		got, err := q.GetByID(context.Background(), id)

		require.NoError(t, err)
		assert.Equal(t, view, got)
	})

	t.Run("missing row maps to not found", func(t *testing.T) {
		q, store := newQueries(t)
		id := uuid.New()

		store.EXPECT().FindByID(gomock.Any(), id).
			Return(nil, infra.WrapRepoErr("no rows", nil, infra.KindNotFound))

		_, err := q.GetByID(context.Background(), id)

		assert.ErrorIs(t, err, queries.ErrBookingNotFound)
	})
}

func TestBookingQueries_CountFutureByProperty(t *testing.T) {
	q, store := newQueries(t)
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	counts := []*queries.PropertyBookingCount{
		{PropertyID: ids[0], Count: 2},
		{PropertyID: ids[1], Count: 0},
	}

	// "Future" is anchored to the clock, not the database.
	store.EXPECT().CountFutureBlocking(gomock.Any(), ids, testNow).Return(counts, nil)

	got, err := q.CountFutureByProperty(context.Background(), ids)

	require.NoError(t, err)
	assert.Equal(t, counts, got)
}
