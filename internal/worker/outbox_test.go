package worker_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"rental-booking/internal/infra/repository"
	"rental-booking/internal/pkg/config"
	"rental-booking/internal/worker"
	"rental-booking/tests/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testOutboxConfig() config.OutboxConfig {
	return config.OutboxConfig{
		PollInterval: 100 * time.Millisecond,
		BatchSize:    50,
	}
}

func pendingEvents(n int) []repository.PendingEvent {
	out := make([]repository.PendingEvent, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, repository.PendingEvent{
			ID:         int64(i + 1),
			RoutingKey: "booking.created",
			MessageID:  "msg-" + string(rune('a'+i)),
			Payload:    []byte(`{}`),
		})
	}
	return out
}

func TestOutboxRelay_RunOnce(t *testing.T) {
	t.Run("publishes batch in order and marks rows published", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mock.NewMockOutboxStore(ctrl)
		publisher := mock.NewMockEventPublisher(ctrl)
		relay := worker.NewOutboxRelay(store, publisher, testOutboxConfig(), slog.Default())

		events := pendingEvents(3)
		store.EXPECT().FetchPending(gomock.Any(), 50).Return(events, nil)
		gomock.InOrder(
			publisher.EXPECT().Publish(gomock.Any(), "booking.created", events[0].MessageID, events[0].Payload).Return(nil),
			publisher.EXPECT().Publish(gomock.Any(), "booking.created", events[1].MessageID, events[1].Payload).Return(nil),
			publisher.EXPECT().Publish(gomock.Any(), "booking.created", events[2].MessageID, events[2].Payload).Return(nil),
		)
		store.EXPECT().MarkPublished(gomock.Any(), []int64{1, 2, 3}).Return(nil)

		published, err := relay.RunOnce(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 3, published)
	})

	t.Run("empty outbox is a no-op", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mock.NewMockOutboxStore(ctrl)
		publisher := mock.NewMockEventPublisher(ctrl)
		relay := worker.NewOutboxRelay(store, publisher, testOutboxConfig(), slog.Default())

		store.EXPECT().FetchPending(gomock.Any(), 50).Return(nil, nil)

		published, err := relay.RunOnce(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 0, published)
	})

	t.Run("publish failure stops the batch but keeps accepted rows", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mock.NewMockOutboxStore(ctrl)
		publisher := mock.NewMockEventPublisher(ctrl)
		relay := worker.NewOutboxRelay(store, publisher, testOutboxConfig(), slog.Default())

		events := pendingEvents(3)
		store.EXPECT().FetchPending(gomock.Any(), 50).Return(events, nil)
		gomock.InOrder(
			publisher.EXPECT().Publish(gomock.Any(), "booking.created", events[0].MessageID, events[0].Payload).Return(nil),
			publisher.EXPECT().Publish(gomock.Any(), "booking.created", events[1].MessageID, events[1].Payload).
				Return(errors.New("broker unreachable")),
		)
		store.EXPECT().MarkPublished(gomock.Any(), []int64{1}).Return(nil)

		published, err := relay.RunOnce(context.Background())

		assert.Error(t, err)
		assert.Equal(t, 1, published)
	})
}
