package mq

import (
	"testing"
	"time"

	"rental-booking/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusQueues(t *testing.T) {
	cfg := config.MQConfig{
		Exchange:           "rental.events",
		DeadLetterExchange: "rental.dlx",
		DeadLetterQueue:    "rental.dlq",
		ConfirmedQueueTTL:  5 * time.Minute,
	}

	queues := statusQueues(cfg)

	require.Len(t, queues, 4)

	byKey := make(map[string]statusQueue, len(queues))
	for _, q := range queues {
		byKey[q.routingKey] = q
	}

	for _, key := range []string{"booking.created", "booking.confirmed", "booking.cancelled", "booking.expired"} {
		q, ok := byKey[key]
		require.True(t, ok, "missing queue for %s", key)
		assert.Equal(t, key+".queue", q.name)
	}

	assert.Equal(t, int64(5*60*1000), byKey["booking.confirmed"].ttl,
		"only the confirmed queue carries a message TTL")
	assert.Zero(t, byKey["booking.created"].ttl)
	assert.Zero(t, byKey["booking.cancelled"].ttl)
	assert.Zero(t, byKey["booking.expired"].ttl)
}
