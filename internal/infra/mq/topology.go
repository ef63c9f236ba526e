package mq

import (
	"fmt"

	"rental-booking/internal/pkg/config"

	amqp "github.com/rabbitmq/amqp091-go"
)

// statusQueue binds one durable queue per lifecycle status to the topic
// exchange. Undeliverable messages dead-letter into the direct DLX under
// "<routing key>.dead"; the DLQ catches them all with a wildcard binding.
type statusQueue struct {
	name       string
	routingKey string
	ttl        int64 // milliseconds, 0 means no per-queue TTL
}

func statusQueues(cfg config.MQConfig) []statusQueue {
	return []statusQueue{
		{name: "booking.created.queue", routingKey: "booking.created"},
		// Stale confirmations (e.g. superseded by a later cancellation)
		// expire instead of being processed out of order indefinitely.
		{name: "booking.confirmed.queue", routingKey: "booking.confirmed", ttl: cfg.ConfirmedQueueTTL.Milliseconds()},
		{name: "booking.cancelled.queue", routingKey: "booking.cancelled"},
		{name: "booking.expired.queue", routingKey: "booking.expired"},
	}
}

// DeclareTopology sets up the exchange, the per-status queues, the
// dead-letter exchange and the DLQ. Declarations are idempotent, so every
// service instance can run this at startup.
func DeclareTopology(ch *amqp.Channel, cfg config.MQConfig) error {
	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", cfg.Exchange, err)
	}

	if err := ch.ExchangeDeclare(cfg.DeadLetterExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare dead-letter exchange %s: %w", cfg.DeadLetterExchange, err)
	}
	if _, err := ch.QueueDeclare(cfg.DeadLetterQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare dead-letter queue %s: %w", cfg.DeadLetterQueue, err)
	}
	if err := ch.QueueBind(cfg.DeadLetterQueue, "*.dead", cfg.DeadLetterExchange, false, nil); err != nil {
		return fmt.Errorf("bind dead-letter queue: %w", err)
	}

	for _, q := range statusQueues(cfg) {
		args := amqp.Table{
			"x-dead-letter-exchange":    cfg.DeadLetterExchange,
			"x-dead-letter-routing-key": q.routingKey + ".dead",
		}
		if q.ttl > 0 {
			args["x-message-ttl"] = q.ttl
		}
		if _, err := ch.QueueDeclare(q.name, true, false, false, false, args); err != nil {
			return fmt.Errorf("declare queue %s: %w", q.name, err)
		}
		if err := ch.QueueBind(q.name, q.routingKey, cfg.Exchange, false, nil); err != nil {
			return fmt.Errorf("bind queue %s: %w", q.name, err)
		}
	}
	return nil
}
