package ports

import "context"

// EventPublisher delivers outbox records to the broker.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error
}

// BookingMetrics records inventory movements.
type BookingMetrics interface {
	BookingCreated(seats int)
	BookingCancelled(seats int)
	PaymentConfirmed(source string)
}
