package messaging

import (
	"context"
)

// Broker defines the interface for message brokers. Delivery to subscribers
// is at-most-once; consumers must treat messages as advisory.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}
