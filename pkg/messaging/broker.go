package messaging

import (
	"context"
)

// Message is one payload received on a channel.
type Message struct {
	Channel string
	Payload []byte
}

// Publisher defines the interface for publishing messages
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// Broker defines the interface for message brokers
type Broker interface {
	Publisher
	// Subscribe delivers messages from channels until ctx is cancelled, then closes the
	// returned channel.
	Subscribe(ctx context.Context, channels ...string) (<-chan Message, error)
	Close() error
}
