package messaging

import (
	"context"
	"fmt"
)

// Handler processes one message.
type Handler func(ctx context.Context, msg Message) error

// Consume subscribes to channels and passes every message to handler until ctx is done.
// Handler errors go to onError and do not stop consumption.
func Consume(ctx context.Context, broker Broker, handler Handler, onError func(Message, error), channels ...string) error {
	msgs, err := broker.Subscribe(ctx, channels...)
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			if err := handler(ctx, msg); err != nil && onError != nil {
				onError(msg, err)
			}
		}
	}
}
