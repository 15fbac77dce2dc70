package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jwalitptl/dental-api/internal/email"
	"github.com/jwalitptl/dental-api/internal/model"
	"github.com/jwalitptl/dental-api/pkg/logger"
	"github.com/jwalitptl/dental-api/pkg/messaging"
	"github.com/jwalitptl/dental-api/pkg/metrics"
)

// BookingChannels are the broker channels the outbox processor publishes booking events to.
var BookingChannels = []string{model.EventBookingCreated, model.EventBookingStatusChanged}

// BookingNotifier emails patients when their booking is received, confirmed or cancelled.
type BookingNotifier struct {
	broker  messaging.Broker
	mailer  email.Service
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewBookingNotifier(broker messaging.Broker, mailer email.Service, logger *logger.Logger, metrics *metrics.Metrics) *BookingNotifier {
	return &BookingNotifier{
		broker:  broker,
		mailer:  mailer,
		logger:  logger,
		metrics: metrics,
	}
}

// Start blocks until ctx is done or the subscription fails.
func (n *BookingNotifier) Start(ctx context.Context) error {
	n.logger.Info("Starting booking notifier", "channels", BookingChannels)
	return messaging.Consume(ctx, n.broker, n.Handle, n.onError, BookingChannels...)
}

func (n *BookingNotifier) Handle(ctx context.Context, msg messaging.Message) error {
	var event model.BookingEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return fmt.Errorf("failed to decode booking event: %w", err)
	}

	send := n.pick(msg.Channel, &event)
	if send == nil {
		n.logger.Debug("No notification for booking event",
			"channel", msg.Channel, "booking_id", event.BookingID, "status", event.Status)
		return nil
	}

	if err := send(ctx, &event); err != nil {
		return err
	}
	n.metrics.NotificationsSent.WithLabelValues(msg.Channel).Inc()
	return nil
}

func (n *BookingNotifier) pick(channel string, event *model.BookingEvent) func(context.Context, *model.BookingEvent) error {
	switch channel {
	case model.EventBookingCreated:
		return n.mailer.SendBookingReceived
	case model.EventBookingStatusChanged:
		switch event.Status {
		case model.BookingStatusConfirmed:
			return n.mailer.SendBookingConfirmed
		case model.BookingStatusCancelled:
			return n.mailer.SendBookingCancelled
		}
	}
	return nil
}

func (n *BookingNotifier) onError(msg messaging.Message, err error) {
	n.metrics.NotificationsFailed.WithLabelValues(msg.Channel).Inc()
	n.logger.Error(err, "Failed to send booking notification", "channel", msg.Channel)
}
