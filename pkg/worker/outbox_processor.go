package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jwalitptl/dental-api/internal/model"
	"github.com/jwalitptl/dental-api/internal/repository"
	"github.com/jwalitptl/dental-api/pkg/logger"
	"github.com/jwalitptl/dental-api/pkg/messaging"
	"github.com/jwalitptl/dental-api/pkg/metrics"
)

type OutboxProcessorConfig struct {
	BatchSize    int
	PollInterval time.Duration
	// RetryAttempts is the number of publish attempts per event within one poll.
	RetryAttempts int
	RetryDelay    time.Duration
	// MaxDeliveries is the number of polls an event may fail before it is marked failed.
	MaxDeliveries int
}

func (c OutboxProcessorConfig) validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("BatchSize must be greater than 0")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("PollInterval must be greater than 0")
	}
	if c.RetryAttempts <= 0 {
		return fmt.Errorf("RetryAttempts must be greater than 0")
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("RetryDelay must not be negative")
	}
	if c.MaxDeliveries <= 0 {
		return fmt.Errorf("MaxDeliveries must be greater than 0")
	}
	return nil
}

// OutboxProcessor publishes pending outbox events to the broker channel named by their
// event type.
type OutboxProcessor struct {
	repo      repository.OutboxRepository
	publisher messaging.Publisher
	config    OutboxProcessorConfig
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

func NewOutboxProcessor(
	repo repository.OutboxRepository,
	publisher messaging.Publisher,
	config OutboxProcessorConfig,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) (*OutboxProcessor, error) {
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid outbox processor config: %w", err)
	}

	return &OutboxProcessor{
		repo:      repo,
		publisher: publisher,
		config:    config,
		logger:    logger,
		metrics:   metrics,
	}, nil
}

func (p *OutboxProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	p.logger.Info("Starting outbox processor")

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Shutting down outbox processor")
			return
		case <-ticker.C:
			if _, err := p.ProcessBatch(ctx); err != nil {
				p.logger.Error(err, "Failed to process events")
			}
		}
	}
}

// ProcessBatch claims one batch of pending events, publishes them and records the outcome
// of each. It returns the number of events published.
func (p *OutboxProcessor) ProcessBatch(ctx context.Context) (int, error) {
	timer := prometheus.NewTimer(p.metrics.OutboxProcessingLatency)
	defer timer.ObserveDuration()

	batch, err := p.repo.LockPending(ctx, p.config.BatchSize)
	if err != nil {
		p.metrics.DatabaseOperations.WithLabelValues("lock_pending_events", "error").Inc()
		return 0, fmt.Errorf("failed to get pending events: %w", err)
	}
	p.metrics.DatabaseOperations.WithLabelValues("lock_pending_events", "success").Inc()

	published := 0
	for _, event := range batch.Events() {
		ok, err := p.processEvent(ctx, batch, event)
		if err != nil {
			_ = batch.Rollback()
			return published, err
		}
		if ok {
			published++
		}
	}

	if err := batch.Commit(); err != nil {
		return published, fmt.Errorf("failed to commit outbox batch: %w", err)
	}

	if n, err := p.repo.PendingCount(ctx); err == nil {
		p.metrics.OutboxQueueSize.Set(float64(n))
	}
	return published, nil
}

// processEvent returns whether the event was published. A non-nil error means its outcome
// could not be recorded and the batch must be abandoned.
func (p *OutboxProcessor) processEvent(ctx context.Context, batch repository.OutboxBatch, event *model.OutboxEvent) (bool, error) {
	publishErr := p.retry(ctx, event.EventType, func() error {
		return p.publisher.Publish(ctx, event.EventType, event.Payload)
	})

	if publishErr != nil {
		final := event.RetryCount+1 >= p.config.MaxDeliveries
		p.logger.Error(publishErr, "Failed to publish event",
			"event_id", event.ID.String(),
			"event_type", event.EventType,
			"final", final)
		if final {
			p.metrics.OutboxEventsFailed.Inc()
		}
		if err := batch.MarkFailed(ctx, event.ID, publishErr.Error(), final); err != nil {
			return false, err
		}
		return false, nil
	}

	if err := batch.MarkProcessed(ctx, event.ID); err != nil {
		return false, err
	}
	p.metrics.OutboxEventsProcessed.Inc()
	return true, nil
}

func (p *OutboxProcessor) retry(ctx context.Context, eventType string, fn func() error) error {
	var err error
	for i := 0; i < p.config.RetryAttempts; i++ {
		if i > 0 {
			p.metrics.OutboxRetries.WithLabelValues(eventType).Inc()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.config.RetryDelay):
			}
		}
		if err = fn(); err == nil {
			return nil
		}
	}
	return err
}
