package notify

import (
	"context"

	"github.com/panjf2000/ants/v2"

	"github.com/draft-league/draftroom/internal/domain/feed"
	"github.com/draft-league/draftroom/internal/platform/logging"
)

// Publisher delivers a single event somewhere external.
type Publisher interface {
	Publish(event feed.Event) error
}

// NopPublisher drops events. Used when no webhook is configured so the
// dispatcher wiring stays uniform.
type NopPublisher struct{}

func (NopPublisher) Publish(feed.Event) error { return nil }

// Dispatcher fans committed events out to a publisher on a bounded worker
// pool. Enqueue never blocks the caller: when the pool is saturated the
// event is dropped and logged.
type Dispatcher struct {
	pool      *ants.Pool
	publisher Publisher
	logger    *logging.Logger
}

func NewDispatcher(workers int, publisher Publisher, logger *logging.Logger) (*Dispatcher, error) {
	if workers < 1 {
		workers = 4
	}
	if logger == nil {
		logger = logging.Default()
	}

	pool, err := ants.NewPool(workers, ants.WithNonblocking(true))
	if err != nil {
		return nil, err
	}

	return &Dispatcher{
		pool:      pool,
		publisher: publisher,
		logger:    logger,
	}, nil
}

func (d *Dispatcher) Enqueue(event feed.Event) {
	err := d.pool.Submit(func() {
		if err := d.publisher.Publish(event); err != nil {
			d.logger.Warn("event delivery failed",
				"event_id", event.ID,
				"kind", string(event.Kind),
				"error", err,
			)
		}
	})
	if err != nil {
		d.logger.Warn("event delivery pool saturated, dropping event",
			"event_id", event.ID,
			"kind", string(event.Kind),
			"error", err,
		)
	}
}

// Close drains the pool. Pending deliveries finish; new ones are rejected.
func (d *Dispatcher) Close(_ context.Context) {
	d.pool.Release()
}
