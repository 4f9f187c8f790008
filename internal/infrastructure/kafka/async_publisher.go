package publisher

import (
	"context"
	"log/slog"
	"time"

	"github.com/LavaJover/trust-marketplace-service/internal/domain"
	"github.com/LavaJover/trust-marketplace-service/internal/infrastructure/metrics"
	"github.com/panjf2000/ants/v2"
)

const publishTimeout = 10 * time.Second

// AsyncEventPublisher hands events to a bounded worker pool so request paths
// never wait on the broker. Delivery failures are logged and counted.
type AsyncEventPublisher struct {
	next    domain.EventPublisher
	pool    *ants.Pool
	metrics *metrics.MarketplaceMetrics
}

func NewAsyncEventPublisher(next domain.EventPublisher, workers int, m *metrics.MarketplaceMetrics) (*AsyncEventPublisher, error) {
	if workers <= 0 {
		workers = 1
	}
	pool, err := ants.NewPool(workers, ants.WithNonblocking(false))
	if err != nil {
		return nil, err
	}
	return &AsyncEventPublisher{next: next, pool: pool, metrics: m}, nil
}

// PublishEvent returns once the event is queued.
func (p *AsyncEventPublisher) PublishEvent(ctx context.Context, event domain.Event) error {
	return p.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()
		err := p.next.PublishEvent(ctx, event)
		p.metrics.RecordPublish(event.Topic, err)
		if err != nil {
			slog.Error("failed to publish event", "topic", event.Topic, "type", event.Type, "key", event.Key, "error", err)
		}
	})
}

// Close waits up to timeout for queued events to drain.
func (p *AsyncEventPublisher) Close(timeout time.Duration) error {
	return p.pool.ReleaseTimeout(timeout)
}
