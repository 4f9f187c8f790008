package publisher

import (
	"context"
	"errors"

	"github.com/LavaJover/trust-marketplace-service/internal/domain"
)

// FanoutPublisher delivers each event to every target. A failing target does
// not stop delivery to the rest.
type FanoutPublisher struct {
	targets []domain.EventPublisher
}

func NewFanoutPublisher(targets ...domain.EventPublisher) *FanoutPublisher {
	return &FanoutPublisher{targets: targets}
}

func (p *FanoutPublisher) PublishEvent(ctx context.Context, event domain.Event) error {
	var errs []error
	for _, target := range p.targets {
		if err := target.PublishEvent(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
