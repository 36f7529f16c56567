package competitors

import (
	"context"
	"encoding/json"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/enums"
	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/logger"
)

// Event describes a notable inventory transition observed during a scrape run.
type Event struct {
	Type       enums.InventoryEventType `json:"type"`
	DealerID   uuid.UUID                `json:"dealer_id"`
	VehicleID  uuid.UUID                `json:"vehicle_id"`
	Brand      string                   `json:"brand"`
	Model      string                   `json:"model"`
	OldPrice   *string                  `json:"old_price,omitempty"`
	NewPrice   *string                  `json:"new_price,omitempty"`
	OccurredAt time.Time                `json:"occurred_at"`
}

// EventPublisher pushes inventory events to downstream consumers.
type EventPublisher interface {
	PublishEvents(ctx context.Context, events []Event) error
}

// PubSubEventPublisher publishes events on the inventory topic. A nil
// publisher disables eventing without branching at call sites.
type PubSubEventPublisher struct {
	publisher *pubsub.Publisher
	logg      *logger.Logger
}

func NewPubSubEventPublisher(publisher *pubsub.Publisher, logg *logger.Logger) *PubSubEventPublisher {
	return &PubSubEventPublisher{publisher: publisher, logg: logg}
}

func (p *PubSubEventPublisher) PublishEvents(ctx context.Context, events []Event) error {
	if p == nil || p.publisher == nil {
		return nil
	}

	var errs error
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		result := p.publisher.Publish(ctx, &pubsub.Message{
			Data: payload,
			Attributes: map[string]string{
				"event_type": event.Type.String(),
				"dealer_id":  event.DealerID.String(),
			},
		})
		if _, err := result.Get(ctx); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}
