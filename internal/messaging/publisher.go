package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pixil98/go-tycoon/internal/game"
)

// Broker is the publishing side of a message broker.
type Broker interface {
	Publish(subject string, data []byte) error
}

// NatsPublisher broadcasts game notifications on per-game subjects.
type NatsPublisher struct {
	broker Broker
}

func NewNatsPublisher(broker Broker) *NatsPublisher {
	return &NatsPublisher{broker: broker}
}

// PublishPrices sends one message holding the whole batch.
func (p *NatsPublisher) PublishPrices(_ context.Context, gameID string, updates []game.PriceUpdate) error {
	b, err := json.Marshal(updates)
	if err != nil {
		return fmt.Errorf("marshalling price updates: %w", err)
	}
	return p.broker.Publish(Subject(gameID, LeafPrices), b)
}

func (p *NatsPublisher) PublishEvent(_ context.Context, gameID string, n game.EventNotification) error {
	b, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshalling event notification: %w", err)
	}
	return p.broker.Publish(Subject(gameID, LeafEvents), b)
}
