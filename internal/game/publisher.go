package game

import (
	"context"
	"errors"
	"time"

	"github.com/pixil98/go-tycoon/internal/economy"
	"github.com/pixil98/go-tycoon/internal/events"
)

// PriceUpdate is the wire form of one resource's new prices.
type PriceUpdate struct {
	Resource  economy.ResourceType `json:"resource"`
	Baseline  int                  `json:"baseline"`
	BuyPrice  int                  `json:"buyPrice"`
	SellPrice int                  `json:"sellPrice"`
	Timestamp time.Time            `json:"timestamp"`
}

// EventNotification is the wire form of an event transition.
type EventNotification struct {
	EventID         int               `json:"eventId"`
	Type            events.EventType  `json:"type"`
	Category        events.Category   `json:"category"`
	Severity        int               `json:"severity"`
	CyclesRemaining *int              `json:"cyclesRemaining"`
	Payload         events.Payload    `json:"payload"`
	TriggeredAt     time.Time         `json:"triggeredAt"`
	Status          events.Status     `json:"status"`
	Kind            events.ChangeKind `json:"kind"`
	Team            string            `json:"team,omitempty"`
	Message         string            `json:"message,omitempty"`
}

// PriceRecord is one committed price point for durable storage.
type PriceRecord struct {
	Resource economy.ResourceType
	Point    economy.PricePoint
}

// Publisher delivers notifications to whoever is watching a game.
type Publisher interface {
	PublishPrices(ctx context.Context, gameID string, updates []PriceUpdate) error
	PublishEvent(ctx context.Context, gameID string, n EventNotification) error
}

// Recorder stores committed prices and the latest state of event instances.
type Recorder interface {
	RecordPrices(ctx context.Context, gameID string, records []PriceRecord) error
	RecordEvent(ctx context.Context, gameID string, inst *events.Instance) error
}

// Publishers fans notifications out to several publishers. Every publisher
// is tried; the errors are joined.
type Publishers []Publisher

func (ps Publishers) PublishPrices(ctx context.Context, gameID string, updates []PriceUpdate) error {
	var errs []error
	for _, p := range ps {
		if err := p.PublishPrices(ctx, gameID, updates); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (ps Publishers) PublishEvent(ctx context.Context, gameID string, n EventNotification) error {
	var errs []error
	for _, p := range ps {
		if err := p.PublishEvent(ctx, gameID, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func newPriceUpdate(res economy.ResourceType, baseline int, p economy.PricePoint) PriceUpdate {
	return PriceUpdate{
		Resource:  res,
		Baseline:  baseline,
		BuyPrice:  p.BuyPrice,
		SellPrice: p.SellPrice,
		Timestamp: p.Timestamp,
	}
}

func newEventNotification(ch events.Change, message string) EventNotification {
	inst := ch.Instance
	return EventNotification{
		EventID:         inst.ID,
		Type:            inst.Type,
		Category:        inst.Category,
		Severity:        inst.Severity,
		CyclesRemaining: inst.CyclesRemaining,
		Payload:         inst.Payload,
		TriggeredAt:     inst.TriggeredAt,
		Status:          inst.Status,
		Kind:            ch.Kind,
		Team:            ch.Team,
		Message:         message,
	}
}
