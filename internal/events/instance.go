package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pixil98/go-tycoon/internal/economy"
)

// PriceEffect is the bias an active instance adds to price movement. An empty
// Resource applies to every resource.
type PriceEffect struct {
	Resource economy.ResourceType `json:"resource,omitempty"`
	Bias     float64              `json:"bias"`
}

// AppliesTo reports whether the effect moves the given resource.
func (p PriceEffect) AppliesTo(res economy.ResourceType) bool {
	return p.Resource == "" || p.Resource == res
}

// Instance is one triggered event.
type Instance struct {
	ID                 int         `json:"id"`
	Type               EventType   `json:"type"`
	Category           Category    `json:"category"`
	Severity           int         `json:"severity"`
	DifficultyModifier float64     `json:"difficulty_modifier"`
	Status             Status      `json:"status"`
	DurationCycles     *int        `json:"duration_cycles,omitempty"`
	CyclesRemaining    *int        `json:"cycles_remaining,omitempty"`
	PriceEffect        PriceEffect `json:"price_effect"`
	Payload            Payload     `json:"payload"`
	TriggeredAt        time.Time   `json:"triggered_at"`
	EndedAt            *time.Time  `json:"ended_at,omitempty"`
}

// Clone returns a copy sharing no mutable state with i.
func (i *Instance) Clone() *Instance {
	c := *i
	c.DurationCycles = clonePtr(i.DurationCycles)
	c.CyclesRemaining = clonePtr(i.CyclesRemaining)
	c.EndedAt = clonePtr(i.EndedAt)
	if i.Payload != nil {
		c.Payload = i.Payload.clone()
	}
	return &c
}

// InEffect reports whether the instance currently contributes modifiers.
func (i *Instance) InEffect() bool {
	if i.Status != StatusActive {
		return false
	}
	if p, ok := i.Payload.(*AutomationPayload); ok {
		return p.Paid
	}
	return true
}

func (i *Instance) end(status Status, at time.Time) {
	i.Status = status
	i.EndedAt = &at
	if i.CyclesRemaining != nil {
		zero := 0
		i.CyclesRemaining = &zero
	}
}

func (i *Instance) UnmarshalJSON(data []byte) error {
	type alias Instance
	aux := struct {
		*alias
		Payload json.RawMessage `json:"payload"`
	}{alias: (*alias)(i)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	p, err := DecodePayload(i.Type, aux.Payload)
	if err != nil {
		return fmt.Errorf("event %d: %w", i.ID, err)
	}
	i.Payload = p
	return nil
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
