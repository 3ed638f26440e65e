package events

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/pixil98/go-tycoon/internal/economy"
)

// Payload carries the per-type data of an instance. The set of
// implementations is closed; DecodePayload must know every one.
type Payload interface {
	EventType() EventType
	clone() Payload
}

// BuildingLoss records buildings one team lost.
type BuildingLoss struct {
	Team      string                       `json:"team"`
	Destroyed map[economy.BuildingKind]int `json:"destroyed"`
}

// ResourceLoss records resources one team lost.
type ResourceLoss struct {
	Team string                       `json:"team"`
	Lost map[economy.ResourceType]int `json:"lost"`
}

type EarthquakePayload struct {
	Losses []BuildingLoss `json:"losses"`
}

func (*EarthquakePayload) EventType() EventType { return TypeEarthquake }

func (p *EarthquakePayload) clone() Payload {
	return &EarthquakePayload{Losses: cloneBuildingLosses(p.Losses)}
}

type FirePayload struct {
	Losses []BuildingLoss `json:"losses"`
}

func (*FirePayload) EventType() EventType { return TypeFire }

func (p *FirePayload) clone() Payload {
	return &FirePayload{Losses: cloneBuildingLosses(p.Losses)}
}

type DroughtPayload struct {
	// OutputMultiplier is the farm and mine output before difficulty and
	// infrastructure are applied.
	OutputMultiplier float64 `json:"output_multiplier"`
}

func (*DroughtPayload) EventType() EventType { return TypeDrought }

func (p *DroughtPayload) clone() Payload {
	c := *p
	return &c
}

type PlaguePayload struct {
	Infected []string `json:"infected"`
	Cured    []string `json:"cured"`
	CureCost int      `json:"cure_cost"`
}

func (*PlaguePayload) EventType() EventType { return TypePlague }

func (p *PlaguePayload) clone() Payload {
	return &PlaguePayload{
		Infected: slices.Clone(p.Infected),
		Cured:    slices.Clone(p.Cured),
		CureCost: p.CureCost,
	}
}

type BlizzardPayload struct {
	FoodTaxMultiplier float64 `json:"food_tax_multiplier"`
	ProductionPenalty float64 `json:"production_penalty"`
}

func (*BlizzardPayload) EventType() EventType { return TypeBlizzard }

func (p *BlizzardPayload) clone() Payload {
	c := *p
	return &c
}

type TornadoPayload struct {
	Losses []ResourceLoss `json:"losses"`
}

func (*TornadoPayload) EventType() EventType { return TypeTornado }

func (p *TornadoPayload) clone() Payload {
	losses := make([]ResourceLoss, len(p.Losses))
	for i, l := range p.Losses {
		losses[i] = ResourceLoss{Team: l.Team, Lost: maps.Clone(l.Lost)}
	}
	return &TornadoPayload{Losses: losses}
}

type RecessionPayload struct {
	PriceBias float64 `json:"price_bias"`
	// BuildingCostIncrease is the cost increase before infrastructure.
	BuildingCostIncrease float64 `json:"building_cost_increase"`
}

func (*RecessionPayload) EventType() EventType { return TypeEconomicRecession }

func (p *RecessionPayload) clone() Payload {
	c := *p
	return &c
}

type AutomationPayload struct {
	TargetTeam       string  `json:"target_team"`
	PaymentCost      int     `json:"payment_cost"`
	Paid             bool    `json:"paid"`
	Lapsed           bool    `json:"lapsed"`
	OutputMultiplier float64 `json:"output_multiplier"`
}

func (*AutomationPayload) EventType() EventType { return TypeAutomationBreakthrough }

func (p *AutomationPayload) clone() Payload {
	c := *p
	return &c
}

// DecodePayload parses the JSON payload of an instance of the given type.
func DecodePayload(t EventType, raw []byte) (Payload, error) {
	var p Payload
	switch t {
	case TypeEarthquake:
		p = &EarthquakePayload{}
	case TypeFire:
		p = &FirePayload{}
	case TypeDrought:
		p = &DroughtPayload{}
	case TypePlague:
		p = &PlaguePayload{}
	case TypeBlizzard:
		p = &BlizzardPayload{}
	case TypeTornado:
		p = &TornadoPayload{}
	case TypeEconomicRecession:
		p = &RecessionPayload{}
	case TypeAutomationBreakthrough:
		p = &AutomationPayload{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, t)
	}

	if len(raw) == 0 {
		return p, nil
	}
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, fmt.Errorf("decoding %s payload: %w", t, err)
	}
	return p, nil
}

func cloneBuildingLosses(in []BuildingLoss) []BuildingLoss {
	out := make([]BuildingLoss, len(in))
	for i, l := range in {
		out[i] = BuildingLoss{Team: l.Team, Destroyed: maps.Clone(l.Destroyed)}
	}
	return out
}
