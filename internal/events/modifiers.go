package events

import (
	"slices"

	"github.com/pixil98/go-tycoon/internal/economy"
)

// EventBias sums the price bias of every instance in effect that moves res.
func (e *Engine) EventBias(res economy.ResourceType) float64 {
	bias := 0.0
	for _, inst := range e.active {
		if inst.InEffect() && inst.PriceEffect.AppliesTo(res) {
			bias += inst.PriceEffect.Bias
		}
	}
	return bias
}

// ProductionModifier is the multiplier applied to the output of a team's
// buildings of the given kind. Non-producing kinds always get 1.
func (e *Engine) ProductionModifier(team string, kind economy.BuildingKind) float64 {
	if _, ok := kind.Produces(); !ok {
		return 1
	}

	m := 1.0
	for _, inst := range e.active {
		if !inst.InEffect() {
			continue
		}

		switch p := inst.Payload.(type) {
		case *DroughtPayload:
			if kind != economy.BuildingFarm && kind != economy.BuildingMine {
				continue
			}
			mit := economy.Mitigation(e.teams.BuildingCount(team, economy.BuildingInfrastructure), e.catalog.Drought.MitigationPerBuilding)
			m *= 1 - economy.Clamp01((1-p.OutputMultiplier)*inst.DifficultyModifier*(1-mit))
		case *PlaguePayload:
			if !slices.Contains(p.Infected, team) {
				continue
			}
			mit := economy.Mitigation(e.teams.BuildingCount(team, economy.BuildingHospital), e.catalog.Plague.MitigationPerBuilding)
			m *= 1 - economy.Clamp01(economy.Effect(e.catalog.Plague.PenaltyPerSeverity, inst.Severity, inst.DifficultyModifier, mit))
		case *BlizzardPayload:
			mit := economy.Mitigation(e.teams.BuildingCount(team, economy.BuildingInfrastructure), e.catalog.Blizzard.MitigationPerBuilding)
			m *= 1 - p.ProductionPenalty*(1-mit)
		case *AutomationPayload:
			if p.TargetTeam != team {
				continue
			}
			if kind == economy.BuildingElectricalFactory || kind == economy.BuildingMedicalFactory {
				m *= p.OutputMultiplier
			}
		}
	}

	return max(0, m)
}

// TaxModifier is the multiplier applied to a team's tax in res.
func (e *Engine) TaxModifier(team string, res economy.ResourceType) float64 {
	m := 1.0
	for _, inst := range e.active {
		if !inst.InEffect() {
			continue
		}
		if p, ok := inst.Payload.(*BlizzardPayload); ok && res == economy.ResourceFood {
			m *= p.FoodTaxMultiplier
		}
	}
	return m
}

// BuildingCostModifier is the multiplier applied to what team pays to build.
func (e *Engine) BuildingCostModifier(team string) float64 {
	m := 1.0
	for _, inst := range e.active {
		if !inst.InEffect() || inst.Type != TypeEconomicRecession {
			continue
		}
		mit := economy.Mitigation(e.teams.BuildingCount(team, economy.BuildingInfrastructure), e.catalog.Recession.MitigationPerBuilding)
		m *= 1 + economy.Effect(e.catalog.Recession.BuildingCostPerSeverity, inst.Severity, inst.DifficultyModifier, mit)
	}
	return m
}

// IsInfected reports whether team is infected by any active plague.
func (e *Engine) IsInfected(team string) bool {
	for _, inst := range e.active {
		if p, ok := inst.Payload.(*PlaguePayload); ok && inst.Status == StatusActive && slices.Contains(p.Infected, team) {
			return true
		}
	}
	return false
}

// Modifiers is every modifier the active events imply for one team.
type Modifiers struct {
	Production   map[economy.BuildingKind]float64 `json:"production"`
	Tax          map[economy.ResourceType]float64 `json:"tax"`
	BuildingCost float64                          `json:"building_cost"`
	Infected     bool                             `json:"infected"`
}

func (e *Engine) Modifiers(team string) Modifiers {
	m := Modifiers{
		Production:   map[economy.BuildingKind]float64{},
		Tax:          map[economy.ResourceType]float64{},
		BuildingCost: e.BuildingCostModifier(team),
		Infected:     e.IsInfected(team),
	}
	for _, kind := range economy.ProductionBuildings {
		m.Production[kind] = e.ProductionModifier(team, kind)
	}
	for _, res := range economy.Resources {
		m.Tax[res] = e.TaxModifier(team, res)
	}
	return m
}

// NeutralModifiers is what a team gets when no event is in play.
func NeutralModifiers() Modifiers {
	m := Modifiers{
		Production:   map[economy.BuildingKind]float64{},
		Tax:          map[economy.ResourceType]float64{},
		BuildingCost: 1,
	}
	for _, kind := range economy.ProductionBuildings {
		m.Production[kind] = 1
	}
	for _, res := range economy.Resources {
		m.Tax[res] = 1
	}
	return m
}
