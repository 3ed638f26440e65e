package events

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"
	"gopkg.in/yaml.v3"

	"github.com/pixil98/go-tycoon/internal/economy"
)

// PriceRule is the price bias an event type contributes while in effect,
// scaled by severity and difficulty. An empty resource biases every resource.
type PriceRule struct {
	Resource    string  `yaml:"resource"`
	PerSeverity float64 `yaml:"per_severity"`
}

// Common holds the fields every event type carries.
type Common struct {
	Headline string    `yaml:"headline"`
	Price    PriceRule `yaml:"price"`
}

type EarthquakeParams struct {
	Common                `yaml:",inline"`
	BuildingsPerSeverity  float64 `yaml:"buildings_per_severity"`
	MaxPerTeam            int     `yaml:"max_per_team"`
	MitigationPerBuilding float64 `yaml:"mitigation_per_building"`
}

type FireParams struct {
	Common                `yaml:",inline"`
	DestroyPerSeverity    float64 `yaml:"destroy_per_severity"`
	MitigationPerBuilding float64 `yaml:"mitigation_per_building"`
}

type DroughtParams struct {
	Common                `yaml:",inline"`
	DurationCycles        int     `yaml:"duration_cycles"`
	BaseOutput            float64 `yaml:"base_output"`
	SeverityStep          float64 `yaml:"severity_step"`
	MitigationPerBuilding float64 `yaml:"mitigation_per_building"`
}

type PlagueParams struct {
	Common                `yaml:",inline"`
	MinInfected           int     `yaml:"min_infected"`
	MaxInfected           int     `yaml:"max_infected"`
	PenaltyPerSeverity    float64 `yaml:"penalty_per_severity"`
	MitigationPerBuilding float64 `yaml:"mitigation_per_building"`
	CureCostPerSeverity   float64 `yaml:"cure_cost_per_severity"`
}

// DifficultyTable holds one value per difficulty.
type DifficultyTable struct {
	Easy   float64 `yaml:"easy"`
	Normal float64 `yaml:"normal"`
	Hard   float64 `yaml:"hard"`
}

func (t DifficultyTable) For(d economy.Difficulty) float64 {
	switch d {
	case economy.DifficultyEasy:
		return t.Easy
	case economy.DifficultyHard:
		return t.Hard
	default:
		return t.Normal
	}
}

type BlizzardParams struct {
	Common                `yaml:",inline"`
	DurationCycles        int             `yaml:"duration_cycles"`
	FoodTaxPerSeverity    float64         `yaml:"food_tax_per_severity"`
	ProductionPenalty     DifficultyTable `yaml:"production_penalty"`
	MitigationPerBuilding float64         `yaml:"mitigation_per_building"`
}

type TornadoParams struct {
	Common                `yaml:",inline"`
	LossPerSeverity       float64 `yaml:"loss_per_severity"`
	MitigationPerBuilding float64 `yaml:"mitigation_per_building"`
}

type RecessionParams struct {
	Common                  `yaml:",inline"`
	BaseDurationCycles      int     `yaml:"base_duration_cycles"`
	BuildingCostPerSeverity float64 `yaml:"building_cost_per_severity"`
	MitigationPerBuilding   float64 `yaml:"mitigation_per_building"`
}

type AutomationParams struct {
	Common               `yaml:",inline"`
	PaymentPerDifficulty float64 `yaml:"payment_per_difficulty"`
	PaymentDeadline      int     `yaml:"payment_deadline_cycles"`
	DurationCycles       int     `yaml:"duration_cycles"`
	BoostPerSeverity     float64 `yaml:"boost_per_severity"`
}

// Catalog holds the tunable parameters of every event type.
type Catalog struct {
	Earthquake EarthquakeParams `yaml:"earthquake"`
	Fire       FireParams       `yaml:"fire"`
	Drought    DroughtParams    `yaml:"drought"`
	Plague     PlagueParams     `yaml:"plague"`
	Blizzard   BlizzardParams   `yaml:"blizzard"`
	Tornado    TornadoParams    `yaml:"tornado"`
	Recession  RecessionParams  `yaml:"economic_recession"`
	Automation AutomationParams `yaml:"automation_breakthrough"`
}

func DefaultCatalog() *Catalog {
	return &Catalog{
		Earthquake: EarthquakeParams{
			Common:                Common{Headline: `Earthquake (severity {{ .Severity }}) levels {{ .Destroyed }} {{ if eq .Destroyed 1 }}building{{ else }}buildings{{ end }}`},
			BuildingsPerSeverity:  1,
			MaxPerTeam:            5,
			MitigationPerBuilding: 0.2,
		},
		Fire: FireParams{
			Common:                Common{Headline: `Fire (severity {{ .Severity }}) guts {{ .Destroyed }} electrical {{ if eq .Destroyed 1 }}factory{{ else }}factories{{ end }}`},
			DestroyPerSeverity:    0.2,
			MitigationPerBuilding: 0.2,
		},
		Drought: DroughtParams{
			Common: Common{
				Headline: `Drought (severity {{ .Severity }}) withers farms and mines for {{ .Duration }} cycles`,
				Price:    PriceRule{Resource: string(economy.ResourceFood), PerSeverity: 0.1},
			},
			DurationCycles:        2,
			BaseOutput:            0.5,
			SeverityStep:          0.1,
			MitigationPerBuilding: 0.2,
		},
		Plague: PlagueParams{
			Common: Common{
				Headline: `Plague (severity {{ .Severity }}) strikes {{ .Teams | join ", " }}`,
				Price:    PriceRule{Resource: string(economy.ResourceMedicalGoods), PerSeverity: 0.1},
			},
			MinInfected:           1,
			MaxInfected:           2,
			PenaltyPerSeverity:    0.3,
			MitigationPerBuilding: 0.2,
			CureCostPerSeverity:   10,
		},
		Blizzard: BlizzardParams{
			Common:                Common{Headline: `Blizzard (severity {{ .Severity }}) buries the map for {{ .Duration }} cycles`},
			DurationCycles:        2,
			FoodTaxPerSeverity:    2,
			ProductionPenalty:     DifficultyTable{Easy: 0.1, Normal: 0.2, Hard: 0.3},
			MitigationPerBuilding: 0.1,
		},
		Tornado: TornadoParams{
			Common:                Common{Headline: `Tornado (severity {{ .Severity }}) scatters stockpiles`},
			LossPerSeverity:       0.15,
			MitigationPerBuilding: 0.2,
		},
		Recession: RecessionParams{
			Common: Common{
				Headline: `Economic recession (severity {{ .Severity }}) {{ if .Duration }}grips the market for {{ .Duration }} {{ if eq .Duration 1 }}cycle{{ else }}cycles{{ end }}{{ else }}passes as quickly as it came{{ end }}`,
				Price:    PriceRule{PerSeverity: 0.5},
			},
			BaseDurationCycles:      2,
			BuildingCostPerSeverity: 0.25,
			MitigationPerBuilding:   0.2,
		},
		Automation: AutomationParams{
			Common:               Common{Headline: `Automation breakthrough offered to {{ .Teams | join ", " }}`},
			PaymentPerDifficulty: 30,
			PaymentDeadline:      1,
			DurationCycles:       2,
			BoostPerSeverity:     0.5,
		},
	}
}

// LoadCatalog overlays the YAML file at path onto the default catalog.
func LoadCatalog(path string) (*Catalog, error) {
	c := DefaultCatalog()

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validating catalog: %w", err)
	}

	return c, nil
}

// Common returns the shared fields for t.
func (c *Catalog) Common(t EventType) Common {
	switch t {
	case TypeEarthquake:
		return c.Earthquake.Common
	case TypeFire:
		return c.Fire.Common
	case TypeDrought:
		return c.Drought.Common
	case TypePlague:
		return c.Plague.Common
	case TypeBlizzard:
		return c.Blizzard.Common
	case TypeTornado:
		return c.Tornado.Common
	case TypeEconomicRecession:
		return c.Recession.Common
	case TypeAutomationBreakthrough:
		return c.Automation.Common
	}
	return Common{}
}

func (c *Catalog) Validate() error {
	el := errors.NewErrorList()

	for _, t := range Types {
		cm := c.Common(t)
		if cm.Price.Resource != "" {
			if _, err := economy.ParseResourceType(cm.Price.Resource); err != nil {
				el.Add(fmt.Errorf("%s price: %w", t, err))
			}
		}
	}

	nonNegative := map[string]float64{
		"earthquake buildings per severity": c.Earthquake.BuildingsPerSeverity,
		"earthquake mitigation":             c.Earthquake.MitigationPerBuilding,
		"fire destroy per severity":         c.Fire.DestroyPerSeverity,
		"fire mitigation":                   c.Fire.MitigationPerBuilding,
		"drought mitigation":                c.Drought.MitigationPerBuilding,
		"plague penalty per severity":       c.Plague.PenaltyPerSeverity,
		"plague mitigation":                 c.Plague.MitigationPerBuilding,
		"plague cure cost":                  c.Plague.CureCostPerSeverity,
		"blizzard food tax":                 c.Blizzard.FoodTaxPerSeverity,
		"blizzard mitigation":               c.Blizzard.MitigationPerBuilding,
		"tornado loss per severity":         c.Tornado.LossPerSeverity,
		"tornado mitigation":                c.Tornado.MitigationPerBuilding,
		"recession building cost":           c.Recession.BuildingCostPerSeverity,
		"recession mitigation":              c.Recession.MitigationPerBuilding,
		"automation payment":                c.Automation.PaymentPerDifficulty,
		"automation boost per severity":     c.Automation.BoostPerSeverity,
	}
	for name, v := range nonNegative {
		if v < 0 {
			el.Add(fmt.Errorf("%s must not be negative", name))
		}
	}

	if c.Earthquake.MaxPerTeam < 0 {
		el.Add(fmt.Errorf("earthquake max per team must not be negative"))
	}
	if c.Drought.DurationCycles < 1 {
		el.Add(fmt.Errorf("drought duration must be at least 1 cycle"))
	}
	if c.Drought.BaseOutput < 0 || c.Drought.BaseOutput > 1 {
		el.Add(fmt.Errorf("drought base output must be between 0 and 1"))
	}
	if c.Plague.MinInfected < 1 {
		el.Add(fmt.Errorf("plague must infect at least 1 team"))
	}
	if c.Plague.MaxInfected < c.Plague.MinInfected {
		el.Add(fmt.Errorf("plague max infected must not be below min infected"))
	}
	if c.Blizzard.DurationCycles < 1 {
		el.Add(fmt.Errorf("blizzard duration must be at least 1 cycle"))
	}
	for _, d := range []economy.Difficulty{economy.DifficultyEasy, economy.DifficultyNormal, economy.DifficultyHard} {
		if p := c.Blizzard.ProductionPenalty.For(d); p < 0 || p > 1 {
			el.Add(fmt.Errorf("blizzard production penalty for %s must be between 0 and 1", d))
		}
	}
	if c.Recession.BaseDurationCycles < 0 {
		el.Add(fmt.Errorf("recession base duration must not be negative"))
	}
	if c.Automation.PaymentDeadline < 1 {
		el.Add(fmt.Errorf("automation payment deadline must be at least 1 cycle"))
	}
	if c.Automation.DurationCycles < 1 {
		el.Add(fmt.Errorf("automation duration must be at least 1 cycle"))
	}

	return el.Err()
}
