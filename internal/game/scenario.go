package game

import (
	"fmt"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-tycoon/internal/economy"
	"github.com/pixil98/go-tycoon/internal/teams"
)

// Scenario describes a game to create at startup.
type Scenario struct {
	Name       string                       `json:"name"`
	Difficulty economy.Difficulty           `json:"difficulty"`
	Baselines  map[economy.ResourceType]int `json:"baselines,omitempty"`
	Teams      []teams.Team                 `json:"teams"`
	AutoStart  bool                         `json:"auto_start"`
	Seed       *uint64                      `json:"seed,omitempty"`
}

func (s *Scenario) Validate() error {
	el := errors.NewErrorList()

	if s.Difficulty != "" {
		if _, err := economy.ParseDifficulty(string(s.Difficulty)); err != nil {
			el.Add(err)
		}
	}

	for res, b := range s.Baselines {
		if _, err := economy.NewResourcePriceState(res, b, 1); err != nil {
			el.Add(fmt.Errorf("baseline %s: %w", res, err))
		}
	}

	seen := map[string]bool{}
	for i, t := range s.Teams {
		if t.ID == "" {
			el.Add(fmt.Errorf("team %d: id must be set", i))
			continue
		}
		if seen[t.ID] {
			el.Add(fmt.Errorf("team %q: duplicate id", t.ID))
		}
		seen[t.ID] = true
	}

	return el.Err()
}

// Roster builds the team holdings the scenario starts with.
func (s *Scenario) Roster() (*teams.Roster, error) {
	r := teams.NewRoster()
	for _, t := range s.Teams {
		if err := r.AddTeam(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// SessionOpts returns the options that configure a session for the scenario.
func (s *Scenario) SessionOpts() []SessionOpt {
	opts := []SessionOpt{WithName(s.Name)}
	if s.Difficulty != "" {
		opts = append(opts, WithDifficulty(s.Difficulty))
	}
	if len(s.Baselines) > 0 {
		opts = append(opts, WithBaselines(s.Baselines))
	}
	if s.Seed != nil {
		opts = append(opts, WithRandomSource(economy.NewSeededRNG(*s.Seed)))
	}
	return opts
}
