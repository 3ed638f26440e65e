package game

import (
	"encoding/json"
	"testing"

	"github.com/pixil98/go-testutil"
	"github.com/pixil98/go-tycoon/internal/economy"
	"github.com/pixil98/go-tycoon/internal/teams"
)

func TestScenario_Validate(t *testing.T) {
	tests := map[string]struct {
		scenario Scenario
		expErr   string
	}{
		"valid": {
			scenario: Scenario{
				Difficulty: economy.DifficultyHard,
				Baselines:  map[economy.ResourceType]int{economy.ResourceFood: 30},
				Teams:      []teams.Team{{ID: "a"}, {ID: "b"}},
			},
		},
		"empty": {},
		"bad difficulty": {
			scenario: Scenario{Difficulty: "brutal"},
			expErr:   "unknown difficulty",
		},
		"bad baseline": {
			scenario: Scenario{Baselines: map[economy.ResourceType]int{economy.ResourceFood: 3}},
			expErr:   "baseline food",
		},
		"missing team id": {
			scenario: Scenario{Teams: []teams.Team{{Name: "Nameless"}}},
			expErr:   "id must be set",
		},
		"duplicate team": {
			scenario: Scenario{Teams: []teams.Team{{ID: "a"}, {ID: "a"}}},
			expErr:   "duplicate id",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.scenario.Validate()
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestScenario_Decode(t *testing.T) {
	raw := `{
	  "name": "Finals",
	  "difficulty": "hard",
	  "baselines": {"food": 25},
	  "teams": [{"id": "red", "buildings": {"farm": 2}, "resources": {"food": 40}}],
	  "auto_start": true
	}`

	var sc Scenario
	if err := json.Unmarshal([]byte(raw), &sc); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if err := sc.Validate(); err != nil {
		t.Fatalf("validating: %v", err)
	}

	roster, err := sc.Roster()
	if err != nil {
		t.Fatalf("building roster: %v", err)
	}
	testutil.AssertEqual(t, "farms", roster.BuildingCount("red", economy.BuildingFarm), 2)
	testutil.AssertEqual(t, "food", roster.ResourceAmount("red", economy.ResourceFood), 40)

	s, err := NewSession("finals", roster, sc.SessionOpts()...)
	if err != nil {
		t.Fatalf("creating session: %v", err)
	}
	testutil.AssertEqual(t, "difficulty", s.Difficulty(), economy.DifficultyHard)
	testutil.AssertEqual(t, "food baseline", s.Snapshot(t0).Prices[0].Baseline, 25)
}

func TestScenario_DecodeRejectsUnknownResource(t *testing.T) {
	var sc Scenario
	err := json.Unmarshal([]byte(`{"baselines": {"gold": 10}}`), &sc)
	testutil.AssertErrorContains(t, err, "unknown resource")
}
