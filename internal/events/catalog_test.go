package events

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pixil98/go-testutil"
	"github.com/pixil98/go-tycoon/internal/economy"
)

func TestDefaultCatalog_Valid(t *testing.T) {
	if err := DefaultCatalog().Validate(); err != nil {
		t.Fatalf("default catalog invalid: %v", err)
	}
}

func TestLoadCatalog(t *testing.T) {
	tests := map[string]struct {
		yaml   string
		expErr string
		check  func(t *testing.T, c *Catalog)
	}{
		"overlay keeps defaults": {
			yaml: "earthquake:\n  max_per_team: 3\nfire:\n  headline: \"Blaze!\"\n",
			check: func(t *testing.T, c *Catalog) {
				testutil.AssertEqual(t, "max per team", c.Earthquake.MaxPerTeam, 3)
				testutil.AssertEqual(t, "buildings per severity", c.Earthquake.BuildingsPerSeverity, 1.0)
				testutil.AssertEqual(t, "fire headline", c.Common(TypeFire).Headline, "Blaze!")
				testutil.AssertEqual(t, "fire destroy", c.Fire.DestroyPerSeverity, 0.2)
			},
		},
		"price rule override": {
			yaml: "tornado:\n  price:\n    resource: raw_materials\n    per_severity: 0.2\n",
			check: func(t *testing.T, c *Catalog) {
				testutil.AssertEqual(t, "resource", c.Tornado.Price.Resource, string(economy.ResourceRawMaterials))
				testutil.AssertEqual(t, "per severity", c.Tornado.Price.PerSeverity, 0.2)
			},
		},
		"difficulty table": {
			yaml: "blizzard:\n  production_penalty:\n    hard: 0.5\n",
			check: func(t *testing.T, c *Catalog) {
				testutil.AssertEqual(t, "hard", c.Blizzard.ProductionPenalty.For(economy.DifficultyHard), 0.5)
				testutil.AssertEqual(t, "easy", c.Blizzard.ProductionPenalty.For(economy.DifficultyEasy), 0.1)
			},
		},
		"unknown price resource": {
			yaml:   "drought:\n  price:\n    resource: water\n",
			expErr: "unknown resource",
		},
		"plague bounds inverted": {
			yaml:   "plague:\n  min_infected: 3\n  max_infected: 2\n",
			expErr: "plague max infected",
		},
		"negative mitigation": {
			yaml:   "fire:\n  mitigation_per_building: -1\n",
			expErr: "fire mitigation must not be negative",
		},
		"bad yaml": {
			yaml:   "earthquake: [",
			expErr: "parsing catalog",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "catalog.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatalf("writing catalog: %v", err)
			}

			c, err := LoadCatalog(path)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, c)
		})
	}
}

func TestLoadCatalog_Missing(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml"))
	testutil.AssertErrorContains(t, err, "reading catalog")
}

func TestEngine_CatalogTuning(t *testing.T) {
	c := DefaultCatalog()
	c.Tornado.LossPerSeverity = 0.5

	teams := newFakeTeams("red")
	teams.resources["red"][economy.ResourceFood] = 10

	e := NewEngine(economy.DifficultyNormal, teams, WithCatalog(c))
	mustTrigger(t, e, Trigger{Type: TypeTornado, Severity: 1})

	testutil.AssertEqual(t, "food", teams.ResourceAmount("red", economy.ResourceFood), 5)
}
