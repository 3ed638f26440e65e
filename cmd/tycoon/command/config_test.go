package command

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"

	"github.com/pixil98/go-tycoon/internal/events"
	"github.com/pixil98/go-tycoon/internal/game"
)

func TestConfig_Validate(t *testing.T) {
	tests := map[string]struct {
		json   string
		expErr string
	}{
		"empty config uses defaults": {
			json: `{}`,
		},
		"full config": {
			json: `{
				"tick_interval": "500ms",
				"tax_cycle_interval": "2m",
				"history_limit": 500,
				"pricing": {"change_probability": 0.5, "momentum_window": "1m"},
				"events": {"headline_width": 60},
				"nats": {"host": "127.0.0.1", "port": -1, "start_timeout": "5s"},
				"websocket": {"addr": ":0", "write_timeout": "2s", "queue_size": 16}
			}`,
		},
		"bad tick interval": {
			json:   `{"tick_interval": "soon"}`,
			expErr: "parsing tick_interval",
		},
		"tick interval too short": {
			json:   `{"tick_interval": "1ms"}`,
			expErr: "at least 10ms",
		},
		"negative tax cycle": {
			json:   `{"tax_cycle_interval": "-1m"}`,
			expErr: "tax_cycle_interval must be positive",
		},
		"negative history limit": {
			json:   `{"history_limit": -1}`,
			expErr: "history_limit must not be negative",
		},
		"bad pricing probability": {
			json:   `{"pricing": {"change_probability": 2}}`,
			expErr: "change probability 2 must be within [0, 1]",
		},
		"bad pricing duration": {
			json:   `{"pricing": {"reversion_horizon": "forever"}}`,
			expErr: "parsing reversion_horizon",
		},
		"missing catalog": {
			json:   `{"events": {"catalog_path": "/nonexistent/catalog.yaml"}}`,
			expErr: "invalid catalog_path",
		},
		"missing scenarios": {
			json:   `{"storage": {"scenarios": {"path": "/nonexistent/scenarios"}}}`,
			expErr: "scenarios: invalid path",
		},
		"bad nats timeout": {
			json:   `{"nats": {"start_timeout": "later"}}`,
			expErr: "parsing start_timeout",
		},
		"bad websocket queue": {
			json:   `{"websocket": {"queue_size": -4}}`,
			expErr: "queue_size must not be negative",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var cfg Config
			if err := json.Unmarshal([]byte(tt.json), &cfg); err != nil {
				t.Fatalf("decoding config: %v", err)
			}

			err := cfg.Validate()
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

func TestPricingConfig_Build(t *testing.T) {
	p := 0.25
	c := PricingConfig{ChangeProbability: &p, MomentumWindow: "30s"}

	cfg, err := c.build(2 * time.Second)
	if err != nil {
		t.Fatalf("building: %v", err)
	}
	testutil.AssertEqual(t, "change probability", cfg.ChangeProbability, 0.25)
	testutil.AssertEqual(t, "momentum window", cfg.MomentumWindow, 30*time.Second)
	testutil.AssertEqual(t, "tick interval", cfg.TickInterval, 2*time.Second)
	testutil.AssertEqual(t, "max step default", cfg.MaxStep, 0.02)
}

func TestEventsConfig_BuildHeadlines(t *testing.T) {
	duration := 3
	inst := &events.Instance{Type: events.TypeBlizzard, Severity: 2, DurationCycles: &duration}

	tests := map[string]struct {
		width int
		exp   string
	}{
		"default": {
			width: 0,
			exp:   "Blizzard (severity 2) buries the map for 3 cycles",
		},
		"narrow": {
			width: 24,
			exp:   "Blizzard (severity 2)\nburies the map for 3\ncycles",
		},
		"unwrapped": {
			width: -1,
			exp:   "Blizzard (severity 2) buries the map for 3 cycles",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c := EventsConfig{HeadlineWidth: tt.width}
			h, err := c.buildHeadlines(events.DefaultCatalog())
			if err != nil {
				t.Fatalf("building headlines: %v", err)
			}
			testutil.AssertEqual(t, "headline", h.Render(inst), tt.exp)
		})
	}
}

func TestBuildWorkers(t *testing.T) {
	dir := t.TempDir()
	scenarios := filepath.Join(dir, "scenarios")
	if err := os.Mkdir(scenarios, 0o755); err != nil {
		t.Fatalf("creating scenario dir: %v", err)
	}
	asset := `{"version": 1, "id": "league", "spec": {"name": "League", "auto_start": true, "teams": [{"id": "red"}]}}`
	if err := os.WriteFile(filepath.Join(scenarios, "league.json"), []byte(asset), 0o644); err != nil {
		t.Fatalf("writing scenario: %v", err)
	}

	cfg := &Config{
		Nats:      NatsConfig{Port: -1},
		Storage:   StorageConfig{Scenarios: AssetConfig[*game.Scenario]{Path: scenarios}, Results: AssetConfig[*game.GameResult]{Path: filepath.Join(dir, "results")}},
		Database:  DatabaseConfig{Path: filepath.Join(dir, "tycoon.db")},
		Audit:     AuditConfig{Dir: filepath.Join(dir, "audit")},
		WebSocket: WebSocketConfig{Addr: "127.0.0.1:0"},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validating: %v", err)
	}

	workers, err := BuildWorkers(cfg)
	if err != nil {
		t.Fatalf("building workers: %v", err)
	}

	for _, name := range []string{"nats", "audit", "database", "scheduler", "router", "websocket"} {
		_, ok := workers[name]
		testutil.AssertEqual(t, name+" worker", ok, true)
	}

	if db, ok := workers["database"].(*closer); ok {
		_ = db.c.Close()
	}

	_, err = os.Stat(filepath.Join(dir, "results"))
	testutil.AssertEqual(t, "results dir created", err == nil, true)
}

func TestBuildWorkers_WrongConfig(t *testing.T) {
	_, err := BuildWorkers("config")
	testutil.AssertErrorContains(t, err, "unable to cast config")
}
