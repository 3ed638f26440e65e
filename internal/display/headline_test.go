package display

import (
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"
	"github.com/pixil98/go-tycoon/internal/economy"
	"github.com/pixil98/go-tycoon/internal/events"
)

func cycles(n int) *int {
	return &n
}

func TestHeadlines_Render(t *testing.T) {
	h, err := NewHeadlines(events.DefaultCatalog())
	if err != nil {
		t.Fatalf("parsing headlines: %v", err)
	}

	tests := map[string]struct {
		inst *events.Instance
		exp  string
	}{
		"earthquake": {
			inst: &events.Instance{
				Type:     events.TypeEarthquake,
				Severity: 3,
				Payload: &events.EarthquakePayload{Losses: []events.BuildingLoss{
					{Team: "red", Destroyed: map[economy.BuildingKind]int{economy.BuildingFarm: 2}},
					{Team: "blue", Destroyed: map[economy.BuildingKind]int{economy.BuildingMine: 1}},
				}},
			},
			exp: "Earthquake (severity 3) levels 3 buildings",
		},
		"fire single factory": {
			inst: &events.Instance{
				Type:     events.TypeFire,
				Severity: 1,
				Payload: &events.FirePayload{Losses: []events.BuildingLoss{
					{Team: "red", Destroyed: map[economy.BuildingKind]int{economy.BuildingElectricalFactory: 1}},
				}},
			},
			exp: "Fire (severity 1) guts 1 electrical factory",
		},
		"plague": {
			inst: &events.Instance{
				Type:     events.TypePlague,
				Severity: 2,
				Payload:  &events.PlaguePayload{Infected: []string{"blue", "red"}},
			},
			exp: "Plague (severity 2) strikes blue, red",
		},
		"drought": {
			inst: &events.Instance{
				Type:           events.TypeDrought,
				Severity:       4,
				DurationCycles: cycles(2),
				Payload:        &events.DroughtPayload{OutputMultiplier: 0.9},
			},
			exp: "Drought (severity 4) withers farms and mines for 2 cycles",
		},
		"recession one cycle": {
			inst: &events.Instance{
				Type:           events.TypeEconomicRecession,
				Severity:       2,
				DurationCycles: cycles(1),
				Payload:        &events.RecessionPayload{},
			},
			exp: "Economic recession (severity 2) grips the market for 1 cycle",
		},
		"recession without duration": {
			inst: &events.Instance{
				Type:           events.TypeEconomicRecession,
				Severity:       1,
				DurationCycles: cycles(0),
				Payload:        &events.RecessionPayload{},
			},
			exp: "Economic recession (severity 1) passes as quickly as it came",
		},
		"automation": {
			inst: &events.Instance{
				Type:     events.TypeAutomationBreakthrough,
				Severity: 3,
				Payload:  &events.AutomationPayload{TargetTeam: "red"},
			},
			exp: "Automation breakthrough offered to red",
		},
		"unknown type": {
			inst: &events.Instance{Type: events.EventType("meteor"), Severity: 5},
			exp:  "Meteor (severity 5)",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "headline", h.Render(tt.inst), tt.exp)
		})
	}
}

func TestNewHeadlines_BadTemplate(t *testing.T) {
	cat := events.DefaultCatalog()
	cat.Tornado.Headline = "{{ .Severity"

	_, err := NewHeadlines(cat)
	testutil.AssertErrorContains(t, err, "parsing tornado headline")
}

func TestHeadlines_RenderFailure(t *testing.T) {
	cat := events.DefaultCatalog()
	cat.Blizzard.Headline = "{{ .Missing }}"

	h, err := NewHeadlines(cat)
	if err != nil {
		t.Fatalf("parsing headlines: %v", err)
	}
	got := h.Render(&events.Instance{Type: events.TypeBlizzard, Severity: 2})
	testutil.AssertEqual(t, "fallback", got, "Blizzard (severity 2)")
}

func TestWrap(t *testing.T) {
	long := strings.Repeat("word ", 30)

	tests := map[string]struct {
		width    int
		expLines int
		maxLine  int
	}{
		"default width": {
			width:    DefaultWidth,
			expLines: 2,
			maxLine:  DefaultWidth,
		},
		"narrow": {
			width:    20,
			expLines: 8,
			maxLine:  20,
		},
		"disabled": {
			width:    0,
			expLines: 1,
			maxLine:  len(long),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			lines := strings.Split(Wrap(long, tt.width), "\n")
			testutil.AssertEqual(t, "lines", len(lines), tt.expLines)
			for _, line := range lines {
				testutil.AssertEqual(t, "line fits", len(line) <= tt.maxLine, true)
			}
		})
	}

	testutil.AssertEqual(t, "capitalize", Capitalize("economic_recession"), "Economic_recession")
	testutil.AssertEqual(t, "capitalize empty", Capitalize(""), "")
}

func TestHeadlines_Width(t *testing.T) {
	inst := &events.Instance{
		Type:     events.TypePlague,
		Severity: 2,
		Payload:  &events.PlaguePayload{Infected: []string{"red", "blue"}},
	}

	narrow, err := NewHeadlines(events.DefaultCatalog(), WithWidth(12))
	if err != nil {
		t.Fatalf("parsing headlines: %v", err)
	}
	testutil.AssertEqual(t, "narrow", narrow.Render(inst), "Plague\n(severity 2)\nstrikes red,\nblue")

	flat, err := NewHeadlines(events.DefaultCatalog(), WithWidth(0))
	if err != nil {
		t.Fatalf("parsing headlines: %v", err)
	}
	testutil.AssertEqual(t, "unwrapped", flat.Render(inst), "Plague (severity 2) strikes red, blue")
}
