package events

import (
	"math"
	"slices"
	"testing"
	"time"

	"github.com/pixil98/go-tycoon/internal/economy"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeTeams struct {
	buildings map[string]map[economy.BuildingKind]int
	resources map[string]map[economy.ResourceType]int
}

func newFakeTeams(names ...string) *fakeTeams {
	f := &fakeTeams{
		buildings: map[string]map[economy.BuildingKind]int{},
		resources: map[string]map[economy.ResourceType]int{},
	}
	for _, n := range names {
		f.buildings[n] = map[economy.BuildingKind]int{}
		f.resources[n] = map[economy.ResourceType]int{}
	}
	return f
}

func (f *fakeTeams) Teams() []string {
	var out []string
	for n := range f.buildings {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

func (f *fakeTeams) HasTeam(team string) bool {
	_, ok := f.buildings[team]
	return ok
}

func (f *fakeTeams) BuildingCount(team string, kind economy.BuildingKind) int {
	return f.buildings[team][kind]
}

func (f *fakeTeams) ResourceAmount(team string, res economy.ResourceType) int {
	return f.resources[team][res]
}

func (f *fakeTeams) DestroyBuildings(team string, kind economy.BuildingKind, n int) int {
	got := min(n, f.buildings[team][kind])
	f.buildings[team][kind] -= got
	return got
}

func (f *fakeTeams) RemoveResource(team string, res economy.ResourceType, n int) int {
	got := min(n, f.resources[team][res])
	f.resources[team][res] -= got
	return got
}

func (f *fakeTeams) totalBuildings(team string) int {
	total := 0
	for _, c := range f.buildings[team] {
		total += c
	}
	return total
}

// scriptedRNG replays fixed draws in order, then returns zero.
type scriptedRNG struct {
	ints []int
}

func (s *scriptedRNG) Float64() float64 {
	return 0
}

func (s *scriptedRNG) IntN(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0] % n
	s.ints = s.ints[1:]
	return v
}

func mustTrigger(t *testing.T, e *Engine, req Trigger) Change {
	t.Helper()
	ch, err := e.Trigger(req, testNow)
	if err != nil {
		t.Fatalf("triggering %s: %v", req.Type, err)
	}
	return ch
}

func approx(t *testing.T, name string, got, exp float64) {
	t.Helper()
	if math.Abs(got-exp) > 1e-9 {
		t.Errorf("%s: got %v, expected %v", name, got, exp)
	}
}
