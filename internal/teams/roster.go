// Package teams is an in-memory record of what each team owns. It is the
// reference holder of team state the event engine reads and damages.
package teams

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/pixil98/go-tycoon/internal/economy"
)

var (
	ErrTeamExists   = errors.New("team already exists")
	ErrTeamNotFound = errors.New("team not found")
	ErrNegative     = errors.New("amount must not be negative")
)

// Team is a point-in-time copy of one team's holdings.
type Team struct {
	ID        string                       `json:"id"`
	Name      string                       `json:"name"`
	Buildings map[economy.BuildingKind]int `json:"buildings"`
	Resources map[economy.ResourceType]int `json:"resources"`
}

// Roster holds the teams of one game. All access goes through its methods.
type Roster struct {
	mu    sync.RWMutex
	teams map[string]*Team
}

func NewRoster() *Roster {
	return &Roster{teams: map[string]*Team{}}
}

// AddTeam registers t. Counts in t are copied; negative counts are rejected.
func (r *Roster) AddTeam(t Team) error {
	for k, v := range t.Buildings {
		if v < 0 {
			return fmt.Errorf("%w: %s %d", ErrNegative, k, v)
		}
	}
	for k, v := range t.Resources {
		if v < 0 {
			return fmt.Errorf("%w: %s %d", ErrNegative, k, v)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.teams[t.ID]; ok {
		return fmt.Errorf("%w: %q", ErrTeamExists, t.ID)
	}

	r.teams[t.ID] = &Team{
		ID:        t.ID,
		Name:      t.Name,
		Buildings: cloneOrEmpty(t.Buildings),
		Resources: cloneOrEmpty(t.Resources),
	}
	return nil
}

// Team returns a copy of the team with the given id.
func (r *Roster) Team(id string) (Team, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.teams[id]
	if !ok {
		return Team{}, false
	}
	return copyTeam(t), true
}

// Teams returns every team id in sorted order.
func (r *Roster) Teams() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.teams))
}

func (r *Roster) HasTeam(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.teams[id]
	return ok
}

// BuildingCount returns 0 for unknown teams.
func (r *Roster) BuildingCount(id string, kind economy.BuildingKind) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if t, ok := r.teams[id]; ok {
		return t.Buildings[kind]
	}
	return 0
}

// ResourceAmount returns 0 for unknown teams.
func (r *Roster) ResourceAmount(id string, res economy.ResourceType) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if t, ok := r.teams[id]; ok {
		return t.Resources[res]
	}
	return 0
}

// DestroyBuildings removes up to n buildings of kind and returns how many were
// removed. Counts never go below zero.
func (r *Roster) DestroyBuildings(id string, kind economy.BuildingKind, n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.teams[id]
	if !ok || n <= 0 {
		return 0
	}
	got := min(n, t.Buildings[kind])
	t.Buildings[kind] -= got
	return got
}

// RemoveResource takes up to n units of res and returns how many were taken.
func (r *Roster) RemoveResource(id string, res economy.ResourceType, n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.teams[id]
	if !ok || n <= 0 {
		return 0
	}
	got := min(n, t.Resources[res])
	t.Resources[res] -= got
	return got
}

// Adjustment is a change to a team's holdings. Positive counts are granted,
// negative counts are taken away.
type Adjustment struct {
	Buildings map[economy.BuildingKind]int `json:"buildings,omitempty"`
	Resources map[economy.ResourceType]int `json:"resources,omitempty"`
}

// Adjust applies adj to the team and returns the updated holdings. Counts are
// clamped at zero.
func (r *Roster) Adjust(id string, adj Adjustment) (Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.teams[id]
	if !ok {
		return Team{}, fmt.Errorf("%w: %q", ErrTeamNotFound, id)
	}

	for kind, n := range adj.Buildings {
		t.Buildings[kind] = max(0, t.Buildings[kind]+n)
	}
	for res, n := range adj.Resources {
		t.Resources[res] = max(0, t.Resources[res]+n)
	}

	return copyTeam(t), nil
}

func copyTeam(t *Team) Team {
	return Team{
		ID:        t.ID,
		Name:      t.Name,
		Buildings: maps.Clone(t.Buildings),
		Resources: maps.Clone(t.Resources),
	}
}

func cloneOrEmpty[K comparable](m map[K]int) map[K]int {
	if m == nil {
		return map[K]int{}
	}
	return maps.Clone(m)
}
