package game

import (
	"fmt"
	"slices"
	"time"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-tycoon/internal/economy"
	"github.com/pixil98/go-tycoon/internal/events"
)

// Snapshot is a read-only view of a game at one instant.
type Snapshot struct {
	ID            string             `json:"id"`
	Name          string             `json:"name,omitempty"`
	Status        Status             `json:"status"`
	Difficulty    economy.Difficulty `json:"difficulty"`
	ActiveSeconds float64            `json:"active_seconds"`
	Prices        []economy.Quote    `json:"prices"`
	ActiveEvents  []*events.Instance `json:"active_events"`
	EventHistory  []*events.Instance `json:"event_history"`
	Teams         []string           `json:"teams"`
	CreatedAt     time.Time          `json:"created_at"`
	Taken         time.Time          `json:"taken"`
}

// Snapshot copies the current state of the game. Prices of a game that never
// started are reported at baseline.
func (s *Session) Snapshot(now time.Time) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:            s.id,
		Name:          s.name,
		Status:        s.status,
		Difficulty:    s.difficulty,
		ActiveSeconds: s.clock.Now(now).Active.Seconds(),
		Prices:        s.quotes(),
		ActiveEvents:  []*events.Instance{},
		EventHistory:  []*events.Instance{},
		Teams:         s.teams.Teams(),
		CreatedAt:     s.createdAt,
		Taken:         now,
	}
	if s.events != nil {
		snap.ActiveEvents = s.events.Active()
		snap.EventHistory = s.events.History()
	}
	return snap
}

func (s *Session) quotes() []economy.Quote {
	quotes := make([]economy.Quote, 0, len(economy.Resources))
	for _, res := range economy.Resources {
		if state, ok := s.prices[res]; ok {
			quotes = append(quotes, state.Quote())
		} else {
			quotes = append(quotes, economy.BaselineQuote(res, s.baselines[res]))
		}
	}
	return quotes
}

// GameResult is the archived outcome of a completed game.
type GameResult struct {
	GameID        string             `json:"game_id"`
	Name          string             `json:"name,omitempty"`
	Difficulty    economy.Difficulty `json:"difficulty"`
	StartedAt     *time.Time         `json:"started_at,omitempty"`
	CompletedAt   *time.Time         `json:"completed_at,omitempty"`
	ActiveSeconds float64            `json:"active_seconds"`
	Prices        []economy.Quote    `json:"prices"`
	Events        []*events.Instance `json:"events"`
}

func (r *GameResult) Validate() error {
	el := errors.NewErrorList()

	if r.GameID == "" {
		el.Add(fmt.Errorf("game id must be set"))
	}
	if r.CompletedAt == nil {
		el.Add(fmt.Errorf("completed at must be set"))
	}
	if len(r.Prices) != len(economy.Resources) {
		el.Add(fmt.Errorf("prices must cover every resource"))
	}

	return el.Err()
}

// Result builds the archive record of the game. Events are ordered by id.
func (s *Session) Result() *GameResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := &GameResult{
		GameID:      s.id,
		Name:        s.name,
		Difficulty:  s.difficulty,
		StartedAt:   s.startedAt,
		CompletedAt: s.completedAt,
		Prices:      s.quotes(),
		Events:      []*events.Instance{},
	}
	if s.completedAt != nil {
		r.ActiveSeconds = s.clock.Now(*s.completedAt).Active.Seconds()
	}
	if s.events != nil {
		r.Events = append(s.events.History(), s.events.Active()...)
		slices.SortFunc(r.Events, func(a, b *events.Instance) int { return a.ID - b.ID })
	}
	return r
}
