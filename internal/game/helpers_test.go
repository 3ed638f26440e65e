package game

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pixil98/go-tycoon/internal/economy"
	"github.com/pixil98/go-tycoon/internal/events"
	"github.com/pixil98/go-tycoon/internal/teams"
)

var t0 = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

// loopRNG cycles through floats and always draws 0 for integers.
type loopRNG struct {
	floats []float64
	i      int
}

func (r *loopRNG) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	v := r.floats[r.i%len(r.floats)]
	r.i++
	return v
}

func (r *loopRNG) IntN(int) int {
	return 0
}

// risingRNG moves every resource up 1% on every tick.
func risingRNG() *loopRNG {
	return &loopRNG{floats: []float64{0, 0.5, 0}}
}

type memRecorder struct {
	mu     sync.Mutex
	prices []PriceRecord
	events []*events.Instance
	err    error
}

func (m *memRecorder) RecordPrices(_ context.Context, _ string, records []PriceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prices = append(m.prices, records...)
	return m.err
}

func (m *memRecorder) RecordEvent(_ context.Context, _ string, inst *events.Instance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, inst)
	return m.err
}

type memPublisher struct {
	mu     sync.Mutex
	prices [][]PriceUpdate
	events []EventNotification
	err    error
}

func (m *memPublisher) PublishPrices(_ context.Context, _ string, updates []PriceUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prices = append(m.prices, updates)
	return m.err
}

func (m *memPublisher) PublishEvent(_ context.Context, _ string, n EventNotification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, n)
	return m.err
}

var errBroken = errors.New("broken")

func newRoster(t *testing.T, ts ...teams.Team) *teams.Roster {
	t.Helper()
	r := teams.NewRoster()
	for _, team := range ts {
		if err := r.AddTeam(team); err != nil {
			t.Fatalf("adding team %s: %v", team.ID, err)
		}
	}
	return r
}

func redTeam() teams.Team {
	return teams.Team{
		ID:        "red",
		Name:      "Red",
		Buildings: map[economy.BuildingKind]int{economy.BuildingFarm: 2},
		Resources: map[economy.ResourceType]int{
			economy.ResourceMedicalGoods:    100,
			economy.ResourceElectricalGoods: 100,
		},
	}
}

func newTestSession(t *testing.T, opts ...SessionOpt) *Session {
	t.Helper()
	s, err := NewSession("g1", newRoster(t, redTeam()), opts...)
	if err != nil {
		t.Fatalf("creating session: %v", err)
	}
	return s
}

func startedSession(t *testing.T, opts ...SessionOpt) *Session {
	t.Helper()
	s := newTestSession(t, opts...)
	if err := s.Start(context.Background(), t0); err != nil {
		t.Fatalf("starting session: %v", err)
	}
	return s
}
