package game

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/pixil98/go-tycoon/internal/economy"
	"github.com/pixil98/go-tycoon/internal/events"
	"github.com/pixil98/go-tycoon/internal/pricing"
	"github.com/pixil98/go-tycoon/internal/teams"
)

// Holdings is team state that can be read and changed from outside the
// event engine.
type Holdings interface {
	Team(id string) (teams.Team, bool)
	Adjust(id string, adj teams.Adjustment) (teams.Team, error)
}

// Headliner renders the human readable line attached to event notifications.
type Headliner func(inst *events.Instance) string

// Session is one game. It owns the game's prices and events and serializes
// every read and write behind a single lock.
type Session struct {
	mu sync.Mutex

	id           string
	name         string
	difficulty   economy.Difficulty
	baselines    map[economy.ResourceType]int
	historyLimit int
	teams        events.TeamState
	pricingCfg   pricing.Config
	pricing      *pricing.Engine
	catalog      *events.Catalog
	rng          economy.RandomSource
	publisher    Publisher
	recorder     Recorder
	headline     Headliner

	status      Status
	clock       economy.ActiveClock
	timedCycles int
	prices      map[economy.ResourceType]*economy.ResourcePriceState
	events      *events.Engine
	createdAt   time.Time
	startedAt   *time.Time
	completedAt *time.Time
}

type SessionOpt func(*Session)

func WithName(name string) SessionOpt {
	return func(s *Session) {
		s.name = name
	}
}

func WithDifficulty(d economy.Difficulty) SessionOpt {
	return func(s *Session) {
		s.difficulty = d
	}
}

// WithBaselines overrides the default baseline of the given resources.
func WithBaselines(baselines map[economy.ResourceType]int) SessionOpt {
	return func(s *Session) {
		maps.Copy(s.baselines, baselines)
	}
}

func WithHistoryLimit(limit int) SessionOpt {
	return func(s *Session) {
		s.historyLimit = limit
	}
}

func WithPricingConfig(cfg pricing.Config) SessionOpt {
	return func(s *Session) {
		s.pricingCfg = cfg
	}
}

func WithCatalog(c *events.Catalog) SessionOpt {
	return func(s *Session) {
		s.catalog = c
	}
}

func WithRandomSource(rng economy.RandomSource) SessionOpt {
	return func(s *Session) {
		s.rng = rng
	}
}

func WithPublisher(p Publisher) SessionOpt {
	return func(s *Session) {
		s.publisher = p
	}
}

func WithRecorder(r Recorder) SessionOpt {
	return func(s *Session) {
		s.recorder = r
	}
}

func WithHeadliner(h Headliner) SessionOpt {
	return func(s *Session) {
		s.headline = h
	}
}

// NewSession creates a waiting game. Prices and events are created when the
// game first starts.
func NewSession(id string, ts events.TeamState, opts ...SessionOpt) (*Session, error) {
	s := &Session{
		id:           id,
		difficulty:   economy.DifficultyNormal,
		baselines:    maps.Clone(economy.DefaultBaselines),
		historyLimit: economy.DefaultHistoryLimit,
		teams:        ts,
		pricingCfg:   pricing.DefaultConfig(),
		catalog:      events.DefaultCatalog(),
		rng:          economy.DefaultRNG(),
		status:       StatusWaiting,
		createdAt:    time.Now(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if err := s.pricingCfg.Validate(); err != nil {
		return nil, fmt.Errorf("game %s: %w", id, err)
	}
	s.pricing = pricing.NewEngine(s.pricingCfg, pricing.WithRandomSource(s.rng))

	if _, err := economy.ParseDifficulty(string(s.difficulty)); err != nil {
		return nil, fmt.Errorf("game %s: %w", id, err)
	}
	if _, err := s.newPrices(); err != nil {
		return nil, fmt.Errorf("game %s: %w", id, err)
	}

	return s, nil
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Name() string {
	return s.name
}

func (s *Session) Difficulty() economy.Difficulty {
	return s.difficulty
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status
}

// Start moves a waiting game into progress.
func (s *Session) Start(ctx context.Context, now time.Time) error {
	_, _, err := s.SetStatus(ctx, StatusInProgress, now)
	return err
}

// Pause suspends a game. Pausing a paused game does nothing.
func (s *Session) Pause(ctx context.Context, now time.Time) error {
	_, _, err := s.SetStatus(ctx, StatusPaused, now)
	return err
}

// Resume puts a paused game back into progress.
func (s *Session) Resume(ctx context.Context, now time.Time) error {
	_, _, err := s.SetStatus(ctx, StatusInProgress, now)
	return err
}

// Complete ends a game for good.
func (s *Session) Complete(ctx context.Context, now time.Time) error {
	_, _, err := s.SetStatus(ctx, StatusCompleted, now)
	return err
}

// SetStatus moves the game to next and returns the previous status and
// whether anything changed. Setting the current status is a no-op.
func (s *Session) SetStatus(ctx context.Context, next Status, now time.Time) (Status, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.status
	if prev == next {
		return prev, false, nil
	}
	if !prev.CanTransition(next) {
		return prev, false, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, prev, next)
	}

	switch next {
	case StatusInProgress:
		if s.prices == nil {
			if err := s.initEconomy(); err != nil {
				return prev, false, err
			}
			s.startedAt = &now
		}
		s.clock.Start(now)
	case StatusPaused:
		s.clock.Stop(now)
	case StatusCompleted:
		s.clock.Stop(now)
		s.completedAt = &now
	}

	s.status = next
	slog.InfoContext(ctx, "game status changed", "game", s.id, "from", prev, "to", next)
	return prev, true, nil
}

func (s *Session) initEconomy() error {
	prices, err := s.newPrices()
	if err != nil {
		return err
	}

	s.prices = prices
	s.events = events.NewEngine(s.difficulty, s.teams,
		events.WithCatalog(s.catalog),
		events.WithRandomSource(s.rng),
	)
	return nil
}

func (s *Session) newPrices() (map[economy.ResourceType]*economy.ResourcePriceState, error) {
	prices := make(map[economy.ResourceType]*economy.ResourcePriceState, len(economy.Resources))
	for _, res := range economy.Resources {
		state, err := economy.NewResourcePriceState(res, s.baselines[res], s.historyLimit)
		if err != nil {
			return nil, fmt.Errorf("creating %s prices: %w", res, err)
		}
		prices[res] = state
	}
	return prices, nil
}

// TickPrices runs one pricing step for every resource and broadcasts the ones
// that moved. Games not in progress are skipped silently.
func (s *Session) TickPrices(ctx context.Context, now time.Time) []PriceUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusInProgress {
		return nil
	}

	at := s.clock.Now(now)
	var updates []PriceUpdate
	var records []PriceRecord
	for _, res := range economy.Resources {
		state := s.prices[res]
		p, changed := s.pricing.Tick(state, s.events.EventBias(res), at)
		if !changed {
			continue
		}
		updates = append(updates, newPriceUpdate(res, state.Baseline(), p))
		records = append(records, PriceRecord{Resource: res, Point: p})
	}

	s.emitPrices(ctx, updates, records)
	return updates
}

// TaxCycleBoundary advances every cycle-tracked event by one cycle.
// Games not in progress are skipped silently.
func (s *Session) TaxCycleBoundary(ctx context.Context, now time.Time) []EventNotification {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusInProgress {
		return nil
	}
	return s.taxCycle(ctx, now)
}

// TimedCycles runs one tax cycle boundary for every multiple of length the
// game's active time has passed since the last call, and returns how much
// active time is left until the next one. Paused time never counts, so a
// paused game picks up the cycle where it left off.
func (s *Session) TimedCycles(ctx context.Context, length time.Duration, now time.Time) ([]EventNotification, time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if length <= 0 || s.status != StatusInProgress {
		return nil, length
	}

	active := s.clock.Now(now).Active
	var notes []EventNotification
	for due := int(active / length); s.timedCycles < due; s.timedCycles++ {
		notes = append(notes, s.taxCycle(ctx, now)...)
	}
	return notes, length - active%length
}

// taxCycle must be called with mu held on a game in progress.
func (s *Session) taxCycle(ctx context.Context, now time.Time) []EventNotification {
	changes := s.events.AdvanceCycle(now)
	slog.DebugContext(ctx, "tax cycle boundary", "game", s.id, "changes", len(changes))
	return s.emitChanges(ctx, changes)
}

// Trade applies a bank trade to the price of res and returns the new quote.
func (s *Session) Trade(ctx context.Context, res economy.ResourceType, quantity int, dir pricing.Direction, now time.Time) (economy.Quote, error) {
	if quantity <= 0 {
		return economy.Quote{}, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}
	if dir != pricing.DirectionBuy && dir != pricing.DirectionSell {
		return economy.Quote{}, fmt.Errorf("%w: %q", pricing.ErrUnknownDirection, dir)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusInProgress {
		return economy.Quote{}, fmt.Errorf("trading in game %s: %w", s.id, ErrNotInProgress)
	}

	state, ok := s.prices[res]
	if !ok {
		return economy.Quote{}, fmt.Errorf("%w: %q", economy.ErrUnknownResource, res)
	}

	if p, changed := s.pricing.ApplyTrade(state, quantity, dir, s.clock.Now(now)); changed {
		s.emitPrices(ctx,
			[]PriceUpdate{newPriceUpdate(res, state.Baseline(), p)},
			[]PriceRecord{{Resource: res, Point: p}},
		)
	}

	return state.Quote(), nil
}

// TriggerEvent starts a new event in the game.
func (s *Session) TriggerEvent(ctx context.Context, req events.Trigger, now time.Time) (EventNotification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusInProgress {
		return EventNotification{}, fmt.Errorf("triggering %s in game %s: %w", req.Type, s.id, ErrNotInProgress)
	}

	ch, err := s.events.Trigger(req, now)
	if err != nil {
		return EventNotification{}, err
	}

	slog.InfoContext(ctx, "event triggered",
		"game", s.id,
		"event", ch.Instance.ID,
		"type", ch.Instance.Type,
		"severity", ch.Instance.Severity,
	)

	changes := []events.Change{ch}
	if ch.Instance.Status.Terminal() {
		changes = append(changes, events.Change{Kind: events.ChangeExpired, Instance: ch.Instance.Clone()})
	}
	return s.emitChanges(ctx, changes)[0], nil
}

// Cure removes team from the plagues infecting it.
func (s *Session) Cure(ctx context.Context, team string, now time.Time) ([]EventNotification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusInProgress {
		return nil, fmt.Errorf("curing in game %s: %w", s.id, ErrNotInProgress)
	}

	changes, err := s.events.Cure(team, now)
	if err != nil {
		return nil, err
	}
	return s.emitChanges(ctx, changes), nil
}

// PayAutomation settles team's pending automation breakthrough.
func (s *Session) PayAutomation(ctx context.Context, team string, now time.Time) (EventNotification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusInProgress {
		return EventNotification{}, fmt.Errorf("paying in game %s: %w", s.id, ErrNotInProgress)
	}

	ch, err := s.events.Pay(team, now)
	if err != nil {
		return EventNotification{}, err
	}
	return s.emitChanges(ctx, []events.Change{ch})[0], nil
}

func (s *Session) IsInfected(team string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.events == nil {
		return false
	}
	return s.events.IsInfected(team)
}

// Modifiers returns what active events do to team. A game that never started
// has no effects.
func (s *Session) Modifiers(team string) events.Modifiers {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.events == nil {
		return events.NeutralModifiers()
	}
	return s.events.Modifiers(team)
}

// AdjustHoldings changes what team owns. Positive counts are granted and
// negative ones are taken away, never below zero. Completed games are
// read-only.
func (s *Session) AdjustHoldings(ctx context.Context, team string, adj teams.Adjustment) (teams.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusCompleted {
		return teams.Team{}, fmt.Errorf("adjusting holdings in game %s: %w", s.id, ErrGameCompleted)
	}

	h, ok := s.teams.(Holdings)
	if !ok {
		return teams.Team{}, fmt.Errorf("game %s: %w", s.id, ErrHoldingsReadOnly)
	}

	t, err := h.Adjust(team, adj)
	if err != nil {
		return teams.Team{}, err
	}
	slog.InfoContext(ctx, "team holdings adjusted", "game", s.id, "team", team)
	return t, nil
}

// Holdings returns what team owns.
func (s *Session) Holdings(team string) (teams.Team, error) {
	h, ok := s.teams.(Holdings)
	if !ok {
		return teams.Team{}, fmt.Errorf("game %s: %w", s.id, ErrHoldingsReadOnly)
	}

	t, ok := h.Team(team)
	if !ok {
		return teams.Team{}, fmt.Errorf("%w: %q", teams.ErrTeamNotFound, team)
	}
	return t, nil
}

// Event returns a copy of the event with the given id.
func (s *Session) Event(id int) (*events.Instance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.events == nil {
		return nil, false
	}
	return s.events.Instance(id)
}

// PriceHistory returns the retained price points for res.
func (s *Session) PriceHistory(res economy.ResourceType) []economy.PricePoint {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.prices[res]
	if !ok {
		return nil
	}
	return state.History()
}

func (s *Session) emitPrices(ctx context.Context, updates []PriceUpdate, records []PriceRecord) {
	if len(updates) == 0 {
		return
	}

	if s.recorder != nil {
		if err := s.recorder.RecordPrices(ctx, s.id, records); err != nil {
			slog.WarnContext(ctx, "recording prices failed", "game", s.id, "error", err)
		}
	}
	if s.publisher != nil {
		if err := s.publisher.PublishPrices(ctx, s.id, updates); err != nil {
			slog.WarnContext(ctx, "publishing prices failed", "game", s.id, "error", err)
		}
	}
}

func (s *Session) emitChanges(ctx context.Context, changes []events.Change) []EventNotification {
	notes := make([]EventNotification, 0, len(changes))
	for _, ch := range changes {
		msg := ""
		if s.headline != nil {
			msg = s.headline(ch.Instance)
		}
		n := newEventNotification(ch, msg)
		notes = append(notes, n)

		if s.recorder != nil {
			if err := s.recorder.RecordEvent(ctx, s.id, ch.Instance); err != nil {
				slog.WarnContext(ctx, "recording event failed", "game", s.id, "event", ch.Instance.ID, "error", err)
			}
		}
		if s.publisher != nil {
			if err := s.publisher.PublishEvent(ctx, s.id, n); err != nil {
				slog.WarnContext(ctx, "publishing event failed", "game", s.id, "event", ch.Instance.ID, "error", err)
			}
		}
	}
	return notes
}
