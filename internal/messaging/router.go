package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/pixil98/go-tycoon/internal/economy"
	"github.com/pixil98/go-tycoon/internal/events"
	"github.com/pixil98/go-tycoon/internal/game"
	"github.com/pixil98/go-tycoon/internal/pricing"
	"github.com/pixil98/go-tycoon/internal/teams"
)

// Games is the registry the router acts on.
type Games interface {
	Get(id string) (*game.Session, error)
	SetStatus(ctx context.Context, id string, status game.Status, now time.Time) error
	CreateFromScenario(ctx context.Context, id string, sc *game.Scenario) (*game.Session, error)
}

// Responder is the request side of a message broker.
type Responder interface {
	Ready() <-chan struct{}
	Handle(subject string, handler func(subject string, data []byte) []byte) (func(), error)
}

type TradeRequest struct {
	Resource  economy.ResourceType `json:"resource"`
	Quantity  int                  `json:"quantity"`
	Direction pricing.Direction    `json:"direction"`
}

type StatusRequest struct {
	Status game.Status `json:"status"`
}

type TeamRequest struct {
	Team string `json:"team"`
}

// HoldingsRequest changes a team's holdings. A request without changes only
// reads them.
type HoldingsRequest struct {
	Team string `json:"team"`
	teams.Adjustment
}

type InfectedReply struct {
	Team     string `json:"team"`
	Infected bool   `json:"infected"`
}

// Reply wraps every answer the router sends.
type Reply struct {
	OK    bool            `json:"ok"`
	Error string          `json:"error,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Router answers the control subjects of every game.
type Router struct {
	broker Responder
	games  Games
	now    func() time.Time
}

type RouterOpt func(*Router)

func WithClock(now func() time.Time) RouterOpt {
	return func(r *Router) {
		r.now = now
	}
}

func NewRouter(broker Responder, games Games, opts ...RouterOpt) *Router {
	r := &Router{
		broker: broker,
		games:  games,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Router) Start(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return nil
	case <-r.broker.Ready():
	}

	var unsubs []func()
	defer func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}()

	for _, leaf := range InboundLeaves {
		unsub, err := r.broker.Handle(Subject("*", leaf), func(subject string, data []byte) []byte {
			return r.Handle(ctx, subject, data)
		})
		if err != nil {
			return fmt.Errorf("subscribing to %s: %w", leaf, err)
		}
		unsubs = append(unsubs, unsub)
	}

	slog.InfoContext(ctx, "control router subscribed", "subjects", len(unsubs))
	<-ctx.Done()
	return nil
}

// Handle processes one inbound message and returns the encoded reply.
func (r *Router) Handle(ctx context.Context, subject string, data []byte) []byte {
	gameID, leaf, ok := ParseSubject(subject)
	if !ok {
		return encodeReply(nil, fmt.Errorf("%w: %q", ErrBadSubject, subject))
	}

	result, err := r.dispatch(ctx, gameID, leaf, data)
	if err != nil {
		slog.DebugContext(ctx, "control request failed", "subject", subject, "error", err)
	}
	return encodeReply(result, err)
}

func (r *Router) dispatch(ctx context.Context, gameID, leaf string, data []byte) (any, error) {
	now := r.now()

	if leaf == LeafCreate {
		var sc game.Scenario
		if err := decodeRequest(data, &sc); err != nil {
			return nil, err
		}
		if err := sc.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadRequest, err)
		}
		s, err := r.games.CreateFromScenario(ctx, gameID, &sc)
		if err != nil {
			return nil, err
		}
		return s.Snapshot(now), nil
	}

	s, err := r.games.Get(gameID)
	if err != nil {
		return nil, err
	}

	switch leaf {
	case LeafTaxCycle:
		return s.TaxCycleBoundary(ctx, now), nil

	case LeafTrade:
		var req TradeRequest
		if err := decodeRequest(data, &req); err != nil {
			return nil, err
		}
		return s.Trade(ctx, req.Resource, req.Quantity, req.Direction, now)

	case LeafStatus:
		var req StatusRequest
		if err := decodeRequest(data, &req); err != nil {
			return nil, err
		}
		if err := r.games.SetStatus(ctx, gameID, req.Status, now); err != nil {
			return nil, err
		}
		return req, nil

	case LeafTrigger:
		var req events.Trigger
		if err := decodeRequest(data, &req); err != nil {
			return nil, err
		}
		return s.TriggerEvent(ctx, req, now)

	case LeafCure:
		team, err := decodeTeam(data)
		if err != nil {
			return nil, err
		}
		return s.Cure(ctx, team, now)

	case LeafPay:
		team, err := decodeTeam(data)
		if err != nil {
			return nil, err
		}
		return s.PayAutomation(ctx, team, now)

	case LeafInfected:
		team, err := decodeTeam(data)
		if err != nil {
			return nil, err
		}
		return InfectedReply{Team: team, Infected: s.IsInfected(team)}, nil

	case LeafModifiers:
		team, err := decodeTeam(data)
		if err != nil {
			return nil, err
		}
		return s.Modifiers(team), nil

	case LeafSnapshot:
		return s.Snapshot(now), nil

	case LeafHoldings:
		var req HoldingsRequest
		if err := decodeRequest(data, &req); err != nil {
			return nil, err
		}
		if req.Team == "" {
			return nil, ErrTeamRequired
		}
		if len(req.Buildings) == 0 && len(req.Resources) == 0 {
			return s.Holdings(req.Team)
		}
		return s.AdjustHoldings(ctx, req.Team, req.Adjustment)
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownSubject, leaf)
}

func decodeRequest(data []byte, v any) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty body", ErrBadRequest)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}

func decodeTeam(data []byte) (string, error) {
	var req TeamRequest
	if err := decodeRequest(data, &req); err != nil {
		return "", err
	}
	if req.Team == "" {
		return "", ErrTeamRequired
	}
	return req.Team, nil
}

func encodeReply(result any, err error) []byte {
	reply := Reply{OK: err == nil}
	if err != nil {
		reply.Error = err.Error()
	} else if result != nil {
		b, mErr := json.Marshal(result)
		if mErr != nil {
			reply = Reply{Error: fmt.Sprintf("marshalling reply: %v", mErr)}
		} else {
			reply.Data = b
		}
	}

	b, _ := json.Marshal(reply)
	return b
}
