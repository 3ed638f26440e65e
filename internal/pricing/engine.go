package pricing

import (
	"fmt"
	"log/slog"

	"github.com/pixil98/go-tycoon/internal/economy"
)

// Direction is the side of a bank trade as seen by the team.
type Direction string

const (
	// DirectionBuy is a team buying from the bank; it pushes prices up.
	DirectionBuy Direction = "buy"
	// DirectionSell is a team selling to the bank; it pushes prices down.
	DirectionSell Direction = "sell"
)

func (d *Direction) UnmarshalText(text []byte) error {
	switch Direction(text) {
	case DirectionBuy, DirectionSell:
		*d = Direction(text)
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDirection, text)
	}
}

// Engine advances ResourcePriceStates. It holds no per-game state, so one
// engine may serve many games as long as its RandomSource is safe to share.
type Engine struct {
	cfg Config
	rng economy.RandomSource
}

type EngineOpt func(*Engine)

// WithRandomSource replaces the default random source.
func WithRandomSource(rng economy.RandomSource) EngineOpt {
	return func(e *Engine) {
		e.rng = rng
	}
}

func NewEngine(cfg Config, opts ...EngineOpt) *Engine {
	e := &Engine{
		cfg: cfg,
		rng: economy.DefaultRNG(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the engine's tuning.
func (e *Engine) Config() Config {
	return e.cfg
}

// Tick runs one pricing step for a resource. It returns the new price point
// and true only when the price actually changed.
func (e *Engine) Tick(state *economy.ResourcePriceState, eventBias float64, now economy.Instant) (economy.PricePoint, bool) {
	if e.rng.Float64() >= e.cfg.ChangeProbability {
		return economy.PricePoint{}, false
	}

	bias := e.Bias(state, eventBias, now)
	magnitude := e.rng.Float64() * e.cfg.MaxStep
	if e.rng.Float64() >= IncreaseProbability(bias) {
		magnitude = -magnitude
	}

	p, ok := state.Commit(state.Current()*(1+magnitude), now, false)
	if !ok {
		slog.Debug("price step skipped by spread guard",
			"resource", state.Resource(),
			"current", state.Current(),
			"step", magnitude,
		)
	}
	return p, ok
}

// ApplyTrade moves a resource's price in response to a bank trade of quantity
// units. The move is recorded as trade-triggered.
func (e *Engine) ApplyTrade(state *economy.ResourcePriceState, quantity int, dir Direction, now economy.Instant) (economy.PricePoint, bool) {
	if quantity <= 0 {
		return economy.PricePoint{}, false
	}

	impact := float64(quantity) * e.cfg.TradeImpact
	if impact > e.cfg.MaxTradeImpact {
		impact = e.cfg.MaxTradeImpact
	}
	if dir == DirectionSell {
		impact = -impact
	}

	p, ok := state.Commit(state.Current()*(1+impact), now, true)
	if !ok {
		slog.Debug("trade price move skipped by spread guard",
			"resource", state.Resource(),
			"quantity", quantity,
			"direction", dir,
		)
	}
	return p, ok
}

// Bias combines momentum, mean reversion and the event bias into the value
// that steers the direction of the next step.
func (e *Engine) Bias(state *economy.ResourcePriceState, eventBias float64, now economy.Instant) float64 {
	return e.cfg.MomentumWeight*e.Momentum(state, now) +
		e.cfg.ReversionWeight*e.Reversion(state) +
		eventBias
}

// Momentum is the average percentage change between consecutive history
// points inside the trailing window, scaled so MomentumScale maps to 1.
func (e *Engine) Momentum(state *economy.ResourcePriceState, now economy.Instant) float64 {
	points := state.HistorySince(now.Active - e.cfg.MomentumWindow)
	if len(points) < 2 {
		return 0
	}

	var total float64
	var n int
	for i := 1; i < len(points); i++ {
		prev := points[i-1].Mid()
		if prev <= 0 {
			continue
		}
		total += (points[i].Mid() - prev) / prev
		n++
	}
	if n == 0 {
		return 0
	}

	return economy.Clamp(total/float64(n)/e.cfg.MomentumScale, -1, 1)
}

// Reversion pushes the price back toward baseline in proportion to its
// displacement.
func (e *Engine) Reversion(state *economy.ResourcePriceState) float64 {
	baseline := float64(state.Baseline())
	displacement := (baseline - state.Current()) / baseline
	return economy.Clamp(displacement/e.cfg.fullReversion(), -1, 1)
}

// IncreaseProbability maps a bias to the chance the next step goes up.
func IncreaseProbability(bias float64) float64 {
	return 0.5 + 0.5*economy.Clamp(bias, -1, 1)
}
