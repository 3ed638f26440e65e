package economy

import (
	"fmt"
	"math"
	"time"
)

const (
	// BuySpread and SellSpread put a 10% total spread around the current price.
	BuySpread  = 1.05
	SellSpread = 0.95

	// FloorRatio and CeilingRatio bound the current price relative to baseline.
	FloorRatio   = 0.5
	CeilingRatio = 2.0

	DefaultHistoryLimit = 1000
)

// PricePoint is one entry of a resource's price history.
type PricePoint struct {
	Timestamp        time.Time     `json:"timestamp"`
	Active           time.Duration `json:"active"`
	BuyPrice         int           `json:"buy_price"`
	SellPrice        int           `json:"sell_price"`
	TriggeredByTrade bool          `json:"triggered_by_trade"`
}

// Mid returns the midpoint of the buy and sell price.
func (p PricePoint) Mid() float64 {
	return float64(p.BuyPrice+p.SellPrice) / 2
}

// Quote is a read-only view of a resource's prices.
type Quote struct {
	Resource  ResourceType `json:"resource"`
	Baseline  int          `json:"baseline"`
	Current   float64      `json:"current"`
	BuyPrice  int          `json:"buy_price"`
	SellPrice int          `json:"sell_price"`
}

// ResourcePriceState is the price triple and bounded history for one resource
// in one game. All mutation goes through Commit, which enforces the bounds and
// spread invariants.
type ResourcePriceState struct {
	resource  ResourceType
	baseline  int
	current   float64
	buyPrice  int
	sellPrice int

	history      []PricePoint
	historyLimit int
}

// NewResourcePriceState creates a state at baseline with the spread applied.
// Baselines too small to hold a spread after rounding are rejected.
func NewResourcePriceState(resource ResourceType, baseline int, historyLimit int) (*ResourcePriceState, error) {
	if baseline <= 0 {
		return nil, fmt.Errorf("%w: %s baseline %d must be positive", ErrInvalidBaseline, resource, baseline)
	}
	buy, sell := spread(float64(baseline))
	if buy <= sell {
		return nil, fmt.Errorf("%w: %s baseline %d is too small for a buy/sell spread", ErrInvalidBaseline, resource, baseline)
	}
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}

	return &ResourcePriceState{
		resource:     resource,
		baseline:     baseline,
		current:      float64(baseline),
		buyPrice:     buy,
		sellPrice:    sell,
		historyLimit: historyLimit,
	}, nil
}

func (s *ResourcePriceState) Resource() ResourceType { return s.resource }
func (s *ResourcePriceState) Baseline() int          { return s.baseline }
func (s *ResourcePriceState) Current() float64       { return s.current }
func (s *ResourcePriceState) BuyPrice() int          { return s.buyPrice }
func (s *ResourcePriceState) SellPrice() int         { return s.sellPrice }

// Floor is the lowest current price allowed.
func (s *ResourcePriceState) Floor() float64 {
	return FloorRatio * float64(s.baseline)
}

// Ceiling is the highest current price allowed.
func (s *ResourcePriceState) Ceiling() float64 {
	return CeilingRatio * float64(s.baseline)
}

// Quote returns a snapshot of the current prices.
func (s *ResourcePriceState) Quote() Quote {
	return Quote{
		Resource:  s.resource,
		Baseline:  s.baseline,
		Current:   s.current,
		BuyPrice:  s.buyPrice,
		SellPrice: s.sellPrice,
	}
}

// History returns a copy of the recorded price points, oldest first.
func (s *ResourcePriceState) History() []PricePoint {
	out := make([]PricePoint, len(s.history))
	copy(out, s.history)
	return out
}

// HistorySince returns the points whose active time is at or after from.
func (s *ResourcePriceState) HistorySince(from time.Duration) []PricePoint {
	for i, p := range s.history {
		if p.Active >= from {
			out := make([]PricePoint, len(s.history)-i)
			copy(out, s.history[i:])
			return out
		}
	}
	return nil
}

// Last returns the most recent price point, if any.
func (s *ResourcePriceState) Last() (PricePoint, bool) {
	if len(s.history) == 0 {
		return PricePoint{}, false
	}
	return s.history[len(s.history)-1], true
}

// Commit moves the current price to target, clamped to the bounds, and
// recomputes the spread. If rounding would leave buy <= sell the step is
// abandoned: nothing changes and false is returned.
func (s *ResourcePriceState) Commit(target float64, at Instant, byTrade bool) (PricePoint, bool) {
	if math.IsNaN(target) || math.IsInf(target, 0) {
		return PricePoint{}, false
	}
	current := Clamp(target, s.Floor(), s.Ceiling())
	buy, sell := spread(current)
	if buy <= sell || sell <= 0 {
		return PricePoint{}, false
	}

	s.current = current
	s.buyPrice = buy
	s.sellPrice = sell

	p := PricePoint{
		Timestamp:        at.Wall,
		Active:           at.Active,
		BuyPrice:         buy,
		SellPrice:        sell,
		TriggeredByTrade: byTrade,
	}
	s.history = append(s.history, p)
	if over := len(s.history) - s.historyLimit; over > 0 {
		s.history = append(s.history[:0:0], s.history[over:]...)
	}
	return p, true
}

func spread(current float64) (buy, sell int) {
	return int(math.Round(current * BuySpread)), int(math.Round(current * SellSpread))
}

// BaselineQuote is the quote of a resource that has not moved from baseline.
func BaselineQuote(resource ResourceType, baseline int) Quote {
	buy, sell := spread(float64(baseline))
	return Quote{
		Resource:  resource,
		Baseline:  baseline,
		Current:   float64(baseline),
		BuyPrice:  buy,
		SellPrice: sell,
	}
}
