// Package pricing advances resource prices: a throttled random walk biased by
// momentum, mean reversion and active events, plus the trade-driven write path.
package pricing

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
)

const (
	DefaultChangeProbability = 0.0333
	DefaultMaxStep           = 0.02
	DefaultMomentumWindow    = 2 * time.Minute
	DefaultMomentumScale     = 0.05
	DefaultMomentumWeight    = 0.6
	DefaultReversionWeight   = 0.4
	DefaultReversionHorizon  = 15 * time.Minute
	DefaultTickInterval      = time.Second
	DefaultTradeImpact       = 0.001
	DefaultMaxTradeImpact    = 0.10
)

// Config holds the tunable numbers of the pricing model.
type Config struct {
	// ChangeProbability is the chance a resource moves on a given tick.
	ChangeProbability float64
	// MaxStep is the largest fractional move of a single organic step.
	MaxStep float64

	MomentumWindow time.Duration
	// MomentumScale is the average change that maps to full momentum.
	MomentumScale  float64
	MomentumWeight float64

	ReversionWeight float64
	// ReversionHorizon is how long a fully biased walk takes to undo the
	// displacement that maps to full reversion pressure.
	ReversionHorizon time.Duration
	TickInterval     time.Duration

	// TradeImpact is the fractional move per traded unit, capped at MaxTradeImpact.
	TradeImpact    float64
	MaxTradeImpact float64
}

// DefaultConfig returns the reference tuning.
func DefaultConfig() Config {
	return Config{
		ChangeProbability: DefaultChangeProbability,
		MaxStep:           DefaultMaxStep,
		MomentumWindow:    DefaultMomentumWindow,
		MomentumScale:     DefaultMomentumScale,
		MomentumWeight:    DefaultMomentumWeight,
		ReversionWeight:   DefaultReversionWeight,
		ReversionHorizon:  DefaultReversionHorizon,
		TickInterval:      DefaultTickInterval,
		TradeImpact:       DefaultTradeImpact,
		MaxTradeImpact:    DefaultMaxTradeImpact,
	}
}

// Validate checks that every parameter is usable.
func (c Config) Validate() error {
	el := errors.NewErrorList()

	if c.ChangeProbability < 0 || c.ChangeProbability > 1 {
		el.Add(fmt.Errorf("change probability %v must be within [0, 1]", c.ChangeProbability))
	}
	if c.MaxStep <= 0 || c.MaxStep >= 1 {
		el.Add(fmt.Errorf("max step %v must be within (0, 1)", c.MaxStep))
	}
	if c.MomentumWindow <= 0 {
		el.Add(fmt.Errorf("momentum window must be positive"))
	}
	if c.MomentumScale <= 0 {
		el.Add(fmt.Errorf("momentum scale must be positive"))
	}
	if c.ReversionHorizon <= 0 {
		el.Add(fmt.Errorf("reversion horizon must be positive"))
	}
	if c.TickInterval <= 0 {
		el.Add(fmt.Errorf("tick interval must be positive"))
	}
	if c.TradeImpact < 0 || c.MaxTradeImpact < 0 {
		el.Add(fmt.Errorf("trade impact must not be negative"))
	}

	return el.Err()
}

// fullReversion is the fractional displacement from baseline that maps to
// reversion pressure of magnitude 1: the distance an always-same-direction
// walk covers over ReversionHorizon at the average step size.
func (c Config) fullReversion() float64 {
	ticks := float64(c.ReversionHorizon) / float64(c.TickInterval)
	d := c.ChangeProbability * ticks * (c.MaxStep / 2)
	if d <= 0 {
		return 1
	}
	return d
}
