package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-tycoon/internal/pricing"
)

// PricingConfig overrides the reference pricing tuning. Unset fields keep
// their defaults.
type PricingConfig struct {
	ChangeProbability *float64 `json:"change_probability,omitempty"`
	MaxStep           *float64 `json:"max_step,omitempty"`
	MomentumWindow    string   `json:"momentum_window,omitempty"`
	MomentumScale     *float64 `json:"momentum_scale,omitempty"`
	MomentumWeight    *float64 `json:"momentum_weight,omitempty"`
	ReversionWeight   *float64 `json:"reversion_weight,omitempty"`
	ReversionHorizon  string   `json:"reversion_horizon,omitempty"`
	TradeImpact       *float64 `json:"trade_impact,omitempty"`
	MaxTradeImpact    *float64 `json:"max_trade_impact,omitempty"`
}

func (c *PricingConfig) validate() error {
	_, err := c.build(defaultTickInterval)
	if err != nil {
		return fmt.Errorf("pricing: %w", err)
	}
	return nil
}

func (c *PricingConfig) build(tick time.Duration) (pricing.Config, error) {
	cfg := pricing.DefaultConfig()
	cfg.TickInterval = tick

	setFloat(&cfg.ChangeProbability, c.ChangeProbability)
	setFloat(&cfg.MaxStep, c.MaxStep)
	setFloat(&cfg.MomentumScale, c.MomentumScale)
	setFloat(&cfg.MomentumWeight, c.MomentumWeight)
	setFloat(&cfg.ReversionWeight, c.ReversionWeight)
	setFloat(&cfg.TradeImpact, c.TradeImpact)
	setFloat(&cfg.MaxTradeImpact, c.MaxTradeImpact)

	el := errors.NewErrorList()
	if err := setDuration(&cfg.MomentumWindow, c.MomentumWindow); err != nil {
		el.Add(fmt.Errorf("parsing momentum_window: %w", err))
	}
	if err := setDuration(&cfg.ReversionHorizon, c.ReversionHorizon); err != nil {
		el.Add(fmt.Errorf("parsing reversion_horizon: %w", err))
	}
	if err := el.Err(); err != nil {
		return pricing.Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return pricing.Config{}, err
	}
	return cfg, nil
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, s string) error {
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}
