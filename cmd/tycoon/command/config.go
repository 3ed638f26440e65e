package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
)

const defaultTickInterval = time.Second

type Config struct {
	TickInterval     string          `json:"tick_interval"`
	TaxCycleInterval string          `json:"tax_cycle_interval"`
	HistoryLimit     int             `json:"history_limit"`
	Pricing          PricingConfig   `json:"pricing"`
	Events           EventsConfig    `json:"events"`
	Storage          StorageConfig   `json:"storage"`
	Database         DatabaseConfig  `json:"database"`
	Audit            AuditConfig     `json:"audit"`
	Nats             NatsConfig      `json:"nats"`
	WebSocket        WebSocketConfig `json:"websocket"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if _, err := c.tickInterval(); err != nil {
		el.Add(err)
	}
	if _, err := c.taxCycleInterval(); err != nil {
		el.Add(err)
	}
	if c.HistoryLimit < 0 {
		el.Add(fmt.Errorf("history_limit must not be negative"))
	}

	el.Add(c.Pricing.validate())
	el.Add(c.Events.validate())
	el.Add(c.Storage.validate())
	el.Add(c.Database.validate())
	el.Add(c.Audit.validate())
	el.Add(c.Nats.validate())
	el.Add(c.WebSocket.validate())

	return el.Err()
}

func (c *Config) tickInterval() (time.Duration, error) {
	if c.TickInterval == "" {
		return defaultTickInterval, nil
	}
	d, err := time.ParseDuration(c.TickInterval)
	if err != nil {
		return 0, fmt.Errorf("parsing tick_interval: %w", err)
	}
	if d < 10*time.Millisecond {
		return 0, fmt.Errorf("tick_interval must be at least 10ms")
	}
	return d, nil
}

// taxCycleInterval returns zero when tax cycles are driven externally.
func (c *Config) taxCycleInterval() (time.Duration, error) {
	if c.TaxCycleInterval == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.TaxCycleInterval)
	if err != nil {
		return 0, fmt.Errorf("parsing tax_cycle_interval: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("tax_cycle_interval must be positive")
	}
	return d, nil
}
