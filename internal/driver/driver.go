// Package driver runs the clocks of in-progress games.
package driver

import (
	"context"
	"time"

	"github.com/pixil98/go-tycoon/internal/game"
)

const (
	DefaultTickLength = time.Second
)

// Game is what a clock drives.
type Game interface {
	ID() string
	TickPrices(ctx context.Context, now time.Time) []game.PriceUpdate
	TimedCycles(ctx context.Context, length time.Duration, now time.Time) ([]game.EventNotification, time.Duration)
}

// GameClock ticks one game's prices and, when a cycle length is set, signals
// its tax cycle boundaries.
type GameClock struct {
	game        Game
	tickLength  time.Duration
	cycleLength time.Duration
	now         func() time.Time
}

func NewGameClock(g Game, opts ...GameClockOpt) *GameClock {
	c := &GameClock{
		game:       g,
		tickLength: DefaultTickLength,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Start runs the clock until ctx is done. Ticks are never caught up: a
// restarted clock starts from a fresh ticker. Cycle boundaries follow the
// game's active time, so a restarted clock waits only for what is left of
// the current cycle.
func (c *GameClock) Start(ctx context.Context) error {
	ticker := time.NewTicker(c.tickLength)
	defer ticker.Stop()

	var cycleTimer *time.Timer
	var cycles <-chan time.Time
	if c.cycleLength > 0 {
		cycleTimer = time.NewTimer(c.Cycle(ctx))
		defer cycleTimer.Stop()
		cycles = cycleTimer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			c.Tick(ctx)
		case <-cycles:
			cycleTimer.Reset(c.Cycle(ctx))
		}
	}
}

func (c *GameClock) Tick(ctx context.Context) {
	c.game.TickPrices(ctx, c.now())
}

// Cycle runs every tax cycle boundary that is due and returns the wait until
// the next one. Clocks without a cycle length never signal boundaries.
func (c *GameClock) Cycle(ctx context.Context) time.Duration {
	if c.cycleLength <= 0 {
		return 0
	}
	_, next := c.game.TimedCycles(ctx, c.cycleLength, c.now())
	return next
}
