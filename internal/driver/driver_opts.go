package driver

import "time"

type GameClockOpt func(*GameClock)

func WithTickLength(tickLength time.Duration) GameClockOpt {
	return func(c *GameClock) {
		c.tickLength = tickLength
	}
}

// WithCycleLength makes the clock drive tax cycle boundaries itself.
func WithCycleLength(cycleLength time.Duration) GameClockOpt {
	return func(c *GameClock) {
		c.cycleLength = cycleLength
	}
}

func WithNow(now func() time.Time) GameClockOpt {
	return func(c *GameClock) {
		c.now = now
	}
}
