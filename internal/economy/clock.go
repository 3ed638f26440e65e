package economy

import "time"

// Instant is a point in a game's life: the wall-clock time plus the amount of
// time the game has spent in progress.
type Instant struct {
	Wall   time.Time
	Active time.Duration
}

// ActiveClock accumulates the time a game spends in progress. It is frozen
// while the game is paused so time-windowed lookups never see the pause.
type ActiveClock struct {
	accumulated time.Duration
	since       time.Time
	running     bool
}

// Start resumes accumulation at now. Starting a running clock is a no-op.
func (c *ActiveClock) Start(now time.Time) {
	if c.running {
		return
	}
	c.since = now
	c.running = true
}

// Stop freezes accumulation at now. Stopping a stopped clock is a no-op.
func (c *ActiveClock) Stop(now time.Time) {
	if !c.running {
		return
	}
	c.accumulated += elapsed(c.since, now)
	c.running = false
}

// Running reports whether the clock is accumulating.
func (c *ActiveClock) Running() bool {
	return c.running
}

// Now returns the instant for wall time now.
func (c *ActiveClock) Now(now time.Time) Instant {
	active := c.accumulated
	if c.running {
		active += elapsed(c.since, now)
	}
	return Instant{Wall: now, Active: active}
}

func elapsed(from, to time.Time) time.Duration {
	d := to.Sub(from)
	if d < 0 {
		return 0
	}
	return d
}
