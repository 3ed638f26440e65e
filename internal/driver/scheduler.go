package driver

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pixil98/go-tycoon/internal/game"
)

// Scheduler keeps exactly one clock running for every in-progress game. It
// learns about games through status change notifications.
type Scheduler struct {
	clockOpts []GameClockOpt

	mu      sync.Mutex
	ctx     context.Context
	group   *errgroup.Group
	running map[string]context.CancelFunc
	pending map[string]*game.Session
}

func NewScheduler(opts ...GameClockOpt) *Scheduler {
	return &Scheduler{
		clockOpts: opts,
		running:   map[string]context.CancelFunc{},
		pending:   map[string]*game.Session{},
	}
}

// Start runs clocks until ctx is done, then waits for all of them to stop.
func (s *Scheduler) Start(ctx context.Context) error {
	group, gctx := errgroup.WithContext(ctx)

	s.mu.Lock()
	s.ctx = gctx
	s.group = group
	for id, sess := range s.pending {
		s.launch(sess)
		delete(s.pending, id)
	}
	s.mu.Unlock()

	slog.InfoContext(ctx, "game scheduler started")
	<-ctx.Done()

	s.mu.Lock()
	for id, cancel := range s.running {
		cancel()
		delete(s.running, id)
	}
	s.mu.Unlock()

	return group.Wait()
}

// StatusChanged reconciles the game's clock with its current status.
func (s *Scheduler) StatusChanged(ctx context.Context, sess *game.Session, from, to game.Status) {
	slog.DebugContext(ctx, "reconciling game clock", "game", sess.ID(), "from", from, "to", to)
	s.Reconcile(sess)
}

// Reconcile starts the game's clock if the game is in progress and stops it
// otherwise. The status is read fresh so out of order notifications settle on
// the latest status.
func (s *Scheduler) Reconcile(sess *game.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := sess.ID()
	if sess.Status() == game.StatusInProgress {
		if _, ok := s.running[id]; ok {
			return
		}
		if s.group == nil {
			s.pending[id] = sess
			return
		}
		s.launch(sess)
		return
	}

	delete(s.pending, id)
	if cancel, ok := s.running[id]; ok {
		cancel()
		delete(s.running, id)
	}
}

// Running reports whether a clock is running for the game.
func (s *Scheduler) Running(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.running[id]
	return ok
}

// launch must be called with mu held.
func (s *Scheduler) launch(sess *game.Session) {
	ctx, cancel := context.WithCancel(s.ctx)
	s.running[sess.ID()] = cancel

	clock := NewGameClock(sess, s.clockOpts...)
	s.group.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				slog.ErrorContext(ctx, "game clock panicked", "game", sess.ID(), "panic", fmt.Sprint(r))
			}
		}()

		slog.DebugContext(ctx, "game clock started", "game", sess.ID())
		if err := clock.Start(ctx); err != nil {
			slog.ErrorContext(ctx, "game clock failed", "game", sess.ID(), "error", err)
		}
		return nil
	})
}
