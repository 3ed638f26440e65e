package game

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/pixil98/go-tycoon/internal/events"
)

// Observer is told about every status change made through the registry.
type Observer interface {
	StatusChanged(ctx context.Context, s *Session, from, to Status)
}

type ObserverFunc func(ctx context.Context, s *Session, from, to Status)

func (f ObserverFunc) StatusChanged(ctx context.Context, s *Session, from, to Status) {
	f(ctx, s, from, to)
}

// Registry holds the running games. Games never share a lock.
type Registry struct {
	sessions  *xsync.MapOf[string, *Session]
	defaults  []SessionOpt
	observers []Observer
}

type RegistryOpt func(*Registry)

// WithDefaults sets options applied to every created session before its own.
func WithDefaults(opts ...SessionOpt) RegistryOpt {
	return func(r *Registry) {
		r.defaults = append(r.defaults, opts...)
	}
}

func WithObserver(o Observer) RegistryOpt {
	return func(r *Registry) {
		r.observers = append(r.observers, o)
	}
}

func NewRegistry(opts ...RegistryOpt) *Registry {
	r := &Registry{
		sessions: xsync.NewMapOf[string, *Session](),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Create registers a new waiting game. An empty id gets a generated one.
func (r *Registry) Create(id string, teams events.TeamState, opts ...SessionOpt) (*Session, error) {
	if id == "" {
		id = uuid.NewString()
	}

	s, err := NewSession(id, teams, append(slices.Clone(r.defaults), opts...)...)
	if err != nil {
		return nil, err
	}

	if _, loaded := r.sessions.LoadOrStore(id, s); loaded {
		return nil, fmt.Errorf("%w: %q", ErrGameExists, id)
	}

	return s, nil
}

// CreateFromScenario registers a game described by sc and starts it when the
// scenario asks for it.
func (r *Registry) CreateFromScenario(ctx context.Context, id string, sc *Scenario) (*Session, error) {
	roster, err := sc.Roster()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", id, err)
	}

	s, err := r.Create(id, roster, sc.SessionOpts()...)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", id, err)
	}

	if sc.AutoStart {
		if err := r.SetStatus(ctx, id, StatusInProgress, time.Now()); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", id, err)
		}
	}

	return s, nil
}

func (r *Registry) Get(id string) (*Session, error) {
	s, ok := r.sessions.Load(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrGameNotFound, id)
	}
	return s, nil
}

// Remove drops a completed game from the registry.
func (r *Registry) Remove(id string) error {
	s, err := r.Get(id)
	if err != nil {
		return err
	}
	if st := s.Status(); st != StatusCompleted {
		return fmt.Errorf("removing game %s in status %s: %w", id, st, ErrInvalidTransition)
	}
	r.sessions.Delete(id)
	return nil
}

// List returns every game ordered by id.
func (r *Registry) List() []*Session {
	var out []*Session
	r.sessions.Range(func(_ string, s *Session) bool {
		out = append(out, s)
		return true
	})
	slices.SortFunc(out, func(a, b *Session) int { return cmp.Compare(a.ID(), b.ID()) })
	return out
}

// SetStatus changes a game's status and notifies observers when it moved.
func (r *Registry) SetStatus(ctx context.Context, id string, status Status, now time.Time) error {
	s, err := r.Get(id)
	if err != nil {
		return err
	}

	from, changed, err := s.SetStatus(ctx, status, now)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	for _, o := range r.observers {
		o.StatusChanged(ctx, s, from, status)
	}
	return nil
}

// ResultStore keeps the results of completed games.
type ResultStore interface {
	Save(id string, r *GameResult) error
}

// ArchiveResults returns an observer that saves a game's result once it
// completes.
func ArchiveResults(store ResultStore) Observer {
	return ObserverFunc(func(ctx context.Context, s *Session, _, to Status) {
		if to != StatusCompleted {
			return
		}
		if err := store.Save(s.ID(), s.Result()); err != nil {
			slog.ErrorContext(ctx, "saving game result failed", "game", s.ID(), "error", err)
			return
		}
		slog.InfoContext(ctx, "game result saved", "game", s.ID())
	})
}
