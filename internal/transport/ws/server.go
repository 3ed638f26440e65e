// Package ws exposes game state to browsers: JSON snapshots over HTTP and a
// websocket stream of price and event notifications per game.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/pixil98/go-tycoon/internal/game"
	"github.com/pixil98/go-tycoon/internal/messaging"
)

const (
	FrameSnapshot = "snapshot"
	FramePrices   = "prices"
	FrameEvent    = "event"
)

// Games is the registry the server reads from.
type Games interface {
	Get(id string) (*game.Session, error)
	List() []*game.Session
}

// Subscriber delivers broker messages for a subject.
type Subscriber interface {
	Subscribe(subject string, handler func(subject string, data []byte)) (func(), error)
}

// Frame is one message on a game stream.
type Frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// GameSummary is one entry of the game listing.
type GameSummary struct {
	ID         string      `json:"id"`
	Name       string      `json:"name,omitempty"`
	Status     game.Status `json:"status"`
	Difficulty string      `json:"difficulty"`
	Ticking    bool        `json:"ticking"`
}

type Server struct {
	addr         string
	games        Games
	bus          Subscriber
	archive      Archive
	audit        AuditTrail
	clocks       Clocks
	upgrader     websocket.Upgrader
	writeTimeout time.Duration
	queueSize    int
	now          func() time.Time

	streams atomic.Int64
}

func NewServer(games Games, bus Subscriber, opts ...ServerOpt) *Server {
	s := &Server{
		addr:  ":8080",
		games: games,
		bus:   bus,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		writeTimeout: 5 * time.Second,
		queueSize:    256,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}
	s.queueSize = max(s.queueSize, 1)

	return s
}

// Handler routes the server's endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /games", s.listGames)
	mux.HandleFunc("GET /games/{id}", s.getGame)
	mux.HandleFunc("GET /games/{id}/stream", s.streamGame)
	mux.HandleFunc("GET /games/{id}/prices/{resource}", s.priceHistory)
	mux.HandleFunc("GET /games/{id}/events", s.listEvents)
	mux.HandleFunc("GET /games/{id}/events/{event}", s.getEvent)
	mux.HandleFunc("GET /games/{id}/teams/{team}", s.getTeam)
	mux.HandleFunc("GET /games/{id}/audit", s.auditEntries)
	mux.HandleFunc("GET /archive/games", s.archivedGames)
	mux.HandleFunc("GET /stats", s.stats)
	return mux
}

func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.addr, err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.InfoContext(ctx, "websocket server listening", "addr", ln.Addr().String())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}

// Streams reports how many websocket streams are open.
func (s *Server) Streams() int {
	return int(s.streams.Load())
}

func (s *Server) listGames(rw http.ResponseWriter, r *http.Request) {
	sessions := s.games.List()
	out := make([]GameSummary, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, GameSummary{
			ID:         sess.ID(),
			Name:       sess.Name(),
			Status:     sess.Status(),
			Difficulty: string(sess.Difficulty()),
			Ticking:    s.ticking(sess.ID()),
		})
	}
	writeJSON(rw, http.StatusOK, out)
}

func (s *Server) getGame(rw http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(rw, r)
	if !ok {
		return
	}
	writeJSON(rw, http.StatusOK, sess.Snapshot(s.now()))
}

func (s *Server) streamGame(rw http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(rw, r)
	if !ok {
		return
	}

	conn, err := s.upgrader.Upgrade(rw, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	s.streams.Add(1)
	defer s.streams.Add(-1)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	out := make(chan []byte, s.queueSize)
	ready := make(chan struct{})

	// Notifications wait for the snapshot so it is always the first frame.
	forward := func(kind string) func(string, []byte) {
		return func(subject string, data []byte) {
			b, err := json.Marshal(Frame{Type: kind, Data: data})
			if err != nil {
				return
			}
			select {
			case <-ready:
			case <-ctx.Done():
				return
			}
			select {
			case out <- b:
			default:
				slog.Warn("dropping stream frame", "game", sess.ID(), "subject", subject)
			}
		}
	}

	for leaf, kind := range map[string]string{messaging.LeafPrices: FramePrices, messaging.LeafEvents: FrameEvent} {
		unsub, err := s.bus.Subscribe(messaging.Subject(sess.ID(), leaf), forward(kind))
		if err != nil {
			slog.ErrorContext(ctx, "subscribing stream", "game", sess.ID(), "error", err)
			_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "unavailable"), time.Now().Add(time.Second))
			return
		}
		defer unsub()
	}

	// Frames published while the snapshot is taken queue up behind it.
	snap, err := encodeFrame(FrameSnapshot, sess.Snapshot(s.now()))
	if err != nil {
		slog.ErrorContext(ctx, "encoding snapshot", "game", sess.ID(), "error", err)
		return
	}
	out <- snap
	close(ready)

	streamID := uuid.NewString()
	slog.DebugContext(ctx, "stream opened", "game", sess.ID(), "stream", streamID, "remote", r.RemoteAddr)

	writeDone := make(chan struct{})
	go func() {
		defer close(writeDone)
		for {
			select {
			case <-ctx.Done():
				_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"), time.Now().Add(time.Second))
				return
			case b := <-out:
				_ = conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					cancel()
					return
				}
			}
		}
	}()

	// Clients only listen; reading detects the close.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	<-writeDone
	slog.DebugContext(r.Context(), "stream closed", "game", sess.ID(), "stream", streamID)
}

func (s *Server) lookup(rw http.ResponseWriter, r *http.Request) (*game.Session, bool) {
	sess, err := s.games.Get(r.PathValue("id"))
	if errors.Is(err, game.ErrGameNotFound) {
		http.Error(rw, err.Error(), http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		http.Error(rw, err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return sess, true
}

func encodeFrame(kind string, v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Frame{Type: kind, Data: data})
}

func writeJSON(rw http.ResponseWriter, status int, v any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(v)
}
