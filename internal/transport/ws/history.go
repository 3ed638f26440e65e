package ws

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/pixil98/go-tycoon/internal/auditlog"
	"github.com/pixil98/go-tycoon/internal/economy"
	"github.com/pixil98/go-tycoon/internal/events"
	"github.com/pixil98/go-tycoon/internal/teams"
)

// Archive is the durable record of price points and events.
type Archive interface {
	Games(ctx context.Context) ([]string, error)
	PriceHistory(ctx context.Context, gameID string, res economy.ResourceType, limit int) ([]economy.PricePoint, error)
	Events(ctx context.Context, gameID string, status events.Status) ([]*events.Instance, error)
}

// AuditTrail reads back the notifications games broadcast.
type AuditTrail interface {
	Entries(gameID string) ([]auditlog.Entry, error)
}

// Clocks reports which games are being ticked.
type Clocks interface {
	Running(id string) bool
}

// Stats is a summary of what the server is serving.
type Stats struct {
	Games   int `json:"games"`
	Ticking int `json:"ticking"`
	Streams int `json:"streams"`
}

func (s *Server) stats(rw http.ResponseWriter, r *http.Request) {
	st := Stats{Streams: s.Streams()}
	for _, sess := range s.games.List() {
		st.Games++
		if s.ticking(sess.ID()) {
			st.Ticking++
		}
	}
	writeJSON(rw, http.StatusOK, st)
}

func (s *Server) ticking(id string) bool {
	return s.clocks != nil && s.clocks.Running(id)
}

// priceHistory serves the archived points of a resource when an archive is
// configured and the points still held in memory otherwise.
func (s *Server) priceHistory(rw http.ResponseWriter, r *http.Request) {
	res, err := economy.ParseResourceType(r.PathValue("resource"))
	if err != nil {
		http.Error(rw, err.Error(), http.StatusBadRequest)
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 0 {
			http.Error(rw, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
	}

	if s.archive != nil {
		points, err := s.archive.PriceHistory(r.Context(), r.PathValue("id"), res, limit)
		if err != nil {
			http.Error(rw, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(rw, http.StatusOK, points)
		return
	}

	sess, ok := s.lookup(rw, r)
	if !ok {
		return
	}
	points := sess.PriceHistory(res)
	if limit > 0 && len(points) > limit {
		points = points[len(points)-limit:]
	}
	if points == nil {
		points = []economy.PricePoint{}
	}
	writeJSON(rw, http.StatusOK, points)
}

// listEvents serves a game's events, optionally filtered by ?status=.
func (s *Server) listEvents(rw http.ResponseWriter, r *http.Request) {
	status := events.Status(r.URL.Query().Get("status"))
	switch status {
	case "", events.StatusActive, events.StatusExpired, events.StatusCured:
	default:
		http.Error(rw, "unknown event status "+strconv.Quote(string(status)), http.StatusBadRequest)
		return
	}

	if s.archive != nil {
		insts, err := s.archive.Events(r.Context(), r.PathValue("id"), status)
		if err != nil {
			http.Error(rw, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(rw, http.StatusOK, insts)
		return
	}

	sess, ok := s.lookup(rw, r)
	if !ok {
		return
	}
	snap := sess.Snapshot(s.now())
	out := []*events.Instance{}
	for _, inst := range append(snap.ActiveEvents, snap.EventHistory...) {
		if status == "" || inst.Status == status {
			out = append(out, inst)
		}
	}
	writeJSON(rw, http.StatusOK, out)
}

func (s *Server) getEvent(rw http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("event"))
	if err != nil {
		http.Error(rw, "event id must be an integer", http.StatusBadRequest)
		return
	}

	sess, ok := s.lookup(rw, r)
	if !ok {
		return
	}
	inst, ok := sess.Event(id)
	if !ok {
		http.Error(rw, "event not found", http.StatusNotFound)
		return
	}
	writeJSON(rw, http.StatusOK, inst)
}

func (s *Server) getTeam(rw http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(rw, r)
	if !ok {
		return
	}

	team, err := sess.Holdings(r.PathValue("team"))
	if errors.Is(err, teams.ErrTeamNotFound) {
		http.Error(rw, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(rw, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(rw, http.StatusOK, team)
}

func (s *Server) auditEntries(rw http.ResponseWriter, r *http.Request) {
	if s.audit == nil {
		http.Error(rw, "audit trail not configured", http.StatusNotFound)
		return
	}

	entries, err := s.audit.Entries(r.PathValue("id"))
	if err != nil {
		http.Error(rw, err.Error(), http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []auditlog.Entry{}
	}
	writeJSON(rw, http.StatusOK, entries)
}

func (s *Server) archivedGames(rw http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		http.Error(rw, "archive not configured", http.StatusNotFound)
		return
	}

	ids, err := s.archive.Games(r.Context())
	if err != nil {
		http.Error(rw, err.Error(), http.StatusInternalServerError)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(rw, http.StatusOK, ids)
}
