package ws

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
	"github.com/pixil98/go-tycoon/internal/auditlog"
	"github.com/pixil98/go-tycoon/internal/economy"
	"github.com/pixil98/go-tycoon/internal/events"
	"github.com/pixil98/go-tycoon/internal/pricing"
)

type fakeArchive struct{}

func (fakeArchive) Games(context.Context) ([]string, error) {
	return []string{"g0", "g1"}, nil
}

func (fakeArchive) PriceHistory(_ context.Context, gameID string, res economy.ResourceType, limit int) ([]economy.PricePoint, error) {
	points := []economy.PricePoint{
		{Timestamp: t0, BuyPrice: 21, SellPrice: 19},
		{Timestamp: t0.Add(time.Second), BuyPrice: 22, SellPrice: 20},
	}
	if limit > 0 {
		points = points[len(points)-limit:]
	}
	return points, nil
}

func (fakeArchive) Events(_ context.Context, gameID string, status events.Status) ([]*events.Instance, error) {
	return []*events.Instance{{ID: 3, Type: events.TypeFire, Status: events.StatusExpired}}, nil
}

type fakeAudit struct{}

func (fakeAudit) Entries(gameID string) ([]auditlog.Entry, error) {
	return []auditlog.Entry{{Game: gameID, Kind: auditlog.KindEvent, Recorded: t0}}, nil
}

type fakeClocks map[string]bool

func (c fakeClocks) Running(id string) bool { return c[id] }

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("requesting: %v", err)
	}
	defer resp.Body.Close()

	var body bytes.Buffer
	if _, err := body.ReadFrom(resp.Body); err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return resp.StatusCode, body.String()
}

func TestServer_LiveHistory(t *testing.T) {
	srv, _, registry := newTestServerWithRegistry(t, WithClocks(fakeClocks{"g1": true}))
	sess, err := registry.Get("g1")
	if err != nil {
		t.Fatalf("getting game: %v", err)
	}
	ctx := context.Background()
	if _, err := sess.Trade(ctx, economy.ResourceFood, 10, pricing.DirectionBuy, t0); err != nil {
		t.Fatalf("trading: %v", err)
	}
	if _, err := sess.Trade(ctx, economy.ResourceFood, 10, pricing.DirectionSell, t0); err != nil {
		t.Fatalf("trading: %v", err)
	}
	if _, err := sess.TriggerEvent(ctx, events.Trigger{Type: events.TypeDrought, Severity: 3}, t0); err != nil {
		t.Fatalf("triggering: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	tests := map[string]struct {
		path      string
		expStatus int
		expBody   string
	}{
		"list shows ticking": {
			path:      "/games",
			expStatus: http.StatusOK,
			expBody:   `"ticking":true`,
		},
		"price history": {
			path:      "/games/g1/prices/food",
			expStatus: http.StatusOK,
			expBody:   `"triggered_by_trade":true`,
		},
		"price history bad limit": {
			path:      "/games/g1/prices/food?limit=x",
			expStatus: http.StatusBadRequest,
			expBody:   "limit must be a non-negative integer",
		},
		"price history unknown resource": {
			path:      "/games/g1/prices/gold",
			expStatus: http.StatusBadRequest,
			expBody:   "unknown resource",
		},
		"price history unknown game": {
			path:      "/games/g9/prices/food",
			expStatus: http.StatusNotFound,
			expBody:   "game not found",
		},
		"events": {
			path:      "/games/g1/events",
			expStatus: http.StatusOK,
			expBody:   `"type":"drought"`,
		},
		"events filtered": {
			path:      "/games/g1/events?status=cured",
			expStatus: http.StatusOK,
			expBody:   `[]`,
		},
		"events bad status": {
			path:      "/games/g1/events?status=asleep",
			expStatus: http.StatusBadRequest,
			expBody:   "unknown event status",
		},
		"event": {
			path:      "/games/g1/events/1",
			expStatus: http.StatusOK,
			expBody:   `"status":"active"`,
		},
		"missing event": {
			path:      "/games/g1/events/5",
			expStatus: http.StatusNotFound,
			expBody:   "event not found",
		},
		"team": {
			path:      "/games/g1/teams/red",
			expStatus: http.StatusOK,
			expBody:   `"name":"Red"`,
		},
		"unknown team": {
			path:      "/games/g1/teams/blue",
			expStatus: http.StatusNotFound,
			expBody:   "team not found",
		},
		"audit not configured": {
			path:      "/games/g1/audit",
			expStatus: http.StatusNotFound,
			expBody:   "audit trail not configured",
		},
		"archive not configured": {
			path:      "/archive/games",
			expStatus: http.StatusNotFound,
			expBody:   "archive not configured",
		},
		"stats": {
			path:      "/stats",
			expStatus: http.StatusOK,
			expBody:   `{"games":1,"ticking":1,"streams":0}`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			status, body := get(t, ts.URL+tt.path)
			testutil.AssertEqual(t, "status", status, tt.expStatus)
			testutil.AssertEqual(t, "body contains "+tt.expBody, strings.Contains(body, tt.expBody), true)
		})
	}

	_, body := get(t, ts.URL+"/games/g1/prices/food")
	testutil.AssertEqual(t, "all points", strings.Count(body, `"timestamp"`), 2)
	_, body = get(t, ts.URL+"/games/g1/prices/food?limit=1")
	testutil.AssertEqual(t, "limited points", strings.Count(body, `"timestamp"`), 1)
}

func TestServer_ArchivedHistory(t *testing.T) {
	_, _, ts := newTestServer(t, WithArchive(fakeArchive{}), WithAuditTrail(fakeAudit{}))

	tests := map[string]struct {
		path      string
		expStatus int
		expBody   string
	}{
		"archived games": {
			path:      "/archive/games",
			expStatus: http.StatusOK,
			expBody:   `["g0","g1"]`,
		},
		"archived prices of a removed game": {
			path:      "/games/g0/prices/food?limit=1",
			expStatus: http.StatusOK,
			expBody:   `"buy_price":22`,
		},
		"archived events": {
			path:      "/games/g0/events",
			expStatus: http.StatusOK,
			expBody:   `"type":"fire"`,
		},
		"audit": {
			path:      "/games/g1/audit",
			expStatus: http.StatusOK,
			expBody:   `"game":"g1","kind":"event"`,
		},
		"list without clocks": {
			path:      "/games",
			expStatus: http.StatusOK,
			expBody:   `"ticking":false`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			status, body := get(t, ts.URL+tt.path)
			testutil.AssertEqual(t, "status", status, tt.expStatus)
			testutil.AssertEqual(t, "body contains "+tt.expBody, strings.Contains(body, tt.expBody), true)
		})
	}
}
