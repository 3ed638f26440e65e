package messaging

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestParseSubject(t *testing.T) {
	tests := map[string]struct {
		subject string
		expGame string
		expLeaf string
		expOK   bool
	}{
		"valid":         {subject: "econ.g1.trade", expGame: "g1", expLeaf: "trade", expOK: true},
		"wrong prefix":  {subject: "mud.g1.trade"},
		"too short":     {subject: "econ.g1"},
		"too long":      {subject: "econ.g1.trade.extra"},
		"empty game id": {subject: "econ..trade"},
		"empty leaf":    {subject: "econ.g1."},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			gameID, leaf, ok := ParseSubject(tt.subject)
			testutil.AssertEqual(t, "ok", ok, tt.expOK)
			testutil.AssertEqual(t, "game", gameID, tt.expGame)
			testutil.AssertEqual(t, "leaf", leaf, tt.expLeaf)
		})
	}
}

func TestSubject_RoundTrip(t *testing.T) {
	for _, leaf := range append([]string{LeafPrices, LeafEvents}, InboundLeaves...) {
		gameID, got, ok := ParseSubject(Subject("g-7", leaf))
		testutil.AssertEqual(t, leaf+" ok", ok, true)
		testutil.AssertEqual(t, leaf+" game", gameID, "g-7")
		testutil.AssertEqual(t, leaf+" leaf", got, leaf)
	}
}
