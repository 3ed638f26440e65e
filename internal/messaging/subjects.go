package messaging

import "strings"

// SubjectPrefix roots every subject the engine uses: econ.<game>.<leaf>.
const SubjectPrefix = "econ"

// Outbound leaves.
const (
	LeafPrices = "prices"
	LeafEvents = "events"
)

// Inbound leaves.
const (
	LeafCreate    = "create"
	LeafTaxCycle  = "tax_cycle"
	LeafTrade     = "trade"
	LeafStatus    = "status"
	LeafTrigger   = "trigger"
	LeafCure      = "cure"
	LeafPay       = "pay"
	LeafInfected  = "infected"
	LeafModifiers = "modifiers"
	LeafSnapshot  = "snapshot"
	LeafHoldings  = "holdings"
)

// InboundLeaves lists every leaf the router answers.
var InboundLeaves = []string{
	LeafCreate,
	LeafTaxCycle,
	LeafTrade,
	LeafStatus,
	LeafTrigger,
	LeafCure,
	LeafPay,
	LeafInfected,
	LeafModifiers,
	LeafSnapshot,
	LeafHoldings,
}

// Subject builds the subject for leaf of a game.
func Subject(gameID, leaf string) string {
	return SubjectPrefix + "." + gameID + "." + leaf
}

// ParseSubject splits a subject into its game id and leaf.
func ParseSubject(subject string) (gameID, leaf string, ok bool) {
	parts := strings.Split(subject, ".")
	if len(parts) != 3 || parts[0] != SubjectPrefix || parts[1] == "" || parts[2] == "" {
		return "", "", false
	}
	return parts[1], parts[2], true
}
