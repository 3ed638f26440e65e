package events

import "errors"

var (
	ErrUnknownEventType      = errors.New("unknown event type")
	ErrInvalidSeverity       = errors.New("severity must be between 1 and 5")
	ErrTargetRequired        = errors.New("event requires a target team")
	ErrUnknownTeam           = errors.New("unknown team")
	ErrNoTeams               = errors.New("no teams to affect")
	ErrNotInfected           = errors.New("team is not infected")
	ErrNoPendingPayment      = errors.New("team has no pending event payment")
	ErrInsufficientResources = errors.New("insufficient resources")
)
