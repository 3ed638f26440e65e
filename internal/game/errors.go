package game

import "errors"

var (
	ErrGameNotFound      = errors.New("game not found")
	ErrGameExists        = errors.New("game already exists")
	ErrNotInProgress     = errors.New("game is not in progress")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnknownStatus     = errors.New("unknown game status")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrGameCompleted     = errors.New("game is completed")
	ErrHoldingsReadOnly  = errors.New("team holdings are read-only")
)
