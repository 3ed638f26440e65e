package economy

import "errors"

var (
	ErrUnknownResource   = errors.New("unknown resource")
	ErrUnknownBuilding   = errors.New("unknown building")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrInvalidBaseline   = errors.New("invalid baseline")
)
