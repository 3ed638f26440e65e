package messaging

import "errors"

var (
	ErrNotStarted     = errors.New("nats server not started")
	ErrBadSubject     = errors.New("malformed subject")
	ErrUnknownSubject = errors.New("unknown subject")
	ErrBadRequest     = errors.New("malformed request")
	ErrTeamRequired   = errors.New("team is required")
)
