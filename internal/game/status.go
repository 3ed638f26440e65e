package game

import "fmt"

// Status is the lifecycle stage of a game.
type Status string

const (
	StatusWaiting    Status = "waiting"
	StatusInProgress Status = "in_progress"
	StatusPaused     Status = "paused"
	StatusCompleted  Status = "completed"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusWaiting, StatusInProgress, StatusPaused, StatusCompleted:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// transitions lists the statuses reachable from each status.
var transitions = map[Status][]Status{
	StatusWaiting:    {StatusInProgress, StatusCompleted},
	StatusInProgress: {StatusPaused, StatusCompleted},
	StatusPaused:     {StatusInProgress, StatusCompleted},
}

// CanTransition reports whether a game may move from s to next.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
