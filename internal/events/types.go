// Package events runs the lifecycle of in-game events: validating triggers,
// applying immediate damage, counting down cycle-tracked effects and exposing
// the price, production, tax and building-cost modifiers active events imply.
package events

import "fmt"

// EventType is one entry of the fixed event catalog.
type EventType string

const (
	TypeEarthquake             EventType = "earthquake"
	TypeFire                   EventType = "fire"
	TypeDrought                EventType = "drought"
	TypePlague                 EventType = "plague"
	TypeBlizzard               EventType = "blizzard"
	TypeTornado                EventType = "tornado"
	TypeEconomicRecession      EventType = "economic_recession"
	TypeAutomationBreakthrough EventType = "automation_breakthrough"
)

// Types lists every event type in catalog order.
var Types = []EventType{
	TypeEarthquake,
	TypeFire,
	TypeDrought,
	TypePlague,
	TypeBlizzard,
	TypeTornado,
	TypeEconomicRecession,
	TypeAutomationBreakthrough,
}

// ParseEventType converts a wire name into an EventType.
func ParseEventType(s string) (EventType, error) {
	for _, t := range Types {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEventType, s)
}

func (t EventType) Valid() bool {
	_, err := ParseEventType(string(t))
	return err == nil
}

func (t EventType) String() string {
	return string(t)
}

func (t *EventType) UnmarshalText(text []byte) error {
	parsed, err := ParseEventType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Category returns the category an event type belongs to.
func (t EventType) Category() Category {
	switch t {
	case TypeEconomicRecession:
		return CategoryEconomic
	case TypeAutomationBreakthrough:
		return CategoryPositive
	default:
		return CategoryNaturalDisaster
	}
}

// Category groups event types for display and reporting.
type Category string

const (
	CategoryNaturalDisaster Category = "natural_disaster"
	CategoryEconomic        Category = "economic_event"
	CategoryPositive        Category = "positive_event"
)

// Status is where an instance is in its lifecycle. Expired and cured are
// terminal.
type Status string

const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
	StatusCured   Status = "cured"
)

// Terminal reports whether no further transitions are possible.
func (s Status) Terminal() bool {
	return s == StatusExpired || s == StatusCured
}

// ChangeKind says what happened to an instance.
type ChangeKind string

const (
	ChangeTriggered ChangeKind = "triggered"
	ChangeExpired   ChangeKind = "expired"
	ChangeCured     ChangeKind = "cured"
	ChangeTeamCured ChangeKind = "team_cured"
	ChangeActivated ChangeKind = "activated"
	ChangeLapsed    ChangeKind = "lapsed"
)

// Change reports a transition. Instance is a detached copy taken right after
// the transition.
type Change struct {
	Kind     ChangeKind
	Instance *Instance
	Team     string
}
