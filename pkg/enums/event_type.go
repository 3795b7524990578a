package enums

import "fmt"

// EventType is the canonical event_type for storefront analytics events.
type EventType string

const (
	EventTypeImpression EventType = "impression"
	EventTypeConversion EventType = "conversion"
)

var validEventTypes = []EventType{
	EventTypeImpression,
	EventTypeConversion,
}

// String implements fmt.Stringer.
func (e EventType) String() string {
	return string(e)
}

// IsValid reports whether the value is known.
func (e EventType) IsValid() bool {
	for _, candidate := range validEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEventType converts raw input into an EventType.
func ParseEventType(value string) (EventType, error) {
	for _, candidate := range validEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
