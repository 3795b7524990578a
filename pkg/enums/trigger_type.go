package enums

import "fmt"

// TriggerType selects what cart condition activates an upsell rule.
type TriggerType string

const (
	TriggerTypeProduct    TriggerType = "product"
	TriggerTypeCollection TriggerType = "collection"
)

var validTriggerTypes = []TriggerType{
	TriggerTypeProduct,
	TriggerTypeCollection,
}

// String implements fmt.Stringer.
func (t TriggerType) String() string {
	return string(t)
}

// IsValid reports whether the value is known.
func (t TriggerType) IsValid() bool {
	for _, candidate := range validTriggerTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTriggerType converts raw input into a TriggerType.
func ParseTriggerType(value string) (TriggerType, error) {
	for _, candidate := range validTriggerTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid trigger type %q", value)
}
