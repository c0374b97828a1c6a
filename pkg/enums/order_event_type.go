package enums

import "fmt"

// OrderEventType names the events published when the order ledger changes.
type OrderEventType string

const (
	OrderEventPlaced        OrderEventType = "order.placed"
	OrderEventStatusUpdated OrderEventType = "order.status_updated"
	OrderEventCancelled     OrderEventType = "order.cancelled"
)

var validOrderEventTypes = []OrderEventType{
	OrderEventPlaced,
	OrderEventStatusUpdated,
	OrderEventCancelled,
}

// String implements fmt.Stringer.
func (e OrderEventType) String() string {
	return string(e)
}

// IsValid reports whether the value is a known OrderEventType.
func (e OrderEventType) IsValid() bool {
	for _, candidate := range validOrderEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOrderEventType converts raw input into an OrderEventType.
func ParseOrderEventType(value string) (OrderEventType, error) {
	for _, candidate := range validOrderEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order event type %q", value)
}
