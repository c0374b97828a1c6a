package enums

import "fmt"

// OrderStatus tracks an order through preparation and delivery.
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// fulfillmentPath is the linear progression offered to admins.
var fulfillmentPath = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is allowed.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// Next returns the linear successor of s, if any.
func (s OrderStatus) Next() (OrderStatus, bool) {
	for i, candidate := range fulfillmentPath {
		if candidate == s && i+1 < len(fulfillmentPath) {
			return fulfillmentPath[i+1], true
		}
	}
	return "", false
}

// CanTransition reports whether an order may move from one status to another.
// Forward moves along the fulfillment path are allowed, as is cancellation from
// any non-terminal status. Re-applying the current non-terminal status is
// allowed so tracking details can be refreshed.
func CanTransition(from, to OrderStatus) bool {
	if !from.IsValid() || !to.IsValid() || from.IsTerminal() {
		return false
	}
	if from == to || to == OrderStatusCancelled {
		return true
	}
	return pathIndex(to) > pathIndex(from)
}

func pathIndex(s OrderStatus) int {
	for i, candidate := range fulfillmentPath {
		if candidate == s {
			return i
		}
	}
	return -1
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
