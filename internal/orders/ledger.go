package orders

import (
	"time"

	"github.com/angelmondragon/dryfruit-backend/internal/cart"
	"github.com/angelmondragon/dryfruit-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/dryfruit-backend/pkg/errors"
	"github.com/angelmondragon/dryfruit-backend/pkg/ids"
)

const orderIDPrefix = "ORD"

// StatusMessage is the tracking line shown to the customer for a status.
func StatusMessage(status enums.OrderStatus) string {
	switch status {
	case enums.OrderStatusPending:
		return "Order received and pending confirmation"
	case enums.OrderStatusConfirmed:
		return "Order confirmed and being prepared"
	case enums.OrderStatusPreparing:
		return "Your order is being prepared"
	case enums.OrderStatusOutForDelivery:
		return "Your order is out for delivery"
	case enums.OrderStatusDelivered:
		return "Your order has been delivered"
	case enums.OrderStatusCancelled:
		return "Your order has been cancelled"
	default:
		return "Order status updated"
	}
}

// NextStatus is the status an admin advances an order to, if any.
func NextStatus(status enums.OrderStatus) (enums.OrderStatus, bool) {
	return status.Next()
}

// ApplyPlace records a new confirmed order at the head of the ledger.
func ApplyPlace(state State, in PlaceOrderInput, now time.Time, eta time.Duration) (State, Order, error) {
	if len(in.Items) == 0 {
		return state, Order{}, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	if !in.PaymentMethod.IsValid() {
		return state, Order{}, pkgerrors.Newf(pkgerrors.CodeValidation, "unsupported payment method %q", in.PaymentMethod)
	}

	created := now.UTC()
	estimated := created.Add(eta)
	order := Order{
		ID:              ids.Millis(orderIDPrefix, created, func(id string) bool { return Find(state, id) >= 0 }),
		UserID:          in.UserID,
		Items:           cart.CloneItems(in.Items),
		TotalAmount:     cart.TotalAmount(in.Items),
		DeliveryFee:     in.DeliveryFee,
		Status:          enums.OrderStatusConfirmed,
		DeliveryAddress: in.DeliveryAddress,
		PaymentMethod:   in.PaymentMethod,
		// payment is not verified, every placed order is recorded as paid
		PaymentStatus:     enums.PaymentStatusCompleted,
		CreatedAt:         created,
		EstimatedDelivery: &estimated,
		TrackingInfo:      &TrackingInfo{CurrentStatus: StatusMessage(enums.OrderStatusConfirmed)},
	}

	next := make([]Order, 0, len(state.Orders)+1)
	next = append(next, order)
	next = append(next, state.Orders...)
	return State{Orders: next}, order, nil
}

// ApplyCancel marks an order cancelled whatever its status. Unknown ids are ignored.
func ApplyCancel(state State, id string) (State, bool) {
	idx := Find(state, id)
	if idx < 0 {
		return state, false
	}
	next := cloneOrders(state.Orders)
	next[idx].Status = enums.OrderStatusCancelled
	return State{Orders: next}, true
}

// ApplyCancelFrom cancels the order only while its status is one of allowed.
func ApplyCancelFrom(state State, id string, allowed []enums.OrderStatus) (State, error) {
	idx := Find(state, id)
	if idx < 0 {
		return state, orderNotFound(id)
	}
	current := state.Orders[idx].Status
	for _, status := range allowed {
		if status == current {
			next, _ := ApplyCancel(state, id)
			return next, nil
		}
	}
	return state, pkgerrors.New(pkgerrors.CodeStateConflict, "order can no longer be cancelled").
		WithDetails(map[string]any{"status": current})
}

// ApplyUpdateStatus validates and applies a status change, refreshing the
// tracking message and merging the delivery person when one is supplied.
func ApplyUpdateStatus(state State, id string, status enums.OrderStatus, person *DeliveryPerson) (State, Order, error) {
	idx := Find(state, id)
	if idx < 0 {
		return state, Order{}, orderNotFound(id)
	}
	if !status.IsValid() {
		return state, Order{}, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid order status %q", status)
	}
	current := state.Orders[idx]
	if !enums.CanTransition(current.Status, status) {
		return state, Order{}, pkgerrors.Newf(pkgerrors.CodeStateConflict, "cannot move order from %s to %s", current.Status, status).
			WithDetails(map[string]any{"from": current.Status, "to": status})
	}

	tracking := TrackingInfo{}
	if current.TrackingInfo != nil {
		tracking = *current.TrackingInfo
	}
	tracking.CurrentStatus = StatusMessage(status)
	if person != nil {
		snapshot := *person
		tracking.DeliveryPerson = &snapshot
	}

	next := cloneOrders(state.Orders)
	next[idx].Status = status
	next[idx].TrackingInfo = &tracking
	return State{Orders: next}, next[idx], nil
}

// Find returns the index of the order with id, or -1.
func Find(state State, id string) int {
	for i, order := range state.Orders {
		if order.ID == id {
			return i
		}
	}
	return -1
}

func cloneOrders(orders []Order) []Order {
	out := make([]Order, len(orders))
	copy(out, orders)
	return out
}

func orderNotFound(id string) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "order not found").WithDetails(map[string]any{"orderId": id})
}
