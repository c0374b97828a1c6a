package orders

import (
	"time"

	"github.com/angelmondragon/dryfruit-backend/internal/cart"
	"github.com/angelmondragon/dryfruit-backend/internal/users"
	"github.com/angelmondragon/dryfruit-backend/pkg/enums"
	"github.com/angelmondragon/dryfruit-backend/pkg/events"
	"github.com/angelmondragon/dryfruit-backend/pkg/pagination"
)

// DeliveryPerson is the rider snapshot copied onto an order at assignment time.
type DeliveryPerson struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Image string `json:"image,omitempty"`
}

// TrackingInfo is the customer-facing progress of an order.
type TrackingInfo struct {
	CurrentStatus   string          `json:"currentStatus"`
	CurrentLocation string          `json:"currentLocation,omitempty"`
	DeliveryPerson  *DeliveryPerson `json:"deliveryPerson,omitempty"`
}

// Order is an immutable record of a checkout plus its mutable fulfillment status.
type Order struct {
	ID                string              `json:"id"`
	UserID            string              `json:"userId"`
	Items             []cart.Item         `json:"items"`
	TotalAmount       float64             `json:"totalAmount"`
	DeliveryFee       float64             `json:"deliveryFee"`
	Status            enums.OrderStatus   `json:"status"`
	DeliveryAddress   users.Address       `json:"deliveryAddress"`
	PaymentMethod     enums.PaymentMethod `json:"paymentMethod"`
	PaymentStatus     enums.PaymentStatus `json:"paymentStatus"`
	CreatedAt         time.Time           `json:"createdAt"`
	EstimatedDelivery *time.Time          `json:"estimatedDelivery,omitempty"`
	TrackingInfo      *TrackingInfo       `json:"trackingInfo,omitempty"`
}

// PayableAmount is what the customer pays: the items total plus the delivery fee.
func (o Order) PayableAmount() float64 {
	return o.TotalAmount + o.DeliveryFee
}

// State is the persisted order ledger, newest order first.
type State struct {
	Orders []Order `json:"orders"`
}

// PlaceOrderInput is everything needed to record a new order.
type PlaceOrderInput struct {
	UserID          string
	Items           []cart.Item
	DeliveryAddress users.Address
	PaymentMethod   enums.PaymentMethod
	DeliveryFee     float64
}

// UpdateStatusInput moves an order to a new status.
type UpdateStatusInput struct {
	OrderID        string
	Status         enums.OrderStatus
	DeliveryPerson *DeliveryPerson
	Actor          *events.Actor
}

// ListFilter narrows and pages the order list.
type ListFilter struct {
	UserID string
	Status enums.OrderStatus
	Page   pagination.Params
}
