// Package events defines the order event envelope and the publishers that ship it.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/angelmondragon/dryfruit-backend/pkg/enums"
	"github.com/google/uuid"
)

const envelopeVersion = 1

// Actor identifies who triggered the event.
type Actor struct {
	UserID string          `json:"userId,omitempty"`
	Role   enums.ActorRole `json:"role,omitempty"`
}

// Envelope is the stable wire format of every published event.
type Envelope struct {
	Version     int                  `json:"version"`
	EventID     string               `json:"eventId"`
	EventType   enums.OrderEventType `json:"eventType"`
	AggregateID string               `json:"aggregateId"`
	OccurredAt  time.Time            `json:"occurredAt"`
	Actor       *Actor               `json:"actor,omitempty"`
	Data        json.RawMessage      `json:"data"`
}

// OrderEvent is the payload carried by order events.
type OrderEvent struct {
	OrderID        string              `json:"orderId"`
	UserID         string              `json:"userId"`
	Status         enums.OrderStatus   `json:"status"`
	PreviousStatus enums.OrderStatus   `json:"previousStatus,omitempty"`
	PaymentMethod  enums.PaymentMethod `json:"paymentMethod,omitempty"`
	TotalAmount    float64             `json:"totalAmount"`
	DeliveryPerson string              `json:"deliveryPerson,omitempty"`
}

// NewEnvelope wraps data for the given event type.
func NewEnvelope(eventType enums.OrderEventType, aggregateID string, actor *Actor, data any, now time.Time) (Envelope, error) {
	if !eventType.IsValid() {
		return Envelope{}, fmt.Errorf("invalid event type %q", eventType)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode event data: %w", err)
	}
	return Envelope{
		Version:     envelopeVersion,
		EventID:     uuid.NewString(),
		EventType:   eventType,
		AggregateID: aggregateID,
		OccurredAt:  now.UTC(),
		Actor:       actor,
		Data:        raw,
	}, nil
}
