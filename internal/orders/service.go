package orders

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/angelmondragon/dryfruit-backend/internal/delivery"
	"github.com/angelmondragon/dryfruit-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/dryfruit-backend/pkg/errors"
	"github.com/angelmondragon/dryfruit-backend/pkg/events"
	"github.com/angelmondragon/dryfruit-backend/pkg/kvstore"
	"github.com/angelmondragon/dryfruit-backend/pkg/latency"
	"github.com/angelmondragon/dryfruit-backend/pkg/logger"
	"github.com/angelmondragon/dryfruit-backend/pkg/pagination"
)

// StorageKey is the snapshot key of the order ledger.
const StorageKey = "order-storage"

const defaultDeliveryETA = 30 * time.Minute

type rosterReader interface {
	Get(ctx context.Context, id string) (delivery.Person, error)
}

type orderMetrics interface {
	IncOrderPlaced(paymentMethod string)
	IncStatusTransition(status string)
}

// Service manages the order ledger.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (Order, error)
	Get(ctx context.Context, id string) (Order, error)
	List(ctx context.Context, filter ListFilter) (pagination.Page[Order], error)
	All(ctx context.Context) ([]Order, error)
	Cancel(ctx context.Context, id string, actor *events.Actor) (*Order, error)
	CancelFrom(ctx context.Context, id string, allowed []enums.OrderStatus, actor *events.Actor) (Order, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (Order, error)
	AssignDeliveryPerson(ctx context.Context, orderID, personID string, actor *events.Actor) (Order, error)
}

// ServiceParams bundles the dependencies of the order service.
type ServiceParams struct {
	Store     kvstore.Store
	Locker    kvstore.Locker
	Latency   latency.Simulator
	Publisher events.Publisher
	Roster    rosterReader
	Metrics   orderMetrics
	Logger    *logger.Logger
	ETA       time.Duration
	Now       func() time.Time
}

type service struct {
	doc       *kvstore.Doc[State]
	latency   latency.Simulator
	publisher events.Publisher
	roster    rosterReader
	metrics   orderMetrics
	logg      *logger.Logger
	eta       time.Duration
	now       func() time.Time
}

// NewService builds the order service.
func NewService(params ServiceParams) (Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if params.Roster == nil {
		return nil, fmt.Errorf("delivery roster is required")
	}
	doc, err := kvstore.NewDoc(params.Store, params.Locker, StorageKey, func() State { return State{Orders: []Order{}} })
	if err != nil {
		return nil, err
	}
	sim := params.Latency
	if sim == nil {
		sim = latency.None{}
	}
	publisher := params.Publisher
	if publisher == nil {
		publisher = events.NewLogPublisher(params.Logger)
	}
	eta := params.ETA
	if eta <= 0 {
		eta = defaultDeliveryETA
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		doc:       doc,
		latency:   sim,
		publisher: publisher,
		roster:    params.Roster,
		metrics:   params.Metrics,
		logg:      params.Logger,
		eta:       eta,
		now:       now,
	}, nil
}

func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (Order, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return Order{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if err := s.latency.Wait(ctx, latency.OpPlaceOrder); err != nil {
		return Order{}, err
	}

	var placed Order
	_, err := s.doc.Update(ctx, func(state State) (State, error) {
		next, order, err := ApplyPlace(state, input, s.now(), s.eta)
		if err != nil {
			return state, err
		}
		placed = order
		return next, nil
	})
	if err != nil {
		return Order{}, err
	}

	ctx = s.logg.WithOrderID(s.logg.WithUserID(ctx, placed.UserID), placed.ID)
	s.logg.Info(ctx, "order.placed")
	if s.metrics != nil {
		s.metrics.IncOrderPlaced(string(placed.PaymentMethod))
	}
	s.publish(ctx, enums.OrderEventPlaced, placed, "", &events.Actor{UserID: placed.UserID, Role: enums.ActorRoleCustomer})
	return placed, nil
}

func (s *service) Get(ctx context.Context, id string) (Order, error) {
	state, err := s.doc.Get(ctx)
	if err != nil {
		return Order{}, err
	}
	idx := Find(state, id)
	if idx < 0 {
		return Order{}, orderNotFound(id)
	}
	return state.Orders[idx], nil
}

func (s *service) All(ctx context.Context) ([]Order, error) {
	state, err := s.doc.Get(ctx)
	if err != nil {
		return nil, err
	}
	if state.Orders == nil {
		return []Order{}, nil
	}
	return state.Orders, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) (pagination.Page[Order], error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return pagination.Page[Order]{}, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid order status %q", filter.Status)
	}
	all, err := s.All(ctx)
	if err != nil {
		return pagination.Page[Order]{}, err
	}

	rows := make([]Order, 0, len(all))
	for _, order := range all {
		if filter.UserID != "" && order.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		rows = append(rows, order)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].ID > rows[j].ID
		}
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})

	page, err := pagination.Paginate(rows, filter.Page, func(o Order) pagination.Cursor {
		return pagination.Cursor{CreatedAt: o.CreatedAt, ID: o.ID}
	})
	if err != nil {
		return pagination.Page[Order]{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	return page, nil
}

// Cancel marks the order cancelled. It returns nil when the order does not exist.
func (s *service) Cancel(ctx context.Context, id string, actor *events.Actor) (*Order, error) {
	if err := s.latency.Wait(ctx, latency.OpCancelOrder); err != nil {
		return nil, err
	}

	var (
		cancelled *Order
		previous  enums.OrderStatus
	)
	_, err := s.doc.Update(ctx, func(state State) (State, error) {
		if idx := Find(state, id); idx >= 0 {
			previous = state.Orders[idx].Status
		}
		next, ok := ApplyCancel(state, id)
		if ok {
			order := next.Orders[Find(next, id)]
			cancelled = &order
		}
		return next, nil
	})
	if err != nil {
		return nil, err
	}
	if cancelled == nil {
		s.logg.Debug(s.logg.WithOrderID(ctx, id), "cancel ignored for unknown order")
		return nil, nil
	}
	s.recordCancel(ctx, *cancelled, previous, actor)
	return cancelled, nil
}

// CancelFrom cancels the order only if, once the store lock is held, its
// status is still one of allowed. Missing orders are NOT_FOUND.
func (s *service) CancelFrom(ctx context.Context, id string, allowed []enums.OrderStatus, actor *events.Actor) (Order, error) {
	if err := s.latency.Wait(ctx, latency.OpCancelOrder); err != nil {
		return Order{}, err
	}

	var previous enums.OrderStatus
	state, err := s.doc.Update(ctx, func(state State) (State, error) {
		if idx := Find(state, id); idx >= 0 {
			previous = state.Orders[idx].Status
		}
		return ApplyCancelFrom(state, id, allowed)
	})
	if err != nil {
		return Order{}, err
	}
	cancelled := state.Orders[Find(state, id)]
	s.recordCancel(ctx, cancelled, previous, actor)
	return cancelled, nil
}

func (s *service) recordCancel(ctx context.Context, cancelled Order, previous enums.OrderStatus, actor *events.Actor) {
	ctx = s.logg.WithOrderID(ctx, cancelled.ID)
	s.logg.Info(ctx, "order.cancelled")
	if s.metrics != nil {
		s.metrics.IncStatusTransition(string(enums.OrderStatusCancelled))
	}
	s.publish(ctx, enums.OrderEventCancelled, cancelled, previous, actor)
}

func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (Order, error) {
	if strings.TrimSpace(input.OrderID) == "" {
		return Order{}, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if err := s.latency.Wait(ctx, latency.OpUpdateStatus); err != nil {
		return Order{}, err
	}

	var (
		updated  Order
		previous enums.OrderStatus
	)
	_, err := s.doc.Update(ctx, func(state State) (State, error) {
		if idx := Find(state, input.OrderID); idx >= 0 {
			previous = state.Orders[idx].Status
		}
		next, order, err := ApplyUpdateStatus(state, input.OrderID, input.Status, input.DeliveryPerson)
		if err != nil {
			return state, err
		}
		updated = order
		return next, nil
	})
	if err != nil {
		return Order{}, err
	}

	ctx = s.logg.WithFields(s.logg.WithOrderID(ctx, updated.ID), map[string]any{
		"from": previous,
		"to":   updated.Status,
	})
	s.logg.Info(ctx, "order.status_updated")
	if s.metrics != nil {
		s.metrics.IncStatusTransition(string(updated.Status))
	}
	eventType := enums.OrderEventStatusUpdated
	if updated.Status == enums.OrderStatusCancelled {
		eventType = enums.OrderEventCancelled
	}
	s.publish(ctx, eventType, updated, previous, input.Actor)
	return updated, nil
}

// AssignDeliveryPerson copies the rider's contact details onto the order and
// marks it out for delivery.
func (s *service) AssignDeliveryPerson(ctx context.Context, orderID, personID string, actor *events.Actor) (Order, error) {
	person, err := s.roster.Get(ctx, personID)
	if err != nil {
		return Order{}, err
	}
	if !person.IsAvailable {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"order_id": orderID, "person_id": personID}), "assigning unavailable delivery person")
	}
	return s.UpdateStatus(ctx, UpdateStatusInput{
		OrderID: orderID,
		Status:  enums.OrderStatusOutForDelivery,
		DeliveryPerson: &DeliveryPerson{
			Name:  person.Name,
			Phone: person.Phone,
			Image: person.Image,
		},
		Actor: actor,
	})
}

func (s *service) publish(ctx context.Context, eventType enums.OrderEventType, order Order, previous enums.OrderStatus, actor *events.Actor) {
	data := events.OrderEvent{
		OrderID:        order.ID,
		UserID:         order.UserID,
		Status:         order.Status,
		PreviousStatus: previous,
		PaymentMethod:  order.PaymentMethod,
		TotalAmount:    order.TotalAmount,
	}
	if order.TrackingInfo != nil && order.TrackingInfo.DeliveryPerson != nil {
		data.DeliveryPerson = order.TrackingInfo.DeliveryPerson.Name
	}
	env, err := events.NewEnvelope(eventType, order.ID, actor, data, s.now())
	if err != nil {
		s.logg.Error(ctx, "build order event", err)
		return
	}
	if err := s.publisher.Publish(ctx, env); err != nil {
		s.logg.Error(ctx, "publish order event", err)
	}
}
