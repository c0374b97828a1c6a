package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/dryfruit-backend/api/responses"
	"github.com/angelmondragon/dryfruit-backend/api/validators"
	"github.com/angelmondragon/dryfruit-backend/internal/orders"
	"github.com/angelmondragon/dryfruit-backend/pkg/enums"
	"github.com/angelmondragon/dryfruit-backend/pkg/errors"
	"github.com/angelmondragon/dryfruit-backend/pkg/events"
	"github.com/angelmondragon/dryfruit-backend/pkg/logger"
)

type adminOrderService interface {
	orderReader
	UpdateStatus(ctx context.Context, input orders.UpdateStatusInput) (orders.Order, error)
	AssignDeliveryPerson(ctx context.Context, orderID, personID string, actor *events.Actor) (orders.Order, error)
}

type statusUpdateRequest struct {
	Status         string                 `json:"status" validate:"required"`
	DeliveryPerson *orders.DeliveryPerson `json:"deliveryPerson"`
}

type assignRequest struct {
	DeliveryPersonID string `json:"deliveryPersonId" validate:"required,max=64"`
}

// AdminOrders lists every order, optionally filtered by status.
func AdminOrders(svc adminOrderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseListFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func AdminOrderDetail(svc adminOrderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := requireParam(r, "orderId", "order id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// AdminOrderStatus moves an order along its lifecycle.
func AdminOrderStatus(svc adminOrderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := requireParam(r, "orderId", "order id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body statusUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseOrderStatus(strings.TrimSpace(body.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, errors.Wrap(errors.CodeValidation, err, "invalid status").WithDetails(map[string]any{"field": "status"}))
			return
		}

		order, err := svc.UpdateStatus(r.Context(), orders.UpdateStatusInput{
			OrderID:        orderID,
			Status:         status,
			DeliveryPerson: body.DeliveryPerson,
			Actor:          actorFromRequest(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// AdminOrderAssign hands the order to a rider and marks it out for delivery.
func AdminOrderAssign(svc adminOrderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := requireParam(r, "orderId", "order id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body assignRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.AssignDeliveryPerson(r.Context(), orderID, body.DeliveryPersonID, actorFromRequest(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
