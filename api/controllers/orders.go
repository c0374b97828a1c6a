package controllers

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/angelmondragon/dryfruit-backend/api/responses"
	"github.com/angelmondragon/dryfruit-backend/api/validators"
	"github.com/angelmondragon/dryfruit-backend/internal/orders"
	"github.com/angelmondragon/dryfruit-backend/pkg/enums"
	"github.com/angelmondragon/dryfruit-backend/pkg/errors"
	"github.com/angelmondragon/dryfruit-backend/pkg/events"
	"github.com/angelmondragon/dryfruit-backend/pkg/logger"
	"github.com/angelmondragon/dryfruit-backend/pkg/pagination"
)

type orderReader interface {
	Get(ctx context.Context, id string) (orders.Order, error)
	List(ctx context.Context, filter orders.ListFilter) (pagination.Page[orders.Order], error)
}

type orderCanceller interface {
	orderReader
	CancelFrom(ctx context.Context, id string, allowed []enums.OrderStatus, actor *events.Actor) (orders.Order, error)
}

// customerCancellable lists the statuses for which the order screen offers cancellation.
var customerCancellable = []enums.OrderStatus{
	enums.OrderStatusConfirmed,
	enums.OrderStatusPreparing,
}

func parseListFilter(r *http.Request) (orders.ListFilter, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return orders.ListFilter{}, err
	}
	filter := orders.ListFilter{
		Page: pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		},
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, err := enums.ParseOrderStatus(raw)
		if err != nil {
			return orders.ListFilter{}, errors.Wrap(errors.CodeValidation, err, "invalid status").WithDetails(map[string]any{"field": "status"})
		}
		filter.Status = status
	}
	return filter, nil
}

// OrdersList returns the caller's orders, newest first.
func OrdersList(svc orderReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter, err := parseListFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter.UserID = userID

		page, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func OrderDetail(svc orderReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := ownedOrder(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// OrderCancel lets a customer cancel their own order while it is still
// confirmed or being prepared.
func OrderCancel(svc orderCanceller, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := ownedOrder(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !slices.Contains(customerCancellable, order.Status) {
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeStateConflict, "order can no longer be cancelled").
				WithDetails(map[string]any{"status": order.Status}))
			return
		}

		// the status is checked again under the store lock
		cancelled, err := svc.CancelFrom(r.Context(), order.ID, customerCancellable, actorFromRequest(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cancelled)
	}
}

// ownedOrder hides other customers' orders behind NOT_FOUND.
func ownedOrder(r *http.Request, svc orderReader) (orders.Order, error) {
	userID, err := requireUserID(r)
	if err != nil {
		return orders.Order{}, err
	}
	orderID, err := requireParam(r, "orderId", "order id")
	if err != nil {
		return orders.Order{}, err
	}
	order, err := svc.Get(r.Context(), orderID)
	if err != nil {
		return orders.Order{}, err
	}
	if order.UserID != userID {
		return orders.Order{}, errors.New(errors.CodeNotFound, "order not found")
	}
	return order, nil
}
