package controllers

import (
	"net/http"

	"github.com/angelmondragon/dryfruit-backend/api/responses"
	"github.com/angelmondragon/dryfruit-backend/api/validators"
	"github.com/angelmondragon/dryfruit-backend/internal/delivery"
	"github.com/angelmondragon/dryfruit-backend/pkg/logger"
)

// DeliveryPersonnelList returns the roster; ?available=true keeps free riders only.
func DeliveryPersonnelList(svc delivery.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list := svc.List
		if r.URL.Query().Get("available") == "true" {
			list = svc.ListAvailable
		}
		people, err := list(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, people)
	}
}

func DeliveryPersonCreate(svc delivery.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body delivery.PersonInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		person, err := svc.Add(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, person)
	}
}

func DeliveryPersonUpdate(svc delivery.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		personID, err := requireParam(r, "personId", "delivery person id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body delivery.PersonUpdate
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		person, err := svc.Update(r.Context(), personID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, person)
	}
}

// DeliveryPersonDelete removes a rider; unknown ids succeed.
func DeliveryPersonDelete(svc delivery.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		personID, err := requireParam(r, "personId", "delivery person id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Remove(r.Context(), personID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func DeliveryPersonToggle(svc delivery.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		personID, err := requireParam(r, "personId", "delivery person id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		person, err := svc.ToggleAvailability(r.Context(), personID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, person)
	}
}
