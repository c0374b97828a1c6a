package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/dryfruit-backend/api/responses"
	"github.com/angelmondragon/dryfruit-backend/api/validators"
	"github.com/angelmondragon/dryfruit-backend/internal/address"
	"github.com/angelmondragon/dryfruit-backend/internal/users"
	"github.com/angelmondragon/dryfruit-backend/pkg/errors"
	"github.com/angelmondragon/dryfruit-backend/pkg/logger"
)

type profileService interface {
	GetProfile(ctx context.Context, userID string) (users.User, error)
	UpdateProfile(ctx context.Context, userID string, update users.ProfileUpdate) (users.User, error)
	UpdateLocation(ctx context.Context, userID string, location users.Location) (users.User, error)
}

type geocoder interface {
	Suggest(ctx context.Context, req address.SuggestRequest) ([]address.Suggestion, error)
	Resolve(ctx context.Context, req address.ResolveRequest) (address.Resolved, error)
	ReverseGeocode(ctx context.Context, coords users.Coordinates) (address.Resolved, error)
}

// resolveLocationRequest accepts either a Places id or device coordinates.
type resolveLocationRequest struct {
	PlaceID string             `json:"placeId" validate:"required_without=Coords,max=300"`
	Coords  *users.Coordinates `json:"coords" validate:"required_without=PlaceID"`
}

type resolveLocationResponse struct {
	Resolved address.Resolved `json:"resolved"`
	User     users.User       `json:"user"`
}

func MeProfile(svc profileService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		user, err := svc.GetProfile(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

// MeUpdateProfile merges name and email; the phone number never changes.
func MeUpdateProfile(svc profileService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body users.ProfileUpdate
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.UpdateProfile(r.Context(), userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

func MeUpdateLocation(svc profileService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body users.Location
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.UpdateLocation(r.Context(), userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

// MeResolveLocation geocodes a place id or coordinates and stores the result as
// the customer's current location.
func MeResolveLocation(svc profileService, geo geocoder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if geo == nil {
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeDependency, "geocoding unavailable"))
			return
		}

		var body resolveLocationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var resolved address.Resolved
		if placeID := strings.TrimSpace(body.PlaceID); placeID != "" {
			resolved, err = geo.Resolve(r.Context(), address.ResolveRequest{PlaceID: placeID})
		} else {
			resolved, err = geo.ReverseGeocode(r.Context(), *body.Coords)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.UpdateLocation(r.Context(), userID, resolved.Location())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resolveLocationResponse{Resolved: resolved, User: user})
	}
}
