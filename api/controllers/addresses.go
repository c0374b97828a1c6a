package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/dryfruit-backend/api/responses"
	"github.com/angelmondragon/dryfruit-backend/api/validators"
	"github.com/angelmondragon/dryfruit-backend/internal/address"
	"github.com/angelmondragon/dryfruit-backend/internal/users"
	"github.com/angelmondragon/dryfruit-backend/pkg/errors"
	"github.com/angelmondragon/dryfruit-backend/pkg/logger"
)

type addressBook interface {
	GetProfile(ctx context.Context, userID string) (users.User, error)
	AddAddress(ctx context.Context, userID string, input users.AddressInput) (users.User, error)
	UpdateAddress(ctx context.Context, userID, addressID string, input users.AddressInput) (users.User, error)
	DeleteAddress(ctx context.Context, userID, addressID string) (users.User, error)
	SetDefaultAddress(ctx context.Context, userID, addressID string) (users.User, error)
}

func AddressList(svc addressBook, logg *logger.Logger) http.HandlerFunc {
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
		addrs := user.Addresses
		if addrs == nil {
			addrs = []users.Address{}
		}
		responses.WriteSuccess(w, addrs)
	}
}

func AddressCreate(svc addressBook, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body users.AddressInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.AddAddress(r.Context(), userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, user.Addresses)
	}
}

func AddressUpdate(svc addressBook, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		addressID, err := requireParam(r, "addressId", "address id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body users.AddressInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.UpdateAddress(r.Context(), userID, addressID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user.Addresses)
	}
}

func AddressDelete(svc addressBook, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		addressID, err := requireParam(r, "addressId", "address id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.DeleteAddress(r.Context(), userID, addressID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		addrs := user.Addresses
		if addrs == nil {
			addrs = []users.Address{}
		}
		responses.WriteSuccess(w, addrs)
	}
}

func AddressSetDefault(svc addressBook, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		addressID, err := requireParam(r, "addressId", "address id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.SetDefaultAddress(r.Context(), userID, addressID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user.Addresses)
	}
}

// AddressSuggest proxies Places autocomplete for the address form.
func AddressSuggest(geo geocoder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if geo == nil {
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeDependency, "geocoding unavailable"))
			return
		}
		query := validators.SanitizeString(r.URL.Query().Get("q"), 200)
		lang := validators.SanitizeString(r.URL.Query().Get("lang"), 10)

		suggestions, err := geo.Suggest(r.Context(), address.SuggestRequest{Query: query, Language: lang})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, suggestions)
	}
}
