package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/dryfruit-backend/api/middleware"
	"github.com/angelmondragon/dryfruit-backend/pkg/enums"
	"github.com/angelmondragon/dryfruit-backend/pkg/errors"
	"github.com/angelmondragon/dryfruit-backend/pkg/events"
)

func requireUserID(r *http.Request) (string, error) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		return "", errors.New(errors.CodeUnauthorized, "missing user context")
	}
	return userID, nil
}

func requireParam(r *http.Request, name, label string) (string, error) {
	value := strings.TrimSpace(chi.URLParam(r, name))
	if value == "" {
		return "", errors.Newf(errors.CodeValidation, "%s is required", label)
	}
	return value, nil
}

func actorFromRequest(r *http.Request) *events.Actor {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		return nil
	}
	return &events.Actor{UserID: userID, Role: enums.ActorRole(middleware.RoleFromContext(r.Context()))}
}
