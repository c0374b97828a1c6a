package controllers

import (
	"net/http"

	"github.com/angelmondragon/dryfruit-backend/api/middleware"
	"github.com/angelmondragon/dryfruit-backend/api/responses"
)

func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"scope": "public", "status": "ok"})
	}
}

func AdminPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]string{"scope": "admin", "status": "ok"}
		if user := middleware.UserIDFromContext(r.Context()); user != "" {
			payload["username"] = user
		}
		responses.WriteSuccess(w, payload)
	}
}
