package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/dryfruit-backend/api/responses"
	"github.com/angelmondragon/dryfruit-backend/api/validators"
	"github.com/angelmondragon/dryfruit-backend/internal/admin"
	"github.com/angelmondragon/dryfruit-backend/pkg/errors"
	"github.com/angelmondragon/dryfruit-backend/pkg/logger"
)

type adminService interface {
	Login(ctx context.Context, req admin.LoginRequest) (admin.Session, error)
	Dashboard(ctx context.Context) (admin.Dashboard, error)
}

// AdminLogin exchanges the admin credential for a session.
func AdminLogin(svc adminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeInternal, "admin service unavailable"))
			return
		}

		var body admin.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sess)
	}
}

func AdminDashboard(svc adminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeInternal, "admin service unavailable"))
			return
		}
		dash, err := svc.Dashboard(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dash)
	}
}
