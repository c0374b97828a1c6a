package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/dryfruit-backend/api/responses"
	"github.com/angelmondragon/dryfruit-backend/api/validators"
	"github.com/angelmondragon/dryfruit-backend/internal/users"
	"github.com/angelmondragon/dryfruit-backend/pkg/errors"
	"github.com/angelmondragon/dryfruit-backend/pkg/logger"
)

type phoneLogin interface {
	LoginWithPhone(ctx context.Context, phone string) (users.OTPChallenge, error)
	VerifyOtp(ctx context.Context, phone, otp string) (users.AuthResult, error)
}

type otpRequest struct {
	Phone string `json:"phone" validate:"required,max=20"`
}

type otpVerifyRequest struct {
	Phone string `json:"phone" validate:"required,max=20"`
	OTP   string `json:"otp" validate:"required,max=10"`
}

// AuthRequestOTP opens a login challenge for a phone number.
func AuthRequestOTP(svc phoneLogin, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeInternal, "auth service unavailable"))
			return
		}

		var body otpRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		challenge, err := svc.LoginWithPhone(r.Context(), body.Phone)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusAccepted, challenge)
	}
}

// AuthVerifyOTP completes the phone login and returns the session tokens.
func AuthVerifyOTP(svc phoneLogin, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeInternal, "auth service unavailable"))
			return
		}

		var body otpVerifyRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.VerifyOtp(r.Context(), body.Phone, body.OTP)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
