package controllers

import (
	"net/http"

	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/api/responses"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/api/validators"
	authsvc "github.com/danyakorkmaz/Ecommerce-marmarakoyluce/internal/auth"
	pkgerrors "github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/errors"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/logger"
)

type registerRequest struct {
	Name                     string `json:"name" validate:"required"`
	Surname                  string `json:"surname" validate:"required"`
	Email                    string `json:"email" validate:"required,email"`
	Password                 string `json:"password" validate:"required,min=8"`
	Gender                   string `json:"gender"`
	GetEmailNotificationFlag bool   `json:"get_email_notification_flag"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthRegister creates a new customer account and returns a signed token.
func AuthRegister(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload registerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Register(r.Context(), authsvc.RegisterInput{
			Name:                     payload.Name,
			Surname:                  payload.Surname,
			Email:                    payload.Email,
			Password:                 payload.Password,
			Gender:                   payload.Gender,
			GetEmailNotificationFlag: payload.GetEmailNotificationFlag,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// AuthLogin verifies credentials and returns a signed token.
func AuthLogin(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), authsvc.LoginInput{
			Email:    payload.Email,
			Password: payload.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
