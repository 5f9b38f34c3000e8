// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the sign-in HTTP endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /request-code : Issues a confirmation code by e-mail.
//   - POST /token        : Exchanges the code for tokens.
//   - POST /reissue-code : Replaces the code of an existing account.
//   - POST /refresh      : Rotates a refresh token.
//   - POST /logout       : Revokes a refresh token.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/request-code", handler.requestCode)
	router.Post("/token", handler.token)
	router.Post("/reissue-code", handler.reissueCode)
	router.Post("/refresh", handler.refresh)
	router.Post("/logout", handler.logout)

	return router
}

// # Request Payloads

type requestCodeRequest struct {
	Email    string `json:"email" validate:"required"`
	Username string `json:"username"`
}

type tokenRequest struct {
	Email            string `json:"email" validate:"required"`
	ConfirmationCode string `json:"confirmation_code" validate:"required"`
}

type emailRequest struct {
	Email string `json:"email" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type codeIssuedResponse struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// decode reads a JSON body and checks its struct tags.
func decode(request *http.Request, target any) error {
	if err := requestutil.DecodeJSON(request, target); err != nil {
		return err
	}
	return validate.Struct(target)
}

/*
POST /api/v1/auth/request-code.

Description: Creates the account if needed and mails a confirmation code.

Request:
  - Body: requestCodeRequest (email, optional username)

Response:
  - 200: {email, username}
  - 400: VALIDATION_ERROR, or CONFLICT when the e-mail belongs to a verified account
  - 502: DELIVERY_ERROR when the mail could not be sent
*/
func (handler *Handler) requestCode(writer http.ResponseWriter, request *http.Request) {
	var input requestCodeRequest
	if err := decode(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.RequestCode(request.Context(), RequestCodeInput{
		Email:    input.Email,
		Username: input.Username,
	})
	if err != nil {
		// Conflicts on this endpoint are reported as a bad request
		if appErr := apperr.As(err); appErr != nil && appErr.Code == apperr.CodeConflict {
			err = appErr.WithStatus(http.StatusBadRequest)
		}
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, codeIssuedResponse{Email: user.Email, Username: user.Username})
}

/*
POST /api/v1/auth/token.

Description: Exchanges e-mail and confirmation code for credentials.

Request:
  - Body: tokenRequest (email, confirmation_code)

Response:
  - 200: TokenPair
  - 400: INVALID_CODE or VALIDATION_ERROR
  - 404: NOT_FOUND when the e-mail is unknown
*/
func (handler *Handler) token(writer http.ResponseWriter, request *http.Request) {
	var input tokenRequest
	if err := decode(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	pair, err := handler.authService.ExchangeCode(request.Context(), input.Email, input.ConfirmationCode)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, pair)
}

/*
POST /api/v1/auth/reissue-code.

Request:
  - Body: emailRequest

Response:
  - 200: {email}
  - 404: NOT_FOUND when the e-mail is unknown
  - 502: DELIVERY_ERROR
*/
func (handler *Handler) reissueCode(writer http.ResponseWriter, request *http.Request) {
	var input emailRequest
	if err := decode(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ReissueCode(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{FieldEmail: NormalizeEmail(input.Email)})
}

/*
POST /api/v1/auth/refresh.

Response:
  - 200: TokenPair
  - 401: UNAUTHORIZED for unknown or expired refresh tokens
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	var input refreshRequest
	if err := decode(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	pair, err := handler.authService.Refresh(request.Context(), input.RefreshToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, pair)
}

// logout handles POST /api/v1/auth/logout (204, idempotent).
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	var input refreshRequest
	if err := decode(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), input.RefreshToken); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
