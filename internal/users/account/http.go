// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

const paramUsername = "username"

// Handler exposes user administration and the self profile.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] with the user endpoints.
//
// # Endpoints
//   - GET    /me          : Own profile
//   - PATCH  /me          : Edit own profile (role ignored)
//   - GET    /            : List (admin, search by username)
//   - POST   /            : Create (admin)
//   - GET    /{username}  : Retrieve (admin)
//   - PUT    /{username}  : Replace (admin)
//   - PATCH  /{username}  : Partial update (admin)
//   - DELETE /{username}  : Delete (admin)
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/me", handler.getMe)
	router.Patch("/me", handler.updateMe)

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{username}", handler.get)
	router.Put("/{username}", handler.update)
	router.Patch("/{username}", handler.partialUpdate)
	router.Delete("/{username}", handler.delete)

	return router
}

type userRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	Role      *string `json:"role"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
}

func (payload userRequest) input() Input {
	return Input{
		Username:  payload.Username,
		Email:     payload.Email,
		Role:      payload.Role,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Bio:       payload.Bio,
	}
}

/*
GET /api/v1/users/me.

Response:
  - 200: User (id, username, email, role, first_name, last_name, bio)
  - 401: Not authenticated
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.accountService.Me(request.Context(), requestutil.Actor(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
PATCH /api/v1/users/me.

Request:
  - Body: any of {username, email, first_name, last_name, bio}

Response:
  - 200: User
  - 400: VALIDATION_ERROR
  - 409: Username or email taken
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	var payload userRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateMe(request.Context(), requestutil.Actor(request), payload.input())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	var filter Filter
	if err := requestutil.DecodeQuery(request, &filter); err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	users, total, err := handler.accountService.List(request.Context(), requestutil.Actor(request), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(params, total))
}

/*
POST /api/v1/users.

Request:
  - Body: {username, email, role?, first_name?, last_name?, bio?}

Response:
  - 201: User
  - 400: VALIDATION_ERROR
  - 401/403: Caller is not an admin
  - 409: Username or email taken
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var payload userRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Create(request.Context(), requestutil.Actor(request), payload.input())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.accountService.Get(request.Context(), requestutil.Actor(request), requestutil.Param(request, paramUsername))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	handler.write(writer, request, false)
}

func (handler *Handler) partialUpdate(writer http.ResponseWriter, request *http.Request) {
	handler.write(writer, request, true)
}

func (handler *Handler) write(writer http.ResponseWriter, request *http.Request, partial bool) {
	var payload userRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Update(request.Context(), requestutil.Actor(request),
		requestutil.Param(request, paramUsername), payload.input(), partial)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.accountService.Delete(request.Context(), requestutil.Actor(request), requestutil.Param(request, paramUsername)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
