// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

const paramTitleID = "titleID"

// Handler exposes the title endpoints.
type Handler struct {
	titleService *Service
}

// NewHandler constructs a new title [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{titleService: service}
}

// Routes returns a [chi.Router] with the title endpoints.
//
// # Endpoints
//   - GET    /           : List (category, genre, name, year, page, limit)
//   - POST   /           : Create (admin)
//   - GET    /{titleID}  : Retrieve
//   - PUT    /{titleID}  : Replace (admin)
//   - PATCH  /{titleID}  : Partial update (admin)
//   - DELETE /{titleID}  : Delete (admin)
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{titleID}", handler.get)
	router.Put("/{titleID}", handler.update)
	router.Patch("/{titleID}", handler.partialUpdate)
	router.Delete("/{titleID}", handler.delete)

	return router
}

type titleRequest struct {
	Name        *string   `json:"name"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Genre       *[]string `json:"genre"`
}

func (payload titleRequest) input() Input {
	return Input{
		Name:        payload.Name,
		Year:        payload.Year,
		Description: payload.Description,
		Category:    payload.Category,
		Genres:      payload.Genre,
	}
}

/*
GET /api/v1/titles.

Request:
  - category: string (category slug)
  - genre: string (genre slug)
  - name: string (name contains)
  - year: int
  - page, limit: int

Response:
  - 200: []Title with pagination meta
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	var filter Filter
	if err := requestutil.DecodeQuery(request, &filter); err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	titles, total, err := handler.titleService.List(request.Context(), requestutil.Actor(request), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, titles, pagination.NewMeta(params, total))
}

/*
POST /api/v1/titles.

Request:
  - Body: {name, year, description?, category?, genre?: []slug}

Response:
  - 201: Title (rating null)
  - 400: VALIDATION_ERROR (unknown slug, year in the future)
  - 401/403: Caller is not an admin
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var payload titleRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.titleService.Create(request.Context(), requestutil.Actor(request), payload.input())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, title)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.Int64Param(request, paramTitleID, "Title")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.titleService.Get(request.Context(), requestutil.Actor(request), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, title)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	handler.write(writer, request, false)
}

func (handler *Handler) partialUpdate(writer http.ResponseWriter, request *http.Request) {
	handler.write(writer, request, true)
}

func (handler *Handler) write(writer http.ResponseWriter, request *http.Request, partial bool) {
	id, err := requestutil.Int64Param(request, paramTitleID, "Title")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload titleRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.titleService.Update(request.Context(), requestutil.Actor(request), id, payload.input(), partial)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, title)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.Int64Param(request, paramTitleID, "Title")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.titleService.Delete(request.Context(), requestutil.Actor(request), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
