// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

const paramSlug = "slug"

// Handler exposes one taxonomy over HTTP. The server mounts one instance
// under /categories and one under /genres.
type Handler struct {
	referenceService *Service
}

// NewHandler constructs a new reference [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{referenceService: service}
}

// Routes returns a [chi.Router] with the taxonomy endpoints.
//
// # Endpoints
//   - GET    /        : List (search, page, limit)
//   - POST   /        : Create (admin)
//   - GET    /{slug}  : Retrieve
//   - PUT    /{slug}  : Replace (admin)
//   - PATCH  /{slug}  : Partial update (admin)
//   - DELETE /{slug}  : Delete (admin)
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{slug}", handler.get)
	router.Put("/{slug}", handler.update)
	router.Patch("/{slug}", handler.partialUpdate)
	router.Delete("/{slug}", handler.delete)

	return router
}

type entryRequest struct {
	Name *string `json:"name"`
	Slug *string `json:"slug"`
}

func (payload entryRequest) input() Input {
	return Input{Name: payload.Name, Slug: payload.Slug}
}

/*
GET /api/v1/{categories|genres}.

Request:
  - search: string (optional, name contains)
  - page, limit: int

Response:
  - 200: []Entry with pagination meta
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	var filter Filter
	if err := requestutil.DecodeQuery(request, &filter); err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	entries, total, err := handler.referenceService.List(request.Context(), requestutil.Actor(request), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, entries, pagination.NewMeta(params, total))
}

/*
POST /api/v1/{categories|genres}.

Request:
  - Body: {name, slug?}

Response:
  - 201: Entry
  - 400: VALIDATION_ERROR
  - 401/403: Caller is not an admin
  - 409: Slug already taken
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var payload entryRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.referenceService.Create(request.Context(), requestutil.Actor(request), payload.input())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entry)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	entry, err := handler.referenceService.Get(request.Context(), requestutil.Actor(request), requestutil.Param(request, paramSlug))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entry)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	handler.write(writer, request, false)
}

func (handler *Handler) partialUpdate(writer http.ResponseWriter, request *http.Request) {
	handler.write(writer, request, true)
}

func (handler *Handler) write(writer http.ResponseWriter, request *http.Request, partial bool) {
	var payload entryRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.referenceService.Update(request.Context(), requestutil.Actor(request),
		requestutil.Param(request, paramSlug), payload.input(), partial)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entry)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.referenceService.Delete(request.Context(), requestutil.Actor(request), requestutil.Param(request, paramSlug)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
