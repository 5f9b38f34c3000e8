// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// Route parameters.
const (
	paramTitleID  = "titleID"
	paramReviewID = "reviewID"
)

// Handler implements the HTTP layer for reviews.
type Handler struct {
	reviewService *Service
}

// NewHandler constructs a new review [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{reviewService: service}
}

// Routes returns a [chi.Router] mounted under /titles/{titleID}/reviews.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{reviewID}", handler.get)
	router.Put("/{reviewID}", handler.update)
	router.Patch("/{reviewID}", handler.partialUpdate)
	router.Delete("/{reviewID}", handler.delete)

	return router
}

type reviewRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

func (payload reviewRequest) input() Input {
	return Input{Text: payload.Text, Score: payload.Score}
}

/*
GET /api/v1/titles/{titleID}/reviews.

Response:
  - 200: []Review with pagination meta, newest first
  - 404: Unknown title
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.Int64Param(request, paramTitleID, "Title")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	reviews, total, err := handler.reviewService.List(request.Context(), requestutil.Actor(request), titleID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, reviews, pagination.NewMeta(params, total))
}

/*
POST /api/v1/titles/{titleID}/reviews.

Request:
  - Body: {text, score?}

Response:
  - 201: Review
  - 401: Anonymous caller
  - 404: Unknown title
  - 409: The caller already reviewed this title
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.Int64Param(request, paramTitleID, "Title")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload reviewRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.reviewService.Create(request.Context(), requestutil.Actor(request), titleID, payload.input())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, review)
}

// get handles GET /api/v1/titles/{titleID}/reviews/{reviewID}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := reviewPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.reviewService.Get(request.Context(), requestutil.Actor(request), titleID, reviewID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, review)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	handler.write(writer, request, false)
}

func (handler *Handler) partialUpdate(writer http.ResponseWriter, request *http.Request) {
	handler.write(writer, request, true)
}

/*
PUT|PATCH /api/v1/titles/{titleID}/reviews/{reviewID}.

Response:
  - 200: Review
  - 403: Caller is neither the author nor staff
  - 404: Review does not belong to the title
*/
func (handler *Handler) write(writer http.ResponseWriter, request *http.Request, partial bool) {
	titleID, reviewID, err := reviewPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload reviewRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.reviewService.Update(request.Context(), requestutil.Actor(request), titleID, reviewID, payload.input(), partial)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, review)
}

// delete handles DELETE /api/v1/titles/{titleID}/reviews/{reviewID} (204).
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := reviewPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.reviewService.Delete(request.Context(), requestutil.Actor(request), titleID, reviewID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

func reviewPath(request *http.Request) (titleID, reviewID int64, err error) {
	if titleID, err = requestutil.Int64Param(request, paramTitleID, "Title"); err != nil {
		return 0, 0, err
	}
	if reviewID, err = requestutil.Int64Param(request, paramReviewID, "Review"); err != nil {
		return 0, 0, err
	}
	return titleID, reviewID, nil
}
