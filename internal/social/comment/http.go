// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

const (
	paramTitleID   = "titleID"
	paramReviewID  = "reviewID"
	paramCommentID = "commentID"
)

// Handler implements the HTTP layer for comments.
type Handler struct {
	commentService *Service
}

// NewHandler constructs a new comment [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{commentService: service}
}

// Routes returns a [chi.Router] mounted under /titles/{titleID}/reviews/{reviewID}/comments.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{commentID}", handler.get)
	router.Put("/{commentID}", handler.update)
	router.Patch("/{commentID}", handler.partialUpdate)
	router.Delete("/{commentID}", handler.delete)

	return router
}

type commentRequest struct {
	Text *string `json:"text"`
}

/*
GET /api/v1/titles/{titleID}/reviews/{reviewID}/comments.

Response:
  - 200: []Comment with pagination meta
  - 404: The review does not belong to the title
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	path, err := reviewPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	comments, total, err := handler.commentService.List(request.Context(), requestutil.Actor(request), path, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, comments, pagination.NewMeta(params, total))
}

/*
POST /api/v1/titles/{titleID}/reviews/{reviewID}/comments.

Request:
  - Body: {text}

Response:
  - 201: Comment
  - 401: Anonymous caller
  - 404: Broken title/review chain
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	path, err := reviewPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload commentRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	text := ""
	if payload.Text != nil {
		text = *payload.Text
	}

	comment, err := handler.commentService.Create(request.Context(), requestutil.Actor(request), path, text)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, comment)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	path, commentID, err := commentPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.commentService.Get(request.Context(), requestutil.Actor(request), path, commentID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comment)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	handler.write(writer, request, false)
}

func (handler *Handler) partialUpdate(writer http.ResponseWriter, request *http.Request) {
	handler.write(writer, request, true)
}

// write handles PUT and PATCH on a single comment.
func (handler *Handler) write(writer http.ResponseWriter, request *http.Request, partial bool) {
	path, commentID, err := commentPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload commentRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.commentService.Update(request.Context(), requestutil.Actor(request), path, commentID, payload.Text, partial)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comment)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	path, commentID, err := commentPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.commentService.Delete(request.Context(), requestutil.Actor(request), path, commentID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Path Helpers

func reviewPath(request *http.Request) (Path, error) {
	titleID, err := requestutil.Int64Param(request, paramTitleID, "Title")
	if err != nil {
		return Path{}, err
	}
	reviewID, err := requestutil.Int64Param(request, paramReviewID, "Review")
	if err != nil {
		return Path{}, err
	}
	return Path{TitleID: titleID, ReviewID: reviewID}, nil
}

func commentPath(request *http.Request) (Path, int64, error) {
	path, err := reviewPath(request)
	if err != nil {
		return Path{}, 0, err
	}
	commentID, err := requestutil.Int64Param(request, paramCommentID, "Comment")
	if err != nil {
		return Path{}, 0, err
	}
	return path, commentID, nil
}
