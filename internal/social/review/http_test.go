// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/authz"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

func newTestRouter(repository Repository) chi.Router {
	router := chi.NewRouter()
	router.Mount("/titles/{titleID}/reviews", NewHandler(newTestService(repository)).Routes())
	return router
}

func serve(router http.Handler, method, path, body string, actor authz.Actor) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	if actor.Authenticated() {
		claims := &sec.AuthClaims{UserID: actor.UserID, Role: actor.Role}
		request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

/*
TestHandler_Reviews exercises the nested review routes end to end.
*/
func TestHandler_Reviews(t *testing.T) {
	repository := newMemoryRepository(1)
	router := newTestRouter(repository)

	recorder := serve(router, http.MethodPost, "/titles/1/reviews", `{"text":"Nice","score":7}`, authz.Anonymous())
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = serve(router, http.MethodPost, "/titles/1/reviews", `{"text":"Nice","score":7}`, alice)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var created struct {
		Data Review `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))
	assert.Equal(t, 7, *created.Data.Score)

	recorder = serve(router, http.MethodPost, "/titles/1/reviews", `{"text":"Again"}`, alice)
	assert.Equal(t, http.StatusConflict, recorder.Code)

	recorder = serve(router, http.MethodGet, "/titles/1/reviews", "", authz.Anonymous())
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"total":1`)

	recorder = serve(router, http.MethodPatch, "/titles/1/reviews/1", `{"score":3}`, bob)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	recorder = serve(router, http.MethodPatch, "/titles/1/reviews/1", `{"score":3}`, alice)
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = serve(router, http.MethodGet, "/titles/2/reviews/1", "", authz.Anonymous())
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = serve(router, http.MethodGet, "/titles/abc/reviews", "", authz.Anonymous())
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = serve(router, http.MethodDelete, "/titles/1/reviews/1", "", moderator)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}
