// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/sec"
)

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
	Code  string          `json:"code"`
}

func decodeEnvelope(t *testing.T, recorder *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

/*
TestHandler_SignInFlow drives request-code, token, refresh and logout over HTTP.
*/
func TestHandler_SignInFlow(t *testing.T) {
	h := newHarness(Options{})
	router := NewHandler(h.service).Routes()

	recorder := postJSON(t, router, "/request-code", map[string]string{"email": "lena@example.com", "username": "lena"})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var issued codeIssuedResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, recorder).Data, &issued))
	assert.Equal(t, codeIssuedResponse{Email: "lena@example.com", Username: "lena"}, issued)

	recorder = postJSON(t, router, "/token", map[string]string{"email": "lena@example.com", "confirmation_code": "nope"})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "INVALID_CODE", decodeEnvelope(t, recorder).Code)

	code := h.outbox.lastCode("lena@example.com")
	recorder = postJSON(t, router, "/token", map[string]string{"email": "lena@example.com", "confirmation_code": code})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var pair TokenPair
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, recorder).Data, &pair))
	assert.NotEmpty(t, pair.AccessToken)

	recorder = postJSON(t, router, "/refresh", map[string]string{"refresh_token": pair.RefreshToken})
	require.Equal(t, http.StatusOK, recorder.Code)
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, recorder).Data, &pair))

	recorder = postJSON(t, router, "/logout", map[string]string{"refresh_token": pair.RefreshToken})
	assert.Equal(t, http.StatusNoContent, recorder.Code)

	recorder = postJSON(t, router, "/refresh", map[string]string{"refresh_token": pair.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

/*
TestHandler_RequestCodeErrors checks the status codes of rejected requests.
*/
func TestHandler_RequestCodeErrors(t *testing.T) {
	h := newHarness(Options{})
	h.users.add(&User{ID: "u1", Username: "mia", Email: "mia@example.com", Role: sec.RoleUser, IsVerified: true})
	router := NewHandler(h.service).Routes()

	recorder := postJSON(t, router, "/request-code", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeEnvelope(t, recorder).Code)

	recorder = postJSON(t, router, "/request-code", map[string]string{"email": "mia@example.com"})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "CONFLICT", decodeEnvelope(t, recorder).Code)

	recorder = postJSON(t, router, "/reissue-code", map[string]string{"email": "ghost@example.com"})
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	h.outbox.fail = true
	recorder = postJSON(t, router, "/reissue-code", map[string]string{"email": "mia@example.com"})
	assert.Equal(t, http.StatusBadGateway, recorder.Code)
	assert.Equal(t, "DELIVERY_ERROR", decodeEnvelope(t, recorder).Code)
}
