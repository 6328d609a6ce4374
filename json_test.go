package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRespondWithErrorLogsRequestID(t *testing.T) {
	var logs bytes.Buffer
	cfg := newTestConfig(t, "http://unused")
	cfg.logger = slog.New(slog.NewTextHandler(&logs, nil))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), requestIDKey{}, "req-123"))
	rr := httptest.NewRecorder()

	cfg.respondWithError(rr, req, http.StatusBadGateway, "upstream failed", errors.New("boom"))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error": "upstream failed"}`, rr.Body.String())
	assert.Contains(t, logs.String(), "req-123", "error logs carry the request's correlation ID")
}

func TestRespondWithErrorWithoutUnderlyingError(t *testing.T) {
	var logs bytes.Buffer
	cfg := newTestConfig(t, "http://unused")
	cfg.logger = slog.New(slog.NewTextHandler(&logs, nil))

	rr := httptest.NewRecorder()
	cfg.respondWithError(rr, httptest.NewRequest(http.MethodPost, "/", nil), http.StatusMethodNotAllowed, "Method Not Allowed", nil)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.JSONEq(t, `{"error": "Method Not Allowed"}`, rr.Body.String())
	assert.Empty(t, logs.String(), "nothing is logged when no underlying error is given")
}
