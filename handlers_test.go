package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newProviderStub serves plausible provider payloads for the handler tests:
// current weather for known cities, 404 for "Atlantis", and a fixed forecast
// body on the forecast endpoint.
func newProviderStub(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/forecast" {
			w.Write([]byte(`{"cod": "200", "cnt": 40, "list": [], "city": {"name": "Guilin"}}`))
			return
		}
		if strings.HasPrefix(r.URL.Query().Get("q"), "Atlantis") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(currentWeatherPayload("Guilin", 22.3)))
	}))
}

func TestHandlerCurrentWeather(t *testing.T) {
	server := newProviderStub(t)
	defer server.Close()
	cfg := newTestConfig(t, server.URL)

	req := httptest.NewRequest(http.MethodGet, "/api/currentweather?city=Guilin&name=桂林", nil)
	rr := httptest.NewRecorder()

	cfg.handlerCurrentWeather(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var parsed ParsedWeather
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &parsed))
	assert.Equal(t, "桂林", parsed.City)
	assert.Equal(t, 22.3, parsed.Temperature)
	assert.Equal(t, "晴朗", parsed.Condition)
}

func TestHandlerCurrentWeatherByCoordinates(t *testing.T) {
	server := newProviderStub(t)
	defer server.Close()
	cfg := newTestConfig(t, server.URL)

	req := httptest.NewRequest(http.MethodGet, "/api/currentweather?lat=25.2741&lon=110.2993", nil)
	rr := httptest.NewRecorder()

	cfg.handlerCurrentWeather(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var parsed ParsedWeather
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &parsed))
	assert.Equal(t, "Guilin", parsed.City, "coordinate lookups use the provider's city name")
}

func TestHandlerCurrentWeatherErrors(t *testing.T) {
	server := newProviderStub(t)
	defer server.Close()

	testCases := []struct {
		name         string
		method       string
		target       string
		expectedCode int
	}{
		{
			name:         "method not allowed",
			method:       http.MethodPost,
			target:       "/api/currentweather?city=Guilin",
			expectedCode: http.StatusMethodNotAllowed,
		},
		{
			name:         "invalid latitude",
			method:       http.MethodGet,
			target:       "/api/currentweather?lat=abc&lon=110.3",
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "missing longitude",
			method:       http.MethodGet,
			target:       "/api/currentweather?lat=25.3",
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "unknown city maps to 404",
			method:       http.MethodGet,
			target:       "/api/currentweather?city=Atlantis&country=XX",
			expectedCode: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := newTestConfig(t, server.URL)
			req := httptest.NewRequest(tc.method, tc.target, nil)
			rr := httptest.NewRecorder()

			cfg.handlerCurrentWeather(rr, req)

			assert.Equal(t, tc.expectedCode, rr.Code)
		})
	}
}

func TestHandlerCurrentWeatherProviderDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()
	cfg := newTestConfig(t, server.URL)

	req := httptest.NewRequest(http.MethodGet, "/api/currentweather?city=Guilin", nil)
	rr := httptest.NewRecorder()

	cfg.handlerCurrentWeather(rr, req)

	assert.Equal(t, http.StatusBadGateway, rr.Code, "transient provider failures map to 502")
}

func TestHandlerForecast(t *testing.T) {
	server := newProviderStub(t)
	defer server.Close()
	cfg := newTestConfig(t, server.URL)

	req := httptest.NewRequest(http.MethodGet, "/api/forecast?city=Guilin&days=3", nil)
	rr := httptest.NewRecorder()

	cfg.handlerForecast(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"cod": "200", "cnt": 40, "list": [], "city": {"name": "Guilin"}}`, rr.Body.String(),
		"the forecast payload is passed through verbatim")
}

func TestHandlerForecastBadDays(t *testing.T) {
	server := newProviderStub(t)
	defer server.Close()
	cfg := newTestConfig(t, server.URL)

	for _, target := range []string{
		"/api/forecast?city=Guilin&days=abc",
		"/api/forecast?city=Guilin&days=0",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rr := httptest.NewRecorder()

		cfg.handlerForecast(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code, "target %s", target)
	}
}

func TestHandlerCompare(t *testing.T) {
	server := newProviderStub(t)
	defer server.Close()
	cfg := newTestConfig(t, server.URL)

	req := httptest.NewRequest(http.MethodGet, "/api/compare?cities=Beijing,Atlantis:XX,Guilin", nil)
	rr := httptest.NewRecorder()

	cfg.handlerCompare(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var response CompareResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.Len(t, response.Rows, 2, "the unresolvable city is absent from the comparison")
}

func TestHandlerCompareMissingCities(t *testing.T) {
	server := newProviderStub(t)
	defer server.Close()
	cfg := newTestConfig(t, server.URL)

	req := httptest.NewRequest(http.MethodGet, "/api/compare", nil)
	rr := httptest.NewRecorder()

	cfg.handlerCompare(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandlerFlushCache(t *testing.T) {
	server := newProviderStub(t)
	defer server.Close()
	cfg := newTestConfig(t, server.URL)

	// Prime the cache, flush it, and verify the next call fetches again.
	req := httptest.NewRequest(http.MethodGet, "/api/currentweather?city=Guilin", nil)
	cfg.handlerCurrentWeather(httptest.NewRecorder(), req)

	flushReq := httptest.NewRequest(http.MethodPost, "/dev/flush-cache", nil)
	rr := httptest.NewRecorder()
	cfg.handlerFlushCache(rr, flushReq)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	cfg.handlerFlushCache(rr, httptest.NewRequest(http.MethodGet, "/dev/flush-cache", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
