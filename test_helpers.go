package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"testing"
	"time"
)

// --- Mocks and fixtures shared across the package's tests ---

// mockCache is a mock for the Cache interface.
type mockCache struct {
	getFunc   func(ctx context.Context, key string) ([]byte, error)
	setFunc   func(ctx context.Context, key string, payload []byte) error
	flushFunc func(ctx context.Context) error
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, key)
	}
	return nil, ErrCacheMiss
}

func (m *mockCache) Set(ctx context.Context, key string, payload []byte) error {
	if m.setFunc != nil {
		return m.setFunc(ctx, key, payload)
	}
	return nil
}

func (m *mockCache) Flush(ctx context.Context) error {
	if m.flushFunc != nil {
		return m.flushFunc(ctx)
	}
	return nil
}

// newTestConfig builds an apiConfig suitable for unit tests: a file cache in
// a temporary directory, a discarding logger, and a no-op sleep so
// comparison tests don't actually wait out the rate-limit delay.
func newTestConfig(t *testing.T, baseURL string) *apiConfig {
	t.Helper()

	cache, err := NewFileCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("failed to create file cache: %v", err)
	}

	return &apiConfig{
		apiKey:         "test-api-key",
		baseURL:        baseURL,
		defaultCity:    "Guilin",
		defaultCountry: "CN",
		defaultLat:     25.2741,
		defaultLon:     110.2993,
		displayName:    "桂林",
		language:       "zh_cn",
		forecastDays:   5,
		useCache:       true,
		cache:          cache,
		weatherLabels:  defaultWeatherLabels(),
		httpClient:     &http.Client{Timeout: 10 * time.Second},
		forecastClient: &http.Client{Timeout: 15 * time.Second},
		compareDelay:   1100 * time.Millisecond,
		sleep:          func(time.Duration) {},
		port:           "8080",
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// currentWeatherPayload renders a minimal but schema-complete provider
// payload for the given city, so tests can serve distinguishable responses.
func currentWeatherPayload(city string, temp float64) string {
	return `{
		"weather": [{"id": 800, "main": "Clear", "description": "晴"}],
		"main": {"temp": ` + formatFloat(temp) + `, "feels_like": ` + formatFloat(temp-1) + `, "temp_min": ` + formatFloat(temp-2) + `, "temp_max": ` + formatFloat(temp+2) + `, "pressure": 1015, "humidity": 50},
		"visibility": 10000,
		"wind": {"speed": 2.1, "deg": 180},
		"clouds": {"all": 5},
		"dt": 1756535400,
		"sys": {"country": "CN", "sunrise": 1756506330, "sunset": 1756552365},
		"timezone": 28800,
		"name": "` + city + `"
	}`
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
