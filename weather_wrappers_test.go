package main

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseWrappedURL(t *testing.T, raw string) (path string, params url.Values) {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u.Path, u.Query()
}

func TestWrapForCurrentWeather(t *testing.T) {
	cfg := newTestConfig(t, "https://api.example.com/data/2.5")

	path, params := parseWrappedURL(t, cfg.wrapForCurrentWeather("Guilin", "CN"))

	assert.Equal(t, "/data/2.5/weather", path)
	assert.Equal(t, "Guilin,CN", params.Get("q"))
	assert.Equal(t, "test-api-key", params.Get("appid"))
	assert.Equal(t, "metric", params.Get("units"))
	assert.Equal(t, "zh_cn", params.Get("lang"))
}

func TestWrapForForecast(t *testing.T) {
	cfg := newTestConfig(t, "https://api.example.com/data/2.5")

	testCases := []struct {
		days        int
		expectedCnt string
	}{
		{1, "8"},
		{3, "24"},
		{5, "40"},
	}

	for _, tc := range testCases {
		path, params := parseWrappedURL(t, cfg.wrapForForecast("Guilin", "CN", tc.days))

		assert.Equal(t, "/data/2.5/forecast", path)
		assert.Equal(t, "Guilin,CN", params.Get("q"))
		assert.Equal(t, tc.expectedCnt, params.Get("cnt"), "days=%d", tc.days)
	}
}

func TestWrapForCoordinates(t *testing.T) {
	cfg := newTestConfig(t, "https://api.example.com/data/2.5")

	path, params := parseWrappedURL(t, cfg.wrapForCoordinates(25.2741, 110.2993))

	assert.Equal(t, "/data/2.5/weather", path)
	assert.Equal(t, "25.2741", params.Get("lat"))
	assert.Equal(t, "110.2993", params.Get("lon"))
	assert.Empty(t, params.Get("q"))
	assert.Equal(t, "metric", params.Get("units"))
}