package main

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// This file contains the core fetch/cache pipeline. Every fetch follows the
// same shape: derive the daily cache key, serve a fresh cached payload if one
// exists, otherwise issue a single blocking GET against the provider and
// persist the verbatim body on success. There is no internal retry; a failed
// attempt is final for that call.

// ErrCityNotFound signals that the provider could not resolve the requested
// city/country combination. Retrying the same query will not help.
var ErrCityNotFound = errors.New("city not found")

// ErrTransient covers network errors, timeouts and unexpected provider
// status codes. Callers may retry; this component never does.
var ErrTransient = errors.New("transient weather provider error")

// cacheKey derives the daily cache identifier for a city/endpoint pair:
// a short hash of the normalized city, the endpoint kind and the calendar
// date, suffixed with the kind for readable cache file names. Queries for
// the same city and kind on the same day deliberately collide.
func cacheKey(city string, kind endpointKind, now time.Time) string {
	normalized, err := normalizeCityName(city)
	if err != nil {
		normalized = strings.ToLower(city)
	}
	sum := md5.Sum(fmt.Appendf(nil, "%s_%s_%s", normalized, kind, now.Format("20060102")))
	return hex.EncodeToString(sum[:])[:8] + "_" + string(kind)
}

// GetCurrentWeather returns the raw current-conditions payload for a city,
// served from the cache when a same-day entry is still inside the freshness
// window. Empty query fields fall back to the configured defaults.
func (cfg *apiConfig) GetCurrentWeather(ctx context.Context, query WeatherQuery) (json.RawMessage, error) {
	city, country := cfg.resolveCity(query)

	key := cacheKey(city, endpointCurrent, time.Now())
	if raw, ok := cfg.lookupCache(ctx, key, endpointCurrent); ok {
		return raw, nil
	}

	cfg.logger.Debug("fetching current weather", "city", city, "country", country)
	raw, err := cfg.fetchPayload(ctx, cfg.httpClient, cfg.wrapForCurrentWeather(city, country), endpointCurrent)
	if err != nil {
		return nil, err
	}

	cfg.storeCache(ctx, key, raw)
	return raw, nil
}

// GetForecast returns the raw forecast payload for a city. The provider
// serves three-hour interval points, so the request asks for days*8 of them.
func (cfg *apiConfig) GetForecast(ctx context.Context, query WeatherQuery, days int) (json.RawMessage, error) {
	city, country := cfg.resolveCity(query)
	if days <= 0 {
		days = cfg.forecastDays
	}

	key := cacheKey(city, endpointForecast, time.Now())
	if raw, ok := cfg.lookupCache(ctx, key, endpointForecast); ok {
		return raw, nil
	}

	cfg.logger.Debug("fetching forecast", "city", city, "country", country, "days", days)
	raw, err := cfg.fetchPayload(ctx, cfg.forecastClient, cfg.wrapForForecast(city, country, days), endpointForecast)
	if err != nil {
		return nil, err
	}

	cfg.storeCache(ctx, key, raw)
	return raw, nil
}

// GetWeatherByCoordinates bypasses city-name resolution entirely. It is used
// for the rare disambiguation cases, so its call volume does not justify
// caching.
func (cfg *apiConfig) GetWeatherByCoordinates(ctx context.Context, lat, lon float64) (json.RawMessage, error) {
	cfg.logger.Debug("fetching weather by coordinates", "lat", lat, "lon", lon)
	return cfg.fetchPayload(ctx, cfg.httpClient, cfg.wrapForCoordinates(lat, lon), endpointCurrent)
}

// resolveCity applies the configured default city/country to a query with
// empty fields.
func (cfg *apiConfig) resolveCity(query WeatherQuery) (city, country string) {
	city = query.CityName
	if city == "" {
		city = cfg.defaultCity
	}
	country = query.CountryCode
	if country == "" {
		country = cfg.defaultCountry
	}
	return city, country
}

// fetchPayload performs one blocking GET against the provider and maps the
// outcome onto the error taxonomy: 200 returns the body verbatim, 404 is
// ErrCityNotFound, anything else (including transport errors) wraps
// ErrTransient.
func (cfg *apiConfig) fetchPayload(ctx context.Context, client *http.Client, url string, kind endpointKind) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building provider request: %w", err)
	}
	req.Header.Set("User-Agent", "tianqi/1.0")

	resp, err := client.Do(req)
	if err != nil {
		providerRequestsTotal.WithLabelValues(string(kind), "network_error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrTransient, err)
	}
	defer resp.Body.Close()

	providerRequestsTotal.WithLabelValues(string(kind), strconv.Itoa(resp.StatusCode)).Inc()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: reading response body: %v", ErrTransient, err)
		}
		return body, nil
	case http.StatusNotFound:
		return nil, ErrCityNotFound
	default:
		return nil, fmt.Errorf("%w: provider returned status %s", ErrTransient, resp.Status)
	}
}

// lookupCache reads the candidate entry for key. A hit returns the payload
// verbatim without distinguishing whether the remote data may have changed
// intraday; sub-window staleness is the accepted cost of bounding API call
// volume.
func (cfg *apiConfig) lookupCache(ctx context.Context, key string, kind endpointKind) (json.RawMessage, bool) {
	if !cfg.useCache || cfg.cache == nil {
		return nil, false
	}
	payload, err := cfg.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			cfg.logger.Warn("cache read failed", "key", key, "error", err)
		}
		cacheLookupsTotal.WithLabelValues(string(kind), "miss").Inc()
		return nil, false
	}
	cacheLookupsTotal.WithLabelValues(string(kind), "hit").Inc()
	cfg.logger.Debug("cache hit", "key", key)
	return payload, true
}

// storeCache persists a payload after a successful fetch. Cache write
// failures are logged and otherwise ignored; the fetched data is still
// returned to the caller.
func (cfg *apiConfig) storeCache(ctx context.Context, key string, payload []byte) {
	if !cfg.useCache || cfg.cache == nil {
		return
	}
	if err := cfg.cache.Set(ctx, key, payload); err != nil {
		cfg.logger.Warn("cache write failed", "key", key, "error", err)
	} else {
		cfg.logger.Debug("cached payload", "key", key, "bytes", len(payload))
	}
}
