package main

import (
	"net/http"
	"strconv"
)

// This file contains the main HTTP handlers for the application. Each handler
// validates the request, delegates to the fetch/cache pipeline, and writes a
// JSON response.

// handlerCurrentWeather retrieves current conditions for a city (cached) or
// a coordinate pair (uncached) and responds with the parsed, display-ready
// record.
func (cfg *apiConfig) handlerCurrentWeather(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != http.MethodGet {
		cfg.respondWithError(w, r,http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}

	query, hasCoords, err := cfg.queryFromRequest(r)
	if err != nil {
		cfg.respondWithError(w, r,http.StatusBadRequest, "Invalid location parameters", err)
		return
	}

	var raw []byte
	if hasCoords {
		cfg.logger.Debug("current weather request", "lat", query.Latitude, "lon", query.Longitude, "request_id", requestID(ctx))
		raw, err = cfg.GetWeatherByCoordinates(ctx, query.Latitude, query.Longitude)
	} else {
		cfg.logger.Debug("current weather request", "city", query.CityName, "request_id", requestID(ctx))
		raw, err = cfg.GetCurrentWeather(ctx, query)
	}
	if err != nil {
		cfg.respondWithError(w, r,statusForError(err), "Error getting current weather data", err)
		return
	}

	parsed, err := cfg.ParseWeatherData(raw, query.DisplayName)
	if err != nil {
		cfg.respondWithError(w, r,http.StatusInternalServerError, "Error parsing weather data", err)
		return
	}

	cfg.respondWithJSON(w, http.StatusOK, parsed)
}

// handlerForecast retrieves the three-hour interval forecast for a city and
// responds with the provider's payload verbatim; the schema is the
// provider's documented one and needs no reshaping here.
func (cfg *apiConfig) handlerForecast(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != http.MethodGet {
		cfg.respondWithError(w, r,http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}

	query, hasCoords, err := cfg.queryFromRequest(r)
	if err != nil || hasCoords {
		cfg.respondWithError(w, r,http.StatusBadRequest, "Forecast requires a city parameter", err)
		return
	}

	days := cfg.forecastDays
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		days, err = strconv.Atoi(daysStr)
		if err != nil || days < 1 {
			cfg.respondWithError(w, r,http.StatusBadRequest, "Invalid days parameter", err)
			return
		}
	}

	cfg.logger.Debug("forecast request", "city", query.CityName, "days", days, "request_id", requestID(ctx))
	raw, err := cfg.GetForecast(ctx, query, days)
	if err != nil {
		cfg.respondWithError(w, r,statusForError(err), "Error getting forecast data", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(raw); err != nil {
		cfg.logger.Error("error writing response", "error", err)
	}
}

// handlerCompare fetches current weather for several cities sequentially and
// responds with the comparison rows that succeeded.
func (cfg *apiConfig) handlerCompare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != http.MethodGet {
		cfg.respondWithError(w, r,http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}

	queries, err := cfg.parseCitiesParam(r.URL.Query().Get("cities"))
	if err != nil {
		cfg.respondWithError(w, r,http.StatusBadRequest, "Invalid cities parameter", err)
		return
	}

	cfg.logger.Debug("compare request", "cities", len(queries), "request_id", requestID(ctx))
	rows := cfg.CompareCities(ctx, queries)

	cfg.respondWithJSON(w, http.StatusOK, CompareResponse{Rows: rows})
}

// handlerFlushCache empties the cache. Registered only in dev mode.
func (cfg *apiConfig) handlerFlushCache(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		cfg.respondWithError(w, r,http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}
	if cfg.cache == nil {
		cfg.respondWithError(w, r,http.StatusConflict, "Cache is disabled", nil)
		return
	}
	if err := cfg.cache.Flush(r.Context()); err != nil {
		cfg.respondWithError(w, r,http.StatusInternalServerError, "Error flushing cache", err)
		return
	}
	cfg.respondWithJSON(w, http.StatusOK, map[string]string{"status": "cache flushed"})
}
