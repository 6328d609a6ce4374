package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// This file contains helpers for translating HTTP requests into weather
// queries and fetch errors back into HTTP status codes.

// queryFromRequest extracts a WeatherQuery from the request's query
// parameters. It supports either a city name (with optional country) or a
// latitude/longitude pair; hasCoords reports which form was used. With
// neither present the configured default city applies.
func (cfg *apiConfig) queryFromRequest(r *http.Request) (query WeatherQuery, hasCoords bool, err error) {
	cityName := r.URL.Query().Get("city")
	latStr := r.URL.Query().Get("lat")
	lonStr := r.URL.Query().Get("lon")

	if latStr != "" || lonStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return WeatherQuery{}, false, fmt.Errorf("invalid latitude: %v", err)
		}
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			return WeatherQuery{}, false, fmt.Errorf("invalid longitude: %v", err)
		}
		return WeatherQuery{Latitude: lat, Longitude: lon}, true, nil
	}

	query = WeatherQuery{
		CityName:    cityName,
		CountryCode: r.URL.Query().Get("country"),
		DisplayName: r.URL.Query().Get("name"),
	}
	if query.CityName == "" {
		query.DisplayName = cfg.displayName
	}
	return query, false, nil
}

// parseCitiesParam splits a comma-separated cities parameter into queries.
// Each element is either "City" or "City:CC" with an explicit country code;
// the configured default country applies otherwise.
func (cfg *apiConfig) parseCitiesParam(param string) ([]WeatherQuery, error) {
	var queries []WeatherQuery
	for _, raw := range strings.Split(param, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		city, country, found := strings.Cut(raw, ":")
		if !found {
			country = cfg.defaultCountry
		}
		if city == "" || country == "" {
			return nil, fmt.Errorf("invalid city entry %q", raw)
		}
		queries = append(queries, WeatherQuery{CityName: city, CountryCode: country})
	}
	if len(queries) == 0 {
		return nil, fmt.Errorf("cities parameter is empty")
	}
	return queries, nil
}

// statusForError maps the fetch error taxonomy onto HTTP status codes:
// an unresolvable city is the client's problem, a transient provider
// failure is a bad gateway.
func statusForError(err error) int {
	switch {
	case errors.Is(err, ErrCityNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrTransient):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
