package main

import (
	"fmt"
	"net/url"
	"strconv"
)

// The wrapFor... functions build the provider request URLs. Units are fixed
// to metric and the language to the configured locale on every endpoint.

func (cfg *apiConfig) wrapForCurrentWeather(city, country string) string {
	q := url.Values{}
	q.Set("q", fmt.Sprintf("%s,%s", city, country))
	q.Set("appid", cfg.apiKey)
	q.Set("units", "metric")
	q.Set("lang", cfg.language)
	return cfg.baseURL + "/weather?" + q.Encode()
}

func (cfg *apiConfig) wrapForForecast(city, country string, days int) string {
	q := url.Values{}
	q.Set("q", fmt.Sprintf("%s,%s", city, country))
	q.Set("appid", cfg.apiKey)
	q.Set("units", "metric")
	q.Set("lang", cfg.language)
	// The provider returns one data point per three hours.
	q.Set("cnt", strconv.Itoa(days*8))
	return cfg.baseURL + "/forecast?" + q.Encode()
}

func (cfg *apiConfig) wrapForCoordinates(lat, lon float64) string {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', 4, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', 4, 64))
	q.Set("appid", cfg.apiKey)
	q.Set("units", "metric")
	q.Set("lang", cfg.language)
	return cfg.baseURL + "/weather?" + q.Encode()
}
