package main

import (
	"context"
)

// CompareCities fetches current weather for each query in order and reduces
// the results to comparison rows. Cities whose fetch or parse fails are
// logged and skipped; partial results are acceptable and failed cities get
// no placeholder row. Requests are strictly sequential, with a fixed delay
// between successive fetches to respect the provider's rate limit.
func (cfg *apiConfig) CompareCities(ctx context.Context, queries []WeatherQuery) []CityComparison {
	rows := make([]CityComparison, 0, len(queries))

	for i, query := range queries {
		if i > 0 {
			cfg.sleep(cfg.compareDelay)
		}

		raw, err := cfg.GetCurrentWeather(ctx, query)
		if err != nil {
			cfg.logger.Warn("skipping city in comparison", "city", query.CityName, "error", err)
			continue
		}

		parsed, err := cfg.ParseWeatherData(raw, query.DisplayName)
		if err != nil {
			cfg.logger.Warn("skipping unparseable payload in comparison", "city", query.CityName, "error", err)
			continue
		}

		rows = append(rows, CityComparison{
			City:        parsed.City,
			Temperature: parsed.Temperature,
			FeelsLike:   parsed.FeelsLike,
			Condition:   parsed.Condition,
			Humidity:    parsed.Humidity,
			WindSpeed:   parsed.WindSpeed,
			Comfort:     parsed.Comfort,
		})
	}

	return rows
}
