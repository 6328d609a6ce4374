package main

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// ParseWeatherData transforms one raw current-conditions payload into a flat
// ParsedWeather record: the English condition keyword is mapped to the
// configured local-language label, temperatures are rounded to one decimal
// place, and the sunrise/sunset timestamps are rendered as wall-clock
// strings in the payload's own timezone offset.
func (cfg *apiConfig) ParseWeatherData(raw json.RawMessage, displayName string) (ParsedWeather, error) {
	var response responseCurrentWeatherOWM
	if err := json.Unmarshal(raw, &response); err != nil {
		return ParsedWeather{}, fmt.Errorf("decoding weather payload: %w", err)
	}
	if len(response.Weather) == 0 {
		return ParsedWeather{}, fmt.Errorf("weather payload has no condition entries")
	}

	if displayName == "" {
		displayName = response.Name
	}
	if displayName == "" {
		displayName = "未知城市"
	}

	condition := response.Weather[0].Main
	if label, ok := cfg.weatherLabels[condition]; ok {
		condition = label
	}

	zone := time.FixedZone("local", response.Timezone)
	temperature := Round(response.Main.Temp, 1)
	humidity := response.Main.Humidity

	parsed := ParsedWeather{
		City:           displayName,
		ProviderCity:   response.Name,
		CountryCode:    response.Sys.Country,
		ObservedAt:     time.Unix(response.Dt, 0).In(zone).Format("2006-01-02 15:04:05"),
		Condition:      condition,
		Description:    response.Weather[0].Description,
		Temperature:    temperature,
		FeelsLike:      Round(response.Main.FeelsLike, 1),
		TempMax:        Round(response.Main.TempMax, 1),
		TempMin:        Round(response.Main.TempMin, 1),
		Humidity:       humidity,
		Pressure:       response.Main.Pressure,
		WindSpeed:      response.Wind.Speed,
		WindDeg:        response.Wind.Deg,
		WindLabel:      windLabel(response.Wind.Speed),
		Clouds:         response.Clouds.All,
		Visibility:     response.Visibility,
		Sunrise:        time.Unix(response.Sys.Sunrise, 0).In(zone).Format("15:04:05"),
		Sunset:         time.Unix(response.Sys.Sunset, 0).In(zone).Format("15:04:05"),
		TimezoneOffset: response.Timezone,
		SourceAPI:      "OpenWeatherMap",
		Comfort:        ComfortIndex(temperature, float64(humidity), response.Wind.Speed),
	}

	return parsed, nil
}

// The following structs mirror the provider's current-conditions response
// schema, reduced to the fields this application consumes.
type responseCurrentWeatherOWM struct {
	Weather    []weatherEntry `json:"weather"`
	Main       mainReadings   `json:"main"`
	Wind       windReadings   `json:"wind"`
	Clouds     cloudReadings  `json:"clouds"`
	Visibility int            `json:"visibility"`
	Dt         int64          `json:"dt"`
	Sys        sysReadings    `json:"sys"`
	Timezone   int            `json:"timezone"`
	Name       string         `json:"name"`
}

type weatherEntry struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

type mainReadings struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMax   float64 `json:"temp_max"`
	TempMin   float64 `json:"temp_min"`
	Humidity  int     `json:"humidity"`
	Pressure  int     `json:"pressure"`
}

type windReadings struct {
	Speed float64 `json:"speed"`
	Deg   int     `json:"deg"`
}

type cloudReadings struct {
	All int `json:"all"`
}

type sysReadings struct {
	Country string `json:"country"`
	Sunrise int64  `json:"sunrise"`
	Sunset  int64  `json:"sunset"`
}

// Round rounds val to the given number of decimal places.
func Round(val float64, precision int) float64 {
	p := math.Pow10(precision)
	return math.Round(val*p) / p
}

// defaultWeatherLabels maps the provider's English condition keywords to
// Chinese display labels. Keywords missing from the map pass through
// unchanged, since the provider vocabulary may exceed this table.
func defaultWeatherLabels() map[string]string {
	return map[string]string{
		"Clear":        "晴朗",
		"Clouds":       "多云",
		"Rain":         "降雨",
		"Snow":         "降雪",
		"Thunderstorm": "雷暴",
		"Drizzle":      "毛毛雨",
		"Mist":         "薄雾",
		"Fog":          "雾",
		"Haze":         "霾",
		"Dust":         "沙尘",
		"Smoke":        "烟雾",
		"Ash":          "火山灰",
		"Squall":       "飑",
		"Tornado":      "龙卷风",
	}
}
