package main

// endpointKind identifies which provider endpoint a request (and its cache
// entry) belongs to. The kind is folded into the cache key, so entries for
// the same city never collide across endpoints.
type endpointKind string

const (
	endpointCurrent  endpointKind = "current"
	endpointForecast endpointKind = "forecast"
)

// WeatherQuery identifies a request target. Either CityName (optionally with
// CountryCode) or a coordinate pair must be present; empty fields fall back
// to the configured defaults. DisplayName only affects the parsed output.
type WeatherQuery struct {
	CityName    string
	CountryCode string
	DisplayName string
	Latitude    float64
	Longitude   float64
}

// ParsedWeather is the flat, display-ready record produced from one raw
// provider payload. It is consumed immediately by callers and has no
// persistence of its own.
type ParsedWeather struct {
	City           string  `json:"city"`
	ProviderCity   string  `json:"provider_city"`
	CountryCode    string  `json:"country_code"`
	ObservedAt     string  `json:"observed_at"`
	Condition      string  `json:"condition"`
	Description    string  `json:"description"`
	Temperature    float64 `json:"temperature_c"`
	FeelsLike      float64 `json:"feels_like_c"`
	TempMax        float64 `json:"temp_max_c"`
	TempMin        float64 `json:"temp_min_c"`
	Humidity       int     `json:"humidity"`
	Pressure       int     `json:"pressure_hpa"`
	WindSpeed      float64 `json:"wind_speed_ms"`
	WindDeg        int     `json:"wind_deg"`
	WindLabel      string  `json:"wind_label"`
	Clouds         int     `json:"clouds"`
	Visibility     int     `json:"visibility_m"`
	Sunrise        string  `json:"sunrise"`
	Sunset         string  `json:"sunset"`
	TimezoneOffset int     `json:"timezone_offset_s"`
	SourceAPI      string  `json:"source_api"`
	Comfort        string  `json:"comfort"`
}

// CityComparison is one row of the multi-city comparison table: the reduced
// field set a side-by-side view needs.
type CityComparison struct {
	City        string  `json:"city"`
	Temperature float64 `json:"temperature_c"`
	FeelsLike   float64 `json:"feels_like_c"`
	Condition   string  `json:"condition"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed_ms"`
	Comfort     string  `json:"comfort"`
}

type CompareResponse struct {
	Rows []CityComparison `json:"rows"`
}
